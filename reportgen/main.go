package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"referral-analytics/config"
	"referral-analytics/integrations"
	"referral-analytics/internal/app"
	"referral-analytics/logging"
	"referral-analytics/report"
	"referral-analytics/snapshot"
	"referral-analytics/utils"
)

func main() {
	start := flag.String("start", "", "start of the report window (ISO-8601, optional)")
	end := flag.String("end", "", "end of the report window (ISO-8601, optional)")
	outDir := flag.String("out", ".", "directory to write the report file into")
	email := flag.String("email", "", "also send the report to this address")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline for the run")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment")
	}
	cfg := config.Load()
	icfg := integrations.LoadConfig()

	if err := logging.InitLogger(cfg.Production(), cfg.LogLevel); err != nil {
		log.Fatalf("❌ Ошибка инициализации логгера: %v", err)
	}
	logger := logging.L()
	defer logger.Sync()

	if err := run(cfg, icfg, logger, *start, *end, *outDir, *email, *timeout); err != nil {
		logger.Error("❌ Отчёт не сформирован", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, icfg *integrations.IntegrationConfig, logger *zap.Logger, start, end, outDir, email string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	source, closeSource, err := app.NewSource(ctx, cfg, icfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	narrator, closeNarrator := app.NewNarrator(ctx, cfg, icfg, logger)
	defer closeNarrator()

	assembler := report.NewAssembler(snapshot.NewStore(source, logger), narrator, logger)
	res, err := assembler.Assemble(ctx, start, end)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outDir, res.FileName)
	if err := os.WriteFile(path, []byte(res.Content), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("Relatório gerado: %s\n", path)

	if email != "" {
		if err := utils.NewEmailService(cfg).SendReport(email, res); err != nil {
			return err
		}
		fmt.Printf("📧 Отчёт отправлен: %s\n", email)
	}
	return nil
}
