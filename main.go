package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"referral-analytics/config"
	"referral-analytics/handlers"
	"referral-analytics/integrations"
	"referral-analytics/internal/app"
	"referral-analytics/logging"
	"referral-analytics/middleware"
	"referral-analytics/report"
	"referral-analytics/scheduler"
	"referral-analytics/snapshot"
	"referral-analytics/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment")
	} else {
		fmt.Println("✅ .env file loaded and applied")
	}
	cfg := config.Load()
	icfg := integrations.LoadConfig()

	if err := logging.InitLogger(cfg.Production(), cfg.LogLevel); err != nil {
		log.Fatalf("❌ Ошибка инициализации логгера: %v", err)
	}
	logger := logging.L()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := app.NewSource(ctx, cfg, icfg, logger)
	if err != nil {
		logger.Fatal("❌ Ошибка подключения к источнику данных", zap.Error(err))
	}
	defer closeSource()

	narrator, closeNarrator := app.NewNarrator(ctx, cfg, icfg, logger)
	defer closeNarrator()

	store := snapshot.NewStore(source, logger)
	if cfg.ReloadOnStart {
		// Сервис поднимается и с пустым снимком: данные можно перечитать позже.
		if _, err := store.Reload(ctx); err != nil {
			logger.Warn("⚠️ Первичная загрузка данных не удалась", zap.Error(err))
		}
	}

	if cfg.ReloadSchedule != "" {
		sched := scheduler.NewScheduler(store, logger)
		if _, err := sched.AddReload(cfg.ReloadSchedule); err != nil {
			logger.Fatal("❌ Неверное расписание перезагрузки", zap.Error(err))
		}
		sched.Start(ctx)
	}

	assembler := report.NewAssembler(store, narrator, logger)
	h := handlers.NewHandler(store, assembler, utils.NewEmailService(cfg), logger)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("❌ Неверный список TRUSTED_PROXIES", zap.Error(err))
	}
	r.Use(middleware.SetupCORS(cfg))

	reportLimiter := middleware.NewRateLimiter(cfg.ReportRateLimit, cfg.ReportRateWindow)
	h.Register(r, middleware.PerClientIP(reportLimiter, logger))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("addr", srv.Addr), zap.String("mode", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("❌ HTTP сервер упал", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("🛑 Получен сигнал завершения, останавливаем сервер")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("❌ Ошибка остановки HTTP сервера", zap.Error(err))
	}
}
