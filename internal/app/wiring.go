package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"referral-analytics/config"
	"referral-analytics/database"
	"referral-analytics/integrations"
	"referral-analytics/integrations/export"
	"referral-analytics/integrations/llm"
	"referral-analytics/report"
	"referral-analytics/snapshot"
)

// Cleanup освобождает ресурсы, захваченные при сборке компонента.
type Cleanup func()

func noop() {}

// NewSource выбирает источник выгрузки по DATA_SOURCE.
func NewSource(ctx context.Context, cfg *config.Config, icfg *integrations.IntegrationConfig, logger *zap.Logger) (snapshot.Source, Cleanup, error) {
	switch cfg.DataSource {
	case config.DataSourceHTTP, "":
		logger.Info("📡 Источник данных: HTTP", zap.String("url", icfg.ExportURL))
		return export.NewClient(icfg.ExportURL, icfg.ExportTimeout, logger), noop, nil
	case config.DataSourcePostgres:
		if err := database.InitDB(ctx, cfg, logger); err != nil {
			return nil, nil, err
		}
		logger.Info("🐘 Источник данных: PostgreSQL",
			zap.String("users_table", cfg.UsersTable),
			zap.String("notifications_table", cfg.NotificationsTable))
		src := database.NewPostgresSource(database.Pool, cfg.UsersTable, cfg.NotificationsTable, logger)
		return src, func() { database.CloseDB(logger) }, nil
	default:
		return nil, nil, fmt.Errorf("unknown DATA_SOURCE %q (want %s or %s)", cfg.DataSource, config.DataSourceHTTP, config.DataSourcePostgres)
	}
}

// NewNarrator собирает LLM-клиента и, если задан REDIS_ADDR, кэш поверх него.
// Недоступный Redis не мешает запуску: кэш просто отключается.
func NewNarrator(ctx context.Context, cfg *config.Config, icfg *integrations.IntegrationConfig, logger *zap.Logger) (report.Narrator, Cleanup) {
	if icfg.LLMAPIKey == "" {
		logger.Warn("⚠️ LLM_API_KEY не задан, запросы к модели могут быть отклонены")
	}
	var narrator report.Narrator = llm.NewClient(llm.Options{
		BaseURL:     icfg.LLMBaseURL,
		APIKey:      icfg.LLMAPIKey,
		Model:       icfg.LLMModel,
		Temperature: icfg.LLMTemperature,
		Timeout:     icfg.LLMTimeout,
	}, logger)

	if cfg.RedisAddr == "" {
		return narrator, noop
	}
	client, err := database.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	if err != nil {
		logger.Warn("⚠️ Redis недоступен, кэш текстов отключён", zap.Error(err))
		return narrator, noop
	}
	cached := report.NewCachedNarrator(narrator, database.NewRedisAdapter(client), cfg.NarrativeCacheTTL, logger)
	return cached, func() { database.CloseRedis(client, logger) }
}
