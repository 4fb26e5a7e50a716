package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	Env            string
	LogLevel       string
	TrustedProxies []string
	AllowedOrigins []string

	// Источник выгрузки: http или postgres
	DataSource string

	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSSLMode          string
	UsersTable         string
	NotificationsTable string

	// Redis для кэша текстов отчётов; пустой адрес отключает кэш
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	NarrativeCacheTTL time.Duration

	// Cron-выражение перезагрузки снимка; пусто – без расписания
	ReloadSchedule string
	ReloadOnStart  bool

	ReportRateLimit  int
	ReportRateWindow time.Duration

	// SMTP для отправки отчётов
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string
}

const (
	DataSourceHTTP     = "http"
	DataSourcePostgres = "postgres"
)

func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		TrustedProxies: getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		DataSource: strings.ToLower(getEnv("DATA_SOURCE", DataSourceHTTP)),

		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", "postgres"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		UsersTable:         getEnv("USERS_TABLE", "users"),
		NotificationsTable: getEnv("NOTIFICATIONS_TABLE", "notifications"),

		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		NarrativeCacheTTL: getEnvAsDuration("NARRATIVE_CACHE_TTL", 24*time.Hour),

		ReloadSchedule: getEnv("RELOAD_SCHEDULE", ""),
		ReloadOnStart:  getEnvAsBool("RELOAD_ON_START", true),

		ReportRateLimit:  getEnvAsInt("REPORT_RATE_LIMIT", 5),
		ReportRateWindow: getEnvAsDuration("REPORT_RATE_WINDOW", time.Minute),

		// SMTP
		SMTPHost:     getEnv("SMTP_HOST", "smtp.yandex.ru"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		EmailFrom:    getEnv("EMAIL_FROM", ""),
	}

	log.Printf("📋 Конфигурация загружена: порт=%s, режим=%s, источник=%s, кэш=%v, расписание=%q",
		cfg.Port, cfg.Env, cfg.DataSource, cfg.RedisAddr != "", cfg.ReloadSchedule)
	return cfg
}

// Production - режим release у gin включает JSON-логи.
func (c *Config) Production() bool {
	return c.Env == "release"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	strVal := getEnv(key, "")
	if val, err := strconv.ParseBool(strVal); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	strVal := getEnv(key, "")
	if val, err := strconv.Atoi(strVal); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strVal := getEnv(key, "")
	if val, err := time.ParseDuration(strVal); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	val := getEnv(key, "")
	if val == "" {
		return defaultValue
	}
	parts := strings.Split(val, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}
