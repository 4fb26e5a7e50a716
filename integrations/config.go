package integrations

import (
	"os"
	"strconv"
	"time"
)

// Config для внешних интеграций: выгрузка данных и LLM.
type IntegrationConfig struct {
	// Выгрузка
	ExportURL     string
	ExportTimeout time.Duration

	// LLM (OpenAI-совместимый API)
	LLMBaseURL     string
	LLMAPIKey      string
	LLMModel       string
	LLMTemperature float64
	LLMTimeout     time.Duration
}

// Загружаем конфиг из .env или переменных окружения
func LoadConfig() *IntegrationConfig {
	exportTimeout, err := time.ParseDuration(getEnv("EXPORT_TIMEOUT", "30s"))
	if err != nil {
		exportTimeout = 30 * time.Second
	}
	llmTimeout, err := time.ParseDuration(getEnv("LLM_TIMEOUT", "60s"))
	if err != nil {
		llmTimeout = 60 * time.Second
	}
	temperature, err := strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.2"), 64)
	if err != nil {
		temperature = 0.2
	}

	return &IntegrationConfig{
		// Выгрузка
		ExportURL:     getEnv("EXPORT_URL", "http://127.0.0.1:8090/export"),
		ExportTimeout: exportTimeout,

		// LLM
		LLMBaseURL:     getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:      getEnv("LLM_API_KEY", os.Getenv("OPENAI_API_KEY")),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTemperature: temperature,
		LLMTimeout:     llmTimeout,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
