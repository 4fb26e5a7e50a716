package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"referral-analytics/report"
)

const systemPrompt = `Você é um analista de negócios.
Você ajuda na informação do produto: Aplicativo Member-Get-Member gamificado, onde usuários convidam novos participantes por código. Cada conversão gera pontos e, após certo número de indicações, recebem bônus. O sistema registra novos usuários e notificações de indicações.
Sua tarefa é receber um relatório bruto (com métricas e dados JSON retirados da plataforma)
e transformá-lo em um texto estruturado, com:
1. Resumo executivo
2. Principais métricas destacadas
3. Insights e tendências (crescimento, quedas, riscos)
4. Recomendações de ação
5. Conclusão

Use linguagem clara e objetiva. Explique os números.`

const userPromptTemplate = `Aqui está o relatório bruto:

%s

Gere a análise interpretativa em PT-BR, mantendo os dados principais, mas enriquecendo com insights narrativos.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client - рассказчик отчёта поверх OpenAI-совместимого /chat/completions.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
	logger      *zap.Logger
}

type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

func NewClient(opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		logger:      logger,
	}
}

var _ report.Narrator = (*Client)(nil)

// Narrate отправляет сырой отчёт модели и возвращает её текст.
func (c *Client) Narrate(ctx context.Context, p *report.Payload) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPromptTemplate, p.RawReport)},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug("🤖 Запрос к LLM", zap.String("model", c.model), zap.Int("prompt_bytes", len(p.RawReport)))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	var result chatResponse
	decodeErr := json.Unmarshal(raw, &result)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && result.Error != nil && result.Error.Message != "" {
			return "", fmt.Errorf("chat completion: status %d: %s", resp.StatusCode, result.Error.Message)
		}
		return "", fmt.Errorf("chat completion: status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode chat response: %w", decodeErr)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}
	return result.Choices[0].Message.Content, nil
}
