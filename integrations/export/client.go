package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"referral-analytics/models"
)

const maxErrorBody = 512

// Client читает выгрузку {users, notifications} с HTTP-эндпоинта.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(url string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch выполняет GET и разбирает тело. Повторов нет.
func (c *Client) Fetch(ctx context.Context) (*models.Export, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build export request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("fetch export: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	exp, err := models.DecodeExport(resp.Body)
	if err != nil {
		return nil, err
	}
	if exp.Skipped > 0 {
		c.logger.Warn("⚠️ В выгрузке есть записи, которые не являются объектами",
			zap.Int("skipped", exp.Skipped))
	}
	c.logger.Debug("📥 Выгрузка получена",
		zap.String("url", c.url),
		zap.Int("users", len(exp.Users)),
		zap.Int("notifications", len(exp.Notifications)))
	return exp, nil
}
