package report

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
)

// Narrator превращает структурированный отчёт в связный текст.
// Реализация может быть медленной и недоступной; повторов здесь нет.
type Narrator interface {
	Narrate(ctx context.Context, p *Payload) (string, error)
}

// NarratorFunc позволяет использовать функцию как Narrator.
type NarratorFunc func(ctx context.Context, p *Payload) (string, error)

func (f NarratorFunc) Narrate(ctx context.Context, p *Payload) (string, error) {
	return f(ctx, p)
}

// KV - минимальное хранилище строк с TTL (Redis).
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedNarrator кэширует только текст рассказчика по хэшу сырого отчёта.
// Агрегаты всё равно считаются заново при каждом запросе.
type CachedNarrator struct {
	next   Narrator
	kv     KV
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedNarrator(next Narrator, kv KV, ttl time.Duration, logger *zap.Logger) *CachedNarrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedNarrator{next: next, kv: kv, ttl: ttl, logger: logger}
}

func cacheKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return "narrative:" + hex.EncodeToString(sum[:])
}

func (c *CachedNarrator) Narrate(ctx context.Context, p *Payload) (string, error) {
	key := cacheKey(p.RawReport)

	cached, ok, err := c.kv.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("⚠️ Кэш недоступен, запрашиваем текст напрямую", zap.Error(err))
	case ok:
		c.logger.Debug("📦 Текст отчёта взят из кэша", zap.String("key", key))
		return cached, nil
	}

	text, err := c.next.Narrate(ctx, p)
	if err != nil {
		return "", err
	}
	if err := c.kv.Set(ctx, key, text, c.ttl); err != nil {
		c.logger.Warn("⚠️ Не удалось сохранить текст в кэш", zap.Error(err))
	}
	return text, nil
}
