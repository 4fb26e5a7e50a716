package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter - скользящее окно попыток на ключ.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
	swept    time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Limit возвращает true, если лимит для key превышен. Отказ попыткой не считается.
func (rl *RateLimiter) Limit(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.swept) >= rl.window {
		rl.sweep(now)
	}
	// Очищаем старые попытки
	var valid []time.Time
	for _, t := range rl.attempts[key] {
		if now.Sub(t) < rl.window {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.attempts[key] = valid
		return true // превышен лимит
	}

	rl.attempts[key] = append(valid, now)
	return false
}

// sweep удаляет ключи, у которых все попытки вышли из окна. Вызывается под mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, attempts := range rl.attempts {
		if len(attempts) == 0 || now.Sub(attempts[len(attempts)-1]) >= rl.window {
			delete(rl.attempts, key)
		}
	}
	rl.swept = now
}

// PerClientIP ограничивает частоту запросов с одного IP. limit <= 0 отключает ограничение.
func PerClientIP(rl *RateLimiter, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if rl == nil || rl.limit <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if rl.Limit(ip) {
			logger.Warn("⚠️ Превышен лимит запросов",
				zap.String("ip", ip),
				zap.String("path", c.Request.URL.Path))
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
			return
		}
		c.Next()
	}
}
