package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"referral-analytics/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if rl.Limit("1.2.3.4") || rl.Limit("1.2.3.4") {
		t.Fatalf("first two attempts must pass")
	}
	if !rl.Limit("1.2.3.4") {
		t.Fatalf("third attempt inside the window must be limited")
	}
	if rl.Limit("5.6.7.8") {
		t.Fatalf("other keys are independent")
	}

	now = now.Add(time.Minute)
	if rl.Limit("1.2.3.4") {
		t.Fatalf("attempts older than the window must expire")
	}
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		rl.Limit(ip)
	}
	if len(rl.attempts) != 3 {
		t.Fatalf("expected 3 tracked clients, got %d", len(rl.attempts))
	}

	now = now.Add(2 * time.Minute)
	if rl.Limit("10.0.0.9") {
		t.Fatal("fresh client must not be limited")
	}
	if len(rl.attempts) != 1 {
		t.Fatalf("idle clients should be dropped, tracked = %d", len(rl.attempts))
	}
	if _, ok := rl.attempts["10.0.0.9"]; !ok {
		t.Fatal("active client must stay tracked")
	}
}

func TestLoggerWritesRequestLine(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(Logger(zap.New(core)))
	var keys int
	r.GET("/items/:id", func(c *gin.Context) {
		keys = len(c.Keys)
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	if keys != 0 {
		t.Fatalf("logger must not leave values in the request context, got %d", keys)
	}
	entries := logs.FilterMessage("[GIN]").All()
	if len(entries) != 1 || entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected one warn line, got %+v", entries)
	}
	if got := entries[0].ContextMap()["path"]; got != "/items/42" {
		t.Fatalf("path = %v", got)
	}
}

func TestPerClientIPReturns429(t *testing.T) {
	r := gin.New()
	r.POST("/reports", PerClientIP(NewRateLimiter(1, time.Minute), zaptest.NewLogger(t)), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/reports", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}
}

func TestPerClientIPDisabled(t *testing.T) {
	r := gin.New()
	r.GET("/", PerClientIP(NewRateLimiter(0, time.Minute), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("limit 0 should disable limiting, got %d", w.Code)
		}
	}
}

func TestRequestIDPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger(zaptest.NewLogger(t)))
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = c.GetString(RequestIDKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	if seen != "abc-123" || w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, w.Header().Get(RequestIDHeader))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if len(w.Header().Get(RequestIDHeader)) != 36 {
		t.Fatalf("expected generated uuid, got %q", w.Header().Get(RequestIDHeader))
	}
}

func TestSetupCORS(t *testing.T) {
	r := gin.New()
	r.Use(SetupCORS(&config.Config{AllowedOrigins: []string{"https://app.example"}}))
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://app.example")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("allow origin = %q", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("unknown origin should be rejected, got %d", w.Code)
	}
}
