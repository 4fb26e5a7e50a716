package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"referral-analytics/report"
)

func TestNarrateSendsRawReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-4o-mini" || req.Temperature != 0.2 || len(req.Messages) != 2 {
			t.Errorf("unexpected request %+v", req)
		}
		if req.Messages[0].Role != "system" || !strings.Contains(req.Messages[1].Content, "RAW-REPORT") {
			t.Errorf("messages = %+v", req.Messages)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Resumo executivo"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL + "/v1/", APIKey: "sk-test", Temperature: 0.2, Timeout: time.Second}, zaptest.NewLogger(t))
	got, err := client.Narrate(context.Background(), &report.Payload{RawReport: "RAW-REPORT"})
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}
	if got != "Resumo executivo" {
		t.Fatalf("Narrate = %q", got)
	}
}

func TestNarrateErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"api error", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, "bad key"},
		{"plain status", http.StatusBadGateway, `oops`, "status 502"},
		{"empty choices", http.StatusOK, `{"choices":[]}`, "empty choices"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewClient(Options{BaseURL: srv.URL}, nil).Narrate(context.Background(), &report.Payload{})
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
