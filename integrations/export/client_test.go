package export

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestFetchDecodesExport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/export" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":[{"uid":"u1","points_total":"7"}, 3],"notifications":[{"inviter_uid":"u1","type":"bonus"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/export", time.Second, zaptest.NewLogger(t))
	exp, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(exp.Users) != 1 || exp.Users[0].PointsTotal != 7 {
		t.Fatalf("users = %+v", exp.Users)
	}
	if len(exp.Notifications) != 1 || exp.Skipped != 1 {
		t.Fatalf("notifications = %+v skipped=%d", exp.Notifications, exp.Skipped)
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil).Fetch(context.Background())
	if err == nil || !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "maintenance") {
		t.Fatalf("expected status error with body, got %v", err)
	}
}

func TestFetchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"users": [`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, time.Second, nil).Fetch(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}
