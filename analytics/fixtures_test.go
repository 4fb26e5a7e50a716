package analytics

import (
	"strings"
	"testing"
	"time"

	"referral-analytics/models"
)

func loadExport(t *testing.T, body string) *models.Export {
	t.Helper()
	exp, err := models.DecodeExport(strings.NewReader(body))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return exp
}

func mustInstant(t *testing.T, raw string) time.Time {
	t.Helper()
	ts, ok, err := ParseInstant(raw)
	if err != nil || !ok {
		t.Fatalf("parse %q: ok=%v err=%v", raw, ok, err)
	}
	return ts
}

const sampleExport = `{
  "users": [
    {"uid": "u1", "name": "Ana", "email": "ana@example.com", "my_code": "ANA1", "points_total": 30, "created_at": "2023-12-01T10:00:00Z"},
    {"uid": "u2", "name": "Bruno", "email": "bruno@example.com", "my_code": "BRU2", "invited_by_code": "ANA1", "points_total": 0, "created_at": "2024-01-02T09:00:00Z"},
    {"uid": "u3", "name": "Carla", "email": "carla@example.com", "my_code": "CAR3", "invited_by_code": "ANA1", "points_total": "15", "created_at": "2024-01-20T12:00:00+03:00"},
    {"uid": "u4", "name": "Davi", "email": "davi@example.com", "my_code": "DAV4", "invited_by_code": "BRU2", "points_total": "n/a", "created_at": "not-a-date"},
    {"uid": "u5", "name": "Eva", "email": "eva@example.com", "my_code": "EVA5", "points_total": 50}
  ],
  "notifications": [
    {"inviter_uid": "u1", "type": "conversion", "points_awarded": "10", "created_at": "2024-01-05T00:00:00Z"},
    {"inviter_uid": "u1", "type": "Conversion", "points_awarded": 10, "created_at": "2024-01-21T08:00:00Z"},
    {"inviter_uid": "u3", "type": "conversion", "points_awarded": 15, "created_at": "2024-01-25T08:00:00Z"},
    {"inviter_uid": "u1", "type": "bonus", "points_awarded": 5, "created_at": "2024-01-10T00:00:00Z"},
    {"inviter_uid": "u9", "type": "conversion", "points_awarded": 10, "created_at": "2024-01-11T00:00:00Z"},
    {"type": "conversion", "points_awarded": 10, "created_at": "2024-01-12T00:00:00Z"},
    {"inviter_uid": "u3", "type": "streak", "points_awarded": 2, "created_at": "2024-01-15T00:00:00Z"},
    {"inviter_uid": "u1", "type": "conversion", "points_awarded": 10, "created_at": "bad"},
    {"inviter_uid": "u1", "type": "conversion", "points_awarded": 10, "created_at": "2024-02-15T00:00:00Z"}
  ]
}`
