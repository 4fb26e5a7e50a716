package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type memoryKV struct {
	data   map[string]string
	ttl    time.Duration
	getErr error
}

func (m *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.data[key] = value
	m.ttl = ttl
	return nil
}

func TestCachedNarratorReusesText(t *testing.T) {
	calls := 0
	inner := NarratorFunc(func(context.Context, *Payload) (string, error) {
		calls++
		return "texto", nil
	})
	kv := &memoryKV{data: map[string]string{}}
	cached := NewCachedNarrator(inner, kv, time.Hour, zaptest.NewLogger(t))

	p := &Payload{RawReport: "raw"}
	for i := 0; i < 3; i++ {
		got, err := cached.Narrate(context.Background(), p)
		if err != nil || got != "texto" {
			t.Fatalf("Narrate: %q %v", got, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", calls)
	}
	if kv.ttl != time.Hour {
		t.Fatalf("ttl not forwarded: %s", kv.ttl)
	}

	if _, err := cached.Narrate(context.Background(), &Payload{RawReport: "other"}); err != nil {
		t.Fatalf("Narrate: %v", err)
	}
	if calls != 2 {
		t.Fatalf("different raw report should miss the cache, calls=%d", calls)
	}
}

func TestCachedNarratorFallsThroughOnCacheError(t *testing.T) {
	inner := NarratorFunc(func(context.Context, *Payload) (string, error) { return "fresh", nil })
	kv := &memoryKV{data: map[string]string{}, getErr: errors.New("redis down")}
	cached := NewCachedNarrator(inner, kv, time.Minute, zaptest.NewLogger(t))

	got, err := cached.Narrate(context.Background(), &Payload{RawReport: "raw"})
	if err != nil || got != "fresh" {
		t.Fatalf("Narrate: %q %v", got, err)
	}
}

func TestCachedNarratorDoesNotCacheErrors(t *testing.T) {
	boom := errors.New("upstream")
	inner := NarratorFunc(func(context.Context, *Payload) (string, error) { return "", boom })
	kv := &memoryKV{data: map[string]string{}}
	cached := NewCachedNarrator(inner, kv, time.Minute, nil)

	if _, err := cached.Narrate(context.Background(), &Payload{RawReport: "raw"}); !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(kv.data) != 0 {
		t.Fatalf("error result was cached")
	}
}
