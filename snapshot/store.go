package snapshot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"referral-analytics/models"
	"referral-analytics/monitoring"
)

// Source - откуда берётся выгрузка (HTTP-экспорт, PostgreSQL).
type Source interface {
	Fetch(ctx context.Context) (*models.Export, error)
}

// SourceFunc позволяет использовать функцию как Source.
type SourceFunc func(ctx context.Context) (*models.Export, error)

func (f SourceFunc) Fetch(ctx context.Context) (*models.Export, error) {
	return f(ctx)
}

// Snapshot - одно поколение данных. После публикации не изменяется.
type Snapshot struct {
	ID            string                `json:"id"`
	LoadedAt      time.Time             `json:"loaded_at"`
	Users         []models.User         `json:"-"`
	Notifications []models.Notification `json:"-"`
	Skipped       int                   `json:"skipped"`
}

// Info - сводка без самих записей.
type Info struct {
	ID            string    `json:"id"`
	LoadedAt      time.Time `json:"loaded_at"`
	Loaded        bool      `json:"loaded"`
	Users         int       `json:"users"`
	Notifications int       `json:"notifications"`
	Skipped       int       `json:"skipped"`
}

func (s *Snapshot) Info() Info {
	return Info{
		ID:            s.ID,
		LoadedAt:      s.LoadedAt,
		Loaded:        s.ID != "",
		Users:         len(s.Users),
		Notifications: len(s.Notifications),
		Skipped:       s.Skipped,
	}
}

var empty = &Snapshot{
	Users:         []models.User{},
	Notifications: []models.Notification{},
}

// Store владеет текущим снимком. Читатели получают целое поколение,
// перезагрузки выполняются по одной.
type Store struct {
	source Source
	logger *zap.Logger
	now    func() time.Time

	current atomic.Pointer[Snapshot]
	reload  sync.Mutex
}

func NewStore(source Source, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{source: source, logger: logger, now: time.Now}
	s.current.Store(empty)
	return s
}

// Current никогда не возвращает nil: до первой загрузки это пустой снимок.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload забирает выгрузку, собирает новый снимок в стороне и публикует его
// одной записью указателя. При ошибке текущий снимок остаётся прежним.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	s.reload.Lock()
	defer s.reload.Unlock()

	start := s.now()
	exp, err := s.source.Fetch(ctx)
	if err != nil {
		monitoring.ObserveReload(err, 0, 0)
		s.logger.Error("❌ Ошибка загрузки выгрузки", zap.Error(err))
		return nil, fmt.Errorf("reload snapshot: %w", err)
	}
	if exp == nil {
		exp = &models.Export{}
	}

	next := &Snapshot{
		ID:            uuid.NewString(),
		LoadedAt:      start.UTC(),
		Users:         exp.Users,
		Notifications: exp.Notifications,
		Skipped:       exp.Skipped,
	}
	if next.Users == nil {
		next.Users = []models.User{}
	}
	if next.Notifications == nil {
		next.Notifications = []models.Notification{}
	}
	s.current.Store(next)

	monitoring.ObserveReload(nil, len(next.Users), len(next.Notifications))
	s.logger.Info("✅ Снимок данных обновлён",
		zap.String("snapshot_id", next.ID),
		zap.Int("users", len(next.Users)),
		zap.Int("notifications", len(next.Notifications)),
		zap.Int("skipped", next.Skipped),
		zap.Duration("took", s.now().Sub(start)),
	)
	return next, nil
}
