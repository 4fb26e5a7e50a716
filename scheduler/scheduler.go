package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"referral-analytics/snapshot"
)

const reloadTimeout = 2 * time.Minute

// Reloader - хранилище снимка, которое умеет перечитывать данные.
type Reloader interface {
	Reload(ctx context.Context) (*snapshot.Snapshot, error)
}

// Scheduler периодически перезагружает снимок данных по cron-выражению.
type Scheduler struct {
	store  Reloader
	logger *zap.Logger
	cron   *cron.Cron

	mu   sync.RWMutex
	jobs map[cron.EntryID]string
}

func NewScheduler(store Reloader, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		store:  store,
		logger: logger,
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		jobs:   make(map[cron.EntryID]string),
	}
}

// AddReload регистрирует задачу перезагрузки. Принимает стандартные
// пятипольные выражения и дескрипторы вида "@every 15m".
func (s *Scheduler) AddReload(spec string) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, s.reloadSnapshot)
	if err != nil {
		return 0, fmt.Errorf("invalid reload schedule %q: %w", spec, err)
	}
	s.mu.Lock()
	s.jobs[id] = "Snapshot Reload"
	s.mu.Unlock()
	s.logger.Info("✅ Задача зарегистрирована", zap.String("job", "Snapshot Reload"), zap.String("schedule", spec))
	return id, nil
}

// Start запускает cron и останавливает его при отмене ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("🚀 Планировщик запущен", zap.Int("jobs", s.JobCount()))
	s.cron.Start()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop ждёт завершения выполняющихся задач.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("🛑 Планировщик остановлен")
}

func (s *Scheduler) JobCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func (s *Scheduler) reloadSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	snap, err := s.store.Reload(ctx)
	if err != nil {
		s.logger.Error("❌ Плановая перезагрузка не удалась", zap.Error(err))
		return
	}
	s.logger.Info("🔄 Плановая перезагрузка выполнена", zap.String("snapshot_id", snap.ID))
}
