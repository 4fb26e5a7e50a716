package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"referral-analytics/analytics"
	"referral-analytics/monitoring"
	"referral-analytics/snapshot"
)

const (
	reportTopReferrers = 5
	reportChurnDays    = analytics.DefaultChurnDays
)

// Metadata повторяет границы в том виде, в каком их передал вызывающий.
type Metadata struct {
	Start     *string `json:"start"`
	End       *string `json:"end"`
	RawReport string  `json:"raw_report"`
}

// Result - готовый отчёт.
type Result struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	FileName string   `json:"file_name"`
	Metadata Metadata `json:"metadata"`
	Data     *Payload `json:"data"`
}

// Reloader - то, что умеет перечитать данные перед отчётом.
type Reloader interface {
	Reload(ctx context.Context) (*snapshot.Snapshot, error)
}

type Assembler struct {
	store    Reloader
	narrator Narrator
	logger   *zap.Logger
	now      func() time.Time
}

func NewAssembler(store Reloader, narrator Narrator, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{store: store, narrator: narrator, logger: logger, now: time.Now}
}

// WithClock подменяет источник текущего времени.
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Assemble проверяет границы, перечитывает данные и собирает отчёт за окно.
// Ошибки границ возвращаются до перезагрузки.
func (a *Assembler) Assemble(ctx context.Context, startRaw, endRaw string) (res *Result, err error) {
	defer func() { monitoring.ObserveReport(err) }()

	w, err := analytics.ParseWindow(startRaw, endRaw)
	if err != nil {
		return nil, err
	}

	snap, err := a.store.Reload(ctx)
	if err != nil {
		return nil, err
	}

	users := analytics.SelectUsers(snap.Users, w)
	notifs := analytics.SelectNotifications(snap.Notifications, w)

	top, err := analytics.RankReferrers(notifs, snap.Users, reportTopReferrers)
	if err != nil {
		return nil, err
	}
	reference := a.now().UTC()
	if w.End != nil {
		reference = *w.End
	}
	churn, err := analytics.DetectChurnRisk(users, reference, reportChurnDays)
	if err != nil {
		return nil, err
	}

	payload := &Payload{
		Period:        periodOf(w),
		PointsSummary: analytics.Summarize(notifs),
		TopReferrers:  top,
		ChurnRisk:     churn,
		Notifications: notifs,
	}
	payload.RawReport, err = RenderRaw(w, payload)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	content, err := a.narrator.Narrate(ctx, payload)
	monitoring.NarrativeDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		a.logger.Error("❌ Ошибка генерации текста отчёта", zap.Error(err))
		return nil, fmt.Errorf("narrate report: %w", err)
	}

	res = &Result{
		ID:       uuid.NewString(),
		Content:  content,
		FileName: FileName(w),
		Metadata: Metadata{
			Start:     optional(startRaw),
			End:       optional(endRaw),
			RawReport: payload.RawReport,
		},
		Data: payload,
	}
	a.logger.Info("📊 Отчёт сформирован",
		zap.String("report_id", res.ID),
		zap.String("snapshot_id", snap.ID),
		zap.String("file_name", res.FileName),
		zap.Int("notifications", len(notifs)),
		zap.Int("churn_risk", churn.Count),
	)
	return res, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
