package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"referral-analytics/analytics"
	"referral-analytics/report"
	"referral-analytics/snapshot"
)

// SnapshotStore - то, что обработчикам нужно от snapshot.Store.
type SnapshotStore interface {
	Current() *snapshot.Snapshot
	Reload(ctx context.Context) (*snapshot.Snapshot, error)
}

// ReportAssembler - то, что обработчикам нужно от report.Assembler.
type ReportAssembler interface {
	Assemble(ctx context.Context, startRaw, endRaw string) (*report.Result, error)
}

// ReportMailer отправляет готовый отчёт по почте.
type ReportMailer interface {
	Configured() bool
	SendReport(to string, res *report.Result) error
}

type Handler struct {
	store     SnapshotStore
	assembler ReportAssembler
	mailer    ReportMailer
	logger    *zap.Logger
	now       func() time.Time
}

func NewHandler(store SnapshotStore, assembler ReportAssembler, mailer ReportMailer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, assembler: assembler, mailer: mailer, logger: logger, now: time.Now}
}

// query привязывает запросы к текущему поколению данных.
func (h *Handler) query() *analytics.Query {
	snap := h.store.Current()
	return analytics.NewQuery(snap.Users, snap.Notifications, h.now)
}

// intParam: отсутствующий параметр даёт 0 (значение по умолчанию у запроса).
func intParam(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + ": must be an integer"})
		return 0, false
	}
	if v == 0 {
		respondError(c, &analytics.InvalidArgumentError{Name: name, Value: v, Reason: "must be a positive integer"})
		return 0, false
	}
	return v, true
}

func (h *Handler) CurrentDateHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.query().CurrentDate())
}

func (h *Handler) SearchUsersHandler(c *gin.Context) {
	users := h.query().SearchUsers(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

func (h *Handler) NotificationsHandler(c *gin.Context) {
	limit, ok := intParam(c, "limit")
	if !ok {
		return
	}
	notifs, err := h.query().NotificationsByDate(analytics.NotificationFilter{
		InviterUID: c.Query("inviter_uid"),
		Start:      c.Query("start"),
		End:        c.Query("end"),
		Type:       c.Query("type"),
		Limit:      limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(notifs), "notifications": notifs})
}

func (h *Handler) PointsSummaryHandler(c *gin.Context) {
	summary, err := h.query().PointsSummary(c.Query("inviter_uid"), c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) TotalPointsHandler(c *gin.Context) {
	total, err := h.query().TotalPoints(c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points_total_period": total})
}

func (h *Handler) TopReferrersHandler(c *gin.Context) {
	limit, ok := intParam(c, "limit")
	if !ok {
		return
	}
	ranked, err := h.query().TopReferrers(c.Query("start"), c.Query("end"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"top_referrers": ranked})
}

func (h *Handler) ChurnRiskHandler(c *gin.Context) {
	days, ok := intParam(c, "days")
	if !ok {
		return
	}
	churn, err := h.query().ChurnRisk(days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, churn)
}
