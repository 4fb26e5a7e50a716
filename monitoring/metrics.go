package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ResponseTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "Histogram of response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SnapshotReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_reloads_total",
			Help: "Snapshot reload attempts by result",
		},
		[]string{"result"},
	)

	SnapshotRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "snapshot_records",
			Help: "Number of records in the published snapshot",
		},
		[]string{"collection"},
	)

	ReportGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_generations_total",
			Help: "Report generation attempts by result",
		},
		[]string{"result"},
	)

	NarrativeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "narrative_duration_seconds",
			Help:    "Time spent waiting for the narrative writer",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
	)
)

// Метки результата.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

func resultLabel(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// ObserveReload учитывает попытку перезагрузки и размер опубликованного снимка.
func ObserveReload(err error, users, notifications int) {
	SnapshotReloadsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		return
	}
	SnapshotRecords.WithLabelValues("users").Set(float64(users))
	SnapshotRecords.WithLabelValues("notifications").Set(float64(notifications))
}

// ObserveReport учитывает попытку генерации отчёта.
func ObserveReport(err error) {
	ReportGenerationsTotal.WithLabelValues(resultLabel(err)).Inc()
}
