package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Register вешает API на роутер. reportLimit применяется только к генерации отчётов.
func (h *Handler) Register(r *gin.Engine, reportLimit gin.HandlerFunc) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthHandler)
		api.GET("/date", h.CurrentDateHandler)
		api.GET("/users/search", h.SearchUsersHandler)
		api.GET("/notifications", h.NotificationsHandler)
		api.GET("/points/summary", h.PointsSummaryHandler)
		api.GET("/points/total", h.TotalPointsHandler)
		api.GET("/referrers/top", h.TopReferrersHandler)
		api.GET("/churn-risk", h.ChurnRiskHandler)
		api.GET("/snapshot", h.SnapshotInfoHandler)
		api.POST("/snapshot/reload", h.ReloadSnapshotHandler)

		if reportLimit != nil {
			api.POST("/reports", reportLimit, h.GenerateReportHandler)
		} else {
			api.POST("/reports", h.GenerateReportHandler)
		}
	}
}
