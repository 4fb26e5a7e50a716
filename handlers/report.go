package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type reportRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Email string `json:"email"`
}

// GenerateReportHandler собирает отчёт; пустое тело означает весь период.
func (h *Handler) GenerateReportHandler(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if req.Email != "" && (h.mailer == nil || !h.mailer.Configured()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "email delivery is not configured"})
		return
	}

	res, err := h.assembler.Assemble(c.Request.Context(), req.Start, req.End)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Email != "" {
		if err := h.mailer.SendReport(req.Email, res); err != nil {
			h.logger.Error("❌ Не удалось отправить отчёт", zap.String("to", req.Email), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		h.logger.Info("📧 Отчёт отправлен", zap.String("to", req.Email), zap.String("report_id", res.ID))
	}

	c.JSON(http.StatusOK, res)
}
