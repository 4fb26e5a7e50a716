package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) HealthHandler(c *gin.Context) {
	info := h.store.Current().Info()
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"time":            h.now().UTC(),
		"snapshot_loaded": info.Loaded,
		"snapshot_id":     info.ID,
	})
}
