package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) SnapshotInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Current().Info())
}

func (h *Handler) ReloadSnapshotHandler(c *gin.Context) {
	snap, err := h.store.Reload(c.Request.Context())
	if err != nil {
		h.logger.Error("❌ Ручная перезагрузка не удалась", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap.Info())
}
