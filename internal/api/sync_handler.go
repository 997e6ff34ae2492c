package api

import (
	"fmt"
	"net/http"

	"FRCSync/internal/model"
	"FRCSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SyncHandler struct {
	syncService *service.SyncService
	logger      *logrus.Logger
}

func NewSyncHandler(syncService *service.SyncService, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		logger:      logger,
	}
}

// RunSyncHandler 触发一次同步pass
// @Summary 按类型同步上游数据
// @Param type path string true "同步类型（full/year/live）"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /sync/pass/{type} [post]
func (h *SyncHandler) RunSyncHandler(c *gin.Context) {
	syncType := model.SyncType(c.Param("type"))
	switch syncType {
	case model.SyncFull, model.SyncYear, model.SyncLive:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("未知的同步类型: %s", syncType),
		})
		return
	}

	if err := h.syncService.Run(c.Request.Context(), syncType); err != nil {
		h.logger.Errorf("同步%s失败: %v", syncType, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%s同步成功", syncType),
	})
}

// SyncEventHandler 触发单个赛事的同步单元
// @Summary 同步指定赛事
// @Param event_key path string true "赛事key（如2024caav）"
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /sync/event/{event_key} [post]
func (h *SyncHandler) SyncEventHandler(c *gin.Context) {
	eventKey := c.Param("event_key")

	if err := h.syncService.SyncEvent(c.Request.Context(), eventKey); err != nil {
		h.logger.Errorf("同步赛事%s失败: %v", eventKey, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("赛事%s同步成功", eventKey),
	})
}
