package api

import (
	"errors"
	"net/http"
	"strconv"

	"FRCSync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EventHandler 提供只读的赛事/队伍查询接口（不触发任何写入）
type EventHandler struct {
	eventRepo *repository.EventRepository
	logger    *logrus.Logger
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(db *gorm.DB, logger *logrus.Logger) *EventHandler {
	return &EventHandler{
		eventRepo: repository.NewEventRepository(db),
		logger:    logger,
	}
}

// ListEvents 赛事列表接口
// GET /api/events?year=2024&district=2024ne&event_type=0&page=1&page_size=20
func (h *EventHandler) ListEvents(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := repository.EventFilter{
		Year:        year,
		DistrictKey: c.Query("district"),
	}
	if v := c.Query("event_type"); v != "" {
		if et, err := strconv.Atoi(v); err == nil {
			filter.EventType = &et
		}
	}

	events, total, err := h.eventRepo.ListEvents(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListEvents failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"events": events,
	})
}

// GetEventDetail 赛事详情接口
// GET /api/events/:event_key
func (h *EventHandler) GetEventDetail(c *gin.Context) {
	eventKey := c.Param("event_key")

	event, err := h.eventRepo.GetEvent(c.Request.Context(), eventKey)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "赛事不存在"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("GetEventDetail failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, event)
}

// GetEventRankings 赛事排名接口
// GET /api/events/:event_key/rankings
func (h *EventHandler) GetEventRankings(c *gin.Context) {
	eventKey := c.Param("event_key")

	rankings, err := h.eventRepo.ListEventRankings(c.Request.Context(), eventKey)
	if err != nil {
		h.logger.WithError(err).Error("GetEventRankings failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event_key": eventKey,
		"rankings":  rankings,
	})
}

// GetTeamDetail 队伍详情接口
// GET /api/teams/:team_key
func (h *EventHandler) GetTeamDetail(c *gin.Context) {
	teamKey := c.Param("team_key")

	team, err := h.eventRepo.GetTeam(c.Request.Context(), teamKey)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "队伍不存在"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("GetTeamDetail failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, team)
}
