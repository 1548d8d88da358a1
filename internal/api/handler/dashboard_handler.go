package handler

import (
	"vidstream-go/internal/api/response"
	"vidstream-go/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	statsService *service.StatsService
}

func NewDashboardHandler(statsService *service.StatsService) *DashboardHandler {
	return &DashboardHandler{statsService: statsService}
}

// ChannelStats GET /api/v1/dashboard/stats/:id
func (h *DashboardHandler) ChannelStats(c *gin.Context) {
	channelID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	stats, err := h.statsService.ChannelStats(c.Request.Context(), currentUser(c), channelID)
	if err != nil {
		handleServiceError(c, "Get channel stats", err)
		return
	}

	response.OK(c, "获取频道统计成功", stats)
}

// ChannelVideos GET /api/v1/dashboard/videos/:id
func (h *DashboardHandler) ChannelVideos(c *gin.Context) {
	channelID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}
	page, pageSize := parsePagination(c)

	data, err := h.statsService.ChannelVideos(c.Request.Context(), currentUser(c), channelID, page, pageSize)
	if err != nil {
		handleServiceError(c, "Get channel videos", err)
		return
	}

	response.OK(c, "获取频道视频成功", data)
}
