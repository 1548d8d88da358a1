package handler

import (
	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/api/middleware"
	"vidstream-go/internal/api/response"
	"vidstream-go/internal/service"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	videoService *service.VideoService
	viewService  *service.ViewService
}

func NewVideoHandler(videoService *service.VideoService, viewService *service.ViewService) *VideoHandler {
	return &VideoHandler{videoService: videoService, viewService: viewService}
}

// Publish POST /api/v1/videos
func (h *VideoHandler) Publish(c *gin.Context) {
	var req dto.VideoPublishRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.videoService.Publish(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		handleServiceError(c, "Publish video", err)
		return
	}

	response.Created(c, "发布成功", info)
}

// GetDetail GET /api/v1/videos/:id
func (h *VideoHandler) GetDetail(c *gin.Context) {
	videoID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	info, err := h.videoService.Get(c.Request.Context(), currentUser(c), videoID)
	if err != nil {
		handleServiceError(c, "Get video", err)
		return
	}

	response.OK(c, "获取成功", info)
}

// UpdateVideo PATCH /api/v1/videos/:id
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	videoID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	var req dto.VideoUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.videoService.Update(c.Request.Context(), currentUser(c), videoID, &req)
	if err != nil {
		handleServiceError(c, "Update video", err)
		return
	}

	response.OK(c, "更新成功", info)
}

// TogglePublish PATCH /api/v1/videos/:id/publish
func (h *VideoHandler) TogglePublish(c *gin.Context) {
	videoID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	info, err := h.videoService.TogglePublish(c.Request.Context(), currentUser(c), videoID)
	if err != nil {
		handleServiceError(c, "Toggle publish", err)
		return
	}

	response.OK(c, "发布状态已更新", info)
}

// DeleteVideo DELETE /api/v1/videos/:id
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	videoID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	if err := h.videoService.Delete(c.Request.Context(), currentUser(c), videoID); err != nil {
		handleServiceError(c, "Delete video", err)
		return
	}

	response.OK(c, "删除成功", nil)
}

// RecordView POST /api/v1/videos/:id/views
// 登录用户按用户去重，匿名按 IP + User-Agent 去重
func (h *VideoHandler) RecordView(c *gin.Context) {
	videoID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	var viewerID *int64
	if uid, ok := middleware.GetCurrentUserID(c); ok {
		viewerID = &uid
	}

	result, err := h.viewService.RecordView(c.Request.Context(), videoID, viewerID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		handleServiceError(c, "Record view", err)
		return
	}

	message := "播放已记录"
	if !result.Viewed {
		message = "窗口期内的重复播放，未计数"
	}
	response.OK(c, message, result)
}

// WatchHistory GET /api/v1/history
func (h *VideoHandler) WatchHistory(c *gin.Context) {
	page, pageSize := parsePagination(c)

	data, err := h.viewService.WatchHistory(c.Request.Context(), currentUser(c), page, pageSize)
	if err != nil {
		handleServiceError(c, "Get watch history", err)
		return
	}

	response.OK(c, "获取观看历史成功", data)
}
