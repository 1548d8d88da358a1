package handler

import (
	"strconv"

	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/api/response"
	"vidstream-go/internal/model"
	"vidstream-go/internal/service"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	toggleService *service.ToggleService
	likeService   *service.LikeService
}

func NewLikeHandler(toggleService *service.ToggleService, likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{toggleService: toggleService, likeService: likeService}
}

// ToggleVideoLike POST /api/v1/likes/toggle/v/:id
func (h *LikeHandler) ToggleVideoLike(c *gin.Context) {
	h.toggle(c, model.TargetVideo, "无效的视频ID")
}

// ToggleCommentLike POST /api/v1/likes/toggle/c/:id
func (h *LikeHandler) ToggleCommentLike(c *gin.Context) {
	h.toggle(c, model.TargetComment, "无效的评论ID")
}

// ToggleTweetLike POST /api/v1/likes/toggle/t/:id
func (h *LikeHandler) ToggleTweetLike(c *gin.Context) {
	h.toggle(c, model.TargetTweet, "无效的动态ID")
}

func (h *LikeHandler) toggle(c *gin.Context, kind model.TargetKind, badID string) {
	targetID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, badID)
		return
	}

	result, err := h.toggleService.Toggle(c.Request.Context(), currentUser(c), targetID, kind)
	if err != nil {
		handleServiceError(c, "Toggle like", err)
		return
	}

	message := "点赞成功"
	if !result.Active {
		message = "已取消点赞"
	}
	response.OK(c, message, result)
}

// GetStatus GET /api/v1/likes/status?target_kind=video&target_id=1
func (h *LikeHandler) GetStatus(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Query("target_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的目标ID")
		return
	}

	status, err := h.likeService.Status(c.Request.Context(), currentUser(c), model.TargetKind(c.Query("target_kind")), targetID)
	if err != nil {
		handleServiceError(c, "Get like status", err)
		return
	}

	response.OK(c, "获取成功", status)
}

// ListLikedVideos GET /api/v1/likes/videos
func (h *LikeHandler) ListLikedVideos(c *gin.Context) {
	page, pageSize := parsePagination(c)

	data, err := h.likeService.ListLikedVideos(c.Request.Context(), currentUser(c), page, pageSize)
	if err != nil {
		handleServiceError(c, "List liked videos", err)
		return
	}

	response.OK(c, "获取点赞视频列表成功", data)
}

// BatchStatus POST /api/v1/likes/batch/status
func (h *LikeHandler) BatchStatus(c *gin.Context) {
	var req dto.BatchLikeStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.likeService.BatchStatus(c.Request.Context(), currentUser(c), model.TargetKind(req.TargetKind), req.TargetIDs)
	if err != nil {
		handleServiceError(c, "Batch like status", err)
		return
	}

	response.OK(c, "获取成功", result)
}
