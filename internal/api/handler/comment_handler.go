package handler

import (
	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/api/response"
	"vidstream-go/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create POST /api/v1/videos/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	videoID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	var req dto.CommentCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.commentService.Create(c.Request.Context(), currentUser(c), videoID, &req)
	if err != nil {
		handleServiceError(c, "Create comment", err)
		return
	}

	response.Created(c, "发表评论成功", info)
}

// ListByVideo GET /api/v1/videos/:id/comments
func (h *CommentHandler) ListByVideo(c *gin.Context) {
	videoID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}
	page, pageSize := parsePagination(c)

	data, err := h.commentService.ListByVideo(c.Request.Context(), videoID, page, pageSize)
	if err != nil {
		handleServiceError(c, "List comments", err)
		return
	}

	response.OK(c, "获取评论列表成功", data)
}

// Update PATCH /api/v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	commentID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的评论ID")
		return
	}

	var req dto.CommentUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.commentService.Update(c.Request.Context(), currentUser(c), commentID, &req)
	if err != nil {
		handleServiceError(c, "Update comment", err)
		return
	}

	response.OK(c, "更新评论成功", info)
}

// Delete DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的评论ID")
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), currentUser(c), commentID); err != nil {
		handleServiceError(c, "Delete comment", err)
		return
	}

	response.OK(c, "删除评论成功", nil)
}
