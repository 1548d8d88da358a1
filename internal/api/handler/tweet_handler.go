package handler

import (
	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/api/response"
	"vidstream-go/internal/service"

	"github.com/gin-gonic/gin"
)

type TweetHandler struct {
	tweetService *service.TweetService
}

func NewTweetHandler(tweetService *service.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

// Create POST /api/v1/tweets
func (h *TweetHandler) Create(c *gin.Context) {
	var req dto.TweetRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.tweetService.Create(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		handleServiceError(c, "Create tweet", err)
		return
	}

	response.Created(c, "发布成功", info)
}

// Update PATCH /api/v1/tweets/:id
func (h *TweetHandler) Update(c *gin.Context) {
	tweetID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的动态ID")
		return
	}

	var req dto.TweetRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.tweetService.Update(c.Request.Context(), currentUser(c), tweetID, &req)
	if err != nil {
		handleServiceError(c, "Update tweet", err)
		return
	}

	response.OK(c, "更新成功", info)
}

// Delete DELETE /api/v1/tweets/:id
func (h *TweetHandler) Delete(c *gin.Context) {
	tweetID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的动态ID")
		return
	}

	if err := h.tweetService.Delete(c.Request.Context(), currentUser(c), tweetID); err != nil {
		handleServiceError(c, "Delete tweet", err)
		return
	}

	response.OK(c, "删除成功", nil)
}
