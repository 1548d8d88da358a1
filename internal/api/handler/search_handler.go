package handler

import (
	"errors"

	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/api/response"
	"vidstream-go/internal/service"
	"vidstream-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchVideos GET /api/v1/search/videos?q=
func (h *SearchHandler) SearchVideos(c *gin.Context) {
	var req dto.SearchVideoRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	data, err := h.searchService.SearchVideos(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, "Search videos", err)
		return
	}

	response.OK(c, "搜索成功", data)
}

// Reindex POST /api/v1/search/reindex（管理员）
func (h *SearchHandler) Reindex(c *gin.Context) {
	success, failed, err := h.searchService.Reindex(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrSearchIndexUnavailable) {
			response.ServiceUnavailable(c, err.Error())
			return
		}
		logger.Error("Sync videos to ES failed", zap.Error(err))
		response.InternalError(c, "同步失败")
		return
	}

	response.OK(c, "同步完成", gin.H{
		"success": success,
		"failed":  failed,
	})
}
