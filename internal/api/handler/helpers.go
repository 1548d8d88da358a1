package handler

import (
	"strconv"

	"vidstream-go/internal/api/middleware"
	"vidstream-go/internal/api/response"
	"vidstream-go/internal/service"
	"vidstream-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleServiceError 按错误分类输出响应，内部错误只记录日志不暴露细节
func handleServiceError(c *gin.Context, op string, err error) {
	switch service.KindOf(err) {
	case service.KindValidation:
		response.BadRequest(c, err.Error())
	case service.KindUnauthorized:
		response.Unauthorized(c, err.Error())
	case service.KindForbidden:
		response.Forbidden(c, err.Error())
	case service.KindNotFound:
		response.NotFound(c, err.Error())
	case service.KindConflict:
		response.Conflict(c, err.Error())
	default:
		logger.FromContext(c.Request.Context()).Error(op+" failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func parseIDParam(c *gin.Context) (int64, error) {
	return parseNamedID(c, "id")
}

// parseNamedID 解析正整数路径参数
func parseNamedID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrInvalidID
	}
	return id, nil
}

// currentUser 取当前用户 ID，未登录时返回 0
func currentUser(c *gin.Context) int64 {
	uid, _ := middleware.GetCurrentUserID(c)
	return uid
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return false
	}
	return true
}
