package middleware

import (
	"fmt"
	"strconv"

	"vidstream-go/internal/api/response"
	"vidstream-go/internal/model"
	"vidstream-go/internal/ratelimit"
	"vidstream-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit 按动作限流：登录用户按用户 ID 计数，匿名按 IP；Redis 不可用时放行
func RateLimit(reg *ratelimit.Registry, action ratelimit.Action) gin.HandlerFunc {
	if !reg.Enabled() {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := reg.Limiter(action)

	return func(c *gin.Context) {
		subject := "ip:" + c.ClientIP()
		role := model.RoleUser
		if uid, ok := GetCurrentUserID(c); ok {
			subject = fmt.Sprintf("user:%d", uid)
			if r := GetCurrentUserRole(c); r != "" {
				role = r
			}
		}

		decision, err := limiter.Allow(c.Request.Context(), role, subject)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("Rate limiter unavailable, allowing request",
				zap.String("action", string(action)), zap.Error(err))
			c.Next()
			return
		}
		if decision.Limit >= 0 {
			c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
			c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			c.Header("RateLimit-Reset", strconv.Itoa(int(decision.ResetAfter.Seconds())))
		}
		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(decision.ResetAfter.Seconds())))
			response.TooManyRequests(c, "请求过于频繁，请稍后再试")
			return
		}
		c.Next()
	}
}
