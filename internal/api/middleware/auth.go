package middleware

import (
	"errors"
	"strings"

	"vidstream-go/internal/api/response"
	"vidstream-go/internal/model"
	"vidstream-go/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextKeyUserID   = "currentUserID"
	ContextKeyUserRole = "currentUserRole"
)

var errMissingToken = errors.New("缺少认证令牌")

// AuthRequired 必须携带有效的 Bearer Token
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c)
		switch {
		case errors.Is(err, errMissingToken):
			response.Unauthorized(c, err.Error())
			return
		case errors.Is(err, utils.ErrExpiredToken):
			response.Unauthorized(c, "认证令牌已过期")
			return
		case err != nil:
			response.Unauthorized(c, "无效的认证令牌")
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// AuthOptional Token 缺失或无效时按匿名访问
func AuthOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := authenticate(c); err == nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// AdminRequired 放在 AuthRequired 之后
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetCurrentUserID(c); !ok {
			response.Unauthorized(c, "缺少认证信息")
			return
		}
		if GetCurrentUserRole(c) != model.RoleAdmin {
			response.Forbidden(c, "需要管理员权限")
			return
		}
		c.Next()
	}
}

func GetCurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetCurrentUserRole 匿名时为空串
func GetCurrentUserRole(c *gin.Context) string {
	return c.GetString(ContextKeyUserRole)
}

func authenticate(c *gin.Context) (*utils.Claims, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return nil, errMissingToken
	}
	return utils.ParseToken(token)
}

// setClaims 旧 token 没有 role 字段时视为普通用户
func setClaims(c *gin.Context, claims *utils.Claims) {
	role := claims.Role
	if role == "" {
		role = model.RoleUser
	}
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyUserRole, role)
}
