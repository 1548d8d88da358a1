package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vidstream-go/internal/api/response"
	"vidstream-go/internal/config"
	"vidstream-go/internal/model"
	"vidstream-go/internal/ratelimit"
	"vidstream-go/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setJWTConfig() {
	config.Set(&config.Config{
		App: config.AppConfig{Name: "vidstream-test"},
		JWT: config.JWTConfig{Secret: "test-secret", ExpireHours: 1},
	})
}

func bearer(t *testing.T, userID int64, role string) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func whoAmI(c *gin.Context) {
	uid, ok := GetCurrentUserID(c)
	c.JSON(http.StatusOK, gin.H{"user_id": uid, "authenticated": ok, "role": GetCurrentUserRole(c)})
}

func perform(r http.Handler, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	setJWTConfig()
	r := gin.New()
	r.GET("/me", AuthRequired(), whoAmI)

	w := perform(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusUnauthorized, body.Error.Code)
	assert.Equal(t, "Unauthorized", body.Error.Type)

	w = perform(r, http.MethodGet, "/me", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodGet, "/me", "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodGet, "/me", bearer(t, 7, model.RolePremium))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"authenticated":true,"role":"premium"}`, w.Body.String())
}

func TestAuthOptionalTreatsBadTokenAsAnonymous(t *testing.T) {
	setJWTConfig()
	r := gin.New()
	r.GET("/feed", AuthOptional(), whoAmI)

	w := perform(r, http.MethodGet, "/feed", "Bearer garbage")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0,"authenticated":false,"role":""}`, w.Body.String())

	w = perform(r, http.MethodGet, "/feed", bearer(t, 3, ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":3,"authenticated":true,"role":"user"}`, w.Body.String())
}

func TestAdminRequired(t *testing.T) {
	setJWTConfig()
	r := gin.New()
	r.POST("/reindex", AuthRequired(), AdminRequired(), whoAmI)

	w := perform(r, http.MethodPost, "/reindex", bearer(t, 1, model.RoleUser))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(r, http.MethodPost, "/reindex", bearer(t, 1, model.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
}

func newLimitedRouter(t *testing.T, enabled bool) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	reg, err := ratelimit.NewRegistry(client, config.RateLimitConfig{
		Enabled: enabled,
		Actions: map[string]config.RateLimitRule{
			"toggle_like": {Window: time.Minute, Normal: 2, Premium: 3},
		},
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/like", AuthOptional(), RateLimit(reg, ratelimit.ToggleLike), whoAmI)
	return r, mr
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	setJWTConfig()
	r, mr := newLimitedRouter(t, true)

	for i := 0; i < 2; i++ {
		w := perform(r, http.MethodPost, "/like", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("RateLimit-Limit"))
	}

	w := perform(r, http.MethodPost, "/like", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// 登录用户单独计数，premium 上限更高
	auth := bearer(t, 9, model.RolePremium)
	for i := 0; i < 3; i++ {
		w = perform(r, http.MethodPost, "/like", auth)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w = perform(r, http.MethodPost, "/like", auth)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// 窗口结束后重新计数
	mr.FastForward(time.Minute + time.Second)
	w = perform(r, http.MethodPost, "/like", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitAdminBypass(t *testing.T) {
	setJWTConfig()
	r, _ := newLimitedRouter(t, true)
	auth := bearer(t, 1, model.RoleAdmin)

	for i := 0; i < 5; i++ {
		w := perform(r, http.MethodPost, "/like", auth)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("RateLimit-Limit"))
	}
}

func TestRateLimitFailsOpenWhenRedisDown(t *testing.T) {
	setJWTConfig()
	r, mr := newLimitedRouter(t, true)
	mr.Close()

	for i := 0; i < 5; i++ {
		w := perform(r, http.MethodPost, "/like", "")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	setJWTConfig()
	r, _ := newLimitedRouter(t, false)

	for i := 0; i < 5; i++ {
		w := perform(r, http.MethodPost, "/like", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("RateLimit-Limit"))
	}
}

func TestAuthRequiredReportsExpiredToken(t *testing.T) {
	config.Set(&config.Config{
		App: config.AppConfig{Name: "vidstream-test"},
		JWT: config.JWTConfig{Secret: "test-secret", ExpireHours: -1},
	})
	expired := bearer(t, 5, model.RoleUser)

	r := gin.New()
	r.GET("/me", AuthRequired(), whoAmI)
	w := perform(r, http.MethodGet, "/me", expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "过期")
}

func TestRecoveryReturnsInternalError(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := perform(r, http.MethodGet, "/boom", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "InternalServerError", body.Error.Type)
}
