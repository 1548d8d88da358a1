package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vidstream-go/internal/api/handler"
	"vidstream-go/internal/config"
	"vidstream-go/internal/model"
	"vidstream-go/internal/ratelimit"
	"vidstream-go/internal/repository"
	"vidstream-go/internal/service"
	"vidstream-go/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Set(&config.Config{
		App:        config.AppConfig{Name: "vidstream-test"},
		JWT:        config.JWTConfig{Secret: "test-secret", ExpireHours: 1},
		Engagement: config.EngagementConfig{ViewWindow: 10 * time.Minute, ViewMaxAttempts: 3},
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))

	store, err := repository.NewStore(db, "")
	require.NoError(t, err)
	limits, err := ratelimit.NewRegistry(nil, config.RateLimitConfig{})
	require.NoError(t, err)

	toggleSvc := service.NewToggleService(store, nil)
	videoSvc := service.NewVideoService(store, nil, nil, nil)
	viewSvc := service.NewViewService(store, nil, config.Get().Engagement)
	tweetSvc := service.NewTweetService(store, nil)
	playlistSvc := service.NewPlaylistService(store, nil)

	h := &Handlers{
		Auth:         handler.NewAuthHandler(service.NewAuthService(store)),
		User:         handler.NewUserHandler(service.NewUserService(store), videoSvc, tweetSvc, playlistSvc),
		Video:        handler.NewVideoHandler(videoSvc, viewSvc),
		Like:         handler.NewLikeHandler(toggleSvc, service.NewLikeService(store)),
		Subscription: handler.NewSubscriptionHandler(toggleSvc, service.NewSubscriptionService(store)),
		Comment:      handler.NewCommentHandler(service.NewCommentService(store, nil)),
		Tweet:        handler.NewTweetHandler(tweetSvc),
		Playlist:     handler.NewPlaylistHandler(playlistSvc),
		Search:       handler.NewSearchHandler(service.NewSearchService(store, nil, nil)),
		Dashboard:    handler.NewDashboardHandler(service.NewStatsService(store, nil)),
	}

	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(nil))
	Setup(r, h, limits)
	return &testServer{engine: r, db: db}
}

func (s *testServer) do(t *testing.T, method, path string, userID int64, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "router-test")
	if userID > 0 {
		token, err := utils.GenerateToken(userID, model.RoleUser)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) seedUser(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{UserName: name, Email: name + "@example.com", FullName: name, Password: "x", UserRole: model.RoleUser}
	require.NoError(t, s.db.Create(u).Error)
	return u
}

func (s *testServer) seedVideo(t *testing.T, ownerID int64) *model.Video {
	t.Helper()
	v := &model.Video{OwnerID: ownerID, Title: "clip", VideoURL: "http://media/clip.mp4", IsPublished: true, Visibility: model.VisibilityPublic}
	require.NoError(t, s.db.Create(v).Error)
	return v
}

func errorType(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code int    `json:"code"`
			Type string `json:"type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, w.Code, body.Error.Code)
	return body.Error.Type
}

func TestToggleLikeEndpoint(t *testing.T) {
	s := newTestServer(t)
	owner := s.seedUser(t, "owner")
	fan := s.seedUser(t, "fan")
	video := s.seedVideo(t, owner.ID)
	path := fmt.Sprintf("/api/v1/likes/toggle/v/%d", video.ID)

	w := s.do(t, http.MethodPost, path, 0, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, path, fan.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			State  string `json:"state"`
			Active bool   `json:"active"`
			Count  int64  `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "on", body.Data.State)
	assert.Equal(t, int64(1), body.Data.Count)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/likes/status?target_kind=video&target_id=%d", video.ID), fan.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"liked":true`)

	w = s.do(t, http.MethodPost, "/api/v1/likes/toggle/v/999", fan.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NotFound", errorType(t, w))

	w = s.do(t, http.MethodPost, "/api/v1/likes/toggle/v/abc", fan.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleLikeConflictReturns409(t *testing.T) {
	s := newTestServer(t)
	owner := s.seedUser(t, "owner")
	fan := s.seedUser(t, "fan")
	video := s.seedVideo(t, owner.ID)

	require.NoError(t, s.db.Callback().Create().Before("gorm:create").Register("test:duplicate_like", func(tx *gorm.DB) {
		if tx.Statement.Table == "likes" {
			_ = tx.AddError(gorm.ErrDuplicatedKey)
		}
	}))

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/likes/toggle/v/%d", video.ID), fan.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Conflict", errorType(t, w))

	var v model.Video
	require.NoError(t, s.db.First(&v, video.ID).Error)
	assert.Zero(t, v.LikeCount)
}

func TestSubscriptionEndpoint(t *testing.T) {
	s := newTestServer(t)
	channel := s.seedUser(t, "channel")
	viewer := s.seedUser(t, "viewer")

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/subscriptions/c/%d", channel.ID), channel.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/subscriptions/c/%d", channel.ID), viewer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/subscriptions/c/%d", channel.ID), viewer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_subscribed":true`)
	assert.Contains(t, w.Body.String(), `"subscribers_count":1`)
}

func TestChannelProfileEndpoint(t *testing.T) {
	s := newTestServer(t)
	channel := s.seedUser(t, "channel")
	viewer := s.seedUser(t, "viewer")
	s.seedVideo(t, channel.ID)

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/subscriptions/c/%d", channel.ID), viewer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/channel", channel.ID), viewer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_subscribed":true`)
	assert.Contains(t, w.Body.String(), `"video_count":1`)
	assert.NotContains(t, w.Body.String(), "channel@example.com")

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/channel", channel.ID), channel.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "channel@example.com")

	w = s.do(t, http.MethodGet, "/api/v1/users/999/channel", 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NotFound", errorType(t, w))
}

func TestRecordViewEndpoint(t *testing.T) {
	s := newTestServer(t)
	owner := s.seedUser(t, "owner")
	video := s.seedVideo(t, owner.ID)
	path := fmt.Sprintf("/api/v1/videos/%d/views", video.ID)

	w := s.do(t, http.MethodPost, path, 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"viewed":true`)

	w = s.do(t, http.MethodPost, path, 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"viewed":false`)

	w = s.do(t, http.MethodPost, "/api/v1/videos/999/views", 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordViewIgnoresForwardedFor(t *testing.T) {
	s := newTestServer(t)
	owner := s.seedUser(t, "owner")
	video := s.seedVideo(t, owner.ID)
	path := fmt.Sprintf("/api/v1/videos/%d/views", video.ID)

	for i := 1; i <= 5; i++ {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set("User-Agent", "router-test")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), fmt.Sprintf(`"viewed":%t`, i == 1))
	}

	var v model.Video
	require.NoError(t, s.db.First(&v, video.ID).Error)
	assert.Equal(t, int64(1), v.ViewCount)
}

func TestDashboardEndpoints(t *testing.T) {
	s := newTestServer(t)
	owner := s.seedUser(t, "owner")
	other := s.seedUser(t, "other")
	s.seedVideo(t, owner.ID)

	w := s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/dashboard/stats/%d", owner.ID), other.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"public_videos":1`)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/dashboard/videos/%d", owner.ID), other.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", errorType(t, w))

	w = s.do(t, http.MethodGet, "/api/v1/dashboard/stats/999", other.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentEndpoints(t *testing.T) {
	s := newTestServer(t)
	owner := s.seedUser(t, "owner")
	video := s.seedVideo(t, owner.ID)
	path := fmt.Sprintf("/api/v1/videos/%d/comments", video.ID)

	w := s.do(t, http.MethodPost, path, owner.ID, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, path, owner.ID, map[string]string{"content": "great"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, path, 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestSearchEndpointFallsBackToDatabase(t *testing.T) {
	s := newTestServer(t)
	owner := s.seedUser(t, "owner")
	s.seedVideo(t, owner.ID)

	w := s.do(t, http.MethodGet, "/api/v1/search/videos?q=clip", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"database"`)

	w = s.do(t, http.MethodGet, "/api/v1/search/videos", 0, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
