package handler

import (
	"vidstream-go/internal/api/response"
	"vidstream-go/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService     *service.UserService
	videoService    *service.VideoService
	tweetService    *service.TweetService
	playlistService *service.PlaylistService
}

func NewUserHandler(
	userService *service.UserService,
	videoService *service.VideoService,
	tweetService *service.TweetService,
	playlistService *service.PlaylistService,
) *UserHandler {
	return &UserHandler{
		userService:     userService,
		videoService:    videoService,
		tweetService:    tweetService,
		playlistService: playlistService,
	}
}

// GetChannel GET /api/v1/users/:id/channel
func (h *UserHandler) GetChannel(c *gin.Context) {
	channelID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	profile, err := h.userService.ChannelProfile(c.Request.Context(), currentUser(c), channelID)
	if err != nil {
		handleServiceError(c, "Get channel profile", err)
		return
	}

	response.OK(c, "获取成功", profile)
}

// ListVideos GET /api/v1/users/:id/videos
func (h *UserHandler) ListVideos(c *gin.Context) {
	ownerID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	page, pageSize := parsePagination(c)

	data, err := h.videoService.ListByOwner(c.Request.Context(), currentUser(c), ownerID, page, pageSize)
	if err != nil {
		handleServiceError(c, "List user videos", err)
		return
	}

	response.OK(c, "获取视频列表成功", data)
}

// ListTweets GET /api/v1/users/:id/tweets
func (h *UserHandler) ListTweets(c *gin.Context) {
	ownerID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	page, pageSize := parsePagination(c)

	data, err := h.tweetService.ListByUser(c.Request.Context(), ownerID, page, pageSize)
	if err != nil {
		handleServiceError(c, "List user tweets", err)
		return
	}

	response.OK(c, "获取动态列表成功", data)
}

// ListPlaylists GET /api/v1/users/:id/playlists
func (h *UserHandler) ListPlaylists(c *gin.Context) {
	ownerID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	page, pageSize := parsePagination(c)

	data, err := h.playlistService.ListByUser(c.Request.Context(), currentUser(c), ownerID, page, pageSize)
	if err != nil {
		handleServiceError(c, "List user playlists", err)
		return
	}

	response.OK(c, "获取播放列表成功", data)
}
