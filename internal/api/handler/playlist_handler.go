package handler

import (
	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/api/response"
	"vidstream-go/internal/service"

	"github.com/gin-gonic/gin"
)

type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

// Create POST /api/v1/playlists
func (h *PlaylistHandler) Create(c *gin.Context) {
	var req dto.PlaylistCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.playlistService.Create(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		handleServiceError(c, "Create playlist", err)
		return
	}

	response.Created(c, "创建成功", info)
}

// Get GET /api/v1/playlists/:id
func (h *PlaylistHandler) Get(c *gin.Context) {
	playlistID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的播放列表ID")
		return
	}

	info, err := h.playlistService.Get(c.Request.Context(), currentUser(c), playlistID)
	if err != nil {
		handleServiceError(c, "Get playlist", err)
		return
	}

	response.OK(c, "获取成功", info)
}

// Update PATCH /api/v1/playlists/:id
func (h *PlaylistHandler) Update(c *gin.Context) {
	playlistID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的播放列表ID")
		return
	}

	var req dto.PlaylistUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.playlistService.Update(c.Request.Context(), currentUser(c), playlistID, &req)
	if err != nil {
		handleServiceError(c, "Update playlist", err)
		return
	}

	response.OK(c, "更新成功", info)
}

// ToggleVisibility PATCH /api/v1/playlists/:id/visibility
func (h *PlaylistHandler) ToggleVisibility(c *gin.Context) {
	playlistID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的播放列表ID")
		return
	}

	info, err := h.playlistService.ToggleVisibility(c.Request.Context(), currentUser(c), playlistID)
	if err != nil {
		handleServiceError(c, "Toggle playlist visibility", err)
		return
	}

	response.OK(c, "可见性已更新", info)
}

// Delete DELETE /api/v1/playlists/:id
func (h *PlaylistHandler) Delete(c *gin.Context) {
	playlistID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的播放列表ID")
		return
	}

	if err := h.playlistService.Delete(c.Request.Context(), currentUser(c), playlistID); err != nil {
		handleServiceError(c, "Delete playlist", err)
		return
	}

	response.OK(c, "删除成功", nil)
}

// AddVideo PATCH /api/v1/playlists/:id/videos/:video_id
func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	playlistID, videoID, ok := parsePlaylistVideo(c)
	if !ok {
		return
	}

	info, err := h.playlistService.AddVideo(c.Request.Context(), currentUser(c), playlistID, videoID)
	if err != nil {
		handleServiceError(c, "Add video to playlist", err)
		return
	}

	response.OK(c, "已加入播放列表", info)
}

// RemoveVideo DELETE /api/v1/playlists/:id/videos/:video_id
func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	playlistID, videoID, ok := parsePlaylistVideo(c)
	if !ok {
		return
	}

	info, err := h.playlistService.RemoveVideo(c.Request.Context(), currentUser(c), playlistID, videoID)
	if err != nil {
		handleServiceError(c, "Remove video from playlist", err)
		return
	}

	response.OK(c, "已从播放列表移除", info)
}

func parsePlaylistVideo(c *gin.Context) (int64, int64, bool) {
	playlistID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的播放列表ID")
		return 0, 0, false
	}
	videoID, err := parseNamedID(c, "video_id")
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return 0, 0, false
	}
	return playlistID, videoID, true
}
