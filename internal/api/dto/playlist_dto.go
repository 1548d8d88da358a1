package dto

import "time"

// PlaylistCreateRequest 创建播放列表
type PlaylistCreateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=128"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Visibility  string `json:"visibility" binding:"omitempty,oneof=public private"`
}

// PlaylistUpdateRequest 更新播放列表
type PlaylistUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=128"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// PlaylistInfo 播放列表信息
type PlaylistInfo struct {
	ID          int64       `json:"id"`
	OwnerID     int64       `json:"owner_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Visibility  string      `json:"visibility"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Videos      []VideoInfo `json:"videos,omitempty"`
}

// PlaylistListData 播放列表列表
type PlaylistListData struct {
	Playlists []PlaylistInfo `json:"playlists"`
	PaginationMeta
}
