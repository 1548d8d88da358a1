package dto

import "time"

// VideoPublishRequest 发布视频请求，媒体文件已上传到对象存储，这里只传对象名
type VideoPublishRequest struct {
	Title           string  `json:"title" binding:"required,min=1,max=200"`
	Description     string  `json:"description" binding:"required,min=1"`
	VideoObject     string  `json:"video_object" binding:"required,max=500"`
	ThumbnailObject string  `json:"thumbnail_object" binding:"required,max=500"`
	Duration        float64 `json:"duration" binding:"omitempty,min=0"`
	Visibility      string  `json:"visibility" binding:"omitempty,oneof=public unlisted private"`
}

// VideoUpdateRequest 视频更新请求
type VideoUpdateRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,min=1"`
	Visibility  *string `json:"visibility" binding:"omitempty,oneof=public unlisted private"`
}

// VideoInfo 视频详情
type VideoInfo struct {
	ID           int64      `json:"id"`
	OwnerID      int64      `json:"owner_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	VideoURL     string     `json:"video_url"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Duration     float64    `json:"duration"`
	FileSize     int64      `json:"file_size"`
	IsPublished  bool       `json:"is_published"`
	Visibility   string     `json:"visibility"`
	ViewCount    int64      `json:"view_count"`
	LikeCount    int64      `json:"like_count"`
	CommentCount int64      `json:"comment_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Owner        *UserBrief `json:"owner,omitempty"`
}

// VideoListData 视频列表响应数据
type VideoListData struct {
	Videos []VideoInfo `json:"videos"`
	PaginationMeta
}

// WatchHistoryItem 观看历史条目
type WatchHistoryItem struct {
	Video     VideoInfo `json:"video"`
	WatchedAt time.Time `json:"watched_at"`
}

// WatchHistoryData 观看历史列表
type WatchHistoryData struct {
	Items []WatchHistoryItem `json:"items"`
	PaginationMeta
}
