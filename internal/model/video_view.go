package model

import "time"

// VideoView 播放记录，只追加，用于窗口内去重
type VideoView struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:播放记录ID" json:"id"`
	VideoID   int64     `gorm:"not null;index:idx_views_viewer,priority:1;index:idx_views_fingerprint,priority:1;comment:视频ID" json:"video_id"`
	ViewerID  *int64    `gorm:"index:idx_views_viewer,priority:2;comment:观看者ID，匿名为空" json:"viewer_id"`
	IP        string    `gorm:"size:64;index:idx_views_fingerprint,priority:2;comment:客户端IP" json:"ip"`
	UserAgent string    `gorm:"size:512;index:idx_views_fingerprint,priority:3;comment:客户端UA" json:"user_agent"`
	ViewedAt  time.Time `gorm:"not null;index:idx_views_viewer,priority:3;index:idx_views_fingerprint,priority:4;comment:观看时间" json:"viewed_at"`
}

func (VideoView) TableName() string {
	return "video_views"
}

// WatchHistory 观看历史，(user_id, video_id) 唯一，集合语义
type WatchHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_watch_history_pair,priority:1;comment:用户ID" json:"user_id"`
	VideoID   int64     `gorm:"not null;uniqueIndex:uq_watch_history_pair,priority:2;comment:视频ID" json:"video_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_watch_history_created_at;comment:首次观看时间" json:"created_at"`

	Video *Video `gorm:"foreignKey:VideoID" json:"video,omitempty"`
}

func (WatchHistory) TableName() string {
	return "watch_history"
}
