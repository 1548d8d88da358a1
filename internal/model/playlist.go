package model

import "time"

// Playlist 播放列表
type Playlist struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:播放列表ID" json:"id"`
	OwnerID     int64     `gorm:"not null;index:idx_playlists_owner_id;comment:创建者ID" json:"owner_id"`
	Name        string    `gorm:"size:128;not null;comment:名称" json:"name"`
	Description string    `gorm:"type:text;comment:描述" json:"description"`
	Visibility  string    `gorm:"size:16;not null;default:'public';comment:可见性" json:"visibility"`
	IsDeleted   bool      `gorm:"not null;default:false;comment:删除标识" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`
}

func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistVideo 播放列表中的视频，(playlist_id, video_id) 唯一
type PlaylistVideo struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PlaylistID int64     `gorm:"not null;uniqueIndex:uq_playlist_videos_pair,priority:1;comment:播放列表ID" json:"playlist_id"`
	VideoID    int64     `gorm:"not null;uniqueIndex:uq_playlist_videos_pair,priority:2;comment:视频ID" json:"video_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime;comment:加入时间" json:"created_at"`

	Video *Video `gorm:"foreignKey:VideoID" json:"video,omitempty"`
}

func (PlaylistVideo) TableName() string {
	return "playlist_videos"
}
