package model

import "time"

// Video 视频模型
type Video struct {
	ID           int64      `gorm:"primaryKey;autoIncrement;comment:视频标识" json:"id"`
	OwnerID      int64      `gorm:"not null;index:idx_videos_owner_id;index:idx_videos_owner_state,priority:1;comment:上传者ID" json:"owner_id"`
	Title        string     `gorm:"size:200;not null;comment:视频标题" json:"title"`
	Description  string     `gorm:"type:text;comment:视频描述" json:"description"`
	VideoURL     string     `gorm:"size:500;not null;comment:视频地址" json:"video_url"`
	ThumbnailURL string     `gorm:"size:500;comment:封面地址" json:"thumbnail_url"`
	Duration     float64    `gorm:"not null;default:0;comment:视频时长（秒）" json:"duration"`
	FileSize     int64      `gorm:"not null;default:0;comment:文件大小（字节）" json:"file_size"`
	IsPublished  bool       `gorm:"not null;index:idx_videos_owner_state,priority:2;comment:是否发布" json:"is_published"`
	Visibility   string     `gorm:"size:16;not null;default:'public';comment:可见性" json:"visibility"`
	ViewCount    int64      `gorm:"not null;default:0;comment:播放量" json:"view_count"`
	LikeCount    int64      `gorm:"not null;default:0;comment:点赞数" json:"like_count"`
	CommentCount int64      `gorm:"not null;default:0;comment:评论数" json:"comment_count"`
	IsDeleted    bool       `gorm:"not null;default:false;index:idx_videos_owner_state,priority:3;comment:删除标识" json:"-"`
	DeletedAt    *time.Time `gorm:"comment:删除时间" json:"-"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index:idx_videos_created_at;comment:创建时间" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Video) TableName() string {
	return "videos"
}
