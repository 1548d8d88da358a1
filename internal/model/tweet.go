package model

import "time"

// Tweet 动态模型
type Tweet struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:动态ID" json:"id"`
	OwnerID   int64     `gorm:"not null;index:idx_tweets_owner_created,priority:1;comment:发布者ID" json:"owner_id"`
	Content   string    `gorm:"type:text;not null;comment:动态内容" json:"content"`
	LikeCount int64     `gorm:"not null;default:0;comment:点赞数" json:"like_count"`
	IsDeleted bool      `gorm:"not null;default:false;comment:删除标识" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_tweets_owner_created,priority:2;comment:发布时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`
}

func (Tweet) TableName() string {
	return "tweets"
}
