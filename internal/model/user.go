package model

import "time"

// User 用户模型，同时作为频道
type User struct {
	ID                        int64     `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	UserName                  string    `gorm:"size:64;not null;uniqueIndex:uq_users_user_name;comment:用户名" json:"user_name"`
	Email                     string    `gorm:"size:255;not null;uniqueIndex:uq_users_email;comment:邮箱" json:"email"`
	FullName                  string    `gorm:"size:128;not null;comment:昵称" json:"full_name"`
	Password                  string    `gorm:"size:255;not null;comment:密码" json:"-"`
	Avatar                    *string   `gorm:"size:500;comment:用户头像" json:"avatar"`
	CoverImage                *string   `gorm:"size:500;comment:频道封面" json:"cover_image"`
	UserRole                  string    `gorm:"size:16;not null;default:'user';comment:用户角色" json:"user_role"`
	SubscribersCount          int64     `gorm:"not null;default:0;comment:订阅者数量" json:"subscribers_count"`
	ChannelsSubscribedToCount int64     `gorm:"not null;default:0;comment:已订阅频道数量" json:"channels_subscribed_to_count"`
	IsDeleted                 bool      `gorm:"not null;default:false;index:idx_users_is_deleted;comment:删除标识" json:"-"`
	CreatedAt                 time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt                 time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
