package model

import "time"

// Like 点赞关系，(user_id, target_kind, target_id) 唯一；取消点赞时物理删除
type Like struct {
	ID         int64      `gorm:"primaryKey;autoIncrement;comment:点赞记录ID" json:"id"`
	UserID     int64      `gorm:"not null;uniqueIndex:uq_likes_user_target,priority:1;comment:点赞用户ID" json:"user_id"`
	TargetKind TargetKind `gorm:"size:16;not null;uniqueIndex:uq_likes_user_target,priority:2;index:idx_likes_target,priority:1;comment:目标类型" json:"target_kind"`
	TargetID   int64      `gorm:"not null;uniqueIndex:uq_likes_user_target,priority:3;index:idx_likes_target,priority:2;comment:目标ID" json:"target_id"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;comment:点赞时间" json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}
