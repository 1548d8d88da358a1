package model

import (
	"time"

	"gorm.io/datatypes"
)

// 操作类型
const (
	ActionLikeVideo       = "LIKE_VIDEO"
	ActionUnlikeVideo     = "UNLIKE_VIDEO"
	ActionLikeComment     = "LIKE_COMMENT"
	ActionUnlikeComment   = "UNLIKE_COMMENT"
	ActionLikeTweet       = "LIKE_TWEET"
	ActionUnlikeTweet     = "UNLIKE_TWEET"
	ActionSubscribe       = "SUBSCRIBE"
	ActionUnsubscribe     = "UNSUBSCRIBE"
	ActionViewVideo       = "VIEW_VIDEO"
	ActionGetChannelStats = "GET_CHANNEL_STATS"
	ActionPublishVideo    = "PUBLISH_VIDEO"
	ActionUpdateVideo     = "UPDATE_VIDEO"
	ActionDeleteVideo     = "DELETE_VIDEO"
	ActionAddComment      = "ADD_COMMENT"
	ActionDeleteComment   = "DELETE_COMMENT"
	ActionCreateTweet     = "CREATE_TWEET"
	ActionDeleteTweet     = "DELETE_TWEET"
	ActionCreatePlaylist  = "CREATE_PLAYLIST"
	ActionDeletePlaylist  = "DELETE_PLAYLIST"
)

// ActivityLog 操作日志，ID 由 snowflake 生成，便于 worker 幂等落库
type ActivityLog struct {
	ID         int64          `gorm:"primaryKey;autoIncrement:false;comment:日志ID" json:"id"`
	UserID     *int64         `gorm:"index:idx_activity_logs_user_created,priority:1;comment:操作用户ID，匿名为空" json:"user_id"`
	Action     string         `gorm:"size:32;not null;index:idx_activity_logs_action;comment:操作类型" json:"action"`
	TargetKind TargetKind     `gorm:"size:16;not null;index:idx_activity_logs_target,priority:1;comment:目标类型" json:"target_kind"`
	TargetID   int64          `gorm:"not null;index:idx_activity_logs_target,priority:2;comment:目标ID" json:"target_id"`
	Metadata   datatypes.JSON `gorm:"comment:附加信息" json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;index:idx_activity_logs_user_created,priority:2;comment:发生时间" json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// All 返回需要迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&User{}, &Video{}, &Comment{}, &Tweet{}, &Like{}, &Subscription{},
		&VideoView{}, &WatchHistory{}, &Playlist{}, &PlaylistVideo{}, &ActivityLog{},
	}
}
