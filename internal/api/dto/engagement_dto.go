package dto

import "time"

// RelationInfo 点赞/订阅关系记录
type RelationInfo struct {
	ID         int64     `json:"id"`
	SubjectID  int64     `json:"subject_id"`
	TargetKind string    `json:"target_kind"`
	TargetID   int64     `json:"target_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToggleResult 切换结果，State 为 on/off，关闭时 Relation 为空
type ToggleResult struct {
	State    string        `json:"state"`
	Active   bool          `json:"active"`
	Relation *RelationInfo `json:"relation"`
	Count    int64         `json:"count"`
}

// LikeStatus 点赞状态
type LikeStatus struct {
	TargetKind string `json:"target_kind"`
	TargetID   int64  `json:"target_id"`
	Liked      bool   `json:"liked"`
	LikeCount  int64  `json:"like_count"`
}

// SubscriptionInfo 频道订阅信息
type SubscriptionInfo struct {
	ChannelID        int64 `json:"channel_id"`
	SubscribersCount int64 `json:"subscribers_count"`
	IsSubscribed     bool  `json:"is_subscribed"`
}

// ChannelListItem 订阅/订阅者列表中的用户
type ChannelListItem struct {
	UserBrief
	SubscribersCount int64     `json:"subscribers_count"`
	SubscribedAt     time.Time `json:"subscribed_at"`
}

// ChannelListData 订阅/订阅者列表
type ChannelListData struct {
	Channels []ChannelListItem `json:"channels"`
	PaginationMeta
}

// ViewResult 播放记录结果
type ViewResult struct {
	Viewed bool `json:"viewed"`
}

// TopVideo 统计中的热门视频
type TopVideo struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail_url"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CreatedAt    time.Time `json:"created_at"`
	Owner        UserBrief `json:"owner"`
}

// ChannelStats 频道统计
type ChannelStats struct {
	ChannelID         int64      `json:"channel_id"`
	TotalSubscribers  int64      `json:"total_subscribers"`
	TotalSubscribedTo int64      `json:"total_subscribed_to"`
	TotalVideos       int64      `json:"total_videos"`
	PublicVideos      int64      `json:"public_videos"`
	TotalViews        int64      `json:"total_views"`
	TotalLikes        int64      `json:"total_likes"`
	AvgViews          float64    `json:"avg_views"`
	AvgLikes          float64    `json:"avg_likes"`
	EngagementRate    float64    `json:"engagement_rate"`
	Top5Viewed        []TopVideo `json:"top5_viewed"`
	Top5Liked         []TopVideo `json:"top5_liked"`
}

// BatchLikeStatusRequest 批量查询点赞状态
type BatchLikeStatusRequest struct {
	TargetKind string  `json:"target_kind" binding:"required,oneof=video comment tweet"`
	TargetIDs  []int64 `json:"target_ids" binding:"required,min=1,max=100"`
}
