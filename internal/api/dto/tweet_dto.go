package dto

import "time"

// TweetRequest 发布/修改动态请求
type TweetRequest struct {
	Content string `json:"content" binding:"required,min=1,max=500"`
}

// TweetInfo 动态信息
type TweetInfo struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Content   string    `json:"content"`
	LikeCount int64     `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TweetListData 动态列表
type TweetListData struct {
	Tweets []TweetInfo `json:"tweets"`
	PaginationMeta
}
