package model

import "time"

// Subscription 订阅关系，subscriber 订阅 channel
type Subscription struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;comment:订阅记录ID" json:"id"`
	SubscriberID int64     `gorm:"not null;uniqueIndex:uq_subscriptions_pair,priority:1;comment:订阅者ID" json:"subscriber_id"`
	ChannelID    int64     `gorm:"not null;uniqueIndex:uq_subscriptions_pair,priority:2;index:idx_subscriptions_channel_id;comment:频道ID" json:"channel_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime;comment:订阅时间" json:"created_at"`

	Subscriber *User `gorm:"foreignKey:SubscriberID" json:"subscriber,omitempty"`
	Channel    *User `gorm:"foreignKey:ChannelID" json:"channel,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
