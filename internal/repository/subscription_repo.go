package repository

import (
	"context"

	"vidstream-go/internal/model"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Find 查询订阅关系，不存在时返回 gorm.ErrRecordNotFound
func (r *SubscriptionRepository) Find(ctx context.Context, subscriberID, channelID int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create 创建订阅关系
func (r *SubscriptionRepository) Create(ctx context.Context, subscriberID, channelID int64) (*model.Subscription, error) {
	sub := &model.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// DeleteByID 删除订阅关系
func (r *SubscriptionRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Subscription{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查订阅关系是否存在
func (r *SubscriptionRepository) Exists(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	return count > 0, err
}

// CountSubscribers 统计频道订阅者数（以关系表为准）
func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("channel_id = ?", channelID).Count(&count).Error
	return count, err
}

// CountSubscribedTo 统计用户订阅的频道数（以关系表为准）
func (r *SubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("subscriber_id = ?", subscriberID).Count(&count).Error
	return count, err
}

// ListSubscribers 频道的订阅者（分页，含订阅者信息）
func (r *SubscriptionRepository) ListSubscribers(ctx context.Context, channelID int64, skip, limit int) ([]model.Subscription, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("channel_id = ?", channelID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []model.Subscription
	err := query.Preload("Subscriber").Order("created_at DESC").Order("id DESC").
		Scopes(paginate(skip, limit)).Find(&subs).Error
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// ListSubscribedChannels 用户订阅的频道（分页，含频道信息）
func (r *SubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID int64, skip, limit int) ([]model.Subscription, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("subscriber_id = ?", subscriberID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []model.Subscription
	err := query.Preload("Channel").Order("created_at DESC").Order("id DESC").
		Scopes(paginate(skip, limit)).Find(&subs).Error
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}
