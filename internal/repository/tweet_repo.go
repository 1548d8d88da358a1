package repository

import (
	"context"

	"vidstream-go/internal/model"

	"gorm.io/gorm"
)

type TweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) *TweetRepository {
	return &TweetRepository{db: db}
}

func (r *TweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	return r.db.WithContext(ctx).Create(tweet).Error
}

// FindActive 根据 ID 获取未删除的动态
func (r *TweetRepository) FindActive(ctx context.Context, id int64) (*model.Tweet, error) {
	var tweet model.Tweet
	err := r.db.WithContext(ctx).Scopes(notDeleted("")).Where("id = ?", id).First(&tweet).Error
	if err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r *TweetRepository) ExistsActive(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Tweet{}).Scopes(notDeleted("")).
		Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListByOwner 用户动态列表（最新在前）
func (r *TweetRepository) ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]model.Tweet, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Tweet{}).Scopes(notDeleted("")).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tweets []model.Tweet
	err := query.Order("created_at DESC").Order("id DESC").Scopes(paginate(skip, limit)).Find(&tweets).Error
	if err != nil {
		return nil, 0, err
	}
	return tweets, total, nil
}

// UpdateContent 修改动态内容（仅作者本人）
func (r *TweetRepository) UpdateContent(ctx context.Context, id, ownerID int64, content string) error {
	result := r.db.WithContext(ctx).Model(&model.Tweet{}).Scopes(notDeleted("")).
		Where("id = ? AND owner_id = ?", id, ownerID).Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDelete 软删除动态（仅作者本人）
func (r *TweetRepository) SoftDelete(ctx context.Context, id, ownerID int64) error {
	result := r.db.WithContext(ctx).Model(&model.Tweet{}).Scopes(notDeleted("")).
		Where("id = ? AND owner_id = ?", id, ownerID).Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdjustLikeCount 动态点赞数 ±n（不低于 0）
func (r *TweetRepository) AdjustLikeCount(ctx context.Context, id int64, delta int) (bool, error) {
	return adjustCounter(r.db.WithContext(ctx), &model.Tweet{}, id, "like_count", delta)
}
