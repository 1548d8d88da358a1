package repository

import (
	"context"

	"vidstream-go/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).Preload("Owner").First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ExistsActive 评论存在且所属视频未删除
func (r *CommentRepository) ExistsActive(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Joins("JOIN videos ON videos.id = comments.video_id").
		Scopes(notDeleted("videos")).
		Where("comments.id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// UpdateContent 更新评论（仅作者本人）
func (r *CommentRepository) UpdateContent(ctx context.Context, commentID, ownerID int64, content string) error {
	result := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ? AND owner_id = ?", commentID, ownerID).
		Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除评论（仅作者本人）
func (r *CommentRepository) Delete(ctx context.Context, commentID, ownerID int64) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", commentID, ownerID).Delete(&model.Comment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByVideo 视频评论列表（最新在前）
func (r *CommentRepository) ListByVideo(ctx context.Context, videoID int64, skip, limit int) ([]model.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Preload("Owner").Order("created_at DESC").Order("id DESC").
		Scopes(paginate(skip, limit)).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// AdjustLikeCount 评论点赞数 ±n（不低于 0）
func (r *CommentRepository) AdjustLikeCount(ctx context.Context, id int64, delta int) (bool, error) {
	return adjustCounter(r.db.WithContext(ctx), &model.Comment{}, id, "like_count", delta)
}
