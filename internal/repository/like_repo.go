package repository

import (
	"context"

	"vidstream-go/internal/model"

	"gorm.io/gorm"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Find 查询点赞关系，不存在时返回 gorm.ErrRecordNotFound
func (r *LikeRepository) Find(ctx context.Context, userID int64, kind model.TargetKind, targetID int64) (*model.Like, error) {
	var like model.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *LikeRepository) Create(ctx context.Context, userID int64, kind model.TargetKind, targetID int64) (*model.Like, error) {
	like := &model.Like{UserID: userID, TargetKind: kind, TargetID: targetID}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		return nil, err
	}
	return like, nil
}

// DeleteByID 物理删除点赞记录，返回是否删除了记录
func (r *LikeRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Like{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteByTarget 删除某个目标上的全部点赞，返回删除条数
func (r *LikeRepository) DeleteByTarget(ctx context.Context, kind model.TargetKind, targetID int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("target_kind = ? AND target_id = ?", kind, targetID).Delete(&model.Like{})
	return result.RowsAffected, result.Error
}

// Exists 是否已点赞
func (r *LikeRepository) Exists(ctx context.Context, userID int64, kind model.TargetKind, targetID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		Count(&count).Error
	return count > 0, err
}

// CountByTarget 统计某个目标的点赞关系数
func (r *LikeRepository) CountByTarget(ctx context.Context, kind model.TargetKind, targetID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("target_kind = ? AND target_id = ?", kind, targetID).Count(&count).Error
	return count, err
}

// ListLikedVideos 用户点赞过且仍可见的视频（按点赞时间倒序）
func (r *LikeRepository) ListLikedVideos(ctx context.Context, userID int64, skip, limit int) ([]model.Video, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Video{}).
		Joins("JOIN likes ON likes.target_id = videos.id AND likes.target_kind = ?", model.TargetVideo).
		Where("likes.user_id = ?", userID).
		Scopes(notDeleted("videos"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var videos []model.Video
	err := query.Preload("Owner").Order("likes.created_at DESC").Order("likes.id DESC").
		Scopes(paginate(skip, limit)).Find(&videos).Error
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// BatchCheckLiked 批量查询点赞状态
func (r *LikeRepository) BatchCheckLiked(ctx context.Context, userID int64, kind model.TargetKind, targetIDs []int64) (map[int64]bool, error) {
	if len(targetIDs) == 0 {
		return map[int64]bool{}, nil
	}

	var likedIDs []int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND target_kind = ? AND target_id IN ?", userID, kind, targetIDs).
		Pluck("target_id", &likedIDs).Error
	if err != nil {
		return nil, err
	}

	result := make(map[int64]bool, len(targetIDs))
	for _, id := range targetIDs {
		result[id] = false
	}
	for _, id := range likedIDs {
		result[id] = true
	}
	return result, nil
}
