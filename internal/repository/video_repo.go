package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vidstream-go/internal/model"

	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// VideoAggregate 频道公开视频的聚合结果
type VideoAggregate struct {
	VideoCount int64
	TotalViews int64
	TotalLikes int64
	AvgViews   float64
	AvgLikes   float64
}

// FindActive 根据 ID 获取未删除的视频
func (r *VideoRepository) FindActive(ctx context.Context, id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.WithContext(ctx).Scopes(notDeleted("")).Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// FindActiveWithOwner 获取视频（含上传者信息）
func (r *VideoRepository) FindActiveWithOwner(ctx context.Context, id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.WithContext(ctx).Preload("Owner").Scopes(notDeleted("")).
		Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// ExistsActive 视频是否存在且未删除
func (r *VideoRepository) ExistsActive(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Video{}).Scopes(notDeleted("")).
		Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// FindByIDs 批量查询未删除的公开视频，按传入顺序返回
func (r *VideoRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var videos []model.Video
	err := r.db.WithContext(ctx).Preload("Owner").Scopes(notDeleted("")).
		Where("id IN ? AND is_published = ? AND visibility = ?", ids, true, model.VisibilityPublic).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	ordered := make([]model.Video, 0, len(videos))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}
	return ordered, nil
}

// ListIndexable 按 ID 顺序分批读取可被搜索的视频（公开、已发布、未删除）
func (r *VideoRepository) ListIndexable(ctx context.Context, afterID int64, limit int) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.WithContext(ctx).Preload("Owner").Scopes(notDeleted("")).
		Where("id > ? AND is_published = ? AND visibility = ?", afterID, true, model.VisibilityPublic).
		Order("id ASC").Limit(limit).Find(&videos).Error
	return videos, err
}

// Create 创建视频记录
func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

// Update 更新视频字段（仅上传者本人）
func (r *VideoRepository) Update(ctx context.Context, id, ownerID int64, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Video{}).Scopes(notDeleted("")).
		Where("id = ? AND owner_id = ?", id, ownerID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDelete 软删除
func (r *VideoRepository) SoftDelete(ctx context.Context, id, ownerID int64) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.Video{}).Scopes(notDeleted("")).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": &now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// OwnerVideoFilter 频道视频列表的过滤条件
type OwnerVideoFilter struct {
	PublishedOnly  bool
	ExcludePrivate bool
}

// ListByOwner 频道视频列表
func (r *VideoRepository) ListByOwner(ctx context.Context, ownerID int64, filter OwnerVideoFilter, skip, limit int) ([]model.Video, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Video{}).Scopes(notDeleted("")).Where("owner_id = ?", ownerID)
	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if filter.ExcludePrivate {
		query = query.Where("visibility <> ?", model.VisibilityPrivate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var videos []model.Video
	err := query.Preload("Owner").Order("created_at DESC").Scopes(paginate(skip, limit)).Find(&videos).Error
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// SearchByTitle 标题/描述模糊搜索公开视频，搜索引擎不可用时的回退
func (r *VideoRepository) SearchByTitle(ctx context.Context, keyword string, skip, limit int) ([]model.Video, int64, error) {
	pattern := "%" + strings.ToLower(keyword) + "%"
	query := r.db.WithContext(ctx).Model(&model.Video{}).Scopes(notDeleted("")).
		Where("is_published = ? AND visibility = ?", true, model.VisibilityPublic).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var videos []model.Video
	err := query.Preload("Owner").Order("view_count DESC").Scopes(paginate(skip, limit)).Find(&videos).Error
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// AdjustLikeCount 点赞数 ±n（不低于 0）
func (r *VideoRepository) AdjustLikeCount(ctx context.Context, id int64, delta int) (bool, error) {
	return adjustCounter(r.db.WithContext(ctx), &model.Video{}, id, "like_count", delta)
}

// AdjustCommentCount 评论数 ±n（不低于 0）
func (r *VideoRepository) AdjustCommentCount(ctx context.Context, id int64, delta int) (bool, error) {
	return adjustCounter(r.db.WithContext(ctx), &model.Video{}, id, "comment_count", delta)
}

// IncrementViewCount 播放量 +1
func (r *VideoRepository) IncrementViewCount(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountActiveByOwner 频道未删除视频总数
func (r *VideoRepository) CountActiveByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Video{}).Scopes(notDeleted("")).
		Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *VideoRepository) publicOf(ctx context.Context, ownerID int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Video{}).Scopes(notDeleted("videos")).
		Where("videos.owner_id = ? AND videos.visibility <> ?", ownerID, model.VisibilityPrivate)
}

// AggregatePublic 频道非私有、未删除视频的播放/点赞汇总
func (r *VideoRepository) AggregatePublic(ctx context.Context, ownerID int64) (*VideoAggregate, error) {
	var agg VideoAggregate
	err := r.publicOf(ctx, ownerID).Select(
		"COUNT(*) AS video_count, " +
			"CAST(COALESCE(SUM(view_count), 0) AS BIGINT) AS total_views, " +
			"CAST(COALESCE(SUM(like_count), 0) AS BIGINT) AS total_likes, " +
			"CAST(COALESCE(AVG(view_count), 0) AS DOUBLE PRECISION) AS avg_views, " +
			"CAST(COALESCE(AVG(like_count), 0) AS DOUBLE PRECISION) AS avg_likes",
	).Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

// TopPublic 按播放量或点赞数倒序取前 limit 个视频（含上传者）
func (r *VideoRepository) TopPublic(ctx context.Context, ownerID int64, column string, limit int) ([]model.Video, error) {
	if column != "view_count" && column != "like_count" {
		return nil, fmt.Errorf("unsupported sort column %q", column)
	}
	var videos []model.Video
	err := r.publicOf(ctx, ownerID).Preload("Owner").
		Order(column + " DESC").Order("id ASC").Limit(limit).Find(&videos).Error
	return videos, err
}
