package repository

import (
	"context"
	"time"

	"vidstream-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ViewRepository struct {
	db *gorm.DB
}

func NewViewRepository(db *gorm.DB) *ViewRepository {
	return &ViewRepository{db: db}
}

// ExistsForViewerSince 登录用户在 since 之后是否已有播放记录
func (r *ViewRepository) ExistsForViewerSince(ctx context.Context, videoID, viewerID int64, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.VideoView{}).
		Where("video_id = ? AND viewer_id = ? AND viewed_at > ?", videoID, viewerID, since).
		Limit(1).Count(&count).Error
	return count > 0, err
}

// ExistsForFingerprintSince 匿名访客（ip + user agent）在 since 之后是否已有播放记录
func (r *ViewRepository) ExistsForFingerprintSince(ctx context.Context, videoID int64, ip, userAgent string, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.VideoView{}).
		Where("video_id = ? AND viewer_id IS NULL AND ip = ? AND user_agent = ? AND viewed_at > ?",
			videoID, ip, userAgent, since).
		Limit(1).Count(&count).Error
	return count > 0, err
}

// Create 追加播放记录
func (r *ViewRepository) Create(ctx context.Context, view *model.VideoView) error {
	return r.db.WithContext(ctx).Create(view).Error
}

// CountByVideo 视频的播放记录数
func (r *ViewRepository) CountByVideo(ctx context.Context, videoID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.VideoView{}).Where("video_id = ?", videoID).Count(&count).Error
	return count, err
}

// AddWatchHistory 加入观看历史，已存在时不做任何事
func (r *ViewRepository) AddWatchHistory(ctx context.Context, userID, videoID int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
			DoNothing: true,
		}).
		Create(&model.WatchHistory{UserID: userID, VideoID: videoID}).Error
}

// ListWatchHistory 观看历史（最新在前，排除已删除视频）
func (r *ViewRepository) ListWatchHistory(ctx context.Context, userID int64, skip, limit int) ([]model.WatchHistory, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.WatchHistory{}).
		Joins("JOIN videos ON videos.id = watch_history.video_id").
		Where("watch_history.user_id = ?", userID).
		Scopes(notDeleted("videos"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.WatchHistory
	err := query.Preload("Video.Owner").
		Order("watch_history.created_at DESC").Order("watch_history.id DESC").
		Scopes(paginate(skip, limit)).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
