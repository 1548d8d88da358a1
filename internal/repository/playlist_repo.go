package repository

import (
	"context"

	"vidstream-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaylistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) Create(ctx context.Context, p *model.Playlist) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FindActive 获取未删除的播放列表
func (r *PlaylistRepository) FindActive(ctx context.Context, id int64) (*model.Playlist, error) {
	var p model.Playlist
	err := r.db.WithContext(ctx).Scopes(notDeleted("")).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByOwner 用户的播放列表，includePrivate 为 false 时只返回公开列表
func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID int64, includePrivate bool, skip, limit int) ([]model.Playlist, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Playlist{}).Scopes(notDeleted("")).Where("owner_id = ?", ownerID)
	if !includePrivate {
		query = query.Where("visibility = ?", model.VisibilityPublic)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var lists []model.Playlist
	err := query.Order("created_at DESC").Order("id DESC").Scopes(paginate(skip, limit)).Find(&lists).Error
	if err != nil {
		return nil, 0, err
	}
	return lists, total, nil
}

// Update 更新播放列表字段
func (r *PlaylistRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Playlist{}).Scopes(notDeleted("")).
		Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddVideo 加入视频，已存在时忽略；返回是否新增
func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "playlist_id"}, {Name: "video_id"}},
			DoNothing: true,
		}).
		Create(&model.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RemoveVideo 移除视频；返回是否删除
func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&model.PlaylistVideo{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListVideos 播放列表中的未删除视频（按加入顺序）
func (r *PlaylistRepository) ListVideos(ctx context.Context, playlistID int64) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.WithContext(ctx).Model(&model.Video{}).
		Joins("JOIN playlist_videos ON playlist_videos.video_id = videos.id").
		Where("playlist_videos.playlist_id = ?", playlistID).
		Scopes(notDeleted("videos")).
		Preload("Owner").
		Order("playlist_videos.created_at ASC").Order("playlist_videos.id ASC").
		Find(&videos).Error
	return videos, err
}
