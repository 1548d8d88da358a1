package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"vidstream-go/internal/api/dto"
	infraMinio "vidstream-go/internal/infra/minio"
	"vidstream-go/internal/model"
	"vidstream-go/internal/repository"
	"vidstream-go/pkg/logger"

	"go.uber.org/zap"
)

// MediaLocator 查找已上传到对象存储的媒体文件
type MediaLocator interface {
	Locate(ctx context.Context, objectName string) (*infraMinio.Object, error)
}

// VideoIndexer 把视频同步到搜索索引
type VideoIndexer interface {
	SyncVideo(ctx context.Context, v *model.Video, ownerName string) error
	DeleteVideo(ctx context.Context, videoID int64) error
}

const indexSyncTimeout = 5 * time.Second

type VideoService struct {
	store    *repository.Store
	media    MediaLocator
	indexer  VideoIndexer
	recorder ActivityRecorder
}

// NewVideoService indexer 可以为空，此时不维护搜索索引
func NewVideoService(store *repository.Store, media MediaLocator, indexer VideoIndexer, recorder ActivityRecorder) *VideoService {
	return &VideoService{store: store, media: media, indexer: indexer, recorder: recorder}
}

// Publish 发布视频：媒体文件必须已存在于对象存储
func (s *VideoService) Publish(ctx context.Context, ownerID int64, req *dto.VideoPublishRequest) (*dto.VideoInfo, error) {
	title := strings.TrimSpace(req.Title)
	desc := strings.TrimSpace(req.Description)
	if title == "" || desc == "" {
		return nil, ErrEmptyContent
	}

	videoObj, err := s.locate(ctx, req.VideoObject)
	if err != nil {
		return nil, err
	}
	thumbObj, err := s.locate(ctx, req.ThumbnailObject)
	if err != nil {
		return nil, err
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}

	video := &model.Video{
		OwnerID:      ownerID,
		Title:        title,
		Description:  desc,
		VideoURL:     videoObj.URL,
		ThumbnailURL: thumbObj.URL,
		Duration:     req.Duration,
		FileSize:     videoObj.Size,
		IsPublished:  true,
		Visibility:   visibility,
	}
	if err := s.store.Repos().Videos.Create(ctx, video); err != nil {
		return nil, err
	}

	video, err = s.store.Repos().Videos.FindActiveWithOwner(ctx, video.ID)
	if err != nil {
		return nil, err
	}
	s.syncIndex(video)
	recordActivity(s.recorder, int64Ptr(ownerID), model.ActionPublishVideo, model.TargetVideo, video.ID, nil)

	info := toVideoInfo(video)
	return &info, nil
}

func (s *VideoService) locate(ctx context.Context, objectName string) (*infraMinio.Object, error) {
	obj, err := s.media.Locate(ctx, objectName)
	if err != nil {
		if errors.Is(err, infraMinio.ErrObjectNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return obj, nil
}

// Get 获取视频详情；私有或未发布的视频只有上传者可见
func (s *VideoService) Get(ctx context.Context, viewerID, videoID int64) (*dto.VideoInfo, error) {
	if videoID <= 0 {
		return nil, ErrInvalidID
	}
	video, err := s.store.Repos().Videos.FindActiveWithOwner(ctx, videoID)
	if err != nil {
		return nil, notFoundAs(err, ErrVideoNotFound)
	}
	if video.OwnerID != viewerID && (video.Visibility == model.VisibilityPrivate || !video.IsPublished) {
		return nil, ErrVideoNotFound
	}
	info := toVideoInfo(video)
	return &info, nil
}

// Update 更新视频信息（仅上传者）
func (s *VideoService) Update(ctx context.Context, ownerID, videoID int64, req *dto.VideoUpdateRequest) (*dto.VideoInfo, error) {
	updates := make(map[string]interface{})
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrEmptyContent
		}
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Visibility != nil {
		updates["visibility"] = *req.Visibility
	}
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if err := s.checkOwner(ctx, ownerID, videoID); err != nil {
		return nil, err
	}
	if err := s.store.Repos().Videos.Update(ctx, videoID, ownerID, updates); err != nil {
		return nil, notFoundAs(err, ErrVideoNotFound)
	}

	video, err := s.store.Repos().Videos.FindActiveWithOwner(ctx, videoID)
	if err != nil {
		return nil, notFoundAs(err, ErrVideoNotFound)
	}
	s.syncIndex(video)
	recordActivity(s.recorder, int64Ptr(ownerID), model.ActionUpdateVideo, model.TargetVideo, videoID, updates)

	info := toVideoInfo(video)
	return &info, nil
}

// TogglePublish 切换发布状态（仅上传者）
func (s *VideoService) TogglePublish(ctx context.Context, ownerID, videoID int64) (*dto.VideoInfo, error) {
	if err := s.checkOwner(ctx, ownerID, videoID); err != nil {
		return nil, err
	}

	var video *model.Video
	err := s.store.Transaction(ctx, func(r *repository.Repos) error {
		current, err := r.Videos.FindActive(ctx, videoID)
		if err != nil {
			return notFoundAs(err, ErrVideoNotFound)
		}
		if err := r.Videos.Update(ctx, videoID, ownerID, map[string]interface{}{"is_published": !current.IsPublished}); err != nil {
			return notFoundAs(err, ErrVideoNotFound)
		}
		video, err = r.Videos.FindActiveWithOwner(ctx, videoID)
		return err
	})
	if err != nil {
		return nil, translateStoreError(err)
	}

	s.syncIndex(video)
	info := toVideoInfo(video)
	return &info, nil
}

// Delete 软删除视频（仅上传者）
func (s *VideoService) Delete(ctx context.Context, ownerID, videoID int64) error {
	if err := s.checkOwner(ctx, ownerID, videoID); err != nil {
		return err
	}
	if err := s.store.Repos().Videos.SoftDelete(ctx, videoID, ownerID); err != nil {
		return notFoundAs(err, ErrVideoNotFound)
	}

	if s.indexer != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), indexSyncTimeout)
			defer cancel()
			if err := s.indexer.DeleteVideo(ctx, videoID); err != nil {
				logger.Warn("Delete video from index failed", zap.Int64("video_id", videoID), zap.Error(err))
			}
		}()
	}
	recordActivity(s.recorder, int64Ptr(ownerID), model.ActionDeleteVideo, model.TargetVideo, videoID, nil)
	return nil
}

// ListByOwner 频道视频列表；本人查看时包含未发布和私有视频
func (s *VideoService) ListByOwner(ctx context.Context, viewerID, ownerID int64, page, pageSize int) (*dto.VideoListData, error) {
	if ownerID <= 0 {
		return nil, ErrInvalidID
	}
	others := viewerID != ownerID
	filter := repository.OwnerVideoFilter{PublishedOnly: others, ExcludePrivate: others}
	videos, total, err := s.store.Repos().Videos.ListByOwner(ctx, ownerID, filter, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	return buildVideoListData(videos, total, page, pageSize), nil
}

func (s *VideoService) checkOwner(ctx context.Context, ownerID, videoID int64) error {
	if videoID <= 0 {
		return ErrInvalidID
	}
	video, err := s.store.Repos().Videos.FindActive(ctx, videoID)
	if err != nil {
		return notFoundAs(err, ErrVideoNotFound)
	}
	if video.OwnerID != ownerID {
		return ErrVideoNoPermission
	}
	return nil
}

// syncIndex 异步同步搜索索引，失败只记录日志
func (s *VideoService) syncIndex(video *model.Video) {
	if s.indexer == nil || video == nil {
		return
	}
	ownerName := ""
	if video.Owner != nil {
		ownerName = video.Owner.UserName
	}
	v := *video
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), indexSyncTimeout)
		defer cancel()
		if err := s.indexer.SyncVideo(ctx, &v, ownerName); err != nil {
			logger.Warn("Sync video to index failed", zap.Int64("video_id", v.ID), zap.Error(err))
		}
	}()
}
