package service

import (
	"context"
	"fmt"
	"time"

	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/config"
	"vidstream-go/internal/model"
	"vidstream-go/internal/repository"
	"vidstream-go/pkg/logger"

	"go.uber.org/zap"
)

// ViewService 播放量记录：同一观看者在窗口期内只计一次
type ViewService struct {
	store       *repository.Store
	recorder    ActivityRecorder
	window      time.Duration
	maxAttempts int
	now         func() time.Time
}

func NewViewService(store *repository.Store, recorder ActivityRecorder, cfg config.EngagementConfig) *ViewService {
	window := cfg.ViewWindow
	if window <= 0 {
		window = 10 * time.Minute
	}
	attempts := cfg.ViewMaxAttempts
	if attempts < 1 {
		attempts = 3
	}
	return &ViewService{
		store:       store,
		recorder:    recorder,
		window:      window,
		maxAttempts: attempts,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// RecordView 记录一次播放；viewerID 为空表示匿名访客，按 ip + user agent 去重
func (s *ViewService) RecordView(ctx context.Context, videoID int64, viewerID *int64, ip, userAgent string) (*dto.ViewResult, error) {
	if videoID <= 0 || (viewerID != nil && *viewerID <= 0) {
		return nil, ErrInvalidID
	}

	var (
		viewed bool
		err    error
	)
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		viewed, err = s.recordOnce(ctx, videoID, viewerID, ip, userAgent)
		if err == nil || !repository.IsConflict(err) {
			break
		}
		logger.Warn("Record view conflicted, retrying",
			zap.Int64("video_id", videoID),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}
	if err != nil {
		if repository.IsConflict(err) {
			return nil, fmt.Errorf("%w: %v", ErrViewRetriesExhausted, err)
		}
		return nil, err
	}

	if viewed {
		recordActivity(s.recorder, viewerID, model.ActionViewVideo, model.TargetVideo, videoID,
			map[string]interface{}{"ip": ip})
	}
	return &dto.ViewResult{Viewed: viewed}, nil
}

func (s *ViewService) recordOnce(ctx context.Context, videoID int64, viewerID *int64, ip, userAgent string) (bool, error) {
	viewed := false
	err := s.store.Transaction(ctx, func(r *repository.Repos) error {
		exists, err := r.Videos.ExistsActive(ctx, videoID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrVideoNotFound
		}

		now := s.now()
		since := now.Add(-s.window)

		var recent bool
		if viewerID != nil {
			recent, err = r.Views.ExistsForViewerSince(ctx, videoID, *viewerID, since)
		} else {
			recent, err = r.Views.ExistsForFingerprintSince(ctx, videoID, ip, userAgent, since)
		}
		if err != nil || recent {
			return err
		}

		view := &model.VideoView{
			VideoID:   videoID,
			ViewerID:  viewerID,
			IP:        ip,
			UserAgent: userAgent,
			ViewedAt:  now,
		}
		if err := r.Views.Create(ctx, view); err != nil {
			return err
		}
		if err := r.Videos.IncrementViewCount(ctx, videoID); err != nil {
			return err
		}
		if viewerID != nil {
			if err := r.Views.AddWatchHistory(ctx, *viewerID, videoID); err != nil {
				return err
			}
		}
		viewed = true
		return nil
	})
	return viewed, err
}

// WatchHistory 观看历史（最新在前）
func (s *ViewService) WatchHistory(ctx context.Context, userID int64, page, pageSize int) (*dto.WatchHistoryData, error) {
	items, total, err := s.store.Repos().Views.ListWatchHistory(ctx, userID, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WatchHistoryItem, 0, len(items))
	for i := range items {
		if items[i].Video == nil {
			continue
		}
		out = append(out, dto.WatchHistoryItem{Video: toVideoInfo(items[i].Video), WatchedAt: items[i].CreatedAt})
	}
	return &dto.WatchHistoryData{Items: out, PaginationMeta: dto.NewPaginationMeta(total, page, pageSize)}, nil
}
