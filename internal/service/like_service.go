package service

import (
	"context"

	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/model"
	"vidstream-go/internal/repository"
)

// LikeService 点赞的读侧查询，写入统一走 ToggleService
type LikeService struct {
	repos *repository.Repos
}

func NewLikeService(store *repository.Store) *LikeService {
	return &LikeService{repos: store.Repos()}
}

// Status 查询当前用户对目标的点赞状态与目标点赞数
func (s *LikeService) Status(ctx context.Context, userID int64, kind model.TargetKind, targetID int64) (*dto.LikeStatus, error) {
	if targetID <= 0 {
		return nil, ErrInvalidID
	}
	if !kind.Likeable() {
		return nil, ErrInvalidTargetKind
	}

	var count int64
	switch kind {
	case model.TargetVideo:
		v, err := s.repos.Videos.FindActive(ctx, targetID)
		if err != nil {
			return nil, notFoundAs(err, ErrVideoNotFound)
		}
		count = v.LikeCount
	case model.TargetComment:
		c, err := s.repos.Comments.FindByID(ctx, targetID)
		if err != nil {
			return nil, notFoundAs(err, ErrCommentNotFound)
		}
		count = c.LikeCount
	case model.TargetTweet:
		t, err := s.repos.Tweets.FindActive(ctx, targetID)
		if err != nil {
			return nil, notFoundAs(err, ErrTweetNotFound)
		}
		count = t.LikeCount
	}

	liked := false
	if userID > 0 {
		var err error
		liked, err = s.repos.Likes.Exists(ctx, userID, kind, targetID)
		if err != nil {
			return nil, err
		}
	}

	return &dto.LikeStatus{TargetKind: string(kind), TargetID: targetID, Liked: liked, LikeCount: count}, nil
}

// ListLikedVideos 用户点赞过的视频
func (s *LikeService) ListLikedVideos(ctx context.Context, userID int64, page, pageSize int) (*dto.VideoListData, error) {
	videos, total, err := s.repos.Likes.ListLikedVideos(ctx, userID, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	return buildVideoListData(videos, total, page, pageSize), nil
}

// BatchStatus 批量查询点赞状态
func (s *LikeService) BatchStatus(ctx context.Context, userID int64, kind model.TargetKind, targetIDs []int64) (map[int64]bool, error) {
	if !kind.Likeable() {
		return nil, ErrInvalidTargetKind
	}
	return s.repos.Likes.BatchCheckLiked(ctx, userID, kind, targetIDs)
}

// notFoundAs 记录不存在时替换为业务错误
func notFoundAs(err, target error) error {
	if repository.IsNotFound(err) {
		return target
	}
	return err
}
