package service

import (
	"context"
	"strings"

	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/model"
	"vidstream-go/internal/repository"
)

type TweetService struct {
	repos    *repository.Repos
	recorder ActivityRecorder
}

func NewTweetService(store *repository.Store, recorder ActivityRecorder) *TweetService {
	return &TweetService{repos: store.Repos(), recorder: recorder}
}

// Create 发布动态
func (s *TweetService) Create(ctx context.Context, ownerID int64, req *dto.TweetRequest) (*dto.TweetInfo, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	tweet := &model.Tweet{OwnerID: ownerID, Content: content}
	if err := s.repos.Tweets.Create(ctx, tweet); err != nil {
		return nil, err
	}
	recordActivity(s.recorder, int64Ptr(ownerID), model.ActionCreateTweet, model.TargetTweet, tweet.ID, nil)
	return toTweetInfo(tweet), nil
}

// ListByUser 用户动态列表
func (s *TweetService) ListByUser(ctx context.Context, ownerID int64, page, pageSize int) (*dto.TweetListData, error) {
	if ownerID <= 0 {
		return nil, ErrInvalidID
	}
	if ok, err := s.repos.Users.ExistsActive(ctx, ownerID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrUserNotFound
	}

	tweets, total, err := s.repos.Tweets.ListByOwner(ctx, ownerID, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TweetInfo, 0, len(tweets))
	for i := range tweets {
		items = append(items, *toTweetInfo(&tweets[i]))
	}
	return &dto.TweetListData{Tweets: items, PaginationMeta: dto.NewPaginationMeta(total, page, pageSize)}, nil
}

// Update 修改动态（仅作者）
func (s *TweetService) Update(ctx context.Context, ownerID, tweetID int64, req *dto.TweetRequest) (*dto.TweetInfo, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if err := s.checkOwner(ctx, ownerID, tweetID); err != nil {
		return nil, err
	}
	if err := s.repos.Tweets.UpdateContent(ctx, tweetID, ownerID, content); err != nil {
		return nil, notFoundAs(err, ErrTweetNotFound)
	}
	tweet, err := s.repos.Tweets.FindActive(ctx, tweetID)
	if err != nil {
		return nil, notFoundAs(err, ErrTweetNotFound)
	}
	return toTweetInfo(tweet), nil
}

// Delete 软删除动态（仅作者）
func (s *TweetService) Delete(ctx context.Context, ownerID, tweetID int64) error {
	if err := s.checkOwner(ctx, ownerID, tweetID); err != nil {
		return err
	}
	if err := s.repos.Tweets.SoftDelete(ctx, tweetID, ownerID); err != nil {
		return notFoundAs(err, ErrTweetNotFound)
	}
	recordActivity(s.recorder, int64Ptr(ownerID), model.ActionDeleteTweet, model.TargetTweet, tweetID, nil)
	return nil
}

func (s *TweetService) checkOwner(ctx context.Context, ownerID, tweetID int64) error {
	if tweetID <= 0 {
		return ErrInvalidID
	}
	tweet, err := s.repos.Tweets.FindActive(ctx, tweetID)
	if err != nil {
		return notFoundAs(err, ErrTweetNotFound)
	}
	if tweet.OwnerID != ownerID {
		return ErrTweetNoPermission
	}
	return nil
}

func toTweetInfo(t *model.Tweet) *dto.TweetInfo {
	return &dto.TweetInfo{
		ID:        t.ID,
		OwnerID:   t.OwnerID,
		Content:   t.Content,
		LikeCount: t.LikeCount,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
