package service

import (
	"context"

	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/model"
	"vidstream-go/internal/repository"
)

// SubscriptionService 订阅关系的读侧查询
type SubscriptionService struct {
	repos *repository.Repos
}

func NewSubscriptionService(store *repository.Store) *SubscriptionService {
	return &SubscriptionService{repos: store.Repos()}
}

// ChannelInfo 频道订阅数及当前用户是否已订阅，viewerID 为 0 表示未登录
func (s *SubscriptionService) ChannelInfo(ctx context.Context, viewerID, channelID int64) (*dto.SubscriptionInfo, error) {
	if channelID <= 0 {
		return nil, ErrInvalidID
	}
	channel, err := s.repos.Users.FindActive(ctx, channelID)
	if err != nil {
		return nil, notFoundAs(err, ErrChannelNotFound)
	}

	subscribed := false
	if viewerID > 0 && viewerID != channelID {
		subscribed, err = s.repos.Subscriptions.Exists(ctx, viewerID, channelID)
		if err != nil {
			return nil, err
		}
	}

	return &dto.SubscriptionInfo{
		ChannelID:        channelID,
		SubscribersCount: channel.SubscribersCount,
		IsSubscribed:     subscribed,
	}, nil
}

// ListSubscribers 频道的订阅者
func (s *SubscriptionService) ListSubscribers(ctx context.Context, channelID int64, page, pageSize int) (*dto.ChannelListData, error) {
	if channelID <= 0 {
		return nil, ErrInvalidID
	}
	if ok, err := s.repos.Users.ExistsActive(ctx, channelID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrChannelNotFound
	}

	subs, total, err := s.repos.Subscriptions.ListSubscribers(ctx, channelID, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	return buildChannelListData(subs, total, page, pageSize, func(sub *model.Subscription) *model.User {
		return sub.Subscriber
	}), nil
}

// ListSubscribedChannels 用户订阅的频道
func (s *SubscriptionService) ListSubscribedChannels(ctx context.Context, subscriberID int64, page, pageSize int) (*dto.ChannelListData, error) {
	if subscriberID <= 0 {
		return nil, ErrInvalidID
	}
	if ok, err := s.repos.Users.ExistsActive(ctx, subscriberID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrUserNotFound
	}

	subs, total, err := s.repos.Subscriptions.ListSubscribedChannels(ctx, subscriberID, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	return buildChannelListData(subs, total, page, pageSize, func(sub *model.Subscription) *model.User {
		return sub.Channel
	}), nil
}

func buildChannelListData(subs []model.Subscription, total int64, page, pageSize int, pick func(*model.Subscription) *model.User) *dto.ChannelListData {
	items := make([]dto.ChannelListItem, 0, len(subs))
	for i := range subs {
		u := pick(&subs[i])
		if u == nil {
			continue
		}
		items = append(items, dto.ChannelListItem{
			UserBrief:        *toUserBrief(u),
			SubscribersCount: u.SubscribersCount,
			SubscribedAt:     subs[i].CreatedAt,
		})
	}
	return &dto.ChannelListData{Channels: items, PaginationMeta: dto.NewPaginationMeta(total, page, pageSize)}
}
