package service

import (
	"context"

	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/repository"
)

type UserService struct {
	repos *repository.Repos
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{repos: store.Repos()}
}

// ChannelProfile 频道主页：用户公开信息、视频数与当前用户的订阅状态
func (s *UserService) ChannelProfile(ctx context.Context, viewerID, channelID int64) (*dto.ChannelProfile, error) {
	if channelID <= 0 {
		return nil, ErrInvalidID
	}
	user, err := s.repos.Users.FindActive(ctx, channelID)
	if err != nil {
		return nil, notFoundAs(err, ErrChannelNotFound)
	}

	videoCount, err := s.repos.Videos.CountActiveByOwner(ctx, channelID)
	if err != nil {
		return nil, err
	}

	subscribed := false
	if viewerID > 0 && viewerID != channelID {
		if subscribed, err = s.repos.Subscriptions.Exists(ctx, viewerID, channelID); err != nil {
			return nil, err
		}
	}

	info := toUserInfo(user)
	if viewerID != channelID {
		info.Email = ""
	}
	return &dto.ChannelProfile{UserInfo: info, IsSubscribed: subscribed, VideoCount: videoCount}, nil
}
