package service

import (
	"context"
	"math"

	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/model"
	"vidstream-go/internal/repository"

	"golang.org/x/sync/errgroup"
)

const topVideosLimit = 5

// StatsService 频道统计，只读取计数器，不做修改
type StatsService struct {
	repos    *repository.Repos
	recorder ActivityRecorder
}

func NewStatsService(store *repository.Store, recorder ActivityRecorder) *StatsService {
	return &StatsService{repos: store.Repos(), recorder: recorder}
}

// ChannelStats 汇总频道的订阅、播放、点赞数据
func (s *StatsService) ChannelStats(ctx context.Context, requesterID, channelID int64) (*dto.ChannelStats, error) {
	if channelID <= 0 {
		return nil, ErrInvalidID
	}

	channel, err := s.repos.Users.FindActive(ctx, channelID)
	if err != nil {
		return nil, notFoundAs(err, ErrChannelNotFound)
	}

	var (
		totalVideos int64
		agg         *repository.VideoAggregate
		topViewed   []model.Video
		topLiked    []model.Video
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totalVideos, err = s.repos.Videos.CountActiveByOwner(gctx, channelID)
		return err
	})
	g.Go(func() error {
		var err error
		agg, err = s.repos.Videos.AggregatePublic(gctx, channelID)
		return err
	})
	g.Go(func() error {
		var err error
		topViewed, err = s.repos.Videos.TopPublic(gctx, channelID, "view_count", topVideosLimit)
		return err
	})
	g.Go(func() error {
		var err error
		topLiked, err = s.repos.Videos.TopPublic(gctx, channelID, "like_count", topVideosLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &dto.ChannelStats{
		ChannelID:         channelID,
		TotalSubscribers:  channel.SubscribersCount,
		TotalSubscribedTo: channel.ChannelsSubscribedToCount,
		TotalVideos:       totalVideos,
		PublicVideos:      agg.VideoCount,
		TotalViews:        agg.TotalViews,
		TotalLikes:        agg.TotalLikes,
		AvgViews:          agg.AvgViews,
		AvgLikes:          agg.AvgLikes,
		EngagementRate:    EngagementRate(agg.TotalLikes, agg.TotalViews),
		Top5Viewed:        toTopVideos(topViewed),
		Top5Liked:         toTopVideos(topLiked),
	}

	var actor *int64
	if requesterID > 0 {
		actor = int64Ptr(requesterID)
	}
	recordActivity(s.recorder, actor, model.ActionGetChannelStats, model.TargetUser, channelID, map[string]interface{}{
		"total_videos": totalVideos,
		"total_views":  stats.TotalViews,
		"total_likes":  stats.TotalLikes,
	})

	return stats, nil
}

// ChannelVideos 频道主本人查看自己已发布的视频
func (s *StatsService) ChannelVideos(ctx context.Context, requesterID, channelID int64, page, pageSize int) (*dto.VideoListData, error) {
	if channelID <= 0 {
		return nil, ErrInvalidID
	}
	if requesterID != channelID {
		return nil, ErrChannelNoPermission
	}
	videos, total, err := s.repos.Videos.ListByOwner(ctx, channelID, repository.OwnerVideoFilter{PublishedOnly: true}, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	return buildVideoListData(videos, total, page, pageSize), nil
}

// EngagementRate 点赞数 / 播放量 × 100，保留两位小数；没有播放时为 0
func EngagementRate(likes, views int64) float64 {
	if views <= 0 {
		return 0
	}
	return math.Round(float64(likes)/float64(views)*100*100) / 100
}

func toTopVideos(videos []model.Video) []dto.TopVideo {
	items := make([]dto.TopVideo, 0, len(videos))
	for i := range videos {
		v := &videos[i]
		item := dto.TopVideo{
			ID:           v.ID,
			Title:        v.Title,
			ThumbnailURL: v.ThumbnailURL,
			ViewCount:    v.ViewCount,
			LikeCount:    v.LikeCount,
			CreatedAt:    v.CreatedAt,
		}
		if b := toUserBrief(v.Owner); b != nil {
			item.Owner = *b
		}
		items = append(items, item)
	}
	return items
}
