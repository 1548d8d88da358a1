package service

import (
	"context"

	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/model"
	"vidstream-go/internal/repository"
	"vidstream-go/pkg/logger"

	"go.uber.org/zap"
)

const (
	StateOn  = "on"
	StateOff = "off"
)

// relationOps 一种目标类型上的关系读写与计数器维护
type relationOps struct {
	onAction  string
	offAction string
	notFound  error

	exists func(ctx context.Context, r *repository.Repos, targetID int64) (bool, error)
	// find 不存在时返回 nil, nil
	find   func(ctx context.Context, r *repository.Repos, subjectID, targetID int64) (*dto.RelationInfo, error)
	create func(ctx context.Context, r *repository.Repos, subjectID, targetID int64) (*dto.RelationInfo, error)
	remove func(ctx context.Context, r *repository.Repos, relationID int64) (bool, error)
	// adjust 修改目标计数器，返回是否真正更新了行
	adjust func(ctx context.Context, r *repository.Repos, subjectID, targetID int64, delta int) (bool, error)
	count  func(ctx context.Context, r *repository.Repos, targetID int64) (int64, error)
}

// ToggleService 点赞/订阅切换：关系记录与计数器在同一事务内变更
type ToggleService struct {
	store    *repository.Store
	recorder ActivityRecorder
	ops      map[model.TargetKind]relationOps
}

func NewToggleService(store *repository.Store, recorder ActivityRecorder) *ToggleService {
	return &ToggleService{
		store:    store,
		recorder: recorder,
		ops: map[model.TargetKind]relationOps{
			model.TargetVideo:   likeOps(model.TargetVideo),
			model.TargetComment: likeOps(model.TargetComment),
			model.TargetTweet:   likeOps(model.TargetTweet),
			model.TargetChannel: subscriptionOps(),
		},
	}
}

// Toggle 切换 subject 与目标之间的关系
func (s *ToggleService) Toggle(ctx context.Context, subjectID, targetID int64, kind model.TargetKind) (*dto.ToggleResult, error) {
	if subjectID <= 0 || targetID <= 0 {
		return nil, ErrInvalidID
	}
	ops, ok := s.ops[kind]
	if !ok {
		return nil, ErrInvalidTargetKind
	}
	if kind == model.TargetChannel && subjectID == targetID {
		return nil, ErrCannotSubscribeSelf
	}

	var result dto.ToggleResult
	err := s.store.Transaction(ctx, func(r *repository.Repos) error {
		result = dto.ToggleResult{}

		exists, err := ops.exists(ctx, r, targetID)
		if err != nil {
			return err
		}
		if !exists {
			return ops.notFound
		}

		rel, err := ops.find(ctx, r, subjectID, targetID)
		if err != nil {
			return err
		}

		if rel == nil {
			created, err := ops.create(ctx, r, subjectID, targetID)
			if err != nil {
				return err
			}
			applied, err := ops.adjust(ctx, r, subjectID, targetID, 1)
			if err != nil {
				return err
			}
			if !applied {
				// 目标在事务中途被删除
				return repository.ErrConflict
			}
			result.State, result.Active, result.Relation = StateOn, true, created
		} else {
			deleted, err := ops.remove(ctx, r, rel.ID)
			if err != nil {
				return err
			}
			if !deleted {
				return repository.ErrConflict
			}
			applied, err := ops.adjust(ctx, r, subjectID, targetID, -1)
			if err != nil {
				return err
			}
			if !applied {
				logger.Warn("Counter already zero while removing relation",
					zap.String("kind", string(kind)),
					zap.Int64("target_id", targetID),
					zap.Int64("subject_id", subjectID))
			}
			result.State = StateOff
		}

		result.Count, err = ops.count(ctx, r, targetID)
		return err
	})
	if err != nil {
		return nil, translateStoreError(err)
	}

	action := ops.offAction
	if result.Active {
		action = ops.onAction
	}
	recordActivity(s.recorder, int64Ptr(subjectID), action, kind, targetID, map[string]interface{}{"count": result.Count})

	return &result, nil
}

// ToggleVideoLike 点赞/取消点赞视频
func (s *ToggleService) ToggleVideoLike(ctx context.Context, userID, videoID int64) (*dto.ToggleResult, error) {
	return s.Toggle(ctx, userID, videoID, model.TargetVideo)
}

// ToggleCommentLike 点赞/取消点赞评论
func (s *ToggleService) ToggleCommentLike(ctx context.Context, userID, commentID int64) (*dto.ToggleResult, error) {
	return s.Toggle(ctx, userID, commentID, model.TargetComment)
}

// ToggleTweetLike 点赞/取消点赞动态
func (s *ToggleService) ToggleTweetLike(ctx context.Context, userID, tweetID int64) (*dto.ToggleResult, error) {
	return s.Toggle(ctx, userID, tweetID, model.TargetTweet)
}

// ToggleSubscription 订阅/取消订阅频道
func (s *ToggleService) ToggleSubscription(ctx context.Context, subscriberID, channelID int64) (*dto.ToggleResult, error) {
	return s.Toggle(ctx, subscriberID, channelID, model.TargetChannel)
}

func likeOps(kind model.TargetKind) relationOps {
	ops := relationOps{
		find: func(ctx context.Context, r *repository.Repos, subjectID, targetID int64) (*dto.RelationInfo, error) {
			like, err := r.Likes.Find(ctx, subjectID, kind, targetID)
			if repository.IsNotFound(err) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return toLikeRelation(like), nil
		},
		create: func(ctx context.Context, r *repository.Repos, subjectID, targetID int64) (*dto.RelationInfo, error) {
			like, err := r.Likes.Create(ctx, subjectID, kind, targetID)
			if err != nil {
				return nil, err
			}
			return toLikeRelation(like), nil
		},
		remove: func(ctx context.Context, r *repository.Repos, relationID int64) (bool, error) {
			return r.Likes.DeleteByID(ctx, relationID)
		},
	}

	switch kind {
	case model.TargetVideo:
		ops.onAction, ops.offAction, ops.notFound = model.ActionLikeVideo, model.ActionUnlikeVideo, ErrVideoNotFound
		ops.exists = func(ctx context.Context, r *repository.Repos, id int64) (bool, error) {
			return r.Videos.ExistsActive(ctx, id)
		}
		ops.adjust = func(ctx context.Context, r *repository.Repos, _, id int64, delta int) (bool, error) {
			return r.Videos.AdjustLikeCount(ctx, id, delta)
		}
		ops.count = func(ctx context.Context, r *repository.Repos, id int64) (int64, error) {
			v, err := r.Videos.FindActive(ctx, id)
			if err != nil {
				return 0, err
			}
			return v.LikeCount, nil
		}
	case model.TargetComment:
		ops.onAction, ops.offAction, ops.notFound = model.ActionLikeComment, model.ActionUnlikeComment, ErrCommentNotFound
		ops.exists = func(ctx context.Context, r *repository.Repos, id int64) (bool, error) {
			return r.Comments.ExistsActive(ctx, id)
		}
		ops.adjust = func(ctx context.Context, r *repository.Repos, _, id int64, delta int) (bool, error) {
			return r.Comments.AdjustLikeCount(ctx, id, delta)
		}
		ops.count = func(ctx context.Context, r *repository.Repos, id int64) (int64, error) {
			c, err := r.Comments.FindByID(ctx, id)
			if err != nil {
				return 0, err
			}
			return c.LikeCount, nil
		}
	case model.TargetTweet:
		ops.onAction, ops.offAction, ops.notFound = model.ActionLikeTweet, model.ActionUnlikeTweet, ErrTweetNotFound
		ops.exists = func(ctx context.Context, r *repository.Repos, id int64) (bool, error) {
			return r.Tweets.ExistsActive(ctx, id)
		}
		ops.adjust = func(ctx context.Context, r *repository.Repos, _, id int64, delta int) (bool, error) {
			return r.Tweets.AdjustLikeCount(ctx, id, delta)
		}
		ops.count = func(ctx context.Context, r *repository.Repos, id int64) (int64, error) {
			t, err := r.Tweets.FindActive(ctx, id)
			if err != nil {
				return 0, err
			}
			return t.LikeCount, nil
		}
	}
	return ops
}

func subscriptionOps() relationOps {
	return relationOps{
		onAction:  model.ActionSubscribe,
		offAction: model.ActionUnsubscribe,
		notFound:  ErrChannelNotFound,
		exists: func(ctx context.Context, r *repository.Repos, channelID int64) (bool, error) {
			return r.Users.ExistsActive(ctx, channelID)
		},
		find: func(ctx context.Context, r *repository.Repos, subscriberID, channelID int64) (*dto.RelationInfo, error) {
			sub, err := r.Subscriptions.Find(ctx, subscriberID, channelID)
			if repository.IsNotFound(err) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return toSubscriptionRelation(sub), nil
		},
		create: func(ctx context.Context, r *repository.Repos, subscriberID, channelID int64) (*dto.RelationInfo, error) {
			sub, err := r.Subscriptions.Create(ctx, subscriberID, channelID)
			if err != nil {
				return nil, err
			}
			return toSubscriptionRelation(sub), nil
		},
		remove: func(ctx context.Context, r *repository.Repos, relationID int64) (bool, error) {
			return r.Subscriptions.DeleteByID(ctx, relationID)
		},
		// 频道订阅者数与订阅者的已订阅数一起变更
		adjust: func(ctx context.Context, r *repository.Repos, subscriberID, channelID int64, delta int) (bool, error) {
			applied, err := r.Users.AdjustSubscribersCount(ctx, channelID, delta)
			if err != nil {
				return false, err
			}
			mirrored, err := r.Users.AdjustSubscribedToCount(ctx, subscriberID, delta)
			if err != nil {
				return false, err
			}
			if !mirrored {
				logger.Warn("Subscribed-to counter not adjusted",
					zap.Int64("subscriber_id", subscriberID), zap.Int("delta", delta))
			}
			return applied, nil
		},
		count: func(ctx context.Context, r *repository.Repos, channelID int64) (int64, error) {
			u, err := r.Users.FindActive(ctx, channelID)
			if err != nil {
				return 0, err
			}
			return u.SubscribersCount, nil
		},
	}
}
