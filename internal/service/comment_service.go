package service

import (
	"context"
	"strings"

	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/model"
	"vidstream-go/internal/repository"
	"vidstream-go/pkg/logger"

	"go.uber.org/zap"
)

// CommentService 评论：comment_count 与评论记录在同一事务内变更
type CommentService struct {
	store    *repository.Store
	recorder ActivityRecorder
}

func NewCommentService(store *repository.Store, recorder ActivityRecorder) *CommentService {
	return &CommentService{store: store, recorder: recorder}
}

// Create 发表评论
func (s *CommentService) Create(ctx context.Context, ownerID, videoID int64, req *dto.CommentCreateRequest) (*dto.CommentInfo, error) {
	if videoID <= 0 {
		return nil, ErrInvalidID
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	var comment *model.Comment
	err := s.store.Transaction(ctx, func(r *repository.Repos) error {
		exists, err := r.Videos.ExistsActive(ctx, videoID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrVideoNotFound
		}

		c := &model.Comment{VideoID: videoID, OwnerID: ownerID, Content: content}
		if err := r.Comments.Create(ctx, c); err != nil {
			return err
		}
		applied, err := r.Videos.AdjustCommentCount(ctx, videoID, 1)
		if err != nil {
			return err
		}
		if !applied {
			return repository.ErrConflict
		}
		comment, err = r.Comments.FindByID(ctx, c.ID)
		return err
	})
	if err != nil {
		return nil, translateStoreError(err)
	}

	recordActivity(s.recorder, int64Ptr(ownerID), model.ActionAddComment, model.TargetComment, comment.ID,
		map[string]interface{}{"video_id": videoID})
	return toCommentInfo(comment), nil
}

// Update 修改评论（仅作者）
func (s *CommentService) Update(ctx context.Context, ownerID, commentID int64, req *dto.CommentUpdateRequest) (*dto.CommentInfo, error) {
	if commentID <= 0 {
		return nil, ErrInvalidID
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	repos := s.store.Repos()
	comment, err := repos.Comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, notFoundAs(err, ErrCommentNotFound)
	}
	if comment.OwnerID != ownerID {
		return nil, ErrCommentNoPermission
	}
	if err := repos.Comments.UpdateContent(ctx, commentID, ownerID, content); err != nil {
		return nil, notFoundAs(err, ErrCommentNotFound)
	}

	comment, err = repos.Comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, notFoundAs(err, ErrCommentNotFound)
	}
	return toCommentInfo(comment), nil
}

// Delete 删除评论及其点赞（仅作者）
func (s *CommentService) Delete(ctx context.Context, ownerID, commentID int64) error {
	if commentID <= 0 {
		return ErrInvalidID
	}

	var videoID int64
	err := s.store.Transaction(ctx, func(r *repository.Repos) error {
		comment, err := r.Comments.FindByID(ctx, commentID)
		if err != nil {
			return notFoundAs(err, ErrCommentNotFound)
		}
		if comment.OwnerID != ownerID {
			return ErrCommentNoPermission
		}
		videoID = comment.VideoID

		deleted, err := r.Comments.Delete(ctx, commentID, ownerID)
		if err != nil {
			return err
		}
		if !deleted {
			return repository.ErrConflict
		}
		if _, err := r.Likes.DeleteByTarget(ctx, model.TargetComment, commentID); err != nil {
			return err
		}
		applied, err := r.Videos.AdjustCommentCount(ctx, videoID, -1)
		if err != nil {
			return err
		}
		if !applied {
			logger.Warn("Comment counter already zero", zap.Int64("video_id", videoID), zap.Int64("comment_id", commentID))
		}
		return nil
	})
	if err != nil {
		return translateStoreError(err)
	}

	recordActivity(s.recorder, int64Ptr(ownerID), model.ActionDeleteComment, model.TargetComment, commentID,
		map[string]interface{}{"video_id": videoID})
	return nil
}

// ListByVideo 视频评论列表（最新在前）
func (s *CommentService) ListByVideo(ctx context.Context, videoID int64, page, pageSize int) (*dto.CommentListData, error) {
	if videoID <= 0 {
		return nil, ErrInvalidID
	}
	repos := s.store.Repos()
	if ok, err := repos.Videos.ExistsActive(ctx, videoID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrVideoNotFound
	}

	comments, total, err := repos.Comments.ListByVideo(ctx, videoID, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CommentInfo, 0, len(comments))
	for i := range comments {
		items = append(items, *toCommentInfo(&comments[i]))
	}
	return &dto.CommentListData{Comments: items, PaginationMeta: dto.NewPaginationMeta(total, page, pageSize)}, nil
}

func toCommentInfo(c *model.Comment) *dto.CommentInfo {
	return &dto.CommentInfo{
		ID:        c.ID,
		VideoID:   c.VideoID,
		Content:   c.Content,
		LikeCount: c.LikeCount,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Owner:     toUserBrief(c.Owner),
	}
}
