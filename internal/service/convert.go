package service

import (
	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/model"
)

func toUserInfo(u *model.User) dto.UserInfo {
	return dto.UserInfo{
		ID:                        u.ID,
		Username:                  u.UserName,
		Email:                     u.Email,
		FullName:                  u.FullName,
		Avatar:                    u.Avatar,
		CoverImage:                u.CoverImage,
		UserRole:                  u.UserRole,
		SubscribersCount:          u.SubscribersCount,
		ChannelsSubscribedToCount: u.ChannelsSubscribedToCount,
	}
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{ID: u.ID, Username: u.UserName, FullName: u.FullName, Avatar: u.Avatar}
}

func toVideoInfo(v *model.Video) dto.VideoInfo {
	return dto.VideoInfo{
		ID:           v.ID,
		OwnerID:      v.OwnerID,
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.Duration,
		FileSize:     v.FileSize,
		IsPublished:  v.IsPublished,
		Visibility:   v.Visibility,
		ViewCount:    v.ViewCount,
		LikeCount:    v.LikeCount,
		CommentCount: v.CommentCount,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
		Owner:        toUserBrief(v.Owner),
	}
}

func toVideoInfos(videos []model.Video) []dto.VideoInfo {
	items := make([]dto.VideoInfo, 0, len(videos))
	for i := range videos {
		items = append(items, toVideoInfo(&videos[i]))
	}
	return items
}

func buildVideoListData(videos []model.Video, total int64, page, pageSize int) *dto.VideoListData {
	return &dto.VideoListData{
		Videos:         toVideoInfos(videos),
		PaginationMeta: dto.NewPaginationMeta(total, page, pageSize),
	}
}

func toLikeRelation(l *model.Like) *dto.RelationInfo {
	return &dto.RelationInfo{
		ID:         l.ID,
		SubjectID:  l.UserID,
		TargetKind: string(l.TargetKind),
		TargetID:   l.TargetID,
		CreatedAt:  l.CreatedAt,
	}
}

func toSubscriptionRelation(s *model.Subscription) *dto.RelationInfo {
	return &dto.RelationInfo{
		ID:         s.ID,
		SubjectID:  s.SubscriberID,
		TargetKind: string(model.TargetChannel),
		TargetID:   s.ChannelID,
		CreatedAt:  s.CreatedAt,
	}
}

func offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
