package service

import (
	"context"
	"strings"

	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/model"
	"vidstream-go/internal/repository"
)

type PlaylistService struct {
	repos    *repository.Repos
	recorder ActivityRecorder
}

func NewPlaylistService(store *repository.Store, recorder ActivityRecorder) *PlaylistService {
	return &PlaylistService{repos: store.Repos(), recorder: recorder}
}

// Create 创建播放列表
func (s *PlaylistService) Create(ctx context.Context, ownerID int64, req *dto.PlaylistCreateRequest) (*dto.PlaylistInfo, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyContent
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}
	p := &model.Playlist{OwnerID: ownerID, Name: name, Description: strings.TrimSpace(req.Description), Visibility: visibility}
	if err := s.repos.Playlists.Create(ctx, p); err != nil {
		return nil, err
	}
	recordActivity(s.recorder, int64Ptr(ownerID), model.ActionCreatePlaylist, model.TargetPlaylist, p.ID, nil)
	return toPlaylistInfo(p, nil), nil
}

// Get 获取播放列表及其视频；私有列表只有创建者可见
func (s *PlaylistService) Get(ctx context.Context, viewerID, playlistID int64) (*dto.PlaylistInfo, error) {
	p, err := s.findVisible(ctx, viewerID, playlistID)
	if err != nil {
		return nil, err
	}
	videos, err := s.repos.Playlists.ListVideos(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if viewerID != p.OwnerID {
		visible := make([]model.Video, 0, len(videos))
		for _, v := range videos {
			if v.IsPublished && v.Visibility != model.VisibilityPrivate {
				visible = append(visible, v)
			}
		}
		videos = visible
	}
	return toPlaylistInfo(p, videos), nil
}

// ListByUser 用户的播放列表；本人查看时包含私有列表
func (s *PlaylistService) ListByUser(ctx context.Context, viewerID, ownerID int64, page, pageSize int) (*dto.PlaylistListData, error) {
	if ownerID <= 0 {
		return nil, ErrInvalidID
	}
	lists, total, err := s.repos.Playlists.ListByOwner(ctx, ownerID, viewerID == ownerID, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PlaylistInfo, 0, len(lists))
	for i := range lists {
		items = append(items, *toPlaylistInfo(&lists[i], nil))
	}
	return &dto.PlaylistListData{Playlists: items, PaginationMeta: dto.NewPaginationMeta(total, page, pageSize)}, nil
}

// AddVideo 加入视频，已在列表中时不重复加入
func (s *PlaylistService) AddVideo(ctx context.Context, ownerID, playlistID, videoID int64) (*dto.PlaylistInfo, error) {
	if _, err := s.findOwned(ctx, ownerID, playlistID); err != nil {
		return nil, err
	}
	if videoID <= 0 {
		return nil, ErrInvalidID
	}
	if ok, err := s.repos.Videos.ExistsActive(ctx, videoID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrVideoNotFound
	}
	if _, err := s.repos.Playlists.AddVideo(ctx, playlistID, videoID); err != nil {
		return nil, err
	}
	return s.Get(ctx, ownerID, playlistID)
}

// RemoveVideo 移除视频，不在列表中时忽略
func (s *PlaylistService) RemoveVideo(ctx context.Context, ownerID, playlistID, videoID int64) (*dto.PlaylistInfo, error) {
	if _, err := s.findOwned(ctx, ownerID, playlistID); err != nil {
		return nil, err
	}
	if videoID <= 0 {
		return nil, ErrInvalidID
	}
	if _, err := s.repos.Playlists.RemoveVideo(ctx, playlistID, videoID); err != nil {
		return nil, err
	}
	return s.Get(ctx, ownerID, playlistID)
}

// Update 修改名称/描述
func (s *PlaylistService) Update(ctx context.Context, ownerID, playlistID int64, req *dto.PlaylistUpdateRequest) (*dto.PlaylistInfo, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyContent
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	if _, err := s.findOwned(ctx, ownerID, playlistID); err != nil {
		return nil, err
	}
	if err := s.repos.Playlists.Update(ctx, playlistID, updates); err != nil {
		return nil, notFoundAs(err, ErrPlaylistNotFound)
	}
	return s.Get(ctx, ownerID, playlistID)
}

// ToggleVisibility 公开/私有切换
func (s *PlaylistService) ToggleVisibility(ctx context.Context, ownerID, playlistID int64) (*dto.PlaylistInfo, error) {
	p, err := s.findOwned(ctx, ownerID, playlistID)
	if err != nil {
		return nil, err
	}
	next := model.VisibilityPrivate
	if p.Visibility == model.VisibilityPrivate {
		next = model.VisibilityPublic
	}
	if err := s.repos.Playlists.Update(ctx, playlistID, map[string]interface{}{"visibility": next}); err != nil {
		return nil, notFoundAs(err, ErrPlaylistNotFound)
	}
	return s.Get(ctx, ownerID, playlistID)
}

// Delete 软删除
func (s *PlaylistService) Delete(ctx context.Context, ownerID, playlistID int64) error {
	if _, err := s.findOwned(ctx, ownerID, playlistID); err != nil {
		return err
	}
	if err := s.repos.Playlists.Update(ctx, playlistID, map[string]interface{}{"is_deleted": true}); err != nil {
		return notFoundAs(err, ErrPlaylistNotFound)
	}
	recordActivity(s.recorder, int64Ptr(ownerID), model.ActionDeletePlaylist, model.TargetPlaylist, playlistID, nil)
	return nil
}

func (s *PlaylistService) findVisible(ctx context.Context, viewerID, playlistID int64) (*model.Playlist, error) {
	if playlistID <= 0 {
		return nil, ErrInvalidID
	}
	p, err := s.repos.Playlists.FindActive(ctx, playlistID)
	if err != nil {
		return nil, notFoundAs(err, ErrPlaylistNotFound)
	}
	if p.Visibility == model.VisibilityPrivate && p.OwnerID != viewerID {
		return nil, ErrPlaylistNotFound
	}
	return p, nil
}

func (s *PlaylistService) findOwned(ctx context.Context, ownerID, playlistID int64) (*model.Playlist, error) {
	if playlistID <= 0 {
		return nil, ErrInvalidID
	}
	p, err := s.repos.Playlists.FindActive(ctx, playlistID)
	if err != nil {
		return nil, notFoundAs(err, ErrPlaylistNotFound)
	}
	if p.OwnerID != ownerID {
		return nil, ErrPlaylistNoPermission
	}
	return p, nil
}

func toPlaylistInfo(p *model.Playlist, videos []model.Video) *dto.PlaylistInfo {
	info := &dto.PlaylistInfo{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		Visibility:  p.Visibility,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if videos != nil {
		info.Videos = toVideoInfos(videos)
	}
	return info
}
