package service

import (
	"context"
	"errors"
	"testing"

	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentLifecycleKeepsCounters(t *testing.T) {
	store, db := setupStore(t)
	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")
	video := seedVideo(t, db, owner.ID, nil)
	rec := &fakeRecorder{}
	comments := NewCommentService(store, rec)
	toggles := NewToggleService(store, nil)
	ctx := context.Background()

	c, err := comments.Create(ctx, fan.ID, video.ID, &dto.CommentCreateRequest{Content: "  first!  "})
	require.NoError(t, err)
	assert.Equal(t, "first!", c.Content)
	require.NotNil(t, c.Owner)
	assert.Equal(t, fan.ID, c.Owner.ID)
	assert.Equal(t, int64(1), reloadVideo(t, db, video.ID).CommentCount)

	_, err = toggles.ToggleCommentLike(ctx, owner.ID, c.ID)
	require.NoError(t, err)

	err = comments.Delete(ctx, owner.ID, c.ID)
	assert.ErrorIs(t, err, ErrCommentNoPermission)

	require.NoError(t, comments.Delete(ctx, fan.ID, c.ID))
	assert.Zero(t, reloadVideo(t, db, video.ID).CommentCount)
	assert.Zero(t, countRows(t, db, &model.Like{}, "target_kind = ? AND target_id = ?", model.TargetComment, c.ID))

	err = comments.Delete(ctx, fan.ID, c.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	assert.Equal(t, []string{model.ActionAddComment, model.ActionDeleteComment}, rec.actions())
}

func TestCommentOnMissingVideo(t *testing.T) {
	store, db := setupStore(t)
	fan := seedUser(t, db, "fan")
	comments := NewCommentService(store, nil)
	ctx := context.Background()

	_, err := comments.Create(ctx, fan.ID, 404, &dto.CommentCreateRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrVideoNotFound)

	_, err = comments.Create(ctx, fan.ID, 404, &dto.CommentCreateRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyContent)

	assert.Zero(t, countRows(t, db, &model.Comment{}, "owner_id = ?", fan.ID))
}

func TestCommentCreateRollsBackOnCounterFailure(t *testing.T) {
	store, db := setupStore(t)
	owner := seedUser(t, db, "owner")
	video := seedVideo(t, db, owner.ID, nil)
	comments := NewCommentService(store, nil)

	failOnUpdate(t, db, "videos", func() error { return errors.New("counter down") })

	_, err := comments.Create(context.Background(), owner.ID, video.ID, &dto.CommentCreateRequest{Content: "hi"})
	require.Error(t, err)
	assert.Zero(t, countRows(t, db, &model.Comment{}, "video_id = ?", video.ID))
}

func TestCommentUpdateAndList(t *testing.T) {
	store, db := setupStore(t)
	owner := seedUser(t, db, "owner")
	other := seedUser(t, db, "other")
	video := seedVideo(t, db, owner.ID, nil)
	comments := NewCommentService(store, nil)
	ctx := context.Background()

	c, err := comments.Create(ctx, owner.ID, video.ID, &dto.CommentCreateRequest{Content: "draft"})
	require.NoError(t, err)

	_, err = comments.Update(ctx, other.ID, c.ID, &dto.CommentUpdateRequest{Content: "hijack"})
	assert.ErrorIs(t, err, ErrCommentNoPermission)

	updated, err := comments.Update(ctx, owner.ID, c.ID, &dto.CommentUpdateRequest{Content: "final"})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)

	list, err := comments.ListByVideo(ctx, video.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, list.Comments, 1)
	assert.Equal(t, "final", list.Comments[0].Content)
	assert.Equal(t, int64(1), list.Total)
}

func TestTweetOwnership(t *testing.T) {
	store, db := setupStore(t)
	author := seedUser(t, db, "author")
	other := seedUser(t, db, "other")
	rec := &fakeRecorder{}
	tweets := NewTweetService(store, rec)
	ctx := context.Background()

	tw, err := tweets.Create(ctx, author.ID, &dto.TweetRequest{Content: "hello"})
	require.NoError(t, err)

	_, err = tweets.Update(ctx, other.ID, tw.ID, &dto.TweetRequest{Content: "nope"})
	assert.ErrorIs(t, err, ErrTweetNoPermission)

	assert.ErrorIs(t, tweets.Delete(ctx, other.ID, tw.ID), ErrTweetNoPermission)
	require.NoError(t, tweets.Delete(ctx, author.ID, tw.ID))

	list, err := tweets.ListByUser(ctx, author.ID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, list.Tweets)

	_, err = tweets.ListByUser(ctx, 404, 1, 20)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// 已删除的动态不能再被点赞
	_, err = NewToggleService(store, nil).ToggleTweetLike(ctx, other.ID, tw.ID)
	assert.ErrorIs(t, err, ErrTweetNotFound)

	assert.Equal(t, []string{model.ActionCreateTweet, model.ActionDeleteTweet}, rec.actions())
}

func TestPlaylistVisibility(t *testing.T) {
	store, db := setupStore(t)
	owner := seedUser(t, db, "owner")
	other := seedUser(t, db, "other")
	public := seedVideo(t, db, owner.ID, func(v *model.Video) { v.Title = "public" })
	draft := seedVideo(t, db, owner.ID, func(v *model.Video) { v.Title, v.IsPublished = "draft", false })
	playlists := NewPlaylistService(store, nil)
	ctx := context.Background()

	p, err := playlists.Create(ctx, owner.ID, &dto.PlaylistCreateRequest{Name: "mix"})
	require.NoError(t, err)
	assert.Equal(t, model.VisibilityPublic, p.Visibility)

	_, err = playlists.AddVideo(ctx, owner.ID, p.ID, public.ID)
	require.NoError(t, err)
	got, err := playlists.AddVideo(ctx, owner.ID, p.ID, draft.ID)
	require.NoError(t, err)
	assert.Len(t, got.Videos, 2)

	// 重复加入不报错
	_, err = playlists.AddVideo(ctx, owner.ID, p.ID, public.ID)
	require.NoError(t, err)

	_, err = playlists.AddVideo(ctx, other.ID, p.ID, public.ID)
	assert.ErrorIs(t, err, ErrPlaylistNoPermission)

	_, err = playlists.AddVideo(ctx, owner.ID, p.ID, 404)
	assert.ErrorIs(t, err, ErrVideoNotFound)

	seen, err := playlists.Get(ctx, other.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, seen.Videos, 1)
	assert.Equal(t, "public", seen.Videos[0].Title)

	hidden, err := playlists.ToggleVisibility(ctx, owner.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VisibilityPrivate, hidden.Visibility)

	_, err = playlists.Get(ctx, other.ID, p.ID)
	assert.ErrorIs(t, err, ErrPlaylistNotFound)

	list, err := playlists.ListByUser(ctx, other.ID, owner.ID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, list.Playlists)

	list, err = playlists.ListByUser(ctx, owner.ID, owner.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, list.Playlists, 1)

	require.NoError(t, playlists.Delete(ctx, owner.ID, p.ID))
	_, err = playlists.Get(ctx, owner.ID, p.ID)
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
}

func TestPlaylistUpdateAndRemoveVideo(t *testing.T) {
	store, db := setupStore(t)
	owner := seedUser(t, db, "owner")
	other := seedUser(t, db, "other")
	video := seedVideo(t, db, owner.ID, nil)
	playlists := NewPlaylistService(store, nil)
	ctx := context.Background()

	p, err := playlists.Create(ctx, owner.ID, &dto.PlaylistCreateRequest{Name: "mix"})
	require.NoError(t, err)
	_, err = playlists.AddVideo(ctx, owner.ID, p.ID, video.ID)
	require.NoError(t, err)

	name, blank := "  road trip ", " "
	updated, err := playlists.Update(ctx, owner.ID, p.ID, &dto.PlaylistUpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "road trip", updated.Name)

	_, err = playlists.Update(ctx, owner.ID, p.ID, &dto.PlaylistUpdateRequest{Name: &blank})
	assert.ErrorIs(t, err, ErrEmptyContent)
	_, err = playlists.Update(ctx, owner.ID, p.ID, &dto.PlaylistUpdateRequest{})
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)
	_, err = playlists.Update(ctx, other.ID, p.ID, &dto.PlaylistUpdateRequest{Name: &name})
	assert.ErrorIs(t, err, ErrPlaylistNoPermission)

	got, err := playlists.RemoveVideo(ctx, owner.ID, p.ID, video.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Videos)

	// 不在列表中的视频移除不报错
	_, err = playlists.RemoveVideo(ctx, owner.ID, p.ID, video.ID)
	require.NoError(t, err)
}
