package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"vidstream-go/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{UserName: name, Email: name + "@example.com", FullName: name, Password: "x", UserRole: "user"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedVideo(t *testing.T, db *gorm.DB, ownerID int64, mutate func(v *model.Video)) *model.Video {
	t.Helper()
	v := &model.Video{
		OwnerID:     ownerID,
		Title:       "video",
		VideoURL:    "http://media/v.mp4",
		IsPublished: true,
		Visibility:  model.VisibilityPublic,
	}
	if mutate != nil {
		mutate(v)
	}
	require.NoError(t, db.Create(v).Error)
	return v
}

func TestIsConflict(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrConflict, true},
		{"wrapped sentinel", fmt.Errorf("toggle: %w", ErrConflict), true},
		{"duplicated key", gorm.ErrDuplicatedKey, true},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"pg serialization failure", fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"}), true},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"pg foreign key", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite unique text", errors.New("UNIQUE constraint failed: likes.user_id"), true},
		{"sqlite busy text", errors.New("database is locked"), true},
		{"not found", gorm.ErrRecordNotFound, false},
		{"other", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsConflict(tc.err))
		})
	}
}

func TestNewStoreIsolation(t *testing.T) {
	db := setupTestDB(t)

	for _, level := range []string{"", "read_committed", "repeatable_read", "serializable"} {
		_, err := NewStore(db, level)
		assert.NoError(t, err, level)
	}

	_, err := NewStore(db, "bogus")
	assert.Error(t, err)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	store, err := NewStore(db, "")
	require.NoError(t, err)
	ctx := context.Background()

	boom := errors.New("boom")
	err = store.Transaction(ctx, func(r *Repos) error {
		u := &model.User{UserName: "ghost", Email: "ghost@example.com", FullName: "ghost", Password: "x"}
		if err := r.Users.Create(ctx, u); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAdjustCounterNeverBelowZero(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner")
	video := seedVideo(t, db, owner.ID, nil)
	repo := NewVideoRepository(db)
	ctx := context.Background()

	applied, err := repo.AdjustLikeCount(ctx, video.ID, -1)
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = repo.AdjustLikeCount(ctx, video.ID, 1)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.AdjustLikeCount(ctx, video.ID, -1)
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := repo.FindActive(ctx, video.ID)
	require.NoError(t, err)
	assert.Zero(t, got.LikeCount)

	applied, err = repo.AdjustLikeCount(ctx, 9999, 1)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestIncrementViewCountMissingVideo(t *testing.T) {
	db := setupTestDB(t)
	err := NewVideoRepository(db).IncrementViewCount(context.Background(), 42)
	assert.True(t, IsNotFound(err))
}

func TestDuplicateLikeIsConflict(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "fan")
	repo := NewLikeRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, user.ID, model.TargetVideo, 1)
	require.NoError(t, err)

	_, err = repo.Create(ctx, user.ID, model.TargetVideo, 1)
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	// 同一用户对不同类型的同一 ID 点赞互不影响
	_, err = repo.Create(ctx, user.ID, model.TargetComment, 1)
	assert.NoError(t, err)
}

func TestViewDedupQueries(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner")
	video := seedVideo(t, db, owner.ID, nil)
	repo := NewViewRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	viewer := owner.ID
	require.NoError(t, repo.Create(ctx, &model.VideoView{
		VideoID: video.ID, ViewerID: &viewer, IP: "1.1.1.1", UserAgent: "ua", ViewedAt: now,
	}))

	recent, err := repo.ExistsForViewerSince(ctx, video.ID, viewer, now.Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, recent)

	recent, err = repo.ExistsForViewerSince(ctx, video.ID, viewer, now.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, recent)

	// 登录用户的记录不参与匿名指纹去重
	recent, err = repo.ExistsForFingerprintSince(ctx, video.ID, "1.1.1.1", "ua", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.False(t, recent)

	require.NoError(t, repo.Create(ctx, &model.VideoView{
		VideoID: video.ID, IP: "1.1.1.1", UserAgent: "ua", ViewedAt: now,
	}))
	recent, err = repo.ExistsForFingerprintSince(ctx, video.ID, "1.1.1.1", "ua", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, recent)

	recent, err = repo.ExistsForFingerprintSince(ctx, video.ID, "1.1.1.1", "other-ua", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.False(t, recent)
}

func TestWatchHistoryIsASet(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner")
	video := seedVideo(t, db, owner.ID, nil)
	repo := NewViewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AddWatchHistory(ctx, owner.ID, video.ID))
	require.NoError(t, repo.AddWatchHistory(ctx, owner.ID, video.ID))

	items, total, err := repo.ListWatchHistory(ctx, owner.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Video)
	assert.Equal(t, video.ID, items[0].Video.ID)
}

func TestAggregatePublicSkipsPrivateAndDeleted(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner")
	other := seedUser(t, db, "other")

	seedVideo(t, db, owner.ID, func(v *model.Video) { v.ViewCount, v.LikeCount = 100, 10 })
	seedVideo(t, db, owner.ID, func(v *model.Video) {
		v.ViewCount, v.LikeCount, v.Visibility = 50, 20, model.VisibilityUnlisted
	})
	seedVideo(t, db, owner.ID, func(v *model.Video) {
		v.ViewCount, v.LikeCount, v.Visibility = 1000, 1000, model.VisibilityPrivate
	})
	seedVideo(t, db, owner.ID, func(v *model.Video) { v.ViewCount, v.LikeCount, v.IsDeleted = 1000, 1000, true })
	seedVideo(t, db, other.ID, func(v *model.Video) { v.ViewCount = 7 })

	repo := NewVideoRepository(db)
	ctx := context.Background()

	agg, err := repo.AggregatePublic(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), agg.VideoCount)
	assert.Equal(t, int64(150), agg.TotalViews)
	assert.Equal(t, int64(30), agg.TotalLikes)
	assert.InDelta(t, 75.0, agg.AvgViews, 0.001)
	assert.InDelta(t, 15.0, agg.AvgLikes, 0.001)

	total, err := repo.CountActiveByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	empty, err := repo.AggregatePublic(ctx, 9999)
	require.NoError(t, err)
	assert.Zero(t, empty.VideoCount)
	assert.Zero(t, empty.TotalViews)
	assert.Zero(t, empty.AvgViews)
}

func TestTopPublicOrdering(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner")
	for i := 1; i <= 7; i++ {
		n := int64(i)
		seedVideo(t, db, owner.ID, func(v *model.Video) {
			v.Title = fmt.Sprintf("v%d", n)
			v.ViewCount, v.LikeCount = n*10, 8-n
		})
	}
	seedVideo(t, db, owner.ID, func(v *model.Video) { v.ViewCount, v.Visibility = 10000, model.VisibilityPrivate })

	repo := NewVideoRepository(db)
	ctx := context.Background()

	top, err := repo.TopPublic(ctx, owner.ID, "view_count", 5)
	require.NoError(t, err)
	require.Len(t, top, 5)
	assert.Equal(t, int64(70), top[0].ViewCount)
	assert.Equal(t, int64(30), top[4].ViewCount)
	require.NotNil(t, top[0].Owner)
	assert.Equal(t, owner.ID, top[0].Owner.ID)

	top, err = repo.TopPublic(ctx, owner.ID, "like_count", 5)
	require.NoError(t, err)
	require.Len(t, top, 5)
	assert.Equal(t, int64(7), top[0].LikeCount)

	_, err = repo.TopPublic(ctx, owner.ID, "title; DROP TABLE videos", 5)
	assert.Error(t, err)
}

func TestListIndexableKeyset(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner")
	a := seedVideo(t, db, owner.ID, nil)
	seedVideo(t, db, owner.ID, func(v *model.Video) { v.IsPublished = false })
	seedVideo(t, db, owner.ID, func(v *model.Video) { v.Visibility = model.VisibilityPrivate })
	b := seedVideo(t, db, owner.ID, nil)

	repo := NewVideoRepository(db)
	ctx := context.Background()

	batch, err := repo.ListIndexable(ctx, 0, 1)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, a.ID, batch[0].ID)

	batch, err = repo.ListIndexable(ctx, a.ID, 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, b.ID, batch[0].ID)
	require.NotNil(t, batch[0].Owner)
}
