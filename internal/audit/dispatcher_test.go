package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vidstream-go/internal/model"
	"vidstream-go/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type memWriter struct {
	mu      sync.Mutex
	entries []model.ActivityLog
}

func (w *memWriter) Write(_ context.Context, e model.ActivityLog) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, e)
	return nil
}

func (w *memWriter) snapshot() []model.ActivityLog {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]model.ActivityLog(nil), w.entries...)
}

func TestDispatcherFillsIDAndTimestamp(t *testing.T) {
	w := &memWriter{}
	d := NewDispatcher(w, 8)

	d.Record(model.ActivityLog{Action: model.ActionLikeVideo, TargetKind: model.TargetVideo, TargetID: 1})
	d.Record(model.ActivityLog{Action: model.ActionUnlikeVideo, TargetKind: model.TargetVideo, TargetID: 1})
	require.NoError(t, d.Close(context.Background()))

	got := w.snapshot()
	require.Len(t, got, 2)
	assert.NotZero(t, got[0].ID)
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.False(t, got[0].CreatedAt.IsZero())
	assert.Equal(t, model.ActionLikeVideo, got[0].Action)
}

func TestDispatcherNeverBlocksWhenFull(t *testing.T) {
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	d := NewDispatcher(WriterFunc(func(context.Context, model.ActivityLog) error {
		<-release
		mu.Lock()
		calls++
		mu.Unlock()
		return nil
	}), 2)

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			d.Record(model.ActivityLog{Action: model.ActionViewVideo, TargetKind: model.TargetVideo, TargetID: int64(i)})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full buffer")
	}

	close(release)
	require.NoError(t, d.Close(context.Background()))
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, calls, 3)
	assert.GreaterOrEqual(t, calls, 1)
}

func TestDispatcherSwallowsWriterErrors(t *testing.T) {
	var n int
	var mu sync.Mutex
	d := NewDispatcher(WriterFunc(func(context.Context, model.ActivityLog) error {
		mu.Lock()
		n++
		mu.Unlock()
		return errors.New("sink down")
	}), 4)

	d.Record(model.ActivityLog{Action: model.ActionSubscribe, TargetKind: model.TargetChannel, TargetID: 2})
	d.Record(model.ActivityLog{Action: model.ActionSubscribe, TargetKind: model.TargetChannel, TargetID: 3})
	require.NoError(t, d.Close(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, n)
}

func TestRecordAfterCloseIsDropped(t *testing.T) {
	w := &memWriter{}
	d := NewDispatcher(w, 1)
	require.NoError(t, d.Close(context.Background()))

	assert.NotPanics(t, func() {
		d.Record(model.ActivityLog{Action: model.ActionLikeTweet, TargetKind: model.TargetTweet, TargetID: 1})
	})
	assert.Empty(t, w.snapshot())
	assert.NoError(t, d.Close(context.Background()))
}

func TestDBWriterIsIdempotentByID(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.ActivityLog{}))

	repo := repository.NewActivityLogRepository(db)
	w := NewDBWriter(repo)
	uid := int64(4)
	entry := model.ActivityLog{ID: 99, UserID: &uid, Action: model.ActionAddComment, TargetKind: model.TargetComment, TargetID: 5, CreatedAt: time.Now().UTC()}

	require.NoError(t, w.Write(context.Background(), entry))
	require.NoError(t, w.Write(context.Background(), entry))

	byUser, err := repo.ListByUser(context.Background(), uid, 10)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, int64(99), byUser[0].ID)

	byTarget, err := repo.ListByTarget(context.Background(), model.TargetComment, 5)
	require.NoError(t, err)
	assert.Len(t, byTarget, 1)
}
