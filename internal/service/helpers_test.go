package service

import (
	"sync"
	"testing"

	"vidstream-go/internal/model"
	"vidstream-go/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeRecorder 收集提交后的操作日志
type fakeRecorder struct {
	mu      sync.Mutex
	entries []model.ActivityLog
}

func (f *fakeRecorder) Record(entry model.ActivityLog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
}

func (f *fakeRecorder) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

func setupStore(t *testing.T) (*repository.Store, *gorm.DB) {
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

	store, err := repository.NewStore(db, "")
	require.NoError(t, err)
	return store, db
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
		Description: "desc",
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

func reloadVideo(t *testing.T, db *gorm.DB, id int64) *model.Video {
	t.Helper()
	var v model.Video
	require.NoError(t, db.First(&v, id).Error)
	return &v
}

func reloadUser(t *testing.T, db *gorm.DB, id int64) *model.User {
	t.Helper()
	var u model.User
	require.NoError(t, db.First(&u, id).Error)
	return &u
}

func countRows(t *testing.T, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}

// failOnCreate 在指定表的插入前注入错误；fail 返回 nil 时放行
func failOnCreate(t *testing.T, db *gorm.DB, table string, fail func() error) {
	t.Helper()
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_create_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		if err := fail(); err != nil {
			_ = tx.AddError(err)
		}
	}))
}

func failOnUpdate(t *testing.T, db *gorm.DB, table string, fail func() error) {
	t.Helper()
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_update_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		if err := fail(); err != nil {
			_ = tx.AddError(err)
		}
	}))
}
