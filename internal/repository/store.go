package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
)

// Repos 一次操作内使用的全部仓储，事务内由同一个 tx 构造
type Repos struct {
	Users         *UserRepository
	Videos        *VideoRepository
	Comments      *CommentRepository
	Tweets        *TweetRepository
	Likes         *LikeRepository
	Subscriptions *SubscriptionRepository
	Views         *ViewRepository
	Playlists     *PlaylistRepository
	ActivityLogs  *ActivityLogRepository
}

func newRepos(db *gorm.DB) *Repos {
	return &Repos{
		Users:         NewUserRepository(db),
		Videos:        NewVideoRepository(db),
		Comments:      NewCommentRepository(db),
		Tweets:        NewTweetRepository(db),
		Likes:         NewLikeRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
		Views:         NewViewRepository(db),
		Playlists:     NewPlaylistRepository(db),
		ActivityLogs:  NewActivityLogRepository(db),
	}
}

// Store 持有数据库连接，负责开启事务
type Store struct {
	db     *gorm.DB
	txOpts *sql.TxOptions
	repos  *Repos
}

// NewStore 创建 Store，isolation 为空时使用数据库默认隔离级别
func NewStore(db *gorm.DB, isolation string) (*Store, error) {
	opts, err := txOptions(isolation)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, txOpts: opts, repos: newRepos(db)}, nil
}

// Repos 非事务仓储，用于只读查询
func (s *Store) Repos() *Repos {
	return s.repos
}

// DB 返回底层连接
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction 在一个事务中执行 fn，fn 返回错误时整体回滚
func (s *Store) Transaction(ctx context.Context, fn func(r *Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepos(tx))
	}, s.txOpts)
}

func txOptions(isolation string) (*sql.TxOptions, error) {
	switch isolation {
	case "":
		return nil, nil
	case "read_committed":
		return &sql.TxOptions{Isolation: sql.LevelReadCommitted}, nil
	case "repeatable_read":
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead}, nil
	case "serializable":
		return &sql.TxOptions{Isolation: sql.LevelSerializable}, nil
	default:
		return nil, fmt.Errorf("unknown transaction isolation %q", isolation)
	}
}
