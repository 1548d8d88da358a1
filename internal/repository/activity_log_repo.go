package repository

import (
	"context"

	"vidstream-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Save 按 ID 幂等写入，重复投递的日志会被忽略
func (r *ActivityLogRepository) Save(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(entry).Error
}

// ListByUser 用户最近的操作日志
func (r *ActivityLogRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]model.ActivityLog, error) {
	var logs []model.ActivityLog
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// ListByTarget 某个目标上的操作日志
func (r *ActivityLogRepository) ListByTarget(ctx context.Context, kind model.TargetKind, targetID int64) ([]model.ActivityLog, error) {
	var logs []model.ActivityLog
	err := r.db.WithContext(ctx).Where("target_kind = ? AND target_id = ?", kind, targetID).
		Order("created_at ASC").Order("id ASC").Find(&logs).Error
	return logs, err
}
