package audit

import (
	"context"

	"vidstream-go/internal/model"
	"vidstream-go/internal/repository"
)

// DBWriter 直接写入 activity_logs 表，按 ID 幂等
type DBWriter struct {
	repo *repository.ActivityLogRepository
}

func NewDBWriter(repo *repository.ActivityLogRepository) *DBWriter {
	return &DBWriter{repo: repo}
}

func (w *DBWriter) Write(ctx context.Context, entry model.ActivityLog) error {
	return w.repo.Save(ctx, &entry)
}
