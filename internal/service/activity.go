package service

import (
	"encoding/json"
	"time"

	"vidstream-go/internal/model"
	"vidstream-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ActivityRecorder 操作日志的旁路出口，Record 不得阻塞调用方
type ActivityRecorder interface {
	Record(entry model.ActivityLog)
}

// recordActivity 提交后写日志，rec 为空时忽略
func recordActivity(rec ActivityRecorder, userID *int64, action string, kind model.TargetKind, targetID int64, meta map[string]interface{}) {
	if rec == nil {
		return
	}
	entry := model.ActivityLog{
		UserID:     userID,
		Action:     action,
		TargetKind: kind,
		TargetID:   targetID,
		CreatedAt:  time.Now(),
	}
	if len(meta) > 0 {
		raw, err := json.Marshal(meta)
		if err != nil {
			logger.Warn("Marshal activity metadata failed", zap.String("action", action), zap.Error(err))
		} else {
			entry.Metadata = datatypes.JSON(raw)
		}
	}
	rec.Record(entry)
}

func int64Ptr(v int64) *int64 {
	return &v
}
