// Package audit 异步写入操作日志，写入失败不影响业务请求
package audit

import (
	"context"
	"sync"
	"time"

	"vidstream-go/internal/model"
	"vidstream-go/pkg/idgen"
	"vidstream-go/pkg/logger"

	"go.uber.org/zap"
)

// Writer 操作日志落地
type Writer interface {
	Write(ctx context.Context, entry model.ActivityLog) error
}

// WriterFunc 函数形式的 Writer
type WriterFunc func(ctx context.Context, entry model.ActivityLog) error

func (f WriterFunc) Write(ctx context.Context, entry model.ActivityLog) error {
	return f(ctx, entry)
}

const writeTimeout = 5 * time.Second

// Dispatcher 有界缓冲 + 单个后台 goroutine 写入
type Dispatcher struct {
	writer Writer
	queue  chan model.ActivityLog

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDispatcher 创建并启动分发器
func NewDispatcher(writer Writer, bufferSize int) *Dispatcher {
	if bufferSize < 1 {
		bufferSize = 1
	}
	d := &Dispatcher{
		writer: writer,
		queue:  make(chan model.ActivityLog, bufferSize),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Record 入队，不阻塞；缓冲满或已关闭时丢弃
func (d *Dispatcher) Record(entry model.ActivityLog) {
	if entry.ID == 0 {
		entry.ID = idgen.NextID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		logger.Warn("Activity log dropped after close",
			zap.String("action", entry.Action), zap.Int64("target_id", entry.TargetID))
		return
	}

	select {
	case d.queue <- entry:
	default:
		logger.Warn("Activity log buffer full, dropping entry",
			zap.String("action", entry.Action),
			zap.String("target_kind", string(entry.TargetKind)),
			zap.Int64("target_id", entry.TargetID))
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for entry := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.writer.Write(ctx, entry); err != nil {
			logger.Error("Failed to write activity log",
				zap.Int64("id", entry.ID),
				zap.String("action", entry.Action),
				zap.Error(err))
		}
		cancel()
	}
}

// Close 停止接收并等待缓冲中的日志写完，ctx 到期则直接返回
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
