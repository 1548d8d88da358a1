package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"vidstream-go/internal/model"
	"vidstream-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ActivityHandler 处理一条操作日志，需要幂等
type ActivityHandler func(ctx context.Context, entry *model.ActivityLog) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ActivityConsumer 处理成功后才提交 offset；同一条消息最多重试 maxAttempts 次，之后跳过
type ActivityConsumer struct {
	reader      messageReader
	maxAttempts int
	backoff     time.Duration
}

func NewActivityConsumer(brokers []string, topic, groupID string) *ActivityConsumer {
	return newActivityConsumer(kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	}))
}

func newActivityConsumer(r messageReader) *ActivityConsumer {
	return &ActivityConsumer{reader: r, maxAttempts: 5, backoff: time.Second}
}

// Run 阻塞直到 ctx 取消
func (c *ActivityConsumer) Run(ctx context.Context, handle ActivityHandler) error {
	defer func() {
		if err := c.reader.Close(); err != nil {
			logger.Error("Failed to close kafka reader", zap.Error(err))
		}
		logger.Info("Kafka activity consumer stopped")
	}()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("Failed to fetch kafka message", zap.Error(err))
			if !sleep(ctx, c.backoff) {
				return nil
			}
			continue
		}

		if err := c.process(ctx, msg, handle); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (c *ActivityConsumer) process(ctx context.Context, msg kafka.Message, handle ActivityHandler) error {
	entry, err := decodeActivity(msg.Value)
	if err != nil {
		logger.Error("Dropping undecodable activity log",
			zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset), zap.Error(err))
		return c.reader.CommitMessages(ctx, msg)
	}

	for attempt := 1; ; attempt++ {
		err = handle(ctx, entry)
		if err == nil {
			break
		}
		if attempt >= c.maxAttempts {
			logger.Error("Giving up on activity log",
				zap.Int64("id", entry.ID), zap.String("action", entry.Action),
				zap.Int("attempts", attempt), zap.Error(err))
			break
		}
		logger.Warn("Activity log handler failed, retrying",
			zap.Int64("id", entry.ID), zap.Int("attempt", attempt), zap.Error(err))
		if !sleep(ctx, c.backoff*time.Duration(attempt)) {
			return ctx.Err()
		}
	}
	return c.reader.CommitMessages(ctx, msg)
}

func decodeActivity(value []byte) (*model.ActivityLog, error) {
	var entry model.ActivityLog
	if err := json.Unmarshal(value, &entry); err != nil {
		return nil, err
	}
	if entry.ID == 0 || entry.Action == "" {
		return nil, errors.New("activity log without id or action")
	}
	return &entry, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
