package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"vidstream-go/internal/config"
	"vidstream-go/internal/model"
	"vidstream-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// TopicActivityLog 操作日志 topic 的配置 key
const TopicActivityLog = "activity_log"

var producer *kafka.Writer

// InitProducer 创建全局 Writer。kafka-go 懒连接，这里不会探测 broker
func InitProducer(cfg *config.KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("kafka brokers is empty")
	}
	producer = &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Brokers))
	return nil
}

func Producer() *kafka.Writer {
	return producer
}

func CloseProducer() error {
	if producer == nil {
		return nil
	}
	err := producer.Close()
	producer = nil
	logger.Info("Kafka producer closed")
	return err
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// ActivityWriter 把操作日志发到 Kafka，由 worker 落库
type ActivityWriter struct {
	w     messageWriter
	topic string
}

func NewActivityWriter(w messageWriter, topic string) *ActivityWriter {
	return &ActivityWriter{w: w, topic: topic}
}

// Write 以日志 ID 作为消息 key，同一条日志重发会落到同一分区
func (a *ActivityWriter) Write(ctx context.Context, entry model.ActivityLog) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal activity log: %w", err)
	}
	err = a.w.WriteMessages(ctx, kafka.Message{
		Topic: a.topic,
		Key:   []byte(strconv.FormatInt(entry.ID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(entry.Action)},
		},
	})
	if err != nil {
		return fmt.Errorf("send activity log %d: %w", entry.ID, err)
	}
	return nil
}
