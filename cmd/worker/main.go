package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vidstream-go/internal/config"
	"vidstream-go/internal/infra/database"
	infraKafka "vidstream-go/internal/infra/kafka"
	"vidstream-go/internal/model"
	"vidstream-go/internal/repository"
	"vidstream-go/pkg/logger"

	"go.uber.org/zap"
)

const groupID = "vidstream-activity-worker"

// worker 消费操作日志 topic 写入 activity_logs，按日志 ID 幂等
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := database.AutoMigrate(&model.ActivityLog{}); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}
	logs := repository.NewActivityLogRepository(database.Get())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	topic := cfg.Kafka.Topic(infraKafka.TopicActivityLog)
	logger.Info("Activity worker started",
		zap.String("topic", topic),
		zap.String("group", groupID),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)

	consumer := infraKafka.NewActivityConsumer(cfg.Kafka.Brokers, topic, groupID)
	if err := consumer.Run(ctx, func(ctx context.Context, entry *model.ActivityLog) error {
		return logs.Save(ctx, entry)
	}); err != nil {
		logger.Error("Activity consumer exited", zap.Error(err))
	}
	logger.Info("Activity worker stopped")
}
