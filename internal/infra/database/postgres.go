package database

import (
	"fmt"
	"time"

	"vidstream-go/internal/config"
	"vidstream-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// Init 连接 PostgreSQL。TranslateError 打开后唯一约束冲突返回 gorm.ErrDuplicatedKey
func Init(cfg *config.DatabaseConfig) error {
	conn, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(logger.Logger, 200*time.Millisecond),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("ping database %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	db = conn
	logger.Info("Database connected",
		zap.String("host", cfg.Host),
		zap.String("dbname", cfg.DBName),
		zap.String("tx_isolation", cfg.TxIsolation),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)
	return nil
}

// AutoMigrate 迁移给定模型的表结构
func AutoMigrate(models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("Database migrated", zap.Int("models", len(models)))
	return nil
}

func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	db = nil
	logger.Info("Database connection closed")
	return sqlDB.Close()
}

func Get() *gorm.DB {
	return db
}
