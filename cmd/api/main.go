package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidstream-go/internal/api/handler"
	"vidstream-go/internal/api/middleware"
	"vidstream-go/internal/api/router"
	"vidstream-go/internal/audit"
	"vidstream-go/internal/config"
	"vidstream-go/internal/infra/database"
	infraES "vidstream-go/internal/infra/elasticsearch"
	infraKafka "vidstream-go/internal/infra/kafka"
	infraMinio "vidstream-go/internal/infra/minio"
	infraRedis "vidstream-go/internal/infra/redis"
	"vidstream-go/internal/model"
	"vidstream-go/internal/ratelimit"
	"vidstream-go/internal/repository"
	"vidstream-go/internal/service"
	"vidstream-go/pkg/idgen"
	"vidstream-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

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

	if err := idgen.Init(cfg.App.NodeID); err != nil {
		logger.Fatal("Failed to init id generator", zap.Error(err))
	}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := database.AutoMigrate(model.All()...); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	store, err := repository.NewStore(database.Get(), cfg.Database.TxIsolation)
	if err != nil {
		logger.Fatal("Failed to create store", zap.Error(err))
	}

	// 初始化Redis（限流计数）
	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer infraRedis.Close()

	limits, err := ratelimit.NewRegistry(infraRedis.Get(), cfg.RateLimit)
	if err != nil {
		logger.Fatal("Failed to build rate limits", zap.Error(err))
	}

	// 初始化MinIO（媒体托管）
	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}
	locator := infraMinio.NewLocator(infraMinio.Get(), &cfg.MinIO)

	// 操作日志
	var writer audit.Writer
	switch cfg.Audit.Sink {
	case "kafka":
		if err := infraKafka.InitProducer(&cfg.Kafka); err != nil {
			logger.Fatal("Failed to init kafka producer", zap.Error(err))
		}
		defer infraKafka.CloseProducer()
		writer = infraKafka.NewActivityWriter(infraKafka.Producer(), cfg.Kafka.Topic(infraKafka.TopicActivityLog))
	default:
		writer = audit.NewDBWriter(store.Repos().ActivityLogs)
	}
	dispatcher := audit.NewDispatcher(writer, cfg.Audit.BufferSize)

	// 初始化 Elasticsearch（可选，失败则搜索降级到 DB）
	var (
		indexer  service.VideoIndexer
		searcher service.VideoSearcher
		bulk     service.BulkIndexer
	)
	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
	} else {
		defer infraES.Close()
		videoIndex := infraES.NewVideoIndex(infraES.Get(), infraES.VideosIndexName(&cfg.Elasticsearch))
		ensureCtx, cancelEnsure := context.WithTimeout(context.Background(), 10*time.Second)
		if err := videoIndex.Ensure(ensureCtx); err != nil {
			logger.Warn("Elasticsearch index init failed", zap.Error(err))
		}
		cancelEnsure()
		indexer, searcher, bulk = videoIndex, videoIndex, videoIndex
	}

	// 依赖装配（Store -> Service -> Handler）
	authService := service.NewAuthService(store)
	userService := service.NewUserService(store)
	videoService := service.NewVideoService(store, locator, indexer, dispatcher)
	viewService := service.NewViewService(store, dispatcher, cfg.Engagement)
	toggleService := service.NewToggleService(store, dispatcher)
	likeService := service.NewLikeService(store)
	subscriptionService := service.NewSubscriptionService(store)
	commentService := service.NewCommentService(store, dispatcher)
	tweetService := service.NewTweetService(store, dispatcher)
	playlistService := service.NewPlaylistService(store, dispatcher)
	searchService := service.NewSearchService(store, searcher, bulk)
	statsService := service.NewStatsService(store, dispatcher)

	gin.SetMode(cfg.App.Mode)
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.App.TrustedProxies); err != nil {
		logger.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	r.GET("/healthz", healthz)

	router.Setup(r, &router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService, videoService, tweetService, playlistService),
		Video:        handler.NewVideoHandler(videoService, viewService),
		Like:         handler.NewLikeHandler(toggleService, likeService),
		Subscription: handler.NewSubscriptionHandler(toggleService, subscriptionService),
		Comment:      handler.NewCommentHandler(commentService),
		Tweet:        handler.NewTweetHandler(tweetService),
		Playlist:     handler.NewPlaylistHandler(playlistService),
		Search:       handler.NewSearchHandler(searchService),
		Dashboard:    handler.NewDashboardHandler(statsService),
	}, limits)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
		zap.String("audit_sink", cfg.Audit.Sink),
		zap.Duration("view_window", cfg.Engagement.ViewWindow),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	if err := dispatcher.Close(ctx); err != nil {
		logger.Warn("Activity log dispatcher did not drain", zap.Error(err))
	}
}

// healthz 依赖探活：数据库与 Redis 任一不可用返回 503
func healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok", "redis": "ok"}
	healthy := true
	if sqlDB, err := database.Get().DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"], healthy = "down", false
	}
	if err := infraRedis.Get().Ping(ctx).Err(); err != nil {
		checks["redis"], healthy = "down", false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	cfg := config.Get()
	c.JSON(status, gin.H{
		"healthy": healthy,
		"checks":  checks,
		"service": cfg.App.Name,
		"version": cfg.App.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
