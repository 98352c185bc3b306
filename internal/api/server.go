package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"staffdesk/internal/app/config"
	"staffdesk/internal/app/handler"
	"staffdesk/internal/app/middleware"
	"staffdesk/internal/app/redis"
	"staffdesk/internal/app/repository"
	"staffdesk/internal/app/storage"
	"staffdesk/internal/app/workflow"
	"staffdesk/internal/pkg"
)

func StartServer() {
	logrus.Info("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("ошибка чтения конфигурации: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	repo, err := repository.New(cfg.PostgresDSN)
	if err != nil {
		logrus.Fatalf("ошибка инициализации репозитория: %v", err)
	}

	ctx := context.Background()
	var closers []func() error

	// кэш пакетов необязателен: без redis читаем из базы
	var cache handler.PackageCache
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, cfg.Cache.PackageTTL)
		if err != nil {
			logrus.Warnf("redis недоступен, кэш пакетов выключен: %v", err)
		} else {
			cache = redisClient
			closers = append(closers, redisClient.Close)
		}
	}

	var files handler.ResumeStorage
	if cfg.MinIO.Enabled() {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
		if err != nil {
			logrus.Warnf("minio недоступен, загрузка резюме выключена: %v", err)
		} else {
			files = minioClient
		}
	}

	orchestrator := workflow.NewOrchestrator(repo)
	h := handler.NewHandler(repo, orchestrator, cache, files)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	application := pkg.NewApp(cfg, router, h)
	for _, closeFn := range closers {
		application.OnShutdown(closeFn)
	}
	application.RunApp()
}
