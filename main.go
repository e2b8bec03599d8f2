package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"sketch_party/internal/api"
	"sketch_party/internal/models"
	"sketch_party/internal/repository"
	"sketch_party/internal/service"
	"sketch_party/internal/storage"
	"sketch_party/pkg/config"
)

func main() {
	// 載入 .env（不存在就略過）與應用程式配置
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// 初始化資料庫連接
	db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	// 確保在程序結束時關閉數據庫連接
	defer db.Close()

	// 自動遷移資料庫結構
	if err := db.AutoMigrate(
		&models.User{}, &models.Room{}, &models.Player{},
		&models.Drawing{}, &models.Vote{}, &models.UsedPrompt{},
	); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}

	// redis 設了位址才啟用，用於多實例間的事件廣播
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	// 初始化 repositories 與 services
	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, cfg, rdb, logger)

	// 啟動事件訂閱與階段驅動器
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	services.WebSocketManager.Start(ctx)
	services.Driver.Start(ctx)
	defer services.Driver.Stop()

	// 設置 Gin 路由
	r := gin.Default()
	api.SetupRoutes(r, services)

	// 啟動伺服器
	if err := r.Run(cfg.Server.Address); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
