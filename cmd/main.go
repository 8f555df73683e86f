package main

import (
	"context"
	"log"
	"time"

	"github.com/toolpilot-ai/toolpilot/api"
	"github.com/toolpilot-ai/toolpilot/api/handlers"
	"github.com/toolpilot-ai/toolpilot/configs"
	"github.com/toolpilot-ai/toolpilot/database"
	"github.com/toolpilot-ai/toolpilot/pkg/advisory"
	"github.com/toolpilot-ai/toolpilot/pkg/cache"
	"github.com/toolpilot-ai/toolpilot/pkg/logger"
	"github.com/toolpilot-ai/toolpilot/pkg/progression"
	"github.com/toolpilot-ai/toolpilot/pkg/recommend"
	"github.com/toolpilot-ai/toolpilot/pkg/refresh"
	"github.com/toolpilot-ai/toolpilot/pkg/scoring"
	"github.com/toolpilot-ai/toolpilot/pkg/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	baseLog, err := logger.New(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer baseLog.Sync()

	// 初始化JWT
	utils.InitJWT(cfg)

	// 初始化数据库连接
	if err := database.Initialize(cfg); err != nil {
		baseLog.Fatal("failed to initialize database", "error", err.Error())
	}
	defer database.Close()

	// 进度引擎
	progressionStore := progression.NewGormStore(database.DB, baseLog)
	resolver := progression.NewResolver()
	ledger := progression.NewLedger(progressionStore, progressionStore, progressionStore, progressionStore, resolver, baseLog)

	// 推荐理由润色（未配置API key时禁用）
	var provider advisory.Provider
	if p := advisory.NewOpenAIProvider(cfg.Advisory.APIKey, cfg.Advisory.Model); p != nil {
		provider = p
	}
	enricher := advisory.NewEnricher(provider, time.Duration(cfg.Advisory.TimeoutSeconds)*time.Second, baseLog)

	// 推荐引擎
	recommendStore := recommend.NewGormStore(database.DB, baseLog)
	manager := recommend.NewManager(
		scoring.NewScorer(),
		recommendStore, recommendStore, recommendStore,
		ledger, enricher,
		cfg.Recommend.Limit,
		baseLog,
	)

	// 推荐集缓存
	cacheSize := cfg.Recommend.CacheSize
	if cacheSize <= 0 {
		cacheSize = 1000
	}
	cacheTTL := time.Duration(cfg.Recommend.CacheTTLMins) * time.Minute
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	setCache := cache.NewSetCache(cacheSize, cacheTTL)

	// 定时推荐刷新（可选）
	if cfg.Refresh.Enabled {
		interval := time.Duration(cfg.Refresh.IntervalMinutes) * time.Minute
		if interval <= 0 {
			interval = time.Hour
		}
		refresher := refresh.NewRefresher(interval, recommendStore,
			func(ctx context.Context, userID uint) error {
				entries, err := manager.Generate(ctx, userID)
				if err != nil {
					return err
				}
				setCache.Set(userID, entries)
				return nil
			}, baseLog)
		refresher.Start()
		defer refresher.Stop()
	}

	// 创建Gin实例
	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()

	// 设置路由
	env := &handlers.Env{
		Manager:  manager,
		Ledger:   ledger,
		Resolver: resolver,
		Cache:    setCache,
	}
	api.SetupRouter(router, env)

	// 启动服务器
	baseLog.Info("server starting", "port", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		baseLog.Fatal("failed to start server", "error", err.Error())
	}
}
