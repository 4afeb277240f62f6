package api

import (
	"context"
	"net/http"
	"time"

	chatHandler "bitewise-assistant/internal/api/handlers/chat"
	"bitewise-assistant/internal/api/handlers/health"
	"bitewise-assistant/internal/api/middleware"
	"bitewise-assistant/internal/core/cache"
	chatcore "bitewise-assistant/internal/core/chat"
	"bitewise-assistant/internal/core/chat/lexicon"
	"bitewise-assistant/internal/core/search"
	"bitewise-assistant/internal/infrastructure/config"
	"bitewise-assistant/internal/infrastructure/history"
	"bitewise-assistant/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 請求超時
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (1MB)
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.Manager, historyStore *history.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 請求去重
	router.Use(middleware.Deduplication(cfg))

	// 速率限制
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("history_enabled", cfg.Redis.Enabled),
		zap.String("search_base_url", cfg.Edamam.BaseURL),
	)

	// 初始化搜尋服務
	searchClient := search.NewClient(cfg)
	searchService := search.NewService(cfg, searchClient, cacheManager)

	// 初始化對話管線
	pipeline := chatcore.NewPipeline(lexicon.Default(), searchService, nil)

	chatHandlerInstance := chatHandler.NewHandler(pipeline, historyStore)

	// 全局中間件：設置超時與共用依賴
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("cache_manager", cacheManager)

		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		chatGroup := api.Group("/chat")
		{
			// 對話訊息處理
			chatGroup.POST("/message", chatHandlerInstance.HandleMessage)

			// 對話歷史查詢
			chatGroup.GET("/history/:user_id", chatHandlerInstance.HandleHistory)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
