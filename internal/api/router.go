package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petchef/internal/api/handlers/health"
	inventoryHandler "petchef/internal/api/handlers/inventory"
	petHandler "petchef/internal/api/handlers/pet"
	recipeHandler "petchef/internal/api/handlers/recipe"
	"petchef/internal/api/middleware"
	"petchef/internal/core/cache"
	recipeService "petchef/internal/core/recipe"
	"petchef/internal/infrastructure/config"
	"petchef/internal/infrastructure/events"
	"petchef/internal/infrastructure/store"
	"petchef/internal/pkg/common"
)

// Dependencies 路由需要的外部資源，由 main 建立並負責關閉
type Dependencies struct {
	Store     store.Store
	Cache     cache.Store // nil 表示停用去重
	Publisher events.Publisher
	Now       func() time.Time
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 初始化服務
	base := recipeService.NewService(deps.Store, deps.Publisher)
	if deps.Now != nil {
		base.WithClock(deps.Now)
	}
	inventorySvc := recipeService.NewInventoryService(base)
	recipeSvc := recipeService.NewRecipeService(base, cfg.Ranking.SuggestLimit)
	petSvc := recipeService.NewPetService(base)
	duoSvc := recipeService.NewDuoService(base)

	// 健康檢查路由
	healthH := health.NewHandler(cfg, deps.Store, deps.Cache)
	router.GET("/health", healthH.HealthCheck)
	router.GET("/ready", healthH.ReadinessCheck)
	router.GET("/live", healthH.LivenessCheck)

	v1 := router.Group("/v1")
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	v1.Use(middleware.Deduplication(deps.Cache, cfg.DedupWindow))
	{
		inventoryH := inventoryHandler.NewHandler(inventorySvc)
		inventoryGroup := v1.Group("/inventory")
		{
			inventoryGroup.GET("", inventoryH.List)
			inventoryGroup.POST("", inventoryH.Create)
			inventoryGroup.PUT("/:id", inventoryH.Update)
			inventoryGroup.DELETE("/:id", inventoryH.Delete)
		}

		recipeH := recipeHandler.NewHandler(recipeSvc, duoSvc)
		recipeGroup := v1.Group("/recipes")
		{
			recipeGroup.GET("", recipeH.List)
			recipeGroup.POST("", recipeH.Create)
			recipeGroup.GET("/suggest", recipeH.Suggest)
		}
		v1.GET("/duo/suggest", recipeH.SuggestDuo)

		petH := petHandler.NewHandler(petSvc)
		petGroup := v1.Group("/pets")
		{
			petGroup.GET("", petH.List)
			petGroup.POST("", petH.Create)
			petGroup.GET("/:id/calories", petH.Calories)
		}
	}

	common.LogInfo("Router setup completed",
		zap.String("store", cfg.Store.Driver),
		zap.Bool("dedup_enabled", deps.Cache != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
