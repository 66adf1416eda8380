package api

import (
	"context"
	"net/http"
	"time"

	healthHandler "recipe-box/internal/api/handlers/health"
	importHandler "recipe-box/internal/api/handlers/importer"
	recipeHandler "recipe-box/internal/api/handlers/recipe"
	"recipe-box/internal/api/middleware"
	importService "recipe-box/internal/core/importer"
	recipeService "recipe-box/internal/core/recipe"
	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/infrastructure/storage"
	"recipe-box/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	// Covers slow remote fetches during import runs.
	timeoutDuration = 120 * time.Second
	// Request body size limit (1MB); the API accepts no uploads.
	maxBodySize = 1 << 20
)

// Dependencies carries the shared infrastructure the router wires the
// services to.
type Dependencies struct {
	Mongo     *mongo.Client
	DB        *mongo.Database
	PageCache *importService.PageCache
	Sessions  *importService.SessionManager
}

// SetupRouter builds the gin engine with all middleware, services and
// routes wired.
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	common.LogInfo("starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// Repositories and services.
	recipeRepo := storage.NewRecipeRepository(deps.DB)
	ingredientRepo := storage.NewIngredientRepository(deps.DB)
	termRepo := storage.NewTermRepository(deps.DB)

	recipeSvc := recipeService.NewService(recipeRepo, termRepo, ingredientRepo)

	remoteClient := importService.NewRemoteClient(cfg.Remote, deps.PageCache)
	detector := importService.NewDetector(recipeRepo)
	mapper := importService.NewMapper(recipeRepo, ingredientRepo, termRepo)
	importSvc := importService.NewService(remoteClient, detector, mapper, deps.Sessions, cfg.Messages)

	// Per-request timeout.
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrorResponse{
				Code:    common.ErrCodeGatewayTimeout,
				Message: "request timeout",
			})
		}
	})

	// Health probes.
	health := healthHandler.NewHandler(cfg, deps.Mongo)
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	api := router.Group("/api/v1")
	{
		recipes := recipeHandler.NewHandler(recipeSvc)
		api.GET("/recipes", recipes.HandleList)
		api.GET("/recipes/:id", recipes.HandleGet)
		api.GET("/ingredients", recipes.HandleIngredients)

		imports := importHandler.NewHandler(importSvc, cfg.Messages)
		importGroup := api.Group("/import")
		importGroup.Use(middleware.Deduplication(cfg.Server.DedupWindow))
		{
			importGroup.POST("/preview", imports.HandlePreview)
			importGroup.POST("/preview/:id/more", imports.HandleFetchMore)
			importGroup.GET("/run", imports.HandleRun)
		}
	}

	common.LogInfo("router setup completed",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
