package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-box/internal/api"
	"recipe-box/internal/core/importer"
	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/infrastructure/storage"
	"recipe-box/internal/pkg/common"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("configuration loaded",
		zap.String("env", cfg.App.Env),
		zap.String("mongo_database", cfg.Mongo.Database),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// Storage.
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
	client, db, err := storage.Connect(connectCtx, cfg.Mongo)
	cancelConnect()
	if err != nil {
		common.LogFatal("failed to connect to mongodb", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			common.LogError("failed to disconnect mongodb", zap.Error(err))
		}
	}()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
	if err := ensureIndexes(indexCtx, db); err != nil {
		cancelIndex()
		common.LogFatal("failed to ensure indexes", zap.Error(err))
	}
	cancelIndex()

	// Page cache is optional; the importer works uncached without it.
	pageCache, err := importer.NewPageCache(cfg.Cache)
	if err != nil {
		common.LogFatal("failed to initialize page cache", zap.Error(err))
	}
	defer pageCache.Close()

	sessions := importer.NewSessionManager(cfg.Session)
	defer sessions.Close()

	router, err := api.SetupRouter(cfg, api.Dependencies{
		Mongo:     client,
		DB:        db,
		PageCache: pageCache,
		Sessions:  sessions,
	})
	if err != nil {
		common.LogError("failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("starting server",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	common.LogInfo("server exited")
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := storage.NewRecipeRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("recipe indexes: %w", err)
	}
	if err := storage.NewIngredientRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ingredient indexes: %w", err)
	}
	if err := storage.NewTermRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("term indexes: %w", err)
	}
	return nil
}
