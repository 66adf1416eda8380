package storage

import (
	"context"
	"fmt"

	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names.
const (
	collRecipes     = "recipes"
	collIngredients = "ingredients"
	collTerms       = "terms"
)

// Connect opens a MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	common.LogInfo("connected to mongo",
		zap.String("database", cfg.Database),
	)

	return client, client.Database(cfg.Database), nil
}
