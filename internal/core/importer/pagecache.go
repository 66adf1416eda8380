package importer

import (
	"context"
	"encoding/json"
	"fmt"

	"recipe-box/internal/core/recipe"
	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// PageCache caches fetched remote recipe pages in Redis so that repeated
// previews against the same site do not hammer the remote API. Cache
// failures are never fatal; callers fall back to a direct fetch.
type PageCache struct {
	client *redis.Client
	cfg    config.CacheConfig
}

// NewPageCache creates a page cache. When caching is disabled the returned
// cache is a no-op; when enabled the Redis connection is verified up front.
func NewPageCache(cfg config.CacheConfig) (*PageCache, error) {
	if !cfg.Enabled {
		return &PageCache{cfg: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &PageCache{
		client: client,
		cfg:    cfg,
	}, nil
}

// GetPage returns a cached page, if present.
func (p *PageCache) GetPage(ctx context.Context, baseURL string, page int) ([]recipe.RemoteRecipe, bool) {
	if !p.cfg.Enabled || p.client == nil {
		return nil, false
	}

	key := p.pageKey(baseURL, page)
	data, err := p.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("page cache read failed",
				zap.Error(err),
				zap.String("key", key),
			)
		}
		return nil, false
	}

	var items []recipe.RemoteRecipe
	if err := json.Unmarshal(data, &items); err != nil {
		common.LogWarn("page cache entry corrupt",
			zap.Error(err),
			zap.String("key", key),
		)
		return nil, false
	}
	return items, true
}

// SetPage caches a fetched page with the configured TTL.
func (p *PageCache) SetPage(ctx context.Context, baseURL string, page int, items []recipe.RemoteRecipe) {
	if !p.cfg.Enabled || p.client == nil {
		return
	}

	data, err := json.Marshal(items)
	if err != nil {
		common.LogWarn("page cache marshal failed", zap.Error(err))
		return
	}

	key := p.pageKey(baseURL, page)
	if err := p.client.Set(ctx, key, data, p.cfg.TTL).Err(); err != nil {
		common.LogWarn("page cache write failed",
			zap.Error(err),
			zap.String("key", key),
		)
	}
}

func (p *PageCache) pageKey(baseURL string, page int) string {
	return fmt.Sprintf("import:page:%s:%d", baseURL, page)
}

// Close releases the Redis connection.
func (p *PageCache) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}
