package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/api/v1/recipes", cfg.Remote.RecipesPath)
	assert.Equal(t, 10, cfg.Remote.PageSize)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.False(t, cfg.Cache.Enabled)
	assert.NotEmpty(t, cfg.Messages.NoURL)
	assert.NotEmpty(t, cfg.Messages.InvalidURL)
	assert.NotEmpty(t, cfg.Messages.Found)
	assert.NotEmpty(t, cfg.Messages.NoMore)
	assert.NotEmpty(t, cfg.Messages.Duplicate)
	assert.NotEmpty(t, cfg.Messages.Similar)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080},
			Mongo:  MongoConfig{URI: "mongodb://localhost:27017", Database: "recipebox"},
			Remote: RemoteConfig{RecipesPath: "/api/v1/recipes", PageSize: 10},
			Session: SessionConfig{
				MaxSize:         100,
				TTL:             30 * time.Minute,
				CleanupInterval: 10 * time.Minute,
			},
		}
	}

	assert.NoError(t, validateConfig(valid()))

	t.Run("missing mongo uri", func(t *testing.T) {
		cfg := valid()
		cfg.Mongo.URI = ""
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("relative recipes path", func(t *testing.T) {
		cfg := valid()
		cfg.Remote.RecipesPath = "api/v1/recipes"
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("zero page size", func(t *testing.T) {
		cfg := valid()
		cfg.Remote.PageSize = 0
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("cache enabled without addr", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Enabled = true
		cfg.Cache.TTL = time.Minute
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("zero session ttl", func(t *testing.T) {
		cfg := valid()
		cfg.Session.TTL = 0
		assert.Error(t, validateConfig(cfg))
	})
}
