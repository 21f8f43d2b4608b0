package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/letterplace/internal/config"
	"github.com/MrSnakeDoc/letterplace/internal/extract"
	"github.com/MrSnakeDoc/letterplace/internal/fetch"
	"github.com/MrSnakeDoc/letterplace/internal/logger"
	"github.com/MrSnakeDoc/letterplace/internal/redis"
	"github.com/MrSnakeDoc/letterplace/internal/store"
	"github.com/MrSnakeDoc/letterplace/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/letterplace/internal/store/redis"
)

// OpenStore connects the configured backend. The returned close function
// releases it and is never nil.
func OpenStore(ctx context.Context, c config.Common, log logger.Logger) (store.Store, func() error, error) {
	switch c.Store {
	case config.StoreMemory:
		log.Warn("using in-memory store, entries are lost on exit")
		return memory.New(), func() error { return nil }, nil

	case config.StoreRedis:
		client, err := redis.New(ctx, redis.OptionsFromConfig(c.Redis), log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisstore.NewStore(client, log), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store %q", c.Store)
	}
}

// NewExtractor applies the configured image precedence.
func NewExtractor(c config.Common) *extract.Extractor {
	if c.PreferOGImage {
		return extract.New(extract.WithPrecedence(extract.OGImageFirst()))
	}
	return extract.New()
}

// NewFetcher applies the configured fetch limits.
func NewFetcher(c config.Common) *fetch.HTTPFetcher {
	return fetch.New(fetch.Options{
		Timeout:   c.FetchTimeout,
		MaxBytes:  c.FetchMaxBytes,
		UserAgent: c.UserAgent,
	})
}
