package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/catalog-service/internal/config"
	"github.com/Sternrassler/catalog-service/internal/httpapi"
	"github.com/Sternrassler/catalog-service/pkg/cache"
	"github.com/Sternrassler/catalog-service/pkg/catalog"
	"github.com/Sternrassler/catalog-service/pkg/logging"
	"github.com/Sternrassler/catalog-service/pkg/storage"
	"github.com/Sternrassler/catalog-service/pkg/storage/sqlstore"
)

// app is the wired service graph.
type app struct {
	store   *sqlstore.Store
	redis   *redis.Client
	memory  *cache.MemoryStore
	service *catalog.Service
	admin   *catalog.Admin
	logger  zerolog.Logger
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	store, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	}, logger.With().Str("component", "sqlstore").Logger())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &app{store: store, logger: logger}

	var cacheStore cache.Store
	if cfg.UsesRedis() {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			// The cache is best effort; serve uncached until Redis comes back.
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable at startup")
		} else {
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
		}
		cacheStore = cache.NewRedisStore(a.redis)
	} else {
		a.memory = cache.NewMemoryStore()
		cacheStore = a.memory
		logger.Info().Msg("Using in-process result cache")
	}

	retry := storage.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Retry.Attempts
	retry.InitialBackoff = cfg.Retry.Backoff

	a.service = catalog.NewService(catalog.Config{
		Store: storage.NewRetrying(store, retry, logging.NewLogger("retry")),
		Cache: cache.NewResultCache(cache.Config{
			Store:  cacheStore,
			TTL:    cfg.Cache.TTL,
			Logger: logging.NewLogger("cache"),
		}),
		Logger: logging.NewLogger("catalog"),
	})
	a.admin = catalog.NewAdmin(store, catalog.RealSystem{}, logging.NewLogger("admin"))
	return a, nil
}

// healthChecks returns the dependency checks served on /health.
func (a *app) healthChecks() map[string]httpapi.HealthCheck {
	checks := map[string]httpapi.HealthCheck{
		"database": a.store.Ping,
	}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	}
	return checks
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("Close Redis client")
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("Close store")
	}
}
