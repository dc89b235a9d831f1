package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/catalog-service/internal/httpapi"
	"github.com/Sternrassler/catalog-service/pkg/logging"
	"github.com/Sternrassler/catalog-service/pkg/metrics"
	"github.com/Sternrassler/catalog-service/pkg/pagination"
	"github.com/Sternrassler/catalog-service/pkg/ratelimit"
)

const (
	shutdownTimeout    = 15 * time.Second
	housekeepingPeriod = time.Minute
)

func newServeCmd(c *cli) *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, c, !skipMigrate)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply schema migrations on startup")
	return cmd
}

func runServe(ctx context.Context, c *cli, migrate bool) error {
	metrics.SetVersion(version)

	a, err := newApp(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if migrate {
		if err := a.store.Migrate(ctx); err != nil {
			return err
		}
	}

	limiter := ratelimit.NewLimiter(ratelimit.Config{
		RPS:    c.cfg.RateLimit.RPS,
		Burst:  c.cfg.RateLimit.Burst,
		Logger: logging.NewLogger("ratelimit"),
	})
	go limiter.Run(ctx, housekeepingPeriod)

	if a.memory != nil {
		go purgeExpired(ctx, a)
	}

	if c.cfg.Warm.Pages > 0 {
		warmer := pagination.NewWarmer(a.service, pagination.Config{
			Pages:    c.cfg.Warm.Pages,
			PageSize: c.cfg.Warm.PageSize,
			Timeout:  c.cfg.Query.Timeout,
		}, logging.NewLogger("warmer"))
		go func() {
			if _, err := warmer.Warm(ctx); err != nil {
				c.logger.Warn().Err(err).Msg("Cache warm incomplete")
			}
		}()
	}

	server := httpapi.New(httpapi.Config{
		Products:     a.service,
		Reader:       a.admin,
		Limiter:      limiter,
		Metrics:      metrics.Handler(),
		Health:       a.healthChecks(),
		QueryTimeout: c.cfg.Query.Timeout,
		Logger:       logging.NewLogger("http"),
	})

	c.logger.Info().
		Str("version", version).
		Str("addr", c.cfg.HTTP.Addr).
		Str("driver", c.cfg.Database.Driver).
		Bool("redis", c.cfg.UsesRedis()).
		Msg("Starting catalog service")

	return server.ListenAndServe(ctx, c.cfg.HTTP.Addr, shutdownTimeout)
}

// purgeExpired drops expired in-process cache entries until ctx ends.
func purgeExpired(ctx context.Context, a *app) {
	ticker := time.NewTicker(housekeepingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.memory.Purge(); n > 0 {
				a.logger.Debug().Int("purged", n).Msg("Purged expired cache entries")
			}
		}
	}
}
