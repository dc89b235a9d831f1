// Package storage holds store-agnostic helpers for the catalog entity stores.
// Concrete stores live in the memory and sqlstore subpackages.
package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/catalog-service/pkg/catalog"
	"github.com/Sternrassler/catalog-service/pkg/query"
)

var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")
)

var (
	storeRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_store_retries_total",
		Help: "Total number of store retry attempts by operation",
	}, []string{"op"})

	storeRetryBackoffSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_store_retry_backoff_seconds",
		Help:    "Backoff duration before store retries",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	storeRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_store_retry_exhausted_total",
		Help: "Total number of times store retry attempts were exhausted by operation",
	}, []string{"op"})
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first one).
	MaxAttempts int

	// InitialBackoff is the initial backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        2 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Retrying wraps a catalog.EntityStore and retries transient failures.
type Retrying struct {
	store  catalog.EntityStore
	config RetryConfig
	logger zerolog.Logger

	// sleep waits for d or until ctx is done.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetrying wraps store. A config with MaxAttempts < 1 is treated as 1.
func NewRetrying(store catalog.EntityStore, config RetryConfig, logger zerolog.Logger) *Retrying {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.BackoffMultiplier < 1 {
		config.BackoffMultiplier = 1
	}
	return &Retrying{store: store, config: config, logger: logger, sleep: sleepContext}
}

func (r *Retrying) Count(ctx context.Context, plan *query.Plan) (int, error) {
	var n int
	err := r.do(ctx, "count", func() error {
		var err error
		n, err = r.store.Count(ctx, plan)
		return err
	})
	return n, err
}

func (r *Retrying) Find(ctx context.Context, plan *query.Plan) ([]catalog.Product, error) {
	var items []catalog.Product
	err := r.do(ctx, "find", func() error {
		var err error
		items, err = r.store.Find(ctx, plan)
		return err
	})
	return items, err
}

// do executes fn with exponential backoff and ±20% jitter. Only errors
// classified by IsTransient are retried.
func (r *Retrying) do(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	backoff := r.config.InitialBackoff

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 1 {
				r.logger.Info().
					Str("op", op).
					Int("attempt", attempt).
					Msg("Store call succeeded after retry")
			}
			return nil
		}

		lastErr = err
		if !IsTransient(err) {
			return err
		}
		if attempt >= r.config.MaxAttempts {
			break
		}

		storeRetriesTotal.WithLabelValues(op).Inc()

		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
		storeRetryBackoffSeconds.Observe(jitter.Seconds())

		r.logger.Warn().
			Err(err).
			Str("op", op).
			Int("attempt", attempt).
			Dur("backoff", jitter).
			Msg("Retrying store call after backoff")

		if err := r.sleep(ctx, jitter); err != nil {
			return fmt.Errorf("%s: %w (last error: %v)", op, err, lastErr)
		}

		backoff = time.Duration(float64(backoff) * r.config.BackoffMultiplier)
		if backoff > r.config.MaxBackoff {
			backoff = r.config.MaxBackoff
		}
	}

	storeRetryExhaustedTotal.WithLabelValues(op).Inc()
	r.logger.Warn().
		Str("op", op).
		Int("max_attempts", r.config.MaxAttempts).
		Msg("Store retry attempts exhausted")

	return fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, r.config.MaxAttempts, lastErr)
}

// IsTransient reports whether err is worth retrying: dropped connections,
// network timeouts and PostgreSQL errors the driver marks safe to retry.
// Context cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "57P01", "53300":
			// serialization_failure, deadlock_detected, admin_shutdown, too_many_connections
			return true
		}
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
