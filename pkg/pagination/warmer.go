package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/catalog-service/pkg/catalog"
)

// Config holds cache warmer configuration
type Config struct {
	// Pages is the number of leading pages to warm. Zero disables warming.
	Pages int
	// PageSize is the page size the warmed entries are keyed under
	PageSize int
	// MaxConcurrency is the size of the worker pool
	MaxConcurrency int
	// Timeout per page query
	Timeout time.Duration
}

// DefaultConfig returns the warmer defaults (warming disabled).
func DefaultConfig() Config {
	return Config{
		Pages:          0,
		PageSize:       catalog.DefaultPageSize,
		MaxConcurrency: 4,
		Timeout:        10 * time.Second,
	}
}

// PageQuerier is the part of catalog.Service the warmer needs.
type PageQuerier interface {
	Query(ctx context.Context, req catalog.Request) (*catalog.PagedResult, error)
}

// PageResult represents the result of warming a single page
type PageResult struct {
	PageNumber int
	Items      int
	Error      error
}

// Stats summarizes a warm run.
type Stats struct {
	TotalPages int
	Warmed     int
	Failed     int
	Duration   time.Duration
}

// Warmer pre-computes the first pages of the unfiltered catalog so the
// result cache holds them before traffic arrives.
type Warmer struct {
	querier PageQuerier
	config  Config
	logger  zerolog.Logger
}

// NewWarmer creates a new cache warmer
func NewWarmer(querier PageQuerier, config Config, logger zerolog.Logger) *Warmer {
	defaults := DefaultConfig()
	if config.PageSize <= 0 {
		config.PageSize = defaults.PageSize
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = defaults.MaxConcurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}

	return &Warmer{
		querier: querier,
		config:  config,
		logger:  logger,
	}
}

// Warm queries page 1 to learn the page count, then queries the remaining
// pages up to Config.Pages on a bounded worker pool. Pages that fail are
// counted and logged; the first failure is returned alongside the stats.
func (w *Warmer) Warm(ctx context.Context) (Stats, error) {
	start := time.Now()
	if w.config.Pages <= 0 {
		return Stats{}, nil
	}

	first := w.query(ctx, 1)
	if first.Error != nil {
		return Stats{Failed: 1, Duration: time.Since(start)}, fmt.Errorf("warm first page: %w", first.Error)
	}

	stats := Stats{TotalPages: first.total, Warmed: 1}
	last := min(w.config.Pages, first.total)

	w.logger.Info().
		Int("total_pages", first.total).
		Int("warming", max(last, 1)).
		Int("page_size", w.config.PageSize).
		Msg("Starting cache warm")

	if last <= 1 {
		stats.Duration = time.Since(start)
		w.logger.Info().Int("pages", 1).Dur("duration", stats.Duration).Msg("Cache warm complete (single page)")
		return stats, nil
	}

	pool, err := ants.NewPool(w.config.MaxConcurrency, ants.WithPanicHandler(func(v any) {
		w.logger.Error().Interface("panic", v).Msg("Cache warm worker panic")
	}))
	if err != nil {
		return stats, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan pageOutcome, last-1)
	var wg sync.WaitGroup
	for page := 2; page <= last; page++ {
		if ctx.Err() != nil {
			break
		}
		page := page
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results <- w.query(ctx, page)
		}); err != nil {
			wg.Done()
			results <- pageOutcome{PageResult: PageResult{PageNumber: page, Error: err}}
		}
	}
	wg.Wait()
	close(results)

	var firstErr error
	for r := range results {
		if r.Error != nil {
			stats.Failed++
			if firstErr == nil {
				firstErr = r.Error
			}
			w.logger.Warn().Err(r.Error).Int("page", r.PageNumber).Msg("Cache warm page failed")
			continue
		}
		stats.Warmed++
	}
	stats.Duration = time.Since(start)

	if firstErr == nil && ctx.Err() != nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		return stats, fmt.Errorf("cache warm (partial: %d/%d pages): %w", stats.Warmed, last, firstErr)
	}

	w.logger.Info().
		Int("pages", stats.Warmed).
		Dur("duration", stats.Duration).
		Msg("Cache warm complete")
	return stats, nil
}

type pageOutcome struct {
	PageResult
	total int
}

func (w *Warmer) query(ctx context.Context, page int) pageOutcome {
	pageCtx, cancel := context.WithTimeout(ctx, w.config.Timeout)
	defer cancel()

	res, err := w.querier.Query(pageCtx, catalog.Request{Page: page, PageSize: w.config.PageSize})
	if err != nil {
		return pageOutcome{PageResult: PageResult{PageNumber: page, Error: err}}
	}
	if res == nil {
		return pageOutcome{PageResult: PageResult{PageNumber: page, Error: errors.New("nil result")}}
	}
	return pageOutcome{
		PageResult: PageResult{PageNumber: page, Items: len(res.Items)},
		total:      res.TotalPages,
	}
}
