package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/catalog-service/pkg/cache"
	"github.com/Sternrassler/catalog-service/pkg/filter"
	"github.com/Sternrassler/catalog-service/pkg/query"
)

// EntityStore executes query plans. Implementations must be safe for
// concurrent use.
type EntityStore interface {
	// Count returns the number of products matching plan.Where.
	Count(ctx context.Context, plan *query.Plan) (int, error)

	// Find returns the page of products selected by plan, with Category joined.
	Find(ctx context.Context, plan *query.Plan) ([]Product, error)
}

// Config holds service configuration.
type Config struct {
	Store EntityStore

	// Cache is optional; nil disables result caching.
	Cache *cache.ResultCache

	Logger zerolog.Logger
}

// Request holds the raw query parameters of a catalog query.
type Request struct {
	Filter   string
	OrderBy  string
	Page     int
	PageSize int
}

// Service answers catalog queries.
type Service struct {
	store   EntityStore
	cache   *cache.ResultCache
	planner query.Planner
	logger  zerolog.Logger
}

// NewService creates a catalog query service.
func NewService(cfg Config) *Service {
	if cfg.Store == nil {
		panic("entity store cannot be nil")
	}
	return &Service{
		store:   cfg.Store,
		cache:   cfg.Cache,
		planner: query.Planner{Mandatory: ActiveOnly, TieBreak: FieldID},
		logger:  cfg.Logger,
	}
}

// Query runs a catalog query.
//
// Flow:
//  1. Normalize page and page size
//  2. Look up the result cache
//  3. On miss, parse filter and order text (*filter.ParseError on failure)
//  4. Count and fetch the page from the store (*StoreError on failure)
//  5. Store the page in the cache, ignoring failures
//
// A cached page is returned without re-validating the filter text.
func (s *Service) Query(ctx context.Context, req Request) (*PagedResult, error) {
	start := time.Now()
	page, pageSize := NormalizePage(req.Page, req.PageSize)
	key := cache.DeriveKey(req.Filter, req.OrderBy, page, pageSize)

	log := s.logger.With().
		Str("filter", req.Filter).
		Str("order_by", req.OrderBy).
		Int("page", page).
		Int("page_size", pageSize).
		Logger()

	if s.cache != nil {
		var cached PagedResult
		outcome := s.cache.Load(ctx, key, &cached)
		if outcome == cache.OutcomeHit {
			log.Debug().Str("key", key).Msg("Catalog query served from cache")
			observe(outcomeCached, start)
			return &cached, nil
		}
		log.Debug().Str("key", key).Stringer("outcome", outcome).Msg("Catalog query cache miss")
	}

	where, err := filter.Parse(req.Filter, ProductSchema)
	if err != nil {
		observe(outcomeInvalid, start)
		return nil, err
	}
	order, err := filter.ParseOrder(req.OrderBy, ProductSchema)
	if err != nil {
		observe(outcomeInvalid, start)
		return nil, err
	}

	plan := s.planner.Plan(where, order, page, pageSize)

	total, err := s.store.Count(ctx, plan)
	if err != nil {
		log.Error().Err(err).Msg("Catalog count failed")
		observe(outcomeStoreError, start)
		return nil, storeError("count", err)
	}

	items := make([]Product, 0, PageLength(total, page, pageSize))
	if plan.Offset < total {
		found, err := s.store.Find(ctx, plan)
		if err != nil {
			log.Error().Err(err).Msg("Catalog find failed")
			observe(outcomeStoreError, start)
			return nil, storeError("find", err)
		}
		items = append(items, found...)
	}

	result := &PagedResult{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: TotalPages(total, pageSize),
	}

	if s.cache != nil {
		s.cache.Save(ctx, key, result)
	}

	log.Debug().Int("total_count", total).Int("items", len(items)).Msg("Catalog query computed")
	observe(outcomeComputed, start)
	return result, nil
}
