// Package httpapi exposes the catalog over HTTP using gin.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/catalog-service/pkg/catalog"
	"github.com/Sternrassler/catalog-service/pkg/ratelimit"
)

// DefaultQueryTimeout bounds a catalog query when Config.QueryTimeout is zero.
const DefaultQueryTimeout = 10 * time.Second

// ProductQuerier runs catalog queries. *catalog.Service implements it.
type ProductQuerier interface {
	Query(ctx context.Context, req catalog.Request) (*catalog.PagedResult, error)
}

// CatalogReader serves single-entity lookups. *catalog.Admin implements it.
type CatalogReader interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*catalog.Category, error)
	ListCategories(ctx context.Context) ([]catalog.Category, error)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Config holds server dependencies.
type Config struct {
	Products ProductQuerier
	Reader   CatalogReader

	// Limiter is optional; nil disables rate limiting on /api.
	Limiter *ratelimit.Limiter

	// Metrics serves GET /metrics when set.
	Metrics http.Handler

	// Health checks run by GET /health, keyed by dependency name.
	Health map[string]HealthCheck

	QueryTimeout time.Duration
	Logger       zerolog.Logger
}

// Server routes catalog HTTP requests.
type Server struct {
	products     ProductQuerier
	reader       CatalogReader
	health       map[string]HealthCheck
	queryTimeout time.Duration
	logger       zerolog.Logger
	router       *gin.Engine
}

// New builds the gin engine with all routes and middleware.
func New(cfg Config) *Server {
	if cfg.Products == nil {
		panic("product querier cannot be nil")
	}
	if cfg.Reader == nil {
		panic("catalog reader cannot be nil")
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = DefaultQueryTimeout
	}

	s := &Server{
		products:     cfg.Products,
		reader:       cfg.Reader,
		health:       cfg.Health,
		queryTimeout: cfg.QueryTimeout,
		logger:       cfg.Logger,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestMetrics())
	router.Use(requestLogger(cfg.Logger))

	router.GET("/health", s.handleHealth)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	api := router.Group("/api")
	if cfg.Limiter != nil {
		api.Use(rateLimit(cfg.Limiter))
	}
	api.GET("/catalog/products", s.handleQueryProducts)
	api.GET("/products/:id", s.handleGetProduct)
	api.GET("/categories", s.handleListCategories)
	api.GET("/categories/:id", s.handleGetCategory)

	s.router = router
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info().Msg("HTTP server shutting down")
	return srv.Shutdown(shutdownCtx)
}
