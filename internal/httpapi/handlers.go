package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Sternrassler/catalog-service/pkg/catalog"
	"github.com/Sternrassler/catalog-service/pkg/filter"
)

// Response bodies.
const (
	errQueryFailed   = "Query failed"
	errInternal      = "Internal server error"
	errNotFound      = "Not found"
	errInvalidID     = "Invalid identifier"
	errLimitExceeded = "Rate limit exceeded"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) handleQueryProducts(c *gin.Context) {
	page, err := intParam(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: errQueryFailed, Detail: err.Error()})
		return
	}
	pageSize, err := intParam(c, "pageSize", catalog.DefaultPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: errQueryFailed, Detail: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.queryTimeout)
	defer cancel()

	result, err := s.products.Query(ctx, catalog.Request{
		Filter:   c.Query("q"),
		OrderBy:  c.Query("orderBy"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		var parseErr *filter.ParseError
		if errors.As(err, &parseErr) {
			c.JSON(http.StatusBadRequest, errorBody{Error: errQueryFailed, Detail: parseErr.Error()})
			return
		}
		s.logger.Error().Err(err).Str("q", c.Query("q")).Msg("Catalog query failed")
		c.JSON(http.StatusInternalServerError, errorBody{Error: errInternal})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := s.reader.GetProduct(c.Request.Context(), id)
	if err != nil {
		s.lookupFailed(c, "product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleGetCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	cat, err := s.reader.GetCategory(c.Request.Context(), id)
	if err != nil {
		s.lookupFailed(c, "category", err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (s *Server) handleListCategories(c *gin.Context) {
	cs, err := s.reader.ListCategories(c.Request.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("List categories failed")
		c.JSON(http.StatusInternalServerError, errorBody{Error: errInternal})
		return
	}
	if cs == nil {
		cs = []catalog.Category{}
	}
	c.JSON(http.StatusOK, cs)
}

func (s *Server) handleHealth(c *gin.Context) {
	checks := make(map[string]string, len(s.health))
	status := http.StatusOK
	for name, check := range s.health {
		if err := check(c.Request.Context()); err != nil {
			s.logger.Warn().Err(err).Str("dependency", name).Msg("Health check failed")
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "checks": checks})
}

func (s *Server) lookupFailed(c *gin.Context, kind string, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorBody{Error: errNotFound, Detail: kind + " " + c.Param("id") + " not found"})
		return
	}
	s.logger.Error().Err(err).Str("kind", kind).Str("id", c.Param("id")).Msg("Lookup failed")
	c.JSON(http.StatusInternalServerError, errorBody{Error: errInternal})
}

// intParam reads an optional integer query parameter.
func intParam(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}

// idParam parses the :id path parameter, writing a 400 on failure.
func idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: errInvalidID, Detail: err.Error()})
		return uuid.Nil, false
	}
	return id, true
}
