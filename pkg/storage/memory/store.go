// Package memory provides a process-local catalog store. Filters are
// evaluated with filter.Eval and ordering uses query.CompareRecords, which
// define the semantics the SQL store is tested against.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Sternrassler/catalog-service/pkg/catalog"
	"github.com/Sternrassler/catalog-service/pkg/filter"
	"github.com/Sternrassler/catalog-service/pkg/query"
)

// Store holds products and categories in memory. It is safe for concurrent
// use and implements catalog.EntityStore and catalog.Repository.
type Store struct {
	mu         sync.RWMutex
	products   map[uuid.UUID]catalog.Product
	categories map[uuid.UUID]catalog.Category
}

// New creates an empty store.
func New() *Store {
	return &Store{
		products:   make(map[uuid.UUID]catalog.Product),
		categories: make(map[uuid.UUID]catalog.Category),
	}
}

func (s *Store) Count(ctx context.Context, plan *query.Plan) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.products {
		if filter.Eval(plan.Where, &p) {
			n++
		}
	}
	return n, nil
}

func (s *Store) Find(ctx context.Context, plan *query.Plan) ([]catalog.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.Eval(plan.Where, &p) {
			matched = append(matched, p)
		}
	}

	slices.SortFunc(matched, func(a, b catalog.Product) int {
		return query.CompareRecords(plan.Order, &a, &b)
	})

	start := min(max(0, plan.Offset), len(matched))
	end := start + min(max(0, plan.Limit), len(matched)-start)

	page := make([]catalog.Product, 0, end-start)
	for _, p := range matched[start:end] {
		page = append(page, s.withCategory(p))
	}
	return page, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *catalog.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return catalog.ErrDuplicateCategory
		}
	}
	s.categories[c.ID] = *c
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &c, nil
}

func (s *Store) FindCategoryByName(ctx context.Context, name string) (*catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (s *Store) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b catalog.Category) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *catalog.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[c.ID]; !ok {
		return catalog.ErrNotFound
	}
	for id, existing := range s.categories {
		if id != c.ID && strings.EqualFold(existing.Name, c.Name) {
			return catalog.ErrDuplicateCategory
		}
	}
	s.categories[c.ID] = *c
	return nil
}

// DeleteCategory removes the category and clears it from its products.
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(s.categories, id)
	for pid, p := range s.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			s.products[pid] = p
		}
	}
	return nil
}

func (s *Store) CreateProduct(ctx context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *p
	stored.Category = nil
	s.products[p.ID] = stored
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	p = s.withCategory(p)
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, s.withCategory(p))
	}
	slices.SortFunc(out, func(a, b catalog.Product) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ID]; !ok {
		return catalog.ErrNotFound
	}
	stored := *p
	stored.Category = nil
	s.products[p.ID] = stored
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// withCategory must be called with s.mu held.
func (s *Store) withCategory(p catalog.Product) catalog.Product {
	p.Category = nil
	if p.CategoryID != nil {
		if c, ok := s.categories[*p.CategoryID]; ok {
			p.Category = &c
		}
	}
	return p
}
