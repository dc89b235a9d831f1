// Package testutil provides fixtures and fakes for catalog tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Sternrassler/catalog-service/pkg/catalog"
	"github.com/Sternrassler/catalog-service/pkg/query"
)

// Epoch is the creation time of fixture products.
var Epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// ID returns a deterministic UUID whose text form sorts by n.
func ID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-4000-8000-%012d", n))
}

// ProductOption customizes a fixture product.
type ProductOption func(*catalog.Product)

// Product returns an active USD product with the given sequence number and
// price. It is created n minutes after Epoch.
func Product(n int, price string, opts ...ProductOption) catalog.Product {
	p := catalog.Product{
		ID:        ID(n),
		Name:      fmt.Sprintf("Product %03d", n),
		Price:     decimal.RequireFromString(price),
		Currency:  "USD",
		IsActive:  true,
		CreatedAt: Epoch.Add(time.Duration(n) * time.Minute),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func WithName(name string) ProductOption {
	return func(p *catalog.Product) { p.Name = name }
}

func WithCurrency(currency string) ProductOption {
	return func(p *catalog.Product) { p.Currency = currency }
}

func Inactive() ProductOption {
	return func(p *catalog.Product) { p.IsActive = false }
}

func WithDescription(d string) ProductOption {
	return func(p *catalog.Product) { p.Description = &d }
}

func WithWeight(kg float64) ProductOption {
	return func(p *catalog.Product) { p.WeightKg = &kg }
}

func WithCategory(id uuid.UUID) ProductOption {
	return func(p *catalog.Product) { p.CategoryID = &id }
}

// ProductWriter is the part of catalog.Repository fixtures need.
type ProductWriter interface {
	CreateProduct(ctx context.Context, p *catalog.Product) error
}

// Load inserts products into w.
func Load(ctx context.Context, w ProductWriter, products ...catalog.Product) error {
	for i := range products {
		if err := w.CreateProduct(ctx, &products[i]); err != nil {
			return fmt.Errorf("load product %s: %w", products[i].ID, err)
		}
	}
	return nil
}

// Sequence returns n active products priced 1..n.
func Sequence(n int) []catalog.Product {
	out := make([]catalog.Product, n)
	for i := range out {
		out[i] = Product(i+1, fmt.Sprint(i+1))
	}
	return out
}

// ErrUnavailable is returned by the failing fakes.
var ErrUnavailable = errors.New("backend unavailable")

// FailingCacheStore is a cache.Store whose every operation fails.
type FailingCacheStore struct {
	Gets atomic.Int64
	Sets atomic.Int64
}

func (s *FailingCacheStore) Get(context.Context, string) ([]byte, error) {
	s.Gets.Add(1)
	return nil, ErrUnavailable
}

func (s *FailingCacheStore) Set(context.Context, string, []byte, time.Duration) error {
	s.Sets.Add(1)
	return ErrUnavailable
}

func (s *FailingCacheStore) Remove(context.Context, string) error {
	return ErrUnavailable
}

// CountingStore wraps an EntityStore and counts calls. If Err is set every
// call fails with it instead.
type CountingStore struct {
	Store catalog.EntityStore
	Err   error

	mu     sync.Mutex
	counts int
	finds  int
}

func (s *CountingStore) Count(ctx context.Context, plan *query.Plan) (int, error) {
	s.mu.Lock()
	s.counts++
	s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return s.Store.Count(ctx, plan)
}

func (s *CountingStore) Find(ctx context.Context, plan *query.Plan) ([]catalog.Product, error) {
	s.mu.Lock()
	s.finds++
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Store.Find(ctx, plan)
}

// Calls returns the number of Count and Find calls so far.
func (s *CountingStore) Calls() (counts, finds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts, s.finds
}

// FixedSystem is a catalog.System with a fixed clock and sequential IDs.
type FixedSystem struct {
	Time time.Time
	next atomic.Int64
}

func (s *FixedSystem) Now() time.Time { return s.Time }

func (s *FixedSystem) NewID() uuid.UUID {
	return ID(int(s.next.Add(1)) + 900000)
}
