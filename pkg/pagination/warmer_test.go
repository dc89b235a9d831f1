package pagination

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/catalog-service/pkg/catalog"
)

type fakeQuerier struct {
	mu         sync.Mutex
	totalPages int
	failPages  map[int]bool
	requests   []catalog.Request
}

func (f *fakeQuerier) Query(_ context.Context, req catalog.Request) (*catalog.PagedResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.failPages[req.Page] {
		return nil, errors.New("store unavailable")
	}
	return &catalog.PagedResult{
		Items:      make([]catalog.Product, 1),
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: f.totalPages,
	}, nil
}

func (f *fakeQuerier) pages() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	pages := make([]int, 0, len(f.requests))
	for _, r := range f.requests {
		pages = append(pages, r.Page)
	}
	sort.Ints(pages)
	return pages
}

func TestWarmer_Warm(t *testing.T) {
	tests := []struct {
		name       string
		totalPages int
		warmPages  int
		wantPages  []int
	}{
		{name: "disabled", totalPages: 10, warmPages: 0, wantPages: []int{}},
		{name: "fewer pages than requested", totalPages: 3, warmPages: 5, wantPages: []int{1, 2, 3}},
		{name: "more pages than requested", totalPages: 10, warmPages: 4, wantPages: []int{1, 2, 3, 4}},
		{name: "single page", totalPages: 1, warmPages: 5, wantPages: []int{1}},
		{name: "empty catalog", totalPages: 0, warmPages: 5, wantPages: []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &fakeQuerier{totalPages: tt.totalPages}
			w := NewWarmer(q, Config{Pages: tt.warmPages, MaxConcurrency: 2}, zerolog.Nop())

			stats, err := w.Warm(context.Background())
			if err != nil {
				t.Fatalf("Warm() error = %v", err)
			}

			got := q.pages()
			if len(got) != len(tt.wantPages) {
				t.Fatalf("queried pages %v, want %v", got, tt.wantPages)
			}
			for i := range got {
				if got[i] != tt.wantPages[i] {
					t.Fatalf("queried pages %v, want %v", got, tt.wantPages)
				}
			}
			if stats.Warmed != len(tt.wantPages) {
				t.Errorf("stats.Warmed = %d, want %d", stats.Warmed, len(tt.wantPages))
			}
		})
	}
}

func TestWarmer_UsesConfiguredPageSize(t *testing.T) {
	q := &fakeQuerier{totalPages: 2}
	w := NewWarmer(q, Config{Pages: 2, PageSize: 50}, zerolog.Nop())

	if _, err := w.Warm(context.Background()); err != nil {
		t.Fatalf("Warm() error = %v", err)
	}
	for _, r := range q.requests {
		if r.PageSize != 50 || r.Filter != "" || r.OrderBy != "" {
			t.Errorf("unexpected request %+v", r)
		}
	}
}

func TestWarmer_PartialFailure(t *testing.T) {
	q := &fakeQuerier{totalPages: 5, failPages: map[int]bool{3: true}}
	w := NewWarmer(q, Config{Pages: 5}, zerolog.Nop())

	stats, err := w.Warm(context.Background())
	if err == nil {
		t.Fatal("Warm() error = nil, want partial failure")
	}
	if stats.Warmed != 4 || stats.Failed != 1 {
		t.Errorf("stats = %+v, want 4 warmed and 1 failed", stats)
	}
}

func TestWarmer_FirstPageFailure(t *testing.T) {
	q := &fakeQuerier{totalPages: 5, failPages: map[int]bool{1: true}}
	w := NewWarmer(q, Config{Pages: 5}, zerolog.Nop())

	stats, err := w.Warm(context.Background())
	if err == nil {
		t.Fatal("Warm() error = nil, want error")
	}
	if len(q.requests) != 1 {
		t.Errorf("queried %d pages after first-page failure, want 1", len(q.requests))
	}
	if stats.Failed != 1 {
		t.Errorf("stats.Failed = %d, want 1", stats.Failed)
	}
}

func TestNewWarmer_Defaults(t *testing.T) {
	w := NewWarmer(&fakeQuerier{}, Config{}, zerolog.Nop())
	want := DefaultConfig()

	if w.config.PageSize != want.PageSize {
		t.Errorf("PageSize = %d, want %d", w.config.PageSize, want.PageSize)
	}
	if w.config.MaxConcurrency != want.MaxConcurrency {
		t.Errorf("MaxConcurrency = %d, want %d", w.config.MaxConcurrency, want.MaxConcurrency)
	}
	if w.config.Timeout != want.Timeout {
		t.Errorf("Timeout = %v, want %v", w.config.Timeout, want.Timeout)
	}
}
