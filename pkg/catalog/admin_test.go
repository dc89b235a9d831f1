package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Sternrassler/catalog-service/internal/testutil"
	"github.com/Sternrassler/catalog-service/pkg/catalog"
	"github.com/Sternrassler/catalog-service/pkg/storage/memory"
)

func newAdmin() (*catalog.Admin, *testutil.FixedSystem) {
	sys := &testutil.FixedSystem{Time: testutil.Epoch}
	return catalog.NewAdmin(memory.New(), sys, testLogger()), sys
}

func TestAdmin_CreateCategory(t *testing.T) {
	admin, _ := newAdmin()
	ctx := context.Background()

	c, err := admin.CreateCategory(ctx, catalog.Category{Name: "  Garden  "})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if c.Name != "Garden" {
		t.Errorf("Name = %q, want trimmed Garden", c.Name)
	}
	if c.ID == uuid.Nil {
		t.Error("ID not assigned")
	}

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", catalog.ErrInvalidCategory},
		{"blank", "   ", catalog.ErrInvalidCategory},
		{"duplicate", "Garden", catalog.ErrDuplicateCategory},
		{"duplicate other case", " gARDEN", catalog.ErrDuplicateCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := admin.CreateCategory(ctx, catalog.Category{Name: tt.input})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateCategory(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}

	list, err := admin.ListCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("ListCategories() returned %d categories, want 1", len(list))
	}
}

func TestAdmin_CreateProduct(t *testing.T) {
	admin, sys := newAdmin()
	ctx := context.Background()

	cat, err := admin.CreateCategory(ctx, catalog.Category{Name: "Tools"})
	if err != nil {
		t.Fatal(err)
	}

	p, err := admin.CreateProduct(ctx, catalog.Product{
		Name:       "Hammer",
		Price:      decimal.RequireFromString("12.50"),
		CategoryID: &cat.ID,
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if p.Currency != catalog.DefaultCurrency {
		t.Errorf("Currency = %q, want %q", p.Currency, catalog.DefaultCurrency)
	}
	if !p.CreatedAt.Equal(sys.Time) {
		t.Errorf("CreatedAt = %v, want %v", p.CreatedAt, sys.Time)
	}
	if p.ID == uuid.Nil {
		t.Error("ID not assigned")
	}

	got, err := admin.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if got.Category == nil || got.Category.Name != "Tools" {
		t.Errorf("Category = %+v, want joined Tools", got.Category)
	}

	if _, err := admin.GetProduct(ctx, uuid.New()); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetProduct(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestAdmin_CreateProductValidation(t *testing.T) {
	admin, _ := newAdmin()
	unknown := uuid.New()
	negative := -1.0

	tests := []struct {
		name string
		p    catalog.Product
	}{
		{"missing name", catalog.Product{Price: decimal.NewFromInt(1)}},
		{"negative price", catalog.Product{Name: "x", Price: decimal.NewFromInt(-1)}},
		{"bad currency", catalog.Product{Name: "x", Currency: "DOLLAR"}},
		{"numeric currency", catalog.Product{Name: "x", Currency: "U5D"}},
		{"negative weight", catalog.Product{Name: "x", WeightKg: &negative}},
		{"unknown category", catalog.Product{Name: "x", CategoryID: &unknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := admin.CreateProduct(context.Background(), tt.p)
			if !errors.Is(err, catalog.ErrInvalidProduct) {
				t.Errorf("CreateProduct() error = %v, want ErrInvalidProduct", err)
			}
		})
	}
}

func TestAdmin_CurrencyNormalized(t *testing.T) {
	admin, _ := newAdmin()

	p, err := admin.CreateProduct(context.Background(), catalog.Product{Name: "Mug", Currency: " eur "})
	if err != nil {
		t.Fatal(err)
	}
	if p.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", p.Currency)
	}
}

func TestAdmin_UpdateProduct(t *testing.T) {
	admin, sys := newAdmin()
	ctx := context.Background()

	cat, err := admin.CreateCategory(ctx, catalog.Category{Name: "Tools"})
	if err != nil {
		t.Fatal(err)
	}
	p, err := admin.CreateProduct(ctx, catalog.Product{Name: "Hammer", Price: decimal.NewFromInt(12), IsActive: true})
	if err != nil {
		t.Fatal(err)
	}

	sys.Time = testutil.Epoch.Add(time.Hour)
	got, err := admin.UpdateProduct(ctx, p.ID, catalog.Product{
		Name:       " Claw hammer ",
		Price:      decimal.RequireFromString("14.50"),
		Currency:   "eur",
		CategoryID: &cat.ID,
	})
	if err != nil {
		t.Fatalf("UpdateProduct() error = %v", err)
	}
	if got.ID != p.ID || !got.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("ID/CreatedAt = %s/%v, want %s/%v", got.ID, got.CreatedAt, p.ID, p.CreatedAt)
	}
	if got.UpdatedAt == nil || !got.UpdatedAt.Equal(sys.Time) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, sys.Time)
	}

	stored, err := admin.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Name != "Claw hammer" || stored.Currency != "EUR" || stored.IsActive {
		t.Errorf("stored = %+v, want renamed inactive EUR product", stored)
	}
	if stored.Category == nil || stored.Category.ID != cat.ID {
		t.Errorf("Category = %+v, want %s", stored.Category, cat.ID)
	}

	tests := []struct {
		name    string
		id      uuid.UUID
		p       catalog.Product
		wantErr error
	}{
		{"missing product", uuid.New(), catalog.Product{Name: "x"}, catalog.ErrNotFound},
		{"blank name", p.ID, catalog.Product{Name: " "}, catalog.ErrInvalidProduct},
		{"negative price", p.ID, catalog.Product{Name: "x", Price: decimal.NewFromInt(-1)}, catalog.ErrInvalidProduct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := admin.UpdateProduct(ctx, tt.id, tt.p); !errors.Is(err, tt.wantErr) {
				t.Errorf("UpdateProduct() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAdmin_DeleteProduct(t *testing.T) {
	admin, _ := newAdmin()
	ctx := context.Background()

	p, err := admin.CreateProduct(ctx, catalog.Product{Name: "Mug"})
	if err != nil {
		t.Fatal(err)
	}
	if err := admin.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct() error = %v", err)
	}
	if _, err := admin.GetProduct(ctx, p.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetProduct(deleted) error = %v, want ErrNotFound", err)
	}
	if err := admin.DeleteProduct(ctx, p.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("DeleteProduct(again) error = %v, want ErrNotFound", err)
	}
}

func TestAdmin_ListProducts(t *testing.T) {
	admin, _ := newAdmin()
	ctx := context.Background()

	for _, name := range []string{"B", "A"} {
		if _, err := admin.CreateProduct(ctx, catalog.Product{Name: name, IsActive: true}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := admin.CreateProduct(ctx, catalog.Product{Name: "Hidden", IsActive: false}); err != nil {
		t.Fatal(err)
	}

	list, err := admin.ListProducts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("ListProducts() returned %d products, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID.String() > list[i].ID.String() {
			t.Errorf("products not ordered by ID: %s before %s", list[i-1].ID, list[i].ID)
		}
	}
}

func TestAdmin_UpdateCategory(t *testing.T) {
	admin, _ := newAdmin()
	ctx := context.Background()

	tools, err := admin.CreateCategory(ctx, catalog.Category{Name: "Tools"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := admin.CreateCategory(ctx, catalog.Category{Name: "Garden"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		id      uuid.UUID
		input   string
		want    string
		wantErr error
	}{
		{name: "rename", id: tools.ID, input: " Hand tools ", want: "Hand tools"},
		{name: "own name other case", id: tools.ID, input: "HAND TOOLS", want: "HAND TOOLS"},
		{name: "blank", id: tools.ID, input: "  ", wantErr: catalog.ErrInvalidCategory},
		{name: "taken", id: tools.ID, input: "garden", wantErr: catalog.ErrDuplicateCategory},
		{name: "missing", id: uuid.New(), input: "Other", wantErr: catalog.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := admin.UpdateCategory(ctx, tt.id, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("UpdateCategory(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateCategory(%q) error = %v", tt.input, err)
			}
			if c.Name != tt.want {
				t.Errorf("Name = %q, want %q", c.Name, tt.want)
			}
			stored, _ := admin.GetCategory(ctx, tt.id)
			if stored == nil || stored.Name != tt.want {
				t.Errorf("stored = %+v, want %q", stored, tt.want)
			}
		})
	}
}

func TestAdmin_DeleteCategory(t *testing.T) {
	admin, _ := newAdmin()
	ctx := context.Background()

	cat, err := admin.CreateCategory(ctx, catalog.Category{Name: "Tools"})
	if err != nil {
		t.Fatal(err)
	}
	p, err := admin.CreateProduct(ctx, catalog.Product{Name: "Saw", CategoryID: &cat.ID})
	if err != nil {
		t.Fatal(err)
	}

	if err := admin.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}
	if _, err := admin.GetCategory(ctx, cat.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetCategory(deleted) error = %v, want ErrNotFound", err)
	}
	got, err := admin.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CategoryID != nil || got.Category != nil {
		t.Errorf("product still references deleted category: %+v", got)
	}
	if err := admin.DeleteCategory(ctx, cat.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("DeleteCategory(again) error = %v, want ErrNotFound", err)
	}
}
