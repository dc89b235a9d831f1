package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repository persists products and categories.
//
// Lookups, updates and deletes return ErrNotFound when nothing matches.
// CreateCategory and UpdateCategory return ErrDuplicateCategory when the
// store's own uniqueness check fails. Deleting a category detaches its
// products.
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	FindCategoryByName(ctx context.Context, name string) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// Admin applies the catalog's write rules on top of a Repository.
type Admin struct {
	repo   Repository
	system System
	logger zerolog.Logger
}

// NewAdmin creates an Admin. A nil system uses RealSystem.
func NewAdmin(repo Repository, system System, logger zerolog.Logger) *Admin {
	if repo == nil {
		panic("repository cannot be nil")
	}
	if system == nil {
		system = RealSystem{}
	}
	return &Admin{repo: repo, system: system, logger: logger}
}

// CreateCategory adds a category. The name is trimmed and must be unique
// ignoring case.
func (a *Admin) CreateCategory(ctx context.Context, c Category) (*Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidCategory)
	}

	existing, err := a.repo.FindCategoryByName(ctx, c.Name)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: a category with the name '%s' already exists", ErrDuplicateCategory, existing.Name)
	case !errors.Is(err, ErrNotFound):
		return nil, storeError("find category", err)
	}

	if c.ID == uuid.Nil {
		c.ID = a.system.NewID()
	}
	if err := a.repo.CreateCategory(ctx, &c); err != nil {
		if errors.Is(err, ErrDuplicateCategory) {
			return nil, err
		}
		return nil, storeError("create category", err)
	}

	a.logger.Info().Str("category_id", c.ID.String()).Str("name", c.Name).Msg("Category created")
	return &c, nil
}

// ListCategories returns all categories ordered by name.
func (a *Admin) ListCategories(ctx context.Context) ([]Category, error) {
	cs, err := a.repo.ListCategories(ctx)
	if err != nil {
		return nil, storeError("list categories", err)
	}
	return cs, nil
}

// GetCategory returns a category by ID.
func (a *Admin) GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	c, err := a.repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, storeError("get category", err)
	}
	return c, nil
}

// UpdateCategory renames the category id. The new name follows the same
// rules as CreateCategory, ignoring the category's own current name.
func (a *Admin) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*Category, error) {
	if _, err := a.GetCategory(ctx, id); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidCategory)
	}

	existing, err := a.repo.FindCategoryByName(ctx, name)
	switch {
	case err == nil && existing.ID != id:
		return nil, fmt.Errorf("%w: a category with the name '%s' already exists", ErrDuplicateCategory, existing.Name)
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, storeError("find category", err)
	}

	c := Category{ID: id, Name: name}
	if err := a.repo.UpdateCategory(ctx, &c); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateCategory) {
			return nil, err
		}
		return nil, storeError("update category", err)
	}

	a.logger.Info().Str("category_id", id.String()).Str("name", name).Msg("Category updated")
	return &c, nil
}

// DeleteCategory removes a category. Its products stay in the catalog
// without a category.
func (a *Admin) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := a.repo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return storeError("delete category", err)
	}
	a.logger.Info().Str("category_id", id.String()).Msg("Category deleted")
	return nil
}

// CreateProduct validates p, assigns its ID and creation time, and stores it.
func (a *Admin) CreateProduct(ctx context.Context, p Product) (*Product, error) {
	if err := a.validateProduct(ctx, &p); err != nil {
		return nil, err
	}

	if p.ID == uuid.Nil {
		p.ID = a.system.NewID()
	}
	p.CreatedAt = a.system.Now()
	p.UpdatedAt = nil

	if err := a.repo.CreateProduct(ctx, &p); err != nil {
		return nil, storeError("create product", err)
	}

	a.logger.Info().Str("product_id", p.ID.String()).Str("name", p.Name).Msg("Product created")
	return &p, nil
}

// UpdateProduct replaces every editable field of product id with those of p.
// The ID and creation time are kept and UpdatedAt is set to now.
func (a *Admin) UpdateProduct(ctx context.Context, id uuid.UUID, p Product) (*Product, error) {
	existing, err := a.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.validateProduct(ctx, &p); err != nil {
		return nil, err
	}

	now := a.system.Now()
	p.ID = id
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = &now

	if err := a.repo.UpdateProduct(ctx, &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, storeError("update product", err)
	}

	a.logger.Info().Str("product_id", id.String()).Str("name", p.Name).Msg("Product updated")
	return &p, nil
}

// DeleteProduct removes a product.
func (a *Admin) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := a.repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return storeError("delete product", err)
	}
	a.logger.Info().Str("product_id", id.String()).Msg("Product deleted")
	return nil
}

// ListProducts returns every product, active or not, ordered by ID.
func (a *Admin) ListProducts(ctx context.Context) ([]Product, error) {
	ps, err := a.repo.ListProducts(ctx)
	if err != nil {
		return nil, storeError("list products", err)
	}
	return ps, nil
}

// validateProduct normalizes p in place and resolves its category.
func (a *Admin) validateProduct(ctx context.Context, p *Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}

	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if !isCurrencyCode(p.Currency) {
		return fmt.Errorf("%w: currency must be a three-letter code, got '%s'", ErrInvalidProduct, p.Currency)
	}

	for name, v := range map[string]*float64{"weightKg": p.WeightKg, "widthCm": p.WidthCm, "heightCm": p.HeightCm, "depthCm": p.DepthCm} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidProduct, name)
		}
	}

	p.Category = nil
	if p.CategoryID != nil {
		c, err := a.repo.GetCategory(ctx, *p.CategoryID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: unknown category %s", ErrInvalidProduct, p.CategoryID)
			}
			return storeError("get category", err)
		}
		p.Category = c
	}
	return nil
}

// GetProduct returns a product by ID regardless of its active flag.
func (a *Admin) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := a.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, storeError("get product", err)
	}
	return p, nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
