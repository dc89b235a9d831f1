// Package seed loads categories and products from a JSON seed file.
//
// Seed files are validated against a JSON Schema before anything is written.
// Categories are matched by name ignoring case, so re-running a seed does not
// duplicate them; products with an explicit id are skipped when they already
// exist.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Sternrassler/catalog-service/pkg/catalog"
)

// ErrInvalidSeed is returned when a seed document fails schema validation.
var ErrInvalidSeed = errors.New("invalid seed file")

// Catalog is the write surface seeding needs. *catalog.Admin implements it.
type Catalog interface {
	CreateCategory(ctx context.Context, c catalog.Category) (*catalog.Category, error)
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	CreateProduct(ctx context.Context, p catalog.Product) (*catalog.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

// File is a decoded seed document.
type File struct {
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}

type Category struct {
	Name string `json:"name"`
}

type Product struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency,omitempty"`
	Category    string          `json:"category,omitempty"`
	IsActive    *bool           `json:"isActive,omitempty"`
	WeightKg    *float64        `json:"weightKg,omitempty"`
	WidthCm     *float64        `json:"widthCm,omitempty"`
	HeightCm    *float64        `json:"heightCm,omitempty"`
	DepthCm     *float64        `json:"depthCm,omitempty"`
}

// Summary counts what a seed run did.
type Summary struct {
	CategoriesCreated int
	CategoriesExisted int
	ProductsCreated   int
	ProductsExisted   int
}

var schema = mustSchema()

func mustSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("compile seed schema: %v", err))
	}
	return s
}

// Parse validates data against the seed schema and decodes it.
func Parse(data []byte) (*File, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidSeed, strings.Join(errs, "; "))
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	return &f, nil
}

// Loader writes seed files into a catalog.
type Loader struct {
	catalog Catalog
	logger  zerolog.Logger
}

func NewLoader(c Catalog, logger zerolog.Logger) *Loader {
	return &Loader{catalog: c, logger: logger}
}

// Load validates data and writes its categories and products.
func (l *Loader) Load(ctx context.Context, data []byte) (Summary, error) {
	f, err := Parse(data)
	if err != nil {
		return Summary{}, err
	}
	return l.Apply(ctx, f)
}

// Apply writes an already parsed seed file. Categories go first so
// products can reference them by name.
func (l *Loader) Apply(ctx context.Context, f *File) (Summary, error) {
	var sum Summary

	existing, err := l.catalog.ListCategories(ctx)
	if err != nil {
		return sum, fmt.Errorf("list categories: %w", err)
	}
	byName := make(map[string]uuid.UUID, len(existing)+len(f.Categories))
	for _, c := range existing {
		byName[categoryKey(c.Name)] = c.ID
	}

	for _, c := range f.Categories {
		if _, ok := byName[categoryKey(c.Name)]; ok {
			sum.CategoriesExisted++
			continue
		}
		created, err := l.catalog.CreateCategory(ctx, catalog.Category{Name: c.Name})
		if err != nil {
			return sum, fmt.Errorf("create category %q: %w", c.Name, err)
		}
		byName[categoryKey(created.Name)] = created.ID
		sum.CategoriesCreated++
	}

	for i, p := range f.Products {
		product, err := p.toProduct(byName)
		if err != nil {
			return sum, fmt.Errorf("product %d (%s): %w", i, p.Name, err)
		}

		if product.ID != uuid.Nil {
			_, err := l.catalog.GetProduct(ctx, product.ID)
			switch {
			case err == nil:
				sum.ProductsExisted++
				continue
			case !errors.Is(err, catalog.ErrNotFound):
				return sum, fmt.Errorf("look up product %s: %w", product.ID, err)
			}
		}

		if _, err := l.catalog.CreateProduct(ctx, product); err != nil {
			return sum, fmt.Errorf("create product %q: %w", p.Name, err)
		}
		sum.ProductsCreated++
	}

	l.logger.Info().
		Int("categories_created", sum.CategoriesCreated).
		Int("categories_existed", sum.CategoriesExisted).
		Int("products_created", sum.ProductsCreated).
		Int("products_existed", sum.ProductsExisted).
		Msg("Seed applied")
	return sum, nil
}

func (p Product) toProduct(categories map[string]uuid.UUID) (catalog.Product, error) {
	out := catalog.Product{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		IsActive:    true,
		WeightKg:    p.WeightKg,
		WidthCm:     p.WidthCm,
		HeightCm:    p.HeightCm,
		DepthCm:     p.DepthCm,
	}
	if p.IsActive != nil {
		out.IsActive = *p.IsActive
	}
	if p.ID != "" {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return out, fmt.Errorf("invalid id: %w", err)
		}
		out.ID = id
	}
	if p.Category != "" {
		id, ok := categories[categoryKey(p.Category)]
		if !ok {
			return out, fmt.Errorf("unknown category %q", p.Category)
		}
		out.CategoryID = &id
	}
	return out, nil
}

func categoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
