package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Sternrassler/catalog-service/pkg/filter"
)

// DefaultCurrency is assigned to products created without a currency.
const DefaultCurrency = "USD"

func init() {
	// Prices go over the wire as JSON numbers. Decoding accepts both forms.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category groups products for display.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Product is a catalog entry.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	CategoryID  *uuid.UUID      `json:"categoryId"`

	// Category is joined for display and never filtered on.
	Category *Category `json:"category"`

	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`

	WeightKg *float64 `json:"weightKg"`
	WidthCm  *float64 `json:"widthCm"`
	HeightCm *float64 `json:"heightCm"`
	DepthCm  *float64 `json:"depthCm"`
}

// Filterable product fields.
var (
	FieldID          = filter.Field{Name: "id", Column: "id", Type: filter.TypeUUID, Sortable: true}
	FieldName        = filter.Field{Name: "name", Column: "name", Type: filter.TypeString, Sortable: true}
	FieldDescription = filter.Field{Name: "description", Column: "description", Type: filter.TypeString, Nullable: true}
	FieldPrice       = filter.Field{Name: "price", Column: "price", Type: filter.TypeDecimal, Sortable: true}
	FieldCurrency    = filter.Field{Name: "currency", Column: "currency", Type: filter.TypeString, Sortable: true}
	FieldCategoryID  = filter.Field{Name: "categoryId", Column: "category_id", Type: filter.TypeUUID, Nullable: true, Sortable: true}
	FieldIsActive    = filter.Field{Name: "isActive", Column: "is_active", Type: filter.TypeBool, Sortable: true}
	FieldCreatedAt   = filter.Field{Name: "createdAt", Column: "created_at", Type: filter.TypeTime, Sortable: true}
	FieldUpdatedAt   = filter.Field{Name: "updatedAt", Column: "updated_at", Type: filter.TypeTime, Nullable: true, Sortable: true}
	FieldWeightKg    = filter.Field{Name: "weightKg", Column: "weight_kg", Type: filter.TypeNumber, Nullable: true, Sortable: true}
	FieldWidthCm     = filter.Field{Name: "widthCm", Column: "width_cm", Type: filter.TypeNumber, Nullable: true, Sortable: true}
	FieldHeightCm    = filter.Field{Name: "heightCm", Column: "height_cm", Type: filter.TypeNumber, Nullable: true, Sortable: true}
	FieldDepthCm     = filter.Field{Name: "depthCm", Column: "depth_cm", Type: filter.TypeNumber, Nullable: true, Sortable: true}
)

// ProductSchema is the schema filter and order text is checked against.
var ProductSchema = filter.NewSchema(
	FieldID,
	FieldName,
	FieldDescription,
	FieldPrice,
	FieldCurrency,
	FieldCategoryID,
	FieldIsActive,
	FieldCreatedAt,
	FieldUpdatedAt,
	FieldWeightKg,
	FieldWidthCm,
	FieldHeightCm,
	FieldDepthCm,
)

// ActiveOnly is ANDed into every catalog query.
var ActiveOnly filter.Expr = filter.Compare{Field: FieldIsActive, Op: filter.OpEq, Value: filter.Bool(true)}

// FieldValue implements filter.Record.
func (p *Product) FieldValue(name string) (filter.Literal, bool) {
	switch name {
	case FieldID.Name:
		return filter.String(p.ID.String()), true
	case FieldName.Name:
		return filter.String(p.Name), true
	case FieldDescription.Name:
		if p.Description == nil {
			return filter.Literal{}, false
		}
		return filter.String(*p.Description), true
	case FieldPrice.Name:
		return filter.Number(p.Price), true
	case FieldCurrency.Name:
		return filter.String(p.Currency), true
	case FieldCategoryID.Name:
		if p.CategoryID == nil {
			return filter.Literal{}, false
		}
		return filter.String(p.CategoryID.String()), true
	case FieldIsActive.Name:
		return filter.Bool(p.IsActive), true
	case FieldCreatedAt.Name:
		return filter.Time(p.CreatedAt), true
	case FieldUpdatedAt.Name:
		if p.UpdatedAt == nil {
			return filter.Literal{}, false
		}
		return filter.Time(*p.UpdatedAt), true
	case FieldWeightKg.Name:
		return floatValue(p.WeightKg)
	case FieldWidthCm.Name:
		return floatValue(p.WidthCm)
	case FieldHeightCm.Name:
		return floatValue(p.HeightCm)
	case FieldDepthCm.Name:
		return floatValue(p.DepthCm)
	default:
		return filter.Literal{}, false
	}
}

func floatValue(v *float64) (filter.Literal, bool) {
	if v == nil {
		return filter.Literal{}, false
	}
	return filter.Number(decimal.NewFromFloat(*v)), true
}
