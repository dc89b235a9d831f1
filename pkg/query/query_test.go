package query

import (
	"testing"

	"github.com/Sternrassler/catalog-service/pkg/filter"
	"github.com/shopspring/decimal"
)

var (
	fieldID       = filter.Field{Name: "id", Column: "id", Type: filter.TypeUUID, Sortable: true}
	fieldName     = filter.Field{Name: "name", Column: "name", Type: filter.TypeString, Sortable: true}
	fieldPrice    = filter.Field{Name: "price", Column: "price", Type: filter.TypeDecimal, Sortable: true}
	fieldCurrency = filter.Field{Name: "currency", Column: "currency", Type: filter.TypeString, Sortable: true}
	fieldActive   = filter.Field{Name: "isActive", Column: "is_active", Type: filter.TypeBool, Sortable: true}
	fieldCreated  = filter.Field{Name: "createdAt", Column: "created_at", Type: filter.TypeTime, Sortable: true}
	fieldWeight   = filter.Field{Name: "weightKg", Column: "weight_kg", Type: filter.TypeNumber, Nullable: true, Sortable: true}
)

var testSchema = filter.NewSchema(fieldID, fieldName, fieldPrice, fieldCurrency, fieldActive, fieldCreated, fieldWeight)

func mustParse(t *testing.T, input string) filter.Expr {
	t.Helper()
	expr, err := filter.Parse(input, testSchema)
	if err != nil {
		t.Fatalf("Parse(%q): %v", input, err)
	}
	return expr
}

type record map[string]filter.Literal

func (r record) FieldValue(name string) (filter.Literal, bool) {
	v, ok := r[name]
	return v, ok
}

func num(s string) filter.Literal {
	return filter.Number(decimal.RequireFromString(s))
}
