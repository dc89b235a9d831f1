package filter

import (
	"time"

	"github.com/shopspring/decimal"
)

var testSchema = NewSchema(
	Field{Name: "id", Column: "id", Type: TypeUUID, Sortable: true},
	Field{Name: "name", Column: "name", Type: TypeString, Sortable: true},
	Field{Name: "description", Column: "description", Type: TypeString, Nullable: true},
	Field{Name: "price", Column: "price", Type: TypeDecimal, Sortable: true},
	Field{Name: "currency", Column: "currency", Type: TypeString, Sortable: true},
	Field{Name: "isActive", Column: "is_active", Type: TypeBool, Sortable: true},
	Field{Name: "createdAt", Column: "created_at", Type: TypeTime, Sortable: true},
	Field{Name: "weightKg", Column: "weight_kg", Type: TypeNumber, Nullable: true, Sortable: true},
)

// mapRecord is a Record backed by a map; absent keys are null.
type mapRecord map[string]Literal

func (m mapRecord) FieldValue(name string) (Literal, bool) {
	v, ok := m[name]
	return v, ok
}

func num(s string) Literal {
	return Number(decimal.RequireFromString(s))
}

func day(s string) Literal {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return Time(t)
}
