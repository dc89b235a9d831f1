package query

import (
	"reflect"
	"testing"
	"time"

	"github.com/Sternrassler/catalog-service/pkg/filter"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		filter   string
		dialect  Dialect
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "empty",
			filter:   "",
			dialect:  SQLite,
			wantSQL:  "1 = 1",
			wantArgs: []any{},
		},
		{
			name:     "and with string",
			filter:   `price > 10 and currency == "USD"`,
			dialect:  SQLite,
			wantSQL:  "(p.price > ? AND p.currency = ?)",
			wantArgs: []any{"10", "USD"},
		},
		{
			name:     "postgres collation and placeholders",
			filter:   `price > 10 and currency == "USD"`,
			dialect:  Postgres,
			wantSQL:  `(p.price > $1 AND p.currency COLLATE "C" = $2)`,
			wantArgs: []any{"10", "USD"},
		},
		{
			name:     "or binds looser than and",
			filter:   `name == "a" or name == "b" and price < 1.5`,
			dialect:  SQLite,
			wantSQL:  "(p.name = ? OR (p.name = ? AND p.price < ?))",
			wantArgs: []any{"a", "b", "1.5"},
		},
		{
			name:     "not",
			filter:   `not isActive`,
			dialect:  SQLite,
			wantSQL:  "(NOT p.is_active = ?)",
			wantArgs: []any{true},
		},
		{
			name:     "nullable equality",
			filter:   `weightKg >= 2`,
			dialect:  SQLite,
			wantSQL:  "(p.weight_kg IS NOT NULL AND p.weight_kg >= ?)",
			wantArgs: []any{"2"},
		},
		{
			name:     "nullable inequality",
			filter:   `weightKg != 2`,
			dialect:  SQLite,
			wantSQL:  "(p.weight_kg IS NULL OR p.weight_kg <> ?)",
			wantArgs: []any{"2"},
		},
		{
			name:     "sqlite timestamp text",
			filter:   `createdAt >= "2024-01-02"`,
			dialect:  SQLite,
			wantSQL:  "p.created_at >= ?",
			wantArgs: []any{"2024-01-02T00:00:00.000000000Z"},
		},
		{
			name:     "postgres timestamp native",
			filter:   `createdAt >= "2024-01-02"`,
			dialect:  Postgres,
			wantSQL:  "p.created_at >= $1",
			wantArgs: []any{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(tt.dialect.Placeholder)
			got, err := Compile(mustParse(t, tt.filter), tt.dialect, b, "p")
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			if got != tt.wantSQL {
				t.Errorf("sql = %q, want %q", got, tt.wantSQL)
			}
			if !reflect.DeepEqual(b.Args(), tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", b.Args(), tt.wantArgs)
			}
		})
	}
}

func TestCompileRejectsInvalidNodes(t *testing.T) {
	tests := []struct {
		name string
		expr filter.Expr
	}{
		{"bool ordering", filter.Compare{Field: fieldActive, Op: filter.OpLt, Value: filter.Bool(true)}},
		{"kind mismatch", filter.Compare{Field: fieldPrice, Op: filter.OpEq, Value: filter.String("x")}},
		{"unknown operator", filter.Compare{Field: fieldPrice, Op: filter.Op(42), Value: num("1")}},
		{"nested", filter.And{Left: nil, Right: filter.Compare{Field: fieldName, Op: filter.OpEq, Value: num("1")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr, SQLite, NewBuilder(PlaceholderQuestion), "p")
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
