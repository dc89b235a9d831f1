package filter

import "strings"

// FieldType is the declared type of a schema field.
type FieldType int

const (
	TypeString FieldType = iota
	TypeUUID
	TypeDecimal
	TypeNumber
	TypeBool
	TypeTime
)

func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeUUID:
		return "uuid"
	case TypeDecimal:
		return "decimal"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "bool"
	case TypeTime:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Numeric reports whether literals of the type are numbers.
func (t FieldType) Numeric() bool {
	return t == TypeDecimal || t == TypeNumber
}

// Field describes one filterable field.
type Field struct {
	// Name is the canonical field name used in filter text and JSON.
	Name string

	// Column is the storage column the field maps to.
	Column string

	Type FieldType

	// Nullable fields may be absent on a record.
	Nullable bool

	// Sortable fields may appear in an order clause.
	Sortable bool
}

// Schema is an immutable set of fields. Lookups are case-insensitive.
type Schema struct {
	fields []Field
	byName map[string]Field
}

// NewSchema builds a schema. Duplicate names (ignoring case) panic.
func NewSchema(fields ...Field) *Schema {
	s := &Schema{
		fields: make([]Field, 0, len(fields)),
		byName: make(map[string]Field, len(fields)),
	}
	for _, f := range fields {
		key := strings.ToLower(f.Name)
		if _, dup := s.byName[key]; dup {
			panic("filter: duplicate schema field " + f.Name)
		}
		s.fields = append(s.fields, f)
		s.byName[key] = f
	}
	return s
}

// Lookup finds a field by name, ignoring case.
func (s *Schema) Lookup(name string) (Field, bool) {
	f, ok := s.byName[strings.ToLower(name)]
	return f, ok
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}
