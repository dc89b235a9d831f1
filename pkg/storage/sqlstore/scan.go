package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sternrassler/catalog-service/pkg/catalog"
	"github.com/Sternrassler/catalog-service/pkg/query"
)

// nullTime scans native timestamps and query.TimeLayout text alike.
type nullTime struct {
	Time  time.Time
	Valid bool
}

func (n *nullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		n.Time, n.Valid = time.Time{}, false
		return nil
	case time.Time:
		n.Time, n.Valid = v.UTC(), true
		return nil
	case string:
		return n.parse(v)
	case []byte:
		return n.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (n *nullTime) parse(s string) error {
	t, err := time.Parse(query.TimeLayout, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339Nano, s); err != nil {
			return fmt.Errorf("parse timestamp %q: %w", s, err)
		}
	}
	n.Time, n.Valid = t.UTC(), true
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (catalog.Product, error) {
	var (
		p           catalog.Product
		description sql.NullString
		categoryID  uuid.NullUUID
		createdAt   nullTime
		updatedAt   nullTime
		weight      sql.NullFloat64
		width       sql.NullFloat64
		height      sql.NullFloat64
		depth       sql.NullFloat64
		joinedID    uuid.NullUUID
		joinedName  sql.NullString
	)

	err := row.Scan(
		&p.ID, &p.Name, &description, &p.Price, &p.Currency, &categoryID,
		&p.IsActive, &createdAt, &updatedAt,
		&weight, &width, &height, &depth,
		&joinedID, &joinedName,
	)
	if err != nil {
		return catalog.Product{}, err
	}

	if description.Valid {
		p.Description = &description.String
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.UUID
	}
	p.CreatedAt = createdAt.Time
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}
	p.WeightKg = floatPtr(weight)
	p.WidthCm = floatPtr(width)
	p.HeightCm = floatPtr(height)
	p.DepthCm = floatPtr(depth)
	if joinedID.Valid {
		p.Category = &catalog.Category{ID: joinedID.UUID, Name: joinedName.String}
	}
	return p, nil
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

// productArgs returns the insert arguments of p in column order.
func (s *Store) productArgs(p *catalog.Product) []any {
	var categoryID, updatedAt any
	if p.CategoryID != nil {
		categoryID = p.CategoryID.String()
	}
	if p.UpdatedAt != nil {
		updatedAt = s.dialect.TimeValue(*p.UpdatedAt)
	}
	return []any{
		p.ID.String(),
		p.Name,
		p.Description,
		p.Price.String(),
		p.Currency,
		categoryID,
		p.IsActive,
		s.dialect.TimeValue(p.CreatedAt),
		updatedAt,
		p.WeightKg,
		p.WidthCm,
		p.HeightCm,
		p.DepthCm,
	}
}
