package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Sternrassler/catalog-service/pkg/catalog"
	"github.com/Sternrassler/catalog-service/pkg/query"
)

// Count returns the number of products matching plan.Where.
func (s *Store) Count(ctx context.Context, plan *query.Plan) (int, error) {
	stmt, err := query.BuildSQL(plan, s.dialect, productSelection)
	if err != nil {
		return 0, err
	}

	s.logger.Debug().Str("sql", stmt.Count).Int("args", len(stmt.CountArgs)).Msg("Counting products")

	var n int
	if err := s.db.QueryRowContext(ctx, stmt.Count, stmt.CountArgs...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Find returns the page of products selected by plan.
func (s *Store) Find(ctx context.Context, plan *query.Plan) ([]catalog.Product, error) {
	stmt, err := query.BuildSQL(plan, s.dialect, productSelection)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("sql", stmt.Page).Int("args", len(stmt.PageArgs)).Msg("Finding products")

	rows, err := s.db.QueryContext(ctx, stmt.Page, stmt.PageArgs...)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer rows.Close()

	items := make([]catalog.Product, 0, plan.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return items, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *catalog.Product) error {
	if _, err := s.db.ExecContext(ctx, s.stmts.insertProduct, s.productArgs(p)...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, s.stmts.getProduct, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := s.db.QueryContext(ctx, s.stmts.listProducts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]catalog.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	args := s.productArgs(p)
	// productArgs leads with the id; the update binds it last.
	args = append(args[1:], args[0])
	res, err := s.db.ExecContext(ctx, s.stmts.updateProduct, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return expectOneRow(res, "update product")
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, s.stmts.deleteProduct, id.String())
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return expectOneRow(res, "delete product")
}
