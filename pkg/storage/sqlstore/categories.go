package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Sternrassler/catalog-service/pkg/catalog"
)

func (s *Store) CreateCategory(ctx context.Context, c *catalog.Category) error {
	if _, err := s.db.ExecContext(ctx, s.stmts.insertCategory, c.ID.String(), c.Name); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: a category with the name '%s' already exists", catalog.ErrDuplicateCategory, c.Name)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	return s.scanCategory(s.db.QueryRowContext(ctx, s.stmts.getCategory, id.String()))
}

func (s *Store) FindCategoryByName(ctx context.Context, name string) (*catalog.Category, error) {
	return s.scanCategory(s.db.QueryRowContext(ctx, s.stmts.findCategoryByName, name))
}

func (s *Store) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := s.db.QueryContext(ctx, s.stmts.listCategories)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]catalog.Category, 0)
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateCategory(ctx context.Context, c *catalog.Category) error {
	res, err := s.db.ExecContext(ctx, s.stmts.updateCategory, c.Name, c.ID.String())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: a category with the name '%s' already exists", catalog.ErrDuplicateCategory, c.Name)
		}
		return fmt.Errorf("update category: %w", err)
	}
	return expectOneRow(res, "update category")
}

// DeleteCategory removes the category. The foreign key clears category_id
// on its products.
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, s.stmts.deleteCategory, id.String())
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return expectOneRow(res, "delete category")
}

func (s *Store) scanCategory(row *sql.Row) (*catalog.Category, error) {
	var c catalog.Category
	if err := row.Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// expectOneRow maps an update or delete that touched nothing to
// catalog.ErrNotFound.
func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}
