package sqlstore

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies all pending schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	m, err := s.migrator(ctx)
	if err != nil {
		return err
	}
	defer m.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	before, _, _ := m.Version()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	after, _, _ := m.Version()

	s.logger.Info().
		Str("driver", s.dialect.Name).
		Uint("from_version", before).
		Uint("to_version", after).
		Msg("Database migrations applied")
	return nil
}

// MigrationVersion returns the current schema version. A fresh database has
// version 0.
func (s *Store) MigrationVersion(ctx context.Context) (version uint, dirty bool, err error) {
	m, err := s.migrator(ctx)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// migrator builds a migrate instance on a dedicated connection pool, since
// closing the instance closes the pool it was given.
func (s *Store) migrator(ctx context.Context) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "migrations/"+s.dialect.Name)
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}

	db, err := openDB(ctx, s.config)
	if err != nil {
		return nil, err
	}

	var driver database.Driver
	switch s.dialect.Name {
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	case DriverPostgres:
		driver, err = migratepgx.WithInstance(db, &migratepgx.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", s.dialect.Name)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, s.dialect.Name, driver)
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("create migration instance: %w", err)
	}
	return m, nil
}
