// Package sqlstore implements the catalog stores on SQL databases.
//
// Two drivers are supported: "sqlite" (modernc.org/sqlite, pure Go) and
// "postgres" (pgx through database/sql). Filters are compiled to SQL by package
// query; every literal is a bound parameter.
//
// Column representations differ per driver:
//
//   - SQLite keeps UUIDs and timestamps as TEXT (timestamps in the fixed-width
//     query.TimeLayout, so text order is time order), booleans as INTEGER and
//     prices as NUMERIC.
//   - PostgreSQL uses UUID, TIMESTAMPTZ, BOOLEAN and NUMERIC. String columns
//     are compared with COLLATE "C" to keep byte-wise ordering.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/Sternrassler/catalog-service/pkg/query"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and configures the database.
type Config struct {
	// Driver is DriverSQLite or DriverPostgres.
	Driver string

	// DSN is a SQLite file name or URI, or a PostgreSQL connection string.
	DSN string

	// MaxOpenConns limits the pool for PostgreSQL. SQLite always uses one
	// connection.
	MaxOpenConns int
}

// Store is a catalog store on a SQL database. It implements
// catalog.EntityStore and catalog.Repository.
type Store struct {
	db      *sql.DB
	config  Config
	dialect query.Dialect
	stmts   statements
	logger  zerolog.Logger
}

// Open connects to the configured database. Call Migrate before first use
// on a fresh database.
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*Store, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("driver", cfg.Driver).Msg("Database connected")

	return &Store{
		db:      db,
		config:  cfg,
		dialect: dialect,
		stmts:   newStatements(dialect),
		logger:  logger,
	}, nil
}

// DialectFor returns the SQL dialect of a driver name.
func DialectFor(driver string) (query.Dialect, error) {
	switch driver {
	case DriverSQLite:
		return query.SQLite, nil
	case DriverPostgres:
		return query.Postgres, nil
	default:
		return query.Dialect{}, fmt.Errorf("unsupported database driver %q (want %s or %s)", driver, DriverSQLite, DriverPostgres)
	}
}

func openDB(ctx context.Context, cfg Config) (*sql.DB, error) {
	var db *sql.DB

	switch cfg.Driver {
	case DriverSQLite:
		var err error
		db, err = sql.Open("sqlite", sqliteDSN(cfg.DSN))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		db.SetMaxOpenConns(1)

	case DriverPostgres:
		pgCfg, err := pgx.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		db = stdlib.OpenDB(*pgCfg)
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return db, nil
}

// sqliteDSN enables foreign keys and a busy timeout on every connection.
func sqliteDSN(dsn string) string {
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if strings.Contains(dsn, "?") {
		return dsn + "&" + pragmas
	}
	return dsn + "?" + pragmas
}

// Dialect returns the store's SQL dialect.
func (s *Store) Dialect() query.Dialect { return s.dialect }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
