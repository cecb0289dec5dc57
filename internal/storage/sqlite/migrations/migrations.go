// Package migrations has the app store SQLite schema, embedded and versioned.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/slok/appstore/internal/log"
)

//go:embed sql/*.sql
var schemaFS embed.FS

const defaultTable = "appstore_schema_migrations"

// MigratorConfig is the configuration of the schema migrator.
type MigratorConfig struct {
	DB *sql.DB
	// Table is the table that tracks the applied version.
	Table  string
	Logger log.Logger
}

func (c *MigratorConfig) defaults() error {
	if c.DB == nil {
		return fmt.Errorf("db is required")
	}

	if c.Table == "" {
		c.Table = defaultTable
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLiteMigrator"})

	return nil
}

// Migrator applies the embedded schema migrations.
type Migrator struct {
	db     *sql.DB
	table  string
	logger log.Logger
}

// NewMigrator returns a new schema migrator.
func NewMigrator(cfg MigratorConfig) (*Migrator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Migrator{
		db:     cfg.DB,
		table:  cfg.Table,
		logger: cfg.Logger,
	}, nil
}

// Up migrates the schema to the latest version.
func (m *Migrator) Up(ctx context.Context) error {
	return m.with(ctx, func(mg *migrate.Migrate) error {
		if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not migrate schema up: %w", err)
		}
		return nil
	})
}

// Down removes the complete schema.
func (m *Migrator) Down(ctx context.Context) error {
	return m.with(ctx, func(mg *migrate.Migrate) error {
		if err := mg.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not migrate schema down: %w", err)
		}
		return nil
	})
}

// Version returns the applied schema version, 0 when there is no schema.
func (m *Migrator) Version(ctx context.Context) (version uint, err error) {
	err = m.with(ctx, func(mg *migrate.Migrate) error {
		v, dirty, err := mg.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not get schema version: %w", err)
		}
		if dirty {
			return fmt.Errorf("schema version %d is dirty", v)
		}
		version = v
		return nil
	})
	return version, err
}

// with runs f with a migrate instance over the embedded schema files.
func (m *Migrator) with(ctx context.Context, f func(mg *migrate.Migrate) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := iofs.New(schemaFS, "sql")
	if err != nil {
		return fmt.Errorf("could not load schema files: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			m.logger.Warningf("Could not close schema files: %s", err)
		}
	}()

	driver, err := sqlite3.WithInstance(m.db, &sqlite3.Config{MigrationsTable: m.table})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}

	if err := f(mg); err != nil {
		return err
	}

	if v, _, err := mg.Version(); err == nil {
		m.logger.Debugf("Schema at version %d", v)
	}

	return nil
}
