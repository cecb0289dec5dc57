package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slok/appstore/internal/log"
	"github.com/slok/appstore/internal/model"
	"github.com/slok/appstore/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.Repository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository creates a new SQLite repository.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(migrations.MigratorConfig{DB: db, Logger: cfg.Logger})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// SaveCatalog replaces the stored catalog in a single transaction.
func (r *Repository) SaveCatalog(ctx context.Context, c model.Catalog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // Rollback is safe to call after Commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("could not delete previous catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (
			position, name, category, kind, path,
			main_file, size_bytes, has_requirements, has_readme
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("could not prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, it := range c {
		_, err := stmt.ExecContext(ctx,
			i,
			it.Name,
			it.Category,
			it.Kind,
			it.Path,
			it.MainFile,
			it.SizeBytes,
			it.HasRequirements,
			it.HasReadme,
		)
		if err != nil {
			return fmt.Errorf("could not insert item %s: %w", it.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Saved catalog with %d items", len(c))
	return nil
}

const selectItems = `
	SELECT
		name, category, kind, path,
		main_file, size_bytes, has_requirements, has_readme
	FROM items
`

// ListItems returns the stored catalog in its original order.
func (r *Repository) ListItems(ctx context.Context) (model.Catalog, error) {
	rows, err := r.db.QueryContext(ctx, selectItems+` ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("could not query items: %w", err)
	}
	defer rows.Close()

	items := model.Catalog{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate items: %w", err)
	}

	return items, nil
}

// GetItem returns a stored item by name.
func (r *Repository) GetItem(ctx context.Context, name string) (*model.Item, error) {
	row := r.db.QueryRowContext(ctx, selectItems+` WHERE name = ?`, name)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("item %s: %w", name, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query item: %w", err)
	}

	return &it, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (model.Item, error) {
	var it model.Item
	err := s.Scan(
		&it.Name,
		&it.Category,
		&it.Kind,
		&it.Path,
		&it.MainFile,
		&it.SizeBytes,
		&it.HasRequirements,
		&it.HasReadme,
	)
	if err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func timeFromUnix(unix int64) time.Time { return time.Unix(unix, 0).UTC() }
