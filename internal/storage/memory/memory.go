package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/slok/appstore/internal/log"
	"github.com/slok/appstore/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	items      model.Catalog
	operations map[string]model.OperationRecord
	mu         sync.RWMutex
	logger     log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		items:      model.Catalog{},
		operations: make(map[string]model.OperationRecord),
		logger:     cfg.Logger,
	}, nil
}

// SaveCatalog replaces the stored catalog.
func (r *Repository) SaveCatalog(ctx context.Context, c model.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = slices.Clone(c)
	r.logger.Debugf("Saved catalog with %d items", len(c))

	return nil
}

// ListItems returns a copy of the stored catalog.
func (r *Repository) ListItems(ctx context.Context) (model.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.items), nil
}

// GetItem retrieves an item by name.
func (r *Repository) GetItem(ctx context.Context, name string) (*model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, it := range r.items {
		if it.Name == name {
			itemCopy := it
			return &itemCopy, nil
		}
	}

	return nil, fmt.Errorf("item %s: %w", name, model.ErrNotFound)
}

// CreateOperation stores a finished operation.
func (r *Repository) CreateOperation(ctx context.Context, op model.OperationRecord) error {
	if op.ID == "" {
		return fmt.Errorf("operation id is required: %w", model.ErrNotValid)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.operations[op.ID]; ok {
		return fmt.Errorf("operation %s: %w", op.ID, model.ErrAlreadyExists)
	}

	r.operations[op.ID] = op
	r.logger.Debugf("Recorded %s operation %s", op.Operation, op.ID)

	return nil
}

// ListOperations returns the latest operations first.
func (r *Repository) ListOperations(ctx context.Context, limit int) ([]model.OperationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ops := make([]model.OperationRecord, 0, len(r.operations))
	for _, op := range r.operations {
		ops = append(ops, op)
	}

	slices.SortFunc(ops, func(a, b model.OperationRecord) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	if limit > 0 && len(ops) > limit {
		ops = ops[:limit]
	}

	return ops, nil
}
