package list

import (
	"context"
	"fmt"
	"slices"

	"github.com/slok/appstore/internal/catalog"
	"github.com/slok/appstore/internal/log"
	"github.com/slok/appstore/internal/model"
	"github.com/slok/appstore/internal/storage"
)

// ServiceConfig is the configuration for the list service.
type ServiceConfig struct {
	Repository storage.CatalogRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service lists the persisted catalog apps with optional filtering.
type Service struct {
	repo   storage.CatalogRepository
	logger log.Logger
}

// NewService creates a new list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the list request parameters.
type Request struct {
	// Criteria is the optional filter, the zero value lists everything.
	Criteria model.FilterCriteria
}

// Response is the list result.
type Response struct {
	Items []model.Item
	// Summary is the per category count of the complete catalog.
	Summary model.CategorySummary
}

// Run lists the catalog apps, optionally filtered.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	s.logger.Debugf("listing apps with filter: %+v", req.Criteria)

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list apps: %w", err)
	}

	filtered := slices.Collect(catalog.Apply(items, req.Criteria))
	if filtered == nil {
		filtered = []model.Item{}
	}

	s.logger.Debugf("found %d apps", len(filtered))
	return &Response{
		Items:   filtered,
		Summary: items.Summary(),
	}, nil
}
