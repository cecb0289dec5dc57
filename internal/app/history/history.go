package history

import (
	"context"
	"fmt"

	"github.com/slok/appstore/internal/log"
	"github.com/slok/appstore/internal/model"
	"github.com/slok/appstore/internal/storage"
)

// ServiceConfig is the configuration for the history service.
type ServiceConfig struct {
	Repository storage.OperationRepository
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

// Service retrieves the finished operations history.
type Service struct {
	repo   storage.OperationRepository
	logger log.Logger
}

// NewService creates a new history service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the history request parameters.
type Request struct {
	// Limit is the max number of operations returned, 0 means no limit.
	Limit int
	// Operation is an optional filter by operation kind.
	Operation model.Operation
	// ItemName is an optional filter by app name.
	ItemName string
}

// Run returns the latest operations first.
func (s *Service) Run(ctx context.Context, req Request) ([]model.OperationRecord, error) {
	if req.Limit < 0 {
		return nil, fmt.Errorf("limit can't be negative: %w", model.ErrNotValid)
	}

	s.logger.Debugf("getting history with filter: %+v", req)

	// Filtering happens after reading, so the limit is applied here.
	filtering := req.Operation != model.OperationNone || req.ItemName != ""
	limit := req.Limit
	if filtering {
		limit = 0
	}

	ops, err := s.repo.ListOperations(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("could not list operations: %w", err)
	}

	if !filtering {
		return ops, nil
	}

	filtered := make([]model.OperationRecord, 0, len(ops))
	for _, op := range ops {
		if req.Operation != model.OperationNone && op.Operation != req.Operation {
			continue
		}
		if req.ItemName != "" && op.ItemName != req.ItemName {
			continue
		}
		filtered = append(filtered, op)
		if req.Limit > 0 && len(filtered) == req.Limit {
			break
		}
	}

	return filtered, nil
}
