package sqlite

import (
	"context"
	"fmt"

	"github.com/slok/appstore/internal/model"
)

// CreateOperation stores a finished operation.
func (r *Repository) CreateOperation(ctx context.Context, op model.OperationRecord) error {
	if op.ID == "" {
		return fmt.Errorf("operation id is required: %w", model.ErrNotValid)
	}

	query := `
		INSERT INTO operations (id, operation, item_name, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		op.ID,
		op.Operation,
		op.ItemName,
		op.Status,
		op.Error,
		op.StartedAt.Unix(),
		op.FinishedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("could not insert operation: %w", err)
	}

	r.logger.Debugf("Recorded %s operation %s", op.Operation, op.ID)
	return nil
}

// ListOperations returns the latest operations first.
func (r *Repository) ListOperations(ctx context.Context, limit int) ([]model.OperationRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite no limit.
	}

	query := `
		SELECT id, operation, item_name, status, error, started_at, finished_at
		FROM operations
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("could not query operations: %w", err)
	}
	defer rows.Close()

	ops := []model.OperationRecord{}
	for rows.Next() {
		var op model.OperationRecord
		var startedAt, finishedAt int64
		if err := rows.Scan(&op.ID, &op.Operation, &op.ItemName, &op.Status, &op.Error, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("could not scan operation: %w", err)
		}
		op.StartedAt = timeFromUnix(startedAt)
		op.FinishedAt = timeFromUnix(finishedAt)
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate operations: %w", err)
	}

	return ops, nil
}
