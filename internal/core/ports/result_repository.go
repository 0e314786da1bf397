package ports

import (
	"context"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
)

// ResultRepository defines persistence for lab results.
type ResultRepository interface {
	// InsertBatch persists all rows inside a single transaction: either every
	// row is committed or none is.
	InsertBatch(ctx context.Context, rows []domain.Result) error
	// List returns all results; with distinct true, duplicate rows are
	// eliminated.
	List(ctx context.Context, distinct bool) ([]domain.Result, error)
	Count(ctx context.Context) (int64, error)
}
