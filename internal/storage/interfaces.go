package storage

import (
	"context"

	"lobster-preview/internal/domain"
)

// PreviewStore provides access to preview_events storage.
// Only the truncated preview of a table is ever persisted.
type PreviewStore interface {
	// InsertBatch adds all rows of a batch atomically. An empty batch is a no-op.
	// Returns ErrDuplicateKey if rows for (run_id, source) already exist.
	InsertBatch(ctx context.Context, b *domain.PreviewBatch) error

	// GetBatch retrieves a batch with rows ordered by row_index ASC.
	// Returns ErrNotFound if no rows exist for (run_id, source).
	GetBatch(ctx context.Context, runID, source string) (*domain.PreviewBatch, error)

	// ListSources returns the sources stored for a run, ordered by source ASC.
	ListSources(ctx context.Context, runID string) ([]string, error)
}
