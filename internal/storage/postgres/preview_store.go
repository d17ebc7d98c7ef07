package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"lobster-preview/internal/domain"
	"lobster-preview/internal/storage"
)

// PreviewStore implements storage.PreviewStore using PostgreSQL.
type PreviewStore struct {
	pool *Pool
}

// NewPreviewStore creates a new PreviewStore.
func NewPreviewStore(pool *Pool) *PreviewStore {
	return &PreviewStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PreviewStore = (*PreviewStore)(nil)

// InsertBatch adds all rows of a batch in one transaction.
// Returns ErrDuplicateKey if any (run_id, source, row_index) exists.
func (s *PreviewStore) InsertBatch(ctx context.Context, b *domain.PreviewBatch) error {
	if b == nil {
		return storage.ErrInvalidInput
	}
	if err := storage.ValidateBatch(b.RunID, b.Source); err != nil {
		return err
	}
	if len(b.Rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO preview_events (
			run_id, source, path, row_index, time_seconds, elapsed_ns, event_type,
			order_id, size, price, price_usd, direction, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::text::numeric, $12, $13)
	`

	for _, row := range b.Rows {
		r := row.Record
		_, err := tx.Exec(ctx, query,
			b.RunID,
			b.Source,
			b.Path,
			row.RowIndex,
			r.Time,
			int64(r.Elapsed),
			int16(r.EventType),
			r.OrderID,
			r.Size,
			r.Price,
			r.PriceDollars().StringFixed(4),
			int16(r.Direction),
			b.CreatedAt,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert preview row %d: %w", row.RowIndex, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetBatch retrieves a batch with rows ordered by row_index ASC.
func (s *PreviewStore) GetBatch(ctx context.Context, runID, source string) (*domain.PreviewBatch, error) {
	var (
		path      string
		createdAt int64
	)
	err := s.pool.QueryRow(ctx, `
		SELECT path, created_at FROM preview_events
		WHERE run_id = $1 AND source = $2
		LIMIT 1
	`, runID, source).Scan(&path, &createdAt)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get preview batch: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT row_index, time_seconds, elapsed_ns, event_type, order_id, size, price, direction
		FROM preview_events
		WHERE run_id = $1 AND source = $2
		ORDER BY row_index ASC
	`, runID, source)
	if err != nil {
		return nil, fmt.Errorf("get preview rows: %w", err)
	}
	defer rows.Close()

	previewRows, err := scanPreviewRows(rows)
	if err != nil {
		return nil, err
	}

	return &domain.PreviewBatch{
		RunID:     runID,
		Source:    source,
		Path:      path,
		CreatedAt: createdAt,
		Rows:      previewRows,
	}, nil
}

// ListSources returns the sources stored for a run, ordered by source ASC.
func (s *PreviewStore) ListSources(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT source FROM preview_events
		WHERE run_id = $1
		ORDER BY source COLLATE "C" ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list preview sources: %w", err)
	}
	defer rows.Close()

	sources, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan preview sources: %w", err)
	}
	return sources, nil
}

// scanPreviewRows scans multiple rows into preview rows.
func scanPreviewRows(rows pgx.Rows) ([]domain.PreviewRow, error) {
	var result []domain.PreviewRow

	for rows.Next() {
		var (
			row       domain.PreviewRow
			elapsedNs int64
			eventType int16
			direction int16
		)

		err := rows.Scan(
			&row.RowIndex,
			&row.Record.Time,
			&elapsedNs,
			&eventType,
			&row.Record.OrderID,
			&row.Record.Size,
			&row.Record.Price,
			&direction,
		)
		if err != nil {
			return nil, fmt.Errorf("scan preview row: %w", err)
		}

		row.Record.Elapsed = time.Duration(elapsedNs)
		row.Record.EventType = domain.EventType(eventType)
		row.Record.Direction = domain.Direction(direction)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preview rows: %w", err)
	}

	return result, nil
}
