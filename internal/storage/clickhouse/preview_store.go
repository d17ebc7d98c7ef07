package clickhouse

import (
	"context"
	"fmt"
	"time"

	"lobster-preview/internal/domain"
	"lobster-preview/internal/storage"
)

// PreviewStore implements storage.PreviewStore using ClickHouse.
type PreviewStore struct {
	conn *Conn
}

// NewPreviewStore creates a new PreviewStore.
func NewPreviewStore(conn *Conn) *PreviewStore {
	return &PreviewStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PreviewStore = (*PreviewStore)(nil)

// InsertBatch adds all rows of a batch in one native batch.
// MergeTree does not enforce uniqueness, so duplicates are checked before sending.
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

	// Check for intra-batch duplicates
	seen := make(map[int]struct{}, len(b.Rows))
	for _, r := range b.Rows {
		if _, exists := seen[r.RowIndex]; exists {
			return storage.ErrDuplicateKey
		}
		seen[r.RowIndex] = struct{}{}
	}

	// Check for duplicates against existing rows
	count, err := s.count(ctx, b.RunID, b.Source)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if count > 0 {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO preview_events (
			run_id, source, path, row_index, time_seconds, elapsed_ns, event_type,
			order_id, size, price, price_usd, direction, created_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	createdAt := time.UnixMilli(b.CreatedAt).UTC()
	for _, row := range b.Rows {
		r := row.Record
		err = batch.Append(
			b.RunID, b.Source, b.Path, uint32(row.RowIndex),
			r.Time, int64(r.Elapsed), uint8(r.EventType),
			r.OrderID, r.Size, r.Price, r.PriceDollars(),
			int8(r.Direction), createdAt,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBatch retrieves a batch with rows ordered by row_index ASC.
func (s *PreviewStore) GetBatch(ctx context.Context, runID, source string) (*domain.PreviewBatch, error) {
	query := `
		SELECT path, row_index, time_seconds, elapsed_ns, event_type, order_id, size, price, direction, created_at
		FROM preview_events
		WHERE run_id = ? AND source = ?
		ORDER BY row_index ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, source)
	if err != nil {
		return nil, fmt.Errorf("query preview batch: %w", err)
	}
	defer rows.Close()

	batch := &domain.PreviewBatch{RunID: runID, Source: source}
	for rows.Next() {
		var (
			rowIndex  uint32
			elapsedNs int64
			eventType uint8
			direction int8
			createdAt time.Time
			row       domain.PreviewRow
		)

		err := rows.Scan(
			&batch.Path, &rowIndex, &row.Record.Time, &elapsedNs, &eventType,
			&row.Record.OrderID, &row.Record.Size, &row.Record.Price,
			&direction, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan preview row: %w", err)
		}

		row.RowIndex = int(rowIndex)
		row.Record.Elapsed = time.Duration(elapsedNs)
		row.Record.EventType = domain.EventType(eventType)
		row.Record.Direction = domain.Direction(direction)
		batch.CreatedAt = createdAt.UnixMilli()
		batch.Rows = append(batch.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preview rows: %w", err)
	}
	if len(batch.Rows) == 0 {
		return nil, storage.ErrNotFound
	}

	return batch, nil
}

// ListSources returns the sources stored for a run, ordered by source ASC.
func (s *PreviewStore) ListSources(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT DISTINCT source FROM preview_events
		WHERE run_id = ?
		ORDER BY source ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list preview sources: %w", err)
	}
	defer rows.Close()

	return scanSources(rows)
}

// count returns the number of stored rows for (run_id, source).
func (s *PreviewStore) count(ctx context.Context, runID, source string) (uint64, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `
		SELECT count(*) FROM preview_events
		WHERE run_id = ? AND source = ?
	`, runID, source).Scan(&count)
	return count, err
}

func scanSources(rows chRows) ([]string, error) {
	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return sources, nil
}
