package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lobster-preview/internal/domain"
	"lobster-preview/internal/storage"
)

func TestPreviewStore(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPreviewStore(pool)
	ctx := context.Background()

	t.Run("insert and get", func(t *testing.T) {
		batch := sampleBatch("run-1", "message_1", 3)
		batch.Rows[1].Record.EventType = domain.EventExecutionVisible
		batch.Rows[1].Record.Direction = domain.DirectionSell

		require.NoError(t, store.InsertBatch(ctx, batch))

		got, err := store.GetBatch(ctx, "run-1", "message_1")
		require.NoError(t, err)
		assert.Equal(t, batch.Path, got.Path)
		assert.Equal(t, batch.CreatedAt, got.CreatedAt)
		require.Len(t, got.Rows, 3)
		for i, row := range got.Rows {
			assert.Equal(t, i, row.RowIndex)
			assert.Equal(t, batch.Rows[i].Record, row.Record)
		}
	})

	t.Run("elapsed keeps nanoseconds", func(t *testing.T) {
		batch := sampleBatch("run-ns", "message_1", 1)
		batch.Rows[0].Record.Time = 34200.000000001
		batch.Rows[0].Record.Elapsed = 34200*time.Second + time.Nanosecond

		require.NoError(t, store.InsertBatch(ctx, batch))

		got, err := store.GetBatch(ctx, "run-ns", "message_1")
		require.NoError(t, err)
		assert.Equal(t, 34200*time.Second+time.Nanosecond, got.Rows[0].Record.Elapsed)
	})

	t.Run("price in dollars", func(t *testing.T) {
		var priceUSD string
		err := pool.QueryRow(ctx, `
			SELECT price_usd::text FROM preview_events
			WHERE run_id = 'run-1' AND row_index = 0
		`).Scan(&priceUSD)
		require.NoError(t, err)
		assert.Equal(t, "223.9600", priceUSD)
	})

	t.Run("duplicate batch", func(t *testing.T) {
		err := store.InsertBatch(ctx, sampleBatch("run-1", "message_1", 1))
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	})

	t.Run("duplicate row index rolls back", func(t *testing.T) {
		batch := sampleBatch("run-dup", "message_1", 2)
		batch.Rows[1].RowIndex = 0

		err := store.InsertBatch(ctx, batch)
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)

		_, err = store.GetBatch(ctx, "run-dup", "message_1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		require.NoError(t, store.InsertBatch(ctx, sampleBatch("run-empty", "message_1", 0)))

		sources, err := store.ListSources(ctx, "run-empty")
		require.NoError(t, err)
		assert.Empty(t, sources)
	})

	t.Run("invalid input", func(t *testing.T) {
		assert.ErrorIs(t, store.InsertBatch(ctx, nil), storage.ErrInvalidInput)
		assert.ErrorIs(t, store.InsertBatch(ctx, sampleBatch("", "message_1", 1)), storage.ErrInvalidInput)
		assert.ErrorIs(t, store.InsertBatch(ctx, sampleBatch("run-x", "", 1)), storage.ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.GetBatch(ctx, "missing", "message_1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list sources", func(t *testing.T) {
		require.NoError(t, store.InsertBatch(ctx, sampleBatch("run-2", "message_10", 2)))
		require.NoError(t, store.InsertBatch(ctx, sampleBatch("run-2", "message_1", 2)))

		sources, err := store.ListSources(ctx, "run-2")
		require.NoError(t, err)
		assert.Equal(t, []string{"message_1", "message_10"}, sources)
	})
}
