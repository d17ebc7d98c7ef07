package memory

import (
	"context"
	"sort"
	"sync"

	"lobster-preview/internal/domain"
	"lobster-preview/internal/storage"
)

type batchKey struct {
	runID  string
	source string
}

// PreviewStore is an in-memory implementation of storage.PreviewStore.
type PreviewStore struct {
	mu   sync.RWMutex
	data map[batchKey]*domain.PreviewBatch
}

// NewPreviewStore creates a new in-memory preview store.
func NewPreviewStore() *PreviewStore {
	return &PreviewStore{
		data: make(map[batchKey]*domain.PreviewBatch),
	}
}

// InsertBatch adds a batch. Returns ErrDuplicateKey if (run_id, source) exists.
func (s *PreviewStore) InsertBatch(_ context.Context, b *domain.PreviewBatch) error {
	if b == nil {
		return storage.ErrInvalidInput
	}
	if err := storage.ValidateBatch(b.RunID, b.Source); err != nil {
		return err
	}
	if len(b.Rows) == 0 {
		return nil
	}

	key := batchKey{b.RunID, b.Source}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	// Intra-batch duplicate row indexes
	seen := make(map[int]struct{}, len(b.Rows))
	for _, r := range b.Rows {
		if _, exists := seen[r.RowIndex]; exists {
			return storage.ErrDuplicateKey
		}
		seen[r.RowIndex] = struct{}{}
	}

	s.data[key] = copyBatch(b)
	return nil
}

// GetBatch retrieves a batch with rows ordered by row_index ASC.
func (s *PreviewStore) GetBatch(_ context.Context, runID, source string) (*domain.PreviewBatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.data[batchKey{runID, source}]
	if !ok {
		return nil, storage.ErrNotFound
	}

	result := copyBatch(b)
	sort.Slice(result.Rows, func(i, j int) bool {
		return result.Rows[i].RowIndex < result.Rows[j].RowIndex
	})
	return result, nil
}

// ListSources returns the sources stored for a run, ordered by source ASC.
func (s *PreviewStore) ListSources(_ context.Context, runID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sources []string
	for k := range s.data {
		if k.runID == runID {
			sources = append(sources, k.source)
		}
	}
	sort.Strings(sources)
	return sources, nil
}

func copyBatch(b *domain.PreviewBatch) *domain.PreviewBatch {
	c := *b
	c.Rows = make([]domain.PreviewRow, len(b.Rows))
	copy(c.Rows, b.Rows)
	return &c
}

var _ storage.PreviewStore = (*PreviewStore)(nil)
