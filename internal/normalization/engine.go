// Package normalization derives columns from loaded event tables.
package normalization

import (
	"context"

	"golang.org/x/sync/errgroup"

	"lobster-preview/internal/domain"
)

// minChunk is the smallest number of rows handed to one worker.
const minChunk = 4096

// TimeAnnotator computes the "Time (hh:mm:ss)" column of a table.
type TimeAnnotator struct {
	workers int
}

// NewTimeAnnotator creates an annotator. Workers <= 1 annotates in a single pass.
func NewTimeAnnotator(workers int) *TimeAnnotator {
	if workers < 1 {
		workers = 1
	}
	return &TimeAnnotator{workers: workers}
}

// AnnotateTime annotates a table sequentially.
func AnnotateTime(t *domain.Table) error {
	return NewTimeAnnotator(1).Annotate(context.Background(), t)
}

// Annotate sets Elapsed on every record from its Time field and appends the
// derived column. Rows are independent, so large tables are split into
// contiguous chunks processed concurrently; row order is never changed.
// Returns domain.ErrAlreadyAnnotated if the table was annotated before.
func (a *TimeAnnotator) Annotate(ctx context.Context, t *domain.Table) error {
	if t.Annotated() {
		return domain.ErrAlreadyAnnotated
	}

	records := t.Records
	chunk := (len(records) + a.workers - 1) / a.workers
	if chunk < minChunk {
		chunk = minChunk
	}

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(records); start += chunk {
		end := start + chunk
		if end > len(records) {
			end = len(records)
		}
		part := records[start:end]
		g.Go(func() error {
			for _, r := range part {
				if err := ctx.Err(); err != nil {
					return err
				}
				r.Elapsed = domain.SecondsToDuration(r.Time)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return t.MarkAnnotated()
}
