package domain

// PreviewRow is one persisted preview row with its position in the source file.
type PreviewRow struct {
	RowIndex int // 0-based position in the source table
	Record   EventRecord
}

// PreviewBatch is the truncated head of one table, persisted per run.
type PreviewBatch struct {
	RunID     string // uuid of the pipeline run
	Source    string // logical input name, e.g. "message_1"
	Path      string // file the rows were loaded from
	CreatedAt int64  // Unix timestamp in milliseconds
	Rows      []PreviewRow
}

// NewPreviewBatch copies the first limit records of the table into a batch
// identified by (runID, source). The table's own source becomes the batch path.
func NewPreviewBatch(runID, source string, t *Table, limit int, createdAt int64) *PreviewBatch {
	head := t.Head(limit)
	rows := make([]PreviewRow, len(head))
	for i, r := range head {
		rows[i] = PreviewRow{RowIndex: i, Record: *r}
	}
	return &PreviewBatch{
		RunID:     runID,
		Source:    source,
		Path:      t.Source,
		CreatedAt: createdAt,
		Rows:      rows,
	}
}
