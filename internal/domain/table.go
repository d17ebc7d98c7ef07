package domain

import "errors"

// Column names of a LOBSTER message file, in file order.
const (
	ColumnTime      = "Time"
	ColumnEventType = "EventType"
	ColumnOrderID   = "OrderID"
	ColumnSize      = "Size"
	ColumnPrice     = "Price"
	ColumnDirection = "Direction"

	// ColumnElapsed is appended by time annotation.
	ColumnElapsed = "Time (hh:mm:ss)"
)

// MessageColumns is the positional schema of the headerless input files.
var MessageColumns = []string{
	ColumnTime,
	ColumnEventType,
	ColumnOrderID,
	ColumnSize,
	ColumnPrice,
	ColumnDirection,
}

// ErrAlreadyAnnotated is returned when a table's derived time column is computed twice.
var ErrAlreadyAnnotated = errors.New("table already annotated")

// Table is an ordered set of event records loaded from one message file.
// Record order is file order and must be preserved.
type Table struct {
	Source    string   // path or label the table was loaded from
	Columns   []string // column names, derived columns last
	Records   []*EventRecord
	annotated bool
}

// NewTable creates an empty table with the message file schema.
func NewTable(source string) *Table {
	cols := make([]string, len(MessageColumns))
	copy(cols, MessageColumns)
	return &Table{
		Source:  source,
		Columns: cols,
	}
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.Records)
}

// Head returns the first n records (all of them if n exceeds the length).
// The returned slice shares records with the table.
func (t *Table) Head(n int) []*EventRecord {
	if n < 0 {
		n = 0
	}
	if n > len(t.Records) {
		n = len(t.Records)
	}
	return t.Records[:n]
}

// Annotated reports whether the derived time column has been computed.
func (t *Table) Annotated() bool {
	return t.annotated
}

// MarkAnnotated appends the derived time column and freezes the table.
// Returns ErrAlreadyAnnotated on the second call.
func (t *Table) MarkAnnotated() error {
	if t.annotated {
		return ErrAlreadyAnnotated
	}
	t.Columns = append(t.Columns, ColumnElapsed)
	t.annotated = true
	return nil
}
