package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"lobster-preview/internal/domain"
)

// DefaultPreviewRows is the number of rows kept in a preview file.
const DefaultPreviewRows = 1000

// RenderCSV renders the first limit rows of a table as CSV with a header row
// and no index column.
func RenderCSV(t *domain.Table, limit int) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	// Header
	if err := w.Write(t.Columns); err != nil {
		return "", err
	}

	// Rows
	for _, r := range t.Head(limit) {
		if err := w.Write(formatRow(r, t.Annotated())); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WritePreviewCSV writes the preview of a table to path, replacing any existing file.
func WritePreviewCSV(path string, t *domain.Table, limit int) error {
	content, err := RenderCSV(t, limit)
	if err != nil {
		return fmt.Errorf("render preview %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write preview %s: %w", path, err)
	}
	return nil
}

// formatRow returns the record fields in column order.
func formatRow(r *domain.EventRecord, withElapsed bool) []string {
	row := []string{
		FormatTime(r.Time),
		strconv.Itoa(int(r.EventType)),
		strconv.FormatInt(r.OrderID, 10),
		strconv.FormatInt(r.Size, 10),
		strconv.FormatInt(r.Price, 10),
		strconv.Itoa(int(r.Direction)),
	}
	if withElapsed {
		row = append(row, domain.FormatElapsed(r.Elapsed))
	}
	return row
}

// FormatTime renders seconds after midnight with the shortest exact
// representation, always keeping a decimal point ("34201.0").
func FormatTime(sec float64) string {
	s := strconv.FormatFloat(sec, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
