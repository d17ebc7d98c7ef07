package reporting

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"lobster-preview/internal/domain"
)

// DefaultHeadRows is the number of rows printed by PrintPreview.
const DefaultHeadRows = 5

// PrintPreview writes a label followed by an aligned rendering of the first
// n rows, with a leading row index column. The table is not modified.
func PrintPreview(w io.Writer, label string, t *domain.Table, n int) error {
	if _, err := fmt.Fprintln(w, label); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	// Header
	if _, err := fmt.Fprintln(tw, "\t"+strings.Join(t.Columns, "\t")+"\t"); err != nil {
		return err
	}

	for i, r := range t.Head(n) {
		cells := append([]string{strconv.Itoa(i)}, formatRow(r, t.Annotated())...)
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t"); err != nil {
			return err
		}
	}

	return tw.Flush()
}
