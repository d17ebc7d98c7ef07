package reporting

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInt(t *testing.T, s string) int64 {
	t.Helper()
	v, err := strconv.ParseInt(s, 10, 64)
	require.NoError(t, err)
	return v
}

func TestPrintPreview_HeadOnly(t *testing.T) {
	table := largeTable(t, 8)
	var buf bytes.Buffer

	require.NoError(t, PrintPreview(&buf, "📄 message_1.csv — Raw Events", table, DefaultHeadRows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 1+1+5) // label, header, 5 rows
	assert.Equal(t, "📄 message_1.csv — Raw Events", lines[0])

	for _, col := range table.Columns {
		assert.Contains(t, lines[1], col)
	}

	fields := strings.Fields(lines[2])
	assert.Equal(t, "0", fields[0])
	assert.Equal(t, "34200.0", fields[1])
	assert.Contains(t, lines[6], "09:30:00.500000")

	assert.Equal(t, 8, table.Len())
}

func TestPrintPreview_ShortTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintPreview(&buf, "label", scenarioTable(t), DefaultHeadRows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 1+1+3)
	assert.Contains(t, lines[4], "1999000")
	assert.Contains(t, lines[4], "0 days 09:30:01")
}
