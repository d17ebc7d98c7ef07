// Package lobster reads LOBSTER message files into event tables.
package lobster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"lobster-preview/internal/domain"
)

// LoadFile reads a headerless six-column message file.
// A missing or unreadable path yields an error matching ErrFileNotFound.
func LoadFile(path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileNotFoundError{Path: path, Err: err}
	}
	defer f.Close()

	return Read(path, f)
}

// Read parses message rows from r. Column names are assigned positionally
// and rows keep their input order.
func Read(source string, r io.Reader) (*domain.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(domain.MessageColumns)
	reader.ReuseRecord = true

	table := domain.NewTable(source)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}

		line, _ := reader.FieldPos(0)
		rec, err := parseRecord(source, line, fields)
		if err != nil {
			return nil, err
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}

// parseRecord converts one CSV row into an EventRecord.
func parseRecord(source string, line int, fields []string) (*domain.EventRecord, error) {
	fail := func(col int, err error) error {
		return &ParseError{
			Source: source,
			Line:   line,
			Column: domain.MessageColumns[col],
			Value:  fields[col],
			Err:    err,
		}
	}

	var rec domain.EventRecord
	var err error

	if rec.Time, err = strconv.ParseFloat(strings.TrimSpace(fields[0]), 64); err != nil {
		return nil, fail(0, err)
	}

	ints := make([]int64, 5)
	for i := 1; i < len(fields); i++ {
		if ints[i-1], err = strconv.ParseInt(strings.TrimSpace(fields[i]), 10, 64); err != nil {
			return nil, fail(i, err)
		}
	}

	rec.EventType = domain.EventType(ints[0])
	rec.OrderID = ints[1]
	rec.Size = ints[2]
	rec.Price = ints[3]
	rec.Direction = domain.Direction(ints[4])

	return &rec, nil
}
