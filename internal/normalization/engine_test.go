package normalization

import (
	"context"
	"errors"
	"testing"
	"time"

	"lobster-preview/internal/domain"
)

func makeTable(n int) *domain.Table {
	table := domain.NewTable("test")
	for i := 0; i < n; i++ {
		table.Records = append(table.Records, &domain.EventRecord{
			Time:      34200 + float64(i)*0.001953125,
			EventType: domain.EventSubmission,
			OrderID:   int64(i),
			Size:      100,
			Price:     2000000,
			Direction: domain.DirectionBuy,
		})
	}
	return table
}

func TestAnnotateTime_Scenario(t *testing.T) {
	table := domain.NewTable("message_1.csv")
	table.Records = []*domain.EventRecord{
		{Time: 34200.123, EventType: 1, OrderID: 5001, Size: 100, Price: 2000000, Direction: 1},
		{Time: 34200.456, EventType: 4, OrderID: 5001, Size: 50, Price: 2000000, Direction: -1},
		{Time: 34201.0, EventType: 3, OrderID: 5002, Size: 200, Price: 1999000, Direction: 1},
	}

	if err := AnnotateTime(table); err != nil {
		t.Fatalf("AnnotateTime failed: %v", err)
	}

	if len(table.Columns) != 7 {
		t.Fatalf("Expected 7 columns, got %d", len(table.Columns))
	}
	if table.Columns[6] != "Time (hh:mm:ss)" {
		t.Errorf("Derived column = %q", table.Columns[6])
	}
	if table.Len() != 3 {
		t.Errorf("Row count changed: %d", table.Len())
	}

	want := 9*time.Hour + 30*time.Minute + 123*time.Millisecond
	if table.Records[0].Elapsed != want {
		t.Errorf("Elapsed = %v, want %v", table.Records[0].Elapsed, want)
	}
	if got := domain.FormatElapsed(table.Records[0].Elapsed); got != "0 days 09:30:00.123000" {
		t.Errorf("Formatted elapsed = %q", got)
	}
	if table.Records[2].Elapsed != 9*time.Hour+30*time.Minute+time.Second {
		t.Errorf("Third row elapsed = %v", table.Records[2].Elapsed)
	}
}

func TestAnnotateTime_RoundTrip(t *testing.T) {
	table := makeTable(1000)
	if err := AnnotateTime(table); err != nil {
		t.Fatalf("AnnotateTime failed: %v", err)
	}

	for i, r := range table.Records {
		diff := r.Elapsed.Seconds() - r.Time
		if diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("Row %d: elapsed %v does not match time %v", i, r.Elapsed, r.Time)
		}
	}
}

func TestAnnotate_Twice(t *testing.T) {
	table := makeTable(3)
	if err := AnnotateTime(table); err != nil {
		t.Fatalf("First annotate failed: %v", err)
	}

	table.Records[0].Time = 0 // would change Elapsed if recomputed
	err := AnnotateTime(table)
	if !errors.Is(err, domain.ErrAlreadyAnnotated) {
		t.Fatalf("Expected ErrAlreadyAnnotated, got %v", err)
	}
	if table.Records[0].Elapsed == 0 {
		t.Error("Record was mutated by second annotate")
	}
	if len(table.Columns) != 7 {
		t.Errorf("Expected 7 columns, got %d", len(table.Columns))
	}
}

func TestAnnotate_ParallelMatchesSequential(t *testing.T) {
	seq := makeTable(3*minChunk + 17)
	par := makeTable(3*minChunk + 17)

	if err := NewTimeAnnotator(1).Annotate(context.Background(), seq); err != nil {
		t.Fatalf("Sequential annotate failed: %v", err)
	}
	if err := NewTimeAnnotator(8).Annotate(context.Background(), par); err != nil {
		t.Fatalf("Parallel annotate failed: %v", err)
	}

	if seq.Len() != par.Len() {
		t.Fatalf("Length mismatch: %d vs %d", seq.Len(), par.Len())
	}
	for i := range seq.Records {
		if seq.Records[i].OrderID != par.Records[i].OrderID {
			t.Fatalf("Row %d order differs", i)
		}
		if seq.Records[i].Elapsed != par.Records[i].Elapsed {
			t.Fatalf("Row %d elapsed differs: %v vs %v", i, seq.Records[i].Elapsed, par.Records[i].Elapsed)
		}
	}
}

func TestAnnotate_Empty(t *testing.T) {
	table := domain.NewTable("empty")
	if err := NewTimeAnnotator(4).Annotate(context.Background(), table); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if !table.Annotated() {
		t.Error("Empty table not marked annotated")
	}
}

func TestAnnotate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table := makeTable(10)
	err := NewTimeAnnotator(2).Annotate(ctx, table)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if table.Annotated() {
		t.Error("Cancelled table must not be marked annotated")
	}
}
