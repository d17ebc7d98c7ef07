// Package pipeline runs the preview flow: load every input, annotate elapsed
// time, print console previews, write preview CSVs and feed optional sinks.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lobster-preview/internal/domain"
	"lobster-preview/internal/idhash"
	"lobster-preview/internal/lobster"
	"lobster-preview/internal/normalization"
	"lobster-preview/internal/observability"
	"lobster-preview/internal/reporting"
	"lobster-preview/internal/storage"
)

// Input is one message file with its console label and preview file name.
// Name identifies the input in sinks and metrics independently of Path.
type Input struct {
	Name       string
	Path       string
	Label      string
	OutputName string
}

// source returns Name, falling back to the preview file stem.
func (in Input) source() string {
	if in.Name != "" {
		return in.Name
	}
	return strings.TrimSuffix(strings.TrimPrefix(in.OutputName, "preview_"), filepath.Ext(in.OutputName))
}

// DefaultInputs returns the raw and the aggregated/sampled message files.
func DefaultInputs(message1, message10 string) []Input {
	return []Input{
		{
			Name:       "message_1",
			Path:       message1,
			Label:      "📄 message_1.csv — Raw Events",
			OutputName: "preview_message_1.csv",
		},
		{
			Name:       "message_10",
			Path:       message10,
			Label:      "\n📄 message_10.csv — Possibly Aggregated or Sampled Events",
			OutputName: "preview_message_10.csv",
		},
	}
}

// Result describes a completed run.
type Result struct {
	RunID        string
	Tables       []*domain.Table // in input order, annotated
	PreviewFiles []string        // full paths, in input order
	DataVersion  string          // SHA256 of the preview files
}

type sink struct {
	name  string
	store storage.PreviewStore
}

// PreviewPipeline orchestrates loader, annotator, reporter, writer and sinks.
type PreviewPipeline struct {
	inputs      []Input
	outputDir   string
	previewRows int
	headRows    int
	annotator   *normalization.TimeAnnotator
	sinks       []sink
	stdout      io.Writer
	logger      *zap.Logger
	metrics     *observability.Metrics
	runID       string
	clock       func() time.Time
}

// NewPreviewPipeline creates a pipeline over inputs writing into outputDir.
func NewPreviewPipeline(inputs []Input, outputDir string) *PreviewPipeline {
	return &PreviewPipeline{
		inputs:      inputs,
		outputDir:   outputDir,
		previewRows: reporting.DefaultPreviewRows,
		headRows:    reporting.DefaultHeadRows,
		annotator:   normalization.NewTimeAnnotator(1),
		stdout:      os.Stdout,
		logger:      zap.NewNop(),
		clock:       func() time.Time { return time.Now().UTC() },
	}
}

// WithStdout redirects console previews.
func (p *PreviewPipeline) WithStdout(w io.Writer) *PreviewPipeline {
	p.stdout = w
	return p
}

// WithLogger sets the diagnostic logger.
func (p *PreviewPipeline) WithLogger(logger *zap.Logger) *PreviewPipeline {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// WithStore adds a sink receiving the truncated preview of every table.
func (p *PreviewPipeline) WithStore(name string, store storage.PreviewStore) *PreviewPipeline {
	p.sinks = append(p.sinks, sink{name: name, store: store})
	return p
}

// WithMetrics records run metrics into m.
func (p *PreviewPipeline) WithMetrics(m *observability.Metrics) *PreviewPipeline {
	p.metrics = m
	return p
}

// WithWorkers sets the number of goroutines used to annotate each table.
func (p *PreviewPipeline) WithWorkers(n int) *PreviewPipeline {
	p.annotator = normalization.NewTimeAnnotator(n)
	return p
}

// WithRows sets the preview file and console row counts.
func (p *PreviewPipeline) WithRows(previewRows, headRows int) *PreviewPipeline {
	p.previewRows = previewRows
	p.headRows = headRows
	return p
}

// WithRunID fixes the run id used for sink batches. Defaults to a random uuid.
func (p *PreviewPipeline) WithRunID(id string) *PreviewPipeline {
	p.runID = id
	return p
}

// WithClock sets a custom clock function for deterministic output.
func (p *PreviewPipeline) WithClock(clock func() time.Time) *PreviewPipeline {
	p.clock = clock
	return p
}

// Run executes the pipeline. Every input is loaded before anything is printed
// or written, so a missing file leaves stdout and the output directory untouched
// apart from the "File not found" line.
func (p *PreviewPipeline) Run(ctx context.Context) (result *Result, err error) {
	start := p.clock()
	defer func() {
		status := observability.StatusSuccess
		switch {
		case errors.Is(err, lobster.ErrFileNotFound):
			status = observability.StatusMissingFile
		case err != nil:
			status = observability.StatusError
		}
		end := p.clock()
		p.metrics.RecordPipelineRun(status, end.Sub(start).Seconds(), end.Unix())
	}()

	if len(p.inputs) == 0 {
		return nil, errors.New("no inputs")
	}

	runID := p.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := p.logger.With(zap.String("run_id", runID))

	// 1. Load all inputs
	tables := make([]*domain.Table, 0, len(p.inputs))
	for _, in := range p.inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := p.load(in, logger)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	// 2. Annotate elapsed time
	for i, t := range tables {
		if err := p.annotator.Annotate(ctx, t); err != nil {
			return nil, fmt.Errorf("annotate %s: %w", t.Source, err)
		}
		p.metrics.RecordAnnotated(p.inputs[i].source(), t.Len())
	}

	// 3. Console previews
	for i, t := range tables {
		if err := reporting.PrintPreview(p.stdout, p.inputs[i].Label, t, p.headRows); err != nil {
			return nil, fmt.Errorf("print preview %s: %w", t.Source, err)
		}
	}

	// 4. Preview files
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	files := make([]string, 0, len(tables))
	for i, t := range tables {
		path := filepath.Join(p.outputDir, p.inputs[i].OutputName)
		if err := reporting.WritePreviewCSV(path, t, p.previewRows); err != nil {
			return nil, err
		}
		rows := min(p.previewRows, t.Len())
		p.metrics.RecordPreviewWritten(p.inputs[i].source(), rows)
		logger.Debug("wrote preview file", zap.String("path", path), zap.Int("rows", rows))
		files = append(files, path)
	}

	dataVersion, err := idhash.ComputePreviewDigest(files)
	if err != nil {
		return nil, err
	}

	if _, err := fmt.Fprintf(p.stdout, "\n✅ Preview CSVs saved as %s\n", quoteList(p.outputNames())); err != nil {
		return nil, fmt.Errorf("print confirmation: %w", err)
	}

	// 5. Sinks
	if err := p.persist(ctx, runID, tables, logger); err != nil {
		return nil, err
	}

	logger.Info("preview run complete",
		zap.Int("inputs", len(tables)),
		zap.String("data_version", dataVersion),
		zap.Duration("elapsed", p.clock().Sub(start)),
	)

	return &Result{RunID: runID, Tables: tables, PreviewFiles: files, DataVersion: dataVersion}, nil
}

func (p *PreviewPipeline) load(in Input, logger *zap.Logger) (*domain.Table, error) {
	loadStart := p.clock()
	t, err := lobster.LoadFile(in.Path)
	if err != nil {
		if errors.Is(err, lobster.ErrFileNotFound) {
			p.metrics.RecordMissingInput()
			fmt.Fprintf(p.stdout, "File not found: %s\n", in.Path)
		}
		return nil, err
	}

	p.metrics.RecordLoad(in.source(), t.Len(), p.clock().Sub(loadStart).Seconds())
	logger.Info("loaded message file", zap.String("path", in.Path), zap.Int("rows", t.Len()))
	return t, nil
}

// persist inserts the truncated preview of every table into every sink.
func (p *PreviewPipeline) persist(ctx context.Context, runID string, tables []*domain.Table, logger *zap.Logger) error {
	if len(p.sinks) == 0 {
		return nil
	}

	createdAt := p.clock().UnixMilli()
	for i, t := range tables {
		source := p.inputs[i].source()
		batch := domain.NewPreviewBatch(runID, source, t, p.previewRows, createdAt)
		for _, s := range p.sinks {
			insertStart := p.clock()
			err := s.store.InsertBatch(ctx, batch)
			p.metrics.RecordSinkInsert(s.name, p.clock().Sub(insertStart).Seconds(), err)
			if err != nil {
				return fmt.Errorf("store preview %s in %s: %w", source, s.name, err)
			}
			logger.Debug("stored preview batch",
				zap.String("sink", s.name),
				zap.String("source", source),
				zap.String("path", t.Source),
				zap.Int("rows", len(batch.Rows)),
			)
		}
	}
	return nil
}

func (p *PreviewPipeline) outputNames() []string {
	names := make([]string, len(p.inputs))
	for i, in := range p.inputs {
		names[i] = in.OutputName
	}
	return names
}

// quoteList renders 'a', 'b' and 'c'.
func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " and " + quoted[len(quoted)-1]
}
