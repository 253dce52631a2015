// Package ingest runs input files through loading, mapping, normalization,
// validation and duplicate detection, producing one result per file.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
	"github.com/hazyhaar/ncrp-ingest/pkg/dedup"
	"github.com/hazyhaar/ncrp-ingest/pkg/extract"
	"github.com/hazyhaar/ncrp-ingest/pkg/loader"
	"github.com/hazyhaar/ncrp-ingest/pkg/mapper"
	"github.com/hazyhaar/ncrp-ingest/pkg/normalize"
	"github.com/hazyhaar/ncrp-ingest/pkg/validate"
)

// Sink receives every file result once it is final. Sink errors are logged
// and never change the result.
type Sink interface {
	Consume(ctx context.Context, runID string, res complaint.Result) error
}

// Pipeline is one ingestion run. Its duplicate registry lives as long as
// the pipeline does.
type Pipeline struct {
	registry *dedup.Registry
	logger   *slog.Logger
	now      func() time.Time
	runID    string
	sinks    []Sink
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option { return func(p *Pipeline) { p.logger = l } }

// WithClock sets the time source used for processing timestamps.
func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }

// WithRegistry shares a duplicate registry with the pipeline.
func WithRegistry(r *dedup.Registry) Option { return func(p *Pipeline) { p.registry = r } }

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option { return func(p *Pipeline) { p.runID = id } }

// WithSink adds a result consumer.
func WithSink(s Sink) Option { return func(p *Pipeline) { p.sinks = append(p.sinks, s) } }

// New creates a pipeline with a fresh registry and run ID.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	if p.registry == nil {
		p.registry = dedup.New()
	}
	if p.runID == "" {
		p.runID = uuid.NewString()
	}
	return p
}

// RunID returns the identifier stamped on every record of this run.
func (p *Pipeline) RunID() string { return p.runID }

// Registry returns the run's duplicate registry.
func (p *Pipeline) Registry() *dedup.Registry { return p.registry }

// ProcessFile ingests one file. Failures are reported in the result, never
// returned as errors.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (res complaint.Result) {
	defer p.finish(ctx, path, &res)

	if err := ctx.Err(); err != nil {
		return complaint.Failure(complaint.ErrorCancelled, err)
	}

	p.logger.Info("processing file", "file", filepath.Base(path))
	r, err := p.build(path)
	if err != nil {
		p.logger.Error("file failed", "file", path, "error", err)
		return complaint.Failure(errorType(err), err)
	}
	return p.complete(r)
}

// ProcessText ingests report text that was extracted elsewhere. source names
// the document it came from.
func (p *Pipeline) ProcessText(ctx context.Context, text, source string) (res complaint.Result) {
	defer p.finish(ctx, source, &res)

	if err := ctx.Err(); err != nil {
		return complaint.Failure(complaint.ErrorCancelled, err)
	}
	r := mapper.FromReport(extract.Extract(text), source)
	normalize.Record(r)
	normalize.Flatten(r)
	return p.complete(r)
}

// finish turns a panic into an Internal result and hands the result to sinks.
func (p *Pipeline) finish(ctx context.Context, source string, res *complaint.Result) {
	if v := recover(); v != nil {
		p.logger.Error("panic while processing", "file", source, "panic", v)
		*res = complaint.Failure(complaint.ErrorInternal, fmt.Errorf("process %s: %v", source, v))
	}
	p.emit(ctx, *res)
}

// build loads path and maps it into a normalized, flattened record.
func (p *Pipeline) build(path string) (*complaint.Record, error) {
	raw, err := loader.Load(path)
	if err != nil {
		return nil, err
	}

	source := filepath.Base(path)
	var r *complaint.Record
	switch raw.Kind {
	case loader.KindTabular:
		r = mapper.FromRow(raw.Row, source)
	case loader.KindReport:
		r = mapper.FromReport(extract.Extract(raw.Text), source)
	default:
		return nil, fmt.Errorf("%s: unknown input kind %v", path, raw.Kind)
	}

	normalize.Record(r)
	normalize.Flatten(r)
	return r, nil
}

// complete scores r, resolves duplicates against the run, then stamps it.
// The duplicate flag is always set before the timestamp.
func (p *Pipeline) complete(r *complaint.Record) complaint.Result {
	validate.Validate(r, p.logger)

	r.Metadata.IsDuplicate = p.registry.CheckAndRegister(r)
	if r.Metadata.IsDuplicate {
		p.logger.Warn("duplicate complaint", "complaint_id", r.ComplaintID, "file", r.SourceFile)
	}
	r.Metadata.RunID = p.runID
	r.Stamp(p.now())

	p.logger.Info("complaint processed",
		"complaint_id", r.ComplaintID,
		"score", r.Metadata.DataQualityScore,
		"validation", r.Metadata.ValidationStatus)
	return complaint.Success(r)
}

func (p *Pipeline) emit(ctx context.Context, res complaint.Result) {
	for _, s := range p.sinks {
		if err := s.Consume(ctx, p.runID, res); err != nil {
			p.logger.Error("result sink failed", "error", err)
		}
	}
}

// ProcessBatch ingests paths in order. A failing file never stops the batch;
// a cancelled context does, and the files not yet started are left out.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string) complaint.Batch {
	b := complaint.Batch{
		RunID:      p.runID,
		TotalFiles: len(paths),
		Results:    []complaint.Entry{},
	}
	for _, path := range paths {
		if ctx.Err() != nil {
			p.logger.Warn("batch cancelled", "processed", len(b.Files), "total", len(paths))
			break
		}
		b.Add(p.ProcessFile(ctx, path))
	}
	p.logger.Info("batch complete",
		"run_id", p.runID,
		"total", b.TotalFiles,
		"successful", b.Successful,
		"failed", b.Failed,
		"duplicates", b.Duplicates)
	return b
}

// ListInputs returns the regular files in dir, sorted by name.
func ListInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func errorType(err error) complaint.ErrorType {
	switch {
	case errors.Is(err, loader.ErrInputNotFound):
		return complaint.ErrorInputNotFound
	case errors.Is(err, loader.ErrUnsupportedFormat):
		return complaint.ErrorUnsupportedFormat
	case errors.Is(err, loader.ErrEncodingExhausted):
		return complaint.ErrorEncodingExhausted
	case errors.Is(err, loader.ErrDocumentUnreadable):
		return complaint.ErrorDocumentUnreadable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return complaint.ErrorCancelled
	default:
		return complaint.ErrorInternal
	}
}
