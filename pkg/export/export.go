// Package export writes ingestion results to disk: one JSON document per
// complaint, a batch summary, and an append-only workbook.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
)

// ErrFailedResult is returned when asked to export a result that carries no record.
var ErrFailedResult = errors.New("cannot export failed result")

// BatchFile is the name of the batch summary document.
const BatchFile = "batch_summary.json"

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ComplaintFile returns the document name for a complaint identifier.
func ComplaintFile(id string) string {
	id = unsafeNameRe.ReplaceAllString(id, "_")
	if id == "" {
		id = "unknown"
	}
	return "complaint_" + id + ".json"
}

// WriteComplaintJSON writes res as an indented document in dir and returns its path.
func WriteComplaintJSON(dir string, res complaint.Result) (string, error) {
	if !res.OK() {
		return "", ErrFailedResult
	}
	path := filepath.Join(dir, ComplaintFile(res.Data.ComplaintID))
	return path, writeJSON(path, res)
}

// WriteBatchJSON writes the batch summary document in dir and returns its path.
func WriteBatchJSON(dir string, b complaint.Batch) (string, error) {
	path := filepath.Join(dir, BatchFile)
	return path, writeJSON(path, b)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Writer exports every successful result it receives. Empty fields disable
// the matching output.
type Writer struct {
	Dir      string // per-complaint JSON documents
	Workbook string // append-only XLSX file
}

// Consume writes res to the configured outputs. Failed results are skipped.
func (w *Writer) Consume(_ context.Context, _ string, res complaint.Result) error {
	if !res.OK() {
		return nil
	}
	var errs []error
	if w.Dir != "" {
		if _, err := WriteComplaintJSON(w.Dir, res); err != nil {
			errs = append(errs, err)
		}
	}
	if w.Workbook != "" {
		if err := AppendWorkbook(w.Workbook, res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
