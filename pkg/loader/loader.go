// Package loader detects an input file's format and reads it into a raw
// record: one row of cells for tabular files, plain text for report documents.
package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Kind distinguishes tabular rows from report text.
type Kind int

const (
	KindTabular Kind = iota
	KindReport
)

func (k Kind) String() string {
	if k == KindReport {
		return "report"
	}
	return "tabular"
}

// Raw is the loader output for one file.
type Raw struct {
	Kind Kind
	// Row maps lowercased, trimmed header names to the first data row's cells.
	Row map[string]string
	// Text is the concatenated page text of a report document.
	Text string
	// Encoding names the text encoding a CSV file was decoded with.
	Encoding string
}

// textEncoding is one candidate in the CSV decoding order.
type textEncoding struct {
	name string
	enc  encoding.Encoding // nil means UTF-8
	// noC1 rejects decodes containing U+0080..U+009F. Windows-1252 maps its
	// five undefined bytes there.
	noC1 bool
}

// csvEncodings is tried in order; the first that decodes cleanly wins.
// ISO-8859-1 accepts any byte, so it is last.
var csvEncodings = []textEncoding{
	{name: "utf-8"},
	{name: "windows-1252", enc: charmap.Windows1252, noC1: true},
	{name: "iso-8859-1", enc: charmap.ISO8859_1},
}

// Load reads the file at path according to its extension.
func Load(path string) (*Raw, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedFormat, path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return loadCSV(path)
	case ".xlsx", ".xls":
		return loadWorkbook(path)
	case ".pdf":
		return loadPDF(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func loadCSV(path string) (*Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	for _, te := range csvEncodings {
		text, ok := decode(data, te.enc)
		if !ok || (te.noC1 && hasC1(text)) {
			continue
		}
		rows, err := readCSV(text)
		if err != nil {
			slog.Debug("csv decode attempt failed", "file", filepath.Base(path), "encoding", te.name, "error", err)
			continue
		}
		slog.Info("csv loaded", "file", filepath.Base(path), "encoding", te.name)
		return &Raw{Kind: KindTabular, Row: firstRow(rows), Encoding: te.name}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrEncodingExhausted, path)
}

// decode transcodes data to UTF-8. It fails when the bytes are not valid in
// the encoding, i.e. when decoding would need replacement characters.
func decode(data []byte, enc encoding.Encoding) (string, bool) {
	if enc == nil {
		return string(data), utf8.Valid(data)
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

func hasC1(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool { return r >= 0x80 && r <= 0x9f })
}

func readCSV(text string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, "\ufeff")))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	rows := [][]string{header}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func loadWorkbook(path string) (*Raw, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook %s: %v", ErrDocumentUnreadable, path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook %s has no sheets", ErrDocumentUnreadable, path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrDocumentUnreadable, sheets[0], err)
	}
	slog.Info("workbook loaded", "file", filepath.Base(path), "sheet", sheets[0])
	return &Raw{Kind: KindTabular, Row: firstRow(rows)}, nil
}

// firstRow pairs the header with the first data row. Header-only or empty
// input yields an empty row.
func firstRow(rows [][]string) map[string]string {
	row := make(map[string]string)
	if len(rows) < 2 {
		return row
	}
	header, values := rows[0], rows[1]
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if key == "" || i >= len(values) {
			continue
		}
		if _, exists := row[key]; exists {
			continue
		}
		row[key] = strings.TrimSpace(values[i])
	}
	return row
}

func loadPDF(path string) (raw *Raw, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if p := recover(); p != nil {
			raw, err = nil, fmt.Errorf("%w: %s: %v", ErrDocumentUnreadable, path, p)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrDocumentUnreadable, path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d of %s: %v", ErrDocumentUnreadable, i, path, err)
		}
		sb.WriteString(text)
	}
	slog.Info("pdf text extracted", "file", filepath.Base(path), "pages", r.NumPage())
	return &Raw{Kind: KindReport, Text: sb.String()}, nil
}
