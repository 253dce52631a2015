package export

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func sampleResult(id string) complaint.Result {
	r := complaint.New(id + ".pdf")
	r.ComplaintID = id
	r.AcknowledgementNumber = id
	r.ComplainantName = "RAHUL KUMAR"
	r.District = "Pune"
	r.CrimeType = complaint.CategoryUPIFraud
	r.Platform = complaint.PlatformPhonePe
	r.AmountLost = decimal.RequireFromString("25000.50")
	r.Metadata.DataQualityScore = 92
	r.Metadata.ValidationStatus = complaint.Valid
	return complaint.Success(r)
}

func TestComplaintFile(t *testing.T) {
	tests := []struct {
		id, want string
	}{
		{"1234567890", "complaint_1234567890.json"},
		{"A/B 12", "complaint_A_B_12.json"},
		{"", "complaint_unknown.json"},
	}
	for _, tt := range tests {
		if got := ComplaintFile(tt.id); got != tt.want {
			t.Errorf("ComplaintFile(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestWriteComplaintJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := WriteComplaintJSON(dir, sampleResult("1234567890"))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "complaint_1234567890.json" {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc["status"] != "success" {
		t.Errorf("status = %v", doc["status"])
	}
	rec, ok := doc["data"].(map[string]any)
	if !ok {
		t.Fatalf("data = %T", doc["data"])
	}
	for _, key := range []string{"complaint_id", "district", "complainant_details", "transactions", "actions_taken", "metadata"} {
		if _, ok := rec[key]; !ok {
			t.Errorf("record missing key %q", key)
		}
	}
}

func TestWriteComplaintJSON_FailedResult(t *testing.T) {
	res := complaint.Failure(complaint.ErrorUnsupportedFormat, errors.New("nope"))
	if _, err := WriteComplaintJSON(t.TempDir(), res); !errors.Is(err, ErrFailedResult) {
		t.Errorf("err = %v, want ErrFailedResult", err)
	}
}

func TestWriteBatchJSON(t *testing.T) {
	var b complaint.Batch
	b.RunID = "run-1"
	b.TotalFiles = 2
	b.Add(sampleResult("1"))
	b.Add(complaint.Failure(complaint.ErrorUnsupportedFormat, errors.New("unsupported file format: \".txt\"")))

	path, err := WriteBatchJSON(t.TempDir(), b)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		RunID      string `json:"run_id"`
		TotalFiles int    `json:"total_files"`
		Successful int    `json:"successful"`
		Failed     int    `json:"failed"`
		Results    []struct {
			ComplaintID string `json:"complaint_id"`
			ErrorType   string `json:"error_type"`
		} `json:"results"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.RunID != "run-1" || doc.TotalFiles != 2 || doc.Successful != 1 || doc.Failed != 1 {
		t.Errorf("doc = %+v", doc)
	}
	if len(doc.Results) != 2 || doc.Results[0].ComplaintID != "1" || doc.Results[1].ErrorType != "UnsupportedFormat" {
		t.Errorf("results = %+v", doc.Results)
	}
}

func TestAppendWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ncrp.xlsx")

	if err := AppendWorkbook(path, sampleResult("111")); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := AppendWorkbook(path, sampleResult("222")); err != nil {
		t.Fatalf("second append: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "Complaint ID" || rows[0][len(WorkbookHeader)-1] != "Source File" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "111" || rows[2][0] != "222" {
		t.Errorf("ids = %q, %q", rows[1][0], rows[2][0])
	}
	if rows[2][6] != "PhonePe" || rows[2][10] != "222.pdf" {
		t.Errorf("row = %v", rows[2])
	}
}

func TestAppendWorkbook_FailedResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ncrp.xlsx")
	res := complaint.Failure(complaint.ErrorInputNotFound, errors.New("missing"))
	if err := AppendWorkbook(path, res); !errors.Is(err, ErrFailedResult) {
		t.Errorf("err = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("workbook created for a failed result")
	}
}

func TestWriter_Consume(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: filepath.Join(dir, "json"), Workbook: filepath.Join(dir, "out.xlsx")}

	if err := w.Consume(context.Background(), "run", sampleResult("42")); err != nil {
		t.Fatal(err)
	}
	if err := w.Consume(context.Background(), "run", complaint.Failure(complaint.ErrorInternal, errors.New("x"))); err != nil {
		t.Errorf("failed result: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "json", "complaint_42.json")); err != nil {
		t.Errorf("json not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.xlsx")); err != nil {
		t.Errorf("workbook not written: %v", err)
	}
}
