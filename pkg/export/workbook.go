package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
	"github.com/xuri/excelize/v2"
)

// SheetName is the sheet created in new workbooks.
const SheetName = "Complaints"

// WorkbookHeader lists the workbook columns in order.
var WorkbookHeader = []string{
	"Complaint ID",
	"Acknowledgement No",
	"Date & Time",
	"Complainant Name",
	"District",
	"Crime Type",
	"Platform",
	"Amount Lost (INR)",
	"Status",
	"Data Quality Score",
	"Source File",
}

// workbookMu serializes appends; excelize files are rewritten whole on save.
var workbookMu sync.Mutex

// AppendWorkbook adds one row for res to the workbook at path, creating the
// file with a header row when it does not exist.
func AppendWorkbook(path string, res complaint.Result) error {
	if !res.OK() {
		return ErrFailedResult
	}
	workbookMu.Lock()
	defer workbookMu.Unlock()

	f, sheet, err := openWorkbook(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, workbookRow(res.Data)); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func openWorkbook(path string) (*excelize.File, string, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		f := excelize.NewFile()
		if err := f.SetSheetName("Sheet1", SheetName); err != nil {
			f.Close()
			return nil, "", fmt.Errorf("name sheet: %w", err)
		}
		header := make([]any, len(WorkbookHeader))
		for i, h := range WorkbookHeader {
			header[i] = h
		}
		if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
			f.Close()
			return nil, "", fmt.Errorf("write header: %w", err)
		}
		return f, SheetName, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("stat workbook %s: %w", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("open workbook %s: %w", path, err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, "", fmt.Errorf("workbook %s has no sheets", path)
	}
	return f, sheets[0], nil
}

func workbookRow(r *complaint.Record) *[]any {
	row := []any{
		r.ComplaintID,
		r.AcknowledgementNumber,
		r.DateTime,
		r.ComplainantName,
		r.District,
		string(r.CrimeType),
		string(r.Platform),
		r.AmountLost.InexactFloat64(),
		string(r.Status),
		r.Metadata.DataQualityScore,
		r.SourceFile,
	}
	return &row
}
