package complaint

import "github.com/shopspring/decimal"

// Summary is the flat digest consumed by every downstream collaborator.
type Summary struct {
	ComplaintID      string           `json:"complaint_id"`
	ComplainantName  string           `json:"complainant_name"`
	District         string           `json:"district"`
	CrimeType        Category         `json:"crime_type"`
	Platform         Platform         `json:"platform"`
	AmountLost       decimal.Decimal  `json:"amount_lost"`
	Status           Status           `json:"status"`
	DateTime         string           `json:"date_time"`
	NumTransactions  int              `json:"num_transactions"`
	NumActionsTaken  int              `json:"num_actions_taken"`
	DataQualityScore float64          `json:"data_quality_score"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	IsDuplicate      bool             `json:"is_duplicate"`
	SourceFile       string           `json:"source_file"`
}

// Summarize projects a record into its summary. It has no side effects.
func Summarize(r *Record) Summary {
	return Summary{
		ComplaintID:      r.ComplaintID,
		ComplainantName:  r.ComplainantName,
		District:         r.District,
		CrimeType:        r.CrimeType,
		Platform:         r.Platform,
		AmountLost:       r.AmountLost,
		Status:           r.Status,
		DateTime:         r.DateTime,
		NumTransactions:  len(r.Transactions),
		NumActionsTaken:  len(r.Actions),
		DataQualityScore: r.Metadata.DataQualityScore,
		ValidationStatus: r.Metadata.ValidationStatus,
		IsDuplicate:      r.Metadata.IsDuplicate,
		SourceFile:       r.SourceFile,
	}
}

// Result statuses.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Result is the outcome of ingesting one file: either Data+Summary on
// success, or Error+ErrorType on failure.
type Result struct {
	Status    string    `json:"status"`
	Data      *Record   `json:"data,omitempty"`
	Summary   *Summary  `json:"summary,omitempty"`
	Error     string    `json:"error,omitempty"`
	ErrorType ErrorType `json:"error_type,omitempty"`
}

// Success wraps a finished record.
func Success(r *Record) Result {
	s := Summarize(r)
	return Result{Status: ResultSuccess, Data: r, Summary: &s}
}

// Failure builds an error result.
func Failure(kind ErrorType, err error) Result {
	return Result{Status: ResultError, Error: err.Error(), ErrorType: kind}
}

// OK reports whether the result carries a record.
func (r Result) OK() bool { return r.Status == ResultSuccess }

// Entry is one line of a batch: the summary on success, the error otherwise.
type Entry struct {
	*Summary
	Error     string    `json:"error,omitempty"`
	ErrorType ErrorType `json:"error_type,omitempty"`
}

// Batch aggregates the results of one ingestion run.
type Batch struct {
	RunID      string  `json:"run_id"`
	TotalFiles int     `json:"total_files"`
	Successful int     `json:"successful"`
	Failed     int     `json:"failed"`
	Duplicates int     `json:"duplicates"`
	Results    []Entry `json:"results"`

	// Full per-file results, in input order. Not serialized in the batch summary.
	Files []Result `json:"-"`
}

// Add accounts for one file result.
func (b *Batch) Add(res Result) {
	b.Files = append(b.Files, res)
	if res.OK() {
		b.Successful++
		if res.Data.Metadata.IsDuplicate {
			b.Duplicates++
		}
		b.Results = append(b.Results, Entry{Summary: res.Summary})
		return
	}
	b.Failed++
	b.Results = append(b.Results, Entry{Error: res.Error, ErrorType: res.ErrorType})
}
