package validate

import (
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
	"github.com/shopspring/decimal"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func full() *complaint.Record {
	r := complaint.New("c.csv")
	r.ComplaintID = "1234567890"
	r.ComplainantName = "RAHUL KUMAR"
	r.Complainant.Mobile = "9876543210"
	r.District = "Pune"
	r.DateTime = "2024-03-01 22:45:00"
	r.CrimeType = complaint.CategoryUPIFraud
	r.AmountLost = decimal.NewFromInt(25000)
	r.Status = complaint.StatusUnderProcess
	return r
}

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *complaint.Record)
		want   float64
	}{
		{"all filled", func(r *complaint.Record) {}, 100},
		{"no district no crime type", func(r *complaint.Record) {
			r.District = ""
			r.CrimeType = ""
		}, 80},
		{"sentinels count as empty", func(r *complaint.Record) {
			r.District = "Unknown"
			r.CrimeType = "NONE"
			r.ComplaintID = "0"
		}, 64},
		{"zero amount", func(r *complaint.Record) { r.AmountLost = decimal.Zero }, 84},
		{"nothing", func(r *complaint.Record) { *r = complaint.Record{} }, 0},
		{"only status", func(r *complaint.Record) {
			*r = complaint.Record{Status: complaint.StatusPending}
		}, 8},
		{"no name district status", func(r *complaint.Record) {
			r.District = ""
			r.Status = ""
			r.ComplainantName = ""
		}, 68},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := full()
			tt.modify(r)
			got := Score(r, quiet)
			if got != tt.want {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("Score = %v out of range", got)
			}
		})
	}
}

func TestValidate_Boundary(t *testing.T) {
	// id + name + amount + mobile = 7.5 of 12.5 = exactly 60.
	r := &complaint.Record{
		ComplaintID:     "1",
		ComplainantName: "A",
		AmountLost:      decimal.NewFromInt(1),
		Complainant:     complaint.Complainant{Mobile: "9876543210"},
	}
	Validate(r, quiet)
	if r.Metadata.DataQualityScore != 60 {
		t.Fatalf("score = %v, want 60", r.Metadata.DataQualityScore)
	}
	if r.Metadata.ValidationStatus != complaint.Valid {
		t.Errorf("status = %q, want valid at threshold", r.Metadata.ValidationStatus)
	}

	r.Complainant.Mobile = ""
	r.Metadata = complaint.Metadata{}
	Validate(r, quiet)
	if r.Metadata.ValidationStatus != complaint.Incomplete {
		t.Errorf("status = %q, want incomplete below threshold", r.Metadata.ValidationStatus)
	}
}

func TestValidate_Warnings(t *testing.T) {
	r := full()
	r.Complainant.Mobile = "98765"
	r.Complainant.Email = "not-an-email"
	r.AmountLost = decimal.Zero

	Validate(r, quiet)

	for _, w := range []string{WarnMobileLength, WarnEmailFormat, WarnAmount} {
		if !slices.Contains(r.Metadata.Warnings, w) {
			t.Errorf("missing warning %q in %v", w, r.Metadata.Warnings)
		}
	}
}

func TestValidate_NoWarningsWhenClean(t *testing.T) {
	r := full()
	r.Complainant.Email = "rahul@example.com"
	Validate(r, quiet)
	if len(r.Metadata.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", r.Metadata.Warnings)
	}
	if r.Metadata.ValidationStatus != complaint.Valid || r.Metadata.DataQualityScore != 100 {
		t.Errorf("metadata = %+v", r.Metadata)
	}
}
