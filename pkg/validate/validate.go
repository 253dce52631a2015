// Package validate scores how complete a complaint record is.
package validate

import (
	"log/slog"
	"math"
	"strings"

	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
)

// Threshold is the lowest score a record needs to be considered valid.
const Threshold = 60.0

// Warnings emitted by Validate.
const (
	WarnMobileLength = "Mobile number is not 10 digits"
	WarnEmailFormat  = "Invalid email format"
	WarnAmount       = "Amount lost is zero or negative"
)

type field struct {
	name   string
	weight float64
	value  func(r *complaint.Record) string
}

var fields = []field{
	{"complaint_id", 2.0, func(r *complaint.Record) string { return r.ComplaintID }},
	{"complainant_name", 2.0, func(r *complaint.Record) string { return r.ComplainantName }},
	{"mobile", 1.5, func(r *complaint.Record) string { return r.Complainant.Mobile }},
	{"district", 1.0, func(r *complaint.Record) string { return r.District }},
	{"date_time", 1.5, func(r *complaint.Record) string { return r.DateTime }},
	{"crime_type", 1.5, func(r *complaint.Record) string { return string(r.CrimeType) }},
	{"amount_lost", 2.0, func(r *complaint.Record) string {
		if r.AmountLost.IsPositive() {
			return r.AmountLost.String()
		}
		return ""
	}},
	{"status", 1.0, func(r *complaint.Record) string { return string(r.Status) }},
}

var sentinels = []string{"none", "unknown", "0", "0.0"}

func filled(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	for _, s := range sentinels {
		if strings.EqualFold(v, s) {
			return false
		}
	}
	return true
}

// Score returns the weighted percentage of critical fields that are filled,
// rounded to two decimals. Missing fields are logged.
func Score(r *complaint.Record, logger *slog.Logger) float64 {
	if logger == nil {
		logger = slog.Default()
	}
	var total, got float64
	for _, f := range fields {
		total += f.weight
		if filled(f.value(r)) {
			got += f.weight
			continue
		}
		logger.Warn("missing critical field", "field", f.name, "source", r.SourceFile)
	}
	return math.Round(100*got/total*100) / 100
}

// Validate sets the score, validation status and structural warnings on r.
func Validate(r *complaint.Record, logger *slog.Logger) {
	score := Score(r, logger)
	r.Metadata.DataQualityScore = score
	if score >= Threshold {
		r.Metadata.ValidationStatus = complaint.Valid
	} else {
		r.Metadata.ValidationStatus = complaint.Incomplete
	}

	if m := r.Complainant.Mobile; m != "" && len(m) != 10 {
		r.Warn(WarnMobileLength)
	}
	if e := r.Complainant.Email; e != "" && !strings.Contains(e, "@") {
		r.Warn(WarnEmailFormat)
	}
	if !r.AmountLost.IsPositive() {
		r.Warn(WarnAmount)
	}
}
