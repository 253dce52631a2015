// Package extract recovers complaint fields from the plain text of a filed
// report document.
package extract

import (
	"regexp"
	"strings"

	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
	"github.com/shopspring/decimal"
)

// Fields holds everything recovered from one report. Absent values are "".
type Fields struct {
	AcknowledgementNumber string
	ComplaintID           string

	IncidentDate  string
	IncidentTime  string
	ComplaintDate string

	Name   string
	Mobile string
	Email  string

	Street        string
	HouseNo       string
	Colony        string
	VillageTown   string
	PoliceStation string
	District      string
	State         string
	Pincode       string

	ComplaintType string
	Category      string
	SubCategory   string
	Description   string

	// TotalFraudAmount is the digits of the amount with separators removed.
	TotalFraudAmount string
	Status           string

	Transactions []complaint.Transaction
	Actions      []complaint.Action
	Platform     complaint.Platform
}

// IncidentDateTime joins the incident date and time when both are present.
func (f *Fields) IncidentDateTime() string {
	if f.IncidentDate != "" && f.IncidentTime != "" {
		return f.IncidentDate + " " + f.IncidentTime
	}
	return f.IncidentDate
}

var rules = mustCompile(labelRules)

func mustCompile(lr []labelRule) []compiledRule {
	cr, err := compileRules(lr)
	if err != nil {
		panic(err)
	}
	return cr
}

var (
	incidentRe = regexp.MustCompile(`(?i)Incident Date/Time\s*(\d{2}/\d{2}/\d{4})\s*(\d{2}\s*:\s*\d{2}(?:\s*:\s*\d{2})?(?:\s*[AP]M)?)`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// Extract applies every rule to text. Missing fields stay empty; it never fails.
func Extract(text string) *Fields {
	f := &Fields{}
	for _, r := range rules {
		if v := r.capture(text); v != "" {
			r.set(f, v)
		}
	}

	if f.ComplaintID == "" {
		f.ComplaintID = f.AcknowledgementNumber
	}

	if m := incidentRe.FindStringSubmatch(text); m != nil {
		f.IncidentDate = m[1]
		f.IncidentTime = spaceRe.ReplaceAllString(m[2], "")
	}

	if f.Status == "" {
		switch {
		case strings.Contains(text, string(complaint.StatusUnderProcess)):
			f.Status = string(complaint.StatusUnderProcess)
		case strings.Contains(text, string(complaint.StatusComplaintAccepted)):
			f.Status = string(complaint.StatusComplaintAccepted)
		}
	}

	f.Transactions = Transactions(text)
	f.Actions = Actions(text)
	f.Platform = InferPlatform(f, text)
	return f
}

// parseAmount reads a digit run that may carry thousands separators.
// Unparseable input yields zero.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(stripSeparators(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
