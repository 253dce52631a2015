package normalize

import (
	"strings"
	"testing"

	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
	"github.com/shopspring/decimal"
)

func TestMobile(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"919876543210", "9876543210"},
		{"+91 98765-43210", "9876543210"},
		{"9876543210", "9876543210"},
		{"0091 9876543210", "9876543210"},
		{"98765", "98765"},
		{"n/a", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Mobile(tt.input); got != tt.want {
			t.Errorf("Mobile(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMobile_LastTenDigits(t *testing.T) {
	base := "9876543210"
	for n := 0; n <= 5; n++ {
		in := strings.Repeat("7", n) + base
		if got := Mobile(in); got != base {
			t.Errorf("Mobile(%q) = %q, want %q", in, got, base)
		}
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"", "", true},
		{"2024-03-01", "2024-03-01", true},
		{"2024-03-01 22:45:00", "2024-03-01 22:45:00", true},
		{"05/03/2024", "2024-03-05", true},
		{"15/03/2024 14:30:00", "2024-03-15 14:30:00", true},
		{"not a date", "not a date", false},
	}
	for _, tt := range tests {
		got, ok := Date(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Date(%q) = %q, %v, want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDate_Idempotent(t *testing.T) {
	for _, in := range []string{"2023-12-31", "2024-01-15 09:05:07", "2024-02-29"} {
		once, ok := Date(in)
		if !ok {
			t.Fatalf("Date(%q) failed", in)
		}
		twice, _ := Date(once)
		if once != in || twice != once {
			t.Errorf("Date not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestFallbackDate(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"filed 1-3-2024", "2024-03-01", true},
		{"01/03/2024 10:45PM", "2024-03-01 22:45:00", true},
		{"1-3-2024 9:05 am", "2024-03-01 09:05:00", true},
		{"01/03/2024 12:10 AM", "2024-03-01 00:10:00", true},
		{"31/12/2023 23:59:58", "2023-12-31 23:59:58", true},
		{"45/13/2024", "", false},
		{"no digits", "", false},
	}
	for _, tt := range tests {
		got, ok := fallbackDate(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("fallbackDate(%q) = %q, %v, want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"  Rahul.Kumar@Example.COM ", "rahul.kumar@example.com", true},
		{"rahul@localhost", "rahul@localhost", false},
		{"not-an-email", "not-an-email", false},
		{"", "", true},
	}
	for _, tt := range tests {
		got, ok := Email(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Email(%q) = %q, %v, want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"  MG   Road\t\n", "MG Road"},
		{"Flat #12, Block-B", "Flat 12, Block-B"},
		{"a & b", "a b"},
		{"user@mail (home)", "user@mail (home)"},
		{"Puné", "Puné"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Text(tt.input); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		input string
		want  complaint.Category
	}{
		{"upi fraud", complaint.CategoryUPIFraud},
		{"DEBIT CARD FRAUD", complaint.CategoryDebitCardFraud},
		{" Phishing ", complaint.CategoryPhishing},
		{"investment scam", "Investment Scam"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Category(tt.input); got != tt.want {
			t.Errorf("Category(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPlatform(t *testing.T) {
	tests := []struct {
		input string
		want  complaint.Platform
	}{
		{"gpay", complaint.PlatformGooglePay},
		{"Phone Pe", complaint.PlatformPhonePe},
		{"NETBANKING", complaint.PlatformNetBanking},
		{"HDFC Bank", "HDFC Bank"},
		{"", complaint.PlatformUnknown},
	}
	for _, tt := range tests {
		if got := Platform(tt.input); got != tt.want {
			t.Errorf("Platform(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		input string
		want  complaint.Status
	}{
		{"fir registered", complaint.StatusFIRRegistered},
		{"UNDER ENQUIRY", complaint.StatusUnderEnquiry},
		{"awaiting bank reply", "awaiting bank reply"},
		{"", complaint.StatusUnderProcess},
	}
	for _, tt := range tests {
		if got := Status(tt.input); got != tt.want {
			t.Errorf("Status(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRecord(t *testing.T) {
	r := complaint.New("c.csv")
	r.IncidentDateTime = "garbled"
	r.ComplaintDateTime = "2024-03-05"
	r.Complainant.Name = "  RAHUL   KUMAR* "
	r.Complainant.Mobile = "+91-98765 43210"
	r.Complainant.Email = "bad-address"
	r.Complainant.Address.District = " Pune "
	r.Crime.SubCategory = "upi fraud"
	r.Platform = "paytm"
	r.Status = ""
	r.Transactions = []complaint.Transaction{{TransactionDate: "2024-03-01"}}

	Record(r)

	if r.IncidentDateTime != "garbled" {
		t.Errorf("IncidentDateTime = %q, want unchanged", r.IncidentDateTime)
	}
	if r.Complainant.Name != "RAHUL KUMAR" {
		t.Errorf("Name = %q", r.Complainant.Name)
	}
	if r.Complainant.Mobile != "9876543210" {
		t.Errorf("Mobile = %q", r.Complainant.Mobile)
	}
	if r.Complainant.Address.District != "Pune" {
		t.Errorf("District = %q", r.Complainant.Address.District)
	}
	if r.Crime.SubCategory != complaint.CategoryUPIFraud {
		t.Errorf("SubCategory = %q", r.Crime.SubCategory)
	}
	if r.Platform != complaint.PlatformPaytm || r.Status != complaint.StatusUnderProcess {
		t.Errorf("Platform/Status = %q/%q", r.Platform, r.Status)
	}
	if r.Transactions[0].TransactionDate != "2024-03-01" {
		t.Errorf("TransactionDate = %q", r.Transactions[0].TransactionDate)
	}
	if len(r.Metadata.Warnings) != 2 {
		t.Errorf("warnings = %v, want date and email warnings", r.Metadata.Warnings)
	}
}

func TestFlatten(t *testing.T) {
	r := complaint.New("r.pdf")
	r.IncidentDateTime = "2024-03-01 22:45:00"
	r.ComplaintDateTime = "2024-03-05"
	r.Complainant.Name = "RAHUL KUMAR"
	r.Complainant.Address.District = "Pune"
	r.Crime.Category = complaint.CategoryOnlineFinancialFraud
	r.Crime.SubCategory = complaint.CategoryUPIFraud
	r.Financial.TotalFraudAmount = decimal.RequireFromString("25000.00")

	Flatten(r)

	if r.DateTime != "2024-03-01 22:45:00" {
		t.Errorf("DateTime = %q, want incident time", r.DateTime)
	}
	if r.ComplainantName != "RAHUL KUMAR" || r.District != "Pune" {
		t.Errorf("name/district = %q/%q", r.ComplainantName, r.District)
	}
	if r.CrimeType != complaint.CategoryUPIFraud {
		t.Errorf("CrimeType = %q, want sub-category", r.CrimeType)
	}
	if !r.AmountLost.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("AmountLost = %s", r.AmountLost)
	}
}

func TestFlatten_FilingTimeAndCategoryFallback(t *testing.T) {
	r := complaint.New("r.pdf")
	r.ComplaintDateTime = "2024-03-05"
	r.Crime.Category = complaint.CategoryPhishing

	Flatten(r)

	if r.DateTime != "2024-03-05" {
		t.Errorf("DateTime = %q, want filing time", r.DateTime)
	}
	if r.CrimeType != complaint.CategoryPhishing {
		t.Errorf("CrimeType = %q, want category", r.CrimeType)
	}
	if !r.AmountLost.IsZero() {
		t.Errorf("AmountLost = %s, want 0", r.AmountLost)
	}
}
