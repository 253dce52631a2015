package normalize

import (
	"strings"

	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var categories = map[string]complaint.Category{
	"online financial fraud": complaint.CategoryOnlineFinancialFraud,
	"upi fraud":              complaint.CategoryUPIFraud,
	"cyber fraud":            complaint.CategoryCyberFraud,
	"banking fraud":          complaint.CategoryBankingFraud,
	"card fraud":             complaint.CategoryCardFraud,
	"debit card fraud":       complaint.CategoryDebitCardFraud,
	"credit card fraud":      complaint.CategoryCreditCardFraud,
	"phishing":               complaint.CategoryPhishing,
	"identity theft":         complaint.CategoryIdentityTheft,
	"social media fraud":     complaint.CategorySocialMediaFraud,
}

var platforms = map[string]complaint.Platform{
	"phonepe":     complaint.PlatformPhonePe,
	"phone pe":    complaint.PlatformPhonePe,
	"google pay":  complaint.PlatformGooglePay,
	"googlepay":   complaint.PlatformGooglePay,
	"gpay":        complaint.PlatformGooglePay,
	"paytm":       complaint.PlatformPaytm,
	"amazon pay":  complaint.PlatformAmazonPay,
	"bhim":        complaint.PlatformBHIM,
	"upi":         complaint.PlatformUPI,
	"imps":        complaint.PlatformIMPS,
	"neft":        complaint.PlatformNEFT,
	"rtgs":        complaint.PlatformRTGS,
	"net banking": complaint.PlatformNetBanking,
	"netbanking":  complaint.PlatformNetBanking,
}

var statuses = map[string]complaint.Status{
	"under process":        complaint.StatusUnderProcess,
	"under enquiry":        complaint.StatusUnderEnquiry,
	"under investigation":  complaint.StatusUnderInvestigation,
	"complaint accepted":   complaint.StatusComplaintAccepted,
	"complaint registered": complaint.StatusComplaintRegistered,
	"fir registered":       complaint.StatusFIRRegistered,
	"closed":               complaint.StatusClosed,
	"resolved":             complaint.StatusResolved,
	"pending":              complaint.StatusPending,
}

// Category maps s to its display form. Unknown categories are title-cased.
func Category(s string) complaint.Category {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if c, ok := categories[strings.ToLower(s)]; ok {
		return c
	}
	// A Caser carries state, so one is built per call.
	return complaint.Category(cases.Title(language.English).String(s))
}

// Platform maps s to its display form. Unknown platforms pass through;
// an empty one becomes Unknown.
func Platform(s string) complaint.Platform {
	s = strings.TrimSpace(s)
	if s == "" {
		return complaint.PlatformUnknown
	}
	if p, ok := platforms[strings.ToLower(s)]; ok {
		return p
	}
	return complaint.Platform(s)
}

// Status maps s to its display form. Unknown statuses pass through;
// an empty one becomes Under Process.
func Status(s string) complaint.Status {
	s = strings.TrimSpace(s)
	if s == "" {
		return complaint.StatusUnderProcess
	}
	if st, ok := statuses[strings.ToLower(s)]; ok {
		return st
	}
	return complaint.Status(s)
}
