package extract

import (
	"regexp"
	"strings"

	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
)

// upiApps are searched in order when the sub-category names UPI.
var upiApps = []struct {
	platform complaint.Platform
	re       *regexp.Regexp
}{
	{complaint.PlatformPhonePe, regexp.MustCompile(`(?i)PhonePe`)},
	{complaint.PlatformGooglePay, regexp.MustCompile(`(?i)Google Pay`)},
	{complaint.PlatformGPay, regexp.MustCompile(`(?i)GPay`)},
	{complaint.PlatformPaytm, regexp.MustCompile(`(?i)Paytm`)},
	{complaint.PlatformAmazonPay, regexp.MustCompile(`(?i)Amazon Pay`)},
	{complaint.PlatformBHIM, regexp.MustCompile(`(?i)BHIM`)},
}

// InferPlatform picks the payment platform for a report. The sub-category
// decides first; then the first transaction's bank, then the first
// transfer's beneficiary bank.
func InferPlatform(f *Fields, text string) complaint.Platform {
	sub := f.SubCategory
	switch {
	case strings.Contains(sub, "UPI"):
		for _, app := range upiApps {
			if app.re.MatchString(text) {
				return app.platform
			}
		}
		return complaint.PlatformUPI
	case strings.Contains(sub, "Card"):
		return complaint.PlatformCard
	case strings.Contains(sub, "Banking"):
		return complaint.PlatformNetBanking
	}

	if len(f.Transactions) > 0 && f.Transactions[0].Bank != "" {
		return complaint.Platform(f.Transactions[0].Bank)
	}
	for _, a := range f.Actions {
		if a.BeneficiaryBank != "" {
			return complaint.Platform(a.BeneficiaryBank)
		}
	}
	return complaint.PlatformUnknown
}
