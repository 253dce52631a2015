// Package normalize rewrites complaint fields into their standard forms.
// Every transform is field-local and deterministic.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	fallbackDateRe = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`)
	fallbackTimeRe = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})(?::(\d{2}))?\s*([AP]M)?`)

	nonDigitRe   = regexp.MustCompile(`\D`)
	emailShapeRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.,@()]`)
)

// Date rewrites s as YYYY-MM-DD, or YYYY-MM-DD HH:MM:SS when it carries a
// non-midnight time. Day-first is assumed for ambiguous numeric dates.
// The second return is false when s could not be read; s is then returned
// unchanged. An empty s is returned as is.
func Date(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if t, err := dateparse.ParseIn(s, time.UTC, dateparse.PreferMonthFirst(false)); err == nil {
		return formatDate(t), true
	}
	if out, ok := fallbackDate(s); ok {
		return out, true
	}
	return s, false
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(complaint.DateLayout)
	}
	return t.Format(complaint.DateTimeLayout)
}

// fallbackDate reads a D/M/Y or D-M-Y date with an optional H:M[:S] time.
func fallbackDate(s string) (string, bool) {
	loc := fallbackDateRe.FindStringSubmatchIndex(s)
	if loc == nil {
		return "", false
	}
	day, _ := strconv.Atoi(s[loc[2]:loc[3]])
	month, _ := strconv.Atoi(s[loc[4]:loc[5]])
	year, _ := strconv.Atoi(s[loc[6]:loc[7]])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)

	tm := fallbackTimeRe.FindStringSubmatch(s[loc[1]:])
	if tm == nil {
		return date, true
	}
	hour, _ := strconv.Atoi(tm[1])
	minute, _ := strconv.Atoi(tm[2])
	second := 0
	if tm[3] != "" {
		second, _ = strconv.Atoi(tm[3])
	}
	switch strings.ToUpper(tm[4]) {
	case "PM":
		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 || second > 59 {
		return date, true
	}
	return fmt.Sprintf("%s %02d:%02d:%02d", date, hour, minute, second), true
}

// Mobile keeps only digits, and only the last 10 when there are more.
func Mobile(s string) string {
	digits := nonDigitRe.ReplaceAllString(s, "")
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}

// Email lowercases and trims s. The second return reports whether the
// result has a local@domain.tld shape; malformed addresses are still returned.
func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", true
	}
	return s, emailShapeRe.MatchString(s)
}

// Text composes s to NFC, drops characters outside letters, digits, spaces
// and -.,@()_ then collapses whitespace runs.
func Text(s string) string {
	if s == "" {
		return ""
	}
	s, _, _ = transform.String(norm.NFC, s)
	s = disallowedRe.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
