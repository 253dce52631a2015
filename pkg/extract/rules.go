package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// lineEnd terminates a capture at the end of the current line.
const lineEnd = `$`

// labelRule describes one label-delimited capture: the label that introduces
// the value, the value's shape, and the labels that may follow it.
type labelRule struct {
	name  string
	label string   // regex fragment matched before the value
	value string   // regex fragment for the value itself
	until []string // optional terminators, each preceded by optional whitespace
	clean func(string) string
	set   func(*Fields, string)
}

// labelRules is evaluated independently for every report; order does not
// affect the outcome.
var labelRules = []labelRule{
	{name: "acknowledgement_number", label: `Acknowledgement Number\s*:\s*`, value: `\d+`,
		set: func(f *Fields, v string) { f.AcknowledgementNumber = v }},
	{name: "complaint_id", label: `(?:Complaint|ID).*?`, value: `\d{10,}`,
		set: func(f *Fields, v string) { f.ComplaintID = v }},
	{name: "complaint_date", label: `Complaint Date\s*`, value: `\d{2}/\d{1,2}/\d{4}`,
		set: func(f *Fields, v string) { f.ComplaintDate = v }},

	{name: "name", label: `Name\s*`, value: `[^\n]+?`, until: []string{`Mobile`, `Email`, `Street`},
		clean: stripEmphasis,
		set:   func(f *Fields, v string) { f.Name = v }},
	{name: "mobile", label: `Mobile\s*`, value: `\d+`,
		set: func(f *Fields, v string) { f.Mobile = v }},
	{name: "email", label: `Email\s*`, value: `[^\s]+@[^\s]+`,
		set: func(f *Fields, v string) { f.Email = v }},

	{name: "street", label: `Street Name\s*`, value: `[^\n]+`,
		set: func(f *Fields, v string) { f.Street = v }},
	{name: "house_no", label: `House No\s*`, value: `[^\n]+?`, until: []string{`Colony`, lineEnd},
		set: func(f *Fields, v string) { f.HouseNo = v }},
	{name: "colony", label: `Colony\s*`, value: `[^\n]+`,
		set: func(f *Fields, v string) { f.Colony = v }},
	{name: "village_town", label: `Village/\s*Town\s*`, value: `[^\n]+`,
		set: func(f *Fields, v string) { f.VillageTown = v }},
	{name: "police_station", label: `Police Station\s*`, value: `[^\n]+`,
		set: func(f *Fields, v string) { f.PoliceStation = v }},
	{name: "district", label: `District\s*`, value: `[^\n]+?`, until: []string{`State`, lineEnd},
		set: func(f *Fields, v string) { f.District = v }},
	{name: "state", label: `State\s*`, value: `[^\n]+`,
		set: func(f *Fields, v string) { f.State = v }},
	{name: "pincode", label: `Pincode\s*`, value: `\d+`,
		set: func(f *Fields, v string) { f.Pincode = v }},

	{name: "complaint_type", label: `Complaint Type\s*:\s*`, value: `[^\n]+`,
		set: func(f *Fields, v string) { f.ComplaintType = v }},
	{name: "category", label: `Category of complaint\s*`, value: `[^\n]+`,
		set: func(f *Fields, v string) { f.Category = v }},
	{name: "sub_category", label: `Sub Category of Complaint\s*`, value: `[^\n]+`,
		set: func(f *Fields, v string) { f.SubCategory = v }},
	{name: "description", label: `Additional Information.*?Content\s*`, value: `[^\n]+`,
		set: func(f *Fields, v string) { f.Description = v }},

	{name: "total_fraud_amount", label: `Total Fraudulent Amount.*?:\s*`, value: `[\d,]+\.?\d*`,
		clean: stripSeparators,
		set:   func(f *Fields, v string) { f.TotalFraudAmount = v }},
	{name: "status", label: `Status\s*[:\-]?\s*`, value: `[^\n]+`,
		set: func(f *Fields, v string) { f.Status = v }},
}

// compiledRule is a labelRule with its expression built.
type compiledRule struct {
	labelRule
	re *regexp.Regexp
}

func compileRules(rules []labelRule) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		var sb strings.Builder
		sb.WriteString(`(?m)`)
		sb.WriteString(r.label)
		sb.WriteString(`(` + r.value + `)`)
		if len(r.until) > 0 {
			alts := make([]string, len(r.until))
			for i, t := range r.until {
				alts[i] = `\s*` + t
			}
			sb.WriteString(`(?:` + strings.Join(alts, `|`) + `)`)
		}
		re, err := regexp.Compile(sb.String())
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.name, err)
		}
		out = append(out, compiledRule{labelRule: r, re: re})
	}
	return out, nil
}

// capture returns the cleaned value for the rule, or "" when absent.
func (r compiledRule) capture(text string) string {
	m := r.re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	v := strings.TrimSpace(m[1])
	if r.clean != nil {
		v = r.clean(v)
	}
	return v
}

var emphasisRe = regexp.MustCompile(`\*+`)

func stripEmphasis(s string) string {
	return strings.TrimSpace(emphasisRe.ReplaceAllString(s, ""))
}

func stripSeparators(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
