// Package mapper converts loader and extractor output into complaint records.
package mapper

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
	"github.com/hazyhaar/ncrp-ingest/pkg/extract"
	"github.com/shopspring/decimal"
)

// column binds a record field to the header names that may carry it.
// Aliases are tried in order; the first present non-empty cell wins.
type column struct {
	aliases []string
	set     func(r *complaint.Record, v string)
}

var columns = []column{
	{[]string{"complaint_id", "complaintid", "id", "complaint_number", "ack_no"},
		func(r *complaint.Record, v string) { r.ComplaintID = v }},
	{[]string{"acknowledgement_number", "ack_number", "ack_no"},
		func(r *complaint.Record, v string) { r.AcknowledgementNumber = v }},
	{[]string{"name", "complainant_name", "complainant"},
		func(r *complaint.Record, v string) { r.Complainant.Name = v }},
	{[]string{"mobile", "phone", "contact", "mobile_number"},
		func(r *complaint.Record, v string) { r.Complainant.Mobile = v }},
	{[]string{"email", "email_id", "complainant_email"},
		func(r *complaint.Record, v string) { r.Complainant.Email = v }},
	{[]string{"district"},
		func(r *complaint.Record, v string) { r.Complainant.Address.District = v }},
	{[]string{"state"},
		func(r *complaint.Record, v string) { r.Complainant.Address.State = v }},
	{[]string{"crime_type", "sub_category", "fraud_type"},
		func(r *complaint.Record, v string) { r.Crime.SubCategory = complaint.Category(v) }},
	{[]string{"category", "crime_category"},
		func(r *complaint.Record, v string) { r.Crime.Category = complaint.Category(v) }},
	{[]string{"platform", "payment_platform", "bank"},
		func(r *complaint.Record, v string) { r.Platform = complaint.Platform(v) }},
	{[]string{"amount", "amount_lost", "total_amount", "fraud_amount"},
		setAmount},
	{[]string{"status", "complaint_status"},
		func(r *complaint.Record, v string) { r.Status = complaint.Status(v) }},
	{[]string{"incident_datetime", "incident_date", "date_time", "date"},
		func(r *complaint.Record, v string) { r.IncidentDateTime = v }},
	{[]string{"complaint_datetime", "complaint_date", "filing_date"},
		func(r *complaint.Record, v string) { r.ComplaintDateTime = v }},
	{[]string{"description", "details"},
		func(r *complaint.Record, v string) { r.Crime.Description = v }},
}

// FromRow maps one tabular row into a record. Header names are matched
// case-insensitively. Cells that cannot be read leave the field at its
// default and add a warning.
func FromRow(row map[string]string, source string) *complaint.Record {
	cells := make(map[string]string, len(row))
	for k, v := range row {
		cells[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}

	r := complaint.New(source)
	for _, c := range columns {
		for _, alias := range c.aliases {
			if v := cells[alias]; v != "" {
				c.set(r, v)
				break
			}
		}
	}
	return r
}

func setAmount(r *complaint.Record, v string) {
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
	switch {
	case err != nil:
		r.Warn(fmt.Sprintf("amount %q is not a number", v))
	case d.IsNegative():
		r.Warn(fmt.Sprintf("amount %q is negative", v))
	default:
		r.Financial.TotalFraudAmount = d
	}
}

// FromReport copies extracted report fields into a record.
func FromReport(f *extract.Fields, source string) *complaint.Record {
	r := complaint.New(source)

	r.ComplaintID = f.ComplaintID
	r.AcknowledgementNumber = f.AcknowledgementNumber
	r.IncidentDateTime = f.IncidentDateTime()
	r.ComplaintDateTime = f.ComplaintDate

	r.Complainant = complaint.Complainant{
		Name:   f.Name,
		Mobile: f.Mobile,
		Email:  f.Email,
		Address: complaint.Address{
			Street:        f.Street,
			HouseNo:       f.HouseNo,
			Colony:        f.Colony,
			VillageTown:   f.VillageTown,
			Pincode:       f.Pincode,
			PoliceStation: f.PoliceStation,
			District:      f.District,
			State:         f.State,
		},
	}
	r.Crime = complaint.CrimeDetails{
		ComplaintType: f.ComplaintType,
		Category:      complaint.Category(f.Category),
		SubCategory:   complaint.Category(f.SubCategory),
		Description:   f.Description,
	}

	if f.TotalFraudAmount != "" {
		setAmount(r, f.TotalFraudAmount)
	}
	if f.Status != "" {
		r.Status = complaint.Status(f.Status)
	}
	r.Platform = f.Platform

	if f.Transactions != nil {
		r.Transactions = f.Transactions
	}
	if f.Actions != nil {
		r.Actions = f.Actions
	}
	return r
}
