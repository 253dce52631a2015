package normalize

import (
	"fmt"

	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
)

// Record normalizes every field of r in place. Values that cannot be
// normalized are kept as found and noted in r's warnings.
func Record(r *complaint.Record) {
	r.IncidentDateTime = date(r, r.IncidentDateTime)
	r.ComplaintDateTime = date(r, r.ComplaintDateTime)

	c := &r.Complainant
	c.Name = Text(c.Name)
	c.Mobile = Mobile(c.Mobile)
	email, ok := Email(c.Email)
	if !ok {
		r.Warn(fmt.Sprintf("email %q is not a valid address", email))
	}
	c.Email = email

	a := &c.Address
	for _, f := range []*string{
		&a.Street, &a.HouseNo, &a.Colony, &a.VillageTown,
		&a.Pincode, &a.PoliceStation, &a.District, &a.State,
	} {
		*f = Text(*f)
	}

	r.Crime.Category = Category(string(r.Crime.Category))
	r.Crime.SubCategory = Category(string(r.Crime.SubCategory))
	r.Platform = Platform(string(r.Platform))
	r.Status = Status(string(r.Status))

	for i := range r.Transactions {
		t := &r.Transactions[i]
		t.TransactionDate = date(r, t.TransactionDate)
	}
}

func date(r *complaint.Record, s string) string {
	out, ok := Date(s)
	if !ok {
		r.Warn(fmt.Sprintf("could not normalize date %q", s))
	}
	return out
}

// Flatten copies nested values up to the top-level accessors. Incident time
// wins over filing time and sub-category wins over category.
func Flatten(r *complaint.Record) {
	switch {
	case r.IncidentDateTime != "":
		r.DateTime = r.IncidentDateTime
	case r.ComplaintDateTime != "":
		r.DateTime = r.ComplaintDateTime
	}
	if r.Complainant.Name != "" {
		r.ComplainantName = r.Complainant.Name
	}
	if d := r.Complainant.Address.District; d != "" {
		r.District = d
	}
	switch {
	case r.Crime.SubCategory != "":
		r.CrimeType = r.Crime.SubCategory
	case r.Crime.Category != "":
		r.CrimeType = r.Crime.Category
	}
	if r.Financial.TotalFraudAmount.IsPositive() {
		r.AmountLost = r.Financial.TotalFraudAmount
	}
}
