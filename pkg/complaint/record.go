// Package complaint defines the canonical complaint record every input file is
// mapped into, plus the per-file and per-batch result shapes built from it.
package complaint

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency of every financial amount.
const DefaultCurrency = "INR"

// Date layouts used by normalized date fields.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

func init() {
	// Amounts are JSON numbers in every document built from these types.
	decimal.MarshalJSONWithoutQuotes = true
}

// Record is the canonical complaint. Text fields use the empty string for
// absence; every field is always serialized.
type Record struct {
	ComplaintID           string `json:"complaint_id"`
	AcknowledgementNumber string `json:"acknowledgement_number"`

	DateTime          string `json:"date_time"`
	IncidentDateTime  string `json:"incident_datetime"`
	ComplaintDateTime string `json:"complaint_datetime"`

	ComplainantName string          `json:"complainant_name"`
	District        string          `json:"district"`
	CrimeType       Category        `json:"crime_type"`
	Platform        Platform        `json:"platform"`
	AmountLost      decimal.Decimal `json:"amount_lost"`
	Status          Status          `json:"status"`

	Complainant  Complainant   `json:"complainant_details"`
	Crime        CrimeDetails  `json:"crime_details"`
	Financial    Financial     `json:"financial_details"`
	Transactions []Transaction `json:"transactions"`
	Actions      []Action      `json:"actions_taken"`

	SourceFile string   `json:"source_file"`
	Metadata   Metadata `json:"metadata"`
}

// Complainant holds the filing party's contact details.
type Complainant struct {
	Name    string  `json:"name"`
	Mobile  string  `json:"mobile"`
	Email   string  `json:"email"`
	Address Address `json:"address"`
}

// Address is the complainant's postal address as filed.
type Address struct {
	Street        string `json:"street"`
	HouseNo       string `json:"house_no"`
	Colony        string `json:"colony"`
	VillageTown   string `json:"village_town"`
	Pincode       string `json:"pincode"`
	PoliceStation string `json:"police_station"`
	District      string `json:"district"`
	State         string `json:"state"`
}

// CrimeDetails describes the reported offence.
type CrimeDetails struct {
	ComplaintType string   `json:"complaint_type"`
	Category      Category `json:"category"`
	SubCategory   Category `json:"sub_category"`
	Description   string   `json:"description"`
}

// Financial carries the total reported loss.
type Financial struct {
	TotalFraudAmount decimal.Decimal `json:"total_fraud_amount"`
	Currency         string          `json:"currency"`
}

// Transaction is one debited transaction listed in a report.
// Bank-style rows fill Bank and AccountNumber; looser rows fill TransactionID.
type Transaction struct {
	Bank            string          `json:"bank"`
	AccountNumber   string          `json:"account_number"`
	TransactionID   string          `json:"transaction_id"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate string          `json:"transaction_date"`
	Status          string          `json:"status"`
}

// ActionType is the kind of action a bank reported against a transaction.
type ActionType string

const (
	ActionMoneyTransfer  ActionType = "Money Transfer"
	ActionHold           ActionType = "Transaction Hold"
	ActionOldTransaction ActionType = "Old Transaction"
)

// Action is one bank action from the "action taken" section of a report.
type Action struct {
	Type            ActionType      `json:"action_type"`
	BeneficiaryBank string          `json:"beneficiary_bank"`
	Bank            string          `json:"bank"`
	AccountNumber   string          `json:"account_number"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	Remarks         string          `json:"remarks,omitempty"`
}

// Metadata records processing results for a record.
type Metadata struct {
	ProcessingTimestamp string           `json:"processing_timestamp"`
	DataQualityScore    float64          `json:"data_quality_score"`
	ValidationStatus    ValidationStatus `json:"validation_status"`
	IsDuplicate         bool             `json:"is_duplicate"`
	Warnings            []string         `json:"validation_warnings,omitempty"`
	RunID               string           `json:"run_id,omitempty"`
}

// New returns a fully shaped record with canonical defaults.
func New(sourceFile string) *Record {
	return &Record{
		Status:       StatusUnderProcess,
		Financial:    Financial{Currency: DefaultCurrency},
		Transactions: []Transaction{},
		Actions:      []Action{},
		SourceFile:   sourceFile,
	}
}

// Warn appends a non-fatal warning to the record's metadata.
func (r *Record) Warn(msg string) {
	r.Metadata.Warnings = append(r.Metadata.Warnings, msg)
}

// Stamp finalizes the processing timestamp.
func (r *Record) Stamp(now time.Time) {
	r.Metadata.ProcessingTimestamp = now.Format(time.RFC3339)
}
