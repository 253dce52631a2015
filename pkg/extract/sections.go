package extract

import (
	"regexp"
	"strings"

	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
)

const oldTransactionRemark = "Please visit nearby branch"

var (
	txnSectionRe = regexp.MustCompile(`(?s)Debited Transaction Details(.+?)(?:Action Taken by bank|Total Fraudulent Amount)`)
	txnBankRe    = regexp.MustCompile(`([\w\s]+Bank[^\n]*?)\s+(\d+)\s+([\d,]+)\s+(\d{2}/\d{2}/\d{4})`)
	txnLooseRe   = regexp.MustCompile(`(\d{10,})\s+([\d,]+)\s+(\d{2}/\d{2}/\d{4})`)

	actionSectionRe = regexp.MustCompile(`(?s)Action Taken by bank(.+?)(?:Complaint Accepted|Action Taken\s*$|$)`)
	transferRe      = regexp.MustCompile(`Money Transfer to\s+([^\n]+?)\s+(\d+)\s+([\d,]+)`)
	holdRe          = regexp.MustCompile(`Transaction put on hold\s+([^\n]+?)\s+([\d,]+)`)
	oldTxnRe        = regexp.MustCompile(`Old Transaction\s+([^\n]+)`)
)

// Transactions parses the debited-transaction table of a report. Rows naming
// a bank are preferred; when none match, a looser id/amount/date row is used.
func Transactions(text string) []complaint.Transaction {
	txns := []complaint.Transaction{}
	sec := txnSectionRe.FindStringSubmatch(text)
	if sec == nil {
		return txns
	}
	body := sec[1]

	for _, m := range txnBankRe.FindAllStringSubmatch(body, -1) {
		txns = append(txns, complaint.Transaction{
			Bank:            strings.TrimSpace(m[1]),
			AccountNumber:   m[2],
			Amount:          parseAmount(m[3]),
			TransactionDate: m[4],
			Status:          "reported",
		})
	}
	if len(txns) > 0 {
		return txns
	}

	for _, m := range txnLooseRe.FindAllStringSubmatch(body, -1) {
		txns = append(txns, complaint.Transaction{
			TransactionID:   m[1],
			Amount:          parseAmount(m[2]),
			TransactionDate: m[3],
			Status:          "reported",
		})
	}
	return txns
}

// Actions parses the "action taken by bank" section: transfers first, then
// holds, then old-transaction markers.
func Actions(text string) []complaint.Action {
	actions := []complaint.Action{}
	sec := actionSectionRe.FindStringSubmatch(text)
	if sec == nil {
		return actions
	}
	body := sec[1]

	for _, m := range transferRe.FindAllStringSubmatch(body, -1) {
		actions = append(actions, complaint.Action{
			Type:            complaint.ActionMoneyTransfer,
			BeneficiaryBank: strings.TrimSpace(m[1]),
			AccountNumber:   m[2],
			Amount:          parseAmount(m[3]),
			Status:          "transferred",
		})
	}
	for _, m := range holdRe.FindAllStringSubmatch(body, -1) {
		actions = append(actions, complaint.Action{
			Type:   complaint.ActionHold,
			Bank:   strings.TrimSpace(m[1]),
			Amount: parseAmount(m[2]),
			Status: "on_hold",
		})
	}
	for _, m := range oldTxnRe.FindAllStringSubmatch(body, -1) {
		actions = append(actions, complaint.Action{
			Type:    complaint.ActionOldTransaction,
			Bank:    strings.TrimSpace(m[1]),
			Status:  "old_txn",
			Remarks: oldTransactionRemark,
		})
	}
	return actions
}
