package notify

import (
	"strconv"
	"strings"
	"time"

	"github.com/wakala/fraudguard/internal/domain"
)

// FormatVerdictMessage renders the SMS body describing txn's verdict.
func FormatVerdictMessage(txn domain.Transaction) string {
	amount := txn.Currency + " " + strconv.FormatFloat(txn.Amount, 'f', -1, 64)
	ts := txn.Timestamp.UTC().Format(time.RFC3339)

	var b strings.Builder
	if txn.Anomalous {
		b.WriteString("⚠️ FRAUD ALERT!\n")
		b.WriteString("Transaction ID: " + txn.TransactionID + "\n")
		b.WriteString("Amount: " + amount + "\n")
		b.WriteString("Location: " + txn.Location + "\n")
		b.WriteString("Reasons: " + strings.Join(txn.FraudReasons, ", ") + "\n")
		b.WriteString("Time: " + ts + "\n")
		b.WriteString("If this wasn't you, contact us immediately!")
		return b.String()
	}

	b.WriteString("✅ Transaction Approved\n")
	b.WriteString("ID: " + txn.TransactionID + "\n")
	b.WriteString("Amount: " + amount + "\n")
	b.WriteString("Location: " + txn.Location + "\n")
	b.WriteString("Time: " + ts)
	return b.String()
}
