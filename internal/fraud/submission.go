package fraud

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wakala/fraudguard/internal/domain"
)

// Submission is a transaction as received from a caller. Amount holds the raw
// text of the number so that parsing and validation happen in one place.
type Submission struct {
	Amount                 string
	Currency               string
	Location               string
	CardType               string
	RecipientAccountNumber string
	SenderAccountNumber    string
	TransactionID          string
	Phone                  string
	ClientIP               string
}

// ParseSubmission validates sub and builds the unevaluated Transaction
// received at now. An empty phone falls back to defaultPhone.
func ParseSubmission(sub Submission, now time.Time, defaultPhone string) (domain.Transaction, error) {
	amount, err := parseAmount(sub.Amount)
	if err != nil {
		return domain.Transaction{}, err
	}
	if strings.TrimSpace(sub.TransactionID) == "" {
		return domain.Transaction{}, invalid("transaction_id", "is required")
	}
	if strings.TrimSpace(sub.CardType) == "" {
		return domain.Transaction{}, invalid("card_type", "is required")
	}

	phone := sub.Phone
	if phone == "" {
		phone = defaultPhone
	}

	return domain.Transaction{
		TransactionID:          sub.TransactionID,
		Amount:                 amount,
		Currency:               sub.Currency,
		Location:               sub.Location,
		CardType:               sub.CardType,
		RecipientAccountNumber: sub.RecipientAccountNumber,
		SenderAccountNumber:    sub.SenderAccountNumber,
		ClientIP:               sub.ClientIP,
		Phone:                  phone,
		Timestamp:              now,
		FraudReasons:           []string{},
	}, nil
}

func parseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalid("amount", "is required")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, invalid("amount", "must be a number")
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, invalid("amount", "must be a finite number")
	}
	return f, nil
}
