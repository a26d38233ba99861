package domain

import "time"

// Transaction is one submitted payment event together with the verdict it
// received. It is built once per submission and never mutated after it is
// recorded.
type Transaction struct {
	TransactionID          string    `json:"transaction_id"`
	Amount                 float64   `json:"amount"`
	Currency               string    `json:"currency"`
	Location               string    `json:"location"`
	CardType               string    `json:"card_type"`
	RecipientAccountNumber string    `json:"recipient_account_number"`
	SenderAccountNumber    string    `json:"sender_account_number"`
	ClientIP               string    `json:"client_ip"`
	Phone                  string    `json:"phone,omitempty"`
	Timestamp              time.Time `json:"timestamp"`
	Anomalous              bool      `json:"anomalous"`
	FraudReasons           []string  `json:"fraud_reasons"`
}
