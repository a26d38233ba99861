package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wakala/fraudguard/internal/domain"
)

var historyColumns = []string{
	"transaction_id", "amount", "currency", "location", "card_type",
	"recipient_account_number", "sender_account_number", "client_ip", "timestamp",
}

// ParseHistoryCSV parses a seed history export.
//
// Expected header (column order is free, extra columns are ignored):
//
//	transaction_id,amount,currency,location,card_type,recipient_account_number,sender_account_number,client_ip,timestamp
//
// Rows are returned in file order with an empty verdict.
func ParseHistoryCSV(r io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range historyColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var txns []domain.Transaction
	lineNum := 1

	for {
		lineNum++
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		field := func(name string) string {
			return strings.TrimSpace(row[col[name]])
		}

		amount, err := decimal.NewFromString(field("amount"))
		if err != nil {
			return nil, fmt.Errorf("line %d amount: %w", lineNum, err)
		}

		ts, err := time.Parse(time.RFC3339, field("timestamp"))
		if err != nil {
			ts, err = time.Parse("2006-01-02 15:04:05", field("timestamp"))
			if err != nil {
				return nil, fmt.Errorf("line %d timestamp: %w", lineNum, err)
			}
		}

		cardType := field("card_type")
		if cardType == "" {
			return nil, fmt.Errorf("line %d: card_type is empty", lineNum)
		}

		txns = append(txns, domain.Transaction{
			TransactionID:          field("transaction_id"),
			Amount:                 amount.InexactFloat64(),
			Currency:               field("currency"),
			Location:               field("location"),
			CardType:               cardType,
			RecipientAccountNumber: field("recipient_account_number"),
			SenderAccountNumber:    field("sender_account_number"),
			ClientIP:               field("client_ip"),
			Timestamp:              ts,
			FraudReasons:           []string{},
		})
	}

	return txns, nil
}
