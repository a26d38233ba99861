// Package ingestion loads seed transaction history from disk.
package ingestion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wakala/fraudguard/internal/domain"
)

// LoadHistoryFile reads a seed history file. Files ending in .csv are parsed
// with ParseHistoryCSV; anything else is read as a JSON array of transactions.
func LoadHistoryFile(path string) ([]domain.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		txns, err := ParseHistoryCSV(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return txns, nil
	}

	var txns []domain.Transaction
	if err := json.Unmarshal(data, &txns); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	for i := range txns {
		if txns[i].FraudReasons == nil {
			txns[i].FraudReasons = []string{}
		}
		txns[i].Anomalous = len(txns[i].FraudReasons) > 0
	}
	return txns, nil
}
