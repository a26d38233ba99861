package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wakala/fraudguard/internal/domain"
	"github.com/wakala/fraudguard/internal/geo"
)

func main() {
	rng := rand.New(rand.NewSource(42))
	baseDir := findTestdataDir()
	table := geo.DefaultTable()

	// Seven days of daytime history ending 2026-01-07.
	startDate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	type cardProfile struct {
		cardType string
		home     string
		currency string
		base     float64
		count    int
	}

	profiles := []cardProfile{
		{"visa", "Chennai", "INR", 1200, 12},
		{"mastercard", "Mumbai", "INR", 2500, 10},
		{"amex", "Delhi", "INR", 8000, 8},
		{"rupay", "Bangalore", "INR", 450, 12},
	}

	var allTxns []domain.Transaction

	for _, p := range profiles {
		if _, ok := table.Lookup(p.home); !ok {
			panic("unknown home location " + p.home)
		}

		for i := 1; i <= p.count; i++ {
			// Between 08:00 and 20:59, well clear of the odd-hour window.
			day := rng.Intn(7)
			hour := 8 + rng.Intn(13)
			minute := rng.Intn(60)
			ts := startDate.AddDate(0, 0, day).Add(
				time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute,
			)

			// Within 5% of the card's usual amount.
			jitter := (rng.Float64()*2 - 1) * 0.05
			amount := decimal.NewFromFloat(p.base * (1 + jitter)).Round(2)

			allTxns = append(allTxns, domain.Transaction{
				TransactionID:          fmt.Sprintf("SEED-%s-%03d", strings.ToUpper(p.cardType), i),
				Amount:                 amount.InexactFloat64(),
				Currency:               p.currency,
				Location:               p.home,
				CardType:               p.cardType,
				RecipientAccountNumber: fmt.Sprintf("ACC%07d", rng.Intn(10_000_000)),
				SenderAccountNumber:    fmt.Sprintf("ACC%07d", rng.Intn(10_000_000)),
				ClientIP:               fmt.Sprintf("10.%d.%d.%d", rng.Intn(256), rng.Intn(256), 1+rng.Intn(254)),
				Timestamp:              ts,
				FraudReasons:           []string{},
			})
		}
	}

	// History is read in insertion order, so write it oldest first.
	slices.SortStableFunc(allTxns, func(a, b domain.Transaction) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	writeJSONFile(filepath.Join(baseDir, "transactions.json"), allTxns)
	fmt.Printf("Generated %d transactions -> transactions.json\n", len(allTxns))
}

func writeJSONFile(path string, v any) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		panic(err)
	}
}

func findTestdataDir() string {
	// Look for the testdata directory relative to common locations.
	candidates := []string{
		"testdata",
		"./testdata",
		filepath.Join("..", "..", "testdata"),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	// Fallback.
	return "testdata"
}
