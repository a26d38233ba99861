package repository

import (
	"context"
	"errors"

	"github.com/wakala/fraudguard/internal/domain"
)

// ErrStoreUnavailable is wrapped by every backing-store failure.
var ErrStoreUnavailable = errors.New("store unavailable")

// HistoryStore is the append-only record of evaluated transactions. Query must
// observe every Append that returned before it was called.
type HistoryStore interface {
	Append(ctx context.Context, txn domain.Transaction) error
	// Query returns the transactions for cardType in insertion order.
	Query(ctx context.Context, cardType string) ([]domain.Transaction, error)
	// All returns every recorded transaction in insertion order.
	All(ctx context.Context) ([]domain.Transaction, error)
	Count(ctx context.Context) (int, error)
}

// BlacklistStore is the set of flagged recipient accounts. Adding an account
// that is already present has no observable effect on Contains.
type BlacklistStore interface {
	Contains(ctx context.Context, accountID string) (bool, error)
	Add(ctx context.Context, entry domain.BlacklistEntry) error
}

// LocationStore keeps the last accepted location per card type.
type LocationStore interface {
	Get(ctx context.Context, cardType string) (string, bool, error)
	Set(ctx context.Context, cardType, location string) error
}
