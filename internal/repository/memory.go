package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/wakala/fraudguard/internal/domain"
)

// MemoryHistory keeps transactions in an ordered in-process slice.
type MemoryHistory struct {
	mu   sync.RWMutex
	txns []domain.Transaction
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

func (s *MemoryHistory) Append(_ context.Context, txn domain.Transaction) error {
	txn.FraudReasons = slices.Clone(txn.FraudReasons)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns = append(s.txns, txn)
	return nil
}

// BulkAppend appends txns in order.
func (s *MemoryHistory) BulkAppend(ctx context.Context, txns []domain.Transaction) (int, error) {
	for _, txn := range txns {
		if err := s.Append(ctx, txn); err != nil {
			return 0, err
		}
	}
	return len(txns), nil
}

func (s *MemoryHistory) Query(_ context.Context, cardType string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Transaction{}
	for _, txn := range s.txns {
		if txn.CardType == cardType {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (s *MemoryHistory) All(_ context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Transaction{}, s.txns...), nil
}

func (s *MemoryHistory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txns), nil
}

// MemoryBlacklist is a set of flagged account ids.
type MemoryBlacklist struct {
	mu       sync.RWMutex
	accounts map[string]struct{}
}

// NewMemoryBlacklist returns a set pre-populated with seed.
func NewMemoryBlacklist(seed ...string) *MemoryBlacklist {
	b := &MemoryBlacklist{accounts: make(map[string]struct{}, len(seed))}
	for _, id := range seed {
		b.accounts[id] = struct{}{}
	}
	return b
}

func (b *MemoryBlacklist) Contains(_ context.Context, accountID string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.accounts[accountID]
	return ok, nil
}

func (b *MemoryBlacklist) Add(_ context.Context, e domain.BlacklistEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[e.Value] = struct{}{}
	return nil
}

// MemoryLocations maps card type to its last accepted location.
type MemoryLocations struct {
	mu   sync.RWMutex
	last map[string]string
}

func NewMemoryLocations() *MemoryLocations {
	return &MemoryLocations{last: make(map[string]string)}
}

func (l *MemoryLocations) Get(_ context.Context, cardType string) (string, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	loc, ok := l.last[cardType]
	return loc, ok, nil
}

func (l *MemoryLocations) Set(_ context.Context, cardType, location string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last[cardType] = location
	return nil
}
