package repository

import (
	"context"
	"log/slog"
	"sync"

	"github.com/wakala/fraudguard/internal/domain"
	"github.com/wakala/fraudguard/internal/metrics"
)

// degrade logs and counts a backing-store failure that is being absorbed.
func degrade(ctx context.Context, logger *slog.Logger, m *metrics.Metrics, store, op string, err error) {
	m.IncrementStoreFallback(store, op)
	if logger != nil {
		logger.WarnContext(ctx, "backing store unavailable, using in-memory fallback",
			"store", store,
			"op", op,
			"error", err,
		)
	}
}

// FallbackHistory writes every transaction to the in-process list and, when
// configured, to a backing store. Reads prefer the backing store and fall back
// to the in-process list when it fails.
//
// Writes the backing store missed are held per card and replayed, in order,
// before the next write or read for that card. Until a replay succeeds they
// are appended to the backing store's rows so Query never loses them.
type FallbackHistory struct {
	primary HistoryStore
	local   *MemoryHistory
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string][]domain.Transaction
}

// NewFallbackHistory wraps primary, which may be nil for memory-only mode.
func NewFallbackHistory(primary HistoryStore, local *MemoryHistory, m *metrics.Metrics, logger *slog.Logger) *FallbackHistory {
	return &FallbackHistory{
		primary: primary,
		local:   local,
		metrics: m,
		logger:  logger,
		pending: make(map[string][]domain.Transaction),
	}
}

func (h *FallbackHistory) Append(ctx context.Context, txn domain.Transaction) error {
	if h.primary != nil {
		h.mu.Lock()
		if !h.replayLocked(ctx, txn.CardType) {
			h.pending[txn.CardType] = append(h.pending[txn.CardType], txn)
		} else if err := h.primary.Append(ctx, txn); err != nil {
			degrade(ctx, h.logger, h.metrics, "history", "append", err)
			h.pending[txn.CardType] = append(h.pending[txn.CardType], txn)
		}
		h.mu.Unlock()
	}
	return h.local.Append(ctx, txn)
}

func (h *FallbackHistory) Query(ctx context.Context, cardType string) ([]domain.Transaction, error) {
	if h.primary != nil {
		h.mu.Lock()
		defer h.mu.Unlock()

		h.replayLocked(ctx, cardType)
		txns, err := h.primary.Query(ctx, cardType)
		if err == nil {
			return append(txns, h.pending[cardType]...), nil
		}
		degrade(ctx, h.logger, h.metrics, "history", "query", err)
	}
	return h.local.Query(ctx, cardType)
}

// replayLocked pushes the card's missed writes to the backing store and
// reports whether none remain. h.mu must be held.
func (h *FallbackHistory) replayLocked(ctx context.Context, cardType string) bool {
	queue := h.pending[cardType]
	for len(queue) > 0 {
		if err := h.primary.Append(ctx, queue[0]); err != nil {
			degrade(ctx, h.logger, h.metrics, "history", "replay", err)
			h.pending[cardType] = queue
			return false
		}
		queue = queue[1:]
	}
	delete(h.pending, cardType)
	return true
}

// All returns the in-process list only, i.e. what this process has recorded.
func (h *FallbackHistory) All(ctx context.Context) ([]domain.Transaction, error) {
	return h.local.All(ctx)
}

func (h *FallbackHistory) Count(ctx context.Context) (int, error) {
	if h.primary != nil {
		n, err := h.primary.Count(ctx)
		if err == nil {
			h.mu.Lock()
			for _, q := range h.pending {
				n += len(q)
			}
			h.mu.Unlock()
			return n, nil
		}
		degrade(ctx, h.logger, h.metrics, "history", "count", err)
	}
	return h.local.Count(ctx)
}

// FallbackBlacklist treats an account as blacklisted when either the backing
// store or the in-memory set holds it.
type FallbackBlacklist struct {
	primary BlacklistStore
	local   *MemoryBlacklist
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewFallbackBlacklist(primary BlacklistStore, local *MemoryBlacklist, m *metrics.Metrics, logger *slog.Logger) *FallbackBlacklist {
	return &FallbackBlacklist{primary: primary, local: local, metrics: m, logger: logger}
}

func (b *FallbackBlacklist) Contains(ctx context.Context, accountID string) (bool, error) {
	if ok, _ := b.local.Contains(ctx, accountID); ok {
		return true, nil
	}
	if b.primary == nil {
		return false, nil
	}
	ok, err := b.primary.Contains(ctx, accountID)
	if err != nil {
		degrade(ctx, b.logger, b.metrics, "blacklist", "contains", err)
		return false, nil
	}
	return ok, nil
}

// Add records the entry in the backing store, or in memory when there is no
// backing store or it fails.
func (b *FallbackBlacklist) Add(ctx context.Context, e domain.BlacklistEntry) error {
	if b.primary != nil {
		err := b.primary.Add(ctx, e)
		if err == nil {
			return nil
		}
		degrade(ctx, b.logger, b.metrics, "blacklist", "add", err)
	}
	return b.local.Add(ctx, e)
}

// FallbackLocations mirrors every write into memory so reads can fall back to
// the freshest value this process knows. A card whose last Set missed the
// backing store is served from memory until a re-sync succeeds.
type FallbackLocations struct {
	primary LocationStore
	local   *MemoryLocations
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu    sync.Mutex
	stale map[string]struct{}
}

func NewFallbackLocations(primary LocationStore, local *MemoryLocations, m *metrics.Metrics, logger *slog.Logger) *FallbackLocations {
	return &FallbackLocations{
		primary: primary,
		local:   local,
		metrics: m,
		logger:  logger,
		stale:   make(map[string]struct{}),
	}
}

func (l *FallbackLocations) Get(ctx context.Context, cardType string) (string, bool, error) {
	if l.primary != nil && l.resync(ctx, cardType) {
		loc, ok, err := l.primary.Get(ctx, cardType)
		if err == nil {
			return loc, ok, nil
		}
		degrade(ctx, l.logger, l.metrics, "locations", "get", err)
	}
	return l.local.Get(ctx, cardType)
}

func (l *FallbackLocations) Set(ctx context.Context, cardType, location string) error {
	if l.primary != nil {
		if err := l.primary.Set(ctx, cardType, location); err != nil {
			degrade(ctx, l.logger, l.metrics, "locations", "set", err)
			l.mu.Lock()
			l.stale[cardType] = struct{}{}
			l.mu.Unlock()
		} else {
			l.mu.Lock()
			delete(l.stale, cardType)
			l.mu.Unlock()
		}
	}
	return l.local.Set(ctx, cardType, location)
}

// resync writes the in-memory value back to the backing store for a card
// whose last Set failed. It reports whether the backing store is current.
func (l *FallbackLocations) resync(ctx context.Context, cardType string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.stale[cardType]; !ok {
		return true
	}
	loc, ok, _ := l.local.Get(ctx, cardType)
	if !ok {
		delete(l.stale, cardType)
		return true
	}
	if err := l.primary.Set(ctx, cardType, loc); err != nil {
		degrade(ctx, l.logger, l.metrics, "locations", "resync", err)
		return false
	}
	delete(l.stale, cardType)
	return true
}
