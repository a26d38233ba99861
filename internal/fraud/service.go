package fraud

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wakala/fraudguard/internal/domain"
	"github.com/wakala/fraudguard/internal/metrics"
	"github.com/wakala/fraudguard/internal/repository"
)

// Service evaluates submissions against the stores and records the outcome.
type Service struct {
	rules     *Rules
	history   repository.HistoryStore
	blacklist repository.BlacklistStore
	locations repository.LocationStore

	cards      *KeyedMutex
	recipients *KeyedMutex

	now          func() time.Time
	defaultPhone string
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for verdicts and degraded commits.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics records verdicts and evaluation time on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock replaces time.Now as the source of receipt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithDefaultPhone sets the phone stored on submissions that omit one.
func WithDefaultPhone(phone string) Option {
	return func(s *Service) {
		s.defaultPhone = phone
	}
}

// NewService builds a Service over the given stores. Without options it logs
// to slog.Default and records no metrics.
func NewService(
	rules *Rules,
	history repository.HistoryStore,
	blacklist repository.BlacklistStore,
	locations repository.LocationStore,
	opts ...Option,
) *Service {
	s := &Service{
		rules:      rules,
		history:    history,
		blacklist:  blacklist,
		locations:  locations,
		cards:      NewKeyedMutex(),
		recipients: NewKeyedMutex(),
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates, evaluates and records one transaction. Invalid input
// yields a *ValidationError; store failures that cannot be absorbed yield
// an error wrapping ErrInternal and leave nothing recorded.
func (s *Service) Submit(ctx context.Context, sub Submission) (domain.Transaction, error) {
	start := time.Now()

	txn, err := ParseSubmission(sub, s.now(), s.defaultPhone)
	if err != nil {
		return domain.Transaction{}, err
	}

	// Card before recipient, everywhere.
	unlockCard := s.cards.Lock(txn.CardType)
	defer unlockCard()
	unlockRecipient := s.recipients.Lock(txn.RecipientAccountNumber)
	defer unlockRecipient()

	sig, err := s.gatherSignals(ctx, txn)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("gather signals: %w: %w", ErrInternal, err)
	}

	txn, verdict := s.rules.Evaluate(txn, sig)

	if err := s.commit(ctx, txn, verdict, sig); err != nil {
		return domain.Transaction{}, err
	}

	elapsed := time.Since(start)
	s.metrics.ObserveVerdict(verdict.Anomalous, verdict.Rules, elapsed)
	s.logger.InfoContext(ctx, "transaction evaluated",
		"transaction_id", txn.TransactionID,
		"card_type", txn.CardType,
		"anomalous", verdict.Anomalous,
		"reasons", verdict.Reasons,
		"duration_ms", elapsed.Milliseconds(),
	)
	return txn, nil
}

func (s *Service) gatherSignals(ctx context.Context, txn domain.Transaction) (Signals, error) {
	var sig Signals
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		history, err := s.history.Query(ctx, txn.CardType)
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}
		sig.History = history
		return nil
	})

	g.Go(func() error {
		listed, err := s.blacklist.Contains(ctx, txn.RecipientAccountNumber)
		if err != nil {
			return fmt.Errorf("check blacklist: %w", err)
		}
		sig.RecipientBlacklisted = listed
		return nil
	})

	g.Go(func() error {
		loc, ok, err := s.locations.Get(ctx, txn.CardType)
		if err != nil {
			return fmt.Errorf("get last location: %w", err)
		}
		if ok {
			sig.LastKnownLocation = loc
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Signals{}, err
	}
	return sig, nil
}

// commit applies the side effects of a verdict. The history append comes
// first: if it fails nothing else is touched.
func (s *Service) commit(ctx context.Context, txn domain.Transaction, v Verdict, sig Signals) error {
	if err := s.history.Append(ctx, txn); err != nil {
		return fmt.Errorf("append history: %w: %w", ErrInternal, err)
	}

	if !v.Anomalous {
		if err := s.locations.Set(ctx, txn.CardType, txn.Location); err != nil {
			s.logger.ErrorContext(ctx, "failed to update last known location",
				"card_type", txn.CardType,
				"error", err,
			)
		}
		return nil
	}

	if sig.RecipientBlacklisted {
		return nil
	}
	entry := domain.BlacklistEntry{
		Type:      domain.BlacklistTypeAccount,
		Value:     txn.RecipientAccountNumber,
		Reason:    v.Reasons,
		Timestamp: txn.Timestamp,
	}
	if err := s.blacklist.Add(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to blacklist recipient",
			"recipient", txn.RecipientAccountNumber,
			"error", err,
		)
	}
	return nil
}

// Transactions returns every transaction this process has recorded, oldest
// first.
func (s *Service) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	txns, err := s.history.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w: %w", ErrInternal, err)
	}
	return txns, nil
}

// Latest returns the most recently recorded transaction, or nil if there is
// none.
func (s *Service) Latest(ctx context.Context) (*domain.Transaction, error) {
	txns, err := s.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, nil
	}
	last := txns[len(txns)-1]
	return &last, nil
}
