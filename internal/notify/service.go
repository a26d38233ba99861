package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wakala/fraudguard/internal/domain"
	"github.com/wakala/fraudguard/internal/metrics"
)

// Outcome labels for the notifications counter.
const (
	OutcomeSuccess   = "success"
	OutcomeSimulated = "simulated"
	OutcomeFailure   = "failure"
)

// DefaultTimeout bounds a single delivery when none is configured.
const DefaultTimeout = 10 * time.Second

// Service wraps a Notifier with a per-call timeout, metrics and logging.
type Service struct {
	notifier Notifier
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewService(n Notifier, timeout time.Duration, m *metrics.Metrics, logger *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{notifier: n, timeout: timeout, metrics: m, logger: logger}
}

// Send delivers message to phone. Failures are logged and counted, and
// returned so a direct caller can report them.
func (s *Service) Send(ctx context.Context, phone, message string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.notifier.Notify(ctx, phone, message)
	if err != nil {
		s.metrics.IncrementNotification(OutcomeFailure)
		attrs := []any{"phone", phone, "error", err}
		var derr *DeliveryError
		if errors.As(err, &derr) {
			attrs = append(attrs, "code", derr.Code)
		}
		s.logger.ErrorContext(ctx, "sms delivery failed", attrs...)
		return Result{}, err
	}

	outcome := OutcomeSuccess
	if res.Simulated {
		outcome = OutcomeSimulated
	}
	s.metrics.IncrementNotification(outcome)
	s.logger.InfoContext(ctx, "sms sent",
		"phone", phone,
		"reference_id", res.ReferenceID,
		"simulated", res.Simulated,
	)
	return res, nil
}

// NotifyVerdict sends the verdict message for txn to the phone stored on it.
func (s *Service) NotifyVerdict(ctx context.Context, txn domain.Transaction) (Result, error) {
	return s.Send(ctx, txn.Phone, FormatVerdictMessage(txn))
}
