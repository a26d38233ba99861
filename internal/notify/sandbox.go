package notify

import (
	"context"
	"log/slog"
	"time"
)

// SandboxNotifier logs messages instead of sending them.
type SandboxNotifier struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewSandboxNotifier(logger *slog.Logger) *SandboxNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SandboxNotifier{logger: logger, now: time.Now}
}

func (n *SandboxNotifier) Notify(ctx context.Context, phone, message string) (Result, error) {
	res := simulated(n.now())
	n.logger.InfoContext(ctx, "simulated sms",
		"phone", phone,
		"message", message,
		"reference_id", res.ReferenceID,
	)
	return res, nil
}

// DisabledNotifier rejects every message with ErrNotConfigured.
type DisabledNotifier struct{}

func (DisabledNotifier) Notify(context.Context, string, string) (Result, error) {
	return Result{}, ErrNotConfigured
}
