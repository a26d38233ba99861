// Package notify delivers verdict messages by SMS. A delivery outcome never
// changes a verdict or anything that was recorded for it.
package notify

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when no SMS credentials are set and sandbox
// mode is off.
var ErrNotConfigured = errors.New("sms notifier not configured")

// DeliveryError is a provider-side rejection.
type DeliveryError struct {
	Code    int
	Message string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("sms delivery failed (code %d): %s", e.Code, e.Message)
}

// Result describes an accepted message. Simulated is set when no message
// actually left the process.
type Result struct {
	Success     bool   `json:"success"`
	ReferenceID string `json:"reference_id"`
	Simulated   bool   `json:"simulated,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, phone, message string) (Result, error)
}
