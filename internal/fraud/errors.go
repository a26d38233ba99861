package fraud

import "errors"

// ErrInternal marks a failure that is not the caller's fault. Nothing from the
// failed submission has been recorded when it is returned.
var ErrInternal = errors.New("internal error")

// ValidationError reports a missing or malformed submission field. It is
// returned before any rule runs.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
