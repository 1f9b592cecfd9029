package services

import "errors"

// Sentinel failures shared across the ACARS services. Handlers map these to
// HTTP statuses; everything else is a 500.
var (
	ErrPilotNotFound = errors.New("pilot not found")
	ErrBlacklisted   = errors.New("account is blacklisted")
)

// ValidationError is a business-rule rejection carrying a client-facing
// message and optional structured context (remaining repair hours etc).
type ValidationError struct {
	Message string
	Extra   map[string]any
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, extra map[string]any) *ValidationError {
	return &ValidationError{Message: message, Extra: extra}
}
