package models

import (
	"errors"
	"fmt"
)

// Business-rule sentinels. Handlers translate these to HTTP statuses with
// errors.Is; services return them verbatim so the UI can explain itself.
var (
	ErrNotFound            = errors.New("post not found")
	ErrForbidden           = errors.New("phone does not own this post")
	ErrNotExpired          = errors.New("post has not expired yet")
	ErrQuotaExceeded       = errors.New("free repost quota exceeded")
	ErrUnauthorized        = errors.New("webhook signature verification failed")
	ErrIntentNotFound      = errors.New("payment intent not found")
	ErrDuplicatePaymentRef = errors.New("payment reference already recorded")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Detail)
}

// ProviderError wraps a payment provider rejection. Domain state is never
// mutated when one of these comes back; the caller may retry with a fresh
// charge.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s returned %d: %s", e.Provider, e.StatusCode, e.Body)
}
