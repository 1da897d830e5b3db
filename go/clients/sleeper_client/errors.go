package sleeper_client

import (
	"errors"
	"fmt"
	"time"

	"github.com/mcdev12/draftpilot/go/clients"
)

var (
	// ErrProviderUnavailable covers network failures and unexpected statuses.
	// Callers retry on the next poll.
	ErrProviderUnavailable = errors.New("draft provider unavailable")
	// ErrRateLimited means the provider asked us to slow down.
	ErrRateLimited = errors.New("draft provider rate limited")
	// ErrInvalidDraftReference means the draft or league id does not exist.
	ErrInvalidDraftReference = errors.New("invalid draft or league reference")
)

// ProviderError wraps a failed provider call with its operation name and
// classification.
type ProviderError struct {
	Op         string
	Kind       error
	RetryAfter time.Duration
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("sleeper %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("sleeper %s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// RetryAfter returns the provider's requested backoff carried by err, if any.
func RetryAfter(err error) time.Duration {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.RetryAfter
	}
	return 0
}

func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	pe := &ProviderError{Op: op, Kind: ErrProviderUnavailable, Err: err}

	var se *clients.StatusError
	if errors.As(err, &se) {
		pe.RetryAfter = se.RetryAfter
	}
	switch {
	case errors.Is(err, clients.ErrRateLimited):
		pe.Kind = ErrRateLimited
	case errors.Is(err, clients.ErrNotFound):
		pe.Kind = ErrInvalidDraftReference
	}
	return pe
}
