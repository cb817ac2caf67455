package outbound

import (
	"errors"
	"fmt"
	"time"
)

// Terminal send failures surfaced to REST callers.
var (
	// ErrChannelNotFound means the target channel could not be resolved.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrPermissionDenied means the bot lacks send permission in the channel.
	ErrPermissionDenied = errors.New("missing send permission")
	// ErrRateLimited means the platform kept rate limiting past the retry budget.
	ErrRateLimited = errors.New("rate limited")
	// ErrGatewayUnavailable means transport to the gateway kept failing past
	// the retry budget.
	ErrGatewayUnavailable = errors.New("gateway unavailable")
)

// RateLimitError is the transient rate-limit signal from a single send
// attempt, carrying the platform's retry-after duration. The pipeline
// retries these internally; callers only ever see ErrRateLimited.
type RateLimitError struct {
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}
