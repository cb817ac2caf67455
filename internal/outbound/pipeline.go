// Package outbound delivers validated messages through the gateway session
// with a rate-limit-aware retry discipline.
package outbound

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sglre6355/relaybot/internal/payload"
)

// Defaults for the retry policy.
const (
	DefaultMaxAttempts = 5
	defaultBaseBackoff = 500 * time.Millisecond
)

// Gateway is the send-side surface of the gateway session consumed by the
// pipeline.
type Gateway interface {
	// ResolveChannel verifies the channel exists and is reachable.
	ResolveChannel(ctx context.Context, channelID string) error
	// CanSend reports whether the bot may send messages to the channel.
	CanSend(ctx context.Context, channelID string) (bool, error)
	// Send delivers one message and returns the platform message id.
	// Rate limiting is signalled with *RateLimitError.
	Send(ctx context.Context, channelID string, msg *payload.Message) (string, error)
}

// ticket tracks one in-progress backoff sequence for a rate-limited send.
// It exists only for the duration of a single Send call.
type ticket struct {
	id           string
	attempts     int
	nextEligible time.Time
}

// Pipeline resolves the target channel, checks permissions, and invokes
// the gateway send with bounded retries.
type Pipeline struct {
	gateway     Gateway
	maxAttempts int
	baseBackoff time.Duration

	// sleep is injectable so tests can run retries without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPipeline creates a Pipeline. A non-positive maxAttempts falls back to
// DefaultMaxAttempts.
func NewPipeline(gateway Gateway, maxAttempts int) *Pipeline {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Pipeline{
		gateway:     gateway,
		maxAttempts: maxAttempts,
		baseBackoff: defaultBaseBackoff,
		sleep:       sleepContext,
	}
}

// Send delivers msg to channelID and returns the platform message id.
// Failures map onto ErrChannelNotFound, ErrPermissionDenied,
// ErrRateLimited, and ErrGatewayUnavailable.
func (p *Pipeline) Send(ctx context.Context, channelID string, msg *payload.Message) (string, error) {
	if err := p.gateway.ResolveChannel(ctx, channelID); err != nil {
		return "", fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}

	allowed, err := p.gateway.CanSend(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("permission check for channel %s: %w", channelID, err)
	}
	if !allowed {
		return "", fmt.Errorf("%w: channel %s", ErrPermissionDenied, channelID)
	}

	var tk *ticket
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		messageID, err := p.gateway.Send(ctx, channelID, msg)
		if err == nil {
			slog.Info("delivered message",
				"channel", channelID, "attempt", attempt, "message_id", messageID)
			return messageID, nil
		}
		lastErr = err

		var rl *RateLimitError
		if errors.As(err, &rl) {
			if tk == nil {
				tk = &ticket{id: uuid.NewString()}
			}
			tk.attempts = attempt
			tk.nextEligible = time.Now().Add(rl.RetryAfter)
			slog.Warn("send rate limited",
				"channel", channelID, "attempt", attempt,
				"ticket", tk.id, "retry_after", rl.RetryAfter)
			if attempt == p.maxAttempts {
				break
			}
			if err := p.sleep(ctx, rl.RetryAfter); err != nil {
				return "", err
			}
			continue
		}

		backoff := p.baseBackoff << (attempt - 1)
		slog.Warn("send attempt failed",
			"channel", channelID, "attempt", attempt,
			"backoff", backoff, "error", err)
		if attempt == p.maxAttempts {
			break
		}
		if err := p.sleep(ctx, backoff); err != nil {
			return "", err
		}
	}

	var rl *RateLimitError
	if errors.As(lastErr, &rl) {
		slog.Error("send abandoned after rate-limit budget",
			"channel", channelID, "attempts", p.maxAttempts, "ticket", tk.id)
		return "", fmt.Errorf("%w after %d attempts", ErrRateLimited, p.maxAttempts)
	}

	slog.Error("send abandoned after transport failures",
		"channel", channelID, "attempts", p.maxAttempts, "error", lastErr)
	return "", fmt.Errorf("%w after %d attempts: %w", ErrGatewayUnavailable, p.maxAttempts, lastErr)
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
