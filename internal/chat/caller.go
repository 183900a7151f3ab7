package chat

import (
	"context"
	"time"

	"snapai/internal/logging"
)

// DefaultMaxAttempts bounds the automatic retry budget.
const DefaultMaxAttempts = 3

// retryBaseDelay is multiplied by the failed attempt's 1-based index, so the
// waits run 3s, 6s, 9s, ...
const retryBaseDelay = 3 * time.Second

// ResilientCaller retries a Transport call while the failure is classified
// as rate-limited, waiting attempt_index * 3s between attempts. Any other
// failure kind surfaces immediately. Calls are stateless and independent:
// concurrent calls share no retry counter.
type ResilientCaller struct {
	transport   Transport
	maxAttempts int
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewResilientCaller wraps the transport with the default attempt budget.
func NewResilientCaller(transport Transport) *ResilientCaller {
	return &ResilientCaller{
		transport:   transport,
		maxAttempts: DefaultMaxAttempts,
		sleep:       sleepContext,
	}
}

// WithMaxAttempts overrides the attempt budget.
func (c *ResilientCaller) WithMaxAttempts(n int) *ResilientCaller {
	if n > 0 {
		c.maxAttempts = n
	}
	return c
}

// Call attempts the request up to the attempt budget. Rate-limit failures
// wait then retry; auth/content/unknown failures surface immediately as a
// *CallError. The inter-attempt wait honors ctx, so an abandoned caller
// stops waiting; the caller is responsible for discarding results that
// arrive after its view is gone.
func (c *ResilientCaller) Call(ctx context.Context, payload string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		result, err := c.transport.Generate(ctx, payload)
		if err == nil {
			return result, nil
		}
		lastErr = err

		kind := Classify(err)
		logging.ChatWarn("attempt %d/%d failed (%s): %v", attempt, c.maxAttempts, kind, err)
		if kind != RateLimited {
			return "", &CallError{Kind: kind, Err: err}
		}
		if attempt == c.maxAttempts {
			break
		}

		wait := time.Duration(attempt) * retryBaseDelay
		logging.Chat("rate limited, retrying in %v", wait)
		if err := c.sleep(ctx, wait); err != nil {
			return "", &CallError{Kind: RateLimited, Err: err}
		}
	}
	return "", &CallError{Kind: RateLimited, Err: lastErr}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
