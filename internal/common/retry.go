package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/timetable/internal/service"
)

var (
	// ErrRateLimit marks a feed that asked the client to slow down.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries is returned once every attempt has failed. The last
	// attempt's error stays in the chain.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// Retry defaults used when RetryOptions leaves a field unset.
const (
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 200 * time.Millisecond
	DefaultRetryMaxDelay = 10 * time.Second
	DefaultRetryFactor   = 2.0
)

func retryDefaults(opts service.RetryOptions) service.RetryOptions {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultRetryAttempts
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = DefaultRetryDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = DefaultRetryMaxDelay
	}
	if opts.Multiplier < 1 {
		opts.Multiplier = DefaultRetryFactor
	}
	return opts
}

// Backoff is the wait before the attempt following attempt (1-based).
// Rate-limited failures wait the full MaxDelay.
func Backoff(opts service.RetryOptions, attempt int, err error) time.Duration {
	opts = retryDefaults(opts)
	if errors.Is(err, ErrRateLimit) {
		return opts.MaxDelay
	}
	delay := float64(opts.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= opts.Multiplier
		if delay >= float64(opts.MaxDelay) {
			return opts.MaxDelay
		}
	}
	return time.Duration(delay)
}

// WithRetry runs fetch until it succeeds, fails with an error IsRetryable
// rejects, or runs out of attempts. name labels the feed in log lines.
func WithRetry(ctx context.Context, name string, opts service.RetryOptions, fetch func() error) error {
	opts = retryDefaults(opts)

	for attempt := 1; ; attempt++ {
		err := fetch()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt >= opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, attempt, err)
		}

		delay := Backoff(opts, attempt, err)
		slog.Warn("Fetch failed, retrying",
			"source", name,
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", delay,
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
