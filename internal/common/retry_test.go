package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/timetable/internal/service"
)

var fastRetry = service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}

func TestWithRetry(t *testing.T) {
	unavailable := fmt.Errorf("feed unavailable: %w", ErrFetchFailed)

	tests := []struct {
		name      string
		failures  []error
		wantCalls int
		wantErr   []error
	}{
		{name: "first try", wantCalls: 1},
		{name: "recovers", failures: []error{unavailable}, wantCalls: 2},
		{name: "malformed feed is final", failures: []error{ErrMalformedFeed}, wantCalls: 1, wantErr: []error{ErrMalformedFeed}},
		{
			name:      "gives up keeping the last error",
			failures:  []error{unavailable, unavailable, unavailable},
			wantCalls: 3,
			wantErr:   []error{ErrMaxRetries, ErrFetchFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), "test", fastRetry, func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			if len(tt.wantErr) == 0 {
				require.NoError(t, err)
				return
			}
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	opts := service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour}

	calls := 0
	err := WithRetry(ctx, "test", opts, func() error {
		calls++
		cancel()
		return ErrFetchFailed
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestBackoff(t *testing.T) {
	opts := service.RetryOptions{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}

	tests := []struct {
		name    string
		attempt int
		err     error
		want    time.Duration
	}{
		{name: "first", attempt: 1, err: ErrFetchFailed, want: 100 * time.Millisecond},
		{name: "second", attempt: 2, err: ErrFetchFailed, want: 200 * time.Millisecond},
		{name: "third", attempt: 3, err: ErrFetchFailed, want: 400 * time.Millisecond},
		{name: "capped", attempt: 10, err: ErrFetchFailed, want: time.Second},
		{name: "rate limited", attempt: 1, err: fmt.Errorf("status 429: %w", ErrRateLimit), want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Backoff(opts, tt.attempt, tt.err))
		})
	}
}

func TestBackoff_Defaults(t *testing.T) {
	assert.Equal(t, DefaultRetryDelay, Backoff(service.RetryOptions{}, 1, errors.New("x")))
}
