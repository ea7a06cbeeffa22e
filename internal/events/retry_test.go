package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// flakySender fails its first `failures` sends
type flakySender struct {
	failures int
	calls    int
}

func (s *flakySender) Send(_ context.Context, _ Message) error {
	s.calls++
	if s.calls <= s.failures {
		return errors.New("connection refused")
	}
	return nil
}

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		Attempts:   attempts,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
		Multiplier: 2,
	}
}

func TestRetryMailSender(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		attempts  int
		wantErr   bool
		wantCalls int
	}{
		{name: "first try", failures: 0, attempts: 3, wantCalls: 1},
		{name: "succeeds after retries", failures: 2, attempts: 3, wantCalls: 3},
		{name: "gives up", failures: 5, attempts: 3, wantErr: true, wantCalls: 3},
		{name: "zero attempts sends once", failures: 1, attempts: 0, wantErr: true, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &flakySender{failures: tt.failures}
			sender := &RetryMailSender{Next: next, Config: fastRetry(tt.attempts)}

			err := sender.Send(context.Background(), Message{To: "catalog@example.com"})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, next.calls)
		})
	}
}

func TestRetryMailSender_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	next := &flakySender{failures: 10}
	sender := &RetryMailSender{Next: next, Config: DefaultRetryConfig()}

	err := sender.Send(ctx, Message{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, next.calls)
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Equal(t, 3, cfg.Attempts)
	assert.LessOrEqual(t, cfg.BaseDelay, cfg.MaxDelay)
}
