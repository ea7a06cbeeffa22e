package events

import (
	"context"
	"time"
)

// RetryConfig configures exponential backoff for mail delivery
type RetryConfig struct {
	Attempts   int           // Total send attempts, including the first
	BaseDelay  time.Duration // Delay before the second attempt
	MaxDelay   time.Duration // Upper bound on any single delay
	Multiplier float64       // Growth factor between delays
}

// DefaultRetryConfig returns the delivery policy used by the command
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:   3,
		BaseDelay:  200 * time.Millisecond,
		MaxDelay:   2 * time.Second,
		Multiplier: 2,
	}
}

// RetryMailSender retries failed sends on Next with exponential backoff.
// It gives up early when ctx is done.
type RetryMailSender struct {
	Next   MailSender
	Config RetryConfig
}

// Send implements MailSender
func (s *RetryMailSender) Send(ctx context.Context, msg Message) error {
	attempts := s.Config.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := s.Config.BaseDelay

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := s.Next.Send(ctx, msg)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * s.Config.Multiplier)
		if delay > s.Config.MaxDelay {
			delay = s.Config.MaxDelay
		}
	}
	return lastErr
}
