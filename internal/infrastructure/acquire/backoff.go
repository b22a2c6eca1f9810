package acquire

import (
	"context"
	"time"
)

// BackoffPolicy bounds retries for one acquisition tier: a fixed attempt
// ceiling with the delay multiplying between attempts. The policy is data, so
// tiers share mechanics while tests inject instant retries.
type BackoffPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// DefaultBackoff is the production policy: three attempts, delay doubling.
var DefaultBackoff = BackoffPolicy{
	MaxAttempts: 3,
	BaseDelay:   2 * time.Second,
	Multiplier:  2,
}

// Retry runs attempt until it succeeds or the attempt ceiling is reached,
// sleeping the policy delay between failures. The last error is returned;
// context cancellation cuts the loop short.
func (p BackoffPolicy) Retry(ctx context.Context, attempt func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.BaseDelay
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = attempt()
		if lastErr == nil {
			return nil
		}

		if i == attempts-1 {
			break
		}

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
		delay = time.Duration(float64(delay) * p.Multiplier)
	}

	return lastErr
}
