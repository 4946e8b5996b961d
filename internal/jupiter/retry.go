package jupiter

import (
	"context"
	"time"
)

// Policy bounds the fresh-quote retry loop. Delays are fixed, not
// exponential: a stale quote needs a new slot, not a growing backoff.
type Policy struct {
	MaxAttempts      int
	StaleDelay       time.Duration
	HTTPFailureDelay time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:      3,
		StaleDelay:       500 * time.Millisecond,
		HTTPFailureDelay: 2 * time.Second,
	}
}

// clock abstracts time for the retry loops so tests run without sleeping.
type clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
