package crawl

import (
	"context"
	"time"
)

// DefaultBackoffBase is the default unit for exponential retry backoff.
const DefaultBackoffBase = 1 * time.Second

// BackoffSchedule returns the delays applied before each retry attempt:
// attempt k waits base * 2^k, so the default schedule is 1s, 2s, 4s, ...
// A zero base yields an all-zero schedule, which is useful in tests.
func BackoffSchedule(base time.Duration, retries int) []time.Duration {
	if retries <= 0 {
		return nil
	}
	delays := make([]time.Duration, retries)
	for k := range delays {
		delays[k] = base << k
	}
	return delays
}

// sleep waits for d or until the context is canceled, whichever comes first.
// It returns the context error on cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
