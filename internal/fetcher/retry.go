package fetcher

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/directorycat/catalog-pipeline/internal/resilience"
)

// retrySchedule is C6's fixed backoff for a single URL: three attempts
// total, starting at 2s and doubling up to an 8s cap, with jitter so a
// batch of simultaneously-failing fetches doesn't retry in lockstep.
type retrySchedule struct {
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	multiplier     float64
}

var defaultRetrySchedule = retrySchedule{
	maxAttempts:    3,
	initialBackoff: 2 * time.Second,
	maxBackoff:     8 * time.Second,
	multiplier:     2.0,
}

// renderWithRetry runs render (one attempt at the render service, already
// wrapped in the circuit breaker by the caller) until it succeeds, the
// schedule is exhausted, or the error is permanent. Context cancellation
// stops retries immediately, same as the teacher's Do/DoVal.
func renderWithRetry[T any](ctx context.Context, sched retrySchedule, render func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < sched.maxAttempts; attempt++ {
		val, err := render(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, lastErr
		}
		if !resilience.IsTransient(lastErr) {
			return zero, lastErr
		}
		if attempt >= sched.maxAttempts-1 {
			break
		}

		timer := time.NewTimer(computeBackoff(attempt, sched))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}

	return zero, lastErr
}

func computeBackoff(attempt int, sched retrySchedule) time.Duration {
	delay := float64(sched.initialBackoff) * math.Pow(sched.multiplier, float64(attempt))
	if delay > float64(sched.maxBackoff) {
		delay = float64(sched.maxBackoff)
	}

	const jitterFraction = 0.25
	jitterRange := delay * jitterFraction
	delay += (rand.Float64()*2 - 1) * jitterRange
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}
