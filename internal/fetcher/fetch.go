// Package fetcher is C6: a bounded-concurrency async client that renders
// each queued URL to markdown and persists the result, retrying transient
// failures with the schedule the driver requires.
package fetcher

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/directorycat/catalog-pipeline/internal/resilience"
	"github.com/directorycat/catalog-pipeline/internal/store"
	"github.com/directorycat/catalog-pipeline/pkg/renderclient"
)

// Result is the outcome of one fetch attempt sequence for a URL, sent on
// the Fetcher's notification channel so the pipeline driver can schedule
// parsing immediately.
type Result struct {
	URL     string
	Failed  bool
	FailErr error
}

// Fetcher bounds concurrency with a counting semaphore sized maxConcurrent
// and a secondary adaptive rate limiter that eases off after a 429 and
// recovers on sustained success.
type Fetcher struct {
	client    renderclient.Client
	store     *store.Store
	sem       *semaphore.Weighted
	adaptive  *AdaptiveLimiter
	breaker   *resilience.CircuitBreaker
	notifyCh  chan Result
	attemptTO time.Duration
}

// New builds a Fetcher bounded to maxConcurrent in-flight requests, each
// capped at attemptTimeout per attempt. A single circuit breaker guards the
// render service across every URL: five consecutive failures (from any
// goroutine) open it for 30s, so a render-service outage fails fast instead
// of letting maxConcurrent attempts pile up against a dead upstream.
func New(client renderclient.Client, st *store.Store, maxConcurrent int, attemptTimeout time.Duration) *Fetcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	if attemptTimeout <= 0 {
		attemptTimeout = 30 * time.Second
	}
	return &Fetcher{
		client:    client,
		store:     st,
		sem:       semaphore.NewWeighted(int64(maxConcurrent)),
		adaptive:  NewAdaptiveLimiter(rateFromConcurrency(maxConcurrent), maxConcurrent),
		breaker:   resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
		notifyCh:  make(chan Result, 64),
		attemptTO: attemptTimeout,
	}
}

// Notifications returns the channel the driver's parse loop polls whenever
// a fetch completes.
func (f *Fetcher) Notifications() <-chan Result {
	return f.notifyCh
}

// Close closes the notification channel. Call once all Fetch calls have
// returned.
func (f *Fetcher) Close() {
	close(f.notifyCh)
}

// Fetch acquires a permit, renders url with retry/backoff, and persists
// the outcome. The permit is always released, on every exit path. On
// shutdown (ctx cancelled) the in-flight attempt is cancelled along with
// ctx, since its context derives from it, rather than running to
// completion; Fetch never starts a new attempt once ctx is done.
func (f *Fetcher) Fetch(ctx context.Context, url string) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		f.emit(Result{URL: url, Failed: true, FailErr: err})
		return
	}
	defer f.sem.Release(1)

	if err := f.adaptive.Wait(ctx); err != nil {
		f.emit(Result{URL: url, Failed: true, FailErr: err})
		return
	}

	env, err := renderWithRetry(ctx, defaultRetrySchedule, func(ctx context.Context) (*renderclient.Envelope, error) {
		return resilience.ExecuteVal(ctx, f.breaker, func(ctx context.Context) (*renderclient.Envelope, error) {
			attemptCtx, cancel := context.WithTimeout(ctx, f.attemptTO)
			defer cancel()

			env, err := f.client.Render(attemptCtx, url)
			if err != nil {
				if isRateLimited(err) {
					f.adaptive.OnRateLimit()
				}
				return nil, err
			}
			f.adaptive.OnSuccess()
			return env, nil
		})
	})

	if err != nil {
		zap.L().Warn("fetch failed permanently", zap.String("url", url), zap.Error(err))
		if markErr := f.store.MarkFailed(ctx, url, err); markErr != nil {
			zap.L().Error("failed to record fetch failure", zap.String("url", url), zap.Error(markErr))
		}
		f.emit(Result{URL: url, Failed: true, FailErr: err})
		return
	}

	if err := f.store.MarkFetched(ctx, url, env.Status, env.LatencyMS, env.Content); err != nil {
		zap.L().Error("failed to persist fetch result", zap.String("url", url), zap.Error(err))
		f.emit(Result{URL: url, Failed: true, FailErr: err})
		return
	}

	f.emit(Result{URL: url})
}

func (f *Fetcher) emit(r Result) {
	select {
	case f.notifyCh <- r:
	default:
		zap.L().Warn("fetch notification dropped, channel full", zap.String("url", r.URL))
	}
}

func isRateLimited(err error) bool {
	var te *resilience.TransientError
	return errors.As(err, &te) && te.StatusCode == 429
}

func rateFromConcurrency(maxConcurrent int) rate.Limit {
	return rate.Limit(maxConcurrent)
}
