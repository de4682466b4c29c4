// Package pipeline is C7, the driver: it wires C5 (the queue) through C6
// (the fetcher) to raw-markdown persistence, and C1∘C2∘C3 (lexer, clusterer,
// extractors) through a data-parallel worker pool to structured-row
// persistence via C4. It owns concurrency, cancellation, and the
// fetched/parsed/failed/skipped counters the CLI prints.
package pipeline

import (
	"context"
	"runtime"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/directorycat/catalog-pipeline/internal/extract"
	"github.com/directorycat/catalog-pipeline/internal/fetcher"
	"github.com/directorycat/catalog-pipeline/internal/lexer"
	"github.com/directorycat/catalog-pipeline/internal/resilience"
	"github.com/directorycat/catalog-pipeline/internal/section"
	"github.com/directorycat/catalog-pipeline/internal/store"
)

// Counts is the one-line summary every command prints: {fetched, parsed,
// failed, skipped}.
type Counts struct {
	Fetched int
	Parsed  int
	Failed  int
	Skipped int
}

// Driver owns the store and fetcher for one command invocation and runs the
// scrape and/or process loops described by §A.4/C7. All three modes are
// resumable: each starts by scanning queue state rather than tracking
// progress in memory.
type Driver struct {
	store   *store.Store
	fetcher *fetcher.Fetcher

	chunkSize    int
	parseWorkers int
}

// New builds a Driver. parseWorkers <= 0 defaults to runtime.NumCPU(), sizing
// the CPU-bound parse pool to available hardware threads per §A.5.
func New(st *store.Store, f *fetcher.Fetcher, chunkSize, parseWorkers int) *Driver {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if parseWorkers <= 0 {
		parseWorkers = runtime.NumCPU()
	}
	return &Driver{store: st, fetcher: f, chunkSize: chunkSize, parseWorkers: parseWorkers}
}

// Scrape drains up to n pending URLs (n <= 0 means all) through the fetcher
// and reports how many landed in 'fetched' vs 'failed'. It closes the
// fetcher's notification channel on return, so a Driver is good for exactly
// one Scrape (directly, or via Run).
func (d *Driver) Scrape(ctx context.Context, n int) (Counts, error) {
	before, err := d.store.Stats(ctx)
	if err != nil {
		return Counts{}, err
	}

	claimed, err := d.fetchAll(ctx, n)
	if err != nil {
		return Counts{}, err
	}

	after, err := d.store.Stats(ctx)
	if err != nil {
		return Counts{}, err
	}
	counts := Counts{
		Fetched: (after.Fetched + after.Parsed) - (before.Fetched + before.Parsed),
		Failed:  after.Failed - before.Failed,
	}
	if n > 0 && claimed < n {
		counts.Skipped = n - claimed
	}
	return counts, nil
}

// fetchAll dispatches one fetcher.Fetch task per claimed URL, each bounded
// by the fetcher's own semaphore and adaptive limiter, and closes the
// fetcher once every task has returned.
func (d *Driver) fetchAll(ctx context.Context, n int) (claimed int, err error) {
	urls, err := d.store.NextToFetch(ctx, n)
	if err != nil {
		return 0, err
	}
	defer d.fetcher.Close()

	if len(urls) == 0 {
		return 0, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, url := range urls {
		g.Go(func() error {
			d.fetcher.Fetch(gctx, url)
			return nil
		})
	}
	return len(urls), g.Wait()
}

// Process parses up to n fetched-but-unparsed pages (n <= 0 means all),
// pulling work in chunks of d.chunkSize and parsing each chunk across a
// worker pool sized to d.parseWorkers. Parsing is pure and CPU-bound; no
// task in the pool ever suspends.
func (d *Driver) Process(ctx context.Context, n int) (Counts, error) {
	before, err := d.store.Stats(ctx)
	if err != nil {
		return Counts{}, err
	}

	claimed, err := d.processAll(ctx, n)
	if err != nil {
		return Counts{}, err
	}

	after, err := d.store.Stats(ctx)
	if err != nil {
		return Counts{}, err
	}
	counts := Counts{
		Parsed: after.Parsed - before.Parsed,
		Failed: after.Failed - before.Failed,
	}
	if n > 0 && claimed < n {
		counts.Skipped = n - claimed
	}
	return counts, nil
}

func (d *Driver) processAll(ctx context.Context, n int) (claimed int, err error) {
	remaining := n
	for {
		limit := d.chunkSize
		if remaining > 0 && remaining < limit {
			limit = remaining
		}
		urls, err := d.store.NextToParse(ctx, limit)
		if err != nil {
			return claimed, err
		}
		if len(urls) == 0 {
			return claimed, nil
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(d.parseWorkers)
		for _, url := range urls {
			g.Go(func() error { return d.parseOne(gctx, url) })
		}
		if err := g.Wait(); err != nil {
			return claimed, err
		}

		claimed += len(urls)
		if remaining > 0 {
			remaining -= len(urls)
			if remaining <= 0 {
				return claimed, nil
			}
		}
		if len(urls) < limit {
			// Fewer rows than asked for means the queue is drained.
			return claimed, nil
		}
	}
}

// parseOne runs C1∘C2∘C3 over one page's raw markdown and writes the result
// via C4. A SchemaViolation (no derivable slug) marks the page failed rather
// than aborting the worker pool; any other store error is fatal to the
// Process call, since it indicates the database itself is unhealthy.
func (d *Driver) parseOne(ctx context.Context, url string) error {
	pd, err := d.store.PageData(ctx, url)
	if err != nil {
		zap.L().Error("process: missing page_data", zap.String("url", url), zap.Error(err))
		if markErr := d.store.MarkFailed(ctx, url, err); markErr != nil {
			return eris.Wrapf(markErr, "mark failed for %q after missing page_data", url)
		}
		return nil
	}

	blocks := lexer.Lex(pd.Markdown)
	sections := section.Cluster(blocks)
	rec := extract.Page(url, sections)

	if err := d.store.WriteParsed(ctx, url, sections, rec); err != nil {
		if resilience.IsSchemaViolation(err) {
			zap.L().Error("process: schema violation", zap.String("url", url), zap.Error(err))
			if markErr := d.store.MarkFailed(ctx, url, err); markErr != nil {
				return eris.Wrapf(markErr, "mark failed for %q after schema violation", url)
			}
			return nil
		}
		return eris.Wrapf(err, "write parsed rows for %q", url)
	}
	return nil
}

// Run combines Scrape and Process: the fetch loop and parse loop run
// concurrently, the parse loop waking on every fetch completion notification
// per §A.4's availability coupling, with a final standalone Process pass to
// mop up anything fetched after the notification loop's last wakeup (or left
// over from a prior interrupted run).
func (d *Driver) Run(ctx context.Context, n int) (Counts, error) {
	before, err := d.store.Stats(ctx)
	if err != nil {
		return Counts{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := d.fetchAll(gctx, n)
		return err
	})
	g.Go(func() error {
		for range d.fetcher.Notifications() {
			if _, err := d.processAll(gctx, d.chunkSize); err != nil {
				return err
			}
		}
		return nil
	})
	runErr := g.Wait()

	if _, err := d.processAll(ctx, 0); err != nil && runErr == nil {
		runErr = err
	}

	after, err := d.store.Stats(ctx)
	if err != nil {
		if runErr == nil {
			runErr = err
		}
		return Counts{}, runErr
	}
	counts := Counts{
		Fetched: (after.Fetched + after.Parsed) - (before.Fetched + before.Parsed),
		Parsed:  after.Parsed - before.Parsed,
		Failed:  after.Failed - before.Failed,
	}
	return counts, runErr
}
