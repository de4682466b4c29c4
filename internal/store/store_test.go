package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directorycat/catalog-pipeline/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func stripeRecords() model.PageRecords {
	return model.PageRecords{
		Company: model.Company{
			Slug: "stripe", Name: "Stripe", SourceURL: "https://www.ycombinator.com/companies/stripe",
			Status: model.StatusActive, TeamSize: 7000,
		},
		Founders: []model.Founder{
			{ID: "f1", Slug: "stripe", Name: "Patrick Collison", Title: "Founder/CEO"},
			{ID: "f2", Slug: "stripe", Name: "John Collison", Title: "Founder/President"},
		},
		News: []model.NewsItem{
			{Slug: "stripe", URL: "https://example.com/news/1", Title: "News 1"},
		},
		Jobs: []model.Job{
			{Slug: "stripe", URL: "https://stripe.com/jobs/1001", Title: "Software Engineer"},
		},
		Links: []model.CompanyLink{
			{Slug: "stripe", URL: "http://stripe.com", Classification: model.LinkOther, FounderID: "f1"},
		},
		Meetings: nil,
	}
}

func TestQueue_EnqueueIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	n1, err := s.Enqueue(ctx, []string{"https://www.ycombinator.com/companies/stripe"})
	require.NoError(t, err)
	assert.Equal(t, 1, n1)

	n2, err := s.Enqueue(ctx, []string{"https://www.ycombinator.com/companies/stripe"})
	require.NoError(t, err)
	assert.Equal(t, 0, n2, "re-enqueuing an existing URL must be a no-op")

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)
}

func TestQueue_StateTransitions(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	const url = "https://www.ycombinator.com/companies/stripe"

	_, err := s.Enqueue(ctx, []string{url})
	require.NoError(t, err)

	toFetch, err := s.NextToFetch(ctx, 10)
	require.NoError(t, err)
	assert.Contains(t, toFetch, url)

	require.NoError(t, s.MarkFetched(ctx, url, 200, 42, "# Stripe"))

	toParse, err := s.NextToParse(ctx, 10)
	require.NoError(t, err)
	assert.Contains(t, toParse, url)

	pd, err := s.PageData(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "# Stripe", pd.Markdown)

	require.NoError(t, s.WriteParsed(ctx, url, nil, stripeRecords()))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 0, stats.Fetched)
	assert.Equal(t, 1, stats.Parsed)
}

func TestQueue_MarkFailed(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	const url = "https://www.ycombinator.com/companies/stripe"

	_, err := s.Enqueue(ctx, []string{url})
	require.NoError(t, err)
	require.NoError(t, s.MarkFailed(ctx, url, assertErr{"404 not found"}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)

	_, err = s.PageData(ctx, url)
	assert.Error(t, err, "a permanently failed fetch must leave no page_data row")
}

type assertErr struct{ msg string }

func (e assertErr) Error() string { return e.msg }

// TestWriteParsed_Idempotence covers invariant 6: running process twice on
// the same inputs yields the same rows (truncate-by-slug then reinsert).
func TestWriteParsed_Idempotence(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	const url = "https://www.ycombinator.com/companies/stripe"

	_, err := s.Enqueue(ctx, []string{url})
	require.NoError(t, err)
	require.NoError(t, s.MarkFetched(ctx, url, 200, 1, "# Stripe"))

	rec := stripeRecords()
	require.NoError(t, s.WriteParsed(ctx, url, nil, rec))
	require.NoError(t, s.WriteParsed(ctx, url, nil, rec))

	rows, err := s.Overview(ctx, "", "", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "stripe", rows[0].Slug)
}

func TestWriteParsed_NoSlugIsSchemaViolation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	const url = "https://www.ycombinator.com/companies/stripe"

	_, err := s.Enqueue(ctx, []string{url})
	require.NoError(t, err)
	require.NoError(t, s.MarkFetched(ctx, url, 200, 1, "# Stripe"))

	rec := stripeRecords()
	rec.Company.Slug = ""
	err = s.WriteParsed(ctx, url, nil, rec)
	require.Error(t, err)
}

func TestOverview_FiltersByStatusAndBatch(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, rec := range []model.PageRecords{
		{Company: model.Company{Slug: "a", Name: "A", Status: model.StatusActive, BatchSeason: "Summer", BatchYear: 2020, SourceURL: "https://x/a"}},
		{Company: model.Company{Slug: "b", Name: "B", Status: model.StatusInactive, BatchSeason: "Winter", BatchYear: 2021, SourceURL: "https://x/b"}},
	} {
		url := rec.Company.SourceURL
		_, err := s.Enqueue(ctx, []string{url})
		require.NoError(t, err)
		require.NoError(t, s.MarkFetched(ctx, url, 200, 1, "# "+rec.Company.Name))
		require.NoError(t, s.WriteParsed(ctx, url, nil, rec))
	}

	rows, err := s.Overview(ctx, "Active", "", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].Slug)

	rows, err = s.Overview(ctx, "", "Winter", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "b", rows[0].Slug)
}
