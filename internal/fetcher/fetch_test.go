package fetcher

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/directorycat/catalog-pipeline/internal/resilience"
	"github.com/directorycat/catalog-pipeline/internal/store"
	"github.com/directorycat/catalog-pipeline/pkg/renderclient"
)

type fakeClient struct {
	responses []fakeResponse
	calls     int32
}

type fakeResponse struct {
	status int
	env    *renderclient.Envelope
	err    error
}

func (f *fakeClient) Render(ctx context.Context, url string) (*renderclient.Envelope, error) {
	i := int(atomic.AddInt32(&f.calls, 1)) - 1
	r := f.responses[i]
	if r.err != nil {
		return nil, r.err
	}
	return r.env, nil
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := store.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestFetch_RetriesThenSucceeds(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	const url = "https://www.ycombinator.com/companies/stripe"
	_, err := st.Enqueue(ctx, []string{url})
	require.NoError(t, err)

	client := &fakeClient{responses: []fakeResponse{
		{err: resilience.NewTransientError(errors.New("rate limited"), 429)},
		{err: resilience.NewTransientError(errors.New("rate limited"), 429)},
		{env: &renderclient.Envelope{URL: url, Status: 200, Content: "# Stripe", LatencyMS: 10}},
	}}

	f := New(client, st, 10, 5*time.Second)
	f.Fetch(ctx, url)

	data, err := st.PageData(ctx, url)
	require.NoError(t, err)
	require.Equal(t, "# Stripe", data.Markdown)
}
