package renderclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directorycat/catalog-pipeline/internal/resilience"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-api-key", WithBaseURL(srv.URL))
}

func TestRender(t *testing.T) {
	tests := []struct {
		name          string
		handler       http.HandlerFunc
		wantContent   string
		wantErr       bool
		wantTransient bool
		wantPermanent bool
	}{
		{
			name: "happy path",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/render", r.URL.Path)
				assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

				var req renderRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "https://www.ycombinator.com/companies/stripe", req.URL)

				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(Envelope{
					URL: req.URL, Status: 200, Content: "# Stripe", LatencyMS: 42,
				})
			},
			wantContent: "# Stripe",
		},
		{
			name: "not found is permanent",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`not found`))
			},
			wantErr:       true,
			wantPermanent: true,
		},
		{
			name: "rate limited is transient",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`slow down`))
			},
			wantErr:       true,
			wantTransient: true,
		},
		{
			name: "server error is transient",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(`bad gateway`))
			},
			wantErr:       true,
			wantTransient: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, tt.handler)
			env, err := c.Render(context.Background(), "https://www.ycombinator.com/companies/stripe")

			if tt.wantErr {
				require.Error(t, err)
				if tt.wantTransient {
					assert.True(t, resilience.IsTransient(err))
				}
				if tt.wantPermanent {
					var perr *resilience.PermanentError
					assert.ErrorAs(t, err, &perr)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantContent, env.Content)
		})
	}
}
