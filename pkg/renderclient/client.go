// Package renderclient is the client for the external markdown-rendering
// service: an opaque HTTP endpoint that takes a URL and returns the wire
// envelope {url, status, content, latency_ms}. The core pipeline only
// consumes this shape.
package renderclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/directorycat/catalog-pipeline/internal/resilience"
)

const defaultBaseURL = "https://render.internal.example.com/v1"

// Client renders a single URL to markdown via the remote service.
type Client interface {
	Render(ctx context.Context, url string) (*Envelope, error)
}

// renderRequest is the body for POST /render.
type renderRequest struct {
	URL string `json:"url"`
}

// Envelope is the JSON wrapper the fetch service returns, named for the
// glossary's "markdown envelope".
type Envelope struct {
	URL       string `json:"url"`
	Status    int    `json:"status"`
	Content   string `json:"content"`
	LatencyMS int64  `json:"latency_ms"`
}

// APIError describes a non-2xx response from the render service. Render
// returns it wrapped in a resilience.TransientError or PermanentError,
// classified by resilience.IsTransientHTTPStatus.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("render service: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) { c.baseURL = url }
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a render-service client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Render(ctx context.Context, url string) (*Envelope, error) {
	buf, err := json.Marshal(renderRequest{URL: url})
	if err != nil {
		return nil, eris.Wrap(err, "marshal render request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(buf))
	if err != nil {
		return nil, eris.Wrap(err, "create render request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "execute render request"), 0)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "read render response body"), resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(data)}
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(apiErr, resp.StatusCode)
		}
		return nil, resilience.NewPermanentError(apiErr, resp.StatusCode)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, resilience.NewPermanentError(eris.Wrap(err, "decode render response"), resp.StatusCode)
	}
	return &env, nil
}
