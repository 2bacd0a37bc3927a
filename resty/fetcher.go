// Package resty provides a go-resty-based implementation of
// pagewalk.Fetcher. Compared to the plain net/http fetcher it brings a
// cookie jar and automatic response decompression, which some paginated
// sites require to keep a session across pages.
package resty

import (
	"context"
	"time"

	"github.com/fwojciec/pagewalk"
	"github.com/go-resty/resty/v2"
)

// DefaultFetchTimeout is the default timeout for requests.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements pagewalk.Fetcher at compile time.
var _ pagewalk.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves raw page content using a shared resty client.
type Fetcher struct {
	client *resty.Client
}

// Option configures a Fetcher.
type Option func(*resty.Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

// WithHeaders sets headers applied to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *resty.Client) {
		c.SetHeaders(headers)
	}
}

// NewFetcher creates a new resty-based Fetcher. The client's own retry
// machinery is disabled: all retry and backoff policy belongs to the crawl
// engine.
func NewFetcher(opts ...Option) *Fetcher {
	client := resty.New().
		SetTimeout(DefaultFetchTimeout).
		SetRetryCount(0)
	for _, opt := range opts {
		opt(client)
	}
	return &Fetcher{client: client}
}

// Fetch retrieves the raw content from the given URL. Non-2xx responses are
// reported as EUNAVAILABLE errors so the engine can apply its retry policy.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, pagewalk.Errorf(pagewalk.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode(), url)
	}
	return resp.Body(), nil
}

// Close releases resources held by the underlying client.
func (f *Fetcher) Close() error {
	f.client.GetClient().CloseIdleConnections()
	return nil
}
