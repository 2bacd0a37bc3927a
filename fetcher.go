package pagewalk

import "context"

// Fetcher retrieves raw content from URLs. Implementations perform exactly
// one request per call; all retry and backoff policy is owned by the crawl
// engine, never by the Fetcher.
type Fetcher interface {
	// Fetch performs one request and returns the raw response body.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) ([]byte, error)

	// Close releases any resources held by the Fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter provides per-domain rate limiting. The engine, when
// configured with one, waits on the request host before every fetch attempt.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
