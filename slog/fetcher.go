// Package slog provides logging decorators for pagewalk capability
// interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagewalk"
)

// Ensure Fetcher implements pagewalk.Fetcher.
var _ pagewalk.Fetcher = (*Fetcher)(nil)

// Fetcher wraps a pagewalk.Fetcher with request logging.
type Fetcher struct {
	next   pagewalk.Fetcher
	logger *slog.Logger
}

// NewFetcher creates a new logging Fetcher.
func NewFetcher(next pagewalk.Fetcher, logger *slog.Logger) *Fetcher {
	return &Fetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher, logging duration and outcome.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	begin := time.Now()
	body, err := f.next.Fetch(ctx, url)
	if err != nil {
		f.logger.Warn("fetch",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	f.logger.Debug("fetch",
		"url", url,
		"duration", time.Since(begin),
		"bytes", len(body),
	)
	return body, nil
}

// Close delegates to the wrapped fetcher.
func (f *Fetcher) Close() error {
	return f.next.Close()
}
