package mock

import (
	"context"

	"github.com/fwojciec/pagewalk"
)

var _ pagewalk.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of pagewalk.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) ([]byte, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ pagewalk.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of pagewalk.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
