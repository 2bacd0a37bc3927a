package mock

import (
	"context"

	"github.com/fwojciec/pagewalk"
)

var _ pagewalk.Sink = (*Sink)(nil)

// Sink is a mock implementation of pagewalk.Sink.
type Sink struct {
	StoreFn func(ctx context.Context, batch []*pagewalk.PageResult, label string) error
}

func (s *Sink) Store(ctx context.Context, batch []*pagewalk.PageResult, label string) error {
	return s.StoreFn(ctx, batch, label)
}
