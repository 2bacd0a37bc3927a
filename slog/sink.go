package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagewalk"
)

// Ensure Sink implements pagewalk.Sink.
var _ pagewalk.Sink = (*Sink)(nil)

// Sink wraps a pagewalk.Sink with batch logging.
type Sink struct {
	next   pagewalk.Sink
	logger *slog.Logger
}

// NewSink creates a new logging Sink.
func NewSink(next pagewalk.Sink, logger *slog.Logger) *Sink {
	return &Sink{next: next, logger: logger}
}

// Store delegates to the wrapped sink, logging batch size and outcome.
func (s *Sink) Store(ctx context.Context, batch []*pagewalk.PageResult, label string) error {
	records := 0
	for _, page := range batch {
		records += len(page.Records)
	}

	begin := time.Now()
	err := s.next.Store(ctx, batch, label)
	if err != nil {
		s.logger.Error("store batch",
			"label", label,
			"pages", len(batch),
			"records", records,
			"duration", time.Since(begin),
			"err", err,
		)
		return err
	}
	s.logger.Info("store batch",
		"label", label,
		"pages", len(batch),
		"records", records,
		"duration", time.Since(begin),
	)
	return nil
}
