package pagewalk

import (
	"context"
	"time"
)

// PageResult is the outcome of fetching and parsing one page.
type PageResult struct {
	Page      int       `json:"page"`
	URL       string    `json:"url"`
	RawSize   int       `json:"rawSize"`
	Records   []Record  `json:"records"`
	Success   bool      `json:"success"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Sink durably stores a batch of page results under a label. The engine
// flushes periodic checkpoint batches (labelled by page number) and one
// final batch (labelled "final") at the end of every run. Store failures
// are logged by the engine but never abort a run.
type Sink interface {
	Store(ctx context.Context, batch []*PageResult, label string) error
}

// Converter post-processes extracted content HTML into another textual
// representation (e.g., markdown). Used by content-oriented parsers.
type Converter interface {
	Convert(html string) (string, error)
}
