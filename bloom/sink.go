package bloom

import (
	"context"

	"github.com/fwojciec/pagewalk"
)

// Compile-time interface verification.
var _ pagewalk.Sink = (*DedupSink)(nil)

// DedupSink decorates a Sink with cross-batch record deduplication: records
// whose content hash was already stored in an earlier batch are dropped
// before delegating. Paginated sites commonly repeat trailing items across
// page boundaries; this keeps each item once.
//
// The filter is probabilistic, so a small fraction of genuinely new records
// may be dropped as false positives; size the filter accordingly.
type DedupSink struct {
	next pagewalk.Sink
	seen *Filter
}

// NewDedupSink creates a DedupSink sized for n expected records with the
// given false positive rate.
func NewDedupSink(next pagewalk.Sink, n uint, fpRate float64) *DedupSink {
	return &DedupSink{
		next: next,
		seen: NewFilter(n, fpRate),
	}
}

// Store filters already-seen records out of the batch and stores the rest.
// Page results are preserved even when all their records were duplicates,
// so batch page accounting stays intact.
func (s *DedupSink) Store(ctx context.Context, batch []*pagewalk.PageResult, label string) error {
	filtered := make([]*pagewalk.PageResult, 0, len(batch))
	for _, page := range batch {
		var records []pagewalk.Record
		for _, rec := range page.Records {
			if s.seen.Test(rec.Hash) {
				continue
			}
			s.seen.Add(rec.Hash)
			records = append(records, rec)
		}
		copied := *page
		copied.Records = records
		filtered = append(filtered, &copied)
	}
	return s.next.Store(ctx, filtered, label)
}
