package goquery

import "github.com/fwojciec/pagewalk"

var _ pagewalk.ContinuationPredicate = (*NextLinkPredicate)(nil)

// NextLinkPredicate decides continuation from the pagination signals the
// parsers in this package report. A page with an explicit next link
// continues; a page with pagination markup but no next link is the last
// page; a page without any pagination markup defaults to continuing and
// leaves termination to the engine's empty-page budget.
type NextLinkPredicate struct{}

// NewNextLinkPredicate creates a new NextLinkPredicate.
func NewNextLinkPredicate() *NextLinkPredicate {
	return &NextLinkPredicate{}
}

// HasNext reports whether pagination likely extends past the current page.
func (p *NextLinkPredicate) HasNext(result *pagewalk.ParseResult, _ int) (bool, error) {
	if result.Meta[pagewalk.MetaNextURL] != "" {
		return true, nil
	}
	if result.Meta[MetaPagination] == "true" {
		return false, nil
	}
	return true, nil
}
