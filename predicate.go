package pagewalk

// ContinuationPredicate decides whether pagination likely extends past the
// current page. Implementations must be pure: they may inspect only the
// current page's parse result and page number, not prior run history.
type ContinuationPredicate interface {
	HasNext(result *ParseResult, page int) (bool, error)
}

// ContinuationFunc adapts a plain function to the ContinuationPredicate
// interface.
type ContinuationFunc func(result *ParseResult, page int) (bool, error)

// HasNext calls f(result, page).
func (f ContinuationFunc) HasNext(result *ParseResult, page int) (bool, error) {
	return f(result, page)
}

// WhileRecords returns a predicate that continues for as long as the current
// page yielded at least one record. Useful for APIs that signal the end of
// pagination with an empty page.
func WhileRecords() ContinuationPredicate {
	return ContinuationFunc(func(result *ParseResult, _ int) (bool, error) {
		return len(result.Records) > 0, nil
	})
}

// NextMeta returns a predicate that continues for as long as the parser
// reported a next-page URL under MetaNextURL.
func NextMeta() ContinuationPredicate {
	return ContinuationFunc(func(result *ParseResult, _ int) (bool, error) {
		return result.Meta[MetaNextURL] != "", nil
	})
}
