package pagewalk

// MetaNextURL is the conventional ParseResult.Meta key under which parsers
// report a discovered next-page URL for continuation predicates.
const MetaNextURL = "next_url"

// ParseResult holds the structured content extracted from one page.
type ParseResult struct {
	// Records are the extracted items, possibly none.
	Records []Record

	// RawSize is the size in bytes of the raw page content.
	RawSize int

	// Meta carries parser-specific signals about the page, such as a
	// discovered next-page URL. Continuation predicates may inspect it.
	Meta map[string]string
}

// PageParser extracts structured records from raw page content.
// Implementations must be pure: no retained state, no side effects,
// identical input yields identical output.
type PageParser interface {
	Parse(content []byte) (*ParseResult, error)
}
