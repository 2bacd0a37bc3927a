package mock

import "github.com/fwojciec/pagewalk"

var _ pagewalk.PageParser = (*PageParser)(nil)

// PageParser is a mock implementation of pagewalk.PageParser.
type PageParser struct {
	ParseFn func(content []byte) (*pagewalk.ParseResult, error)
}

func (p *PageParser) Parse(content []byte) (*pagewalk.ParseResult, error) {
	return p.ParseFn(content)
}

var _ pagewalk.ContinuationPredicate = (*ContinuationPredicate)(nil)

// ContinuationPredicate is a mock implementation of
// pagewalk.ContinuationPredicate.
type ContinuationPredicate struct {
	HasNextFn func(result *pagewalk.ParseResult, page int) (bool, error)
}

func (p *ContinuationPredicate) HasNext(result *pagewalk.ParseResult, page int) (bool, error) {
	return p.HasNextFn(result, page)
}

var _ pagewalk.Converter = (*Converter)(nil)

// Converter is a mock implementation of pagewalk.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
