// Package trafilatura provides a pagewalk.PageParser that extracts the main
// content of a page, removing boilerplate (nav, footer, sidebar, ads). It
// suits paginated article listings where each page is itself one document.
package trafilatura

import (
	"bytes"

	"github.com/fwojciec/pagewalk"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure ContentParser implements pagewalk.PageParser at compile time.
var _ pagewalk.PageParser = (*ContentParser)(nil)

// ContentParser extracts a page's primary content as a single "content"
// record with "title" and "content" fields. A Converter, if set,
// post-processes the content HTML (e.g., into markdown). Pages without
// extractable main content yield zero records, which feeds the engine's
// empty-page accounting.
type ContentParser struct {
	// Converter post-processes the extracted content HTML. Nil keeps HTML.
	Converter pagewalk.Converter
}

// NewContentParser creates a ContentParser without post-processing.
func NewContentParser() *ContentParser {
	return &ContentParser{}
}

// Parse extracts the main content record from raw HTML.
func (p *ContentParser) Parse(content []byte) (*pagewalk.ParseResult, error) {
	if len(content) == 0 {
		return nil, pagewalk.Errorf(pagewalk.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(bytes.NewReader(content), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	out := &pagewalk.ParseResult{RawSize: len(content)}
	if contentHTML == "" {
		return out, nil
	}

	body := contentHTML
	if p.Converter != nil {
		body, err = p.Converter.Convert(contentHTML)
		if err != nil {
			return nil, err
		}
	}

	out.Records = []pagewalk.Record{
		pagewalk.NewRecord("content", map[string]string{
			"title":   result.Metadata.Title,
			"content": body,
		}),
	}
	return out, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
