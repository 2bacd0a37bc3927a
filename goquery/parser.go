// Package goquery provides HTML implementations of pagewalk.PageParser
// using CSS selectors. The parsers also report pagination signals
// (a discovered next-page link) through ParseResult.Meta for use by
// continuation predicates.
package goquery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagewalk"
)

// MetaPagination is set to "true" in ParseResult.Meta when the page carries
// recognizable pagination markup, whether or not a next link was found.
const MetaPagination = "pagination"

// Ensure parsers implement pagewalk.PageParser at compile time.
var (
	_ pagewalk.PageParser = (*LinkParser)(nil)
	_ pagewalk.PageParser = (*ArticleParser)(nil)
)

// LinkParser extracts every anchor on a page as a "link" record with
// "href" and "text" fields. Non-HTTP links (javascript:, mailto:, fragments)
// are skipped.
type LinkParser struct{}

// NewLinkParser creates a new LinkParser.
func NewLinkParser() *LinkParser {
	return &LinkParser{}
}

// Parse extracts link records from raw HTML.
func (p *LinkParser) Parse(content []byte) (*pagewalk.ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, pagewalk.Errorf(pagewalk.EINVALID, "failed to parse HTML: %v", err)
	}

	var records []pagewalk.Record
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		records = append(records, pagewalk.NewRecord("link", map[string]string{
			"href": href,
			"text": strings.TrimSpace(sel.Text()),
		}))
	})

	return &pagewalk.ParseResult{
		Records: records,
		RawSize: len(content),
		Meta:    paginationMeta(doc),
	}, nil
}

// ArticleParser extracts article elements as "article" records. Selectors
// default to the common pattern of an <article> wrapper with an <h2> title
// and a content container.
type ArticleParser struct {
	// ArticleSelector matches article wrappers. Default "article".
	ArticleSelector string
	// TitleSelector matches the title within a wrapper. Default "h2".
	TitleSelector string
	// ContentSelector matches the body within a wrapper. Default ".content".
	ContentSelector string
}

// NewArticleParser creates an ArticleParser with the default selectors.
func NewArticleParser() *ArticleParser {
	return &ArticleParser{
		ArticleSelector: "article",
		TitleSelector:   "h2",
		ContentSelector: ".content",
	}
}

// Parse extracts article records from raw HTML. Wrappers missing either a
// title or content are skipped.
func (p *ArticleParser) Parse(content []byte) (*pagewalk.ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, pagewalk.Errorf(pagewalk.EINVALID, "failed to parse HTML: %v", err)
	}

	var records []pagewalk.Record
	doc.Find(p.ArticleSelector).Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(p.TitleSelector).First().Text())
		body := strings.TrimSpace(sel.Find(p.ContentSelector).First().Text())
		if title == "" || body == "" {
			return
		}
		fields := map[string]string{
			"title":   title,
			"content": body,
		}
		if href, ok := sel.Find(p.TitleSelector + " a").First().Attr("href"); ok {
			fields["url"] = href
		}
		if datetime, ok := sel.Find("time").First().Attr("datetime"); ok {
			fields["date"] = datetime
		}
		records = append(records, pagewalk.NewRecord("article", fields))
	})

	return &pagewalk.ParseResult{
		Records: records,
		RawSize: len(content),
		Meta:    paginationMeta(doc),
	}, nil
}

// paginationMeta inspects a document for pagination markup and a next-page
// link, reporting both through parse metadata.
func paginationMeta(doc *goquery.Document) map[string]string {
	meta := map[string]string{}

	if doc.Find("nav.pagination, .pagination, .pager, ul.page-numbers").Length() > 0 {
		meta[MetaPagination] = "true"
	}

	if href := nextHref(doc); href != "" {
		meta[pagewalk.MetaNextURL] = href
	}

	return meta
}

// nextHref finds the most explicit next-page link on a page, checking
// rel=next declarations first, then conventional class names and labels.
func nextHref(doc *goquery.Document) string {
	selectors := []string{
		`link[rel="next"]`,
		`a[rel="next"]`,
		`a.next`,
		`a.next-page`,
	}
	for _, s := range selectors {
		if href, ok := doc.Find(s).First().Attr("href"); ok && href != "" {
			return href
		}
	}

	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		if text == "next" || text == "next »" || text == "›" || text == "下一页" {
			found, _ = sel.Attr("href")
			return false
		}
		return true
	})
	return found
}

// isNonHTTPLink reports whether an href cannot be fetched over HTTP.
func isNonHTTPLink(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(href, "#")
}
