// Package etree provides an XML implementation of pagewalk.PageParser for
// paginated feed-style endpoints (RSS channels, Atom feeds, plain XML list
// APIs).
package etree

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/pagewalk"
)

// Ensure FeedParser implements pagewalk.PageParser at compile time.
var _ pagewalk.PageParser = (*FeedParser)(nil)

// FeedParser extracts item elements from an XML page as "item" records.
// Each child element of an item becomes a record field keyed by its tag,
// so <item><title>t</title><link>u</link></item> yields fields
// {"title": "t", "link": "u"}.
type FeedParser struct {
	// ItemTag is the element name holding one record. Default "item"
	// (RSS); Atom feeds use "entry".
	ItemTag string
}

// NewFeedParser creates a FeedParser for RSS-style feeds.
func NewFeedParser() *FeedParser {
	return &FeedParser{ItemTag: "item"}
}

// Parse extracts item records from raw XML.
func (p *FeedParser) Parse(content []byte) (*pagewalk.ParseResult, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return nil, pagewalk.Errorf(pagewalk.EINVALID, "failed to parse XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, pagewalk.Errorf(pagewalk.EINVALID, "empty XML document")
	}

	itemTag := p.ItemTag
	if itemTag == "" {
		itemTag = "item"
	}

	var records []pagewalk.Record
	for _, item := range root.FindElements("//" + itemTag) {
		fields := map[string]string{}
		for _, child := range item.ChildElements() {
			text := strings.TrimSpace(child.Text())
			if text == "" {
				continue
			}
			fields[child.Tag] = text
		}
		if len(fields) == 0 {
			continue
		}
		records = append(records, pagewalk.NewRecord("item", fields))
	}

	meta := map[string]string{}
	if next := nextLink(root); next != "" {
		meta[pagewalk.MetaNextURL] = next
	}

	return &pagewalk.ParseResult{
		Records: records,
		RawSize: len(content),
		Meta:    meta,
	}, nil
}

// nextLink finds an Atom-style <link rel="next" href="..."/> declaration.
func nextLink(root *etree.Element) string {
	for _, link := range root.FindElements("//link") {
		if link.SelectAttrValue("rel", "") != "next" {
			continue
		}
		if href := link.SelectAttrValue("href", ""); href != "" {
			return href
		}
	}
	return ""
}
