package crawl

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/fwojciec/pagewalk"
)

// Recognized page-number placeholder tokens, checked in order.
var placeholders = []string{"{page}", "%d"}

// ValidateTemplate checks that a URL template can be resolved for every page
// number. It fails fast on malformed templates: unknown {...} placeholders,
// stray printf verbs, and strings that do not parse as absolute URLs.
func ValidateTemplate(template string) error {
	if template == "" {
		return pagewalk.Errorf(pagewalk.EINVALID, "url template required")
	}

	probe := template
	for _, token := range placeholders {
		probe = strings.ReplaceAll(probe, token, "1")
	}

	// Any braces left after substitution mean an unresolvable placeholder.
	if strings.ContainsAny(probe, "{}") {
		return pagewalk.Errorf(pagewalk.EINVALID, "unresolvable placeholder in template %q", template)
	}
	if strings.Contains(probe, "%") {
		return pagewalk.Errorf(pagewalk.EINVALID, "unresolvable printf verb in template %q", template)
	}
	if strings.Count(template, "%d") > 1 {
		return pagewalk.Errorf(pagewalk.EINVALID, "template %q has more than one %%d placeholder", template)
	}

	u, err := url.Parse(probe)
	if err != nil {
		return pagewalk.Errorf(pagewalk.EINVALID, "invalid url template %q: %v", template, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return pagewalk.Errorf(pagewalk.EINVALID, "url template %q must be absolute", template)
	}
	return nil
}

// ResolveURL produces the concrete URL for a page number. Resolution is
// deterministic and total for any template accepted by ValidateTemplate:
//
//  1. an explicit placeholder token ("{page}" or "%d") is substituted;
//  2. otherwise an existing "page=" query parameter has its value replaced;
//  3. otherwise a "page=<N>" query parameter is appended.
func ResolveURL(template string, page int) string {
	if strings.Contains(template, "{page}") {
		return strings.ReplaceAll(template, "{page}", strconv.Itoa(page))
	}
	if strings.Contains(template, "%d") {
		return fmt.Sprintf(template, page)
	}

	u, err := url.Parse(template)
	if err != nil {
		// ValidateTemplate rejects these at run start; fall back to the
		// literal append the original behavior specifies.
		return template + "?page=" + strconv.Itoa(page)
	}

	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
