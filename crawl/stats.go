package crawl

import (
	"fmt"
	"strings"
	"time"
)

// Stats holds the aggregate statistics of one crawl run. It is owned
// exclusively by the Engine for the duration of the run and never shared
// across concurrent runs.
type Stats struct {
	PagesCrawled int       `json:"pagesCrawled"`
	TotalRecords int       `json:"totalRecords"`
	Errors       int       `json:"errors"`
	StartedAt    time.Time `json:"startedAt"`
	EndedAt      time.Time `json:"endedAt"`
}

// Duration returns the elapsed run time. It is zero until the run completes.
func (s *Stats) Duration() time.Duration {
	if s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// Summary renders a human-readable report of the run. It is a read-only
// projection and has no effect on crawl state.
func (s *Stats) Summary() string {
	d := s.Duration()
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var b strings.Builder
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "crawl statistics")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "started:  %s\n", s.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "ended:    %s\n", s.EndedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "duration: %dh %dm %ds\n", hours, minutes, seconds)
	fmt.Fprintf(&b, "pages crawled: %d\n", s.PagesCrawled)
	fmt.Fprintf(&b, "total records: %d\n", s.TotalRecords)
	fmt.Fprintf(&b, "errors: %d\n", s.Errors)
	fmt.Fprint(&b, rule)
	return b.String()
}
