// Package crawl provides the paginated-crawl engine. It owns the page
// cursor, the retry/backoff policy, empty-page termination accounting,
// periodic checkpointing, and run statistics, and orchestrates the
// externally supplied Fetcher, PageParser, ContinuationPredicate and Sink.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"time"

	"github.com/fwojciec/pagewalk"
)

// FinalLabel is the batch label for the results flushed at run end,
// distinguishing the last partial batch from periodic checkpoints.
const FinalLabel = "final"

// Termination identifies why a run ended.
type Termination int

const (
	// TerminatedNoContent means the consecutive empty/failed page limit
	// was reached.
	TerminatedNoContent Termination = iota

	// TerminatedLastPage means the continuation predicate reported that
	// no further pages exist.
	TerminatedLastPage

	// TerminatedSafetyLimit means the page cursor exceeded the hard
	// page-count ceiling.
	TerminatedSafetyLimit

	// TerminatedInterrupted means the run was canceled and drained
	// gracefully.
	TerminatedInterrupted
)

// String returns a human-readable name for the termination reason.
func (t Termination) String() string {
	switch t {
	case TerminatedNoContent:
		return "no_content"
	case TerminatedLastPage:
		return "last_page"
	case TerminatedSafetyLimit:
		return "safety_limit"
	case TerminatedInterrupted:
		return "interrupted"
	}
	return "unknown"
}

// Result holds the outcome of one crawl run.
type Result struct {
	// Termination is the reason the run ended.
	Termination Termination

	// LastPage is the page cursor value when the run ended.
	LastPage int

	// Stats are the finalized run statistics.
	Stats Stats
}

// Engine drives a single-stream sequential crawl: one page in flight at a
// time, one delay at a time. It is not safe to share one Engine across
// concurrent runs.
type Engine struct {
	Fetcher   pagewalk.Fetcher
	Parser    pagewalk.PageParser
	Predicate pagewalk.ContinuationPredicate
	Sink      pagewalk.Sink

	// Limiter, if set, is consulted with the request host before every
	// fetch attempt, including retries.
	Limiter pagewalk.DomainLimiter

	// Logger receives retry, flush and termination events. Nil discards.
	Logger *slog.Logger

	Config Config
}

// Run executes the crawl until a terminal condition is reached. The only
// error it returns is a configuration error detected before the first
// fetch; every other failure is resolved within the loop and reflected in
// the result. Cancellation of ctx is cooperative: buffered results are
// flushed before returning.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if e.Fetcher == nil || e.Parser == nil || e.Predicate == nil || e.Sink == nil {
		return nil, pagewalk.Errorf(pagewalk.EINVALID, "engine requires a fetcher, parser, predicate and sink")
	}
	cfg := e.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stats := Stats{StartedAt: time.Now()}
	page := cfg.StartPage
	emptyPages := 0
	var buffer []*pagewalk.PageResult
	var reason Termination

	e.logger().Info("crawl started",
		"template", cfg.URLTemplate,
		"startPage", cfg.StartPage,
		"maxPages", cfg.MaxPages,
	)

	for {
		if ctx.Err() != nil {
			reason = TerminatedInterrupted
			break
		}

		pageURL := ResolveURL(cfg.URLTemplate, page)
		e.logger().Info("fetching page", "page", page, "url", pageURL)

		body, err := e.fetchWithRetry(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				reason = TerminatedInterrupted
				break
			}
			// A failed page counts against the empty budget. No delay
			// and no predicate: move straight to the next page number.
			emptyPages++
			stats.Errors++
			e.logger().Warn("page failed", "page", page, "consecutiveEmpty", emptyPages, "err", err)
			if emptyPages >= cfg.MaxEmptyPages {
				reason = TerminatedNoContent
				break
			}
			page++
			if page > cfg.MaxPages {
				reason = TerminatedSafetyLimit
				break
			}
			continue
		}

		parsed, err := e.Parser.Parse(body)
		if err != nil {
			// Unexpected processing failure: counted as an error but
			// deliberately kept out of the empty-page budget so a
			// transient parsing hiccup cannot end the run.
			stats.Errors++
			e.logger().Error("parse failed", "page", page, "err", err)
			page++
			if page > cfg.MaxPages {
				reason = TerminatedSafetyLimit
				break
			}
			continue
		}

		rawSize := parsed.RawSize
		if rawSize == 0 {
			rawSize = len(body)
		}
		result := &pagewalk.PageResult{
			Page:      page,
			URL:       pageURL,
			RawSize:   rawSize,
			Records:   parsed.Records,
			Success:   true,
			FetchedAt: time.Now(),
		}

		if len(parsed.Records) == 0 {
			emptyPages++
			e.logger().Warn("page yielded no records", "page", page, "consecutiveEmpty", emptyPages)
			if emptyPages >= cfg.MaxEmptyPages {
				// The terminal empty page is kept so the final batch
				// records where the run ran out of content.
				buffer = append(buffer, result)
				reason = TerminatedNoContent
				break
			}
		} else {
			emptyPages = 0
			stats.PagesCrawled++
			stats.TotalRecords += len(parsed.Records)
			buffer = append(buffer, result)
		}

		if page%cfg.CheckpointInterval == 0 && len(buffer) > 0 {
			label := fmt.Sprintf("batch_%d", page/cfg.CheckpointInterval)
			e.flush(ctx, buffer, label, &stats)
			// The buffer is cleared regardless of flush outcome; a
			// failed checkpoint is never re-queued.
			buffer = nil
		}

		hasNext, err := e.Predicate.HasNext(parsed, page)
		if err != nil {
			stats.Errors++
			e.logger().Error("continuation predicate failed", "page", page, "err", err)
			page++
			if page > cfg.MaxPages {
				reason = TerminatedSafetyLimit
				break
			}
			continue
		}
		if !hasNext {
			e.logger().Info("last page reached", "page", page)
			reason = TerminatedLastPage
			break
		}

		if err := sleep(ctx, e.pause()); err != nil {
			reason = TerminatedInterrupted
			break
		}

		page++
		if page > cfg.MaxPages {
			e.logger().Warn("safety page limit reached", "maxPages", cfg.MaxPages)
			reason = TerminatedSafetyLimit
			break
		}
	}

	// Drain even when interrupted: the flush must not be lost to the
	// same cancellation that ended the run.
	e.flush(context.WithoutCancel(ctx), buffer, FinalLabel, &stats)

	stats.EndedAt = time.Now()
	e.logger().Info("crawl finished",
		"reason", reason.String(),
		"lastPage", page,
		"pagesCrawled", stats.PagesCrawled,
		"totalRecords", stats.TotalRecords,
		"errors", stats.Errors,
	)

	return &Result{Termination: reason, LastPage: page, Stats: stats}, nil
}

// fetchWithRetry fetches a URL, retrying up to Config.MaxRetries times with
// exponential backoff. It is a bounded loop, not recursion, so the schedule
// is testable on its own (see BackoffSchedule).
func (e *Engine) fetchWithRetry(ctx context.Context, pageURL string) ([]byte, error) {
	base := e.Config.BackoffBase
	if base == 0 {
		base = DefaultBackoffBase
	}
	delays := BackoffSchedule(base, e.Config.MaxRetries)
	maxAttempts := e.Config.MaxRetries + 1

	var host string
	if e.Limiter != nil {
		if u, err := url.Parse(pageURL); err == nil {
			host = u.Host
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if e.Limiter != nil {
			if err := e.Limiter.Wait(ctx, host); err != nil {
				return nil, err
			}
		}

		body, err := e.Fetcher.Fetch(ctx, pageURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		e.logger().Warn("fetch failed, retrying",
			"url", pageURL,
			"attempt", attempt+1,
			"backoff", delays[attempt],
			"err", err,
		)
		if err := sleep(ctx, delays[attempt]); err != nil {
			return nil, err
		}
	}

	e.logger().Error("fetch failed, retries exhausted", "url", pageURL, "attempts", maxAttempts, "err", lastErr)
	return nil, lastErr
}

// flush stores a batch under the given label. Failures are logged and
// counted but never abort the run.
func (e *Engine) flush(ctx context.Context, batch []*pagewalk.PageResult, label string, stats *Stats) {
	if len(batch) == 0 {
		return
	}
	if err := e.Sink.Store(ctx, batch, label); err != nil {
		stats.Errors++
		e.logger().Error("batch store failed", "label", label, "pages", len(batch), "err", err)
		return
	}
	e.logger().Info("batch stored", "label", label, "pages", len(batch))
}

// pause draws the inter-page delay uniformly from [MinDelay, MaxDelay].
func (e *Engine) pause() time.Duration {
	lo, hi := e.Config.MinDelay, e.Config.MaxDelay
	if span := hi - lo; span > 0 {
		return lo + rand.N(span+1)
	}
	return lo
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}
