package crawl

import (
	"time"

	"github.com/fwojciec/pagewalk"
)

// Config holds the immutable parameters of one crawl run.
type Config struct {
	// URLTemplate is the parameterized URL. It may embed a "{page}"
	// placeholder, carry an existing "page=" query parameter, or neither
	// (in which case "page=<N>" is appended). See ResolveURL.
	URLTemplate string

	// StartPage is the first page number to fetch. Must be >= 1.
	StartPage int

	// MinDelay and MaxDelay bound the randomized inter-page delay.
	// Both must be non-negative and MinDelay <= MaxDelay.
	MinDelay time.Duration
	MaxDelay time.Duration

	// MaxRetries is the number of retry attempts per page after the
	// initial fetch fails. Must be >= 0.
	MaxRetries int

	// BackoffBase is the unit for exponential retry backoff: retry
	// attempt k waits BackoffBase * 2^k. Zero means DefaultBackoffBase.
	BackoffBase time.Duration

	// MaxEmptyPages is the number of consecutive empty or failed pages
	// after which the run terminates. Must be >= 1.
	MaxEmptyPages int

	// CheckpointInterval is the number of pages between periodic sink
	// flushes. Must be >= 1.
	CheckpointInterval int

	// MaxPages is a hard upper bound on the page number, independent of
	// content signals. Must be >= StartPage.
	MaxPages int
}

// DefaultConfig returns a Config with the conventional defaults.
// URLTemplate must still be set by the caller.
func DefaultConfig() Config {
	return Config{
		StartPage:          1,
		MinDelay:           1 * time.Second,
		MaxDelay:           3 * time.Second,
		MaxRetries:         3,
		BackoffBase:        DefaultBackoffBase,
		MaxEmptyPages:      3,
		CheckpointInterval: 10,
		MaxPages:           10_000_000,
	}
}

// Validate checks the configuration, including resolvability of the URL
// template. It returns an EINVALID error on the first violation found, so a
// misconfigured run fails before any fetch occurs.
func (c *Config) Validate() error {
	if err := ValidateTemplate(c.URLTemplate); err != nil {
		return err
	}
	if c.StartPage < 1 {
		return pagewalk.Errorf(pagewalk.EINVALID, "start page must be >= 1, got %d", c.StartPage)
	}
	if c.MinDelay < 0 || c.MaxDelay < 0 {
		return pagewalk.Errorf(pagewalk.EINVALID, "delays must be non-negative")
	}
	if c.MinDelay > c.MaxDelay {
		return pagewalk.Errorf(pagewalk.EINVALID, "min delay %s exceeds max delay %s", c.MinDelay, c.MaxDelay)
	}
	if c.MaxRetries < 0 {
		return pagewalk.Errorf(pagewalk.EINVALID, "max retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.BackoffBase < 0 {
		return pagewalk.Errorf(pagewalk.EINVALID, "backoff base must be non-negative")
	}
	if c.MaxEmptyPages < 1 {
		return pagewalk.Errorf(pagewalk.EINVALID, "max empty pages must be >= 1, got %d", c.MaxEmptyPages)
	}
	if c.CheckpointInterval < 1 {
		return pagewalk.Errorf(pagewalk.EINVALID, "checkpoint interval must be >= 1, got %d", c.CheckpointInterval)
	}
	if c.MaxPages < c.StartPage {
		return pagewalk.Errorf(pagewalk.EINVALID, "max pages %d is below start page %d", c.MaxPages, c.StartPage)
	}
	return nil
}
