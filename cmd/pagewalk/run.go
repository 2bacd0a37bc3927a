package main

import (
	"fmt"

	"github.com/fwojciec/pagewalk"
	"github.com/fwojciec/pagewalk/crawl"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentSources bounds how many profiles crawl at once. Each source
// is still strictly sequential internally: one page in flight at a time.
const maxConcurrentSources = 4

// engineRun pairs a built engine with its cleanup and eventual result.
type engineRun struct {
	name    string
	engine  *crawl.Engine
	cleanup func()
	result  *crawl.Result
}

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	profiles, err := c.profiles()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagewalk.ErrorMessage(err))
		return err
	}

	// Build every engine before starting any crawl so a configuration
	// error in one source fails the whole invocation up front.
	var engines []*engineRun
	cleanupAll := func() {
		for _, er := range engines {
			er.cleanup()
		}
	}
	for _, p := range profiles {
		logger := deps.Logger.With("source", p.Name)
		engine, cleanup, err := p.buildEngine(logger)
		if err == nil {
			err = engine.Config.Validate()
		}
		if err != nil {
			if cleanup != nil {
				cleanup()
			}
			cleanupAll()
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", p.Name, pagewalk.ErrorMessage(err))
			return err
		}
		engines = append(engines, &engineRun{name: p.Name, engine: engine, cleanup: cleanup})
	}

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(maxConcurrentSources)
	for _, er := range engines {
		g.Go(func() error {
			defer er.cleanup()
			result, err := er.engine.Run(ctx)
			er.result = result
			return err
		})
	}
	runErr := g.Wait()

	// A run always ends with a statistics report, whatever the
	// termination reason was.
	for _, er := range engines {
		if er.result == nil {
			continue
		}
		fmt.Fprintf(deps.Stdout, "\n%s (%s)\n%s\n", er.name, er.result.Termination, er.result.Stats.Summary())
	}

	return runErr
}

// profiles assembles the crawl profiles for this invocation: either the
// sources declared in the profile file, or a single source from flags.
func (c *RunCmd) profiles() ([]Profile, error) {
	if c.Profile != "" {
		return LoadProfiles(c.Profile)
	}
	if c.URL == "" {
		return nil, pagewalk.Errorf(pagewalk.EINVALID, "either a URL template or --profile is required")
	}
	retries := c.Retries
	return []Profile{{
		Name:       "default",
		URL:        c.URL,
		Parser:     c.Parser,
		Sink:       c.Sink,
		Headers:    c.Header,
		Client:     c.Client,
		Timeout:    Duration(c.Timeout),
		StartPage:  c.StartPage,
		MinDelay:   Duration(c.MinDelay),
		MaxDelay:   Duration(c.MaxDelay),
		Retries:    &retries,
		EmptyLimit: c.EmptyLimit,
		Checkpoint: c.Checkpoint,
		MaxPages:   c.MaxPages,
		RateLimit:  c.RateLimit,
		Dedup:      c.Dedup,
	}}, nil
}
