package main

import (
	"fmt"

	"github.com/fwojciec/pagewalk"
	"github.com/fwojciec/pagewalk/crawl"
)

// Run executes the plan command: it validates the template and prints the
// URLs the engine would fetch, without fetching anything.
func (c *PlanCmd) Run(deps *Dependencies) error {
	if err := crawl.ValidateTemplate(c.URL); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagewalk.ErrorMessage(err))
		return err
	}

	for page := c.StartPage; page < c.StartPage+c.Pages; page++ {
		fmt.Fprintf(deps.Stdout, "%d\t%s\n", page, crawl.ResolveURL(c.URL, page))
	}
	return nil
}
