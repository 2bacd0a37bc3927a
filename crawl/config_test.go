package crawl_test

import (
	"testing"
	"time"

	"github.com/fwojciec/pagewalk"
	"github.com/fwojciec/pagewalk/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() crawl.Config {
		cfg := crawl.DefaultConfig()
		cfg.URLTemplate = "https://example.com/list?page={page}"
		return cfg
	}

	t.Run("accepts the defaults with a template", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects invalid parameters", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			mutate func(*crawl.Config)
		}{
			{"missing template", func(c *crawl.Config) { c.URLTemplate = "" }},
			{"start page below one", func(c *crawl.Config) { c.StartPage = 0 }},
			{"negative delay", func(c *crawl.Config) { c.MinDelay = -time.Second }},
			{"min delay above max", func(c *crawl.Config) { c.MinDelay = 5 * time.Second; c.MaxDelay = time.Second }},
			{"negative retries", func(c *crawl.Config) { c.MaxRetries = -1 }},
			{"negative backoff base", func(c *crawl.Config) { c.BackoffBase = -time.Second }},
			{"zero empty-page limit", func(c *crawl.Config) { c.MaxEmptyPages = 0 }},
			{"zero checkpoint interval", func(c *crawl.Config) { c.CheckpointInterval = 0 }},
			{"ceiling below start page", func(c *crawl.Config) { c.StartPage = 10; c.MaxPages = 9 }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				cfg := valid()
				tt.mutate(&cfg)
				err := cfg.Validate()
				require.Error(t, err)
				assert.Equal(t, pagewalk.EINVALID, pagewalk.ErrorCode(err))
			})
		}
	})
}
