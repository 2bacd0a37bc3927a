package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/pagewalk"
	"github.com/fwojciec/pagewalk/bloom"
	"github.com/fwojciec/pagewalk/crawl"
	pageetree "github.com/fwojciec/pagewalk/etree"
	pagefs "github.com/fwojciec/pagewalk/fs"
	pagegoquery "github.com/fwojciec/pagewalk/goquery"
	pagehttp "github.com/fwojciec/pagewalk/http"
	pageresty "github.com/fwojciec/pagewalk/resty"
	pageslog "github.com/fwojciec/pagewalk/slog"
	"github.com/fwojciec/pagewalk/sqlite"
	"github.com/fwojciec/pagewalk/trafilatura"
	"gopkg.in/yaml.v3"
)

// dedupExpectedRecords sizes the Bloom filter behind --dedup.
const dedupExpectedRecords = 100_000

// dedupFalsePositiveRate is the acceptable false positive rate for --dedup.
const dedupFalsePositiveRate = 0.001

// Duration is a time.Duration that unmarshals from YAML strings like
// "500ms" or "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return pagewalk.Errorf(pagewalk.EINVALID, "invalid duration %q", value.Value)
	}
	*d = Duration(parsed)
	return nil
}

// Profile configures one crawl source. YAML profile files hold a list of
// them under "sources"; the flag-based single-source path builds one
// directly.
type Profile struct {
	Name       string            `yaml:"name"`
	URL        string            `yaml:"url"`
	Parser     string            `yaml:"parser"`
	Sink       string            `yaml:"sink"`
	Headers    map[string]string `yaml:"headers"`
	Client     string            `yaml:"client"`
	Timeout    Duration          `yaml:"timeout"`
	StartPage  int               `yaml:"startPage"`
	MinDelay   Duration          `yaml:"minDelay"`
	MaxDelay   Duration          `yaml:"maxDelay"`
	Retries    *int              `yaml:"retries"`
	EmptyLimit int               `yaml:"emptyLimit"`
	Checkpoint int               `yaml:"checkpoint"`
	MaxPages   int               `yaml:"maxPages"`
	RateLimit  float64           `yaml:"rateLimit"`
	Dedup      bool              `yaml:"dedup"`
}

// profileFile is the top-level shape of a YAML profile file.
type profileFile struct {
	Sources []Profile `yaml:"sources"`
}

// LoadProfiles reads crawl profiles from a YAML file. Header values may
// reference environment variables ("Bearer ${API_TOKEN}"); they are
// expanded here so secrets stay out of profile files.
func LoadProfiles(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, pagewalk.Errorf(pagewalk.EINVALID, "invalid profile file %s: %v", path, err)
	}
	if len(file.Sources) == 0 {
		return nil, pagewalk.Errorf(pagewalk.EINVALID, "profile file %s declares no sources", path)
	}

	for i := range file.Sources {
		p := &file.Sources[i]
		if p.Name == "" {
			p.Name = fmt.Sprintf("source_%d", i+1)
		}
		for k, v := range p.Headers {
			p.Headers[k] = os.ExpandEnv(v)
		}
	}
	return file.Sources, nil
}

// config translates a profile into an engine configuration, filling
// defaults for fields the profile leaves unset.
func (p *Profile) config() crawl.Config {
	cfg := crawl.DefaultConfig()
	cfg.URLTemplate = p.URL
	if p.StartPage > 0 {
		cfg.StartPage = p.StartPage
	}
	if p.MinDelay > 0 || p.MaxDelay > 0 {
		cfg.MinDelay = time.Duration(p.MinDelay)
		cfg.MaxDelay = time.Duration(p.MaxDelay)
	}
	if p.Retries != nil {
		cfg.MaxRetries = *p.Retries
	}
	if p.EmptyLimit > 0 {
		cfg.MaxEmptyPages = p.EmptyLimit
	}
	if p.Checkpoint > 0 {
		cfg.CheckpointInterval = p.Checkpoint
	}
	if p.MaxPages > 0 {
		cfg.MaxPages = p.MaxPages
	}
	return cfg
}

// buildEngine assembles the engine for one profile. The returned cleanup
// function releases the fetcher and any sink resources.
func (p *Profile) buildEngine(logger *slog.Logger) (*crawl.Engine, func(), error) {
	fetcher, err := p.buildFetcher()
	if err != nil {
		return nil, nil, err
	}

	parser, predicate, err := p.buildParser()
	if err != nil {
		fetcher.Close()
		return nil, nil, err
	}

	sink, closeSink, err := p.buildSink()
	if err != nil {
		fetcher.Close()
		return nil, nil, err
	}

	if p.Dedup {
		sink = bloom.NewDedupSink(sink, dedupExpectedRecords, dedupFalsePositiveRate)
	}
	sink = pageslog.NewSink(sink, logger)

	engine := &crawl.Engine{
		Fetcher:   pageslog.NewFetcher(fetcher, logger),
		Parser:    parser,
		Predicate: predicate,
		Sink:      sink,
		Logger:    logger,
		Config:    p.config(),
	}
	if p.RateLimit > 0 {
		engine.Limiter = crawl.NewDomainLimiter(p.RateLimit)
	}

	cleanup := func() {
		fetcher.Close()
		closeSink()
	}
	return engine, cleanup, nil
}

func (p *Profile) buildFetcher() (pagewalk.Fetcher, error) {
	timeout := time.Duration(p.Timeout)
	if timeout == 0 {
		timeout = pagehttp.DefaultFetchTimeout
	}
	switch p.Client {
	case "", "http":
		return pagehttp.NewFetcher(
			pagehttp.WithTimeout(timeout),
			pagehttp.WithHeaders(p.Headers),
		), nil
	case "resty":
		return pageresty.NewFetcher(
			pageresty.WithTimeout(timeout),
			pageresty.WithHeaders(p.Headers),
		), nil
	}
	return nil, pagewalk.Errorf(pagewalk.EINVALID, "unknown client %q", p.Client)
}

func (p *Profile) buildParser() (pagewalk.PageParser, pagewalk.ContinuationPredicate, error) {
	switch p.Parser {
	case "", "links":
		return pagegoquery.NewLinkParser(), pagegoquery.NewNextLinkPredicate(), nil
	case "articles":
		return pagegoquery.NewArticleParser(), pagegoquery.NewNextLinkPredicate(), nil
	case "content":
		return trafilatura.NewContentParser(), pagewalk.WhileRecords(), nil
	case "feed":
		return pageetree.NewFeedParser(), pagewalk.WhileRecords(), nil
	}
	return nil, nil, pagewalk.Errorf(pagewalk.EINVALID, "unknown parser %q", p.Parser)
}

func (p *Profile) buildSink() (pagewalk.Sink, func(), error) {
	spec := p.Sink
	if spec == "" {
		spec = "json:./data"
	}
	kind, target, ok := strings.Cut(spec, ":")
	if !ok || target == "" {
		return nil, nil, pagewalk.Errorf(pagewalk.EINVALID, "sink %q must be json:<dir> or sqlite:<path>", spec)
	}

	switch kind {
	case "json":
		return pagefs.NewSink(target), func() {}, nil
	case "sqlite":
		db := sqlite.NewDB(target)
		if err := db.Open(); err != nil {
			return nil, nil, err
		}
		return sqlite.NewSink(db), func() { db.Close() }, nil
	}
	return nil, nil, pagewalk.Errorf(pagewalk.EINVALID, "unknown sink kind %q", kind)
}
