package main

import (
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/localscout/localscout/internal/config"
	"github.com/localscout/localscout/internal/pipeline"
	"github.com/localscout/localscout/internal/source"
	"github.com/localscout/localscout/pkg/anthropic"
	"github.com/localscout/localscout/pkg/nominatim"
	"github.com/localscout/localscout/pkg/serpstack"
)

// buildPipeline wires provider clients and sources from config. Sources
// without credentials are simply not configured; at least one must be.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	var sources []pipeline.Source

	var llm anthropic.Client
	if cfg.Anthropic.Key != "" {
		llm = anthropic.NewClient(cfg.Anthropic.Key)
	}

	if cfg.Serpstack.Key != "" {
		var opts []serpstack.Option
		if cfg.Serpstack.BaseURL != "" {
			opts = append(opts, serpstack.WithBaseURL(cfg.Serpstack.BaseURL))
		}
		sources = append(sources, source.NewSerp(serpstack.NewClient(cfg.Serpstack.Key, opts...)))
	}

	nomOpts := []nominatim.Option{
		nominatim.WithRateLimit(cfg.Nominatim.RateRPS),
	}
	if cfg.Nominatim.BaseURL != "" {
		nomOpts = append(nomOpts, nominatim.WithBaseURL(cfg.Nominatim.BaseURL))
	}
	if cfg.Nominatim.UserAgent != "" {
		nomOpts = append(nomOpts, nominatim.WithUserAgent(cfg.Nominatim.UserAgent))
	}
	sources = append(sources, source.NewOpenMap(nominatim.NewClient(nomOpts...), "in"))

	if llm != nil {
		var genOpts []source.GenerativeOption
		// With no SERP source configured, the generative source carries the
		// top-level search alone and signals degraded service on parse
		// failures instead of vanishing.
		if cfg.Serpstack.Key == "" {
			genOpts = append(genOpts, source.WithParseFallback())
		}
		sources = append(sources, source.NewGenerative(llm, cfg.Anthropic.Model, genOpts...))
	}

	if len(sources) == 0 {
		return nil, eris.New("no candidate sources configured")
	}

	var enricher *pipeline.Enricher
	var validator *pipeline.Validator
	if llm != nil {
		limiter := rate.NewLimiter(rate.Limit(cfg.Pipeline.EnrichRateRPS), 1)
		enricher = pipeline.NewEnricher(llm, cfg.Anthropic.Model, limiter,
			pipeline.WithBatchSize(cfg.Pipeline.EnrichBatchSize))
		validator = pipeline.NewValidator(llm, cfg.Anthropic.Model)
	}

	opts := pipeline.Options{
		MaxResults:    cfg.Pipeline.MaxResults,
		PrimarySource: cfg.Pipeline.PrimarySource,
		Mode:          pipeline.Mode(cfg.Pipeline.Mode),
		SourceTimeout: time.Duration(cfg.Pipeline.SourceTimeoutSecs) * time.Second,
	}

	return pipeline.New(opts, sources, enricher, validator), nil
}
