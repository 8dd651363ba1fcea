// Package pipeline implements the result-fusion pipeline: quality and area
// filtering, merge/dedup across sources, phone enrichment, and existence
// validation.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/localscout/localscout/internal/model"
)

// Source is the pipeline's view of one external data provider yielding
// candidate places for a query. It is structurally identical to
// source.Source; the pipeline declares its own copy so the adapters in
// internal/source can depend on this package without an import cycle.
type Source interface {
	// Name identifies the adapter ("generative", "openmap", "serp") for
	// logging and merge-priority configuration.
	Name() string

	// Fetch returns candidate places for the query. An error means this
	// source contributed nothing; the orchestrator degrades it to an empty
	// list rather than failing the request.
	Fetch(ctx context.Context, q model.SearchQuery) ([]model.Place, error)
}

// Mode selects what runs after merge: best-effort phone enrichment, or the
// slower precision-first existence validation. The two are alternatives,
// not layers.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeValidate Mode = "validate"
)

// Options configures the orchestrator.
type Options struct {
	// MaxResults bounds the final list.
	MaxResults int

	// PrimarySource names the source preferred on merge conflicts. When
	// that source returned nothing (or the name is unset), the most
	// phone-complete list takes its place.
	PrimarySource string

	// Mode picks enrichment vs validation after merge.
	Mode Mode

	// SourceTimeout bounds each source's fetch.
	SourceTimeout time.Duration
}

// DefaultOptions returns the standard pipeline configuration.
func DefaultOptions() Options {
	return Options{
		MaxResults:    6,
		PrimarySource: "serp",
		Mode:          ModeStandard,
		SourceTimeout: 15 * time.Second,
	}
}

// Pipeline orchestrates the fused search: concurrent source fan-out,
// per-source filtering, priority merge, then enrichment or validation.
type Pipeline struct {
	opts      Options
	sources   []Source
	enricher  *Enricher
	validator *Validator
}

// New creates a Pipeline. enricher and validator may be nil; the
// corresponding stage is skipped.
func New(opts Options, sources []Source, enricher *Enricher, validator *Validator) *Pipeline {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 6
	}
	if opts.SourceTimeout <= 0 {
		opts.SourceTimeout = 15 * time.Second
	}
	return &Pipeline{
		opts:      opts,
		sources:   sources,
		enricher:  enricher,
		validator: validator,
	}
}

// Run executes the full pipeline for one query. It never returns an error:
// every provider failure degrades to that source contributing nothing, and
// when all sources fail the result is simply empty.
func (p *Pipeline) Run(ctx context.Context, q model.SearchQuery) []model.Place {
	log := zap.L().With(zap.String("query", q.String()))

	fetched := p.fetchAll(ctx, q, log)

	// Filter each source's list independently, preserving adapter order.
	filtered := make([][]model.Place, len(fetched))
	for i, list := range fetched {
		filtered[i] = FilterByAreaStrict(FilterValid(list), q.Area)
		log.Debug("pipeline: source filtered",
			zap.String("source", p.sources[i].Name()),
			zap.Int("fetched", len(list)),
			zap.Int("kept", len(filtered[i])),
		)
	}

	merged := p.mergeByPriority(filtered)

	switch {
	case p.opts.Mode == ModeValidate && p.validator != nil:
		merged = p.validator.ValidatePlaces(ctx, merged)
	case p.enricher != nil:
		merged = p.enricher.Enrich(ctx, merged, q.City, q.Area)
	}

	if len(merged) > p.opts.MaxResults {
		merged = merged[:p.opts.MaxResults]
	}

	log.Info("pipeline: search complete", zap.Int("results", len(merged)))

	if merged == nil {
		return []model.Place{}
	}
	return merged
}

// fetchAll fans out to every source concurrently. A source's failure or
// timeout never cancels its siblings: each goroutine swallows its error
// after logging, so the group always waits for all outcomes.
func (p *Pipeline) fetchAll(ctx context.Context, q model.SearchQuery, log *zap.Logger) [][]model.Place {
	results := make([][]model.Place, len(p.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range p.sources {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(gctx, p.opts.SourceTimeout)
			defer cancel()

			places, err := src.Fetch(sctx, q)
			if err != nil {
				log.Warn("pipeline: source failed",
					zap.String("source", src.Name()),
					zap.Error(err),
				)
				return nil
			}
			results[i] = places
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// mergeByPriority folds the per-source lists into one, primary first. The
// configured primary leads when it produced anything; otherwise the most
// phone-complete list is promoted, since the primary's job is to win
// conflicts with records that carry phones.
func (p *Pipeline) mergeByPriority(lists [][]model.Place) []model.Place {
	primary := -1
	for i, src := range p.sources {
		if src.Name() == p.opts.PrimarySource && len(lists[i]) > 0 {
			primary = i
			break
		}
	}
	if primary < 0 {
		best := -1
		for i, list := range lists {
			if len(list) == 0 {
				continue
			}
			if primary < 0 || phoneCount(list) > best {
				primary = i
				best = phoneCount(list)
			}
		}
	}
	if primary < 0 {
		return nil
	}

	merged := lists[primary]
	for i, list := range lists {
		if i == primary || len(list) == 0 {
			continue
		}
		merged = Merge(merged, list)
	}
	return merged
}

func phoneCount(list []model.Place) int {
	n := 0
	for _, p := range list {
		if HasUsablePhone(p.Phone) {
			n++
		}
	}
	return n
}
