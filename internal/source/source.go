// Package source defines the candidate-source abstraction and its three
// adapter variants: generative text, open-map search, and SERP results.
package source

import (
	"context"

	"github.com/localscout/localscout/internal/model"
)

// Source is one external data provider yielding candidate places for a
// query. Adapters convert their provider's raw response into model.Place
// records; they do not filter by area or deduplicate — that is pipeline
// work.
type Source interface {
	// Name identifies the adapter ("generative", "openmap", "serp") for
	// logging and merge-priority configuration.
	Name() string

	// Fetch returns candidate places for the query. An error means this
	// source contributed nothing; the orchestrator degrades it to an empty
	// list rather than failing the request.
	Fetch(ctx context.Context, q model.SearchQuery) ([]model.Place, error)
}
