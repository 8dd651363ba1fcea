package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/localscout/localscout/internal/model"
	"github.com/localscout/localscout/internal/pipeline"
	"github.com/localscout/localscout/internal/resilience"
	"github.com/localscout/localscout/pkg/anthropic"
)

// maxGenerativeResults caps how many records one generative response may
// contribute, regardless of what the model returns.
const maxGenerativeResults = 8

const generativePrompt = `Find up to %d real %s in %s, %s, India.

RULES:
- Only list businesses you are confident actually exist; fewer results are better than invented ones
- Give the full street address including the %s area
- Phone in Indian format +91-XXXXXXXXXX, or "" if unknown — never guess
- No generic or placeholder names

Respond with a JSON array only, no additional text:
[
  {"name": "...", "address": "...", "phone": "", "description": "..."}
]`

// Generative is the candidate source backed by a generative-text model.
type Generative struct {
	llm             anthropic.Client
	model           string
	retry           resilience.RetryConfig
	fallbackOnParse bool
}

// GenerativeOption configures the adapter.
type GenerativeOption func(*Generative)

// WithParseFallback makes an unparseable model response yield the fixed
// degraded-service record instead of an error. Only the single-source
// search path wants this; in fused pipelines a parse failure should simply
// contribute nothing.
func WithParseFallback() GenerativeOption {
	return func(g *Generative) {
		g.fallbackOnParse = true
	}
}

// WithRetry overrides the retry policy for the model call.
func WithRetry(cfg resilience.RetryConfig) GenerativeOption {
	return func(g *Generative) {
		g.retry = cfg
	}
}

// NewGenerative creates the generative-text candidate source.
func NewGenerative(llm anthropic.Client, llmModel string, opts ...GenerativeOption) *Generative {
	g := &Generative{
		llm:   llm,
		model: llmModel,
		retry: resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name implements Source.
func (g *Generative) Name() string { return "generative" }

// Fetch prompts the model for candidate places and parses the JSON array
// from its free-text response.
func (g *Generative) Fetch(ctx context.Context, q model.SearchQuery) ([]model.Place, error) {
	prompt := fmt.Sprintf(generativePrompt,
		maxGenerativeResults, q.PlaceType.SearchTerm(), q.Area, q.City, q.Area)

	temp := 0.3
	resp, err := resilience.DoVal(ctx, g.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return g.llm.CreateMessage(ctx, anthropic.MessageRequest{
			Model:       g.model,
			MaxTokens:   1024,
			Temperature: &temp,
			Messages: []anthropic.Message{
				{Role: "user", Content: prompt},
			},
		})
	})
	if err != nil {
		return nil, err
	}

	text := anthropic.Text(resp)
	raw, err := pipeline.DecodePlaces(text)
	if err != nil {
		zap.L().Warn("generative: unparseable response",
			zap.String("query", q.String()),
			zap.String("raw", text),
			zap.Error(err),
		)
		if g.fallbackOnParse {
			return []model.Place{fallbackPlace(q)}, nil
		}
		return nil, err
	}

	places := make([]model.Place, 0, len(raw))
	for _, p := range raw {
		p.Phone = pipeline.NormalizePhone(p.Phone)
		p.Source = g.Name()
		if !pipeline.IsValid(p) {
			continue
		}
		places = append(places, p)
		if len(places) >= maxGenerativeResults {
			break
		}
	}

	return places, nil
}

// fallbackPlace is the fixed degraded-service record. Its address names the
// requested area so it survives area filtering and reaches the caller.
func fallbackPlace(q model.SearchQuery) model.Place {
	return model.Place{
		Name:        "Search results temporarily unavailable",
		Address:     fmt.Sprintf("%s area, %s, India", q.Area, q.City),
		Description: "Service is processing your request, please try again in a moment",
		Source:      "generative",
	}
}
