package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/localscout/localscout/internal/model"
	"github.com/localscout/localscout/pkg/anthropic"
)

// defaultEnrichBatchSize is how many phone-less records go into one
// generative lookup request.
const defaultEnrichBatchSize = 3

// notAvailable is the sentinel the model is instructed to return instead of
// guessing a number.
const notAvailable = "not available"

const enrichPromptHeader = `Find REAL phone numbers for these businesses in %s, %s, India:

`

const enrichPromptFooter = `
INSTRUCTIONS:
- Search for the ACTUAL, CURRENT phone number of each business
- ONLY provide a phone number if you are highly confident it is correct
- If not found, return "Not available" — never guess
- Use Indian format: +91-XXXXXXXXXX

Respond with a JSON array only, one entry per business, in the same order:
[
  {"business": "Name", "phone": "+91-XXXXXXXXXX or Not available"}
]`

// Enricher back-fills missing phone numbers via small-batch generative
// lookups. Enrichment is best-effort: a failed batch passes its records
// through unchanged and never blocks the final result.
type Enricher struct {
	llm       anthropic.Client
	model     string
	limiter   *rate.Limiter
	batchSize int
}

// EnricherOption configures the Enricher.
type EnricherOption func(*Enricher)

// WithBatchSize overrides how many records go into one lookup request.
func WithBatchSize(n int) EnricherOption {
	return func(e *Enricher) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// NewEnricher creates an Enricher. The limiter is the shared per-provider
// token bucket; pass nil to disable pacing (tests).
func NewEnricher(llm anthropic.Client, llmModel string, limiter *rate.Limiter, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		llm:       llm,
		model:     llmModel,
		limiter:   limiter,
		batchSize: defaultEnrichBatchSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich returns a new list in which phone-less records have been offered
// to the generative source in batches. Records that already carry a usable
// phone pass through untouched and come first in the output; callers
// needing the pre-enrichment order must re-sort downstream.
func (e *Enricher) Enrich(ctx context.Context, places []model.Place, city, area string) []model.Place {
	out := make([]model.Place, 0, len(places))
	var targets []model.Place

	for _, p := range places {
		if HasUsablePhone(p.Phone) {
			out = append(out, p)
		} else {
			targets = append(targets, p)
		}
	}

	for start := 0; start < len(targets); start += e.batchSize {
		end := start + e.batchSize
		if end > len(targets) {
			end = len(targets)
		}
		batch := append([]model.Place(nil), targets[start:end]...)

		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				// Context gone — pass the rest through unchanged.
				out = append(out, targets[start:]...)
				return out
			}
		}

		out = append(out, e.enrichBatch(ctx, batch, city, area)...)
	}

	return out
}

type phonePair struct {
	Business string `json:"business"`
	Phone    string `json:"phone"`
}

// enrichBatch issues one lookup request for a batch and splices returned
// numbers back positionally. Any failure returns the batch unmodified.
func (e *Enricher) enrichBatch(ctx context.Context, batch []model.Place, city, area string) []model.Place {
	var b strings.Builder
	fmt.Fprintf(&b, enrichPromptHeader, area, city)
	for i, p := range batch {
		fmt.Fprintf(&b, "%d. %s at %s\n", i+1, p.Name, p.Address)
	}
	b.WriteString(enrichPromptFooter)

	temp := 0.2
	resp, err := e.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.model,
		MaxTokens:   512,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: b.String()},
		},
	})
	if err != nil {
		zap.L().Warn("enrich: batch request failed", zap.Int("batch_size", len(batch)), zap.Error(err))
		return batch
	}

	text := anthropic.Text(resp)
	payload, err := ExtractJSONArray(text)
	if err != nil {
		zap.L().Warn("enrich: no JSON in response", zap.String("raw", text))
		return batch
	}

	var pairs []phonePair
	if err := json.Unmarshal([]byte(payload), &pairs); err != nil {
		zap.L().Warn("enrich: malformed batch response", zap.String("raw", text), zap.Error(err))
		return batch
	}

	for i := range batch {
		if i >= len(pairs) {
			break
		}
		raw := strings.TrimSpace(pairs[i].Phone)
		if raw == "" || strings.EqualFold(raw, notAvailable) {
			continue
		}
		phone := NormalizePhone(raw)
		if phone == "" {
			continue
		}
		batch[i].Phone = phone
		batch[i].Source = batch[i].Source + " + enriched"
	}

	return batch
}
