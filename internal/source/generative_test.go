package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localscout/localscout/internal/model"
	"github.com/localscout/localscout/internal/resilience"
	"github.com/localscout/localscout/pkg/anthropic"
)

// fakeLLM returns canned responses in order.
type fakeLLM struct {
	responses []string
	err       error
	requests  []anthropic.MessageRequest
}

func (f *fakeLLM) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	text := ""
	if len(f.responses) > 0 {
		text = f.responses[0]
		f.responses = f.responses[1:]
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}, nil
}

func noRetry() resilience.RetryConfig {
	return resilience.RetryConfig{MaxAttempts: 1}
}

func gymQuery() model.SearchQuery {
	return model.SearchQuery{City: "Vijayawada", Area: "Benz Circle", PlaceType: model.TypeGym}
}

func TestGenerativeFetch(t *testing.T) {
	llm := &fakeLLM{responses: []string{"```json\n" + `[
		{"name": "Talwalkars", "address": "MG Road, Benz Circle, Vijayawada", "phone": "98765 43210", "description": "Chain gym"},
		{"name": "Sample Gym", "address": "Somewhere, Benz Circle, Vijayawada", "phone": "", "description": ""},
		{"name": "Snap Fitness", "address": "PVP Square, Benz Circle, Vijayawada", "phone": "", "description": ""}
	]` + "\n```"}}

	g := NewGenerative(llm, "test-model", WithRetry(noRetry()))
	places, err := g.Fetch(context.Background(), gymQuery())
	require.NoError(t, err)

	require.Len(t, places, 2, "placeholder records are filtered at the source")
	assert.Equal(t, "Talwalkars", places[0].Name)
	assert.Equal(t, "+91-9876543210", places[0].Phone, "phones are normalized at the source")
	assert.Equal(t, "generative", places[0].Source)
	assert.Equal(t, "Snap Fitness", places[1].Name)

	require.Len(t, llm.requests, 1)
	prompt := llm.requests[0].Messages[0].Content
	assert.Contains(t, prompt, "gym")
	assert.Contains(t, prompt, "Benz Circle")
	assert.Contains(t, prompt, "Vijayawada")
}

func TestGenerativeFetch_CapsResults(t *testing.T) {
	resp := "["
	for i := 0; i < 12; i++ {
		if i > 0 {
			resp += ","
		}
		resp += `{"name": "Distinct Gym Number ` + string(rune('A'+i)) + `", "address": "Plot ` +
			string(rune('A'+i)) + `, Benz Circle, Vijayawada", "phone": "", "description": ""}`
	}
	resp += "]"

	llm := &fakeLLM{responses: []string{resp}}
	g := NewGenerative(llm, "test-model", WithRetry(noRetry()))

	places, err := g.Fetch(context.Background(), gymQuery())
	require.NoError(t, err)
	assert.Len(t, places, 8)
}

func TestGenerativeFetch_ParseFailure(t *testing.T) {
	llm := &fakeLLM{responses: []string{"I could not find any gyms in that area."}}
	g := NewGenerative(llm, "test-model", WithRetry(noRetry()))

	_, err := g.Fetch(context.Background(), gymQuery())
	assert.Error(t, err)
}

func TestGenerativeFetch_ParseFallback(t *testing.T) {
	llm := &fakeLLM{responses: []string{"I could not find any gyms in that area."}}
	g := NewGenerative(llm, "test-model", WithRetry(noRetry()), WithParseFallback())

	places, err := g.Fetch(context.Background(), gymQuery())
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Search results temporarily unavailable", places[0].Name)
	assert.Contains(t, places[0].Address, "Benz Circle",
		"the degraded-service record must survive area filtering")
}

func TestGenerativeFetch_RequestError(t *testing.T) {
	llm := &fakeLLM{err: assert.AnError}
	g := NewGenerative(llm, "test-model", WithRetry(noRetry()))

	_, err := g.Fetch(context.Background(), gymQuery())
	assert.Error(t, err)
}
