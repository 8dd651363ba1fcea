package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localscout/localscout/internal/model"
)

func TestAccept(t *testing.T) {
	base := model.ValidationResult{
		Exists:     true,
		Confidence: model.ConfidenceHigh,
		Sources:    []string{"official website", "maps listing"},
	}

	tests := []struct {
		name   string
		mutate func(*model.ValidationResult)
		want   bool
	}{
		{"high confidence two sources", func(*model.ValidationResult) {}, true},
		{"does not exist", func(vr *model.ValidationResult) { vr.Exists = false }, false},
		{"medium confidence", func(vr *model.ValidationResult) { vr.Confidence = model.ConfidenceMedium }, false},
		{"low confidence", func(vr *model.ValidationResult) { vr.Confidence = model.ConfidenceLow }, false},
		{"single source", func(vr *model.ValidationResult) { vr.Sources = vr.Sources[:1] }, false},
		{"inconsistency recorded", func(vr *model.ValidationResult) {
			vr.Inconsistencies = []string{"address mismatch"}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vr := base
			tt.mutate(&vr)
			assert.Equal(t, tt.want, Accept(vr))
		})
	}
}

func TestValidatePlaces(t *testing.T) {
	llm := &fakeLLM{responses: []string{
		`{"exists": true, "confidence": "high", "sources": ["official website", "maps listing"], "inconsistencies": []}`,
		`{"exists": true, "confidence": "medium", "sources": ["directory"], "inconsistencies": []}`,
	}}
	v := NewValidator(llm, "test-model")

	in := []model.Place{
		{Name: "Gold's Gym", Address: "MG Road, Benz Circle, Vijayawada"},
		{Name: "Fantasy Fitness", Address: "Nowhere Street, Vijayawada"},
	}

	out := v.ValidatePlaces(context.Background(), in)
	require.Len(t, out, 1, "only high-confidence multi-source candidates survive")
	assert.Equal(t, "Gold's Gym", out[0].Name)
}

func TestValidatePlaces_AppliesCorrections(t *testing.T) {
	llm := &fakeLLM{responses: []string{
		`{
			"exists": true,
			"confidence": "high",
			"sources": ["official website", "maps listing"],
			"inconsistencies": [],
			"correctedName": "Gold's Gym Benz Circle",
			"correctedPhone": "98765 43210"
		}`,
	}}
	v := NewValidator(llm, "test-model")

	out := v.ValidatePlaces(context.Background(), []model.Place{
		{Name: "Golds Gym", Address: "MG Road, Benz Circle, Vijayawada", Phone: "+91-9000000000"},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "Gold's Gym Benz Circle", out[0].Name)
	assert.Equal(t, "MG Road, Benz Circle, Vijayawada", out[0].Address, "empty correction leaves the field alone")
	assert.Equal(t, "+91-9876543210", out[0].Phone, "corrected phone is normalized before applying")
}

func TestValidatePlaces_DropsOnError(t *testing.T) {
	llm := &fakeLLM{err: assert.AnError}
	v := NewValidator(llm, "test-model")

	out := v.ValidatePlaces(context.Background(), []model.Place{
		{Name: "Gold's Gym", Address: "MG Road, Vijayawada"},
	})
	assert.Empty(t, out, "validation errors exclude the candidate")
}

func TestValidatePlaces_GarbageResponseDrops(t *testing.T) {
	llm := &fakeLLM{responses: []string{"I am unable to verify this business."}}
	v := NewValidator(llm, "test-model")

	out := v.ValidatePlaces(context.Background(), []model.Place{
		{Name: "Gold's Gym", Address: "MG Road, Vijayawada"},
	})
	assert.Empty(t, out)
}
