package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/localscout/localscout/internal/model"
	"github.com/localscout/localscout/pkg/anthropic"
)

const validatePrompt = `You are verifying whether a business actually exists. Be skeptical: reject unless you are highly confident.

Business: %s
Address: %s

Judge whether this exact business exists at (or very near) this address. List the kinds of evidence you are drawing on (e.g. "official website", "maps listing", "directory"), and any inconsistencies between the claimed details and what you know.

Respond with a JSON object only:
{
  "exists": true or false,
  "confidence": "high", "medium" or "low",
  "sources": ["..."],
  "inconsistencies": ["..."],
  "correctedName": "only if the real name differs, else empty",
  "correctedAddress": "only if the real address differs, else empty",
  "correctedPhone": "only if you know the real phone, else empty"
}`

// Validator runs the stricter existence-validation mode: one verification
// round-trip per candidate, trading recall for precision.
type Validator struct {
	llm   anthropic.Client
	model string
}

// NewValidator creates a Validator.
func NewValidator(llm anthropic.Client, llmModel string) *Validator {
	return &Validator{llm: llm, model: llmModel}
}

// Validate asks the model to judge one candidate's existence.
func (v *Validator) Validate(ctx context.Context, p model.Place) (model.ValidationResult, error) {
	temp := 0.1
	resp, err := v.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       v.model,
		MaxTokens:   512,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: formatValidatePrompt(p)},
		},
	})
	if err != nil {
		return model.ValidationResult{}, err
	}

	text := anthropic.Text(resp)
	payload, err := ExtractJSONObject(text)
	if err != nil {
		return model.ValidationResult{}, err
	}

	var vr model.ValidationResult
	if err := json.Unmarshal([]byte(payload), &vr); err != nil {
		return model.ValidationResult{}, err
	}

	return vr, nil
}

// Accept applies the acceptance rule: existing, high confidence, at least
// two corroborating sources, and no recorded inconsistencies.
func Accept(vr model.ValidationResult) bool {
	return vr.Exists &&
		vr.Confidence == model.ConfidenceHigh &&
		len(vr.Sources) >= 2 &&
		len(vr.Inconsistencies) == 0
}

// ValidatePlaces filters candidates through existence validation. Rejection
// and validation errors both drop the candidate — exclude to be safe, never
// include by default. Accepted candidates pick up any corrected fields.
func (v *Validator) ValidatePlaces(ctx context.Context, places []model.Place) []model.Place {
	out := make([]model.Place, 0, len(places))
	for _, p := range places {
		vr, err := v.Validate(ctx, p)
		if err != nil {
			zap.L().Warn("validate: dropping candidate on error",
				zap.String("name", p.Name),
				zap.Error(err),
			)
			continue
		}
		if !Accept(vr) {
			zap.L().Debug("validate: candidate rejected",
				zap.String("name", p.Name),
				zap.String("confidence", string(vr.Confidence)),
				zap.Int("sources", len(vr.Sources)),
				zap.Int("inconsistencies", len(vr.Inconsistencies)),
			)
			continue
		}

		if vr.CorrectedName != "" {
			p.Name = vr.CorrectedName
		}
		if vr.CorrectedAddress != "" {
			p.Address = vr.CorrectedAddress
		}
		if phone := NormalizePhone(vr.CorrectedPhone); phone != "" {
			p.Phone = phone
		}
		out = append(out, p)
	}
	return out
}

func formatValidatePrompt(p model.Place) string {
	return fmt.Sprintf(validatePrompt, p.Name, p.Address)
}
