package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/localscout/localscout/internal/model"
)

// ErrNoJSON indicates the model's free-text response contained no JSON
// payload after code-fence stripping. Callers decide fallback-record vs
// empty-list policy; this package never swallows the failure silently.
var ErrNoJSON = eris.New("no JSON payload in response text")

// cleanFences strips optional leading/trailing markdown code fences.
func cleanFences(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	return strings.TrimSpace(text)
}

// ExtractJSONArray pulls the first JSON array out of free text, stripping
// code fences and any surrounding narration the model added.
func ExtractJSONArray(text string) (string, error) {
	text = cleanFences(text)

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return "", eris.Wrap(ErrNoJSON, "extract array")
	}

	return text[start : end+1], nil
}

// ExtractJSONObject pulls the first JSON object out of free text.
func ExtractJSONObject(text string) (string, error) {
	text = cleanFences(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", eris.Wrap(ErrNoJSON, "extract object")
	}

	return text[start : end+1], nil
}

// DecodePlaces parses a generative response into place records. The
// returned records are raw: names untrimmed beyond whitespace, phones not
// yet normalized, no quality filtering applied.
func DecodePlaces(text string) ([]model.Place, error) {
	payload, err := ExtractJSONArray(text)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		Name        string `json:"name"`
		Address     string `json:"address"`
		Phone       string `json:"phone"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, eris.Wrap(err, "decode places")
	}

	places := make([]model.Place, 0, len(raw))
	for _, r := range raw {
		places = append(places, model.Place{
			Name:        strings.TrimSpace(r.Name),
			Address:     strings.TrimSpace(r.Address),
			Phone:       strings.TrimSpace(r.Phone),
			Description: strings.TrimSpace(r.Description),
		})
	}

	return places, nil
}
