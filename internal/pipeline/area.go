package pipeline

import (
	"strings"

	"github.com/localscout/localscout/internal/model"
)

// areaVariants returns the spellings under which an area name shows up in
// addresses: as written, with spaces removed, and hyphenated. Sources report
// the same locality inconsistently ("Benz Circle" vs "BenzCircle").
func areaVariants(area string) []string {
	lower := strings.ToLower(strings.TrimSpace(area))
	if lower == "" {
		return nil
	}

	variants := []string{lower}
	if strings.Contains(lower, " ") {
		variants = append(variants,
			strings.ReplaceAll(lower, " ", ""),
			strings.ReplaceAll(lower, " ", "-"),
		)
	}
	return variants
}

func matchesAny(text string, variants []string) bool {
	lower := strings.ToLower(text)
	for _, v := range variants {
		if strings.Contains(lower, v) {
			return true
		}
	}
	return false
}

// FilterByArea keeps candidates whose address references the requested
// area, preserving input order. An empty result is a valid "no matches in
// this area" outcome, not an error.
func FilterByArea(places []model.Place, area string) []model.Place {
	variants := areaVariants(area)
	if len(variants) == 0 {
		return places
	}

	out := make([]model.Place, 0, len(places))
	for _, p := range places {
		if matchesAny(p.Address, variants) {
			out = append(out, p)
		}
	}
	return out
}

// FilterByAreaStrict additionally accepts an area reference in the name or
// description. Useful for sources whose addresses are sparse (organic
// search results carry only a display URL).
func FilterByAreaStrict(places []model.Place, area string) []model.Place {
	variants := areaVariants(area)
	if len(variants) == 0 {
		return places
	}

	out := make([]model.Place, 0, len(places))
	for _, p := range places {
		if matchesAny(p.Address, variants) ||
			matchesAny(p.Name, variants) ||
			matchesAny(p.Description, variants) {
			out = append(out, p)
		}
	}
	return out
}
