package pipeline

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/localscout/localscout/internal/model"
)

// categorySuffixes are trailing category words carrying no identity: with
// them stripped, "Gold's Gym" and "Golds" compare equal.
var categorySuffixes = []string{
	"gym", "cafe", "restaurant", "hotel", "hostel", "hospital", "pharmacy",
}

// minContainmentLen guards the substring duplicate test: below this length
// normalized names are too short for containment to mean anything.
const minContainmentLen = 3

// minSharedSegments is how many comma-separated address segments two
// records must share to be considered the same business.
const minSharedSegments = 2

// foldDiacritics removes combining marks so "Café" and "Cafe" compare equal.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeName reduces a business name to a comparison key: diacritics
// folded, lowercased, leading "the" and trailing category suffixes
// stripped, separators removed.
func normalizeName(name string) string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err == nil {
		name = folded
	}

	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "the ")

	for _, suffix := range categorySuffixes {
		if trimmed := strings.TrimSuffix(name, " "+suffix); trimmed != name {
			name = trimmed
			break
		}
	}

	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '\'', '&':
			return -1
		}
		return r
	}, name)
}

// addressSegments splits an address on commas into lowercased trimmed parts.
func addressSegments(address string) []string {
	parts := strings.Split(address, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// dropCityTail removes the trailing city segment. Every candidate for one
// query shares the city (and usually the area), so the tail segment carries
// no identity and counting it would collapse neighbours.
func dropCityTail(segs []string) []string {
	if len(segs) > 1 {
		return segs[:len(segs)-1]
	}
	return segs
}

func sharedSegments(a, b string) int {
	segsA := dropCityTail(addressSegments(a))
	segsB := dropCityTail(addressSegments(b))

	seen := make(map[string]bool, len(segsA))
	for _, s := range segsA {
		seen[s] = true
	}

	count := 0
	for _, s := range segsB {
		if seen[s] {
			count++
			seen[s] = false
		}
	}
	return count
}

// sameBusiness applies the fuzzy duplicate tests between an accepted record
// and a secondary candidate: normalized-name containment, or sufficient
// address-segment overlap.
func sameBusiness(accepted, candidate model.Place) bool {
	na := normalizeName(accepted.Name)
	nc := normalizeName(candidate.Name)

	if len(na) > minContainmentLen && len(nc) > minContainmentLen &&
		(strings.Contains(na, nc) || strings.Contains(nc, na)) {
		return true
	}

	return sharedSegments(accepted.Address, candidate.Address) >= minSharedSegments
}

// Merge unions two candidate lists, preferring primary on conflict. Primary
// records are accepted in order (internal duplicates by normalized name are
// dropped); a secondary record is accepted only if it collides with nothing
// already accepted, by exact normalized name, name containment, or address
// overlap. Output preserves encounter order.
func Merge(primary, secondary []model.Place) []model.Place {
	out := make([]model.Place, 0, len(primary)+len(secondary))
	seen := make(map[string]bool, len(primary))

	for _, p := range primary {
		key := normalizeName(p.Name)
		if key != "" && seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}

	for _, s := range secondary {
		key := normalizeName(s.Name)
		if key != "" && seen[key] {
			continue
		}

		duplicate := false
		for _, accepted := range out {
			if sameBusiness(accepted, s) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		seen[key] = true
		out = append(out, s)
	}

	return out
}
