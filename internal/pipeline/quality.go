package pipeline

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/localscout/localscout/internal/model"
)

// placeholderTokens flag names and addresses a generative source invented
// rather than recalled. Matched as substrings.
var placeholderTokens = []string{
	"example", "sample", "test", "demo", "placeholder",
	"fake", "dummy", "lorem ipsum",
}

// placeholderWords are short tokens only suspicious as standalone words —
// substring matching would reject real names like "Fabric Store".
var placeholderWordPattern = regexp.MustCompile(`(?i)\b(xyz|abc)\b`)

// genericNamePattern matches adjective+category names with no distinguishing
// term, e.g. "Best Gym", "New Restaurant", "City Cafe".
var genericNamePattern = regexp.MustCompile(
	`(?i)^(best|top|new|good|great|city|local|famous|popular|premium)\s+` +
		`(gym|cafe|restaurant|hotel|hostel|hospital|pharmacy|bank|atm|pg|salon|store|shop)$`)

// allowedNamePunct is the punctuation that commonly appears in real
// business names and does not count toward the special-character limit.
const allowedNamePunct = "-.&'(),"

// maxNameSpecialChars is the tolerated count of characters outside
// alphanumerics, spaces, and allowedNamePunct.
const maxNameSpecialChars = 6

// IsValid is the quality gate every candidate must pass before it can
// reach merging. It is deliberately conservative: dropping a real business
// with a distinctive name should be rare, while templated or hallucinated
// records must not leak through.
func IsValid(p model.Place) bool {
	name := strings.TrimSpace(p.Name)
	address := strings.TrimSpace(p.Address)

	if name == "" || address == "" {
		return false
	}

	if len(name) < 3 || len(name) > 80 {
		return false
	}

	nameLower := strings.ToLower(name)
	for _, tok := range placeholderTokens {
		if strings.Contains(nameLower, tok) {
			return false
		}
	}
	if placeholderWordPattern.MatchString(name) {
		return false
	}

	if isNumeric(name) {
		return false
	}

	if countSpecialChars(name) > maxNameSpecialChars {
		return false
	}

	if genericNamePattern.MatchString(name) {
		return false
	}

	if len(address) < 10 {
		return false
	}
	addressLower := strings.ToLower(address)
	for _, tok := range placeholderTokens {
		if strings.Contains(addressLower, tok) {
			return false
		}
	}

	return true
}

// FilterValid keeps only records passing IsValid, preserving order.
func FilterValid(places []model.Place) []model.Place {
	out := make([]model.Place, 0, len(places))
	for _, p := range places {
		if IsValid(p) {
			out = append(out, p)
		}
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func countSpecialChars(name string) int {
	count := 0
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			continue
		}
		if strings.ContainsRune(allowedNamePunct, r) {
			continue
		}
		count++
	}
	return count
}
