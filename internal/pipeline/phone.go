package pipeline

import (
	"regexp"
	"strings"
)

// nonPhoneChars matches everything that is not a digit or plus sign.
var nonPhoneChars = regexp.MustCompile(`[^\d+]`)

// NormalizePhone converts a raw phone string into the canonical national
// format "+91-XXXXXXXXXX". Anything that cannot be brought into that form
// is dropped entirely — a record must carry either a canonical phone or an
// empty string, never a partially cleaned value.
func NormalizePhone(raw string) string {
	cleaned := nonPhoneChars.ReplaceAllString(raw, "")
	if cleaned == "" {
		return ""
	}

	// A plus sign is only meaningful as a leading country-code marker.
	if idx := strings.LastIndex(cleaned, "+"); idx > 0 {
		return ""
	}

	switch {
	case strings.HasPrefix(cleaned, "+91") && len(cleaned) == 13:
		return "+91-" + cleaned[3:]
	case strings.HasPrefix(cleaned, "91") && len(cleaned) == 12:
		return "+91-" + cleaned[2:]
	case !strings.HasPrefix(cleaned, "+") && len(cleaned) == 10:
		return "+91-" + cleaned
	default:
		return ""
	}
}

// HasUsablePhone reports whether the raw phone value survives normalization.
func HasUsablePhone(raw string) bool {
	return NormalizePhone(raw) != ""
}
