// Package model defines the core domain types flowing through the search pipeline.
package model

// Place is a single candidate place as returned by one data source.
// Records are treated as immutable once emitted by an adapter; pipeline
// stages return new slices rather than mutating in place. The one exception
// is the orchestrator's enrichment splice, which writes corrected phones
// back into its own working copy.
type Place struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone,omitempty"`
	Description string   `json:"description,omitempty"`
	Source      string   `json:"source"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"reviewCount,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// HasPhone reports whether the record carries a usable phone number.
// Values shorter than 5 characters are treated as noise (e.g. "N/A", "-").
func (p Place) HasPhone() bool {
	return len(p.Phone) >= 5
}
