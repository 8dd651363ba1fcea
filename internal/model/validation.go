package model

// Confidence grades how sure the validator is that a business exists.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ValidationResult is the outcome of one existence-validation call for a
// single candidate. Produced and consumed within that call; never stored.
type ValidationResult struct {
	Exists           bool       `json:"exists"`
	Confidence       Confidence `json:"confidence"`
	Sources          []string   `json:"sources"`
	Inconsistencies  []string   `json:"inconsistencies"`
	CorrectedName    string     `json:"correctedName,omitempty"`
	CorrectedAddress string     `json:"correctedAddress,omitempty"`
	CorrectedPhone   string     `json:"correctedPhone,omitempty"`
}
