package model

// Credibility is the heuristic trust rating of a source, derived from
// domain and recency rules owned by the research collaborator.
type Credibility string

const (
	CredibilityHigh   Credibility = "high"
	CredibilityMedium Credibility = "medium"
	CredibilityLow    Credibility = "low"
)

// Weight returns the aggregation weight used when folding claims from this
// credibility level into a range estimate.
func (c Credibility) Weight() float64 {
	switch c {
	case CredibilityHigh:
		return 3
	case CredibilityMedium:
		return 2
	default:
		return 1
	}
}

// Source is a cited document the research stage ingested.
// Immutable once ingested.
type Source struct {
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	Excerpt     string      `json:"excerpt,omitempty"`
	Credibility Credibility `json:"credibility"`
}
