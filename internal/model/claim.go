package model

import "time"

// ClaimType categorizes the nature of the claim
type ClaimType string

const (
	ClaimTypeMarketSize ClaimType = "market_size" // Reported market size figures
	ClaimTypeGrowthRate ClaimType = "growth_rate" // CAGR / annual growth figures
	ClaimTypePricing    ClaimType = "pricing"     // Price points, ARPA
	ClaimTypeCompetitor ClaimType = "competitor"  // Named competitors
	ClaimTypeRegulatory ClaimType = "regulatory"  // Compliance / regulation mentions
	ClaimTypeOther      ClaimType = "other"       // Everything else worth tracking
)

// ClaimConfidence rates how directly the claim text supports the typed value
type ClaimConfidence string

const (
	ClaimConfidenceHigh   ClaimConfidence = "high"
	ClaimConfidenceMedium ClaimConfidence = "medium"
	ClaimConfidenceLow    ClaimConfidence = "low"
)

// ConfidenceFromCredibility derives claim confidence from source credibility.
// Unknown credibility maps to low, matching Credibility.Weight.
func ConfidenceFromCredibility(c Credibility) ClaimConfidence {
	switch c {
	case CredibilityHigh:
		return ClaimConfidenceHigh
	case CredibilityMedium:
		return ClaimConfidenceMedium
	default:
		return ClaimConfidenceLow
	}
}

// Claim is a typed, source-attributed factual assertion extracted from a
// Source. Claims are immutable after ledger insertion; corrections are
// modeled by appending a replacement and marking the original superseded.
type Claim struct {
	ID           string          `json:"id"`
	Text         string          `json:"claim_text"`
	Type         ClaimType       `json:"claim_type"`
	Value        *float64        `json:"value,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	SourceURL    string          `json:"source_url"`
	Excerpt      string          `json:"excerpt,omitempty"`
	RetrievedAt  time.Time       `json:"retrieved_at"`
	Credibility  Credibility     `json:"credibility_score"`
	Confidence   ClaimConfidence `json:"claim_confidence"`
	Superseded   bool            `json:"superseded,omitempty"`
	SupersededBy string          `json:"superseded_by,omitempty"`
}
