package model

// RiskCategory is one of the four fixed risk groupings.
type RiskCategory string

const (
	RiskMarket       RiskCategory = "market"
	RiskCompetition  RiskCategory = "competition"
	RiskRegulatory   RiskCategory = "regulatory"
	RiskDistribution RiskCategory = "distribution"
)

// RiskSeverity rates how damaging a risk is if it materializes.
type RiskSeverity string

const (
	SeverityHigh   RiskSeverity = "high"
	SeverityMedium RiskSeverity = "medium"
	SeverityLow    RiskSeverity = "low"
)

// Risk is a categorized risk statement, optionally linked to the ledger
// claims that surfaced it.
type Risk struct {
	Category     RiskCategory `json:"category"`
	Statement    string       `json:"statement"`
	Severity     RiskSeverity `json:"severity"`
	EvidenceRefs []string     `json:"evidence_refs,omitempty"`
}
