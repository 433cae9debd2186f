package model

import "time"

// Verdict is the final call on market viability.
type Verdict string

const (
	VerdictGo          Verdict = "GO"
	VerdictNoGo        Verdict = "NO-GO"
	VerdictConditional Verdict = "CONDITIONAL"
)

// Decision is the terminal artifact of one analysis request. It is produced
// once and is immutable; the full assumption and evidence chain that
// justified it travels with it.
type Decision struct {
	ID                    string              `json:"id"`
	Verdict               Verdict             `json:"verdict"`
	ConfidenceScore       int                 `json:"confidence_score"`
	Market                MarketModel         `json:"market"`
	Scenarios             []Scenario          `json:"scenarios"`
	Sensitivity           []SensitivityResult `json:"sensitivity_analysis"`
	Risks                 []Risk              `json:"risks"`
	Assumptions           []string            `json:"assumptions"`
	DisconfirmingEvidence []string            `json:"disconfirming_evidence"`
	Conditions            []string            `json:"conditions,omitempty"`
	CreatedAt             time.Time           `json:"created_at"`
}
