package model

import "time"

// Competitor is a competitor entry. Every entry must carry a source URL;
// unknown fields are marked unknown rather than invented.
type Competitor struct {
	Name           string `json:"name"`
	Positioning    string `json:"positioning"`
	Pricing        string `json:"pricing"`
	Geography      string `json:"geography"`
	Differentiator string `json:"differentiator"`
	SourceURL      string `json:"source_url"`
}

// RiskGroups presents risk statements under the four fixed categories.
// A category with no risks stays empty, never padded.
type RiskGroups struct {
	Market       []string `json:"market"`
	Competition  []string `json:"competition"`
	Regulatory   []string `json:"regulatory"`
	Distribution []string `json:"distribution"`
}

// ValidationTest is one concrete test to run in the next seven days.
type ValidationTest struct {
	Test             string `json:"test"`
	Method           string `json:"method"`
	SuccessThreshold string `json:"success_threshold"`
}

// ScenarioSet holds the three named scenarios.
type ScenarioSet struct {
	Bear Scenario `json:"bear"`
	Base Scenario `json:"base"`
	Bull Scenario `json:"bull"`
}

// Report is the full analysis response produced by the pipeline. The
// evidence ledger is included only when the request asked for debug output.
type Report struct {
	Idea                  string              `json:"idea"`
	Verdict               Verdict             `json:"verdict"`
	ConfidenceScore       int                 `json:"confidence_score"`
	Conditions            []string            `json:"conditions,omitempty"`
	ExecutiveSummary      []string            `json:"executive_summary"`
	Market                MarketModel         `json:"market"`
	Competitors           []Competitor        `json:"competitors"`
	Risks                 RiskGroups          `json:"risks"`
	Assumptions           []string            `json:"assumptions"`
	DisconfirmingEvidence []string            `json:"disconfirming_evidence"`
	Sources               []Source            `json:"sources"`
	KeyUnknowns           []string            `json:"key_unknowns"`
	NextSevenDayTests     []ValidationTest    `json:"next_7_days_tests"`
	Scenarios             ScenarioSet         `json:"scenarios"`
	Sensitivity           []SensitivityResult `json:"sensitivity_analysis"`
	EvidenceLedger        []Claim             `json:"evidence_ledger,omitempty"`
	DecisionID            string              `json:"decision_id"`
	GeneratedAt           time.Time           `json:"generated_at"`
}
