// Package decision applies the verdict policy to a scored market model.
package decision

import (
	"errors"
	"fmt"

	"github.com/atlasmv/atlas/internal/model"
)

// ErrUnjustifiedModel is returned when a market model carries neither
// assumptions nor evidence references. A decision must always be traceable
// to one or the other.
var ErrUnjustifiedModel = errors.New("market model has no assumptions and no evidence references")

// crowdedFieldThreshold is the competitor count at which the field itself
// counts as disconfirming evidence.
const crowdedFieldThreshold = 5

// Engine turns a market model, confidence score, and risk set into a final
// verdict. The engine is pure: identifiers and timestamps are stamped by the
// caller.
type Engine struct {
	policy model.DecisionConfig
}

// NewEngine creates an engine with the given verdict policy.
func NewEngine(policy model.DecisionConfig) *Engine {
	return &Engine{policy: policy}
}

// Decide applies the policy:
//
//	NO-GO        confidence below the low threshold, SOM base below the
//	             viability floor, or too many high-severity risks.
//	GO           confidence at or above the high threshold, viable SOM, and
//	             no high-severity risks.
//	CONDITIONAL  everything in between, with concrete conditions to clear.
func (e *Engine) Decide(m model.MarketModel, scenarios []model.Scenario, sensitivity []model.SensitivityResult, confidence int, risks []model.Risk, disconfirming []string) (model.Decision, error) {
	if len(m.Assumptions()) == 0 && len(m.EvidenceRefs()) == 0 {
		return model.Decision{}, ErrUnjustifiedModel
	}

	highRisks := countHigh(risks)

	d := model.Decision{
		ConfidenceScore:       confidence,
		Market:                m,
		Scenarios:             scenarios,
		Sensitivity:           sensitivity,
		Risks:                 risks,
		Assumptions:           m.Assumptions(),
		DisconfirmingEvidence: disconfirming,
	}

	switch {
	case confidence < e.policy.TLow,
		m.SOM.Base < e.policy.MinViableSOM,
		highRisks > e.policy.MaxHighSeverityRisks:
		d.Verdict = model.VerdictNoGo
	case confidence >= e.policy.THigh && m.SOM.Base >= e.policy.MinViableSOM && highRisks == 0:
		d.Verdict = model.VerdictGo
	default:
		d.Verdict = model.VerdictConditional
		d.Conditions = e.conditions(m, confidence, highRisks)
	}
	return d, nil
}

func (e *Engine) conditions(m model.MarketModel, confidence int, highRisks int) []string {
	var conds []string
	if confidence < e.policy.THigh {
		conds = append(conds, fmt.Sprintf(
			"Raise confidence from %d to at least %d by validating top assumptions with additional credible sources",
			confidence, e.policy.THigh))
	}
	if segs := m.AssumptionBasedSegments(); len(segs) > 0 {
		conds = append(conds, fmt.Sprintf(
			"Replace assumption-based estimates (%s) with sourced evidence", joinSegments(segs)))
	}
	if highRisks > 0 {
		conds = append(conds, fmt.Sprintf("Mitigate or retire %d high-severity risk(s)", highRisks))
	}
	if len(conds) == 0 {
		conds = append(conds, "Run the listed validation tests before committing spend")
	}
	return conds
}

// DisconfirmingEvidence extracts statements that argue against viability:
// high-severity risks, a crowded competitive field, and a fully assumed
// market size. It is computed before confidence scoring so the score can
// penalize it.
func DisconfirmingEvidence(m model.MarketModel, risks []model.Risk, competitorCount int) []string {
	var out []string
	for _, r := range risks {
		if r.Severity == model.SeverityHigh {
			out = append(out, r.Statement)
		}
	}
	if competitorCount >= crowdedFieldThreshold {
		out = append(out, fmt.Sprintf("Crowded competitive field: %d competitors identified", competitorCount))
	}
	if m.TAM.AssumptionBased() {
		out = append(out, "Market size rests on assumptions, not evidence")
	}
	return out
}

func countHigh(risks []model.Risk) int {
	n := 0
	for _, r := range risks {
		if r.Severity == model.SeverityHigh {
			n++
		}
	}
	return n
}

func joinSegments(segs []string) string {
	switch len(segs) {
	case 0:
		return ""
	case 1:
		return segs[0]
	}
	s := segs[0]
	for _, seg := range segs[1:] {
		s += ", " + seg
	}
	return s
}
