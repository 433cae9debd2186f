package model

import "fmt"

// MethodAssumptionBased tags a range estimate that was built from declared
// assumptions because no usable evidence existed for its scope. Downstream
// stages (confidence, decision) must penalize these segments.
const MethodAssumptionBased = "assumption-based"

// RangeEstimate is an uncertainty range with full derivation provenance.
// Invariant: min <= base <= max, all non-negative, and either EvidenceRefs
// is non-empty or Method flags the estimate as assumption-based.
type RangeEstimate struct {
	Min          float64  `json:"min"`
	Base         float64  `json:"base"`
	Max          float64  `json:"max"`
	Method       string   `json:"method,omitempty"`
	Assumptions  []string `json:"assumptions"`
	EvidenceRefs []string `json:"evidence_refs,omitempty"`
}

// AssumptionBased reports whether the estimate was derived from declared
// assumptions rather than ledger evidence.
func (r RangeEstimate) AssumptionBased() bool {
	return len(r.Method) >= len(MethodAssumptionBased) &&
		r.Method[:len(MethodAssumptionBased)] == MethodAssumptionBased
}

// Validate checks range ordering, non-negativity, and traceability.
func (r RangeEstimate) Validate() error {
	if r.Min < 0 || r.Base < 0 || r.Max < 0 {
		return fmt.Errorf("range estimate has negative component (min=%g base=%g max=%g)", r.Min, r.Base, r.Max)
	}
	if r.Min > r.Base || r.Base > r.Max {
		return fmt.Errorf("range estimate not ordered: min=%g base=%g max=%g", r.Min, r.Base, r.Max)
	}
	if len(r.EvidenceRefs) == 0 && !r.AssumptionBased() && len(r.Assumptions) == 0 {
		return fmt.Errorf("range estimate has no evidence refs and no declared assumptions")
	}
	return nil
}

// MulInterval multiplies two ranges component-wise (min*min, base*base,
// max*max). Valid only while both ranges are non-negative, which Validate
// enforces before any multiplication.
func (r RangeEstimate) MulInterval(o RangeEstimate) RangeEstimate {
	return RangeEstimate{
		Min:  r.Min * o.Min,
		Base: r.Base * o.Base,
		Max:  r.Max * o.Max,
	}
}

// MarketModel is the TAM -> SAM -> SOM funnel of range estimates.
type MarketModel struct {
	TAM RangeEstimate `json:"tam"`
	SAM RangeEstimate `json:"sam"`
	SOM RangeEstimate `json:"som"`
}

// Validate checks each range plus funnel monotonicity on min, base and max
// independently.
func (m MarketModel) Validate() error {
	for name, r := range map[string]RangeEstimate{"tam": m.TAM, "sam": m.SAM, "som": m.SOM} {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if m.SAM.Min > m.TAM.Min || m.SAM.Base > m.TAM.Base || m.SAM.Max > m.TAM.Max {
		return fmt.Errorf("funnel violation: sam exceeds tam")
	}
	if m.SOM.Min > m.SAM.Min || m.SOM.Base > m.SAM.Base || m.SOM.Max > m.SAM.Max {
		return fmt.Errorf("funnel violation: som exceeds sam")
	}
	return nil
}

// Assumptions returns every assumption statement across the funnel,
// de-duplicated, preserving first-seen order.
func (m MarketModel) Assumptions() []string {
	return dedupeStrings(append(append(append([]string{}, m.TAM.Assumptions...), m.SAM.Assumptions...), m.SOM.Assumptions...))
}

// EvidenceRefs returns the union of claim ids behind the funnel,
// de-duplicated, preserving first-seen order.
func (m MarketModel) EvidenceRefs() []string {
	return dedupeStrings(append(append(append([]string{}, m.TAM.EvidenceRefs...), m.SAM.EvidenceRefs...), m.SOM.EvidenceRefs...))
}

// AssumptionBasedSegments names the funnel segments flagged
// assumption-based, in TAM/SAM/SOM order.
func (m MarketModel) AssumptionBasedSegments() []string {
	var segs []string
	for _, s := range []struct {
		name string
		r    RangeEstimate
	}{{"TAM", m.TAM}, {"SAM", m.SAM}, {"SOM", m.SOM}} {
		if s.r.AssumptionBased() {
			segs = append(segs, s.name)
		}
	}
	return segs
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// ScenarioName identifies a bear/base/bull scenario.
type ScenarioName string

const (
	ScenarioBear ScenarioName = "bear"
	ScenarioBase ScenarioName = "base"
	ScenarioBull ScenarioName = "bull"
)

// Scenario is an alternate market model computed by re-invoking the builder
// under a named multiplier set. It never mutates the base model.
type Scenario struct {
	Name        ScenarioName       `json:"name"`
	Multipliers map[string]float64 `json:"multipliers"`
	Model       MarketModel        `json:"model"`
}

// SensitivityResult records the SOM impact of perturbing one assumption.
type SensitivityResult struct {
	AssumptionName string  `json:"assumption_name"`
	BaseSOM        float64 `json:"base_som"`
	ImpactMinus30  float64 `json:"impact_minus_30pct"`
	ImpactPlus30   float64 `json:"impact_plus_30pct"`
	Magnitude      float64 `json:"impact_magnitude"`
}
