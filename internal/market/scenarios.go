package market

import (
	"fmt"

	"github.com/atlasmv/atlas/internal/ledger"
	"github.com/atlasmv/atlas/internal/model"
)

// ScenarioGenerator re-invokes the builder under documented multiplier sets.
// No randomness anywhere: identical snapshot + identical config always
// reproduces identical scenarios.
type ScenarioGenerator struct {
	builder *Builder
	cfg     *model.Config
}

// NewScenarioGenerator creates a generator sharing the given builder.
func NewScenarioGenerator(builder *Builder, cfg *model.Config) *ScenarioGenerator {
	return &ScenarioGenerator{builder: builder, cfg: cfg}
}

// Generate returns the bear, base and bull scenarios in that order. The base
// scenario is the unmodified builder output; bear scales both funnel shares
// by the bear multiplier with lower-bound TAM weighting, bull symmetric.
func (g *ScenarioGenerator) Generate(snap *ledger.Snapshot, scope model.Scope, funnel FunnelAssumptions) ([]model.Scenario, error) {
	base, err := g.builder.Build(snap, scope, funnel)
	if err != nil {
		return nil, fmt.Errorf("base scenario: %w", err)
	}

	bear, err := g.scenario(snap, scope, funnel, model.ScenarioBear, g.cfg.Scenario.BearMultiplier, BiasLower)
	if err != nil {
		return nil, err
	}
	bull, err := g.scenario(snap, scope, funnel, model.ScenarioBull, g.cfg.Scenario.BullMultiplier, BiasUpper)
	if err != nil {
		return nil, err
	}

	return []model.Scenario{
		bear,
		{
			Name: model.ScenarioBase,
			Multipliers: map[string]float64{
				"addressable_share": 1,
				"obtainable_share":  1,
			},
			Model: base,
		},
		bull,
	}, nil
}

func (g *ScenarioGenerator) scenario(snap *ledger.Snapshot, scope model.Scope, funnel FunnelAssumptions, name model.ScenarioName, mult float64, bias Bias) (model.Scenario, error) {
	adjusted := FunnelAssumptions{
		AddressableShare: scaleShare(funnel.AddressableShare, mult, string(name)),
		ObtainableShare:  scaleShare(funnel.ObtainableShare, mult, string(name)),
	}
	m, err := g.builder.BuildWithBias(snap, scope, adjusted, bias)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("%s scenario: %w", name, err)
	}
	return model.Scenario{
		Name: name,
		Multipliers: map[string]float64{
			"addressable_share": mult,
			"obtainable_share":  mult,
		},
		Model: m,
	}, nil
}

// scaleShare multiplies every component of a share range, clamping to 1 so
// funnel monotonicity survives optimistic multipliers.
func scaleShare(share model.RangeEstimate, mult float64, scenario string) model.RangeEstimate {
	out := share
	out.Min = clampShare(share.Min * mult)
	out.Base = clampShare(share.Base * mult)
	out.Max = clampShare(share.Max * mult)
	out.Assumptions = append(append([]string{}, share.Assumptions...),
		fmt.Sprintf("%s scenario: share multiplied by %.2f", scenario, mult))
	return out
}

func clampShare(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
