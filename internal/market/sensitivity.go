package market

import (
	"fmt"
	"math"
	"sort"

	"github.com/atlasmv/atlas/internal/ledger"
	"github.com/atlasmv/atlas/internal/model"
)

// Analyzer perturbs tracked assumptions one at a time and ranks their impact
// on the obtainable market.
type Analyzer struct {
	builder *Builder
	cfg     *model.Config
}

// NewAnalyzer creates a sensitivity analyzer sharing the given builder.
func NewAnalyzer(builder *Builder, cfg *model.Config) *Analyzer {
	return &Analyzer{builder: builder, cfg: cfg}
}

// trackedAssumption is one builder-level parameter flagged for sensitivity
// tracking. apply rebuilds the model with the assumption scaled by factor,
// holding everything else fixed.
type trackedAssumption struct {
	name  string
	apply func(snap *ledger.Snapshot, scope model.Scope, funnel FunnelAssumptions, factor float64) (model.MarketModel, error)
}

// Analyze perturbs each tracked assumption by the configured fraction in
// both directions, recomputes som.base, and returns results ordered by
// impact magnitude descending, ties broken by declaration order.
func (a *Analyzer) Analyze(snap *ledger.Snapshot, scope model.Scope, funnel FunnelAssumptions) ([]model.SensitivityResult, error) {
	base, err := a.builder.Build(snap, scope, funnel)
	if err != nil {
		return nil, fmt.Errorf("base model: %w", err)
	}
	baseSOM := base.SOM.Base

	tracked := a.trackedAssumptions(base, scope)
	p := a.cfg.Sensitivity.Perturbation

	results := make([]model.SensitivityResult, 0, len(tracked))
	for _, t := range tracked {
		down, err := t.apply(snap, scope, funnel, 1-p)
		if err != nil {
			return nil, fmt.Errorf("perturb %s -%.0f%%: %w", t.name, p*100, err)
		}
		up, err := t.apply(snap, scope, funnel, 1+p)
		if err != nil {
			return nil, fmt.Errorf("perturb %s +%.0f%%: %w", t.name, p*100, err)
		}
		minus := down.SOM.Base
		plus := up.SOM.Base
		results = append(results, model.SensitivityResult{
			AssumptionName: t.name,
			BaseSOM:        baseSOM,
			ImpactMinus30:  minus,
			ImpactPlus30:   plus,
			Magnitude:      math.Max(math.Abs(baseSOM-minus), math.Abs(baseSOM-plus)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Magnitude > results[j].Magnitude
	})
	return results, nil
}

func (a *Analyzer) trackedAssumptions(base model.MarketModel, scope model.Scope) []trackedAssumption {
	tracked := []trackedAssumption{
		{
			name: "Addressable share of TAM",
			apply: func(snap *ledger.Snapshot, scope model.Scope, funnel FunnelAssumptions, factor float64) (model.MarketModel, error) {
				f := funnel
				f.AddressableShare = scaleShare(funnel.AddressableShare, factor, "sensitivity")
				return a.builder.Build(snap, scope, f)
			},
		},
		{
			name: "Obtainable share of SAM",
			apply: func(snap *ledger.Snapshot, scope model.Scope, funnel FunnelAssumptions, factor float64) (model.MarketModel, error) {
				f := funnel
				f.ObtainableShare = scaleShare(funnel.ObtainableShare, factor, "sensitivity")
				return a.builder.Build(snap, scope, f)
			},
		},
	}

	// The declared default TAM is only an assumption when no market_size
	// evidence was in scope; evidence-derived TAM is not perturbed.
	if base.TAM.AssumptionBased() {
		tracked = append(tracked, trackedAssumption{
			name: "Default TAM",
			apply: func(snap *ledger.Snapshot, scope model.Scope, funnel FunnelAssumptions, factor float64) (model.MarketModel, error) {
				return a.builder.build(snap, scope, funnel, buildParams{tamScale: factor})
			},
		})
	}

	// Price frames revenue downstream and never fabricates market size, so
	// its SOM impact is legitimately zero. It stays tracked to make that
	// visible in the ranked output.
	if scope.PriceAssumption != nil {
		tracked = append(tracked, trackedAssumption{
			name: "Price assumption",
			apply: func(snap *ledger.Snapshot, scope model.Scope, funnel FunnelAssumptions, factor float64) (model.MarketModel, error) {
				perturbed := *scope.PriceAssumption * factor
				s := scope
				s.PriceAssumption = &perturbed
				return a.builder.Build(snap, s, funnel)
			},
		})
	}

	return tracked
}
