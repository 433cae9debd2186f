// Package market folds ledger evidence and declared assumptions into the
// TAM -> SAM -> SOM funnel, and derives scenarios and sensitivity rankings
// from it. Everything here is pure computation over a fixed ledger snapshot.
package market

import (
	"fmt"
	"strings"

	"github.com/atlasmv/atlas/internal/ledger"
	"github.com/atlasmv/atlas/internal/model"
)

// Bias shifts the TAM base within the observed evidence bounds. Scenarios
// use it for lower/upper-bound weighting; the base model uses BiasNone.
type Bias int

const (
	BiasNone Bias = iota
	BiasLower
	BiasUpper
)

// FunnelAssumptions are the two share ranges that turn TAM into SAM and SAM
// into SOM. Each may come from claims or from declared defaults.
type FunnelAssumptions struct {
	AddressableShare model.RangeEstimate
	ObtainableShare  model.RangeEstimate
}

// Builder constructs market models from a ledger snapshot plus assumptions.
type Builder struct {
	cfg *model.Config
}

// NewBuilder creates a builder over the given configuration.
func NewBuilder(cfg *model.Config) *Builder {
	return &Builder{cfg: cfg}
}

// DefaultFunnel returns the declared funnel share defaults for the scope.
// Customer type selects the addressable share band, following the convention
// that enterprise reach is narrower and consumer reach wider.
func (b *Builder) DefaultFunnel(scope model.Scope) FunnelAssumptions {
	addr := b.cfg.Funnel.AddressableShare
	band := "default"
	ct := strings.ToLower(scope.CustomerType)
	switch {
	case strings.Contains(ct, "enterprise") || strings.Contains(ct, "b2b"):
		addr = b.cfg.Funnel.AddressableShareEnterprise
		band = "enterprise"
	case strings.Contains(ct, "consumer") || strings.Contains(ct, "b2c"):
		addr = b.cfg.Funnel.AddressableShareConsumer
		band = "consumer"
	}
	obt := b.cfg.Funnel.ObtainableShare

	return FunnelAssumptions{
		AddressableShare: model.RangeEstimate{
			Min: addr.Min, Base: addr.Base, Max: addr.Max,
			Method: model.MethodAssumptionBased + ": declared funnel default",
			Assumptions: []string{
				fmt.Sprintf("Addressable share of TAM assumed at %.0f%%-%.0f%% (base %.0f%%), %s band for customer type %q",
					addr.Min*100, addr.Max*100, addr.Base*100, band, scope.CustomerType),
			},
		},
		ObtainableShare: model.RangeEstimate{
			Min: obt.Min, Base: obt.Base, Max: obt.Max,
			Method: model.MethodAssumptionBased + ": declared funnel default",
			Assumptions: []string{
				fmt.Sprintf("Obtainable share of SAM assumed at %.1f%%-%.1f%% (base %.1f%%), typical early-stage penetration",
					obt.Min*100, obt.Max*100, obt.Base*100),
			},
		},
	}
}

// Build constructs the base market model.
func (b *Builder) Build(snap *ledger.Snapshot, scope model.Scope, funnel FunnelAssumptions) (model.MarketModel, error) {
	return b.build(snap, scope, funnel, buildParams{tamScale: 1})
}

// BuildWithBias constructs a market model with lower/upper-bound TAM
// weighting. Used by the scenario generator.
func (b *Builder) BuildWithBias(snap *ledger.Snapshot, scope model.Scope, funnel FunnelAssumptions, bias Bias) (model.MarketModel, error) {
	return b.build(snap, scope, funnel, buildParams{bias: bias, tamScale: 1})
}

type buildParams struct {
	bias     Bias
	tamScale float64 // scales the declared default TAM, sensitivity only
}

func (b *Builder) build(snap *ledger.Snapshot, scope model.Scope, funnel FunnelAssumptions, p buildParams) (model.MarketModel, error) {
	if err := validateShare("addressable_share", funnel.AddressableShare); err != nil {
		return model.MarketModel{}, err
	}
	if err := validateShare("obtainable_share", funnel.ObtainableShare); err != nil {
		return model.MarketModel{}, err
	}

	tam := b.aggregateTAM(snap, scope, p)

	sam := tam.MulInterval(funnel.AddressableShare)
	sam.Method = "top-down: TAM × addressable share"
	sam.Assumptions = append(append([]string{}, funnel.AddressableShare.Assumptions...),
		fmt.Sprintf("SAM = TAM × addressable share (%.0f%% base)", funnel.AddressableShare.Base*100))
	sam.EvidenceRefs = unionRefs(tam.EvidenceRefs, funnel.AddressableShare.EvidenceRefs)
	if len(sam.EvidenceRefs) == 0 {
		sam.Method = model.MethodAssumptionBased + ": " + sam.Method
	}

	som := sam.MulInterval(funnel.ObtainableShare)
	som.Method = "top-down: SAM × obtainable share"
	som.Assumptions = append(append([]string{}, funnel.ObtainableShare.Assumptions...),
		fmt.Sprintf("SOM = SAM × obtainable share (%.1f%% base)", funnel.ObtainableShare.Base*100))
	som.EvidenceRefs = unionRefs(sam.EvidenceRefs, funnel.ObtainableShare.EvidenceRefs)
	if len(som.EvidenceRefs) == 0 {
		som.Method = model.MethodAssumptionBased + ": " + som.Method
	}

	// A supplied price assumption frames revenue downstream; it never
	// substitutes for absent market-size evidence.
	if scope.PriceAssumption != nil {
		som.Assumptions = append(som.Assumptions,
			fmt.Sprintf("Price assumption $%.2f informs revenue framing only; not used to derive market size", *scope.PriceAssumption))
	}

	m := model.MarketModel{TAM: tam, SAM: sam, SOM: som}
	if err := m.Validate(); err != nil {
		return model.MarketModel{}, fmt.Errorf("market model invariant: %w", err)
	}
	return m, nil
}

// aggregateTAM folds in-scope market_size claims into a weighted range.
// Weight is the credibility-derived factor; base is the credibility-weighted
// mean, min/max the lowest/highest credible values observed. With zero
// usable claims the TAM comes entirely from the declared default and is
// tagged assumption-based.
func (b *Builder) aggregateTAM(snap *ledger.Snapshot, scope model.Scope, p buildParams) model.RangeEstimate {
	var (
		values  []float64
		weights []float64
		refs    []string
	)
	for _, c := range snap.Query(model.ClaimTypeMarketSize, "") {
		if c.Superseded || c.Value == nil {
			continue
		}
		values = append(values, NormalizeToBillions(*c.Value, c.Unit))
		weights = append(weights, c.Credibility.Weight())
		refs = append(refs, c.ID)
	}

	if len(values) == 0 {
		d := b.cfg.Funnel.DefaultTAM
		scale := p.tamScale
		if scale <= 0 {
			scale = 1
		}
		return model.RangeEstimate{
			Min:    d.Min * scale,
			Base:   d.Base * scale,
			Max:    d.Max * scale,
			Method: model.MethodAssumptionBased,
			Assumptions: []string{
				fmt.Sprintf("No market_size evidence in scope for industry %q (%s); TAM taken from declared default range $%.1fB-$%.1fB",
					scope.Industry, scope.Geography, d.Min*scale, d.Max*scale),
				"Default TAM must be validated with primary market research before relying on this estimate",
			},
		}
	}

	var weightedSum, weightSum float64
	minV, maxV := values[0], values[0]
	for i, v := range values {
		weightedSum += v * weights[i]
		weightSum += weights[i]
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	base := weightedSum / weightSum

	switch p.bias {
	case BiasLower:
		base = (minV + base) / 2
	case BiasUpper:
		base = (base + maxV) / 2
	}

	return model.RangeEstimate{
		Min:  minV,
		Base: base,
		Max:  maxV,
		Method: fmt.Sprintf("credibility-weighted aggregate of %d market_size claim(s); base = weighted mean, bounds = observed extremes",
			len(values)),
		Assumptions: []string{
			fmt.Sprintf("Assumes reported market size figures for %q are accurate and represent the total addressable market", scope.Industry),
			fmt.Sprintf("Geographic scope: %s", scope.Geography),
		},
		EvidenceRefs: refs,
	}
}

func validateShare(name string, r model.RangeEstimate) error {
	if err := r.Validate(); err != nil {
		return &model.ValidationError{Field: name, Reason: err.Error()}
	}
	if r.Max > 1 {
		return &model.ValidationError{Field: name, Reason: fmt.Sprintf("share must be <= 1, got max=%g", r.Max)}
	}
	return nil
}

func unionRefs(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// NormalizeToBillions converts a value with a free-text unit to billions
// USD. Unclear units are assumed to already be billions.
func NormalizeToBillions(value float64, unit string) float64 {
	u := strings.ToLower(unit)
	switch {
	case strings.Contains(u, "trillion"):
		return value * 1000
	case strings.Contains(u, "billion"):
		return value
	case strings.Contains(u, "million"):
		return value / 1000
	case strings.Contains(u, "thousand"):
		return value / 1_000_000
	case u == "t":
		return value * 1000
	case u == "b":
		return value
	case u == "m":
		return value / 1000
	case u == "k":
		return value / 1_000_000
	default:
		return value
	}
}
