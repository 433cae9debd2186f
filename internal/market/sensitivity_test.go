package market

import (
	"testing"

	"github.com/atlasmv/atlas/internal/ledger"
	"github.com/atlasmv/atlas/internal/model"
)

func TestAnalyzer_SortedByMagnitudeDescending(t *testing.T) {
	cfg := model.DefaultConfig()
	b := NewBuilder(cfg)
	a := NewAnalyzer(b, cfg)
	snap := seededLedger(t).Snapshot()
	scope := testScope()

	results, err := a.Analyze(snap, scope, b.DefaultFunnel(scope))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected sensitivity results")
	}
	for i := 1; i < len(results); i++ {
		if results[i].Magnitude > results[i-1].Magnitude {
			t.Errorf("results not sorted descending at %d: %g > %g", i, results[i].Magnitude, results[i-1].Magnitude)
		}
	}
}

func TestAnalyzer_MagnitudeDefinition(t *testing.T) {
	cfg := model.DefaultConfig()
	b := NewBuilder(cfg)
	a := NewAnalyzer(b, cfg)
	snap := seededLedger(t).Snapshot()
	scope := testScope()

	results, err := a.Analyze(snap, scope, b.DefaultFunnel(scope))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for _, r := range results {
		down := r.BaseSOM - r.ImpactMinus30
		if down < 0 {
			down = -down
		}
		up := r.BaseSOM - r.ImpactPlus30
		if up < 0 {
			up = -up
		}
		want := down
		if up > want {
			want = up
		}
		if r.Magnitude != want {
			t.Errorf("%s: magnitude %g, want max(|base-minus|,|base-plus|)=%g", r.AssumptionName, r.Magnitude, want)
		}
	}
}

func TestAnalyzer_StableTieOrder(t *testing.T) {
	// Both funnel shares scale SOM linearly, so their magnitudes tie.
	// Declaration order (addressable before obtainable) must survive the sort.
	cfg := model.DefaultConfig()
	b := NewBuilder(cfg)
	a := NewAnalyzer(b, cfg)
	snap := seededLedger(t).Snapshot()
	scope := testScope()

	results, err := a.Analyze(snap, scope, b.DefaultFunnel(scope))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(results) < 2 {
		t.Fatalf("expected both funnel shares tracked, got %d results", len(results))
	}
	names := []string{results[0].AssumptionName, results[1].AssumptionName}
	if names[0] != "Addressable share of TAM" && names[1] != "Addressable share of TAM" {
		t.Fatalf("funnel shares not ranked first: %v", names)
	}
	if results[0].Magnitude == results[1].Magnitude && names[0] != "Addressable share of TAM" {
		t.Errorf("tie order = %v, want declaration order (addressable first)", names)
	}
}

func TestAnalyzer_PriceHasZeroImpact(t *testing.T) {
	cfg := model.DefaultConfig()
	b := NewBuilder(cfg)
	a := NewAnalyzer(b, cfg)
	snap := seededLedger(t).Snapshot()
	scope := testScope()
	scope.PriceAssumption = fval(49.0)

	results, err := a.Analyze(snap, scope, b.DefaultFunnel(scope))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	var price *model.SensitivityResult
	for i := range results {
		if results[i].AssumptionName == "Price assumption" {
			price = &results[i]
		}
	}
	if price == nil {
		t.Fatal("price assumption not tracked despite being supplied")
	}
	if price.Magnitude != 0 {
		t.Errorf("price magnitude = %g, want 0: price never derives market size", price.Magnitude)
	}
	// Zero magnitude sorts last.
	if results[len(results)-1].AssumptionName != "Price assumption" {
		t.Errorf("price not ranked last: %v", results)
	}
}

func TestAnalyzer_DefaultTAMTrackedOnlyWhenAssumptionBased(t *testing.T) {
	cfg := model.DefaultConfig()
	b := NewBuilder(cfg)
	a := NewAnalyzer(b, cfg)
	scope := testScope()

	withEvidence, err := a.Analyze(seededLedger(t).Snapshot(), scope, b.DefaultFunnel(scope))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for _, r := range withEvidence {
		if r.AssumptionName == "Default TAM" {
			t.Error("default TAM tracked despite evidence-backed TAM")
		}
	}

	empty, err := a.Analyze(ledger.New().Snapshot(), scope, b.DefaultFunnel(scope))
	if err != nil {
		t.Fatalf("Analyze empty: %v", err)
	}
	found := false
	for _, r := range empty {
		if r.AssumptionName == "Default TAM" {
			found = true
			if r.Magnitude == 0 {
				t.Error("default TAM perturbation should move som.base")
			}
		}
	}
	if !found {
		t.Error("default TAM not tracked for assumption-based model")
	}
}
