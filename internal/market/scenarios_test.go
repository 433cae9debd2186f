package market

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/atlasmv/atlas/internal/model"
)

func TestScenarioGenerator_Order(t *testing.T) {
	cfg := model.DefaultConfig()
	b := NewBuilder(cfg)
	g := NewScenarioGenerator(b, cfg)
	snap := seededLedger(t).Snapshot()
	scope := testScope()

	scenarios, err := g.Generate(snap, scope, b.DefaultFunnel(scope))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(scenarios) != 3 {
		t.Fatalf("expected 3 scenarios, got %d", len(scenarios))
	}
	want := []model.ScenarioName{model.ScenarioBear, model.ScenarioBase, model.ScenarioBull}
	for i, name := range want {
		if scenarios[i].Name != name {
			t.Errorf("scenario %d = %q, want %q", i, scenarios[i].Name, name)
		}
	}
}

func TestScenarioGenerator_BearBelowBaseBelowBull(t *testing.T) {
	cfg := model.DefaultConfig()
	b := NewBuilder(cfg)
	g := NewScenarioGenerator(b, cfg)
	snap := seededLedger(t).Snapshot()
	scope := testScope()

	scenarios, err := g.Generate(snap, scope, b.DefaultFunnel(scope))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	bear, base, bull := scenarios[0].Model, scenarios[1].Model, scenarios[2].Model

	if !(bear.SOM.Base < base.SOM.Base) {
		t.Errorf("bear som.base %g not below base %g", bear.SOM.Base, base.SOM.Base)
	}
	if !(base.SOM.Base < bull.SOM.Base) {
		t.Errorf("bull som.base %g not above base %g", bull.SOM.Base, base.SOM.Base)
	}
	for i, s := range scenarios {
		if err := s.Model.Validate(); err != nil {
			t.Errorf("scenario %d violates model invariants: %v", i, err)
		}
	}
}

func TestScenarioGenerator_Deterministic(t *testing.T) {
	cfg := model.DefaultConfig()
	snap := seededLedger(t).Snapshot()
	scope := testScope()

	var outputs [][]byte
	for i := 0; i < 3; i++ {
		b := NewBuilder(cfg)
		g := NewScenarioGenerator(b, cfg)
		scenarios, err := g.Generate(snap, scope, b.DefaultFunnel(scope))
		if err != nil {
			t.Fatalf("Generate run %d: %v", i, err)
		}
		raw, err := json.Marshal(scenarios)
		if err != nil {
			t.Fatalf("marshal run %d: %v", i, err)
		}
		outputs = append(outputs, raw)
	}
	for i := 1; i < len(outputs); i++ {
		if !bytes.Equal(outputs[0], outputs[i]) {
			t.Fatalf("scenario outputs differ between runs:\n%s\n%s", outputs[0], outputs[i])
		}
	}
}

func TestScenarioGenerator_DoesNotMutateBaseFunnel(t *testing.T) {
	cfg := model.DefaultConfig()
	b := NewBuilder(cfg)
	g := NewScenarioGenerator(b, cfg)
	snap := seededLedger(t).Snapshot()
	scope := testScope()

	funnel := b.DefaultFunnel(scope)
	origBase := funnel.AddressableShare.Base
	if _, err := g.Generate(snap, scope, funnel); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if funnel.AddressableShare.Base != origBase {
		t.Error("generator mutated the caller's funnel assumptions")
	}
}
