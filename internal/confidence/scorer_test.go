package confidence

import (
	"testing"

	"github.com/atlasmv/atlas/internal/ledger"
	"github.com/atlasmv/atlas/internal/model"
)

func evidencedModel() model.MarketModel {
	r := model.RangeEstimate{Min: 0.9, Base: 1.0, Max: 1.2, Method: "weighted aggregation", EvidenceRefs: []string{"c1"}}
	return model.MarketModel{TAM: r, SAM: r, SOM: r}
}

func assumptionModel() model.MarketModel {
	r := model.RangeEstimate{
		Min: 0.5, Base: 1.0, Max: 2.0,
		Method:      model.MethodAssumptionBased,
		Assumptions: []string{"no market size evidence found"},
	}
	return model.MarketModel{TAM: r, SAM: r, SOM: r}
}

func snapshotWithSources(t *testing.T, creds ...model.Credibility) *ledger.Snapshot {
	t.Helper()
	led := ledger.New()
	for i, c := range creds {
		src := model.Source{
			URL:         "https://example.com/" + string(rune('a'+i)),
			Title:       "Source",
			Credibility: c,
		}
		if err := led.AddSource(src); err != nil {
			t.Fatalf("AddSource: %v", err)
		}
	}
	return led.Snapshot()
}

func TestScorer_ZeroSourcesScoresLow(t *testing.T) {
	s := NewScorer(model.DefaultConfig().Confidence)
	score, notes := s.Score(snapshotWithSources(t), assumptionModel(), nil, nil)
	if score > 20 {
		t.Errorf("score with no evidence = %d, want <= 20", score)
	}
	if len(notes) == 0 {
		t.Error("expected breakdown notes")
	}
}

func TestScorer_EvidenceCapApplies(t *testing.T) {
	cfg := model.DefaultConfig().Confidence
	s := NewScorer(cfg)
	snap := snapshotWithSources(t,
		model.CredibilityHigh, model.CredibilityHigh, model.CredibilityHigh, model.CredibilityHigh)
	score, _ := s.Score(snap, evidencedModel(), nil, nil)
	if score != cfg.MaxEvidencePoints {
		t.Errorf("score = %d, want evidence cap %d", score, cfg.MaxEvidencePoints)
	}
}

func TestScorer_RemovingRiskNeverLowersScore(t *testing.T) {
	s := NewScorer(model.DefaultConfig().Confidence)
	snap := snapshotWithSources(t, model.CredibilityHigh, model.CredibilityMedium)

	risks := []model.Risk{
		{Category: model.RiskRegulatory, Statement: "FDA approval required", Severity: model.SeverityHigh},
		{Category: model.RiskMarket, Statement: "shrinking segment", Severity: model.SeverityMedium},
	}
	withAll, _ := s.Score(snap, evidencedModel(), risks, []string{"negative growth reported"})
	fewerRisks, _ := s.Score(snap, evidencedModel(), risks[:1], []string{"negative growth reported"})
	noDisconfirming, _ := s.Score(snap, evidencedModel(), risks, nil)

	if fewerRisks < withAll {
		t.Errorf("removing a risk lowered score: %d -> %d", withAll, fewerRisks)
	}
	if noDisconfirming < withAll {
		t.Errorf("removing disconfirming evidence lowered score: %d -> %d", withAll, noDisconfirming)
	}
}

func TestScorer_AddingEvidenceNeverLowersScore(t *testing.T) {
	s := NewScorer(model.DefaultConfig().Confidence)
	small := snapshotWithSources(t, model.CredibilityLow)
	bigger := snapshotWithSources(t, model.CredibilityLow, model.CredibilityLow, model.CredibilityHigh)

	before, _ := s.Score(small, evidencedModel(), nil, nil)
	after, _ := s.Score(bigger, evidencedModel(), nil, nil)
	if after < before {
		t.Errorf("adding sources lowered score: %d -> %d", before, after)
	}
}

func TestScorer_AssumptionPenaltyPerSegment(t *testing.T) {
	cfg := model.DefaultConfig().Confidence
	s := NewScorer(cfg)
	snap := snapshotWithSources(t, model.CredibilityHigh)

	withEvidence, _ := s.Score(snap, evidencedModel(), nil, nil)
	allAssumed, _ := s.Score(snap, assumptionModel(), nil, nil)

	want := withEvidence - 3*cfg.AssumptionPenalty
	if want < 0 {
		want = 0
	}
	if allAssumed != want {
		t.Errorf("assumption-based score = %d, want %d", allAssumed, want)
	}
}

func TestScorer_ClampedToRange(t *testing.T) {
	s := NewScorer(model.DefaultConfig().Confidence)
	snap := snapshotWithSources(t)
	risks := []model.Risk{
		{Statement: "a", Severity: model.SeverityHigh},
		{Statement: "b", Severity: model.SeverityHigh},
		{Statement: "c", Severity: model.SeverityHigh},
		{Statement: "d", Severity: model.SeverityHigh},
	}
	score, _ := s.Score(snap, assumptionModel(), risks, []string{"x", "y", "z", "w"})
	if score < 0 || score > 100 {
		t.Errorf("score %d outside [0,100]", score)
	}
	if score != 0 {
		t.Errorf("heavily penalized empty-evidence score = %d, want 0", score)
	}
}
