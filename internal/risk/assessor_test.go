package risk

import (
	"testing"

	"github.com/atlasmv/atlas/internal/ledger"
	"github.com/atlasmv/atlas/internal/model"
)

func seededLedger(t *testing.T) *ledger.Snapshot {
	t.Helper()
	led := ledger.New()
	src := model.Source{URL: "https://example.gov/report", Title: "Report", Credibility: model.CredibilityHigh}
	if err := led.AddSource(src); err != nil {
		t.Fatalf("AddSource: %v", err)
	}

	neg := -3.5
	claims := []model.Claim{
		{Text: "Requires FDA approval before launch", Type: model.ClaimTypeRegulatory, SourceURL: src.URL, Credibility: model.CredibilityHigh},
		{Text: "GDPR oversight applies to EU customers", Type: model.ClaimTypeRegulatory, SourceURL: src.URL, Credibility: model.CredibilityHigh},
		{Text: "Acme Corp is the dominant incumbent", Type: model.ClaimTypeCompetitor, SourceURL: src.URL, Credibility: model.CredibilityHigh},
		{Text: "Segment revenue declining 3.5% annually", Type: model.ClaimTypeGrowthRate, Value: &neg, Unit: "percent", SourceURL: src.URL, Credibility: model.CredibilityHigh},
		{Text: "High customer acquisition cost in this channel", Type: model.ClaimTypeOther, SourceURL: src.URL, Credibility: model.CredibilityHigh},
	}
	for i := range claims {
		if _, err := led.Append(claims[i]); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}
	return led.Snapshot()
}

func TestAssessor_CategorizesLedgerClaims(t *testing.T) {
	snap := seededLedger(t)
	risks := NewAssessor().Assess(snap, nil)

	counts := map[model.RiskCategory]int{}
	for _, r := range risks {
		counts[r.Category]++
		if len(r.EvidenceRefs) == 0 {
			t.Errorf("risk %q has no evidence refs", r.Statement)
		}
	}
	if counts[model.RiskRegulatory] != 2 {
		t.Errorf("regulatory risks = %d, want 2", counts[model.RiskRegulatory])
	}
	if counts[model.RiskCompetition] != 1 {
		t.Errorf("competition risks = %d, want 1", counts[model.RiskCompetition])
	}
	if counts[model.RiskMarket] != 1 {
		t.Errorf("market risks = %d, want 1", counts[model.RiskMarket])
	}
	if counts[model.RiskDistribution] != 1 {
		t.Errorf("distribution risks = %d, want 1", counts[model.RiskDistribution])
	}
}

func TestAssessor_SeverityKeywords(t *testing.T) {
	snap := seededLedger(t)
	risks := NewAssessor().Assess(snap, nil)

	bySt := map[string]model.RiskSeverity{}
	for _, r := range risks {
		bySt[r.Statement] = r.Severity
	}
	if got := bySt["Requires FDA approval before launch"]; got != model.SeverityHigh {
		t.Errorf("FDA claim severity = %q, want high", got)
	}
	if got := bySt["GDPR oversight applies to EU customers"]; got != model.SeverityMedium {
		t.Errorf("GDPR claim severity = %q, want medium", got)
	}
	if got := bySt["Competitor in scope: Acme Corp is the dominant incumbent"]; got != model.SeverityHigh {
		t.Errorf("dominant competitor severity = %q, want high", got)
	}
}

func TestAssessor_SuppliedStatementsGetDefaults(t *testing.T) {
	led := ledger.New()
	supplied := []model.Risk{
		{Statement: "Founding team has no domain background"},
		{Statement: "   "},
	}
	risks := NewAssessor().Assess(led.Snapshot(), supplied)
	if len(risks) != 1 {
		t.Fatalf("risks = %d, want 1 (blank statement dropped)", len(risks))
	}
	if risks[0].Category != model.RiskMarket || risks[0].Severity != model.SeverityMedium {
		t.Errorf("defaults = %s/%s, want market/medium", risks[0].Category, risks[0].Severity)
	}
}

func TestAssessor_SuppliedStatementsClassifiedByKeyword(t *testing.T) {
	led := ledger.New()
	supplied := []model.Risk{
		{Statement: "Incumbent banks will block distribution channels"},
		{Statement: "Compliance review could delay the launch"},
		{Statement: "Rival products ship the same feature set"},
	}
	risks := NewAssessor().Assess(led.Snapshot(), supplied)
	if len(risks) != 3 {
		t.Fatalf("risks = %d, want 3", len(risks))
	}
	want := []model.RiskCategory{model.RiskDistribution, model.RiskRegulatory, model.RiskCompetition}
	for i, cat := range want {
		if risks[i].Category != cat {
			t.Errorf("risks[%d].Category = %s, want %s (%q)", i, risks[i].Category, cat, risks[i].Statement)
		}
	}
}

func marketSizeLedger(t *testing.T, values ...float64) *ledger.Snapshot {
	t.Helper()
	led := ledger.New()
	src := model.Source{URL: "https://www.statista.com/outlook", Title: "Outlook", Credibility: model.CredibilityHigh}
	if err := led.AddSource(src); err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	for i := range values {
		c := model.Claim{
			Text:        "Market size estimate",
			Type:        model.ClaimTypeMarketSize,
			Value:       &values[i],
			Unit:        "billion_usd",
			SourceURL:   src.URL,
			Credibility: model.CredibilityHigh,
		}
		if _, err := led.Append(c); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}
	return led.Snapshot()
}

func TestAssessor_SingleMarketSizeDatapoint(t *testing.T) {
	snap := marketSizeLedger(t, 1.2)
	risks := NewAssessor().Assess(snap, nil)
	if len(risks) != 1 {
		t.Fatalf("risks = %d, want 1", len(risks))
	}
	r := risks[0]
	if r.Category != model.RiskMarket || r.Severity != model.SeverityMedium {
		t.Errorf("risk = %s/%s, want market/medium", r.Category, r.Severity)
	}
	if want := "Only one market size data point"; len(r.Statement) < len(want) || r.Statement[:len(want)] != want {
		t.Errorf("statement = %q", r.Statement)
	}
	if len(r.EvidenceRefs) != 1 {
		t.Errorf("evidence refs = %v, want the single claim", r.EvidenceRefs)
	}
}

func TestAssessor_MarketSizeSpreadFlagged(t *testing.T) {
	// Spread 1.5 against mean 1.25 is 120%, well past the 50% threshold.
	snap := marketSizeLedger(t, 0.5, 2.0)
	risks := NewAssessor().Assess(snap, nil)
	if len(risks) != 1 {
		t.Fatalf("risks = %d, want 1", len(risks))
	}
	r := risks[0]
	if r.Category != model.RiskMarket {
		t.Errorf("category = %s, want market", r.Category)
	}
	if want := "Market size estimates vary by 120.0%"; len(r.Statement) < len(want) || r.Statement[:len(want)] != want {
		t.Errorf("statement = %q", r.Statement)
	}
	if len(r.EvidenceRefs) != 2 {
		t.Errorf("evidence refs = %v, want both claims", r.EvidenceRefs)
	}
}

func TestAssessor_ConsistentMarketSizeNotFlagged(t *testing.T) {
	// Spread 0.3 against mean ~1.03 stays under the threshold.
	snap := marketSizeLedger(t, 0.9, 1.0, 1.2)
	if risks := NewAssessor().Assess(snap, nil); len(risks) != 0 {
		t.Errorf("risks = %+v, want none for consistent estimates", risks)
	}
}

func TestAssessor_SkipsSupersededClaims(t *testing.T) {
	led := ledger.New()
	src := model.Source{URL: "https://example.com", Title: "E", Credibility: model.CredibilityMedium}
	if err := led.AddSource(src); err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	oldID, err := led.Append(model.Claim{Text: "Old license requirement", Type: model.ClaimTypeRegulatory, SourceURL: src.URL, Credibility: model.CredibilityMedium})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := led.Supersede(oldID, model.Claim{Text: "License requirement repealed, oversight remains", Type: model.ClaimTypeRegulatory, SourceURL: src.URL, Credibility: model.CredibilityMedium}); err != nil {
		t.Fatalf("Supersede: %v", err)
	}

	risks := NewAssessor().Assess(led.Snapshot(), nil)
	if len(risks) != 1 {
		t.Fatalf("risks = %d, want 1", len(risks))
	}
	if risks[0].Statement != "License requirement repealed, oversight remains" {
		t.Errorf("kept statement = %q, want the superseding one", risks[0].Statement)
	}
}

func TestGroup_EmptyCategoriesStayEmpty(t *testing.T) {
	g := Group([]model.Risk{
		{Category: model.RiskMarket, Statement: "shrinking segment"},
	})
	if len(g.Market) != 1 {
		t.Errorf("market = %v, want one entry", g.Market)
	}
	if g.Competition != nil || g.Regulatory != nil || g.Distribution != nil {
		t.Errorf("empty categories padded: %+v", g)
	}
}
