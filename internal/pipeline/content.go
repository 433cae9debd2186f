package pipeline

import (
	"fmt"
	"strings"

	"github.com/atlasmv/atlas/internal/ledger"
	"github.com/atlasmv/atlas/internal/model"
	"github.com/atlasmv/atlas/internal/research"
	"github.com/atlasmv/atlas/internal/risk"
)

// competitorEntries builds competitor rows from competitor claims. Fields
// the evidence does not state are marked unknown, never invented, and every
// entry carries the source URL of the claim behind it.
func competitorEntries(snap *ledger.Snapshot) []model.Competitor {
	var out []model.Competitor
	seen := make(map[string]bool)
	for _, c := range snap.Query(model.ClaimTypeCompetitor, "") {
		if c.Superseded || seen[c.Text] {
			continue
		}
		seen[c.Text] = true
		out = append(out, model.Competitor{
			Name:           c.Text,
			Positioning:    "unknown",
			Pricing:        "unknown",
			Geography:      "unknown",
			Differentiator: "unknown",
			SourceURL:      c.SourceURL,
		})
	}
	return out
}

// buildReport assembles the response from the decision and its inputs.
// All content is derived deterministically from the decision; nothing here
// re-scores or re-decides.
func buildReport(req model.AnalyzeRequest, d model.Decision, snap *ledger.Snapshot, competitors []model.Competitor, stats research.CollectStats, scoreNotes []string) *model.Report {
	report := &model.Report{
		Idea:                  req.Idea,
		Verdict:               d.Verdict,
		ConfidenceScore:       d.ConfidenceScore,
		Conditions:            d.Conditions,
		Market:                d.Market,
		Competitors:           competitors,
		Risks:                 risk.Group(d.Risks),
		Assumptions:           d.Assumptions,
		DisconfirmingEvidence: d.DisconfirmingEvidence,
		Sources:               snap.Sources(),
		KeyUnknowns:           keyUnknowns(d, snap, stats),
		NextSevenDayTests:     validationTests(req, d),
		Scenarios:             scenarioSet(d.Scenarios),
		Sensitivity:           d.Sensitivity,
		DecisionID:            d.ID,
		GeneratedAt:           d.CreatedAt,
	}
	report.ExecutiveSummary = executiveSummary(req, d, snap, competitors)
	if req.Debug {
		report.EvidenceLedger = snap.Claims()
		report.ExecutiveSummary = append(report.ExecutiveSummary, scoreNotes...)
	}
	return report
}

func executiveSummary(req model.AnalyzeRequest, d model.Decision, snap *ledger.Snapshot, competitors []model.Competitor) []string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Verdict: %s with confidence %d/100.", d.Verdict, d.ConfidenceScore))
	lines = append(lines, fmt.Sprintf("Scope: %s, %s, %s customers, %s model.",
		req.Industry, req.Geography, req.CustomerType, req.BusinessModel))

	tam := d.Market.TAM
	if tam.AssumptionBased() {
		lines = append(lines, fmt.Sprintf(
			"TAM is assumption-based at $%.2fB-$%.2fB; no market size evidence was found in scope.", tam.Min, tam.Max))
	} else {
		lines = append(lines, fmt.Sprintf(
			"TAM estimated at $%.2fB-$%.2fB (base $%.2fB) from %d evidence reference(s).",
			tam.Min, tam.Max, tam.Base, len(tam.EvidenceRefs)))
	}
	lines = append(lines, fmt.Sprintf("Obtainable market (SOM) base case: $%.3fB.", d.Market.SOM.Base))
	lines = append(lines, fmt.Sprintf("Evidence base: %d claim(s) from %d source(s).", countActive(snap), len(snap.Sources())))

	if len(competitors) > 0 {
		lines = append(lines, fmt.Sprintf("%d competitor(s) identified in the evidence.", len(competitors)))
	}
	if high := countHighSeverity(d.Risks); high > 0 {
		lines = append(lines, fmt.Sprintf("%d high-severity risk(s) flagged.", high))
	}
	if len(d.DisconfirmingEvidence) > 0 {
		lines = append(lines, fmt.Sprintf("%d disconfirming signal(s) weigh against the idea.", len(d.DisconfirmingEvidence)))
	}
	if len(d.Conditions) > 0 {
		lines = append(lines, fmt.Sprintf("Conditional on: %s", strings.Join(d.Conditions, "; ")))
	}
	if len(d.Sensitivity) > 0 {
		lines = append(lines, fmt.Sprintf("Most sensitive assumption: %s.", d.Sensitivity[0].AssumptionName))
	}
	return lines
}

func keyUnknowns(d model.Decision, snap *ledger.Snapshot, stats research.CollectStats) []string {
	var unknowns []string
	for _, seg := range d.Market.AssumptionBasedSegments() {
		unknowns = append(unknowns, fmt.Sprintf("%s size is assumed, not evidenced", seg))
	}
	if len(snap.Query(model.ClaimTypePricing, "")) == 0 {
		unknowns = append(unknowns, "No pricing evidence: willingness to pay is unverified")
	}
	if len(snap.Query(model.ClaimTypeGrowthRate, "")) == 0 {
		unknowns = append(unknowns, "No growth rate evidence: market trajectory is unknown")
	}
	if len(snap.Query(model.ClaimTypeCompetitor, "")) == 0 {
		unknowns = append(unknowns, "No competitors identified: the landscape is unmapped or the evidence is thin")
	}
	for _, f := range stats.Failures {
		unknowns = append(unknowns, fmt.Sprintf("Source unavailable, coverage reduced: %s", f.URL))
	}
	return unknowns
}

// validationTests proposes concrete evidence-gathering tests scaled to what
// the analysis found weakest.
func validationTests(req model.AnalyzeRequest, d model.Decision) []model.ValidationTest {
	var tests []model.ValidationTest
	if d.Market.TAM.AssumptionBased() {
		tests = append(tests, model.ValidationTest{
			Test:             "Ground the market size estimate",
			Method:           fmt.Sprintf("Pull two analyst reports covering %s in %s", req.Industry, req.Geography),
			SuccessThreshold: "Two independent sources within 2x of each other",
		})
	}
	tests = append(tests, model.ValidationTest{
		Test:             "Problem interviews",
		Method:           fmt.Sprintf("Interview 10 %s buyers about the problem and current workarounds", req.CustomerType),
		SuccessThreshold: "7 of 10 describe the problem unprompted as a top-3 pain",
	})
	if req.PriceAssumption != nil {
		tests = append(tests, model.ValidationTest{
			Test:             "Price validation",
			Method:           fmt.Sprintf("Offer a paid pilot at $%.2f to 5 prospects", *req.PriceAssumption),
			SuccessThreshold: "2 of 5 commit at the stated price",
		})
	} else {
		tests = append(tests, model.ValidationTest{
			Test:             "Willingness-to-pay probe",
			Method:           "Van Westendorp survey with 30 target buyers",
			SuccessThreshold: "Acceptable price range excludes zero",
		})
	}
	tests = append(tests, model.ValidationTest{
		Test:             "Landing page smoke test",
		Method:           fmt.Sprintf("Run a %s landing page with a signup call to action for 7 days", req.BusinessModel),
		SuccessThreshold: "Visitor-to-signup conversion above 5%",
	})
	return tests
}

func scenarioSet(scenarios []model.Scenario) model.ScenarioSet {
	var set model.ScenarioSet
	for _, s := range scenarios {
		switch s.Name {
		case model.ScenarioBear:
			set.Bear = s
		case model.ScenarioBase:
			set.Base = s
		case model.ScenarioBull:
			set.Bull = s
		}
	}
	return set
}

func countActive(snap *ledger.Snapshot) int {
	n := 0
	for _, c := range snap.Claims() {
		if !c.Superseded {
			n++
		}
	}
	return n
}

func countHighSeverity(risks []model.Risk) int {
	n := 0
	for _, r := range risks {
		if r.Severity == model.SeverityHigh {
			n++
		}
	}
	return n
}
