// Package risk aggregates categorized risk statements from ledger evidence
// and caller-supplied context.
package risk

import (
	"fmt"
	"strings"

	"github.com/atlasmv/atlas/internal/ledger"
	"github.com/atlasmv/atlas/internal/model"
)

// Keyword sets driving severity classification of regulatory statements.
var (
	highSeverityRegulatory = []string{
		"fda", "sec ", "approval", "compliance", "require", "restrict", "prohibit", "license",
	}
	mediumSeverityRegulatory = []string{"regulation", "regulatory", "oversight", "gdpr", "hipaa"}

	crowdedMarketKeywords = []string{"crowded", "established", "leader", "dominant", "saturated"}

	marketRiskKeywords       = []string{"decline", "declining", "shrink", "churn", "slowdown", "barrier"}
	distributionRiskKeywords = []string{"channel", "distribution", "acquisition cost", "cac"}
	competitionKeywords      = []string{"competitor", "competition", "incumbent", "rival"}
)

// Market size estimates spreading wider than this share of their mean get
// flagged as a data quality risk.
const marketSizeSpreadThreshold = 0.5

// Assessor scans a ledger snapshot and groups risks into the four fixed
// categories. Categories with no risks stay empty.
type Assessor struct{}

// NewAssessor creates an assessor.
func NewAssessor() *Assessor {
	return &Assessor{}
}

// Assess collects risks from regulatory/competitor/other claims plus any
// explicitly supplied statements. Output order is ledger order, then market
// size data quality findings, then supplied order, so results are
// deterministic.
func (a *Assessor) Assess(snap *ledger.Snapshot, supplied []model.Risk) []model.Risk {
	var risks []model.Risk

	for _, c := range snap.Claims() {
		if c.Superseded {
			continue
		}
		switch c.Type {
		case model.ClaimTypeRegulatory:
			risks = append(risks, model.Risk{
				Category:     model.RiskRegulatory,
				Statement:    c.Text,
				Severity:     regulatorySeverity(c.Text),
				EvidenceRefs: []string{c.ID},
			})
		case model.ClaimTypeCompetitor:
			risks = append(risks, model.Risk{
				Category:     model.RiskCompetition,
				Statement:    fmt.Sprintf("Competitor in scope: %s", c.Text),
				Severity:     competitionSeverity(c.Text),
				EvidenceRefs: []string{c.ID},
			})
		case model.ClaimTypeGrowthRate:
			if c.Value != nil && *c.Value < 0 {
				risks = append(risks, model.Risk{
					Category:     model.RiskMarket,
					Statement:    fmt.Sprintf("Reported negative growth: %s", c.Text),
					Severity:     model.SeverityHigh,
					EvidenceRefs: []string{c.ID},
				})
			}
		case model.ClaimTypeOther:
			if r, ok := classifyOther(c); ok {
				risks = append(risks, r)
			}
		}
	}

	risks = append(risks, marketDataRisks(snap)...)

	for _, r := range supplied {
		if strings.TrimSpace(r.Statement) == "" {
			continue
		}
		if r.Category == "" {
			r.Category = classifyStatement(r.Statement)
		}
		if r.Severity == "" {
			r.Severity = model.SeverityMedium
		}
		risks = append(risks, r)
	}

	return risks
}

// marketDataRisks flags data quality problems in the market size evidence:
// a single data point, or estimates spreading too far apart to trust.
func marketDataRisks(snap *ledger.Snapshot) []model.Risk {
	var refs []string
	var values []float64
	var sourceURL string
	for _, c := range snap.Query(model.ClaimTypeMarketSize, "") {
		if c.Superseded || c.Value == nil {
			continue
		}
		refs = append(refs, c.ID)
		values = append(values, *c.Value)
		sourceURL = c.SourceURL
	}

	if len(values) == 1 {
		return []model.Risk{{
			Category:     model.RiskMarket,
			Statement:    fmt.Sprintf("Only one market size data point found, estimate is highly uncertain (source: %s)", sourceURL),
			Severity:     model.SeverityMedium,
			EvidenceRefs: refs,
		}}
	}
	if len(values) < 2 {
		return nil
	}

	minV, maxV, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		sum += v
	}
	mean := sum / float64(len(values))
	if mean <= 0 {
		return nil
	}
	spread := (maxV - minV) / mean
	if spread <= marketSizeSpreadThreshold {
		return nil
	}
	return []model.Risk{{
		Category:     model.RiskMarket,
		Statement:    fmt.Sprintf("Market size estimates vary by %.1f%% across sources, suggesting inconsistent market definitions or data quality issues", spread*100),
		Severity:     model.SeverityMedium,
		EvidenceRefs: refs,
	}}
}

// classifyStatement picks a category for a caller-supplied statement from
// the same keyword sets that drive claim classification. Market is the
// fallback.
func classifyStatement(statement string) model.RiskCategory {
	lower := strings.ToLower(statement)
	contains := func(keywords []string) bool {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
		return false
	}
	switch {
	case contains(distributionRiskKeywords):
		return model.RiskDistribution
	case contains(highSeverityRegulatory) || contains(mediumSeverityRegulatory):
		return model.RiskRegulatory
	case contains(competitionKeywords):
		return model.RiskCompetition
	default:
		return model.RiskMarket
	}
}

// Group arranges risk statements under the four fixed categories for the
// report. Empty categories are never padded.
func Group(risks []model.Risk) model.RiskGroups {
	var g model.RiskGroups
	for _, r := range risks {
		switch r.Category {
		case model.RiskMarket:
			g.Market = append(g.Market, r.Statement)
		case model.RiskCompetition:
			g.Competition = append(g.Competition, r.Statement)
		case model.RiskRegulatory:
			g.Regulatory = append(g.Regulatory, r.Statement)
		case model.RiskDistribution:
			g.Distribution = append(g.Distribution, r.Statement)
		}
	}
	return g
}

func regulatorySeverity(text string) model.RiskSeverity {
	lower := strings.ToLower(text)
	for _, kw := range highSeverityRegulatory {
		if strings.Contains(lower, kw) {
			return model.SeverityHigh
		}
	}
	for _, kw := range mediumSeverityRegulatory {
		if strings.Contains(lower, kw) {
			return model.SeverityMedium
		}
	}
	return model.SeverityLow
}

func competitionSeverity(text string) model.RiskSeverity {
	lower := strings.ToLower(text)
	for _, kw := range crowdedMarketKeywords {
		if strings.Contains(lower, kw) {
			return model.SeverityHigh
		}
	}
	return model.SeverityMedium
}

func classifyOther(c model.Claim) (model.Risk, bool) {
	lower := strings.ToLower(c.Text)
	for _, kw := range distributionRiskKeywords {
		if strings.Contains(lower, kw) {
			return model.Risk{
				Category:     model.RiskDistribution,
				Statement:    c.Text,
				Severity:     model.SeverityMedium,
				EvidenceRefs: []string{c.ID},
			}, true
		}
	}
	for _, kw := range marketRiskKeywords {
		if strings.Contains(lower, kw) {
			return model.Risk{
				Category:     model.RiskMarket,
				Statement:    c.Text,
				Severity:     model.SeverityMedium,
				EvidenceRefs: []string{c.ID},
			}, true
		}
	}
	return model.Risk{}, false
}
