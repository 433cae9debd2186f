// Package confidence turns evidence quality and risk load into a single
// 0-100 score with a transparent breakdown.
package confidence

import (
	"fmt"

	"github.com/atlasmv/atlas/internal/ledger"
	"github.com/atlasmv/atlas/internal/model"
)

// Scorer computes the confidence score. Scoring is additive over distinct
// sources and subtractive over assumptions, risks, and disconfirming
// evidence, so removing any negative input can never lower the score and
// adding evidence can never lower it either.
type Scorer struct {
	cfg model.ConfidenceConfig
}

// NewScorer builds a scorer with the given weights.
func NewScorer(cfg model.ConfidenceConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the confidence score for a market model against its
// evidence snapshot. The returned notes explain every component so the
// number can be reproduced by hand.
func (s *Scorer) Score(snap *ledger.Snapshot, m model.MarketModel, risks []model.Risk, disconfirming []string) (int, []string) {
	var notes []string

	evidence := 0
	high, medium, low := 0, 0, 0
	for _, src := range snap.Sources() {
		switch src.Credibility {
		case model.CredibilityHigh:
			evidence += s.cfg.HighSourcePoints
			high++
		case model.CredibilityMedium:
			evidence += s.cfg.MediumSourcePoints
			medium++
		default:
			evidence += s.cfg.LowSourcePoints
			low++
		}
	}
	if evidence > s.cfg.MaxEvidencePoints {
		evidence = s.cfg.MaxEvidencePoints
	}
	notes = append(notes, fmt.Sprintf("evidence: +%d (%d high, %d medium, %d low sources, cap %d)",
		evidence, high, medium, low, s.cfg.MaxEvidencePoints))

	assumptionPenalty := len(m.AssumptionBasedSegments()) * s.cfg.AssumptionPenalty
	if assumptionPenalty > 0 {
		notes = append(notes, fmt.Sprintf("assumption-based segments: -%d (%d segment(s) x %d)",
			assumptionPenalty, len(m.AssumptionBasedSegments()), s.cfg.AssumptionPenalty))
	}

	riskPenalty := 0
	for _, r := range risks {
		switch r.Severity {
		case model.SeverityHigh:
			riskPenalty += s.cfg.HighRiskPenalty
		case model.SeverityMedium:
			riskPenalty += s.cfg.MediumRiskPenalty
		default:
			riskPenalty += s.cfg.LowRiskPenalty
		}
	}
	if riskPenalty > s.cfg.MaxRiskPenalty {
		riskPenalty = s.cfg.MaxRiskPenalty
	}
	if riskPenalty > 0 {
		notes = append(notes, fmt.Sprintf("risks: -%d (%d risk(s), cap %d)", riskPenalty, len(risks), s.cfg.MaxRiskPenalty))
	}

	disPenalty := len(disconfirming) * s.cfg.DisconfirmingPenalty
	if disPenalty > s.cfg.MaxDisconfirmingPenalty {
		disPenalty = s.cfg.MaxDisconfirmingPenalty
	}
	if disPenalty > 0 {
		notes = append(notes, fmt.Sprintf("disconfirming evidence: -%d (%d item(s), cap %d)",
			disPenalty, len(disconfirming), s.cfg.MaxDisconfirmingPenalty))
	}

	score := evidence - assumptionPenalty - riskPenalty - disPenalty
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	notes = append(notes, fmt.Sprintf("confidence: %d", score))
	return score, notes
}
