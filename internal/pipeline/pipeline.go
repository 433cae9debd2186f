// Package pipeline orchestrates one analysis request end to end: evidence
// collection, market modeling, scenario and sensitivity analysis, risk
// assessment, scoring, and the final verdict.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/atlasmv/atlas/internal/confidence"
	"github.com/atlasmv/atlas/internal/decision"
	"github.com/atlasmv/atlas/internal/ledger"
	"github.com/atlasmv/atlas/internal/llm"
	"github.com/atlasmv/atlas/internal/market"
	"github.com/atlasmv/atlas/internal/model"
	"github.com/atlasmv/atlas/internal/research"
	"github.com/atlasmv/atlas/internal/risk"
	"github.com/atlasmv/atlas/internal/store"
)

// Collector is the evidence acquisition dependency. Analyses run without
// one; the builder then falls back to assumption-based ranges.
type Collector interface {
	Collect(ctx context.Context, urls []string, led *ledger.Ledger) research.CollectStats
}

// Pipeline runs analyses. Construct with NewPipeline and functional
// options.
type Pipeline struct {
	cfg        *model.Config
	builder    *market.Builder
	scenarios  *market.ScenarioGenerator
	analyzer   *market.Analyzer
	assessor   *risk.Assessor
	scorer     *confidence.Scorer
	engine     *decision.Engine
	collector  Collector
	summarizer *llm.Summarizer
	store      store.Store
	seedURLs   []string
}

// Option customizes a pipeline.
type Option func(*Pipeline)

// WithCollector wires evidence collection with the given seed URLs.
func WithCollector(c Collector, seedURLs []string) Option {
	return func(p *Pipeline) {
		p.collector = c
		p.seedURLs = seedURLs
	}
}

// WithStore persists every decision after it is made.
func WithStore(s store.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithSummarizer enables narrative generation.
func WithSummarizer(s *llm.Summarizer) Option {
	return func(p *Pipeline) { p.summarizer = s }
}

// NewPipeline wires the analysis stages from config.
func NewPipeline(cfg *model.Config, opts ...Option) *Pipeline {
	builder := market.NewBuilder(cfg)
	p := &Pipeline{
		cfg:       cfg,
		builder:   builder,
		scenarios: market.NewScenarioGenerator(builder, cfg),
		analyzer:  market.NewAnalyzer(builder, cfg),
		assessor:  risk.NewAssessor(),
		scorer:    confidence.NewScorer(cfg.Confidence),
		engine:    decision.NewEngine(cfg.Decision),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is one completed analysis.
type Result struct {
	Report    *model.Report
	Narrative string
	Stats     research.CollectStats
}

// Analyze runs the full pipeline against the given ledger. The caller owns
// the ledger, so pre-seeded claims (manual evidence entry) survive alongside
// collected ones.
func (p *Pipeline) Analyze(ctx context.Context, req model.AnalyzeRequest, led *ledger.Ledger) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var stats research.CollectStats
	if p.collector != nil && len(p.seedURLs) > 0 {
		stats = p.collector.Collect(ctx, p.seedURLs, led)
		for _, f := range stats.Failures {
			fmt.Fprintf(os.Stderr, "warn: source skipped: %s: %s\n", f.URL, f.Reason)
		}
	}

	snap := led.Snapshot()
	scope := req.Scope()
	funnel := p.builder.DefaultFunnel(scope)

	m, err := p.builder.Build(snap, scope, funnel)
	if err != nil {
		return nil, fmt.Errorf("build market model: %w", err)
	}

	scenarios, err := p.scenarios.Generate(snap, scope, funnel)
	if err != nil {
		return nil, fmt.Errorf("generate scenarios: %w", err)
	}

	sensitivity, err := p.analyzer.Analyze(snap, scope, funnel)
	if err != nil {
		return nil, fmt.Errorf("sensitivity analysis: %w", err)
	}

	var supplied []model.Risk
	for _, s := range req.SuppliedRisks() {
		supplied = append(supplied, model.Risk{Statement: s})
	}
	risks := p.assessor.Assess(snap, supplied)
	competitors := competitorEntries(snap)
	disconfirming := decision.DisconfirmingEvidence(m, risks, len(competitors))
	score, scoreNotes := p.scorer.Score(snap, m, risks, disconfirming)

	d, err := p.engine.Decide(m, scenarios, sensitivity, score, risks, disconfirming)
	if err != nil {
		return nil, fmt.Errorf("decide: %w", err)
	}
	d.ID = uuid.NewString()
	d.CreatedAt = time.Now().UTC()

	if p.store != nil {
		if err := p.store.Save(d); err != nil {
			return nil, fmt.Errorf("persist decision: %w", err)
		}
		ev := store.Evidence{DecisionID: d.ID, Sources: snap.Sources(), Claims: snap.Claims()}
		if err := p.store.SaveEvidence(ev); err != nil {
			return nil, fmt.Errorf("persist evidence: %w", err)
		}
	}

	report := buildReport(req, d, snap, competitors, stats, scoreNotes)

	result := &Result{Report: report, Stats: stats}
	if p.summarizer.IsEnabled() {
		narrative, err := p.summarizer.Narrate(ctx, *report)
		if err != nil {
			// Narrative is presentation only; a provider failure never
			// invalidates the analysis.
			fmt.Fprintf(os.Stderr, "warn: narrative generation failed: %v\n", err)
		} else {
			result.Narrative = narrative
		}
	}
	return result, nil
}
