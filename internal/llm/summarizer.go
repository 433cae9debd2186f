package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlasmv/atlas/internal/model"
)

// Summarizer is the pipeline-facing wrapper around a Provider. With no
// provider configured it is a no-op and the pipeline runs fully
// deterministic.
type Summarizer struct {
	provider Provider
	cfg      model.LLMConfig
}

// NewSummarizer builds a summarizer from config. An empty provider name
// yields a disabled summarizer, not an error.
func NewSummarizer(cfg model.LLMConfig) (*Summarizer, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, cfg: cfg}, nil
}

// NewSummarizerWithProvider wires an explicit provider, used by tests.
func NewSummarizerWithProvider(p Provider, cfg model.LLMConfig) *Summarizer {
	return &Summarizer{provider: p, cfg: cfg}
}

func newProvider(cfg model.LLMConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", cfg.Provider)
	}
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the configured provider's name, or "" when disabled.
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// Narrate generates a narrative for the report. The allowlist is derived
// from the report's own sources, so the narrative can never cite a URL the
// analysis did not use. Disabled summarizers return an empty narrative.
func (s *Summarizer) Narrate(ctx context.Context, report model.Report) (string, error) {
	if !s.IsEnabled() {
		return "", nil
	}

	allowed := make([]string, 0, len(report.Sources))
	for _, src := range report.Sources {
		allowed = append(allowed, src.URL)
	}

	resp, err := s.provider.Narrate(ctx, NarrateRequest{
		Report:      report,
		AllowedURLs: allowed,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate narrative: %w", err)
	}
	return resp.Narrative, nil
}
