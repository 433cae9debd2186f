// Package llm provides optional narrative generation for decision reports.
// The narrative is presentation only: it never feeds back into scoring, and
// providers are held to a strict source allowlist.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlasmv/atlas/internal/model"
)

// Provider is an LLM backend able to narrate a decision report.
type Provider interface {
	Name() string
	Narrate(ctx context.Context, req NarrateRequest) (*NarrateResponse, error)
	IsAvailable(ctx context.Context) bool
}

// NarrateRequest is the input for narrative generation.
type NarrateRequest struct {
	Report model.Report

	// AllowedURLs is the strict allowlist of URLs the model may cite.
	// Anything outside it is a citation leak.
	AllowedURLs []string

	Prompt    string
	Model     string
	MaxTokens int
}

// NarrateResponse is the generated narrative plus citation accounting.
type NarrateResponse struct {
	Narrative  string
	CitedURLs  []string
	Model      string
	TokensUsed int
}

// BuildPrompt constructs the default narration prompt. The verdict and all
// numbers come from the report; the model is asked to explain, not decide.
func BuildPrompt(report model.Report, allowedURLs []string) string {
	var sb strings.Builder
	sb.WriteString(`You are narrating a market viability analysis. The verdict and every number below are final - restate and explain them, never change or second-guess them.

CRITICAL RULES:
1. You MUST ONLY cite URLs from this allowed list:
`)
	sb.WriteString(joinURLs(allowedURLs))
	sb.WriteString(`

2. DO NOT infer, speculate, or cite external sources beyond this list.
3. If evidence is thin, say so explicitly - never fill gaps with invented figures.
4. Keep assumptions labeled as assumptions.

Analysis:
`)
	fmt.Fprintf(&sb, "- Idea: %s\n", report.Idea)
	fmt.Fprintf(&sb, "- Verdict: %s (confidence %d/100)\n", report.Verdict, report.ConfidenceScore)
	fmt.Fprintf(&sb, "- TAM: $%.2fB-$%.2fB (base $%.2fB, %s)\n",
		report.Market.TAM.Min, report.Market.TAM.Max, report.Market.TAM.Base, report.Market.TAM.Method)
	fmt.Fprintf(&sb, "- SOM: $%.2fB-$%.2fB (base $%.2fB)\n",
		report.Market.SOM.Min, report.Market.SOM.Max, report.Market.SOM.Base)
	fmt.Fprintf(&sb, "- Assumptions: %d, disconfirming evidence items: %d\n",
		len(report.Assumptions), len(report.DisconfirmingEvidence))

	for i, s := range report.ExecutiveSummary {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&sb, "- %s\n", s)
	}

	sb.WriteString("\nWrite a 4-6 sentence narrative for a founder deciding whether to proceed.")
	return sb.String()
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(no source URLs available)"
	}
	var sb strings.Builder
	for i, u := range urls {
		if i >= 20 {
			fmt.Fprintf(&sb, "\n... and %d more URLs", len(urls)-20)
			break
		}
		fmt.Fprintf(&sb, "\n- %s", u)
	}
	return sb.String()
}
