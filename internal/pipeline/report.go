package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atlasmv/atlas/internal/model"
)

// Renderer serializes reports for the CLI.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON returns the report as indented JSON.
func (r *Renderer) RenderJSON(report *model.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}

// RenderMarkdown returns the full report as a markdown document.
func (r *Renderer) RenderMarkdown(report *model.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Market Viability: %s\n\n", report.Idea)
	fmt.Fprintf(&sb, "**Verdict: %s** (confidence %d/100)\n\n", report.Verdict, report.ConfidenceScore)

	sb.WriteString("## Executive Summary\n\n")
	for _, line := range report.ExecutiveSummary {
		fmt.Fprintf(&sb, "- %s\n", line)
	}

	sb.WriteString("\n## Market Model\n\n")
	sb.WriteString("| Segment | Min | Base | Max | Method |\n")
	sb.WriteString("|---------|-----|------|-----|--------|\n")
	writeSegment(&sb, "TAM", report.Market.TAM)
	writeSegment(&sb, "SAM", report.Market.SAM)
	writeSegment(&sb, "SOM", report.Market.SOM)

	sb.WriteString("\n## Scenarios (SOM base, $B)\n\n")
	fmt.Fprintf(&sb, "- Bear: %.3f\n- Base: %.3f\n- Bull: %.3f\n",
		report.Scenarios.Bear.Model.SOM.Base,
		report.Scenarios.Base.Model.SOM.Base,
		report.Scenarios.Bull.Model.SOM.Base)

	if len(report.Sensitivity) > 0 {
		sb.WriteString("\n## Sensitivity\n\n")
		for _, s := range report.Sensitivity {
			fmt.Fprintf(&sb, "- %s: impact magnitude $%.3fB\n", s.AssumptionName, s.Magnitude)
		}
	}

	writeRiskSection(&sb, report.Risks)

	if len(report.Competitors) > 0 {
		sb.WriteString("\n## Competitors\n\n")
		for _, c := range report.Competitors {
			fmt.Fprintf(&sb, "- %s (%s)\n", c.Name, c.SourceURL)
		}
	}

	if len(report.Assumptions) > 0 {
		sb.WriteString("\n## Assumptions\n\n")
		for _, a := range report.Assumptions {
			fmt.Fprintf(&sb, "- %s\n", a)
		}
	}

	if len(report.DisconfirmingEvidence) > 0 {
		sb.WriteString("\n## Disconfirming Evidence\n\n")
		for _, d := range report.DisconfirmingEvidence {
			fmt.Fprintf(&sb, "- %s\n", d)
		}
	}

	if len(report.KeyUnknowns) > 0 {
		sb.WriteString("\n## Key Unknowns\n\n")
		for _, u := range report.KeyUnknowns {
			fmt.Fprintf(&sb, "- %s\n", u)
		}
	}

	if len(report.NextSevenDayTests) > 0 {
		sb.WriteString("\n## Next 7 Days\n\n")
		for _, t := range report.NextSevenDayTests {
			fmt.Fprintf(&sb, "- **%s** — %s. Success: %s\n", t.Test, t.Method, t.SuccessThreshold)
		}
	}

	if len(report.Sources) > 0 {
		sb.WriteString("\n## Sources\n\n")
		for _, src := range report.Sources {
			fmt.Fprintf(&sb, "- [%s](%s) (%s credibility)\n", src.Title, src.URL, src.Credibility)
		}
	}

	if r.includeFooter {
		fmt.Fprintf(&sb, "\n---\nDecision %s, generated %s\n",
			report.DecisionID, report.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	}
	return sb.String()
}

// RenderSummary returns a short terminal summary.
func (r *Renderer) RenderSummary(report *model.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  confidence %d/100\n", report.Verdict, report.ConfidenceScore)
	fmt.Fprintf(&sb, "TAM  $%.2fB - $%.2fB (base $%.2fB)\n",
		report.Market.TAM.Min, report.Market.TAM.Max, report.Market.TAM.Base)
	fmt.Fprintf(&sb, "SOM  $%.3fB - $%.3fB (base $%.3fB)\n",
		report.Market.SOM.Min, report.Market.SOM.Max, report.Market.SOM.Base)
	for _, cond := range report.Conditions {
		fmt.Fprintf(&sb, "condition: %s\n", cond)
	}
	return sb.String()
}

// RenderNarrative frames the optional LLM narrative for terminal output.
func (r *Renderer) RenderNarrative(narrative string) string {
	if narrative == "" {
		return ""
	}
	return "\n## Narrative\n\n" + narrative + "\n"
}

func writeSegment(sb *strings.Builder, name string, est model.RangeEstimate) {
	fmt.Fprintf(sb, "| %s | $%.3fB | $%.3fB | $%.3fB | %s |\n", name, est.Min, est.Base, est.Max, est.Method)
}

func writeRiskSection(sb *strings.Builder, groups model.RiskGroups) {
	total := len(groups.Market) + len(groups.Competition) + len(groups.Regulatory) + len(groups.Distribution)
	if total == 0 {
		return
	}
	sb.WriteString("\n## Risks\n\n")
	writeRiskGroup(sb, "Market", groups.Market)
	writeRiskGroup(sb, "Competition", groups.Competition)
	writeRiskGroup(sb, "Regulatory", groups.Regulatory)
	writeRiskGroup(sb, "Distribution", groups.Distribution)
}

func writeRiskGroup(sb *strings.Builder, name string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "**%s**\n", name)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}
