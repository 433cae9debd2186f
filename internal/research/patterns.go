package research

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/atlasmv/atlas/internal/market"
	"github.com/atlasmv/atlas/internal/model"
)

// ClaimCandidate is an extracted statement not yet admitted to the ledger.
type ClaimCandidate struct {
	Text    string
	Type    model.ClaimType
	Value   *float64
	Unit    string
	Excerpt string
}

const maxExcerptLen = 280

var (
	moneyScaleRe = regexp.MustCompile(`(?i)\$\s?([\d][\d,]*\.?\d*)\s*(trillion|billion|million|bn|b\b|m\b)`)
	percentRe    = regexp.MustCompile(`([\d]+\.?\d*)\s?%`)
	pricingRe    = regexp.MustCompile(`(?i)\$\s?([\d][\d,]*\.?\d*)\s*(?:per|/)\s*(month|mo|user|seat|year|yr|unit)`)

	competitorLeadRe = regexp.MustCompile(`(?i)(?:competitors?|players?|rivals?|vendors?)\s+(?:include|are|such as|like)\s+([^.!?]+)`)
	competitorNameRe = regexp.MustCompile(`[A-Z][A-Za-z0-9&'-]*(?:\s+[A-Z][A-Za-z0-9&'-]*)*`)

	growthKeywords     = []string{"cagr", "grow", "growth", "annually", "per year", "year-over-year"}
	regulatoryKeywords = []string{
		"fda", "sec filing", "regulation", "regulatory", "compliance", "gdpr", "hipaa",
		"license", "licensing", "approval required", "prohibited", "restricted",
	}
)

// PatternExtractor pulls typed claims out of page text with fixed patterns.
// It walks sentences in document order, so repeated runs over the same page
// yield the same candidates in the same order.
type PatternExtractor struct{}

// NewPatternExtractor creates the default extractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Extract returns claim candidates found in the page text.
func (e *PatternExtractor) Extract(page *Page) []ClaimCandidate {
	var out []ClaimCandidate
	for _, sentence := range splitSentences(page.Text) {
		lower := strings.ToLower(sentence)

		if c, ok := marketSizeClaim(sentence, lower); ok {
			out = append(out, c)
			continue
		}
		if c, ok := growthClaim(sentence, lower); ok {
			out = append(out, c)
			continue
		}
		if c, ok := pricingClaim(sentence); ok {
			out = append(out, c)
			continue
		}
		out = append(out, competitorClaims(sentence)...)
		if c, ok := regulatoryClaim(sentence, lower); ok {
			out = append(out, c)
		}
	}
	return out
}

func marketSizeClaim(sentence, lower string) (ClaimCandidate, bool) {
	if !strings.Contains(lower, "market") {
		return ClaimCandidate{}, false
	}
	m := moneyScaleRe.FindStringSubmatch(sentence)
	if m == nil {
		return ClaimCandidate{}, false
	}
	raw, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return ClaimCandidate{}, false
	}
	billions := market.NormalizeToBillions(raw, m[2])
	return ClaimCandidate{
		Text:    sentence,
		Type:    model.ClaimTypeMarketSize,
		Value:   &billions,
		Unit:    "billion_usd",
		Excerpt: excerpt(sentence, maxExcerptLen),
	}, true
}

func growthClaim(sentence, lower string) (ClaimCandidate, bool) {
	m := percentRe.FindStringSubmatch(sentence)
	if m == nil || !containsAny(lower, growthKeywords) {
		return ClaimCandidate{}, false
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return ClaimCandidate{}, false
	}
	if strings.Contains(lower, "decline") || strings.Contains(lower, "shrink") || strings.Contains(lower, "contract") {
		pct = -pct
	}
	return ClaimCandidate{
		Text:    sentence,
		Type:    model.ClaimTypeGrowthRate,
		Value:   &pct,
		Unit:    "percent",
		Excerpt: excerpt(sentence, maxExcerptLen),
	}, true
}

func pricingClaim(sentence string) (ClaimCandidate, bool) {
	m := pricingRe.FindStringSubmatch(sentence)
	if m == nil {
		return ClaimCandidate{}, false
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return ClaimCandidate{}, false
	}
	return ClaimCandidate{
		Text:    sentence,
		Type:    model.ClaimTypePricing,
		Value:   &price,
		Unit:    "usd_per_" + normalizePeriod(m[2]),
		Excerpt: excerpt(sentence, maxExcerptLen),
	}, true
}

// competitorClaims emits one claim per named competitor in a sentence like
// "Competitors include Acme, Globex and Initech".
func competitorClaims(sentence string) []ClaimCandidate {
	lead := competitorLeadRe.FindStringSubmatch(sentence)
	if lead == nil {
		return nil
	}
	var out []ClaimCandidate
	seen := make(map[string]bool)
	for _, part := range splitNameList(lead[1]) {
		name := competitorNameRe.FindString(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, ClaimCandidate{
			Text:    name,
			Type:    model.ClaimTypeCompetitor,
			Excerpt: excerpt(sentence, maxExcerptLen),
		})
	}
	return out
}

func regulatoryClaim(sentence, lower string) (ClaimCandidate, bool) {
	if !containsAny(lower, regulatoryKeywords) {
		return ClaimCandidate{}, false
	}
	return ClaimCandidate{
		Text:    sentence,
		Type:    model.ClaimTypeRegulatory,
		Excerpt: excerpt(sentence, maxExcerptLen),
	}, true
}

func splitNameList(s string) []string {
	s = strings.ReplaceAll(s, " and ", ",")
	s = strings.ReplaceAll(s, " or ", ",")
	return strings.Split(s, ",")
}

func normalizePeriod(p string) string {
	switch strings.ToLower(p) {
	case "mo":
		return "month"
	case "yr":
		return "year"
	default:
		return strings.ToLower(p)
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
