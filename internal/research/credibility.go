package research

import (
	"net/url"
	"strings"

	"github.com/atlasmv/atlas/internal/model"
)

// CredibilityClassifier maps a source URL to a credibility tier using the
// configured domain lists. Unknown domains are low credibility.
type CredibilityClassifier struct {
	cfg model.CredibilityConfig
}

// NewCredibilityClassifier creates a classifier from config.
func NewCredibilityClassifier(cfg model.CredibilityConfig) *CredibilityClassifier {
	return &CredibilityClassifier{cfg: cfg}
}

// Classify returns the credibility tier for a URL. Matching is by domain
// suffix, so subdomains inherit the parent domain's tier.
func (c *CredibilityClassifier) Classify(rawURL string) model.Credibility {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return model.CredibilityLow
	}
	host := strings.ToLower(parsed.Hostname())

	for _, suffix := range c.cfg.HighSuffixes {
		if strings.HasSuffix(host, suffix) {
			return model.CredibilityHigh
		}
	}
	if matchesDomain(host, c.cfg.HighDomains) {
		return model.CredibilityHigh
	}
	if matchesDomain(host, c.cfg.MediumDomains) {
		return model.CredibilityMedium
	}
	return model.CredibilityLow
}

func matchesDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
