package model

import "time"

// Config is the full runtime configuration. Every tunable the scoring and
// decision stages depend on is named here so tests exercise configuration,
// not magic numbers.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Research    ResearchConfig    `yaml:"research"`
	Cache       CacheConfig       `yaml:"cache"`
	Credibility CredibilityConfig `yaml:"credibility"`
	Funnel      FunnelConfig      `yaml:"funnel"`
	Scenario    ScenarioConfig    `yaml:"scenario"`
	Sensitivity SensitivityConfig `yaml:"sensitivity"`
	Confidence  ConfidenceConfig  `yaml:"confidence"`
	Decision    DecisionConfig    `yaml:"decision"`
	LLM         LLMConfig         `yaml:"llm"`
	Output      OutputConfig      `yaml:"output"`
}

// HTTPConfig controls the research fetcher's HTTP behavior.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls"`
}

// ResearchConfig bounds concurrent evidence acquisition.
type ResearchConfig struct {
	MaxSources        int           `yaml:"max_sources"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	Workers           int           `yaml:"workers"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// CacheConfig controls the in-memory fetched page cache.
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// CredibilityConfig holds the domain rules behind source credibility.
type CredibilityConfig struct {
	HighDomains   []string `yaml:"high_domains"`
	MediumDomains []string `yaml:"medium_domains"`
	HighSuffixes  []string `yaml:"high_suffixes"`
}

// RangeConfig is a declared min/base/max default used when evidence is
// absent or a share assumption has no claim backing.
type RangeConfig struct {
	Min  float64 `yaml:"min"`
	Base float64 `yaml:"base"`
	Max  float64 `yaml:"max"`
}

// FunnelConfig declares the funnel share defaults and the fallback TAM
// (in billions USD) used when zero market_size claims are in scope.
type FunnelConfig struct {
	AddressableShare           RangeConfig `yaml:"addressable_share"`
	AddressableShareEnterprise RangeConfig `yaml:"addressable_share_enterprise"`
	AddressableShareConsumer   RangeConfig `yaml:"addressable_share_consumer"`
	ObtainableShare            RangeConfig `yaml:"obtainable_share"`
	DefaultTAM                 RangeConfig `yaml:"default_tam"`
}

// ScenarioConfig holds the documented bear/bull multiplier sets.
type ScenarioConfig struct {
	BearMultiplier float64 `yaml:"bear_multiplier"`
	BullMultiplier float64 `yaml:"bull_multiplier"`
}

// SensitivityConfig controls assumption perturbation.
type SensitivityConfig struct {
	Perturbation float64 `yaml:"perturbation"`
}

// ConfidenceConfig exposes the confidence score weighting. Evidence points
// accrue per distinct source by credibility; penalties subtract for
// assumption-based segments, risks and disconfirming evidence.
type ConfidenceConfig struct {
	HighSourcePoints        int `yaml:"high_source_points"`
	MediumSourcePoints      int `yaml:"medium_source_points"`
	LowSourcePoints         int `yaml:"low_source_points"`
	MaxEvidencePoints       int `yaml:"max_evidence_points"`
	AssumptionPenalty       int `yaml:"assumption_penalty"`
	HighRiskPenalty         int `yaml:"high_risk_penalty"`
	MediumRiskPenalty       int `yaml:"medium_risk_penalty"`
	LowRiskPenalty          int `yaml:"low_risk_penalty"`
	MaxRiskPenalty          int `yaml:"max_risk_penalty"`
	DisconfirmingPenalty    int `yaml:"disconfirming_penalty"`
	MaxDisconfirmingPenalty int `yaml:"max_disconfirming_penalty"`
}

// DecisionConfig holds the verdict policy thresholds.
type DecisionConfig struct {
	THigh                int     `yaml:"t_high"`
	TLow                 int     `yaml:"t_low"`
	MinViableSOM         float64 `yaml:"min_viable_som"` // billions USD
	MaxHighSeverityRisks int     `yaml:"max_high_severity_risks"`
}

// LLMConfig configures the optional narrative summarizer. Disabled unless a
// provider is set; it never affects scoring.
type LLMConfig struct {
	Provider      string `yaml:"provider"`
	Model         string `yaml:"model"`
	APIKey        string `yaml:"-"`
	BaseURL       string `yaml:"base_url"`
	TimeoutSecs   int    `yaml:"timeout_secs"`
	MaxTokens     int    `yaml:"max_tokens"`
	StrictSources bool   `yaml:"strict_sources"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Atlas/0.2 (+https://github.com/atlasmv/atlas)",
			MaxBodyBytes: 2_000_000,
		},
		Research: ResearchConfig{
			MaxSources:        12,
			FetchTimeout:      15 * time.Second,
			Workers:           6,
			RequestsPerSecond: 2,
			Burst:             3,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             15 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Credibility: CredibilityConfig{
			HighDomains: []string{
				"gartner.com", "forrester.com", "idc.com", "statista.com",
				"mckinsey.com", "bain.com", "bcg.com", "census.gov",
				"grandviewresearch.com", "marketsandmarkets.com",
			},
			MediumDomains: []string{
				"bloomberg.com", "reuters.com", "wsj.com", "ft.com",
				"forbes.com", "techcrunch.com", "businesswire.com",
				"prnewswire.com", "crunchbase.com",
			},
			HighSuffixes: []string{".gov", ".edu"},
		},
		Funnel: FunnelConfig{
			AddressableShare:           RangeConfig{Min: 0.05, Base: 0.10, Max: 0.20},
			AddressableShareEnterprise: RangeConfig{Min: 0.02, Base: 0.05, Max: 0.10},
			AddressableShareConsumer:   RangeConfig{Min: 0.10, Base: 0.20, Max: 0.40},
			ObtainableShare:            RangeConfig{Min: 0.01, Base: 0.02, Max: 0.05},
			DefaultTAM:                 RangeConfig{Min: 0.5, Base: 1.0, Max: 2.0},
		},
		Scenario: ScenarioConfig{
			BearMultiplier: 0.7,
			BullMultiplier: 1.3,
		},
		Sensitivity: SensitivityConfig{
			Perturbation: 0.30,
		},
		Confidence: ConfidenceConfig{
			HighSourcePoints:        25,
			MediumSourcePoints:      15,
			LowSourcePoints:         8,
			MaxEvidencePoints:       85,
			AssumptionPenalty:       15,
			HighRiskPenalty:         10,
			MediumRiskPenalty:       5,
			LowRiskPenalty:          2,
			MaxRiskPenalty:          30,
			DisconfirmingPenalty:    5,
			MaxDisconfirmingPenalty: 15,
		},
		Decision: DecisionConfig{
			THigh:                70,
			TLow:                 40,
			MinViableSOM:         0.05,
			MaxHighSeverityRisks: 0,
		},
		LLM: LLMConfig{
			TimeoutSecs:   30,
			MaxTokens:     1000,
			StrictSources: true,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
