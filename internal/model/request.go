package model

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed request or assumption input. It is
// surfaced to the caller and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AnalyzeRequest is one market viability analysis request.
type AnalyzeRequest struct {
	Idea            string   `json:"idea"`
	Industry        string   `json:"industry"`
	Geography       string   `json:"geography"`
	CustomerType    string   `json:"customer_type"`
	BusinessModel   string   `json:"business_model"`
	PriceAssumption *float64 `json:"price_assumption,omitempty"`
	Risks           []string `json:"risks,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	Debug           bool     `json:"debug,omitempty"`
}

// SuppliedRisks collects the caller's explicit risk statements: the risks
// list verbatim, plus any notes line carrying a "risk:" prefix.
func (r AnalyzeRequest) SuppliedRisks() []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	for _, s := range r.Risks {
		add(s)
	}
	for _, line := range strings.Split(r.Notes, "\n") {
		line = strings.TrimSpace(line)
		if len(line) >= 5 && strings.EqualFold(line[:5], "risk:") {
			add(line[5:])
		}
	}
	return out
}

// Validate checks required fields and rejects negative price assumptions.
func (r AnalyzeRequest) Validate() error {
	required := []struct{ field, value string }{
		{"idea", r.Idea},
		{"industry", r.Industry},
		{"geography", r.Geography},
		{"customer_type", r.CustomerType},
		{"business_model", r.BusinessModel},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Reason: "must not be empty"}
		}
	}
	if r.PriceAssumption != nil && *r.PriceAssumption < 0 {
		return &ValidationError{Field: "price_assumption", Reason: "must be non-negative"}
	}
	return nil
}

// Scope is the slice of the request the market model builder needs.
type Scope struct {
	Industry        string   `json:"industry"`
	Geography       string   `json:"geography"`
	CustomerType    string   `json:"customer_type"`
	BusinessModel   string   `json:"business_model"`
	PriceAssumption *float64 `json:"price_assumption,omitempty"`
}

// Scope extracts the builder scope descriptor from the request.
func (r AnalyzeRequest) Scope() Scope {
	return Scope{
		Industry:        r.Industry,
		Geography:       r.Geography,
		CustomerType:    r.CustomerType,
		BusinessModel:   r.BusinessModel,
		PriceAssumption: r.PriceAssumption,
	}
}
