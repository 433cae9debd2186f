package model

import "testing"

func TestConfidenceFromCredibility(t *testing.T) {
	cases := []struct {
		cred Credibility
		want ClaimConfidence
	}{
		{CredibilityHigh, ClaimConfidenceHigh},
		{CredibilityMedium, ClaimConfidenceMedium},
		{CredibilityLow, ClaimConfidenceLow},
		{Credibility(""), ClaimConfidenceLow},
		{Credibility("bogus"), ClaimConfidenceLow},
	}
	for _, tc := range cases {
		if got := ConfidenceFromCredibility(tc.cred); got != tc.want {
			t.Errorf("ConfidenceFromCredibility(%q) = %q, want %q", tc.cred, got, tc.want)
		}
	}
}

func TestCredibilityWeightFloor(t *testing.T) {
	// Unknown credibility carries the same weight as low, never more.
	if got := Credibility("").Weight(); got != CredibilityLow.Weight() {
		t.Errorf("unknown weight = %v, want %v", got, CredibilityLow.Weight())
	}
}
