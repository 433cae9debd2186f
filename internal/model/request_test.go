package model

import "testing"

func TestAnalyzeRequest_SuppliedRisks(t *testing.T) {
	r := AnalyzeRequest{
		Risks: []string{"  incumbents undercut pricing  ", "   "},
		Notes: "Launching in Texas first\nRISK: channel conflict with resellers\nrisk:\nno prefix here",
	}
	got := r.SuppliedRisks()
	want := []string{"incumbents undercut pricing", "channel conflict with resellers"}
	if len(got) != len(want) {
		t.Fatalf("SuppliedRisks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SuppliedRisks[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAnalyzeRequest_SuppliedRisksEmpty(t *testing.T) {
	r := AnalyzeRequest{Notes: "plain notes, nothing flagged"}
	if got := r.SuppliedRisks(); len(got) != 0 {
		t.Errorf("SuppliedRisks = %v, want none", got)
	}
}
