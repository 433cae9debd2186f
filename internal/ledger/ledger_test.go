package ledger

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/atlasmv/atlas/internal/model"
)

func testSource(url string) model.Source {
	return model.Source{URL: url, Title: "Test Source", Credibility: model.CredibilityHigh}
}

func testClaim(id, sourceURL string) model.Claim {
	return model.Claim{
		ID:          id,
		Text:        "The market is worth $1 billion",
		Type:        model.ClaimTypeMarketSize,
		SourceURL:   sourceURL,
		Credibility: model.CredibilityHigh,
	}
}

func TestLedger_AppendAndGet(t *testing.T) {
	l := New()
	if err := l.AddSource(testSource("https://example.com/report")); err != nil {
		t.Fatalf("AddSource: %v", err)
	}

	id, err := l.Append(testClaim("", "https://example.com/report"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	got, err := l.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Text != "The market is worth $1 billion" {
		t.Errorf("unexpected claim text: %q", got.Text)
	}
	if got.RetrievedAt.IsZero() {
		t.Error("expected RetrievedAt to be stamped")
	}
	if got.Confidence != model.ClaimConfidenceHigh {
		t.Errorf("expected confidence derived from credibility, got %q", got.Confidence)
	}
}

func TestLedger_DuplicateClaim(t *testing.T) {
	l := New()
	_ = l.AddSource(testSource("https://example.com/a"))

	if _, err := l.Append(testClaim("c1", "https://example.com/a")); err != nil {
		t.Fatalf("first append: %v", err)
	}
	_, err := l.Append(testClaim("c1", "https://example.com/a"))
	var dup *DuplicateClaimError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateClaimError, got %v", err)
	}
}

func TestLedger_UnknownSourceRejected(t *testing.T) {
	l := New()
	_, err := l.Append(testClaim("c1", "https://never-ingested.example.com"))
	var unknown *UnknownSourceError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownSourceError, got %v", err)
	}
}

func TestLedger_NotFound(t *testing.T) {
	l := New()
	_, err := l.Get("missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestLedger_Chain(t *testing.T) {
	l := New()
	src := testSource("https://example.com/report")
	_ = l.AddSource(src)
	id, _ := l.Append(testClaim("", src.URL))

	claim, source, err := l.Chain(id)
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if claim.ID != id {
		t.Errorf("chain returned wrong claim: %q", claim.ID)
	}
	if source.URL != src.URL || source.Credibility != model.CredibilityHigh {
		t.Errorf("chain returned wrong source: %+v", source)
	}
}

func TestLedger_QueryPreservesInsertionOrder(t *testing.T) {
	l := New()
	_ = l.AddSource(testSource("https://a.example.com"))
	_ = l.AddSource(testSource("https://b.example.com"))

	for i := 0; i < 5; i++ {
		c := testClaim(fmt.Sprintf("c%d", i), "https://a.example.com")
		if i%2 == 1 {
			c.SourceURL = "https://b.example.com"
			c.Type = model.ClaimTypePricing
		}
		if _, err := l.Append(c); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	all := l.Query("", "")
	if len(all) != 5 {
		t.Fatalf("expected 5 claims, got %d", len(all))
	}
	for i, c := range all {
		if c.ID != fmt.Sprintf("c%d", i) {
			t.Errorf("position %d: got %q, insertion order not preserved", i, c.ID)
		}
	}

	pricing := l.Query(model.ClaimTypePricing, "")
	if len(pricing) != 2 || pricing[0].ID != "c1" || pricing[1].ID != "c3" {
		t.Errorf("type filter wrong: %+v", pricing)
	}

	fromB := l.Query("", "https://b.example.com")
	if len(fromB) != 2 {
		t.Errorf("source filter wrong: %+v", fromB)
	}
}

func TestLedger_SupersedeKeepsHistory(t *testing.T) {
	l := New()
	_ = l.AddSource(testSource("https://example.com/a"))
	oldID, _ := l.Append(testClaim("old", "https://example.com/a"))

	replacement := testClaim("", "https://example.com/a")
	replacement.Text = "Corrected: the market is worth $1.2 billion"
	newID, err := l.Supersede(oldID, replacement)
	if err != nil {
		t.Fatalf("Supersede: %v", err)
	}

	old, _ := l.Get(oldID)
	if !old.Superseded || old.SupersededBy != newID {
		t.Errorf("old claim not marked superseded: %+v", old)
	}
	if l.Len() != 2 {
		t.Errorf("supersede must append, not replace: len=%d", l.Len())
	}
}

func TestLedger_SnapshotIsolation(t *testing.T) {
	l := New()
	_ = l.AddSource(testSource("https://example.com/a"))
	_, _ = l.Append(testClaim("c1", "https://example.com/a"))

	snap := l.Snapshot()
	_, _ = l.Append(testClaim("c2", "https://example.com/a"))
	_, _ = l.Supersede("c1", testClaim("c3", "https://example.com/a"))

	if snap.Len() != 1 {
		t.Fatalf("snapshot observed later writes: len=%d", snap.Len())
	}
	c, err := snap.Get("c1")
	if err != nil {
		t.Fatalf("snapshot Get: %v", err)
	}
	if c.Superseded {
		t.Error("snapshot observed supersede applied after it was taken")
	}
}

func TestLedger_ConcurrentAppends(t *testing.T) {
	l := New()
	_ = l.AddSource(testSource("https://example.com/a"))

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := l.Append(testClaim(fmt.Sprintf("c%d", i), "https://example.com/a")); err != nil {
				t.Errorf("append %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if l.Len() != n {
		t.Fatalf("expected %d claims, got %d", n, l.Len())
	}
	// Every id must be resolvable and the order index consistent.
	all := l.Query("", "")
	seen := make(map[string]bool, n)
	for _, c := range all {
		if seen[c.ID] {
			t.Fatalf("duplicate id in ledger: %q", c.ID)
		}
		seen[c.ID] = true
	}
}
