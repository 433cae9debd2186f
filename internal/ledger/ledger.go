// Package ledger implements the append-only evidence ledger. Insertion order
// is the audit order; claims are never edited or deleted, only appended and,
// for corrections, marked superseded by a later claim.
package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atlasmv/atlas/internal/model"
)

// Ledger is the append-only claim store. Appends are serialized internally
// so a single global insertion order exists even under concurrent writers.
type Ledger struct {
	mu          sync.RWMutex
	claims      []model.Claim
	byID        map[string]int
	sources     map[string]model.Source
	sourceOrder []string
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		byID:    make(map[string]int),
		sources: make(map[string]model.Source),
	}
}

// AddSource ingests a source. Sources are immutable once ingested: the first
// ingestion of a URL wins and later adds of the same URL are no-ops.
func (l *Ledger) AddSource(s model.Source) error {
	if s.URL == "" {
		return &UnknownSourceError{URL: ""}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.sources[s.URL]; ok {
		return nil
	}
	l.sources[s.URL] = s
	l.sourceOrder = append(l.sourceOrder, s.URL)
	return nil
}

// Append adds a claim and returns its id. A claim without an id gets a
// generated one; an id collision fails with DuplicateClaimError; a claim
// whose source was never ingested fails with UnknownSourceError.
func (l *Ledger) Append(c model.Claim) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLocked(c)
}

func (l *Ledger) appendLocked(c model.Claim) (string, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := l.byID[c.ID]; exists {
		return "", &DuplicateClaimError{ID: c.ID}
	}
	if _, ok := l.sources[c.SourceURL]; !ok {
		return "", &UnknownSourceError{URL: c.SourceURL}
	}
	if c.RetrievedAt.IsZero() {
		c.RetrievedAt = time.Now().UTC()
	}
	if c.Confidence == "" {
		c.Confidence = model.ConfidenceFromCredibility(c.Credibility)
	}
	l.byID[c.ID] = len(l.claims)
	l.claims = append(l.claims, c)
	return c.ID, nil
}

// Supersede appends a replacement claim and marks the old claim superseded.
// The old claim stays in the ledger, preserving audit history.
func (l *Ledger) Supersede(oldID string, replacement model.Claim) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, ok := l.byID[oldID]
	if !ok {
		return "", &NotFoundError{ID: oldID}
	}
	newID, err := l.appendLocked(replacement)
	if err != nil {
		return "", err
	}
	l.claims[idx].Superseded = true
	l.claims[idx].SupersededBy = newID
	return newID, nil
}

// Get returns the claim with the given id.
func (l *Ledger) Get(id string) (model.Claim, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx, ok := l.byID[id]
	if !ok {
		return model.Claim{}, &NotFoundError{ID: id}
	}
	return l.claims[idx], nil
}

// Chain returns the claim plus its source: the complete custody path.
func (l *Ledger) Chain(id string) (model.Claim, model.Source, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx, ok := l.byID[id]
	if !ok {
		return model.Claim{}, model.Source{}, &NotFoundError{ID: id}
	}
	c := l.claims[idx]
	return c, l.sources[c.SourceURL], nil
}

// Query returns claims matching the filters, in insertion order. Zero-valued
// filters match everything.
func (l *Ledger) Query(claimType model.ClaimType, sourceURL string) []model.Claim {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return queryClaims(l.claims, claimType, sourceURL)
}

// Sources returns the ingested sources in ingestion order.
func (l *Ledger) Sources() []model.Source {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Source, 0, len(l.sourceOrder))
	for _, url := range l.sourceOrder {
		out = append(out, l.sources[url])
	}
	return out
}

// Len returns the number of claims appended so far.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.claims)
}

// Snapshot returns an immutable copy of the ledger state. One analysis runs
// entirely against a single snapshot so it never observes partial writes.
func (l *Ledger) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := &Snapshot{
		claims:      make([]model.Claim, len(l.claims)),
		byID:        make(map[string]int, len(l.byID)),
		sources:     make(map[string]model.Source, len(l.sources)),
		sourceOrder: make([]string, len(l.sourceOrder)),
	}
	copy(s.claims, l.claims)
	copy(s.sourceOrder, l.sourceOrder)
	for id, idx := range l.byID {
		s.byID[id] = idx
	}
	for url, src := range l.sources {
		s.sources[url] = src
	}
	return s
}

// Snapshot is a read-only, point-in-time view of the ledger.
type Snapshot struct {
	claims      []model.Claim
	byID        map[string]int
	sources     map[string]model.Source
	sourceOrder []string
}

// Get returns the claim with the given id.
func (s *Snapshot) Get(id string) (model.Claim, error) {
	idx, ok := s.byID[id]
	if !ok {
		return model.Claim{}, &NotFoundError{ID: id}
	}
	return s.claims[idx], nil
}

// Chain returns the claim plus its source.
func (s *Snapshot) Chain(id string) (model.Claim, model.Source, error) {
	c, err := s.Get(id)
	if err != nil {
		return model.Claim{}, model.Source{}, err
	}
	return c, s.sources[c.SourceURL], nil
}

// Query returns claims matching the filters, in insertion order.
func (s *Snapshot) Query(claimType model.ClaimType, sourceURL string) []model.Claim {
	return queryClaims(s.claims, claimType, sourceURL)
}

// Claims returns every claim in insertion order.
func (s *Snapshot) Claims() []model.Claim {
	out := make([]model.Claim, len(s.claims))
	copy(out, s.claims)
	return out
}

// Sources returns the ingested sources in ingestion order.
func (s *Snapshot) Sources() []model.Source {
	out := make([]model.Source, 0, len(s.sourceOrder))
	for _, url := range s.sourceOrder {
		out = append(out, s.sources[url])
	}
	return out
}

// Source resolves an ingested source by URL.
func (s *Snapshot) Source(url string) (model.Source, bool) {
	src, ok := s.sources[url]
	return src, ok
}

// Len returns the number of claims in the snapshot.
func (s *Snapshot) Len() int { return len(s.claims) }

func queryClaims(claims []model.Claim, claimType model.ClaimType, sourceURL string) []model.Claim {
	var out []model.Claim
	for _, c := range claims {
		if claimType != "" && c.Type != claimType {
			continue
		}
		if sourceURL != "" && c.SourceURL != sourceURL {
			continue
		}
		out = append(out, c)
	}
	return out
}
