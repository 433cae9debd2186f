// Package research acquires market evidence from the web and turns it into
// ledger claims. Everything here is best-effort: a failed source is recorded
// and skipped, never fatal.
package research

import (
	"context"
	"time"
)

// Page is a fetched and text-extracted web page.
type Page struct {
	URL        string
	FinalURL   string
	Title      string
	Text       string
	StatusCode int
	FetchedAt  time.Time
}

// SourceFinder proposes candidate source URLs for a research scope. The
// default implementation is a static seed list; a search-backed finder can
// be swapped in without touching the collector.
type SourceFinder interface {
	Find(ctx context.Context, query string, limit int) ([]string, error)
}

// Extractor turns a fetched page into claim candidates.
type Extractor interface {
	Extract(page *Page) []ClaimCandidate
}

// FetchFailure records one source that could not be collected.
type FetchFailure struct {
	URL    string
	Reason string
}

// StaticFinder returns a fixed seed list, truncated to the limit.
type StaticFinder struct {
	URLs []string
}

func (f *StaticFinder) Find(_ context.Context, _ string, limit int) ([]string, error) {
	urls := f.URLs
	if limit > 0 && len(urls) > limit {
		urls = urls[:limit]
	}
	out := make([]string, len(urls))
	copy(out, urls)
	return out, nil
}
