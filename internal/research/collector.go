package research

import (
	"context"
	"sync"
	"time"

	"github.com/atlasmv/atlas/internal/ledger"
	"github.com/atlasmv/atlas/internal/model"
)

// PageFetcher is the fetch dependency of the collector, satisfied by
// *Fetcher and by test stubs.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// CollectStats summarizes one collection run.
type CollectStats struct {
	SourcesFetched int
	ClaimsAdded    int
	Duplicates     int
	Failures       []FetchFailure
}

// Collector fans out page fetches under a worker bound, then ingests the
// results into the ledger serially in input URL order, so the ledger
// contents are deterministic regardless of fetch completion order.
type Collector struct {
	fetcher    PageFetcher
	extractor  Extractor
	classifier *CredibilityClassifier

	workers      int
	fetchTimeout time.Duration
}

// NewCollector wires a collector.
func NewCollector(fetcher PageFetcher, extractor Extractor, classifier *CredibilityClassifier, cfg model.ResearchConfig) *Collector {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Collector{
		fetcher:      fetcher,
		extractor:    extractor,
		classifier:   classifier,
		workers:      workers,
		fetchTimeout: cfg.FetchTimeout,
	}
}

type fetchOutcome struct {
	page       *Page
	candidates []ClaimCandidate
	err        error
}

// Collect fetches every URL and appends extracted claims to the ledger.
// A failed source becomes a recorded failure, never an error: collection
// only fails if the context is cancelled before any work completes.
func (c *Collector) Collect(ctx context.Context, urls []string, led *ledger.Ledger) CollectStats {
	outcomes := make([]fetchOutcome, len(urls))
	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(idx int, rawURL string) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				outcomes[idx] = fetchOutcome{err: ctx.Err()}
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			fetchCtx := ctx
			if c.fetchTimeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
				defer cancel()
			}

			page, err := c.fetcher.Fetch(fetchCtx, rawURL)
			if err != nil {
				outcomes[idx] = fetchOutcome{err: err}
				return
			}
			outcomes[idx] = fetchOutcome{page: page, candidates: c.extractor.Extract(page)}
		}(i, u)
	}
	wg.Wait()

	var stats CollectStats
	seen := make(map[string]bool)
	for i, out := range outcomes {
		if out.err != nil {
			stats.Failures = append(stats.Failures, FetchFailure{URL: urls[i], Reason: out.err.Error()})
			continue
		}
		stats.SourcesFetched++
		cred := c.classifier.Classify(out.page.FinalURL)
		src := model.Source{
			URL:         out.page.FinalURL,
			Title:       out.page.Title,
			Credibility: cred,
		}
		if err := led.AddSource(src); err != nil {
			stats.Failures = append(stats.Failures, FetchFailure{URL: urls[i], Reason: err.Error()})
			continue
		}
		for _, cand := range out.candidates {
			// Same statement from the same source is noise, not
			// corroboration.
			key := src.URL + "\x00" + cand.Text
			if seen[key] {
				stats.Duplicates++
				continue
			}
			seen[key] = true
			claim := model.Claim{
				Text:        cand.Text,
				Type:        cand.Type,
				Value:       cand.Value,
				Unit:        cand.Unit,
				SourceURL:   src.URL,
				Excerpt:     cand.Excerpt,
				RetrievedAt: out.page.FetchedAt,
				Credibility: cred,
			}
			if _, err := led.Append(claim); err != nil {
				stats.Failures = append(stats.Failures, FetchFailure{URL: urls[i], Reason: err.Error()})
				continue
			}
			stats.ClaimsAdded++
		}
	}
	return stats
}
