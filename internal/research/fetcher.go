package research

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/atlasmv/atlas/internal/cache"
	"github.com/atlasmv/atlas/internal/model"
)

// Fetcher retrieves pages politely: robots.txt is honored, each host is
// rate limited independently, and successful fetches are cached.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *robotsChecker
	store      cache.Cache
	cacheTTL   time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewFetcher builds a fetcher from HTTP, research, and cache configuration.
// A nil cache disables caching.
func NewFetcher(httpCfg model.HTTPConfig, resCfg model.ResearchConfig, store cache.Cache, cacheTTL time.Duration) *Fetcher {
	transport := http.DefaultTransport
	if httpCfg.InsecureTLS {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   httpCfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: httpCfg.UserAgent,
		maxBytes:  httpCfg.MaxBodyBytes,
		robots:    newRobotsChecker(httpCfg.UserAgent, httpCfg.Timeout),
		store:     store,
		cacheTTL:  cacheTTL,
		limiters:  make(map[string]*rate.Limiter),
		rps:       resCfg.RequestsPerSecond,
		burst:     resCfg.Burst,
	}
}

// Fetch retrieves and text-extracts one page.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if f.store != nil {
		if raw, ok := f.store.Get(cache.Key(rawURL)); ok {
			var page Page
			if err := json.Unmarshal(raw, &page); err == nil {
				return &page, nil
			}
		}
	}

	allowed, delay := f.robots.canFetch(ctx, rawURL)
	if !allowed {
		return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := f.wait(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	title, text := extractText(body)
	page := &Page{
		URL:        rawURL,
		FinalURL:   resp.Request.URL.String(),
		Title:      title,
		Text:       text,
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now().UTC(),
	}

	if f.store != nil {
		if raw, err := json.Marshal(page); err == nil {
			_ = f.store.Set(cache.Key(rawURL), raw, f.cacheTTL)
		}
	}
	return page, nil
}

// wait blocks on the per-host rate limiter.
func (f *Fetcher) wait(ctx context.Context, rawURL string) error {
	if f.rps <= 0 {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}

	f.mu.Lock()
	lim, ok := f.limiters[parsed.Host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(f.rps), f.burst)
		f.limiters[parsed.Host] = lim
	}
	f.mu.Unlock()

	return lim.Wait(ctx)
}
