// Package ratelimit wraps a Fetcher with a per-domain token bucket. It
// sits in front of the collector's politeness delay as a hard ceiling on
// request rate for sources that need stricter treatment.
package ratelimit

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/time/rate"

	"github.com/fyxed/rentcrawl/internal/crawler"
)

// Config holds limiter settings. RPS <= 0 disables limiting.
type Config struct {
	RPS   float64
	Burst int
}

// Fetcher delays each fetch until the target domain has a token, then
// delegates to the wrapped Fetcher.
type Fetcher struct {
	next crawler.Fetcher

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	defaultRate rate.Limit
	burst       int
}

// Wrap builds a rate-limited view of next.
func Wrap(next crawler.Fetcher, cfg Config) *Fetcher {
	r := rate.Limit(cfg.RPS)
	if cfg.RPS <= 0 {
		r = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Fetcher{
		next:        next,
		limiters:    make(map[string]*rate.Limiter),
		defaultRate: r,
		burst:       burst,
	}
}

// Fetch implements crawler.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (crawler.Page, error) {
	if err := f.limiterFor(rawURL).Wait(ctx); err != nil {
		return crawler.Page{}, fmt.Errorf("rate limit wait for %s: %w", rawURL, err)
	}
	return f.next.Fetch(ctx, rawURL)
}

func (f *Fetcher) limiterFor(rawURL string) *rate.Limiter {
	domain := "unknown"
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		domain = u.Hostname()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	limiter, ok := f.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(f.defaultRate, f.burst)
		f.limiters[domain] = limiter
	}
	return limiter
}
