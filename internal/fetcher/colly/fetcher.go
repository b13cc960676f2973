// Package collyfetcher implements the crawler's Fetcher on gocolly. A
// single shared collector owns the politeness contract: per-host delay,
// the global parallelism ceiling and robots.txt compliance.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/fyxed/rentcrawl/internal/crawler"
)

const resultKey = "fetchResult"

// Config controls collector behavior.
type Config struct {
	UserAgent      string
	AcceptLanguage string
	Delay          time.Duration
	RandomizeDelay bool
	Parallelism    int
	Timeout        time.Duration
	RespectRobots  bool
}

// Fetcher implements crawler.Fetcher. Safe for concurrent use; all
// requests flow through one collector so limit rules apply across every
// crawl task in the process.
type Fetcher struct {
	collector *colly.Collector
}

type fetchResult struct {
	page crawler.Page
	err  error
}

// New builds a Fetcher.
func New(cfg Config) (*Fetcher, error) {
	c := colly.NewCollector(colly.Async(true))
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	// Re-crawling known listings is the whole point of the pipeline.
	c.AllowURLRevisit = true
	c.IgnoreRobotsTxt = !cfg.RespectRobots

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	c.SetRequestTimeout(timeout)
	c.WithTransport(newHTTPTransport())

	rule := &colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.Parallelism,
		Delay:       cfg.Delay,
	}
	if rule.Parallelism <= 0 {
		rule.Parallelism = 1
	}
	if cfg.RandomizeDelay && cfg.Delay > 0 {
		rule.RandomDelay = cfg.Delay
	}
	if err := c.Limit(rule); err != nil {
		return nil, fmt.Errorf("set collector limits: %w", err)
	}

	f := &Fetcher{collector: c}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		if cfg.AcceptLanguage != "" {
			r.Headers.Set("Accept-Language", cfg.AcceptLanguage)
		}
	})
	c.OnResponse(func(r *colly.Response) {
		deliver(r.Ctx, fetchResult{page: crawler.Page{
			StatusCode: r.StatusCode,
			FinalURL:   r.Request.URL.String(),
			Body:       append([]byte(nil), r.Body...),
		}})
	})
	c.OnError(func(r *colly.Response, err error) {
		deliver(r.Ctx, fetchResult{err: fmt.Errorf("fetch %s: status %d: %w",
			r.Request.URL, r.StatusCode, err)})
	})

	return f, nil
}

// Fetch performs one GET and blocks until the response arrives, the fetch
// fails, or ctx is done. A canceled context abandons the in-flight
// request; its eventual result is discarded harmlessly.
func (f *Fetcher) Fetch(ctx context.Context, url string) (crawler.Page, error) {
	ch := make(chan fetchResult, 1)
	reqCtx := colly.NewContext()
	reqCtx.Put(resultKey, ch)

	if err := f.collector.Request(http.MethodGet, url, nil, reqCtx, nil); err != nil {
		return crawler.Page{}, fmt.Errorf("request %s: %w", url, err)
	}

	select {
	case <-ctx.Done():
		return crawler.Page{}, fmt.Errorf("fetch %s canceled: %w", url, ctx.Err())
	case res := <-ch:
		if res.err != nil {
			return crawler.Page{}, res.err
		}
		return res.page, nil
	}
}

// Wait blocks until all in-flight requests finish.
func (f *Fetcher) Wait() {
	f.collector.Wait()
}

// WithTransport swaps the underlying transport (tests only).
func (f *Fetcher) WithTransport(rt http.RoundTripper) {
	f.collector.WithTransport(rt)
}

func deliver(ctx *colly.Context, res fetchResult) {
	ch, ok := ctx.GetAny(resultKey).(chan fetchResult)
	if !ok {
		return
	}
	select {
	case ch <- res:
	default:
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
