package crawler

import (
	"bytes"
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/fyxed/rentcrawl/internal/metrics"
	"github.com/fyxed/rentcrawl/internal/source"
)

// Below this many itemLink matches the crawler assumes selector drift and
// widens discovery to every anchor on the page.
const minSelectorMatches = 3

// traversal is the ephemeral state of one list-crawl lineage: the
// originating city, the shared yield cap and the local seen-set. Never
// shared across seeds.
type traversal struct {
	city     string
	governor *Governor
	seen     *seenSet
}

// crawlList visits one list page: discovers and filters detail links,
// crawls each admitted detail page, then follows the "next" link.
// Pagination terminates when no next selector/element exists or the
// governor cap is reached; a reached cap also suppresses the next
// list-page fetch, not just detail fetches.
func (c *Crawler) crawlList(ctx context.Context, cfg *source.Config, trav *traversal, pageURL string) {
	if trav.governor.Exhausted() || ctx.Err() != nil {
		return
	}

	page, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		metrics.ObserveFetchError(cfg.SourceName)
		c.logger.Warn("list page fetch failed, skipping",
			zap.String("source", cfg.SourceName),
			zap.String("url", pageURL),
			zap.Error(err))
		return
	}
	metrics.ObservePage(cfg.SourceName)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		c.logger.Warn("list page unparseable, skipping",
			zap.String("source", cfg.SourceName),
			zap.String("url", page.FinalURL),
			zap.Error(err))
		return
	}

	base, err := url.Parse(page.FinalURL)
	if err != nil {
		c.logger.Warn("list page URL unparseable",
			zap.String("url", page.FinalURL), zap.Error(err))
		return
	}

	for _, href := range discoverLinks(doc, cfg.List.ItemLink) {
		if trav.governor.Exhausted() || ctx.Err() != nil {
			return
		}
		abs, ok := absoluteURL(base, href)
		if !ok || trav.seen.Contains(abs) {
			continue
		}
		if !allowDetailURL(cfg, abs) {
			continue
		}
		trav.seen.Add(abs)
		c.crawlDetail(ctx, cfg, trav, abs)
	}

	if cfg.List.Next == "" || trav.governor.Exhausted() || ctx.Err() != nil {
		return
	}
	next := doc.Find(cfg.List.Next).First().AttrOr("href", "")
	if next == "" {
		return
	}
	if abs, ok := absoluteURL(base, next); ok {
		c.crawlList(ctx, cfg, trav, abs)
	}
}

// discoverLinks collects candidate hrefs via the itemLink selector,
// widening to all anchors when the selector yields suspiciously few
// matches.
func discoverLinks(doc *goquery.Document, itemLink string) []string {
	var hrefs []string
	collect := func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			hrefs = append(hrefs, href)
		}
	}
	matched := doc.Find(itemLink)
	matched.Each(collect)
	if matched.Length() < minSelectorMatches {
		doc.Find("a").Each(collect)
	}
	return hrefs
}

// crawlDetail fetches one detail page, extracts a candidate record and
// hands it to the sink. The governor is consulted before fetching and
// again before extraction so in-flight work past the cap is discarded
// cheaply.
func (c *Crawler) crawlDetail(ctx context.Context, cfg *source.Config, trav *traversal, detailURL string) {
	if trav.governor.Exhausted() {
		return
	}

	page, err := c.fetcher.Fetch(ctx, detailURL)
	if err != nil {
		metrics.ObserveFetchError(cfg.SourceName)
		c.logger.Warn("detail page fetch failed, skipping",
			zap.String("source", cfg.SourceName),
			zap.String("url", detailURL),
			zap.Error(err))
		return
	}
	metrics.ObservePage(cfg.SourceName)

	if trav.governor.Exhausted() {
		return
	}

	listing, err := ExtractListing(cfg, trav.city, page)
	if err != nil {
		c.logger.Warn("detail page extraction failed, skipping",
			zap.String("source", cfg.SourceName),
			zap.String("url", page.FinalURL),
			zap.Error(err))
		return
	}

	trav.governor.Record()
	metrics.ObserveListing(cfg.SourceName)

	if err := c.sink.Process(ctx, listing); err != nil {
		c.logger.Error("persist listing failed",
			zap.String("source", listing.Source),
			zap.String("source_id", listing.SourceID),
			zap.Error(err))
	}
}
