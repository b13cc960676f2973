package crawler

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyxed/rentcrawl/internal/source"
)

// Crawler drives the whole pipeline for a set of sources: enumerate
// targets, walk list pages, extract detail pages and push candidate
// records into the sink.
type Crawler struct {
	fetcher Fetcher
	sink    Sink
	logger  *zap.Logger
}

// New constructs a Crawler.
func New(fetcher Fetcher, sink Sink, logger *zap.Logger) *Crawler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawler{fetcher: fetcher, sink: sink, logger: logger}
}

// Run crawls every source concurrently and blocks until all finish or the
// context is canceled. Each source gets its own yield governor; a failing
// source never aborts the others.
func (c *Crawler) Run(ctx context.Context, cfgs []*source.Config, params RunParams) {
	runID := uuid.NewString()
	logger := c.logger.With(zap.String("run_id", runID))
	logger.Info("crawl run starting",
		zap.Int("sources", len(cfgs)),
		zap.Int("cities", len(params.Cities)),
		zap.Int("max_items", params.MaxItems))

	var wg sync.WaitGroup
	for _, cfg := range cfgs {
		wg.Add(1)
		go func(cfg *source.Config) {
			defer wg.Done()
			c.crawlSource(ctx, logger, cfg, params)
		}(cfg)
	}
	wg.Wait()

	logger.Info("crawl run finished")
}

// crawlSource walks every enumerated seed of one source sequentially.
// The seen-set is scoped to a single seed's traversal; the governor spans
// the whole source run.
func (c *Crawler) crawlSource(ctx context.Context, logger *zap.Logger, cfg *source.Config, params RunParams) {
	governor := NewGovernor(params.MaxItems)
	targets := EnumerateTargets(cfg, params.Cities)

	logger.Info("source crawl starting",
		zap.String("source", cfg.SourceName),
		zap.Int("targets", len(targets)))

	for _, target := range targets {
		if governor.Exhausted() || ctx.Err() != nil {
			break
		}
		trav := &traversal{
			city:     target.City,
			governor: governor,
			seen:     newSeenSet(),
		}
		c.crawlList(ctx, cfg, trav, target.URL)
	}

	logger.Info("source crawl finished",
		zap.String("source", cfg.SourceName),
		zap.Int("yielded", governor.Yielded()))
}
