// Package pipeline validates candidate records and writes them to the
// store. Each sanitation step is independent: a field that fails its
// sanity check is dropped to absent, never failing the record.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyxed/rentcrawl/internal/crawler"
	"github.com/fyxed/rentcrawl/internal/metrics"
	"github.com/fyxed/rentcrawl/internal/store"
)

// Sanity windows for parsed numerics. Values outside are parse artifacts
// (concatenated digits, yearly figures) and are rejected to absent.
const (
	maxSaneSize  = 1000
	maxSaneRooms = 50
	maxSanePrice = 10_000_000
)

const defaultApprovalStatus = "approved"

// Pipeline is the persistence stage. It implements crawler.Sink.
type Pipeline struct {
	store  store.Upserter
	clock  crawler.Clock
	logger *zap.Logger
}

// New constructs a Pipeline.
func New(upserter store.Upserter, clock crawler.Clock, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{store: upserter, clock: clock, logger: logger}
}

// Process stamps, clamps and upserts one candidate record. The write is a
// single atomic conditional upsert on (source, sourceId); a store failure
// is returned to the caller and the record may safely be re-written later.
func (p *Pipeline) Process(ctx context.Context, l crawler.Listing) error {
	now := p.clock.Now()

	if l.ScrapedAt.IsZero() {
		l.ScrapedAt = now
	}
	l.IsStillAvailable = true
	sanitize(&l)

	key := store.Key{Source: l.Source, SourceID: l.SourceID}
	set := map[string]any{
		"source":           l.Source,
		"sourceId":         l.SourceID,
		"title":            l.Title,
		"sourceUrl":        l.SourceURL,
		"address":          map[string]any{"city": l.Address.City, "street": l.Address.Street},
		"price":            l.Price,
		"size":             l.Size,
		"rooms":            l.Rooms,
		"furnished":        l.Furnished,
		"images":           l.Images,
		"offeredSince":     l.OfferedSince,
		"scrapedAt":        l.ScrapedAt,
		"isStillAvailable": l.IsStillAvailable,
		"lastCheckedAt":    now,
	}
	setOnInsert := map[string]any{
		"createdAt":      now,
		"approvalStatus": defaultApprovalStatus,
	}

	res, err := p.store.Upsert(ctx, key, set, setOnInsert)
	if err != nil {
		return fmt.Errorf("upsert listing %s/%s: %w", key.Source, key.SourceID, err)
	}

	metrics.ObserveUpsert(l.Source, string(res))
	p.logger.Debug("listing persisted",
		zap.String("source", l.Source),
		zap.String("source_id", l.SourceID),
		zap.String("result", string(res)))
	return nil
}

// sanitize clamps parsed numerics to plausible windows. Rejection only
// ever drops the single offending field.
func sanitize(l *crawler.Listing) {
	if l.Size != nil && (*l.Size <= 0 || *l.Size > maxSaneSize) {
		l.Size = nil
	}
	if l.Rooms != nil && (*l.Rooms < 0 || *l.Rooms > maxSaneRooms) {
		l.Rooms = nil
	}
	if l.Price != nil && (*l.Price <= 0 || *l.Price > maxSanePrice) {
		l.Price = nil
	}
}
