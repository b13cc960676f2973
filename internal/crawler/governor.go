package crawler

import "sync/atomic"

// Governor enforces the per-run item cap for one crawl task. Once the cap
// is reached it suppresses new detail work and further pagination;
// requests already in flight finish and their results are discarded.
// A max of 0 means unlimited. Safe for concurrent use.
type Governor struct {
	max     int64
	yielded atomic.Int64
}

// NewGovernor creates a Governor with the given cap (0 = unlimited).
func NewGovernor(max int) *Governor {
	return &Governor{max: int64(max)}
}

// Exhausted reports whether the cap has been reached. Callers must check
// this before starting selector or normalization work for a new page.
func (g *Governor) Exhausted() bool {
	return g.max > 0 && g.yielded.Load() >= g.max
}

// Record counts one successfully produced record.
func (g *Governor) Record() {
	g.yielded.Add(1)
}

// Yielded returns the number of records produced so far.
func (g *Governor) Yielded() int {
	return int(g.yielded.Load())
}
