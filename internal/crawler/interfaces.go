package crawler

import (
	"context"
	"time"
)

// Fetcher retrieves one HTML document. Implementations own connection
// pooling, per-host politeness delay and the global in-flight ceiling; the
// crawler only sees the final document or an error. Any error is treated
// as "skip this URL", never as fatal to the run.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

// Sink receives one candidate record per extracted detail page. The
// persistence pipeline implements this.
type Sink interface {
	Process(ctx context.Context, listing Listing) error
}

// Clock returns the current time (injectable for tests).
type Clock interface {
	Now() time.Time
}
