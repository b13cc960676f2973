package crawler

import lru "github.com/hashicorp/golang-lru/v2"

// seenSetSize bounds memory per traversal; a list-crawl lineage rarely
// discovers more than a few thousand distinct detail URLs.
const seenSetSize = 8192

// seenSet suppresses duplicate link discovery within a single list-crawl
// traversal. Keyed by absolute URL and never shared across traversals.
type seenSet struct {
	cache *lru.Cache[string, struct{}]
}

func newSeenSet() *seenSet {
	cache, err := lru.New[string, struct{}](seenSetSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &seenSet{cache: cache}
}

func (s *seenSet) Contains(url string) bool {
	return s.cache.Contains(url)
}

func (s *seenSet) Add(url string) {
	s.cache.Add(url, struct{}{})
}
