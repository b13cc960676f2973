package crawler

import (
	"net/url"
	"regexp"
	"strings"
)

// Listing identifiers come in a handful of shapes across sources. The
// resolver tries the most specific shape first; whatever matches must come
// out identical on every re-crawl of the same URL, otherwise upserts would
// fan out into duplicate records.
var (
	// Opaque 8-char hex codes used as a dedicated path segment
	// (pararius: /huurwoningen/utrecht/ab12cd34/straatnaam).
	hexSegmentRe = regexp.MustCompile(`^[a-f0-9]{8}$`)

	// Trailing numeric ids glued to the slug
	// (kamernet: /huren/kamer-utrecht-oudegracht-12345678).
	trailingDigitsRe = regexp.MustCompile(`-([0-9]{5,})$`)

	// Generated compound ids (rebogroep: gen-041666-oudenoord-262).
	generatorBlockRe = regexp.MustCompile(`^gen-[0-9a-z]+`)
)

// ResolveSourceID derives the stable per-source listing identifier from a
// final resolved URL. Deterministic: the same URL always yields the same
// id.
func ResolveSourceID(finalURL string) string {
	u, err := url.Parse(finalURL)
	if err != nil {
		return strings.TrimSpace(finalURL)
	}

	segs := splitPath(u.Path)

	for _, s := range segs {
		if hexSegmentRe.MatchString(s) {
			return s
		}
	}

	if m := trailingDigitsRe.FindStringSubmatch(strings.TrimSuffix(u.Path, "/")); m != nil {
		return m[1]
	}

	for _, s := range segs {
		if id := generatorBlockRe.FindString(s); id != "" {
			return id
		}
	}

	if len(segs) > 0 {
		return segs[len(segs)-1]
	}
	return u.Path
}

func splitPath(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
