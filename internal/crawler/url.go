package crawler

import (
	"net/url"
	"strings"

	"github.com/fyxed/rentcrawl/internal/source"
)

// Default path heuristic for sources without an explicit hrefPattern: a
// detail page must carry one of these markers...
var listingPathMarkers = []string{"-te-huur", "/huren/"}

// ...and none of these (agent/info/registration sections masquerade as
// listing links on several sites).
var nonListingPathMarkers = []string{"/makelaars", "/info", "/registreren", "/over"}

// absoluteURL resolves href against base and strips the fragment.
func absoluteURL(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil || href == "" {
		return "", false
	}
	abs := base.ResolveReference(ref)
	abs.Fragment = ""
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	return abs.String(), true
}

// allowDetailURL decides whether a discovered link points at a true
// listing detail page. An explicit per-source regex wins; otherwise the
// generic path-marker heuristic applies.
func allowDetailURL(cfg *source.Config, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if re := cfg.HrefRegexp(); re != nil {
		return re.MatchString(u.Path)
	}

	marked := false
	for _, m := range listingPathMarkers {
		if strings.Contains(u.Path, m) {
			marked = true
			break
		}
	}
	if !marked {
		return false
	}
	for _, m := range nonListingPathMarkers {
		if strings.Contains(u.Path, m) {
			return false
		}
	}
	return true
}
