package crawler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fyxed/rentcrawl/internal/source"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestAbsoluteURL(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "https://www.pararius.nl/huurwoningen/utrecht")

	cases := []struct {
		name string
		href string
		want string
		ok   bool
	}{
		{"relative", "/huurwoningen/utrecht/ab12cd34/oudegracht", "https://www.pararius.nl/huurwoningen/utrecht/ab12cd34/oudegracht", true},
		{"absolute", "https://other.nl/woning-te-huur", "https://other.nl/woning-te-huur", true},
		{"fragment stripped", "/woning-te-huur#fotos", "https://www.pararius.nl/woning-te-huur", true},
		{"whitespace trimmed", "  /woning-te-huur ", "https://www.pararius.nl/woning-te-huur", true},
		{"mailto rejected", "mailto:info@pararius.nl", "", false},
		{"javascript rejected", "javascript:void(0)", "", false},
		{"empty rejected", "", "", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := absoluteURL(base, tc.href)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestAllowDetailURLHeuristic(t *testing.T) {
	t.Parallel()

	cfg := &source.Config{SourceName: "generic"}

	cases := []struct {
		url  string
		want bool
	}{
		{"https://example.nl/woning-te-huur-oudegracht", true},
		{"https://example.nl/huren/kamer-utrecht", true},
		{"https://example.nl/over-ons", false},
		{"https://example.nl/huren/makelaars-utrecht-te-huur", false},
		{"https://example.nl/info/woning-te-huur", false},
		{"https://example.nl/registreren", false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, allowDetailURL(cfg, tc.url), tc.url)
	}
}

func TestAllowDetailURLExplicitPattern(t *testing.T) {
	t.Parallel()

	cfg := loadTestConfig(t, "pararius", `{
		"sourceName": "pararius",
		"startUrlTemplates": ["https://www.pararius.nl/huurwoningen/{citySlug}"],
		"list": {"itemLink": "a.listing-search-item__link--title"},
		"hrefPattern": "^/huurwoningen/[a-z-]+/[a-f0-9]{8}/"
	}`)

	require.True(t, allowDetailURL(cfg, "https://www.pararius.nl/huurwoningen/utrecht/ab12cd34/oudegracht"))
	require.False(t, allowDetailURL(cfg, "https://www.pararius.nl/huurwoningen/utrecht"))
	// The explicit pattern replaces the marker heuristic entirely.
	require.False(t, allowDetailURL(cfg, "https://www.pararius.nl/woning-te-huur"))
}
