package crawler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveSourceID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		url  string
		want string
	}{
		{
			"hex segment",
			"https://www.pararius.nl/huurwoningen/utrecht/ab12cd34/oudegracht",
			"ab12cd34",
		},
		{
			"hex segment beats later digits",
			"https://www.pararius.nl/huurwoningen/utrecht/deadbeef/straat-123456",
			"deadbeef",
		},
		{
			"trailing digits glued to slug",
			"https://kamernet.nl/huren/kamer-utrecht-oudegracht-12345678",
			"12345678",
		},
		{
			"trailing digits with trailing slash",
			"https://kamernet.nl/huren/kamer-utrecht-oudegracht-12345678/",
			"12345678",
		},
		{
			"short digit run is not an id",
			"https://example.nl/huren/straat-12",
			"straat-12",
		},
		{
			"generator block prefix",
			"https://www.rebohuurwoning.nl/aanbod/gen-041666-oudenoord-262-utrecht",
			"gen-041666",
		},
		{
			"last segment fallback",
			"https://example.nl/woning/mooie-straat-te-huur",
			"mooie-straat-te-huur",
		},
		{
			"query and fragment ignored",
			"https://www.pararius.nl/huurwoningen/utrecht/ab12cd34/x?foto=3#top",
			"ab12cd34",
		},
		{
			"empty path",
			"https://example.nl",
			"",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, ResolveSourceID(tc.url))
		})
	}
}

func TestResolveSourceIDDeterministic(t *testing.T) {
	t.Parallel()

	url := "https://kamernet.nl/huren/studio-amsterdam-spuistraat-2255688"
	first := ResolveSourceID(url)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, ResolveSourceID(url))
	}
}
