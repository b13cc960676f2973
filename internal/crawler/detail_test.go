package crawler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fyxed/rentcrawl/internal/source"
)

const parariusDetailHTML = `<!DOCTYPE html>
<html><head><title>Appartement Oudegracht - Pararius</title>
<style>.price { color: green; }</style>
<script>var price = "€ 99999";</script>
</head>
<body>
<h1 class="listing-detail-summary__title">Appartement Oudegracht 123</h1>
<div class="listing-detail-summary__price">&euro;1.250 per maand</div>
<ul class="illustrated-features">
  <li>75 m&#178; woonoppervlakte</li>
  <li>3 kamers</li>
  <li>Gemeubileerd</li>
</ul>
<p>Aangeboden sinds 04-03-2024</p>
<div class="carousel">
  <img src="https://img.pararius.nl/1.jpg">
  <img data-src="https://img.pararius.nl/2.jpg">
  <img src="/relative/3.jpg">
</div>
</body></html>`

func parariusConfig(t *testing.T) *source.Config {
	t.Helper()
	return loadTestConfig(t, "pararius", `{
		"sourceName": "pararius",
		"startUrlTemplates": ["https://www.pararius.nl/huurwoningen/{citySlug}"],
		"list": {"itemLink": "a.listing-search-item__link--title", "next": "a.pagination__link--next"},
		"detail": {
			"title": "h1.listing-detail-summary__title",
			"priceText": "div.listing-detail-summary__price",
			"sizeText": "ul.illustrated-features li",
			"images": "div.carousel img",
			"furnishedKeywords": ["gemeubileerd", "ongemeubileerd", "kaal"]
		}
	}`)
}

func TestExtractListingFullPage(t *testing.T) {
	t.Parallel()

	page := Page{
		StatusCode: 200,
		FinalURL:   "https://www.pararius.nl/huurwoningen/utrecht/ab12cd34/oudegracht",
		Body:       []byte(parariusDetailHTML),
	}

	l, err := ExtractListing(parariusConfig(t), "Utrecht", page)
	require.NoError(t, err)

	require.Equal(t, "pararius", l.Source)
	require.Equal(t, "ab12cd34", l.SourceID)
	require.Equal(t, "Appartement Oudegracht 123", l.Title)
	require.Equal(t, page.FinalURL, l.SourceURL)
	require.Equal(t, "Utrecht", l.Address.City)

	require.NotNil(t, l.Price)
	require.Equal(t, 1250, *l.Price)
	require.NotNil(t, l.Size)
	require.Equal(t, 75, *l.Size)
	require.NotNil(t, l.Rooms)
	require.Equal(t, 3.0, *l.Rooms)

	require.NotNil(t, l.Furnished)
	require.True(t, *l.Furnished)

	require.NotNil(t, l.OfferedSince)
	require.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), *l.OfferedSince)

	require.Equal(t, []string{"https://img.pararius.nl/1.jpg", "https://img.pararius.nl/2.jpg"}, l.Images,
		"src wins, data-src is the fallback, relative paths are dropped")
}

func TestExtractListingUnfurnishedWinsOverSubstring(t *testing.T) {
	t.Parallel()

	// "ongemeubileerd" contains "gemeubileerd"; the longer keyword must
	// decide the polarity.
	html := `<html><body><h1>Kamer</h1><p>Deze woning wordt ongemeubileerd opgeleverd.</p></body></html>`
	page := Page{FinalURL: "https://example.nl/huren/kamer-utrecht-12345678", Body: []byte(html)}

	l, err := ExtractListing(parariusConfig(t), "Utrecht", page)
	require.NoError(t, err)
	require.NotNil(t, l.Furnished)
	require.False(t, *l.Furnished)
}

func TestExtractListingKaalMeansUnfurnished(t *testing.T) {
	t.Parallel()

	html := `<html><body><h1>Kamer</h1><p>Oplevering: kaal</p></body></html>`
	page := Page{FinalURL: "https://example.nl/huren/kamer-utrecht-12345678", Body: []byte(html)}

	l, err := ExtractListing(parariusConfig(t), "Utrecht", page)
	require.NoError(t, err)
	require.NotNil(t, l.Furnished)
	require.False(t, *l.Furnished)
}

func TestExtractListingMissingFieldsStayAbsent(t *testing.T) {
	t.Parallel()

	html := `<html><body><div>Geen details beschikbaar</div></body></html>`
	page := Page{FinalURL: "https://example.nl/huren/kamer-utrecht-12345678", Body: []byte(html)}

	l, err := ExtractListing(parariusConfig(t), "Utrecht", page)
	require.NoError(t, err)

	require.Equal(t, "Woning", l.Title, "missing title degrades to the placeholder")
	require.Nil(t, l.Price)
	require.Nil(t, l.Size)
	require.Nil(t, l.Rooms)
	require.Nil(t, l.Furnished)
	require.Nil(t, l.OfferedSince)
	require.Empty(t, l.Images)
}

func TestExtractListingImageCap(t *testing.T) {
	t.Parallel()

	var b []byte
	b = append(b, []byte(`<html><body><h1>Woning</h1><div class="carousel">`)...)
	for i := 0; i < 20; i++ {
		b = append(b, []byte(`<img src="https://img.example.nl/`+string(rune('a'+i))+`.jpg">`)...)
	}
	b = append(b, []byte(`</div></body></html>`)...)

	page := Page{FinalURL: "https://example.nl/huren/kamer-utrecht-12345678", Body: b}
	l, err := ExtractListing(parariusConfig(t), "Utrecht", page)
	require.NoError(t, err)
	require.Len(t, l.Images, 12)
}

func TestExtractListingHalfRoomCount(t *testing.T) {
	t.Parallel()

	html := `<html><body><h1>Woning</h1><ul class="illustrated-features"><li>2,5 kamers</li></ul></body></html>`
	page := Page{FinalURL: "https://example.nl/huren/woning-utrecht-12345678", Body: []byte(html)}

	l, err := ExtractListing(parariusConfig(t), "Utrecht", page)
	require.NoError(t, err)
	require.NotNil(t, l.Rooms)
	require.Equal(t, 2.5, *l.Rooms)
}

func TestExtractListingDefaultSelectors(t *testing.T) {
	t.Parallel()

	cfg := loadTestConfig(t, "generic", `{
		"sourceName": "generic",
		"startUrlTemplates": ["https://example.nl/huren/{citySlug}"],
		"list": {"itemLink": "a"}
	}`)

	html := `<html><body>
<h1>Studio Spuistraat</h1>
<p>Huurprijs: € 950 per maand</p>
<ul><li>30 m² oppervlakte</li><li>1 kamer</li></ul>
<img src="https://img.example.nl/studio.jpg">
</body></html>`
	page := Page{FinalURL: "https://example.nl/huren/studio-utrecht-12345678", Body: []byte(html)}

	l, err := ExtractListing(cfg, "Utrecht", page)
	require.NoError(t, err)
	require.Equal(t, "Studio Spuistraat", l.Title)
	require.NotNil(t, l.Price)
	require.Equal(t, 950, *l.Price)
	require.NotNil(t, l.Size)
	require.Equal(t, 30, *l.Size)
	require.NotNil(t, l.Rooms)
	require.Equal(t, 1.0, *l.Rooms)
	require.Equal(t, []string{"https://img.example.nl/studio.jpg"}, l.Images)
}
