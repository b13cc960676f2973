package source

import (
	"net/url"
	"strings"
)

// CityToSlug derives the URL-safe form of a city name: lower-cased,
// spaces replaced by hyphens, remaining unsafe characters percent-encoded.
// "Den Haag" → "den-haag", "'s-Hertogenbosch" → "%27s-hertogenbosch".
func CityToSlug(city string) string {
	return url.QueryEscape(strings.ReplaceAll(strings.ToLower(city), " ", "-"))
}

// BuildStartURL substitutes the {city} and {citySlug} placeholders of a
// seed URL template.
func BuildStartURL(template, city, slug string) string {
	u := strings.ReplaceAll(template, "{citySlug}", slug)
	return strings.ReplaceAll(u, "{city}", city)
}
