// Package normalize turns raw scraped text fragments into typed values.
// Every function is total: unparseable input yields a nil result, never an
// error, so a bad fragment degrades one field instead of aborting a page.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Plausible monthly rent window in euros. Candidates outside it are only
// used when no candidate falls inside, in which case the minimum wins
// (guards against yearly figures and deposits listed before the rent).
const (
	minPlausibleRent = 200
	maxPlausibleRent = 20000
)

var (
	euroAmountRe = regexp.MustCompile(`€\s*([0-9][0-9.,]*)`)
	digitRunRe   = regexp.MustCompile(`[0-9]+`)
	decimalRe    = regexp.MustCompile(`([0-9]+(?:[.,][0-9])?)`)
	nonDigitRe   = regexp.MustCompile(`[^0-9]`)
)

// ToInt extracts every digit from text and parses the concatenation.
// "65 m²" → 65. Returns nil when text holds no digits.
func ToInt(text string) *int {
	digits := nonDigitRe.ReplaceAllString(text, "")
	if digits == "" {
		return nil
	}
	v, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &v
}

// ParsePrice extracts a plausible monthly rent from arbitrary text.
// It collects every euro-prefixed number (thousands separators of either
// "." or "," stripped), returns the first candidate inside the plausible
// rent window, falls back to the smallest candidate, and as a last resort
// parses the first run of digits anywhere in the text.
func ParsePrice(text string) *int {
	var candidates []int
	for _, m := range euroAmountRe.FindAllStringSubmatch(text, -1) {
		if v := ToInt(m[1]); v != nil && *v > 0 {
			candidates = append(candidates, *v)
		}
	}
	if len(candidates) == 0 {
		if m := digitRunRe.FindString(text); m != "" {
			return ToInt(m)
		}
		return nil
	}
	for _, v := range candidates {
		if v >= minPlausibleRent && v <= maxPlausibleRent {
			v := v
			return &v
		}
	}
	minV := candidates[0]
	for _, v := range candidates[1:] {
		if v < minV {
			minV = v
		}
	}
	return &minV
}

// ParseSize parses a surface area like "65 m²" into whole square meters.
func ParseSize(text string) *int {
	m := digitRunRe.FindString(text)
	if m == "" {
		return nil
	}
	return ToInt(m)
}

// ParseRooms parses a room count like "3 kamers" or "2,5 kamers". Both "."
// and "," are accepted as the decimal separator.
func ParseRooms(text string) *float64 {
	m := decimalRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseBool maps a small Dutch/English yes-no vocabulary to a boolean.
// Anything outside the vocabulary is nil.
func ParseBool(text string) *bool {
	t := true
	f := false
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "ja", "yes", "true":
		return &t
	case "nee", "no", "false":
		return &f
	}
	return nil
}
