package crawler

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/fyxed/rentcrawl/internal/normalize"
	"github.com/fyxed/rentcrawl/internal/source"
)

// placeholderTitle is emitted when a page no longer carries a recognizable
// title; the record is still worth keeping for its id and price.
const placeholderTitle = "Woning"

// maxImages caps the image list per listing, in document order.
const maxImages = 12

const (
	defaultTitleSelector = "h1"
	defaultSizeSelector  = "li"
	defaultImageSelector = "img"
)

var offeredSinceRe = regexp.MustCompile(`(?i)Aangeboden\s+sinds\s+([0-9]{2})-([0-9]{2})-([0-9]{4})`)

// ExtractListing applies a source's detail selectors to a fetched page and
// builds one candidate record. Individual fields degrade to absent when
// the page shape has drifted; only an unparseable document is an error.
func ExtractListing(cfg *source.Config, city string, page Page) (Listing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return Listing{}, fmt.Errorf("parse detail page %s: %w", page.FinalURL, err)
	}

	det := cfg.Detail
	pageText := normalizeSpace(doc.Text())

	listing := Listing{
		Source:    cfg.SourceName,
		SourceID:  ResolveSourceID(page.FinalURL),
		Title:     extractTitle(doc, det.Title),
		SourceURL: page.FinalURL,
		Address:   Address{City: city},
	}

	if priceText := extractPriceText(doc, det.PriceText, pageText); priceText != "" {
		listing.Price = normalize.ParsePrice(priceText)
	}

	sizeText, roomsText := extractSizeAndRooms(doc, det.SizeText)
	if sizeText != "" {
		listing.Size = normalize.ParseSize(sizeText)
	}
	if roomsText != "" {
		listing.Rooms = normalize.ParseRooms(roomsText)
	}

	listing.Furnished = furnishedFromText(strings.ToLower(pageText), det.FurnishedKeywords)
	listing.OfferedSince = extractOfferedSince(pageText)
	listing.Images = extractImages(doc, det.Images)

	return listing, nil
}

func extractTitle(doc *goquery.Document, selector string) string {
	if selector == "" {
		selector = defaultTitleSelector
	}
	title := normalizeSpace(doc.Find(selector).First().Text())
	if title == "" {
		return placeholderTitle
	}
	return title
}

// extractPriceText returns the first text node containing a euro marker,
// falling back to the whole page text when no single node carries one.
// Without a configured priceText selector the whole page is scanned too.
func extractPriceText(doc *goquery.Document, selector, pageText string) string {
	if selector == "" {
		if strings.Contains(pageText, "€") {
			return pageText
		}
		return ""
	}
	for _, root := range doc.Nodes {
		if t := firstTextContaining(root, "€"); t != "" {
			return t
		}
	}
	if strings.Contains(pageText, "€") {
		return pageText
	}
	return ""
}

// extractSizeAndRooms scans the selector-matched elements for the first
// fragment mentioning "m²" and the first mentioning "kamer"; first match
// of each wins independently.
func extractSizeAndRooms(doc *goquery.Document, selector string) (sizeText, roomsText string) {
	if selector == "" {
		selector = defaultSizeSelector
	}
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		txt := normalizeSpace(s.Text())
		if sizeText == "" && strings.Contains(txt, "m²") {
			sizeText = txt
		}
		if roomsText == "" && strings.Contains(txt, "kamer") {
			roomsText = txt
		}
		return sizeText == "" || roomsText == ""
	})
	return sizeText, roomsText
}

// furnishedFromText scans the lower-cased page text for the configured
// furnished/unfurnished vocabulary. Longer keywords are tried first so
// "ongemeubileerd" wins over its "gemeubileerd" substring; the matched
// keyword's polarity becomes the value.
func furnishedFromText(lowerText string, keywords []string) *bool {
	if len(keywords) == 0 {
		return nil
	}
	kws := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kws = append(kws, k)
		}
	}
	sort.SliceStable(kws, func(i, j int) bool { return len(kws[i]) > len(kws[j]) })
	for _, kw := range kws {
		if strings.Contains(lowerText, kw) {
			v := !negativeKeyword(kw)
			return &v
		}
	}
	return nil
}

func negativeKeyword(kw string) bool {
	return strings.HasPrefix(kw, "on") ||
		strings.HasPrefix(kw, "un") ||
		strings.HasPrefix(kw, "niet") ||
		kw == "kaal"
}

func extractOfferedSince(pageText string) *time.Time {
	m := offeredSinceRe.FindStringSubmatch(pageText)
	if m == nil {
		return nil
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &t
}

func extractImages(doc *goquery.Document, selector string) []string {
	if selector == "" {
		selector = defaultImageSelector
	}
	var images []string
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			src = s.AttrOr("data-src", "")
		}
		if strings.HasPrefix(src, "http") {
			images = append(images, src)
		}
		return len(images) < maxImages
	})
	return images
}

// firstTextContaining walks the node tree in document order and returns
// the first text node containing marker.
func firstTextContaining(n *html.Node, marker string) string {
	if n.Type == html.TextNode {
		if strings.Contains(n.Data, marker) {
			return normalizeSpace(n.Data)
		}
		return ""
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := firstTextContaining(c, marker); t != "" {
			return t
		}
	}
	return ""
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
