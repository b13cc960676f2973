// Package crawler implements the config-driven crawl pipeline: seed
// enumeration, list-page traversal, detail extraction and the per-run
// yield cap. It is agnostic to how pages are fetched and where records
// land; both are injected as interfaces.
package crawler

import "time"

// Address is the location part of a listing. Street stays empty for
// sources that only expose the city.
type Address struct {
	City   string `bson:"city" json:"city"`
	Street string `bson:"street,omitempty" json:"street,omitempty"`
}

// Listing is one observed rental advertisement. (Source, SourceID)
// uniquely identifies a logical listing across unlimited re-crawls; every
// other field is a mutable snapshot overwritten on each observation.
// Optional fields are pointers so an unparseable fragment stays absent
// rather than zero.
type Listing struct {
	Source           string     `bson:"source" json:"source"`
	SourceID         string     `bson:"sourceId" json:"sourceId"`
	Title            string     `bson:"title" json:"title"`
	SourceURL        string     `bson:"sourceUrl" json:"sourceUrl"`
	Address          Address    `bson:"address" json:"address"`
	Price            *int       `bson:"price" json:"price"`
	Size             *int       `bson:"size" json:"size"`
	Rooms            *float64   `bson:"rooms" json:"rooms"`
	Furnished        *bool      `bson:"furnished" json:"furnished"`
	Images           []string   `bson:"images" json:"images"`
	OfferedSince     *time.Time `bson:"offeredSince" json:"offeredSince"`
	ScrapedAt        time.Time  `bson:"scrapedAt" json:"scrapedAt"`
	IsStillAvailable bool       `bson:"isStillAvailable" json:"isStillAvailable"`
}

// Target is one seed request produced by the Target Enumerator, tagged
// with the city it originated from.
type Target struct {
	City string
	URL  string
}

// Page is a fetched HTML document. FinalURL reflects redirects and is the
// URL all identifiers and relative links are derived from.
type Page struct {
	StatusCode int
	FinalURL   string
	Body       []byte
}

// RunParams are the externally supplied knobs for one crawl run.
type RunParams struct {
	Cities   []string
	MaxItems int
}
