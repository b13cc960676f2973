// Package metrics exposes Prometheus collectors for the crawl pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pagesVisitedTotal    *prometheus.CounterVec
	fetchErrorsTotal     *prometheus.CounterVec
	listingsScrapedTotal *prometheus.CounterVec
	upsertsTotal         *prometheus.CounterVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	once sync.Once
)

// Init registers the collectors. Safe to call multiple times.
func Init() {
	once.Do(func() {
		pagesVisitedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentcrawl_pages_visited_total",
				Help: "Total pages fetched successfully, labeled by source.",
			},
			[]string{"source"},
		)

		fetchErrorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentcrawl_fetch_errors_total",
				Help: "Total fetch failures that were skipped, labeled by source.",
			},
			[]string{"source"},
		)

		listingsScrapedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentcrawl_listings_scraped_total",
				Help: "Total candidate listings produced, labeled by source.",
			},
			[]string{"source"},
		)

		upsertsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentcrawl_upserts_total",
				Help: "Total store upserts, labeled by source and result.",
			},
			[]string{"source", "result"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentcrawl_http_requests_total",
				Help: "Total HTTP requests served, labeled by method, route and status.",
			},
			[]string{"method", "route", "status"},
		)

		httpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rentcrawl_http_request_duration_seconds",
				Help:    "HTTP request latency, labeled by method and route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler exposing the Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePage counts one successfully fetched page.
func ObservePage(sourceName string) {
	if pagesVisitedTotal != nil {
		pagesVisitedTotal.WithLabelValues(sourceName).Inc()
	}
}

// ObserveFetchError counts one skipped fetch failure.
func ObserveFetchError(sourceName string) {
	if fetchErrorsTotal != nil {
		fetchErrorsTotal.WithLabelValues(sourceName).Inc()
	}
}

// ObserveListing counts one produced candidate record.
func ObserveListing(sourceName string) {
	if listingsScrapedTotal != nil {
		listingsScrapedTotal.WithLabelValues(sourceName).Inc()
	}
}

// ObserveUpsert counts one store write by outcome ("inserted"/"updated").
func ObserveUpsert(sourceName, result string) {
	if upsertsTotal != nil {
		upsertsTotal.WithLabelValues(sourceName, result).Inc()
	}
}

// ObserveHTTPRequest records one served HTTP request.
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if httpRequestsTotal != nil {
		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	}
	if httpRequestDuration != nil {
		httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	}
}
