package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AcquisitionsTotal     *prometheus.CounterVec
	CrawlDuration         *prometheus.HistogramVec
	PagesFetchedTotal     *prometheus.CounterVec
	FetchRetriesTotal     prometheus.Counter
	CacheLookupsTotal     *prometheus.CounterVec
	FallbackSearchesTotal prometheus.Counter
)

func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AcquisitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acquisitions_total",
			Help: "Total number of knowledge acquisitions.",
		},
		[]string{"outcome", "source"}, // outcome: success, failure; source: cache, crawl
	)

	CrawlDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crawl_duration_seconds",
			Help:    "Duration of full site crawls.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
		[]string{"domain"},
	)

	PagesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pages_fetched_total",
			Help: "Per-page fetch outcomes within crawls.",
		},
		[]string{"result"}, // success, omitted, fatal, robots_skipped
	)

	FetchRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fetch_retries_total",
			Help: "Total number of fetch retry attempts.",
		},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Knowledge cache lookup results.",
		},
		[]string{"result"}, // hit, miss, bypass
	)

	FallbackSearchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fallback_searches_total",
			Help: "Total number of fallback search queries issued.",
		},
	)
}
