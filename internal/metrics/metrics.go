package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
)

var (
	CrawlRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "letterplace_crawl_requests_total",
		Help: "Crawl requests by endpoint and result.",
	}, []string{"endpoint", "result"})

	CrawlDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "letterplace_crawl_duration_seconds",
		Help:    "Time spent fetching and extracting a page.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	ExtractedFieldsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "letterplace_extracted_fields_total",
		Help: "Extracted metadata fields by field name and outcome (found|absent).",
	}, []string{"field", "outcome"})

	StoreWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "letterplace_store_writes_total",
		Help: "Store writes by operation and result.",
	}, []string{"op", "result"})

	EntriesByGroup = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "letterplace_entries",
		Help: "Entries currently stored, by group.",
	}, []string{"group"})
)

// ObserveCrawl records the outcome of a crawl request.
func ObserveCrawl(endpoint, result string) {
	if result == "" {
		result = "unknown"
	}
	CrawlRequestsTotal.WithLabelValues(endpoint, result).Inc()
}

// ObserveRecord counts which fields an extraction found.
func ObserveRecord(rec domain.MetadataRecord) {
	observeField("title", rec.Title)
	observeField("description", rec.Description)
	observeField("image", rec.Image)
}

func observeField(field string, v *string) {
	outcome := "found"
	if v == nil {
		outcome = "absent"
	}
	ExtractedFieldsTotal.WithLabelValues(field, outcome).Inc()
}

// ObserveWrite records a store write; err decides the result label.
func ObserveWrite(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StoreWritesTotal.WithLabelValues(op, result).Inc()
}

// SetEntryCounts replaces the per-group entry gauge. Groups missing from
// counts are dropped.
func SetEntryCounts(counts map[string]int) {
	EntriesByGroup.Reset()
	for g, n := range counts {
		EntriesByGroup.WithLabelValues(g).Set(float64(n))
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
