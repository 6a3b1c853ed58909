// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics on a dedicated prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	// HTTP
	RequestDuration *prometheus.HistogramVec
	Requests        *prometheus.CounterVec
	RateLimited     prometheus.Counter

	// Pipelines
	ProcessedRows   prometheus.Counter
	SkippedCosts    prometheus.Counter
	Comparisons     prometheus.Counter
	ComparedDeals   prometheus.Histogram
	Exports         *prometheus.CounterVec
	ValidationFails *prometheus.CounterVec
}

// NewRegistry creates the registry with process and Go collectors attached.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rebilling_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"route", "method"},
		),

		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rebilling_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"route", "method", "status"},
		),

		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rebilling_http_rate_limited_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),

		ProcessedRows: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rebilling_processed_rows_total",
				Help: "Total number of deal rows written to output workbooks",
			},
		),

		SkippedCosts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rebilling_skipped_cost_entries_total",
				Help: "Total number of cost entries with an unparseable amount",
			},
		),

		Comparisons: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rebilling_comparisons_total",
				Help: "Total number of completed workbook comparisons",
			},
		),

		ComparedDeals: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rebilling_compared_deals",
				Help:    "Number of joined deals per comparison",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),

		Exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rebilling_exports_total",
				Help: "Total number of result exports by format",
			},
			[]string{"format"},
		),

		ValidationFails: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rebilling_validation_errors_total",
				Help: "Total number of rejected workbooks by error kind",
			},
			[]string{"kind"},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.RequestDuration,
		r.Requests,
		r.RateLimited,
		r.ProcessedRows,
		r.SkippedCosts,
		r.Comparisons,
		r.ComparedDeals,
		r.Exports,
		r.ValidationFails,
	)
	return r
}

// RegisterStoreSize exposes the live entry count of the token store.
func (r *Registry) RegisterStoreSize(size func() int) {
	r.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "rebilling_token_store_entries",
			Help: "Number of reconciliation results held in memory",
		},
		func() float64 { return float64(size()) },
	))
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
