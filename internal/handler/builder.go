// Package handler is the HTTP transport of the rebilling service.
package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"deal-rebilling/internal/config"
	"deal-rebilling/internal/domain"
	"deal-rebilling/internal/metrics"
	"deal-rebilling/internal/usecase"
)

// Enricher runs the workbook enrichment pipeline.
type Enricher interface {
	Process(ctx context.Context, file, existing []byte, settings domain.ProcessSettings) (*usecase.EnrichmentOutput, error)
}

// Comparer reconciles two workbooks and exports stored results.
type Comparer interface {
	Compare(ctx context.Context, formattedFile, comparisonFile []byte, settings domain.CompareSettings) (*domain.ReconciliationResult, error)
	Export(ctx context.Context, token string, format domain.ExportFormat) ([]byte, error)
}

// RebillingHandler serves the process, compare and export endpoints.
type RebillingHandler struct {
	Enricher  Enricher
	Comparer  Comparer
	Metrics   *metrics.Registry
	MaxUpload int64
}

// NewRebillingHandler creates the handler.
func NewRebillingHandler(enricher Enricher, comparer Comparer, m *metrics.Registry, maxUpload int64) *RebillingHandler {
	return &RebillingHandler{Enricher: enricher, Comparer: comparer, Metrics: m, MaxUpload: maxUpload}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewRouter wires routes and middleware.
func NewRouter(h *RebillingHandler, rl config.RateLimitConfig) *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	r.Use(metricsMiddleware(h.Metrics))
	r.Use(recoverMiddleware)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", h.Metrics.Handler()).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	if rl.Enabled {
		api.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), rl.Burst), h.Metrics))
	}
	api.HandleFunc("/process", h.Process).Methods(http.MethodPost)
	api.HandleFunc("/compare", h.Compare).Methods(http.MethodPost)
	api.HandleFunc("/compare/{token}/export", h.Export).Methods(http.MethodGet)
	return r
}
