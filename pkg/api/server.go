// Package api exposes the TSUID metadata cache over HTTP: record lookup,
// ingest and scan by TSUID hex, plus row-key extraction as a service.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes builds the chi router for the server.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)

	// Unprotected: liveness and Prometheus scraping.
	r.Get("/health", s.instrument("GET", "/health", s.handleHealth))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey))

		r.Put("/meta", s.instrument("PUT", "/api/v1/meta", s.handlePutMeta))
		r.Get("/meta", s.instrument("GET", "/api/v1/meta", s.handleScanMeta))
		r.Get("/meta/{tsuid}", s.instrument("GET", "/api/v1/meta/{tsuid}", s.handleGetMeta))
		r.Delete("/meta/{tsuid}", s.instrument("DELETE", "/api/v1/meta/{tsuid}", s.handleDeleteMeta))

		r.Post("/rowkey/tsuid", s.instrument("POST", "/api/v1/rowkey/tsuid", s.handleExtract))

		r.Get("/stats", s.instrument("GET", "/api/v1/stats", s.handleStats))
	})

	return r
}

func (s *Server) instrument(method, endpoint string, h http.HandlerFunc) http.HandlerFunc {
	if s.metrics == nil {
		return h
	}
	return s.metrics.InstrumentHandler(method, endpoint, h)
}

// ListenAndServe starts the HTTP server on the configured bind address.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.config.Bind, s.config.Port)
	s.log.Info().Str("addr", addr).Msg("starting metadata API server")
	return http.ListenAndServe(addr, s.Routes())
}
