// Package http assembles the clinic API: middleware chain, access matrix and
// route registration. The order matters: identity resolution runs before the
// access matrix, and the matrix runs before any handler.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medix/internal/platform/metrics"
	"medix/internal/platform/middleware"
)

// Registrar is implemented by every feature handler.
type Registrar interface {
	Register(r chi.Router)
}

// Config collects the router's collaborators.
type Config struct {
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Validator   middleware.JWTValidator
	Revocations middleware.TokenRevocationChecker
	Policy      *middleware.Policy
	Handlers    []Registrar

	// RequestTimeout bounds each request, procedure round-trips included.
	RequestTimeout time.Duration
}

// NewRouter builds the HTTP handler tree.
func NewRouter(cfg Config) http.Handler {
	if cfg.Policy == nil {
		cfg.Policy = middleware.DefaultPolicy()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Latency(cfg.Metrics))
	r.Use(middleware.Authenticate(cfg.Validator, cfg.Revocations, cfg.Logger))
	r.Use(middleware.RequireAccess(cfg.Policy, cfg.Logger))

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	for _, h := range cfg.Handlers {
		h.Register(r)
	}
	return r
}
