package api

import (
	"delivery-analytics-service/internal/api/handlers"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

type RouterConfig struct {
	Dashboard handlers.DashboardService
	// Served at /metrics when set.
	Metrics http.Handler
	// Shared limiter for the session routes; nil disables rate limiting.
	Limiter *rate.Limiter
	// Location in which request dates are interpreted.
	Location *time.Location
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)

	officerHandler := &handlers.OfficerHandler{Dashboard: cfg.Dashboard, Location: cfg.Location}
	zoneHandler := &handlers.ZoneHandler{Dashboard: cfg.Dashboard, Location: cfg.Location}
	eventHandler := &handlers.EventHandler{Dashboard: cfg.Dashboard}

	r.Get("/health", handlers.Health)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(rateLimitMiddleware(cfg.Limiter))
		}
		r.Use(sessionMiddleware)

		r.Get("/officers", officerHandler.List)
		r.Get("/officers/{officerID}/routes/{date}", officerHandler.Route)
		r.Get("/zones/performance", zoneHandler.Performance)
		r.Post("/events", eventHandler.Ingest)
	})

	return r
}
