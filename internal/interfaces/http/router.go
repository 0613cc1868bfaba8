// Package http assembles the ChemDraw AI HTTP surface: the chi route tree
// and the server that runs it.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemDraw-AI/internal/interfaces/http/handlers"
	"github.com/turtacn/ChemDraw-AI/internal/interfaces/http/middleware"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the complete HTTP route tree.  Nil handlers leave their
// routes unregistered.
type RouterConfig struct {
	// Handlers
	ChemHandler    *handlers.ChemHandler
	SessionHandler *handlers.SessionHandler
	PageHandler    *handlers.PageHandler
	HealthHandler  *handlers.HealthHandler

	// Middleware
	CORSMiddleware      *middleware.CORSMiddleware
	LoggingMiddleware   *middleware.LoggingMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware

	// Infrastructure
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
	MaxBodySize      int64
}

// NewRouter constructs the complete HTTP route tree from the given configuration.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// --- Global middleware (applied to every request) ---
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.LoggingMiddleware != nil {
		r.Use(cfg.LoggingMiddleware.Handler)
	}
	r.Use(chimw.Recoverer)
	if cfg.CORSMiddleware != nil {
		r.Use(cfg.CORSMiddleware.Handler)
	}

	// --- Probes and metrics (never rate limited) ---
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = config.DefaultMetricsPath
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	maxBody := cfg.MaxBodySize
	if maxBody <= 0 {
		maxBody = config.DefaultMaxBodySize
	}

	// --- Page and form actions ---
	r.Group(func(ui chi.Router) {
		ui.Use(chimw.RequestSize(maxBody))
		if cfg.RateLimitMiddleware != nil {
			ui.Use(cfg.RateLimitMiddleware.Handler)
		}
		registerPageRoutes(ui, cfg.PageHandler)
	})

	// --- API v1 ---
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(chimw.RequestSize(maxBody))
		if cfg.RateLimitMiddleware != nil {
			api.Use(cfg.RateLimitMiddleware.Handler)
		}
		registerChemRoutes(api, cfg.ChemHandler)
		registerSessionRoutes(api, cfg.SessionHandler)
	})

	return r
}

// registerPageRoutes mounts the HTML page and its form actions.
func registerPageRoutes(r chi.Router, h *handlers.PageHandler) {
	if h == nil {
		return
	}
	r.Get("/", h.Index)
	r.Route("/ui", func(ui chi.Router) {
		ui.Post("/generate", h.Generate)
		ui.Post("/apply", h.Apply)
		ui.Get("/download", h.Download)
	})
}

// registerChemRoutes mounts the stateless service endpoints.
func registerChemRoutes(r chi.Router, h *handlers.ChemHandler) {
	if h == nil {
		return
	}
	r.Post("/generations", h.Generate)
	r.Post("/corrections", h.SuggestCorrections)
}

// registerSessionRoutes mounts controller sessions under /sessions.
func registerSessionRoutes(r chi.Router, h *handlers.SessionHandler) {
	if h == nil {
		return
	}
	r.Route("/sessions", func(sr chi.Router) {
		sr.Post("/", h.Create)

		sr.Route("/{id}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Delete("/", h.Delete)
			item.Put("/formula", h.SetFormula)
			item.Post("/generate", h.Generate)
			item.Post("/suggestions/{index}/apply", h.ApplySuggestion)
			item.Get("/download", h.Download)
		})
	})
}

//Personal.AI order the ending
