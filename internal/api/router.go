/**
 * @description
 * This file sets up the HTTP router for the ledger API. Every endpoint lives
 * under /api; /metrics is mounted beside it when enabled.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: router and standard middleware.
 * - github.com/go-chi/cors: CORS handling for browser clients.
 */

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ayush-bhatt-07/klix-marketplace/internal/logging"
	"github.com/ayush-bhatt-07/klix-marketplace/internal/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions tunes the middleware stack.
type RouterOptions struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	MetricsEnabled bool
}

// NewRouter creates a new Chi router and registers the ledger routes.
func NewRouter(h *Handlers, metrics *observability.Metrics, logger *slog.Logger, opts RouterOptions) *chi.Mux {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300, // Maximum value not ignored by any major browsers
	}))
	if opts.MetricsEnabled && metrics != nil {
		r.Use(metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Get("/tasks", h.listTasks)
		r.Post("/tasks/{id}/accept", h.acceptTask)

		r.Get("/campaigns", h.listCampaigns)
		r.Post("/campaigns", h.createCampaign)

		r.Get("/wallets/{influencerId}", h.getWallet)

		r.Post("/payout", h.requestPayout)
	})

	return r
}
