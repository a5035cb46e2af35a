package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/merge-warden/internal/config"
	"github.com/sevigo/merge-warden/internal/core"
	"github.com/sevigo/merge-warden/internal/server/handler"
	"github.com/sevigo/merge-warden/internal/storage"
)

const (
	webhookTimeout        = 60 * time.Second
	defaultRequestTimeout = 5 * time.Minute
)

func requestTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.RequestTimeout <= 0 {
		return defaultRequestTimeout
	}
	return cfg.Server.RequestTimeout
}

// NewRouter creates and configures a new HTTP router with middleware and API routes.
func NewRouter(cfg *config.Config, dispatcher core.JobDispatcher, runner handler.Runner, store storage.Store, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Configure middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		reviews := handler.NewReviewsHandler(runner, store, logger)
		runTimeout := middleware.Timeout(requestTimeout(cfg))
		r.Route("/reviews", func(r chi.Router) {
			r.With(runTimeout).Post("/", reviews.Submit)
			r.Get("/", reviews.List)
			r.Get("/{id}", reviews.Get)
			r.Delete("/{id}", reviews.Delete)
			r.With(runTimeout).Post("/{id}/refresh", reviews.Refresh)
		})

		webhookHandler := handler.NewWebhookHandler(cfg.GitHub.WebhookSecret, dispatcher, logger)
		r.With(middleware.Timeout(webhookTimeout)).Post("/webhook/github", webhookHandler.Handle)
	})

	return r
}
