// Package main provides the API router setup.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/storelens/knowledge-augment/internal/config"
	"github.com/storelens/knowledge-augment/internal/observability"
)

// NewRouter creates the API router with all routes configured.
func NewRouter(logger *observability.Logger, app *App, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"knowledge-augment"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if app.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := app.DB.PingContext(ctx); err != nil {
				// Static tier keeps serving; degraded, not down.
				w.Write([]byte(`{"status":"ready","knowledge_store":"unreachable"}`))
				return
			}
			w.Write([]byte(`{"status":"ready","knowledge_store":"connected"}`))
			return
		}
		w.Write([]byte(`{"status":"ready","knowledge_store":"static_only"}`))
	})

	handler := NewAugmentHandler(logger, app.Engine)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/augment", handler.Augment)
	})

	return r
}
