// Package http assembles the service router: middleware chain, health and
// metrics endpoints, and the intake API.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"intake/internal/intake/handler"
	"intake/pkg/platform/httputil"
	"intake/pkg/platform/middleware/requestid"
	"intake/pkg/platform/middleware/requesttime"
)

// HealthChecker reports backend liveness.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewRouter builds the full HTTP surface.
func NewRouter(intake *handler.Handler, health HealthChecker, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := health.Health(req.Context()); err != nil {
			logger.WarnContext(req.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	intake.RegisterRoutes(r)
	return r
}
