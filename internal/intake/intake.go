// Package intake wires the module's service and handler behind a small
// facade so composition roots depend on one import.
package intake

import (
	"log/slog"

	"intake/internal/intake/handler"
	"intake/internal/intake/metrics"
	"intake/internal/intake/service"
	"intake/internal/intake/store"
)

type (
	Service = service.Service
	Handler = handler.Handler
	Metrics = metrics.Metrics
)

// NewService constructs the update coordinator.
func NewService(clients store.ClientStore, opts ...service.Option) *Service {
	return service.New(clients, opts...)
}

// NewHandler constructs the HTTP surface for a service.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return handler.New(svc, logger)
}

// NewMetrics registers and returns the module's Prometheus metrics.
func NewMetrics() *Metrics {
	return metrics.New()
}

// Re-exported service options.
var (
	WithLogger         = service.WithLogger
	WithMetrics        = service.WithMetrics
	WithAuditPublisher = service.WithAuditPublisher
)
