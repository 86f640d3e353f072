package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the intake module. Tracks creation and
// update counts plus critical path durations.
type Metrics struct {
	ClientsCreated   prometheus.Counter
	SectionUpdates   *prometheus.CounterVec
	BulkUpdates      prometheus.Counter
	ClientsCompleted prometheus.Counter
	UpdateDuration   prometheus.Histogram
}

// New creates a Metrics instance with all intake module metrics registered.
func New() *Metrics {
	return &Metrics{
		ClientsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "intake_clients_created_total",
			Help: "Total number of client intake records created",
		}),
		SectionUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_section_updates_total",
			Help: "Total number of section updates by section name",
		}, []string{"section"}),
		BulkUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "intake_bulk_updates_total",
			Help: "Total number of atomic multi-section updates",
		}),
		ClientsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "intake_clients_completed_total",
			Help: "Total number of records reaching 100% completion",
		}),
		UpdateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "intake_update_duration_seconds",
			Help:    "Duration of section write operations (validation through persistence)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementClientsCreated records a successful record creation.
func (m *Metrics) IncrementClientsCreated() {
	m.ClientsCreated.Inc()
}

// IncrementSectionUpdate records one persisted section write.
func (m *Metrics) IncrementSectionUpdate(section string) {
	m.SectionUpdates.WithLabelValues(section).Inc()
}

// IncrementBulkUpdates records one persisted bulk update.
func (m *Metrics) IncrementBulkUpdates() {
	m.BulkUpdates.Inc()
}

// IncrementClientsCompleted records a record reaching 100% completion.
func (m *Metrics) IncrementClientsCompleted() {
	m.ClientsCompleted.Inc()
}

// ObserveUpdate records the duration of a write operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveUpdate(start time.Time) {
	m.UpdateDuration.Observe(time.Since(start).Seconds())
}
