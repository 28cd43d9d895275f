package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	// Appointment lifecycle metrics
	AppointmentsBooked     prometheus.Counter
	AppointmentTransitions *prometheus.CounterVec
	DocumentsAttached      *prometheus.CounterVec

	// Live view metrics
	LiveClients     prometheus.Gauge
	LiveBroadcasts  *prometheus.CounterVec
	ChangesReceived prometheus.Counter
}

// New creates and registers all application metrics on reg.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route"}),

		AppointmentsBooked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "booked_total",
			Help:      "Total number of appointments booked",
		}),
		AppointmentTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "transitions_total",
			Help:      "Total number of appointment status transitions",
		}, []string{"status"}),
		DocumentsAttached: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "documents_attached_total",
			Help:      "Total number of documents attached to appointments",
		}, []string{"kind"}),

		LiveClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "clients",
			Help:      "Current number of connected live view clients",
		}),
		LiveBroadcasts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "broadcasts_total",
			Help:      "Total number of live view snapshots pushed",
		}, []string{"topic_kind"}),
		ChangesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "changes_received_total",
			Help:      "Total number of change notifications consumed",
		}),
	}
}

// NewNop returns metrics registered on a private registry. Used in tests.
func NewNop() *Metrics {
	return New("test", prometheus.NewRegistry())
}
