package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all toolkit-level metrics (not application-specific)
type Metrics struct {
	// Registry metrics
	RegistrationsTotal *prometheus.CounterVec
	RegistrationErrors *prometheus.CounterVec
	LookupsTotal       *prometheus.CounterVec

	// Event metrics
	EventsPublished  *prometheus.CounterVec
	SubscriberErrors *prometheus.CounterVec

	// HTTP pipeline metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Dispatch metrics
	ActionsDispatched *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all toolkit metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "webkit",
				Subsystem: "registry",
				Name:      "registrations_total",
				Help:      "Total number of successful registrations by table",
			},
			[]string{"table"},
		),

		RegistrationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "webkit",
				Subsystem: "registry",
				Name:      "registration_errors_total",
				Help:      "Total number of rejected registrations by table",
			},
			[]string{"table"},
		),

		LookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "webkit",
				Subsystem: "registry",
				Name:      "lookups_total",
				Help:      "Total number of registry lookups by table and result",
			},
			[]string{"table", "result"},
		),

		EventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "webkit",
				Subsystem: "events",
				Name:      "published_total",
				Help:      "Total number of events delivered to subscribers",
			},
			[]string{"event"},
		),

		SubscriberErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "webkit",
				Subsystem: "events",
				Name:      "subscriber_errors_total",
				Help:      "Total number of subscriber handler failures",
			},
			[]string{"subscriber"},
		),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "webkit",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by method and status",
			},
			[]string{"method", "status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "webkit",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),

		ActionsDispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "webkit",
				Subsystem: "dispatch",
				Name:      "actions_total",
				Help:      "Total number of dispatched actions by controller, action and status",
			},
			[]string{"controller", "action", "status"},
		),
	}
}

// collectors returns every core metric for bulk registration
func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RegistrationsTotal,
		m.RegistrationErrors,
		m.LookupsTotal,
		m.EventsPublished,
		m.SubscriberErrors,
		m.RequestsTotal,
		m.RequestDuration,
		m.ActionsDispatched,
	}
}
