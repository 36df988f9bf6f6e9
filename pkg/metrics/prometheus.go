package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	Registrations   prometheus.Counter
	CheckIns        *prometheus.CounterVec
	TicketsSent     *prometheus.CounterVec
	ErrorsCount     *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// Check-in result labels
const (
	CheckInAdmitted  = "admitted"
	CheckInDuplicate = "duplicate"
	CheckInNotFound  = "not_found"
)

// NewMetrics registers the service metrics on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Registrations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "The total number of registered attendees",
		}),
		CheckIns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkins_total",
			Help:      "Check-in scans by result",
		}, []string{"result"}),
		TicketsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_sent_total",
			Help:      "Ticket emails accepted by the provider",
		}, []string{"channel", "provider"}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// NewNopMetrics returns metrics bound to a throwaway registry
func NewNopMetrics() *Metrics {
	return NewMetrics("test", prometheus.NewRegistry())
}
