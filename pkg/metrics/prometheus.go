package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	BookingTransitions   *prometheus.CounterVec
	AuditWriteFailures   prometheus.Counter
	NotificationsSent    *prometheus.CounterVec
	NotificationFailures *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	ErrorsCount          *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "The total number of applied booking mutations",
		}, []string{"action"}),
		AuditWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_write_failures_total",
			Help:      "The total number of audit entries that could not be stored",
		}),
		NotificationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "The total number of delivered notifications",
		}, []string{"kind"}),
		NotificationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "The total number of notifications that failed to send",
		}, []string{"kind"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}

// Transition counts an applied booking mutation. Safe on a nil receiver.
func (m *Metrics) Transition(action string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(action).Inc()
}

// AuditFailed counts a dropped audit entry. Safe on a nil receiver.
func (m *Metrics) AuditFailed() {
	if m == nil {
		return
	}
	m.AuditWriteFailures.Inc()
}

// Notification counts a notification outcome. Safe on a nil receiver.
func (m *Metrics) Notification(kind string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.NotificationFailures.WithLabelValues(kind).Inc()
		return
	}
	m.NotificationsSent.WithLabelValues(kind).Inc()
}

// Error counts a failed operation. Safe on a nil receiver.
func (m *Metrics) Error(operation string) {
	if m == nil {
		return
	}
	m.ErrorsCount.WithLabelValues(operation).Inc()
}
