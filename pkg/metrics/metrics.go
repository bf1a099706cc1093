package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the counters the API exports on /metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests           *prometheus.CounterVec
	HTTPDuration           *prometheus.HistogramVec
	FeedbackSubmissions    *prometheus.CounterVec
	ContactSubmissions     *prometheus.CounterVec
	NotificationDeliveries *prometheus.CounterVec
	NotificationsEnqueued  *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogpress_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blogpress_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		FeedbackSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogpress_feedback_submissions_total",
			Help: "Feedback submissions by outcome.",
		}, []string{"outcome"}),
		ContactSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogpress_contact_submissions_total",
			Help: "Contact form submissions by outcome.",
		}, []string{"outcome"}),
		NotificationDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogpress_notification_deliveries_total",
			Help: "Outbox delivery attempts by kind and outcome.",
		}, []string{"kind", "outcome"}),
		NotificationsEnqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogpress_notifications_enqueued_total",
			Help: "Outbox tasks written by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.FeedbackSubmissions,
		m.ContactSubmissions,
		m.NotificationDeliveries,
		m.NotificationsEnqueued,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(route, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, status).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(seconds)
}

func (m *Metrics) IncFeedback(outcome string) {
	if m == nil || m.FeedbackSubmissions == nil {
		return
	}
	m.FeedbackSubmissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncContact(outcome string) {
	if m == nil || m.ContactSubmissions == nil {
		return
	}
	m.ContactSubmissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncDelivery(kind, outcome string) {
	if m == nil || m.NotificationDeliveries == nil {
		return
	}
	m.NotificationDeliveries.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) IncEnqueued(kind string) {
	if m == nil || m.NotificationsEnqueued == nil {
		return
	}
	m.NotificationsEnqueued.WithLabelValues(kind).Inc()
}
