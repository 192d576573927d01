package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIMetrics counts the order and webhook activity the service handles.
type APIMetrics struct {
	registry      *prometheus.Registry
	ordersCreated *prometheus.CounterVec
	webhookEvents *prometheus.CounterVec
	emailFailures prometheus.Counter
}

// NewAPIMetrics registers the counters on a fresh registry.
func NewAPIMetrics() *APIMetrics {
	registry := prometheus.NewRegistry()

	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created, labelled by order type.",
	}, []string{"order_type"})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhook_events_total",
		Help: "Payment webhook deliveries, labelled by outcome.",
	}, []string{"outcome"})
	emailFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_send_failures_total",
		Help: "Order notification emails that failed to send.",
	})

	registry.MustRegister(ordersCreated, webhookEvents, emailFailures)

	return &APIMetrics{
		registry:      registry,
		ordersCreated: ordersCreated,
		webhookEvents: webhookEvents,
		emailFailures: emailFailures,
	}
}

// IncOrderCreated increments the order counter for the given type.
func (m *APIMetrics) IncOrderCreated(orderType string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(orderType)).Inc()
}

// IncWebhookEvent increments the webhook counter for the given outcome.
func (m *APIMetrics) IncWebhookEvent(outcome string) {
	if m == nil || m.webhookEvents == nil {
		return
	}
	m.webhookEvents.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncEmailFailure increments the notification failure counter.
func (m *APIMetrics) IncEmailFailure() {
	if m == nil || m.emailFailures == nil {
		return
	}
	m.emailFailures.Inc()
}

// Handler exposes the registry in Prometheus exposition format.
func (m *APIMetrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
