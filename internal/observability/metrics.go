package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the gateway's prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	connectorRequests *prometheus.CounterVec
	connectorDuration *prometheus.HistogramVec
	webhooksReceived  *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. Tests pass a fresh prometheus.NewRegistry().
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		connectorRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "connector_requests_total",
			Help: "Connector round trips by outcome.",
		}, []string{"connector", "flow", "outcome"}),
		connectorDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "connector_request_duration_seconds",
			Help:    "Latency of connector round trips.",
			Buckets: prometheus.DefBuckets,
		}, []string{"connector", "flow"}),
		webhooksReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webhooks_received_total",
			Help: "Incoming connector webhooks by classified event.",
		}, []string{"connector", "event"}),
	}
}

func (m *Metrics) ObserveConnectorCall(connector, flow, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.connectorRequests.WithLabelValues(connector, flow, outcome).Inc()
	if elapsed > 0 {
		m.connectorDuration.WithLabelValues(connector, flow).Observe(elapsed.Seconds())
	}
}

func (m *Metrics) WebhookReceived(connector, event string) {
	if m == nil {
		return
	}
	m.webhooksReceived.WithLabelValues(connector, event).Inc()
}

// ConnectorRequests exposes the counter for assertions with prometheus/testutil.
func (m *Metrics) ConnectorRequests() *prometheus.CounterVec {
	return m.connectorRequests
}

func (m *Metrics) WebhooksReceived() *prometheus.CounterVec {
	return m.webhooksReceived
}
