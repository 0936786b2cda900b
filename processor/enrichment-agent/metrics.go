package enrichmentagent

import (
	"github.com/c360studio/semstreams/metric"
	"github.com/prometheus/client_golang/prometheus"
)

// agentMetrics holds the Prometheus counters of one agent. Counters always
// exist; they are exported only when a registry is supplied.
type agentMetrics struct {
	received  prometheus.Counter
	decoded   *prometheus.CounterVec // by message kind
	rejected  *prometheus.CounterVec // by failure code
	published *prometheus.CounterVec // by message kind
	errors    *prometheus.CounterVec // by operation
}

func newAgentMetrics(registry *metric.MetricsRegistry) (*agentMetrics, error) {
	m := &agentMetrics{
		received: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "semagent",
			Subsystem: "enrichment_agent",
			Name:      "messages_received_total",
			Help:      "Inbound messages received on the request subject",
		}),
		decoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semagent",
			Subsystem: "enrichment_agent",
			Name:      "messages_decoded_total",
			Help:      "Inbound messages decoded, by kind",
		}, []string{"kind"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semagent",
			Subsystem: "enrichment_agent",
			Name:      "messages_rejected_total",
			Help:      "Inbound messages answered with a failure, by failure code",
		}, []string{"code"}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semagent",
			Subsystem: "enrichment_agent",
			Name:      "responses_published_total",
			Help:      "Responses published to reply channels, by kind",
		}, []string{"kind"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semagent",
			Subsystem: "enrichment_agent",
			Name:      "errors_total",
			Help:      "Agent errors, by operation",
		}, []string{"operation"}),
	}

	if registry == nil {
		return m, nil
	}
	if err := registry.RegisterCounter("enrichment_agent", "messages_received", m.received); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec("enrichment_agent", "messages_decoded", m.decoded); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec("enrichment_agent", "messages_rejected", m.rejected); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec("enrichment_agent", "responses_published", m.published); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec("enrichment_agent", "errors", m.errors); err != nil {
		return nil, err
	}
	return m, nil
}
