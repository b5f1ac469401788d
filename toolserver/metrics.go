package toolserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	toolInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apidance_tool_invocations_total",
			Help: "Tool invocations by tool name and outcome.",
		},
		[]string{"tool", "outcome"},
	)

	apiRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apidance_api_requests_total",
			Help: "Upstream proxy requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)
)

// RecordAPICall feeds the prometheus counters from the client's metrics
// hook. Wire it into apidance.ClientConfig.MetricsHook.
func RecordAPICall(endpoint string, success, rateLimited bool) {
	outcome := "error"
	switch {
	case success:
		outcome = "ok"
	case rateLimited:
		outcome = "rate_limited"
	}
	apiRequests.WithLabelValues(endpoint, outcome).Inc()
}
