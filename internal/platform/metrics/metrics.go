package metrics

import (
	"regexp"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "faceit_hub_bot"

var idSegmentRegex = regexp.MustCompile(`^(?:[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}|[0-9a-fA-F]{16,}|\d+)$`)

// FetchMetrics records upstream calls made by the FACEIT client. A nil
// *FetchMetrics is valid and records nothing.
type FetchMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	circuit  *prometheus.GaugeVec
}

func NewFetchMetrics(reg prometheus.Registerer) *FetchMetrics {
	m := &FetchMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "faceit",
			Name:      "requests_total",
			Help:      "FACEIT API requests by resource and outcome.",
		}, []string{"resource", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "faceit",
			Name:      "request_duration_seconds",
			Help:      "FACEIT API request latency by resource.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource"}),
		circuit: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "faceit",
			Name:      "circuit_state",
			Help:      "1 for the current FACEIT circuit breaker state, 0 otherwise.",
		}, []string{"state"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.latency, m.circuit)
	}
	return m
}

func (m *FetchMetrics) Observe(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	resource := ResourceLabel(endpoint)
	m.requests.WithLabelValues(resource, outcome).Inc()
	m.latency.WithLabelValues(resource).Observe(elapsed.Seconds())
}

var circuitStates = []string{"closed", "open", "half_open", "disabled"}

// SetCircuitState marks state as the current breaker state.
func (m *FetchMetrics) SetCircuitState(state string) {
	if m == nil {
		return
	}
	for _, item := range circuitStates {
		value := 0.0
		if item == state {
			value = 1
		}
		m.circuit.WithLabelValues(item).Set(value)
	}
}

// CommandMetrics counts chat commands handled by the dispatcher. A nil
// *CommandMetrics is valid and records nothing.
type CommandMetrics struct {
	commands *prometheus.CounterVec
}

func NewCommandMetrics(reg prometheus.Registerer) *CommandMetrics {
	m := &CommandMetrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "commands_total",
			Help:      "Chat commands handled by command and result.",
		}, []string{"command", "result"}),
	}
	if reg != nil {
		reg.MustRegister(m.commands)
	}
	return m
}

func (m *CommandMetrics) Observe(command, result string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, result).Inc()
}

// ResourceLabel collapses identifier segments of an endpoint path so that
// label cardinality stays bounded, e.g. "hubs/<uuid>/matches" -> "hubs/:id/matches".
func ResourceLabel(endpoint string) string {
	endpoint = strings.Trim(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return "unknown"
	}
	parts := strings.Split(endpoint, "/")
	for i, part := range parts {
		if idSegmentRegex.MatchString(part) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
