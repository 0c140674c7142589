package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	ruleExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rule",
			Subsystem: "engine",
			Name:      "executions_total",
			Help:      "Total rule trigger firings processed, labeled by outcome.",
		},
		[]string{"rule", "outcome"},
	)

	ruleExecutionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rule",
			Subsystem: "engine",
			Name:      "execution_duration_seconds",
			Help:      "Wall-clock duration of a single rule firing.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"rule"},
	)

	bindingFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rule",
			Subsystem: "engine",
			Name:      "binding_failures_total",
			Help:      "Handler-binding attempts that left a rule NOT_INITIALIZED.",
		},
		[]string{"rule", "detail"},
	)

	statusTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rule",
			Subsystem: "engine",
			Name:      "status_transitions_total",
			Help:      "Rule status transitions, labeled by the resulting status.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		ruleExecutionsTotal,
		ruleExecutionDuration,
		bindingFailuresTotal,
		statusTransitionsTotal,
	)
}
