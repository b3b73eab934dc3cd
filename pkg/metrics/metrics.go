// Package metrics holds the Prometheus collectors an embedding
// application registers and then hands to engine.EvaluationOptions so
// the generic stepper can report through them. The engine package
// never touches prometheus.DefaultRegisterer itself; this package is
// where that wiring happens.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// OpcodesExecuted counts every instruction the stepper processes,
// across all evaluations sharing this collector.
var OpcodesExecuted = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "bchengine",
		Name:      "opcodes_executed_total",
		Help:      "Total number of script instructions executed.",
	},
)

// EvaluationDuration observes the wall-clock time a single
// engine.StateEvaluate call took, in seconds.
var EvaluationDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "bchengine",
		Name:      "evaluation_duration_seconds",
		Help:      "Wall-clock duration of a single script evaluation.",
		Buckets:   prometheus.DefBuckets,
	},
)

// Register adds this package's collectors to reg. Call once at
// process startup before handing OpcodesExecuted/EvaluationDuration to
// any engine.EvaluationOptions.
func Register(reg prometheus.Registerer) error {
	if err := reg.Register(OpcodesExecuted); err != nil {
		return err
	}
	return reg.Register(EvaluationDuration)
}
