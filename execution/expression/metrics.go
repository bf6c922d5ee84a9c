package expression

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts evaluation decisions of expression trees
type Metrics struct {
	comparisonDispatch    *prometheus.CounterVec
	caseBranchesEvaluated prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		comparisonDispatch: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "samehada",
			Subsystem: "expr",
			Name:      "comparison_dispatch_total",
			Help:      "Number of comparison predicate evaluations by chosen strategy.",
		}, []string{"strategy"}),
		caseBranchesEvaluated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "samehada",
			Subsystem: "expr",
			Name:      "case_branches_evaluated_total",
			Help:      "Number of CASE branches evaluated over a non-empty set of tuples.",
		}),
	}
}

var metricsRegistry = prometheus.NewRegistry()
var exprMetrics = NewMetrics(metricsRegistry)

// MetricsRegistry returns registry which holds counters of this package
func MetricsRegistry() *prometheus.Registry {
	return metricsRegistry
}
