package persist

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts commit activity across every Updater it is attached to.
type Metrics struct {
	// Writes counts storage writes issued by flushed atomic contexts.
	Writes prometheus.Counter

	// Rollbacks counts in-memory rollbacks, whether from a failed block
	// body or a missed selector extension.
	Rollbacks prometheus.Counter

	// PredicateMisses counts commits gated off by a selector extension that
	// did not match the document server-side.
	PredicateMisses prometheus.Counter
}

// NewMetrics creates the counters and registers them with reg when it is
// non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Writes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mongoid_atomic_writes_total",
			Help: "Storage writes issued by flushed atomic contexts",
		}),
		Rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mongoid_atomic_rollbacks_total",
			Help: "In-memory rollbacks of atomic contexts",
		}),
		PredicateMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mongoid_atomic_predicate_misses_total",
			Help: "Commits gated off by an unmatched selector extension",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Writes, m.Rollbacks, m.PredicateMisses)
	}
	return m
}
