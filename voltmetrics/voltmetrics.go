// Package voltmetrics exposes connection-engine metrics through
// github.com/prometheus/client_golang, grounded on packetd's
// controller/metrics.go promauto pattern. Unlike that reference, Stats
// is never held as a package-level global: the caller constructs one
// against its own *prometheus.Registry (or prometheus.NewRegistry()
// for tests), so running two sessions in one process never collides
// on metric registration.
package voltmetrics

import "github.com/prometheus/client_golang/prometheus"

// Stats holds one session's metric instruments. The zero value is not
// usable; build one with New.
type Stats struct {
	InFlight          prometheus.Gauge
	CallsDispatched   *prometheus.CounterVec
	BackpressureDrops prometheus.Counter
	HandshakeSeconds  prometheus.Histogram
}

// New registers a fresh set of instruments against reg and returns
// them bound to a Stats. namespace/subsystem follow the usual
// prometheus naming convention, e.g. namespace="voltgo", subsystem="conn".
func New(reg *prometheus.Registry, namespace, subsystem string) *Stats {
	s := &Stats{
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "calls_in_flight",
			Help:      "Number of procedure calls awaiting a response.",
		}),
		CallsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "calls_dispatched_total",
			Help:      "Procedure calls dispatched, labeled by outcome.",
		}, []string{"outcome"}),
		BackpressureDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "backpressure_rejections_total",
			Help:      "Calls rejected because the outstanding-call bound was reached.",
		}),
		HandshakeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "handshake_seconds",
			Help:      "Login handshake latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(s.InFlight, s.CallsDispatched, s.BackpressureDrops, s.HandshakeSeconds)
	return s
}

// Nop returns a Stats backed by a private, unregistered registry — a
// safe default for callers that don't care about metrics.
func Nop() *Stats {
	return New(prometheus.NewRegistry(), "voltgo", "conn")
}
