// Package metrics exposes the engine's Prometheus instruments.
//
// All collectors are registered on prometheus.DefaultRegisterer; exposition
// (an HTTP /metrics endpoint or a push gateway) is the embedding
// application's concern.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "switchboard"

var (
	// CallsAdmitted counts calls delivered by the transport and accepted for
	// dispatch.
	CallsAdmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calls_admitted_total",
		Help:      "Inbound calls admitted for dispatch.",
	})

	// UnknownMethods counts calls for method names with no registered
	// handler; each is completed with an Unimplemented status.
	UnknownMethods = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unknown_methods_total",
		Help:      "Calls rejected because no handler was registered for the method.",
	})

	// DispatchFailures counts malformed new-call notifications and handler
	// panics recovered by the dispatch executor.
	DispatchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatch_failures_total",
		Help:      "Malformed deliveries and recovered handler panics.",
	})

	// InFlightDispatches tracks handler invocations currently running on the
	// executor.
	InFlightDispatches = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "in_flight_dispatches",
		Help:      "Handler invocations currently executing.",
	})
)
