// Package metrics implements Prometheus metrics for the actor runtime.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActorTicksTotal counts ticks completed per actor.
	ActorTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actorflow_actor_ticks_total",
			Help: "Total number of tick-loop iterations completed by an actor",
		},
		[]string{"model", "actor"},
	)

	// PortSentTotal counts envelopes sent on an output port.
	PortSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actorflow_port_sent_total",
			Help: "Total number of envelopes sent on an actor output",
		},
		[]string{"model", "actor", "port"},
	)

	// PortReceivedTotal counts envelopes received on an input port.
	PortReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actorflow_port_received_total",
			Help: "Total number of envelopes received on an actor input",
		},
		[]string{"model", "actor", "port"},
	)

	// TickLatencySeconds measures the wall-clock duration of one tick.
	TickLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "actorflow_tick_latency_seconds",
			Help:    "Latency of one actor tick-loop iteration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.000001, 2, 20),
		},
		[]string{"model", "actor"},
	)

	// ActorStatus tracks the current run status of an actor.
	ActorStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "actorflow_actor_status",
			Help: "Current status of an actor (0=stopped, 1=running, 2=error)",
		},
		[]string{"model", "actor"},
	)

	// DisconnectsTotal counts orderly and error disconnects per actor.
	DisconnectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actorflow_disconnects_total",
			Help: "Total number of port disconnects observed, by reason",
		},
		[]string{"model", "actor", "reason"},
	)
)

// Values the ActorStatus gauge takes for an actor's run status.
const (
	ActorStatusStopped = 0
	ActorStatusRunning = 1
	ActorStatusError   = 2
)
