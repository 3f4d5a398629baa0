// Package actor implements the rate-heterogeneous tick loop: a cooperative
// task that reads its inputs, advances its client, and produces its
// outputs at a ratio fixed by its declared input/output rates.
package actor

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/gmto-dos/actorflow/internal/metrics"
	"github.com/gmto-dos/actorflow/pkg/client"
)

// Actor owns one client behind a mutex, and the input/output ports wired
// to it. The mutex mirrors the teacher lineage's single-writer-at-a-time
// discipline: a client's Update/Read/Write methods never run concurrently
// with one another, even though neighbouring actors tick in their own
// goroutines.
type Actor struct {
	name      string
	modelName string
	ni        int
	no        int
	client    client.Updater
	mu        sync.Mutex
	inputs    []InputPort
	outputs   []OutputPort
	outEdges  []OutEdge
	log       logrus.FieldLogger
	ticks     atomic.Int64

	tickDeadline time.Duration
}

// OutEdge records one wire from an output of this actor to a consuming
// actor, as recorded by BuiltOutput.IntoInput. Model walks these to reject
// a feedback cycle that never bootstraps.
type OutEdge struct {
	To        *Actor
	Output    string
	Bootstrap bool
}

// addOutEdge records a wire from this actor's output named output to to,
// noting whether that output carries a bootstrap value.
func (a *Actor) addOutEdge(to *Actor, output string, bootstrap bool) {
	a.outEdges = append(a.outEdges, OutEdge{To: to, Output: output, Bootstrap: bootstrap})
}

// OutEdges returns every wire leaving this actor's outputs, in the order
// they were connected.
func (a *Actor) OutEdges() []OutEdge { return a.outEdges }

// New creates an actor named name with input rate ni and output rate no,
// driving cli. A nil log falls back to logrus's standard logger.
func New(name string, ni, no int, cli client.Updater, log logrus.FieldLogger) *Actor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Actor{
		name:   name,
		ni:     ni,
		no:     no,
		client: cli,
		log:    log.WithField("actor", name),
	}
}

// Name returns the actor's diagnostic name.
func (a *Actor) Name() string { return a.name }

// SetModel records the owning model's name, used only to label this
// actor's metrics series. Called by Model.Add.
func (a *Actor) SetModel(name string) { a.modelName = name }

// SetTickDeadline bounds every collect/distribute call in the tick loop by
// d; zero (the default) leaves them unbounded. A stalled tick — most often
// a feedback cycle missing the bootstrap that would unblock it — then
// returns a deadline-exceeded error instead of hanging forever.
func (a *Actor) SetTickDeadline(d time.Duration) { a.tickDeadline = d }

// withTickDeadline derives a child context bounded by a.tickDeadline when
// one is set, otherwise returns ctx unchanged with a no-op cancel.
func (a *Actor) withTickDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.tickDeadline <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.tickDeadline)
}

// Rates returns the actor's declared input and output rate.
func (a *Actor) Rates() (ni, no int) { return a.ni, a.no }

// Inputs returns the actor's wired inputs in declaration order.
func (a *Actor) Inputs() []InputPort { return a.inputs }

// Outputs returns the actor's wired outputs in declaration order.
func (a *Actor) Outputs() []OutputPort { return a.outputs }

// TickCount returns the number of tick-loop iterations completed so far,
// safe to read concurrently from a metrics collector while Run is active.
func (a *Actor) TickCount() int64 { return a.ticks.Load() }

// collect drives every input once, returning the first error encountered.
func (a *Actor) collect(ctx context.Context) error {
	ctx, cancel := a.withTickDeadline(ctx)
	defer cancel()
	for _, in := range a.inputs {
		if err := in.Collect(ctx); err != nil {
			return err
		}
		metrics.PortReceivedTotal.WithLabelValues(a.modelName, a.name, in.Name()).Inc()
	}
	return nil
}

// distribute drives every output once, returning the first error
// encountered.
func (a *Actor) distribute(ctx context.Context) error {
	ctx, cancel := a.withTickDeadline(ctx)
	defer cancel()
	for _, out := range a.outputs {
		if err := out.Distribute(ctx); err != nil {
			return err
		}
		metrics.PortSentTotal.WithLabelValues(a.modelName, a.name, out.Name()).Inc()
	}
	return nil
}

func (a *Actor) disconnectAll() {
	for _, in := range a.inputs {
		in.Disconnect()
	}
	for _, out := range a.outputs {
		out.Disconnect()
	}
}

// update runs the client's mandatory hook under the actor's lock.
func (a *Actor) update() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client == nil {
		return ErrNoClient
	}
	return a.client.Update()
}

// Bootstrap fires every bootstrap-flagged output once (decimating or
// equal-rate actors) or NI/NO times (upsampling actors), in the order the
// outputs were declared. It is called once per actor before Run starts,
// and breaks the startup deadlock of a feedback cycle.
func (a *Actor) Bootstrap(ctx context.Context) error {
	count := 1
	if a.no > 0 && a.ni > a.no {
		count = a.ni / a.no
	}
	for _, out := range a.outputs {
		if !out.HasBootstrap() {
			continue
		}
		if err := out.FireBootstrap(ctx, count); err != nil {
			return err
		}
		a.log.WithField("output", out.Name()).Info("bootstrap fired")
	}
	return nil
}

// Run drives the actor's tick loop until ctx is cancelled, an input
// disconnects, or an output runs dry. It returns nil only when ctx is
// cancelled; any other exit is reported as an error, including the
// orderly end-of-stream signalled by a client's Write returning false,
// which callers may choose to treat as expected termination.
func (a *Actor) Run(ctx context.Context) error {
	defer a.disconnectAll()

	metrics.ActorStatus.WithLabelValues(a.modelName, a.name).Set(metrics.ActorStatusRunning)

	var err error
	switch {
	case len(a.inputs) == 0 && len(a.outputs) > 0:
		err = a.runInitiator(ctx)
	case len(a.outputs) == 0 && len(a.inputs) > 0:
		err = a.runTerminator(ctx)
	case a.no >= a.ni:
		err = a.runDecimating(ctx)
	default:
		err = a.runUpsampling(ctx)
	}

	reason := "ctx_cancelled"
	status := float64(metrics.ActorStatusStopped)
	if err != nil {
		reason = "error"
		status = float64(metrics.ActorStatusError)
	}
	metrics.ActorStatus.WithLabelValues(a.modelName, a.name).Set(status)
	metrics.DisconnectsTotal.WithLabelValues(a.modelName, a.name, reason).Inc()
	return err
}

// tick records the per-iteration tick counter and latency metrics for one
// completed tick-loop iteration, in addition to the atomic counter
// TickCount reads directly.
func (a *Actor) tick(start time.Time) {
	a.ticks.Inc()
	metrics.ActorTicksTotal.WithLabelValues(a.modelName, a.name).Inc()
	metrics.TickLatencySeconds.WithLabelValues(a.modelName, a.name).Observe(time.Since(start).Seconds())
}

// runInitiator drives an actor with no inputs: update then distribute,
// once per tick, forever.
func (a *Actor) runInitiator(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		start := time.Now()
		if err := a.update(); err != nil {
			return err
		}
		if err := a.distribute(ctx); err != nil {
			return err
		}
		a.tick(start)
	}
}

// runTerminator drives an actor with no outputs: collect then update,
// once per tick, until an input disconnects.
func (a *Actor) runTerminator(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		start := time.Now()
		if err := a.collect(ctx); err != nil {
			return err
		}
		if err := a.update(); err != nil {
			return err
		}
		a.tick(start)
	}
}

// runDecimating drives a transform actor whose output rate is a multiple
// of its input rate (NO >= NI, NO % NI == 0): NO/NI collect-then-update
// cycles feed one distribute.
func (a *Actor) runDecimating(ctx context.Context) error {
	ratio := a.no / a.ni
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		start := time.Now()
		for i := 0; i < ratio; i++ {
			if err := a.collect(ctx); err != nil {
				return err
			}
			if err := a.update(); err != nil {
				return err
			}
		}
		if err := a.distribute(ctx); err != nil {
			return err
		}
		a.tick(start)
	}
}

// runUpsampling drives a transform actor whose input rate is a multiple of
// its output rate (NI > NO, NI % NO == 0): one collect-then-update feeds
// NI/NO distributes, sample-and-hold style.
func (a *Actor) runUpsampling(ctx context.Context) error {
	ratio := a.ni / a.no
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		start := time.Now()
		if err := a.collect(ctx); err != nil {
			return err
		}
		if err := a.update(); err != nil {
			return err
		}
		for i := 0; i < ratio; i++ {
			if err := a.distribute(ctx); err != nil {
				return err
			}
		}
		a.tick(start)
	}
}
