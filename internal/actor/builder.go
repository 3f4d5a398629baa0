package actor

import (
	"fmt"

	"github.com/gmto-dos/actorflow/pkg/envelope"
	"github.com/gmto-dos/actorflow/pkg/port"
)

// OutputBuilder accumulates the capacity, bootstrap, and fan-out
// configuration for one actor output before it is wired into the graph.
// The fluent chain mirrors the way the teacher's pipeline Builder
// accumulates stage configuration before a single terminal Build call.
type OutputBuilder[T any, K any] struct {
	owner     *Actor
	name      string
	capacity  int
	multiplex int
	bootstrap bool
	bootVal   T
}

// AddOutput starts configuring a new output named name on owner, carrying
// payload T tagged with identifier K. Default capacity is 1 (lock-step)
// and default fan-out is a single consumer.
func AddOutput[T any, K any](owner *Actor, name string) *OutputBuilder[T, K] {
	return &OutputBuilder[T, K]{owner: owner, name: name, capacity: 1, multiplex: 1}
}

// Unbounded removes the capacity limit on every multiplexed sub-channel of
// this output.
func (b *OutputBuilder[T, K]) Unbounded() *OutputBuilder[T, K] {
	b.capacity = port.Unbounded
	return b
}

// Capacity sets an explicit per-channel buffer size, overriding the
// default of 1 (lock-step).
func (b *OutputBuilder[T, K]) Capacity(n int) *OutputBuilder[T, K] {
	b.capacity = n
	return b
}

// Bootstrap records value to be sent on this output once (or NI/NO times,
// for an upsampling actor) before the model starts ticking, breaking a
// feedback cycle's startup deadlock.
func (b *OutputBuilder[T, K]) Bootstrap(value T) *OutputBuilder[T, K] {
	b.bootstrap = true
	b.bootVal = value
	return b
}

// Multiplex fans this output out to n independently wired consumers
// instead of one.
func (b *OutputBuilder[T, K]) Multiplex(n int) *OutputBuilder[T, K] {
	if n < 1 {
		n = 1
	}
	b.multiplex = n
	return b
}

// Build finalizes the output, binding write as the client method called
// once per produce cycle, and registers it on the owning actor.
func (b *OutputBuilder[T, K]) Build(write func() (T, bool)) *BuiltOutput[T, K] {
	tx, rxs := port.NewChannel[T, K](b.multiplex, b.capacity)
	out := &typedOutput[T, K]{
		name:           b.name,
		tx:             tx,
		write:          write,
		hasBootstrap:   b.bootstrap,
		bootstrapValue: b.bootVal,
	}
	b.owner.outputs = append(b.owner.outputs, out)
	return &BuiltOutput[T, K]{name: b.name, rxs: rxs, producer: b.owner, hasBootstrap: b.bootstrap}
}

// BuiltOutput is a finished output awaiting one IntoInput call per
// multiplexed sub-channel to wire it to a consuming actor.
type BuiltOutput[T any, K any] struct {
	name         string
	rxs          []port.Rx[T, K]
	next         int
	producer     *Actor
	hasBootstrap bool
}

// IntoInput wires the next unclaimed multiplexed sub-channel of this
// output into consumer as an input named name, binding read as the client
// method invoked once per envelope received. It also records the wire as
// an OutEdge on the producing actor, which Model.Check walks to reject a
// feedback cycle that never bootstraps.
func (b *BuiltOutput[T, K]) IntoInput(consumer *Actor, name string, read func(envelope.D[T, K]) error) error {
	if b.next >= len(b.rxs) {
		return fmt.Errorf("actorflow: output %q: no unclaimed multiplexed channel left for input %q", b.name, name)
	}
	rx := b.rxs[b.next]
	b.next++
	consumer.inputs = append(consumer.inputs, &typedInput[T, K]{
		name:  name,
		owner: consumer.name,
		rx:    rx,
		read:  read,
	})
	b.producer.addOutEdge(consumer, b.name, b.hasBootstrap)
	return nil
}
