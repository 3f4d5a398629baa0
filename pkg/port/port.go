// Package port implements the bounded single-producer/multi-consumer
// channel pairs an actor's inputs and outputs are built from.
package port

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/multierr"

	"github.com/gmto-dos/actorflow/pkg/envelope"
)

// Unbounded marks an output channel as having no effective capacity limit.
const Unbounded = -1

// ErrClosed names the condition of a disconnected, drained port. Recv does
// not return it: Recv reports that condition as ok == false with a nil
// error.
var ErrClosed = errors.New("actorflow: port closed")

// Rx is the receiving half of one channel in a (possibly multiplexed)
// output-to-input wiring.
type Rx[T any, K any] struct {
	ch   <-chan envelope.D[T, K]
	stop func()
}

// Recv blocks until an envelope arrives, the channel is closed, or ctx is
// done. ok is false exactly when the channel has been disconnected and
// fully drained.
func (r Rx[T, K]) Recv(ctx context.Context) (envelope.D[T, K], bool, error) {
	select {
	case v, ok := <-r.ch:
		if !ok {
			var zero envelope.D[T, K]
			return zero, false, nil
		}
		return v, true, nil
	case <-ctx.Done():
		var zero envelope.D[T, K]
		return zero, false, ctx.Err()
	}
}

// Close tells an unbounded channel's relay goroutine that this receiver
// will never call Recv again, so it can drop any remaining buffered
// envelopes instead of blocking forever trying to flush them. A no-op for
// bounded channels, which have no relay to stop.
func (r Rx[T, K]) Close() {
	if r.stop != nil {
		r.stop()
	}
}

// Tx is the sending half fanning one actor's output out to every channel
// wired to a consumer.
type Tx[T any, K any] struct {
	chans   []chan<- envelope.D[T, K]
	closers []func()
	once    sync.Once
}

// NewChannel builds n parallel channels (one per multiplexed consumer),
// each with the given capacity (port.Unbounded for no effective limit). It
// returns the fan-out sender and the n receivers in declaration order.
func NewChannel[T any, K any](n int, capacity int) (*Tx[T, K], []Rx[T, K]) {
	if n < 1 {
		n = 1
	}
	chans := make([]chan<- envelope.D[T, K], n)
	closers := make([]func(), n)
	rxs := make([]Rx[T, K], n)
	for i := 0; i < n; i++ {
		if capacity == Unbounded {
			in, out, stop := newUnbounded[T, K]()
			chans[i] = in
			closers[i] = func() { close(in) }
			rxs[i] = Rx[T, K]{ch: out, stop: stop}
		} else {
			ch := make(chan envelope.D[T, K], capacity)
			chans[i] = ch
			closers[i] = func(ch chan envelope.D[T, K]) func() {
				return func() { close(ch) }
			}(ch)
			rxs[i] = Rx[T, K]{ch: ch}
		}
	}
	return &Tx[T, K]{chans: chans, closers: closers}, rxs
}

// Send fans value out to every wired consumer concurrently and awaits all
// of them, so a multiplexed output locks step to its slowest consumer
// rather than to whichever sub-channel happens to be scanned first. A
// sequential send order can deadlock a diamond topology where the second
// consumer in declaration order must drain before the first can make
// progress; sending concurrently cannot. Returns ctx.Err() (possibly
// combined with another send's error via multierr) if ctx is done before
// all sends complete.
func (t *Tx[T, K]) Send(ctx context.Context, value envelope.D[T, K]) error {
	if len(t.chans) == 1 {
		select {
		case t.chans[0] <- value:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, len(t.chans))
	for i, ch := range t.chans {
		wg.Add(1)
		go func(i int, ch chan<- envelope.D[T, K]) {
			defer wg.Done()
			select {
			case ch <- value:
			case <-ctx.Done():
				errs[i] = ctx.Err()
			}
		}(i, ch)
	}
	wg.Wait()

	var agg error
	for _, err := range errs {
		agg = multierr.Append(agg, err)
	}
	return agg
}

// Disconnect closes every underlying channel, signalling orderly
// end-of-stream to every consumer.
func (t *Tx[T, K]) Disconnect() {
	t.once.Do(func() {
		for _, closer := range t.closers {
			closer()
		}
	})
}

// Len reports how many multiplexed sub-channels this sender fans out to.
func (t *Tx[T, K]) Len() int {
	return len(t.chans)
}

// newUnbounded adapts a pair of unbuffered channels into an effectively
// unbounded queue: a relay goroutine buffers in a growable slice so the
// producer never blocks on a slow consumer. The returned stop func lets
// the receiver abandon the relay (via Rx.Close) so a producer disconnect
// racing with a consumer that has already stopped draining doesn't leave
// the relay goroutine blocked forever flushing to nobody.
func newUnbounded[T any, K any]() (chan<- envelope.D[T, K], <-chan envelope.D[T, K], func()) {
	in := make(chan envelope.D[T, K])
	out := make(chan envelope.D[T, K])
	stop := make(chan struct{})
	var stopOnce sync.Once

	go func() {
		defer close(out)
		var queue []envelope.D[T, K]
		for {
			if len(queue) == 0 {
				select {
				case v, ok := <-in:
					if !ok {
						return
					}
					queue = append(queue, v)
				case <-stop:
					return
				}
				continue
			}
			select {
			case v, ok := <-in:
				if !ok {
					drainOrAbandon(out, queue, stop)
					return
				}
				queue = append(queue, v)
			case out <- queue[0]:
				queue = queue[1:]
			case <-stop:
				return
			}
		}
	}()

	return in, out, func() { stopOnce.Do(func() { close(stop) }) }
}

// drainOrAbandon flushes queue to out, giving up as soon as stop fires
// instead of blocking on a consumer that will never read again.
func drainOrAbandon[T any, K any](out chan<- envelope.D[T, K], queue []envelope.D[T, K], stop <-chan struct{}) {
	for _, q := range queue {
		select {
		case out <- q:
		case <-stop:
			return
		}
	}
}
