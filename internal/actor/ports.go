package actor

import (
	"context"
	"fmt"

	"github.com/gmto-dos/actorflow/pkg/envelope"
	"github.com/gmto-dos/actorflow/pkg/port"
)

// InputPort is the type-erased view of one actor input the tick loop
// drives without knowing the payload or identifier type underneath.
type InputPort interface {
	Name() string
	// Collect blocks for the next envelope and hands it to the bound
	// client Read method. It returns ErrDropRecv wrapped with the owning
	// actor's name once the upstream channel is closed.
	Collect(ctx context.Context) error
	// Disconnect tells the sending side this input will never be read
	// again, so an unbounded relay goroutine can abandon its buffer
	// instead of blocking on a drain that will never complete.
	Disconnect()
}

// OutputPort is the type-erased view of one actor output.
type OutputPort interface {
	Name() string
	// Distribute asks the bound client Write method for the next
	// envelope and fans it out to every wired consumer. A false ok from
	// the client signals orderly end-of-stream: Distribute disconnects
	// the output and returns ErrNoData.
	Distribute(ctx context.Context) error
	// FireBootstrap sends the output's recorded bootstrap value, if any,
	// count times without consulting the client.
	FireBootstrap(ctx context.Context, count int) error
	HasBootstrap() bool
	Disconnect()
}

type typedInput[T any, K any] struct {
	name  string
	owner string
	rx    port.Rx[T, K]
	read  func(envelope.D[T, K]) error
}

func (in *typedInput[T, K]) Name() string { return in.name }

func (in *typedInput[T, K]) Collect(ctx context.Context) error {
	v, ok, err := in.rx.Recv(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %w", ErrDropRecv, Disconnected(in.owner))
	}
	return in.read(v)
}

// Disconnect tells this input's sender-side relay (if its channel is
// unbounded) that nothing will call Collect again, so it can abandon any
// buffered envelopes instead of blocking on a drain forever. A no-op for
// bounded channels.
func (in *typedInput[T, K]) Disconnect() { in.rx.Close() }

type typedOutput[T any, K any] struct {
	name           string
	tx             *port.Tx[T, K]
	write          func() (T, bool)
	hasBootstrap   bool
	bootstrapValue T
}

func (out *typedOutput[T, K]) Name() string { return out.name }

func (out *typedOutput[T, K]) Distribute(ctx context.Context) error {
	value, ok := out.write()
	if !ok {
		out.tx.Disconnect()
		return ErrNoData
	}
	return out.tx.Send(ctx, envelope.New[T, K](value))
}

func (out *typedOutput[T, K]) FireBootstrap(ctx context.Context, count int) error {
	if !out.hasBootstrap {
		return nil
	}
	env := envelope.New[T, K](out.bootstrapValue)
	for i := 0; i < count; i++ {
		if err := out.tx.Send(ctx, env); err != nil {
			return err
		}
	}
	return nil
}

func (out *typedOutput[T, K]) HasBootstrap() bool { return out.hasBootstrap }

func (out *typedOutput[T, K]) Disconnect() { out.tx.Disconnect() }
