package port_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gmto-dos/actorflow/pkg/envelope"
	"github.com/gmto-dos/actorflow/pkg/port"
)

type tempID struct{}

func TestChannelFanOutDeliversToAllConsumers(t *testing.T) {
	tx, rxs := port.NewChannel[float64, tempID](3, 1)
	require.Len(t, rxs, 3)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, tx.Send(ctx, envelope.New[float64, tempID](21.5)))

	for _, rx := range rxs {
		v, ok, err := rx.Recv(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 21.5, v.Value())
	}
}

func TestChannelDisconnectClosesReceivers(t *testing.T) {
	tx, rxs := port.NewChannel[int, tempID](1, 1)
	tx.Disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, ok, err := rxs[0].Recv(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

// TestSendDeliversConcurrentlyEvenWhenOneConsumerLags pins down the
// fan-out-is-parallel requirement: a consumer with nothing in its way
// must receive its value promptly even while a sibling multiplexed
// consumer hasn't read yet. A sequential per-channel send order would
// starve every consumer after the first lagging one — exactly the shape
// of deadlock a diamond topology produces when the lagging consumer can
// only be unblocked by another actor downstream of this same fan-out.
func TestSendDeliversConcurrentlyEvenWhenOneConsumerLags(t *testing.T) {
	tx, rxs := port.NewChannel[int, tempID](2, 0)

	delivered := make(chan int, 1)
	go func() {
		v, ok, err := rxs[1].Recv(context.Background())
		if err == nil && ok {
			delivered <- v.Value()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	sendDone := make(chan error, 1)
	go func() {
		sendDone <- tx.Send(ctx, envelope.New[int, tempID](7))
	}()

	select {
	case v := <-delivered:
		require.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("second consumer never received its value even though nothing blocks it reading — fan-out is not concurrent")
	}

	// rxs[0] is never drained, so the send can never fully complete; once
	// ctx expires it must report that, not hang forever.
	select {
	case err := <-sendDone:
		require.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("send blocked on the undrained channel never returned")
	}
}

// TestUnboundedChannelCloseAbandonsBufferedEnvelopes exercises the relay
// goroutine's abandonment path: once the receiver calls Close, a producer
// that later closes its side must not block forever trying to flush
// whatever was still buffered to a consumer that will never read again.
func TestUnboundedChannelCloseAbandonsBufferedEnvelopes(t *testing.T) {
	tx, rxs := port.NewChannel[int, tempID](1, port.Unbounded)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, tx.Send(ctx, envelope.New[int, tempID](1)))
	require.NoError(t, tx.Send(ctx, envelope.New[int, tempID](2)))

	v, ok, err := rxs[0].Recv(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, v.Value())

	// The consumer gives up (e.g. its own ctx was cancelled) without
	// draining envelope 2, then the producer disconnects. Pre-fix, the
	// relay goroutine would block forever trying to flush envelope 2 to
	// an out channel nobody reads, leaking the goroutine and the Recv
	// below would hang too.
	rxs[0].Close()
	tx.Disconnect()

	done := make(chan struct{})
	var gotOK bool
	go func() {
		_, ok, _ := rxs[0].Recv(context.Background())
		gotOK = ok
		close(done)
	}()
	select {
	case <-done:
		require.False(t, gotOK, "relay should have abandoned its buffer and closed out, not delivered the stale envelope")
	case <-time.After(time.Second):
		t.Fatal("Recv after an abandoned relay should return promptly once out closes, not hang forever")
	}
}

func TestUnboundedChannelNeverBlocksProducer(t *testing.T) {
	tx, rxs := port.NewChannel[int, tempID](1, port.Unbounded)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 1000; i++ {
		require.NoError(t, tx.Send(ctx, envelope.New[int, tempID](i)))
	}

	for i := 0; i < 1000; i++ {
		v, ok, err := rxs[0].Recv(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, i, v.Value())
	}
}
