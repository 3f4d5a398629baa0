package model_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gmto-dos/actorflow/internal/actor"
	"github.com/gmto-dos/actorflow/internal/model"
	"github.com/gmto-dos/actorflow/pkg/envelope"
)

type valID struct{}

type seqSource struct {
	values []float64
	i      int
}

func (c *seqSource) Update() error { return nil }
func (c *seqSource) Write() (float64, bool) {
	if c.i >= len(c.values) {
		return 0, false
	}
	v := c.values[c.i]
	c.i++
	return v, true
}

type sink struct {
	mu  sync.Mutex
	got []float64
}

func (c *sink) Update() error { return nil }
func (c *sink) Read(v envelope.D[float64, valID]) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, v.Value())
	return nil
}
func (c *sink) snapshot() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]float64, len(c.got))
	copy(out, c.got)
	return out
}

func TestModelRunWaitDeliversAllValues(t *testing.T) {
	source := &seqSource{values: []float64{1, 2, 3}}
	sinkC := &sink{}

	producer := actor.New("source", 0, 1, source, nil)
	consumer := actor.New("sink", 1, 0, sinkC, nil)

	built := actor.AddOutput[float64, valID](producer, "value").Build(source.Write)
	require.NoError(t, built.IntoInput(consumer, "value_in", sinkC.Read))

	m := model.New("pipeline", nil)
	m.Add(producer)
	m.Add(consumer)

	require.NoError(t, m.Check())
	require.NoError(t, m.Run(context.Background()))

	require.Eventually(t, func() bool {
		return len(sinkC.snapshot()) == 3
	}, time.Second, 5*time.Millisecond)

	m.Stop()
	err := m.Wait()
	require.Error(t, err)
}

func TestModelCheckRejectsZeroRateActor(t *testing.T) {
	sinkC := &sink{}
	consumer := actor.New("sink", 0, 0, sinkC, nil)

	m := model.New("broken", nil)
	m.Add(consumer)

	require.Error(t, m.Check())
}

func TestFlowchartListsEveryActorAndPort(t *testing.T) {
	source := &seqSource{}
	sinkC := &sink{}

	producer := actor.New("source", 0, 1, source, nil)
	consumer := actor.New("sink", 1, 0, sinkC, nil)
	built := actor.AddOutput[float64, valID](producer, "value").Build(source.Write)
	require.NoError(t, built.IntoInput(consumer, "value_in", sinkC.Read))

	m := model.New("demo", nil)
	m.Add(producer)
	m.Add(consumer)

	out := m.Flowchart()
	require.Contains(t, out, "source")
	require.Contains(t, out, "sink")
	require.Contains(t, out, "value_in")
}
