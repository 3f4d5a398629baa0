package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gmto-dos/actorflow/internal/config"
	"github.com/gmto-dos/actorflow/internal/stdclients"
)

func TestParseModelGraphFromJSON(t *testing.T) {
	raw := `{
		"name": "setpoint",
		"actors": [
			{"name": "source", "kind": "constant_source", "output_rate": 1, "params": {"value": 5}},
			{"name": "sink", "kind": "logging_sink", "input_rate": 1, "params": {"name": "sink"}}
		],
		"wires": [
			{"from_actor": "source", "from_output": "value", "to_actor": "sink", "to_input": "value_in"}
		]
	}`

	doc, err := config.ParseModelGraph([]byte(raw))
	require.NoError(t, err)
	require.Equal(t, "setpoint", doc.Name)
	require.Len(t, doc.Actors, 2)
	require.Len(t, doc.Wires, 1)
}

func TestParseModelGraphAutoDetectsYAML(t *testing.T) {
	raw := []byte("name: setpoint\nactors:\n  - name: source\n    kind: constant_source\n    output_rate: 1\n")
	doc, err := config.ParseModelGraphAuto(raw, "graph.yaml")
	require.NoError(t, err)
	require.Equal(t, "setpoint", doc.Name)
}

func TestValidateRejectsUnknownWireEndpoint(t *testing.T) {
	doc := &config.ModelGraphDocument{
		Name: "broken",
		Actors: []config.ActorDeclaration{
			{Name: "source", Kind: "constant_source", OutputRate: 1},
		},
		Wires: []config.WireDeclaration{
			{FromActor: "source", ToActor: "nonexistent"},
		},
	}
	require.Error(t, doc.Validate())
}

func TestValidateRejectsDuplicateActorNames(t *testing.T) {
	doc := &config.ModelGraphDocument{
		Name: "broken",
		Actors: []config.ActorDeclaration{
			{Name: "a", Kind: "constant_source", OutputRate: 1},
			{Name: "a", Kind: "constant_source", OutputRate: 1},
		},
	}
	require.Error(t, doc.Validate())
}

func TestValidateRejectsInvalidCapacity(t *testing.T) {
	doc := &config.ModelGraphDocument{
		Name: "broken",
		Actors: []config.ActorDeclaration{
			{Name: "source", Kind: "constant_source", OutputRate: 1},
			{Name: "sink", Kind: "constant_source", InputRate: 1},
		},
		Wires: []config.WireDeclaration{
			{FromActor: "source", FromOutput: "out", ToActor: "sink", ToInput: "in", Capacity: -2},
		},
	}
	require.Error(t, doc.Validate())
}

func TestBuildAssemblesRunnableModel(t *testing.T) {
	doc := &config.ModelGraphDocument{
		Name: "setpoint",
		Actors: []config.ActorDeclaration{
			{Name: "source", Kind: "constant_source", OutputRate: 1, Params: map[string]any{"value": 9.0}},
			{Name: "sink", Kind: "logging_sink", InputRate: 1, Params: map[string]any{"name": "sink"}},
		},
		Wires: []config.WireDeclaration{
			{FromActor: "source", FromOutput: "value", ToActor: "sink", ToInput: "value_in"},
		},
	}
	_ = stdclients.List() // ensure the package's init()s have registered

	m, err := config.Build(doc, nil)
	require.NoError(t, err)
	require.NoError(t, m.Check())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, m.Run(ctx))
	<-ctx.Done()
	m.Stop()
	_ = m.Wait()
}

func TestBuildRejectsConflictingMultiplexWireSettings(t *testing.T) {
	doc := &config.ModelGraphDocument{
		Name: "fanout",
		Actors: []config.ActorDeclaration{
			{Name: "source", Kind: "constant_source", OutputRate: 1, Params: map[string]any{"value": 1.0}},
			{Name: "sink_a", Kind: "logging_sink", InputRate: 1, Params: map[string]any{"name": "a"}},
			{Name: "sink_b", Kind: "logging_sink", InputRate: 1, Params: map[string]any{"name": "b"}},
		},
		Wires: []config.WireDeclaration{
			{FromActor: "source", FromOutput: "value", ToActor: "sink_a", ToInput: "value_in", Multiplex: 2, Capacity: 3},
			{FromActor: "source", FromOutput: "value", ToActor: "sink_b", ToInput: "value_in", Capacity: 5},
		},
	}
	_ = stdclients.List()

	_, err := config.Build(doc, nil)
	require.Error(t, err)
}

func TestBuildAppliesMultiplexSettingsFromEitherWire(t *testing.T) {
	doc := &config.ModelGraphDocument{
		Name: "fanout",
		Actors: []config.ActorDeclaration{
			{Name: "source", Kind: "constant_source", OutputRate: 1, Params: map[string]any{"value": 1.0}},
			{Name: "sink_a", Kind: "logging_sink", InputRate: 1, Params: map[string]any{"name": "a"}},
			{Name: "sink_b", Kind: "logging_sink", InputRate: 1, Params: map[string]any{"name": "b"}},
		},
		Wires: []config.WireDeclaration{
			{FromActor: "source", FromOutput: "value", ToActor: "sink_a", ToInput: "value_in"},
			{FromActor: "source", FromOutput: "value", ToActor: "sink_b", ToInput: "value_in", Multiplex: 2},
		},
	}
	_ = stdclients.List()

	m, err := config.Build(doc, nil)
	require.NoError(t, err)
	require.NoError(t, m.Check())
}
