package config

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gmto-dos/actorflow/internal/actor"
	"github.com/gmto-dos/actorflow/internal/model"
	"github.com/gmto-dos/actorflow/internal/stdclients"
	"github.com/gmto-dos/actorflow/pkg/envelope"
)

// updater is the minimal interface every constructed client must satisfy;
// restated locally rather than imported to keep this package's only
// dependency on the actor/model packages, not on pkg/client.
type updater interface {
	Update() error
}

// signalReader is satisfied by every standard client that reads the
// shared float64 signal identifier.
type signalReader interface {
	Read(envelope.D[float64, stdclients.SignalID]) error
}

// signalWriter is satisfied by every standard client that writes the
// shared float64 signal identifier.
type signalWriter interface {
	Write() (float64, bool)
}

// Build resolves every actor declaration against the stdclients registry,
// constructs the actors, and wires every declared connection, returning a
// ready-to-Check/Run Model. It only wires clients built from standard
// client kinds — all of which exchange plain float64 signals tagged with
// stdclients.SignalID — since a declarative document has no way to name a
// Go generic type parameter for a bespoke domain identifier.
func Build(doc *ModelGraphDocument, log logrus.FieldLogger) (*model.Model, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	m := model.New(doc.Name, log)
	actors := make(map[string]*actor.Actor, len(doc.Actors))
	clients := make(map[string]interface{}, len(doc.Actors))

	for _, decl := range doc.Actors {
		factory, err := stdclients.Get(decl.Kind)
		if err != nil {
			return nil, fmt.Errorf("actor %q: %w", decl.Name, err)
		}
		cli, err := factory(decl.Params)
		if err != nil {
			return nil, fmt.Errorf("actor %q: constructing %q: %w", decl.Name, decl.Kind, err)
		}
		upd, ok := cli.(updater)
		if !ok {
			return nil, fmt.Errorf("actor %q: client kind %q does not implement Update", decl.Name, decl.Kind)
		}
		a := actor.New(decl.Name, decl.InputRate, decl.OutputRate, upd, log)
		actors[decl.Name] = a
		clients[decl.Name] = cli
		m.Add(a)
	}

	// An output fanning out to several consumers appears as several wires
	// sharing the same from_actor/from_output: gather each output's
	// capacity/multiplex/bootstrap across every wire that names it before
	// building anything, so that whichever wire happens to come first
	// doesn't silently win over a conflicting later declaration.
	specs := make(map[string]*outputSpec, len(doc.Wires))
	for i, w := range doc.Wires {
		key := w.FromActor + "/" + w.FromOutput
		spec, ok := specs[key]
		if !ok {
			spec = &outputSpec{}
			specs[key] = spec
		}
		if err := spec.merge(w); err != nil {
			return nil, fmt.Errorf("wires[%d]: %w", i, err)
		}
	}

	built := make(map[string]*actor.BuiltOutput[float64, stdclients.SignalID])
	for i, w := range doc.Wires {
		fromActor, ok := actors[w.FromActor]
		if !ok {
			return nil, fmt.Errorf("wires[%d]: unknown actor %q", i, w.FromActor)
		}
		toActor, ok := actors[w.ToActor]
		if !ok {
			return nil, fmt.Errorf("wires[%d]: unknown actor %q", i, w.ToActor)
		}

		key := w.FromActor + "/" + w.FromOutput
		out, ok := built[key]
		if !ok {
			writer, ok := clients[w.FromActor].(signalWriter)
			if !ok {
				return nil, fmt.Errorf("wires[%d]: actor %q's client does not implement Write", i, w.FromActor)
			}
			spec := specs[key]
			builder := actor.AddOutput[float64, stdclients.SignalID](fromActor, w.FromOutput)
			if spec.capacity != 0 {
				builder = builder.Capacity(spec.capacity)
			}
			if spec.multiplex > 1 {
				builder = builder.Multiplex(spec.multiplex)
			}
			if spec.bootstrap != nil {
				builder = builder.Bootstrap(*spec.bootstrap)
			}
			out = builder.Build(writer.Write)
			built[key] = out
		}

		reader, ok := clients[w.ToActor].(signalReader)
		if !ok {
			return nil, fmt.Errorf("wires[%d]: actor %q's client does not implement Read", i, w.ToActor)
		}
		if err := out.IntoInput(toActor, w.ToInput, reader.Read); err != nil {
			return nil, fmt.Errorf("wires[%d]: %w", i, err)
		}
	}

	return m, nil
}

// outputSpec accumulates the capacity/multiplex/bootstrap settings declared
// across every wire that shares one from_actor/from_output pair, since that
// configuration belongs to the output, not to any one wire reading from it.
type outputSpec struct {
	capacity  int
	multiplex int
	bootstrap *float64
}

// merge folds w's settings into spec, rejecting a later wire that
// redeclares a different value for a field an earlier wire already set.
func (spec *outputSpec) merge(w WireDeclaration) error {
	if w.Capacity != 0 {
		if spec.capacity != 0 && spec.capacity != w.Capacity {
			return fmt.Errorf("output %q/%q already declared with capacity %d, cannot redeclare %d", w.FromActor, w.FromOutput, spec.capacity, w.Capacity)
		}
		spec.capacity = w.Capacity
	}
	if w.Multiplex > 1 {
		if spec.multiplex != 0 && spec.multiplex != w.Multiplex {
			return fmt.Errorf("output %q/%q already declared with multiplex %d, cannot redeclare %d", w.FromActor, w.FromOutput, spec.multiplex, w.Multiplex)
		}
		spec.multiplex = w.Multiplex
	}
	if w.Bootstrap != nil {
		if spec.bootstrap != nil && *spec.bootstrap != *w.Bootstrap {
			return fmt.Errorf("output %q/%q already declared with bootstrap %v, cannot redeclare %v", w.FromActor, w.FromOutput, *spec.bootstrap, *w.Bootstrap)
		}
		spec.bootstrap = w.Bootstrap
	}
	return nil
}
