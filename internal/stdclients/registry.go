// Package stdclients provides the ready-made actor clients every
// simulation graph can draw on directly or through a declarative graph
// document: signal sources, rate adapters, an integrator, and a logging
// sink.
package stdclients

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// ErrNotFound reports that no client kind is registered under the
// requested name.
var ErrNotFound = errors.New("actorflow: client kind not found")

// Factory builds a client instance from its untyped construction
// parameters, as decoded from a graph document's actor declaration.
type Factory func(cfg map[string]any) (interface{}, error)

var registry = make(map[string]Factory)

// Register adds factory under name. It panics on an empty name, a nil
// factory, or a duplicate name — each indicates a compile-time mistake in
// a client package's init(), the same contract the teacher's plugin
// registry enforces.
func Register(name string, factory Factory) {
	if name == "" {
		panic("stdclients: client kind name cannot be empty")
	}
	if factory == nil {
		panic("stdclients: client kind factory cannot be nil")
	}
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("stdclients: client kind %q already registered", name))
	}
	registry[name] = factory
}

// Get returns the factory registered under name.
func Get(name string) (Factory, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return factory, nil
}

// List returns every registered client kind name, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// decode fills out from cfg using mapstructure, the same role it plays
// decoding a plugin's untyped config map in the teacher lineage.
func decode(cfg map[string]any, out interface{}) error {
	return mapstructure.Decode(cfg, out)
}
