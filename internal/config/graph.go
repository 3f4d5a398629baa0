// Package config handles configuration structures: a global, environment-
// aware runtime config and the declarative per-run model graph document.
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ActorDeclaration describes one actor in a graph document: which
// registered client kind to construct, its construction parameters, and
// its declared rates.
type ActorDeclaration struct {
	Name       string         `json:"name" yaml:"name"`
	Kind       string         `json:"kind" yaml:"kind"`
	InputRate  int            `json:"input_rate" yaml:"input_rate"`
	OutputRate int            `json:"output_rate" yaml:"output_rate"`
	Params     map[string]any `json:"params" yaml:"params"`
}

// WireDeclaration describes one output-to-input connection between two
// declared actors.
type WireDeclaration struct {
	FromActor  string   `json:"from_actor" yaml:"from_actor"`
	FromOutput string   `json:"from_output" yaml:"from_output"`
	ToActor    string   `json:"to_actor" yaml:"to_actor"`
	ToInput    string   `json:"to_input" yaml:"to_input"`
	Capacity   int      `json:"capacity" yaml:"capacity"`   // 0 = default(1), -1 = unbounded
	Multiplex  int      `json:"multiplex" yaml:"multiplex"` // 0 defaults to 1
	Bootstrap  *float64 `json:"bootstrap" yaml:"bootstrap"` // nil = no bootstrap
}

// ModelGraphDocument is the serialized form of a graph the fluent Go
// builder can also build programmatically: actors plus the wires between
// them.
type ModelGraphDocument struct {
	Name   string             `json:"name" yaml:"name"`
	Actors []ActorDeclaration `json:"actors" yaml:"actors"`
	Wires  []WireDeclaration  `json:"wires" yaml:"wires"`
}

// Validate checks structural consistency: every actor has a name and
// kind, names are unique, and every wire references actors that exist.
func (d *ModelGraphDocument) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("model name is required")
	}
	if len(d.Actors) == 0 {
		return fmt.Errorf("at least one actor is required")
	}

	seen := make(map[string]bool, len(d.Actors))
	for i, a := range d.Actors {
		if a.Name == "" {
			return fmt.Errorf("actors[%d]: name is required", i)
		}
		if a.Kind == "" {
			return fmt.Errorf("actors[%d]: kind is required", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("actors[%d]: duplicate actor name %q", i, a.Name)
		}
		seen[a.Name] = true
	}

	for i, w := range d.Wires {
		if w.FromActor == "" || w.ToActor == "" {
			return fmt.Errorf("wires[%d]: from_actor and to_actor are required", i)
		}
		if !seen[w.FromActor] {
			return fmt.Errorf("wires[%d]: unknown actor %q", i, w.FromActor)
		}
		if !seen[w.ToActor] {
			return fmt.Errorf("wires[%d]: unknown actor %q", i, w.ToActor)
		}
		if w.Multiplex < 0 {
			return fmt.Errorf("wires[%d]: multiplex cannot be negative", i)
		}
		if w.Capacity < -1 {
			return fmt.Errorf("wires[%d]: capacity must be -1 (unbounded), 0 (default), or positive, got %d", i, w.Capacity)
		}
	}

	return nil
}

// ParseModelGraph parses a graph document from JSON.
func ParseModelGraph(data []byte) (*ModelGraphDocument, error) {
	var doc ModelGraphDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse model graph: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseModelGraphAuto detects format (JSON/YAML) from filename's extension
// and parses accordingly, falling back to trying both when the extension
// is unrecognized.
func ParseModelGraphAuto(data []byte, filename string) (*ModelGraphDocument, error) {
	var doc ModelGraphDocument

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML model graph: %w", err)
		}
	case ".json", "":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON model graph: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			if err2 := yaml.Unmarshal(data, &doc); err2 != nil {
				return nil, fmt.Errorf("failed to parse model graph (tried JSON and YAML): JSON: %v; YAML: %v", err, err2)
			}
		}
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
