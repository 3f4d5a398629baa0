package stdclients

import (
	"sync"

	"github.com/gmto-dos/actorflow/pkg/envelope"
)

// IntegratorConfig configures an Integrator.
type IntegratorConfig struct {
	Gain float64 `mapstructure:"gain"`
}

// Integrator accumulates gain*input into its internal state every tick and
// writes the running total. It is the canonical actor a feedback cycle
// needs a bootstrap value on: without one, its first write would have
// nothing to distribute before its own input has arrived.
type Integrator struct {
	mu      sync.Mutex
	gain    float64
	mem     float64
	pending float64
}

// NewIntegrator builds an Integrator from cfg, starting at zero.
func NewIntegrator(cfg IntegratorConfig) *Integrator {
	return &Integrator{gain: cfg.Gain}
}

func (c *Integrator) Update() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem += c.pending * c.gain
	return nil
}

// Read implements the client read hook.
func (c *Integrator) Read(v envelope.D[float64, SignalID]) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = v.Value()
	return nil
}

// Write implements the client write hook.
func (c *Integrator) Write() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mem, true
}

func init() {
	Register("integrator", func(cfg map[string]any) (interface{}, error) {
		var typed IntegratorConfig
		if err := decode(cfg, &typed); err != nil {
			return nil, err
		}
		return NewIntegrator(typed), nil
	})
}
