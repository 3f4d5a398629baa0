package stdclients

import (
	"sync"

	"github.com/gmto-dos/actorflow/pkg/envelope"
)

// SampleHold is a rate-adapting client: it remembers the last value it
// read and returns it on every subsequent write, the sample-and-hold
// behaviour a decimating or upsampling actor needs regardless of which
// direction the rate mismatch runs.
type SampleHold struct {
	mu   sync.Mutex
	last float64
}

// NewSampleHold builds a zeroed SampleHold.
func NewSampleHold() *SampleHold {
	return &SampleHold{}
}

func (c *SampleHold) Update() error { return nil }

// Read implements the client read hook.
func (c *SampleHold) Read(v envelope.D[float64, SignalID]) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = v.Value()
	return nil
}

// Write implements the client write hook.
func (c *SampleHold) Write() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, true
}

func init() {
	Register("sample_hold", func(cfg map[string]any) (interface{}, error) {
		return NewSampleHold(), nil
	})
}
