package stdclients

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/gmto-dos/actorflow/pkg/envelope"
)

// LoggingSinkConfig configures a LoggingSink.
type LoggingSinkConfig struct {
	Name string `mapstructure:"name"`
}

// LoggingSink is a terminator client that logs every value it receives and
// keeps them in order for callers that want to inspect the run afterward,
// the standard-client equivalent of the teacher's console sink.
type LoggingSink struct {
	log  logrus.FieldLogger
	name string

	mu     sync.Mutex
	values []float64
}

// NewLoggingSink builds a LoggingSink. A nil log falls back to logrus's
// standard logger.
func NewLoggingSink(name string, log logrus.FieldLogger) *LoggingSink {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LoggingSink{log: log.WithField("sink", name), name: name}
}

func (c *LoggingSink) Update() error { return nil }

// Read implements the client read hook.
func (c *LoggingSink) Read(v envelope.D[float64, SignalID]) error {
	c.mu.Lock()
	c.values = append(c.values, v.Value())
	c.mu.Unlock()
	c.log.WithField("value", v.Value()).Debug("received value")
	return nil
}

// Values returns every value received so far, in arrival order.
func (c *LoggingSink) Values() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]float64, len(c.values))
	copy(out, c.values)
	return out
}

func init() {
	Register("logging_sink", func(cfg map[string]any) (interface{}, error) {
		var typed LoggingSinkConfig
		if err := decode(cfg, &typed); err != nil {
			return nil, err
		}
		return NewLoggingSink(typed.Name, nil), nil
	})
}
