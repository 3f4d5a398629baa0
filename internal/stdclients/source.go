package stdclients

import "math"

// ConstantSourceConfig configures a ConstantSource.
type ConstantSourceConfig struct {
	Value float64 `mapstructure:"value"`
}

// ConstantSource is an initiator client producing the same value every
// tick, for the zero-input/fixed-setpoint scenario.
type ConstantSource struct {
	value float64
}

// NewConstantSource builds a ConstantSource from cfg.
func NewConstantSource(cfg ConstantSourceConfig) *ConstantSource {
	return &ConstantSource{value: cfg.Value}
}

func (c *ConstantSource) Update() error { return nil }

// Write implements the client write hook.
func (c *ConstantSource) Write() (float64, bool) { return c.value, true }

// SinusoidSourceConfig configures a SinusoidSource.
type SinusoidSourceConfig struct {
	Amplitude      float64 `mapstructure:"amplitude"`
	Frequency      float64 `mapstructure:"frequency"`
	SampleInterval float64 `mapstructure:"sample_interval"`
}

// SinusoidSource is an initiator client producing amplitude*sin(2*pi*f*t)
// sampled once per tick at the configured interval.
type SinusoidSource struct {
	cfg  SinusoidSourceConfig
	tick int
}

// NewSinusoidSource builds a SinusoidSource from cfg.
func NewSinusoidSource(cfg SinusoidSourceConfig) *SinusoidSource {
	return &SinusoidSource{cfg: cfg}
}

func (c *SinusoidSource) Update() error {
	c.tick++
	return nil
}

// Write implements the client write hook.
func (c *SinusoidSource) Write() (float64, bool) {
	t := float64(c.tick) * c.cfg.SampleInterval
	return c.cfg.Amplitude * math.Sin(2*math.Pi*c.cfg.Frequency*t), true
}

func init() {
	Register("constant_source", func(cfg map[string]any) (interface{}, error) {
		var typed ConstantSourceConfig
		if err := decode(cfg, &typed); err != nil {
			return nil, err
		}
		return NewConstantSource(typed), nil
	})
	Register("sinusoid_source", func(cfg map[string]any) (interface{}, error) {
		var typed SinusoidSourceConfig
		if err := decode(cfg, &typed); err != nil {
			return nil, err
		}
		return NewSinusoidSource(typed), nil
	})
}
