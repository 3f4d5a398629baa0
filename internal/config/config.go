// Package config handles global configuration loading using viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// GlobalConfig is the top-level, environment-aware runtime configuration.
// Maps to the `actorflow:` root key in YAML.
type GlobalConfig struct {
	Log        LogConfig        `mapstructure:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// ─── Simulation defaults ───

// SimulationConfig holds simulation-wide settings. cmd/simulate applies
// TickDeadline to every built actor. DefaultChannelCapacity and GraphDir
// are loaded and defaulted only: Build does not read them, so a wire that
// omits its capacity always gets 1, and graph documents are not looked up
// in GraphDir.
type SimulationConfig struct {
	DefaultChannelCapacity int    `mapstructure:"default_channel_capacity"` // lock-step default is 1
	GraphDir               string `mapstructure:"graph_dir"`               // directory name for graph documents
	TickDeadline           string `mapstructure:"tick_deadline"`           // e.g. "0" disables, "30s" bounds a stalled tick
}

// ─── Metrics ───

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Listen          string `mapstructure:"listen"`
	Path            string `mapstructure:"path"`
	CollectInterval string `mapstructure:"collect_interval"`
}

// ─── Log ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`  // debug / info / warn / error
	Format  string           `mapstructure:"format"` // json / text
	Outputs LogOutputsConfig `mapstructure:"outputs"`
}

// LogOutputsConfig contains structured log output destinations.
type LogOutputsConfig struct {
	File FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// ─── Loading ───

// configRoot is the top-level wrapper matching the YAML structure
// `actorflow: ...`.
type configRoot struct {
	ActorFlow GlobalConfig `mapstructure:"actorflow"`
}

// Default returns the same defaults Load applies to a config file's
// omitted sections, for callers that run without a config file at all
// (e.g. cmd/simulate's optional -config flag) and still want
// Metrics.Enabled and friends at their documented defaults rather than
// Go's zero values.
func Default() GlobalConfig {
	v := viper.New()
	setDefaults(v)

	var root configRoot
	_ = v.Unmarshal(&root) // defaults-only unmarshal cannot fail
	cfg := root.ActorFlow
	_ = cfg.ValidateAndApplyDefaults() // defaults are always valid
	return cfg
}

// Load loads configuration from file. Env vars use the ACTORFLOW_ prefix
// (e.g. ACTORFLOW_LOG_LEVEL), mirroring the `actorflow.` key prefix.
func Load(path string) (*GlobalConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.ActorFlow

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("actorflow.log.level", "info")
	v.SetDefault("actorflow.log.format", "text")
	v.SetDefault("actorflow.log.outputs.file.enabled", false)
	v.SetDefault("actorflow.log.outputs.file.path", "/var/log/actorflow/actorflow.log")
	v.SetDefault("actorflow.log.outputs.file.rotation.max_size_mb", 100)
	v.SetDefault("actorflow.log.outputs.file.rotation.max_age_days", 30)
	v.SetDefault("actorflow.log.outputs.file.rotation.max_backups", 5)
	v.SetDefault("actorflow.log.outputs.file.rotation.compress", true)

	v.SetDefault("actorflow.metrics.enabled", true)
	v.SetDefault("actorflow.metrics.listen", ":9091")
	v.SetDefault("actorflow.metrics.path", "/metrics")
	v.SetDefault("actorflow.metrics.collect_interval", "5s")

	v.SetDefault("actorflow.simulation.default_channel_capacity", 1)
	v.SetDefault("actorflow.simulation.graph_dir", "./graphs")
	v.SetDefault("actorflow.simulation.tick_deadline", "0")
}

// ValidateAndApplyDefaults validates configuration and applies runtime
// defaults that cannot be expressed as a static viper default.
func (cfg *GlobalConfig) ValidateAndApplyDefaults() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json/text)", cfg.Log.Format)
	}
	if cfg.Simulation.DefaultChannelCapacity < 1 {
		cfg.Simulation.DefaultChannelCapacity = 1
	}
	if _, err := cfg.Simulation.TickDeadlineDuration(); err != nil {
		return fmt.Errorf("invalid simulation.tick_deadline: %w", err)
	}
	return nil
}

// TickDeadlineDuration parses TickDeadline, treating "" and "0" as disabled
// (a zero Duration). Callers bound a tick's collect/distribute calls by the
// result only when it is positive.
func (s SimulationConfig) TickDeadlineDuration() (time.Duration, error) {
	if s.TickDeadline == "" || s.TickDeadline == "0" {
		return 0, nil
	}
	return time.ParseDuration(s.TickDeadline)
}
