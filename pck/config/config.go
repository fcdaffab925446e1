// Package config carries the process-wide configuration shared by every
// cortex component: where state lives, who the agent is, and the tuning
// of the attention filter and the idle activity pool.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cortexkit/cortex/pck/attention"
	"github.com/cortexkit/cortex/pck/decision"
)

type Config struct {
	Name       string           `yaml:"name"`
	DataDir    string           `yaml:"data_dir"`
	Filter     FilterConfig     `yaml:"filter"`
	Activities []ActivityConfig `yaml:"activities"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// FilterConfig tunes the attention filter. Durations are Go duration
// strings ("60s", "5m"); zero values keep the built-in defaults.
type FilterConfig struct {
	Cooldown       string  `yaml:"cooldown"`
	Window         string  `yaml:"window"`
	HabituateCount int     `yaml:"habituate_count"`
	HabituatedMult float64 `yaml:"habituated_mult"`
	OrientingMult  float64 `yaml:"orienting_mult"`
	BaseThreshold  float64 `yaml:"base_threshold"`
}

type ActivityConfig struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Weight      float64 `yaml:"weight"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration: agent "agent", state under
// ~/.cortex, default filter and activities.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Name:    "agent",
		DataDir: filepath.Join(home, ".cortex"),
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// StateFile returns the path for a state document inside the data dir,
// creating the directory when needed.
func (c *Config) StateFile(filename string) (string, error) {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return filepath.Join(c.DataDir, filename), nil
}

// FilterParams resolves the filter section against the built-in defaults.
func (c *Config) FilterParams() (attention.Params, error) {
	p := attention.DefaultParams()
	if c.Filter.Cooldown != "" {
		d, err := time.ParseDuration(c.Filter.Cooldown)
		if err != nil {
			return attention.Params{}, fmt.Errorf("filter cooldown: %w", err)
		}
		p.Cooldown = d
	}
	if c.Filter.Window != "" {
		d, err := time.ParseDuration(c.Filter.Window)
		if err != nil {
			return attention.Params{}, fmt.Errorf("filter window: %w", err)
		}
		p.Window = d
	}
	if c.Filter.HabituateCount != 0 {
		p.HabituateCount = c.Filter.HabituateCount
	}
	if c.Filter.HabituatedMult != 0 {
		p.HabituatedMult = c.Filter.HabituatedMult
	}
	if c.Filter.OrientingMult != 0 {
		p.OrientingMult = c.Filter.OrientingMult
	}
	if c.Filter.BaseThreshold != 0 {
		p.BaseThreshold = c.Filter.BaseThreshold
	}
	return p, nil
}

// RouterActivities converts the configured idle pool. Nil when the config
// has none, so the router falls back to its defaults.
func (c *Config) RouterActivities() []decision.Activity {
	if len(c.Activities) == 0 {
		return nil
	}
	out := make([]decision.Activity, 0, len(c.Activities))
	for _, a := range c.Activities {
		out = append(out, decision.Activity{Name: a.Name, Description: a.Description, Weight: a.Weight})
	}
	return out
}

// BuildLogger constructs a zap logger from the logging section.
func (l LoggingConfig) BuildLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if l.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	if l.Level != "" {
		level, err := zap.ParseAtomicLevel(l.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		cfg.Level = level
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
