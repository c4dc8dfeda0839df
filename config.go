package rsg

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config configures a Graph. The zero value is not useful; start from
// DefaultConfig or LoadConfig.
type Config struct {
	// Workers is the size of the pool created when New is not given one.
	Workers int `yaml:"workers"`
	// Debug enables per-cycle stats on stderr and extra invariant checks.
	Debug bool `yaml:"debug"`
	// NodeCapacity presizes the node arena and the transform and opacity
	// stores.
	NodeCapacity int `yaml:"node_capacity"`
	// RenderListCapacity presizes the opaque and alpha render lists.
	RenderListCapacity int `yaml:"render_list_capacity"`
}

// DefaultConfig returns the configuration New uses for zero fields.
func DefaultConfig() Config {
	return Config{
		Workers:            4,
		NodeCapacity:       defaultNodeCap,
		RenderListCapacity: 256,
	}
}

// LoadConfig parses YAML into a Config. Keys that are absent keep their
// DefaultConfig values.
//
//	workers: 2
//	debug: true
//	node_capacity: 100000
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	if c.NodeCapacity < 0 {
		return fmt.Errorf("config: node_capacity must not be negative, got %d", c.NodeCapacity)
	}
	if c.RenderListCapacity < 0 {
		return fmt.Errorf("config: render_list_capacity must not be negative, got %d", c.RenderListCapacity)
	}
	return nil
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.NodeCapacity <= 0 {
		c.NodeCapacity = d.NodeCapacity
	}
	if c.RenderListCapacity <= 0 {
		c.RenderListCapacity = d.RenderListCapacity
	}
	return c
}
