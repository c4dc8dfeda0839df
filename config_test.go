package rsg

import (
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig([]byte("workers: 3\ndebug: true\nnode_capacity: 5000\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Workers != 3 || !cfg.Debug || cfg.NodeCapacity != 5000 {
		t.Errorf("cfg = %+v, want workers 3, debug, node_capacity 5000", cfg)
	}
	if cfg.RenderListCapacity != DefaultConfig().RenderListCapacity {
		t.Errorf("RenderListCapacity = %d, want default %d", cfg.RenderListCapacity, DefaultConfig().RenderListCapacity)
	}
}

func TestLoadConfig_Empty(t *testing.T) {
	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name, yaml, want string
	}{
		{"syntax", "workers: [", "parse config"},
		{"type", "workers: many", "parse config"},
		{"workers", "workers: 0", "workers must be at least 1"},
		{"capacity", "node_capacity: -1", "node_capacity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{Debug: true}.withDefaults()
	d := DefaultConfig()
	if cfg.Workers != d.Workers || cfg.NodeCapacity != d.NodeCapacity || !cfg.Debug {
		t.Errorf("withDefaults = %+v", cfg)
	}
}
