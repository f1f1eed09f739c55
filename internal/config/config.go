package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt         = 1.0 / 60.0
	DefaultDuration   = 10.0
	DefaultChains     = 1
	DefaultNodes      = 8
	DefaultSpacing    = 0.5
	DefaultTilt       = 30.0
	DefaultFriction   = 0.02
	DefaultIterations = 1
	DefaultWorkers    = 4

	// ChainGap is the distance along X between neighbouring chain roots.
	ChainGap = 2.0
)

type Config struct {
	Name       string       `yaml:"name"`
	Chains     int          `yaml:"chains"`
	Nodes      int          `yaml:"nodes"`
	Spacing    float64      `yaml:"spacing"`
	Tilt       float64      `yaml:"tilt"`
	Friction   float64      `yaml:"friction"`
	Dt         float64      `yaml:"dt"`
	Duration   float64      `yaml:"duration"`
	Iterations int          `yaml:"iterations"`
	Workers    int          `yaml:"workers"`
	Driver     DriverConfig `yaml:"driver"`
}

type DriverConfig struct {
	Kind      string  `yaml:"kind"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Axis      string  `yaml:"axis"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "chain",
		Chains:     DefaultChains,
		Nodes:      DefaultNodes,
		Spacing:    DefaultSpacing,
		Tilt:       DefaultTilt,
		Friction:   DefaultFriction,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Iterations: DefaultIterations,
		Workers:    DefaultWorkers,
		Driver:     DriverConfig{Kind: "none", Axis: "x"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the builder or solver cannot run.
func (c *Config) Validate() error {
	switch {
	case c.Chains < 1:
		return fmt.Errorf("config: chains must be at least 1, got %d", c.Chains)
	case c.Nodes < 2:
		return fmt.Errorf("config: nodes must be at least 2, got %d", c.Nodes)
	case c.Spacing <= 0:
		return fmt.Errorf("config: spacing must be positive, got %g", c.Spacing)
	case c.Friction < 0 || c.Friction > 1:
		return fmt.Errorf("config: friction must be in [0,1], got %g", c.Friction)
	case c.Dt <= 0:
		return fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	case c.Duration <= 0:
		return fmt.Errorf("config: duration must be positive, got %g", c.Duration)
	case c.Iterations < 1:
		return fmt.Errorf("config: iterations must be at least 1, got %d", c.Iterations)
	case c.Workers < 1:
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	return nil
}
