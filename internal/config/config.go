package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Movement constants of the simulated game, world units.
const (
	// RunningSpeed is the default movement speed in units per second.
	RunningSpeed = 250.0
	// PlayerEyeLevel is the camera height above the walkable surface.
	PlayerEyeLevel = 64.093811
	// PlayerWidth is the collision hull width.
	PlayerWidth = 32.0
)

// Analysis holds all configuration for the analyze pipeline.
type Analysis struct {
	// Maps to process; each needs nav, spawn and triangle inputs under DataDir.
	Maps []string `yaml:"maps"`

	// DataDir is the root of nav/spawn/tri input files.
	DataDir string `yaml:"data_dir"`
	// OutputDir receives the tick series JSON per map.
	OutputDir string `yaml:"output_dir"`

	// Simulation
	Granularity  float64 `yaml:"granularity"`   // grid spacing, world units
	Speed        float64 `yaml:"speed"`         // units per second
	TickDuration float64 `yaml:"tick_duration"` // seconds per tick
	MaxTicks     int     `yaml:"max_ticks"`
	EyeLevel     float64 `yaml:"eye_level"`

	// Database (optional). Empty DSN disables run tracking and the
	// staleness skip.
	DatabaseDSN string `yaml:"database_dsn"`

	LogLevel string `yaml:"log_level"`
}

// DefaultAnalysis returns Analysis config with sensible defaults.
func DefaultAnalysis() Analysis {
	return Analysis{
		DataDir:      "data",
		OutputDir:    "out",
		Granularity:  100,
		Speed:        RunningSpeed,
		TickDuration: 0.5,
		MaxTicks:     240,
		EyeLevel:     PlayerEyeLevel,
		LogLevel:     "info",
	}
}

// LoadAnalysis reads the YAML config at path over the defaults.
func LoadAnalysis(path string) (Analysis, error) {
	cfg := DefaultAnalysis()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the simulator would refuse anyway, before
// any map data is loaded.
func (c Analysis) Validate() error {
	if len(c.Maps) == 0 {
		return fmt.Errorf("config: no maps configured")
	}
	if c.Granularity <= 0 {
		return fmt.Errorf("config: granularity must be positive, got %v", c.Granularity)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("config: speed must be positive, got %v", c.Speed)
	}
	if c.TickDuration <= 0 {
		return fmt.Errorf("config: tick_duration must be positive, got %v", c.TickDuration)
	}
	if c.MaxTicks <= 0 {
		return fmt.Errorf("config: max_ticks must be positive, got %v", c.MaxTicks)
	}
	return nil
}
