package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is where settings are read from and saved to when no path is given.
const DefaultFile = "ferrofluid.yaml"

const (
	WindowWidth  = 800
	WindowHeight = 800

	// Samples kept by the playback tap; must cover one FFT frame.
	VisualRingSize = 8192
	FFTSize        = 1024

	// Button dimensions
	ButtonWidth  = 120
	ButtonHeight = 40
	ButtonX      = 20
	ButtonY      = 20

	// Shape parameters
	PointCount = 256
	TargetTPS  = 60

	DefaultSensitivity   = 1.0
	DefaultRotationSpeed = 0.25
	DefaultShowOutline   = true

	MinSensitivity   = 0.1
	MaxSensitivity   = 2.0
	MinRotationSpeed = 0.0
	MaxRotationSpeed = 1.0
)

// Config is the on-disk form of the program settings.
type Config struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Points        int     `yaml:"points"`
	Sensitivity   float64 `yaml:"sensitivity"`
	RotationSpeed float64 `yaml:"rotation_speed"`
	ShowOutline   bool    `yaml:"show_outline"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:         WindowWidth,
		Height:        WindowHeight,
		Points:        PointCount,
		Sensitivity:   DefaultSensitivity,
		RotationSpeed: DefaultRotationSpeed,
		ShowOutline:   DefaultShowOutline,
	}
}

// Load reads a YAML file on top of the defaults. Missing keys keep their default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) normalize() {
	if c.Width <= 0 {
		c.Width = WindowWidth
	}
	if c.Height <= 0 {
		c.Height = WindowHeight
	}
	if c.Points <= 0 {
		c.Points = PointCount
	}
	c.Sensitivity = clamp(c.Sensitivity, MinSensitivity, MaxSensitivity, DefaultSensitivity)
	c.RotationSpeed = clamp(c.RotationSpeed, MinRotationSpeed, MaxRotationSpeed, DefaultRotationSpeed)
}

// Settings builds the live settings object from the file values.
func (c *Config) Settings() *Settings {
	s := NewSettings()
	s.SetSensitivity(c.Sensitivity)
	s.SetRotationSpeed(c.RotationSpeed)
	s.SetShowOutline(c.ShowOutline)
	return s
}

// Apply copies live settings back into the file form.
func (c *Config) Apply(s *Settings) {
	c.Sensitivity = s.Sensitivity()
	c.RotationSpeed = s.RotationSpeed()
	c.ShowOutline = s.ShowOutline()
}
