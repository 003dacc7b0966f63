package config

import "math"

// Settings holds the user-tunable animation parameters. The shape model and
// renderer read it every tick; the UI changes it only through the setters.
type Settings struct {
	sensitivity   float64
	rotationSpeed float64
	showOutline   bool
}

func NewSettings() *Settings {
	return &Settings{
		sensitivity:   DefaultSensitivity,
		rotationSpeed: DefaultRotationSpeed,
		showOutline:   DefaultShowOutline,
	}
}

func (s *Settings) Sensitivity() float64   { return s.sensitivity }
func (s *Settings) RotationSpeed() float64 { return s.rotationSpeed }
func (s *Settings) ShowOutline() bool      { return s.showOutline }

// SetSensitivity clamps v into [MinSensitivity, MaxSensitivity].
// Non-finite values are ignored.
func (s *Settings) SetSensitivity(v float64) {
	s.sensitivity = clamp(v, MinSensitivity, MaxSensitivity, s.sensitivity)
}

// SetRotationSpeed clamps v into [MinRotationSpeed, MaxRotationSpeed] radians per second.
// Non-finite values are ignored.
func (s *Settings) SetRotationSpeed(v float64) {
	s.rotationSpeed = clamp(v, MinRotationSpeed, MaxRotationSpeed, s.rotationSpeed)
}

func (s *Settings) SetShowOutline(v bool) { s.showOutline = v }

func (s *Settings) ToggleOutline() { s.showOutline = !s.showOutline }

func (s *Settings) AdjustSensitivity(d float64)   { s.SetSensitivity(s.sensitivity + d) }
func (s *Settings) AdjustRotationSpeed(d float64) { s.SetRotationSpeed(s.rotationSpeed + d) }

func clamp(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
