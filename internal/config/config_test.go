package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Sensitivity != 1.0 {
		t.Errorf("expected sensitivity 1.0, got %f", cfg.Sensitivity)
	}
	if cfg.RotationSpeed != 0.25 {
		t.Errorf("expected rotation speed 0.25, got %f", cfg.RotationSpeed)
	}
	if !cfg.ShowOutline {
		t.Error("outline should be shown by default")
	}
	if cfg.Points != 256 {
		t.Errorf("expected 256 points, got %d", cfg.Points)
	}
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ferrofluid.yaml")
	cfg := DefaultConfig()
	cfg.Sensitivity = 1.5
	cfg.RotationSpeed = 0.75
	cfg.ShowOutline = false

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *got != *cfg {
		t.Errorf("Load() = %+v, want %+v", *got, *cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("sensitivity: 5\nwidth: -3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Sensitivity != MaxSensitivity {
		t.Errorf("expected sensitivity clamped to %f, got %f", MaxSensitivity, cfg.Sensitivity)
	}
	if cfg.Width != WindowWidth {
		t.Errorf("expected default width, got %d", cfg.Width)
	}
	if cfg.RotationSpeed != DefaultRotationSpeed {
		t.Errorf("expected default rotation speed, got %f", cfg.RotationSpeed)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("sensitivity: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestSettingsClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		set     func(*Settings)
		wantSen float64
		wantRot float64
	}{
		{"defaults", func(*Settings) {}, 1.0, 0.25},
		{"sensitivity below range", func(s *Settings) { s.SetSensitivity(0) }, 0.1, 0.25},
		{"sensitivity above range", func(s *Settings) { s.SetSensitivity(3) }, 2.0, 0.25},
		{"sensitivity NaN ignored", func(s *Settings) { s.SetSensitivity(math.NaN()) }, 1.0, 0.25},
		{"rotation negative", func(s *Settings) { s.SetRotationSpeed(-1) }, 1.0, 0},
		{"rotation inf ignored", func(s *Settings) { s.SetRotationSpeed(math.Inf(1)) }, 1.0, 0.25},
		{"adjust", func(s *Settings) { s.AdjustSensitivity(0.5); s.AdjustRotationSpeed(0.25) }, 1.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewSettings()
			tt.set(s)
			if s.Sensitivity() != tt.wantSen {
				t.Errorf("Sensitivity() = %f, want %f", s.Sensitivity(), tt.wantSen)
			}
			if s.RotationSpeed() != tt.wantRot {
				t.Errorf("RotationSpeed() = %f, want %f", s.RotationSpeed(), tt.wantRot)
			}
		})
	}
}

func TestSettingsRoundTripThroughConfig(t *testing.T) {
	t.Parallel()

	s := NewSettings()
	s.ToggleOutline()
	s.SetSensitivity(0.5)

	cfg := DefaultConfig()
	cfg.Apply(s)
	back := cfg.Settings()
	if back.ShowOutline() || back.Sensitivity() != 0.5 {
		t.Errorf("unexpected settings after round trip: outline=%v sensitivity=%f", back.ShowOutline(), back.Sensitivity())
	}
}
