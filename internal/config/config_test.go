package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "pendulum" {
		t.Errorf("expected model pendulum, got %s", cfg.Model)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Samples <= 0 {
		t.Error("samples should be positive")
	}
	if err := cfg.ToExperiment().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "sir"
	cfg.ObsSteps = []int{0, 3, 7}
	cfg.NoiseSigma = 0.25

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Model != "sir" {
		t.Errorf("model = %s, want sir", back.Model)
	}
	if len(back.ObsSteps) != 3 || back.ObsSteps[1] != 3 {
		t.Errorf("obs_steps = %v", back.ObsSteps)
	}
	if back.NoiseSigma != 0.25 {
		t.Errorf("noise_sigma = %f", back.NoiseSigma)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("model: hiv\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "hiv" {
		t.Errorf("model = %s, want hiv", cfg.Model)
	}
	if cfg.Alpha != DefaultAlpha {
		t.Errorf("alpha should default to %f, got %f", DefaultAlpha, cfg.Alpha)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("pendulum", "quick")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Samples != 200 {
		t.Errorf("expected 200 samples, got %d", cfg.Samples)
	}
	if err := cfg.ToExperiment().Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("pendulum", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "quick") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("sir")
	if len(presets) == 0 {
		t.Error("expected presets for sir")
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for model, byName := range Presets {
		for name, cfg := range byName {
			if cfg.Model != model {
				t.Errorf("preset %s/%s names model %s", model, name, cfg.Model)
			}
			if err := cfg.ToExperiment().Validate(); err != nil {
				t.Errorf("preset %s/%s invalid: %v", model, name, err)
			}
		}
	}
}

func TestToExperimentCopies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ObsSteps = []int{0, 1}

	exp := cfg.ToExperiment()
	exp.ObsSteps[0] = 99
	if cfg.ObsSteps[0] != 0 {
		t.Error("ToExperiment must copy slices")
	}
}
