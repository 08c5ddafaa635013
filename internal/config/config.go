package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/causalab/internal/experiment"
)

const (
	DefaultDt           = 0.01
	DefaultDuration     = 1.0
	DefaultStride       = 10
	DefaultSamples      = 200
	DefaultPerturbScale = 0.1
	DefaultAlpha        = 0.05
	DefaultMaxCond      = 3
)

type Config struct {
	Model      string  `yaml:"model"`
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Stride     int     `yaml:"stride"`
	ObsSteps   []int   `yaml:"obs_steps"`

	Samples      int       `yaml:"samples"`
	PerturbScale float64   `yaml:"perturb_scale"`
	PerturbVars  []int     `yaml:"perturb_vars"`
	NoiseSigma   float64   `yaml:"noise_sigma"`
	Seed         int64     `yaml:"seed"`
	InitState    []float64 `yaml:"init_state"`

	Alpha   float64 `yaml:"alpha"`
	MaxCond int     `yaml:"max_cond"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:        "pendulum",
		Integrator:   "rk4",
		Dt:           DefaultDt,
		Duration:     DefaultDuration,
		Stride:       DefaultStride,
		ObsSteps:     []int{0, 5, 10},
		Samples:      DefaultSamples,
		PerturbScale: DefaultPerturbScale,
		Seed:         1,
		Alpha:        DefaultAlpha,
		MaxCond:      DefaultMaxCond,
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

// ToExperiment translates the file-level configuration into a pipeline
// configuration.
func (c *Config) ToExperiment() experiment.Config {
	return experiment.Config{
		Model:        c.Model,
		Integrator:   c.Integrator,
		Dt:           c.Dt,
		Duration:     c.Duration,
		Stride:       c.Stride,
		ObsSteps:     append([]int(nil), c.ObsSteps...),
		Samples:      c.Samples,
		PerturbScale: c.PerturbScale,
		PerturbVars:  append([]int(nil), c.PerturbVars...),
		NoiseSigma:   c.NoiseSigma,
		Seed:         c.Seed,
		Alpha:        c.Alpha,
		MaxCond:      c.MaxCond,
		InitState:    append([]float64(nil), c.InitState...),
	}
}
