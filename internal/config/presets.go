package config

var Presets = map[string]map[string]*Config{
	"pendulum": {
		"quick": {
			Model: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 0.5, Stride: 10,
			ObsSteps: []int{0, 2, 5}, Samples: 200, PerturbScale: 0.2, Alpha: 0.05, MaxCond: 2,
		},
		"dense": {
			Model: "pendulum", Integrator: "rk4", Dt: 0.005, Duration: 1.0, Stride: 20,
			ObsSteps: []int{0, 2, 4, 6, 8, 10}, Samples: 500, PerturbScale: 0.2, Alpha: 0.05, MaxCond: 3,
		},
		"noisy": {
			Model: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 0.5, Stride: 10,
			ObsSteps: []int{0, 2, 5}, Samples: 1000, PerturbScale: 0.2, NoiseSigma: 0.01,
			Alpha: 0.01, MaxCond: 2,
		},
	},
	"lotka_volterra": {
		"quick": {
			Model: "lotka_volterra", Integrator: "rk4", Dt: 0.01, Duration: 1.0, Stride: 20,
			ObsSteps: []int{0, 2, 5}, Samples: 300, PerturbScale: 0.3, Alpha: 0.05, MaxCond: 2,
			InitState: []float64{10, 5},
		},
		"long": {
			Model: "lotka_volterra", Integrator: "rk4", Dt: 0.01, Duration: 5.0, Stride: 50,
			ObsSteps: []int{0, 3, 6, 10}, Samples: 500, PerturbScale: 0.5, Alpha: 0.05, MaxCond: 3,
			InitState: []float64{10, 5},
		},
	},
	"sir": {
		"outbreak": {
			Model: "sir", Integrator: "rk4", Dt: 0.1, Duration: 10.0, Stride: 10,
			ObsSteps: []int{0, 5, 10}, Samples: 300, PerturbScale: 5.0, PerturbVars: []int{0, 1},
			Alpha: 0.05, MaxCond: 3,
		},
		"noisy": {
			Model: "sir", Integrator: "euler", Dt: 0.1, Duration: 10.0, Stride: 10,
			ObsSteps: []int{0, 5, 10}, Samples: 1000, PerturbScale: 5.0, PerturbVars: []int{0, 1},
			NoiseSigma: 0.5, Alpha: 0.01, MaxCond: 3,
		},
	},
	"hiv": {
		"acute": {
			Model: "hiv", Integrator: "rk4", Dt: 0.01, Duration: 1.0, Stride: 25,
			ObsSteps: []int{0, 2, 4}, Samples: 500, PerturbScale: 0.05, PerturbVars: []int{0, 1, 4},
			Alpha: 0.05, MaxCond: 3,
		},
		"sparse": {
			Model: "hiv", Integrator: "rk4", Dt: 0.01, Duration: 2.0, Stride: 100,
			ObsSteps: []int{0, 1, 2}, Samples: 800, PerturbScale: 0.05, PerturbVars: []int{0, 1, 4},
			Alpha: 0.01, MaxCond: 2,
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
