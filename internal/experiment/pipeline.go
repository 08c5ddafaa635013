package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/causalab/internal/dataset"
	"github.com/san-kum/causalab/internal/discover"
	"github.com/san-kum/causalab/internal/graph"
	"github.com/san-kum/causalab/internal/sample"
	"github.com/san-kum/causalab/internal/score"
	"github.com/san-kum/causalab/internal/sim"
	"github.com/san-kum/causalab/internal/trace"
)

var (
	// ErrBadSampleCount indicates a non-positive ensemble size.
	ErrBadSampleCount = errors.New("experiment: sample count must be positive")

	// ErrBadStride indicates a stride below 1.
	ErrBadStride = errors.New("experiment: stride must be at least 1")

	// ErrNoObserved indicates an empty observed-step list.
	ErrNoObserved = errors.New("experiment: at least one observed step is required")
)

// Config describes one benchmark run end to end: which system to
// simulate, how to sample and observe it, and how to run discovery on
// the flattened observations.
type Config struct {
	Model      string
	Integrator string

	Dt       float64
	Duration float64
	Stride   int
	ObsSteps []int

	Samples      int
	PerturbScale float64
	PerturbVars  []int
	NoiseSigma   float64
	Seed         int64

	Alpha   float64
	MaxCond int

	// InitState overrides the model's default initial condition.
	InitState []float64
}

func (c Config) Validate() error {
	if c.Samples <= 0 {
		return ErrBadSampleCount
	}
	if c.Stride < 1 {
		return ErrBadStride
	}
	if len(c.ObsSteps) == 0 {
		return ErrNoObserved
	}
	if c.Dt <= 0 || c.Duration <= 0 {
		return fmt.Errorf("experiment: dt and duration must be positive, got dt=%g duration=%g", c.Dt, c.Duration)
	}
	return nil
}

// Saves is the number of save points the configured trajectory yields.
// Step counting rounds the same way the simulator does, so observed
// steps validated here always index into the simulated trajectory.
func (c Config) Saves() int {
	steps := int(c.Duration/c.Dt + 0.5)
	return steps / c.Stride
}

// PipelineResult collects everything one run produces.
type PipelineResult struct {
	Config    Config
	Dataset   *dataset.Dataset
	Truth     *graph.Graph
	Recovered *discover.Result
	Report    score.Report
	BaseInit  sim.State
	VarNames  []string
}

// Pipeline wires sampling, simulation, tracing, discovery and scoring
// into one run.
type Pipeline struct {
	cfg Config
	reg *Registry

	// Progress, when set, receives a stage name as each stage starts.
	Progress func(stage string)
}

func NewPipeline(cfg Config, reg *Registry) *Pipeline {
	return &Pipeline{cfg: cfg, reg: reg}
}

func (p *Pipeline) stage(name string) {
	if p.Progress != nil {
		p.Progress(name)
	}
}

func (p *Pipeline) Run(ctx context.Context) (*PipelineResult, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := p.reg.GetModel(p.cfg.Model)
	if err != nil {
		return nil, err
	}
	integ, err := p.reg.GetIntegrator(p.cfg.Integrator)
	if err != nil {
		return nil, err
	}

	base := model.DefaultInit()
	if p.cfg.InitState != nil {
		if len(p.cfg.InitState) != model.StateDim() {
			return nil, fmt.Errorf("experiment: initial state has %d vars, model %s wants %d",
				len(p.cfg.InitState), p.cfg.Model, model.StateDim())
		}
		base = sim.State(p.cfg.InitState).Clone()
	}

	saves := p.cfg.Saves()
	for _, k := range p.cfg.ObsSteps {
		if k < 0 || k > saves {
			return nil, fmt.Errorf("experiment: observed step %d outside [0, %d]", k, saves)
		}
	}

	p.stage("sampling")
	inits, err := sample.InitialConditions(base, p.cfg.Samples, p.cfg.PerturbScale, p.cfg.PerturbVars, p.cfg.Seed)
	if err != nil {
		return nil, err
	}

	p.stage("simulating")
	simCfg := sim.Config{
		Dt:            p.cfg.Dt,
		Duration:      p.cfg.Duration,
		ValidateState: true,
	}
	ens := sim.NewEnsemble(sim.New(model, integ), p.cfg.Seed)
	results, err := ens.Run(ctx, inits, simCfg, func() sim.Integrator {
		in, _ := p.reg.GetIntegrator(p.cfg.Integrator)
		return in
	})
	if err != nil {
		return nil, err
	}
	for i, r := range results {
		if len(r.Errors) > 0 {
			return nil, fmt.Errorf("experiment: sample %d aborted: %w", i, r.Errors[0])
		}
	}

	p.stage("flattening")
	ds, err := dataset.Flatten(results, model.VarNames(), p.cfg.ObsSteps, p.cfg.Stride)
	if err != nil {
		return nil, err
	}
	sample.MeasurementNoise(ds.Rows, p.cfg.NoiseSigma, p.cfg.Seed+int64(p.cfg.Samples))

	p.stage("tracing")
	tracer, err := trace.NewTracer(model, p.cfg.Integrator)
	if err != nil {
		return nil, err
	}
	truth, err := tracer.ProjectTruth(base, p.cfg.Dt, saves, p.cfg.Stride, p.cfg.ObsSteps)
	if err != nil {
		return nil, err
	}

	p.stage("discovering")
	opts := discover.Options{Alpha: p.cfg.Alpha, MaxCond: p.cfg.MaxCond}
	recovered, err := discover.Run(ds.Rows, ds.Columns, opts)
	if err != nil {
		return nil, err
	}

	p.stage("scoring")
	report := score.Compare(truth, recovered.Graph)

	return &PipelineResult{
		Config:    p.cfg,
		Dataset:   ds,
		Truth:     truth,
		Recovered: recovered,
		Report:    report,
		BaseInit:  base,
		VarNames:  model.VarNames(),
	}, nil
}
