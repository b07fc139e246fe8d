package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/sim"
)

// Script is a sequence of simulations run one after another.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`

	dir string
}

// Step configures one run of a script. Zero fields keep the value of the
// preset or config file.
type Step struct {
	Model      string  `yaml:"model"`
	Preset     string  `yaml:"preset"`
	Config     string  `yaml:"config"`
	Integrator string  `yaml:"integrator"`
	Collision  string  `yaml:"collision"`
	G          float64 `yaml:"g"`
	SpeedUp    float64 `yaml:"speed_up"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	SaveAs     string  `yaml:"save_as"`
}

// LoadScript reads a script from a YAML file. Config paths in its steps
// are relative to the script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("script %s: no steps", path)
	}
	script.dir = filepath.Dir(path)
	return &script, nil
}

// Resolve builds the configuration of a step. dir is the base directory
// for a relative config path.
func (s Step) Resolve(dir string) (*config.Config, error) {
	model := s.Model
	if model == "" {
		model = config.ModelGravity2D
	}
	if _, ok := config.Presets[model]; !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownModel, model)
	}
	preset := s.Preset
	if preset == "" {
		preset = config.DefaultPresets[model]
	}
	cfg := config.GetPreset(model, preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s/%s", model, preset)
	}

	if s.Config != "" {
		path := s.Config
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		loaded, err := config.LoadInto(path, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Collision != "" {
		cfg.Collision = s.Collision
	}
	if s.G != 0 {
		cfg.G = s.G
	}
	if s.SpeedUp != 0 {
		cfg.SpeedUp = s.SpeedUp
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	return cfg, cfg.Validate()
}

// StepFunc is called after every finished script step.
type StepFunc func(i int, step Step, cfg *config.Config, result *sim.Result) error

// RunScript executes all steps of a script in order. It stops at the first
// step that fails and returns the results gathered so far.
func RunScript(ctx context.Context, script *Script, reg *experiment.Registry, opts experiment.Options, done StepFunc) ([]*sim.Result, error) {
	results := make([]*sim.Result, 0, len(script.Steps))

	for i, step := range script.Steps {
		cfg, err := step.Resolve(script.dir)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(reg, opts); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, result)

		if done != nil {
			if err := done(i, step, cfg, result); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}

	return results, nil
}

// bound is the coordinate beyond which a trial counts as escaped.
const bound = 1e6

// MonteCarlo runs a scenario many times with every body's start position
// shifted by a uniform random offset in [-Perturbation, Perturbation].
type MonteCarlo struct {
	Base         *config.Config
	Perturbation float64
	Trials       int
	Workers      int
	Seed         int64
}

// Trial is the outcome of one Monte Carlo run.
type Trial struct {
	ID     int
	Config *config.Config
	Result *sim.Result
	Stable bool
}

// Configs returns the perturbed configuration of every trial. The same
// seed gives the same trials; seed 0 uses the current time.
func (mc *MonteCarlo) Configs() []*config.Config {
	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	cfgs := make([]*config.Config, mc.Trials)
	for t := range cfgs {
		cfg := mc.Base.Clone()
		for i := range cfg.Bodies {
			for j := range cfg.Bodies[i].Position {
				cfg.Bodies[i].Position[j] += (rng.Float64()*2 - 1) * mc.Perturbation
			}
		}
		cfgs[t] = cfg
	}
	return cfgs
}

// Run executes the trials in parallel. A trial is stable when it finished
// without error and every final coordinate stayed within bounds.
func (mc *MonteCarlo) Run(ctx context.Context, reg *experiment.Registry, opts experiment.Options) ([]Trial, error) {
	if mc.Trials <= 0 {
		return nil, fmt.Errorf("monte carlo: trials must be positive, got %d", mc.Trials)
	}
	cfgs := mc.Configs()

	runners := make([]sim.Runner, len(cfgs))
	for i, cfg := range cfgs {
		r, err := reg.Build(cfg, opts)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		runners[i] = r
	}

	// A failed trial is recorded as unstable and does not stop the others.
	trials := make([]Trial, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	if mc.Workers > 0 {
		g.SetLimit(mc.Workers)
	}
	for i := range runners {
		g.Go(func() error {
			res, err := runners[i].Run(ctx)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			trials[i] = Trial{ID: i, Config: cfgs[i], Result: res, Stable: err == nil && bounded(res)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return trials, err
	}
	return trials, nil
}

func bounded(r *sim.Result) bool {
	if r == nil || len(r.Errors) > 0 || len(r.States) == 0 {
		return false
	}
	for _, v := range r.States[len(r.States)-1] {
		if math.IsNaN(v) || math.Abs(v) > bound {
			return false
		}
	}
	return true
}

// StableFraction is the share of stable trials.
func StableFraction(trials []Trial) float64 {
	if len(trials) == 0 {
		return 0
	}
	n := 0
	for _, t := range trials {
		if t.Stable {
			n++
		}
	}
	return float64(n) / float64(len(trials))
}
