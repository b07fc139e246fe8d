package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sim"
)

// Experiment is one configured run.
type Experiment struct {
	cfg    *config.Config
	runner sim.Runner
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(r *Registry, opts Options) error {
	runner, err := r.Build(e.cfg, opts)
	if err != nil {
		return err
	}
	e.runner = runner
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.runner == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.runner.Run(ctx)
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Runner returns the underlying runner for frame-driven front ends.
func (e *Experiment) Runner() sim.Runner { return e.runner }

// Variations returns n copies of base with one initial velocity component
// of the named body stepped linearly from `from` to `to`.
func Variations(base *config.Config, body string, axis int, from, to float64, n int) ([]*config.Config, error) {
	if n < 1 {
		return nil, fmt.Errorf("sweep needs at least one run, got %d", n)
	}
	idx := -1
	for i := range base.Bodies {
		if base.BodyName(i) == body {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("no body named %q", body)
	}
	dim := base.Dimension()
	if axis < 0 || axis >= dim {
		return nil, fmt.Errorf("axis %d out of range for model %s", axis, base.Model)
	}

	out := make([]*config.Config, n)
	for i := range out {
		c := base.Clone()
		v := c.Bodies[idx].Velocity
		if len(v) == 0 {
			v = make([]float64, dim)
		}
		v[axis] = from
		if n > 1 {
			v[axis] = from + (to-from)*float64(i)/float64(n-1)
		}
		c.Bodies[idx].Velocity = v
		out[i] = c
	}
	return out, nil
}
