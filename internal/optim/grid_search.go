package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
)

var ErrNoResult = errors.New("optim: no run produced the metric")

// Setter writes one parameter value into a scenario.
type Setter func(cfg *config.Config, v float64) error

type Param struct {
	Name   string
	Values []float64
	set    Setter
}

// ParseParam parses "name=from:to:n" into a parameter with n values spaced
// evenly from `from` to `to`. Names are g, speed_up, dt, restitution, or
// body.field where field is x, y, z, vx, vy, vz, mass or radius.
func ParseParam(spec string) (Param, error) {
	name, rng, ok := strings.Cut(spec, "=")
	if !ok {
		return Param{}, fmt.Errorf("param %q: want name=from:to:n", spec)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return Param{}, fmt.Errorf("param %q: want name=from:to:n", spec)
	}
	from, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Param{}, fmt.Errorf("param %q: %w", spec, err)
	}
	to, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Param{}, fmt.Errorf("param %q: %w", spec, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return Param{}, fmt.Errorf("param %q: count must be a positive integer", spec)
	}

	set, err := setter(name)
	if err != nil {
		return Param{}, err
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = from
		if n > 1 {
			values[i] = from + (to-from)*float64(i)/float64(n-1)
		}
	}
	return Param{Name: name, Values: values, set: set}, nil
}

var fields = map[string]int{"x": 0, "y": 1, "z": 2}

func setter(name string) (Setter, error) {
	switch name {
	case "g":
		return func(c *config.Config, v float64) error { c.G = v; return nil }, nil
	case "speed_up":
		return func(c *config.Config, v float64) error { c.SpeedUp = v; return nil }, nil
	case "dt":
		return func(c *config.Config, v float64) error { c.Dt = v; return nil }, nil
	case "restitution":
		return func(c *config.Config, v float64) error { c.Bounce.Restitution = v; return nil }, nil
	}

	body, field, ok := strings.Cut(name, ".")
	if !ok {
		return nil, fmt.Errorf("unknown parameter %q", name)
	}
	return func(c *config.Config, v float64) error {
		idx := -1
		for i := range c.Bodies {
			if c.BodyName(i) == body {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("no body named %q", body)
		}
		b := &c.Bodies[idx]
		switch field {
		case "mass":
			b.Mass = v
			return nil
		case "radius":
			b.Radius = v
			return nil
		}

		vec := &b.Position
		axis, ok := fields[field]
		if !ok && strings.HasPrefix(field, "v") {
			vec = &b.Velocity
			axis, ok = fields[field[1:]]
		}
		if !ok || axis >= c.Dimension() {
			return fmt.Errorf("unknown field %q for model %s", field, c.Model)
		}
		if len(*vec) == 0 {
			*vec = make([]float64, c.Dimension())
		}
		(*vec)[axis] = v
		return nil
	}, nil
}

// GridSearch runs every combination of parameter values and keeps the one
// with the lowest metric.
type GridSearch struct {
	params   []Param
	maximize bool
}

func NewGridSearch(params []Param, maximize bool) *GridSearch {
	return &GridSearch{params: params, maximize: maximize}
}

// Best is the winning combination of a search.
type Best struct {
	Values map[string]float64
	Score  float64
	Runs   int
}

// Search runs base once per combination. Combinations that fail to build
// or run are skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, reg *experiment.Registry, metric string) (*Best, error) {
	best := &Best{Score: math.Inf(1)}
	if g.maximize {
		best.Score = math.Inf(-1)
	}

	err := g.searchRecursive(ctx, 0, base, make(map[string]float64), reg, metric, best)
	if err != nil {
		return nil, err
	}
	if best.Values == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoResult, metric)
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	base *config.Config,
	current map[string]float64,
	reg *experiment.Registry,
	metric string,
	best *Best,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.params) {
		cfg := base.Clone()
		for _, p := range g.params {
			if err := p.set(cfg, current[p.Name]); err != nil {
				return err
			}
		}
		if cfg.Validate() != nil {
			return nil
		}
		exp := experiment.New(cfg)
		if err := exp.Setup(reg, experiment.Options{}); err != nil {
			return nil
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil
		}
		best.Runs++

		val, ok := result.Metrics[metric]
		if !ok || math.IsNaN(val) {
			return nil
		}
		if (g.maximize && val > best.Score) || (!g.maximize && val < best.Score) {
			best.Score = val
			best.Values = make(map[string]float64, len(current))
			for k, v := range current {
				best.Values[k] = v
			}
		}
		return nil
	}

	p := g.params[depth]
	for _, val := range p.Values {
		current[p.Name] = val
		if err := g.searchRecursive(ctx, depth+1, base, current, reg, metric, best); err != nil {
			return err
		}
	}
	return nil
}
