package storage

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

// Scenario rebuilds the configuration a stored run started from, taking
// initial positions and velocities from its first recorded state. Bounds
// and bounce constants come from the model's default preset.
func Scenario(meta *RunMetadata, result *sim.Result) (*config.Config, error) {
	cfg := config.GetPreset(meta.Model, config.DefaultPresets[meta.Model])
	if cfg == nil {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownModel, meta.Model)
	}
	if len(result.States) == 0 {
		return nil, fmt.Errorf("run %s has no recorded states", meta.ID)
	}

	cfg.Integrator = meta.Integrator
	cfg.Collision = meta.Collision
	cfg.G = meta.G
	cfg.SpeedUp = meta.SpeedUp
	cfg.Dt = meta.Dt
	cfg.Duration = meta.Duration

	axes := []string{"x", "y", "z"}[:cfg.Dimension()]
	index := make(map[string]int, len(result.Labels))
	for i, l := range result.Labels {
		index[l] = i
	}
	initial := result.States[0]
	component := func(label string) (float64, error) {
		i, ok := index[label]
		if !ok || i >= len(initial) {
			return 0, fmt.Errorf("run %s: no column %q", meta.ID, label)
		}
		return initial[i], nil
	}

	cfg.Bodies = make([]config.BodyConfig, len(meta.Bodies))
	for i, b := range meta.Bodies {
		bc := config.BodyConfig{Name: b.Name, Mass: b.Mass, Radius: b.Radius, Color: b.Color}
		for _, a := range axes {
			p, err := component(b.Name + "." + a)
			if err != nil {
				return nil, err
			}
			v, err := component(b.Name + ".v" + a)
			if err != nil {
				return nil, err
			}
			bc.Position = append(bc.Position, p)
			bc.Velocity = append(bc.Velocity, v)
		}
		cfg.Bodies[i] = bc
	}
	return cfg, nil
}
