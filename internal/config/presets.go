package config

import "sort"

// DefaultPresets names the scene each model starts from.
var DefaultPresets = map[string]string{
	ModelGravity2D: "two-body",
	ModelGravity3D: "two-body",
	ModelBounce:    "drop",
}

var Presets = map[string]map[string]*Config{
	ModelGravity2D: {
		"two-body": {
			Model: ModelGravity2D, Integrator: DefaultIntegrator, Collision: DefaultCollision,
			G: DefaultG, SpeedUp: 10, Dt: DefaultDt, Duration: DefaultDuration,
			Bodies: []BodyConfig{
				{Name: "planet1", Mass: 3e6, Radius: 15, Position: []float64{1000, 100}, Velocity: []float64{0, 10}, Color: "#ffffff"},
				{Name: "planet2", Mass: 5e6, Radius: 25, Position: []float64{800, 50}, Velocity: []float64{0, 0}, Color: "#ffffff"},
			},
		},
		"three-body": {
			Model: ModelGravity2D, Integrator: DefaultIntegrator, Collision: "sticky",
			G: DefaultG, SpeedUp: 10, Dt: DefaultDt, Duration: 120,
			Bodies: []BodyConfig{
				{Name: "sun", Mass: 5e6, Radius: 25, Position: []float64{800, 450}, Velocity: []float64{0, 0}},
				{Name: "inner", Mass: 3e5, Radius: 8, Position: []float64{1000, 450}, Velocity: []float64{0, 12.9}},
				{Name: "outer", Mass: 1e5, Radius: 5, Position: []float64{800, 800}, Velocity: []float64{-9.8, 0}},
			},
		},
		"head-on": {
			Model: ModelGravity2D, Integrator: DefaultIntegrator, Collision: DefaultCollision,
			G: DefaultG, SpeedUp: 1, Dt: DefaultDt, Duration: 30,
			Bodies: []BodyConfig{
				{Name: "left", Mass: 1e6, Radius: 20, Position: []float64{400, 450}, Velocity: []float64{20, 0}},
				{Name: "right", Mass: 1e6, Radius: 20, Position: []float64{1200, 450}, Velocity: []float64{-20, 0}},
			},
		},
	},
	ModelGravity3D: {
		"two-body": {
			Model: ModelGravity3D, Integrator: DefaultIntegrator, Collision: "none",
			G: 6.674e-5, SpeedUp: 1, Dt: DefaultDt, Duration: DefaultDuration,
			Bodies: []BodyConfig{
				{Name: "planet1", Mass: 1e6, Radius: 1, Position: []float64{810, 0, 610}, Velocity: []float64{-5.6, 0, 0}, Color: "#ff0000"},
				{Name: "planet2", Mass: 5e6, Radius: 2, Position: []float64{800, 0, 600}, Velocity: []float64{0, 0, 0}, Color: "#00ff00"},
			},
		},
		"three-body": {
			Model: ModelGravity3D, Integrator: "leapfrog", Collision: DefaultCollision,
			G: 6.674e-5, SpeedUp: 1, Dt: DefaultDt, Duration: 120,
			Bodies: []BodyConfig{
				{Name: "star", Mass: 5e6, Radius: 2, Position: []float64{800, 0, 600}, Velocity: []float64{0, 0, 0}},
				{Name: "planet", Mass: 1e6, Radius: 1, Position: []float64{810, 0, 610}, Velocity: []float64{-5.6, 0, 0}},
				{Name: "moon", Mass: 1e4, Radius: 0.5, Position: []float64{780, 5, 580}, Velocity: []float64{1.8, 0, -1.8}},
			},
		},
	},
	ModelBounce: {
		"drop": {
			Model: ModelBounce, SpeedUp: 1, G: DefaultG, Dt: DefaultDt, Duration: DefaultDuration,
			Bounds: BoundsConfig{Width: DefaultWidth, Height: DefaultHeight},
			Bounce: BounceConfig{Gravity: DefaultGravity, Restitution: DefaultRestitution},
			Bodies: []BodyConfig{
				{Name: "ball", Mass: 1, Radius: 50, Position: []float64{400, 600}, Velocity: []float64{0, 0}, Color: "#ffffff"},
			},
		},
		"throw": {
			Model: ModelBounce, SpeedUp: 5, G: DefaultG, Dt: DefaultDt, Duration: DefaultDuration,
			Bounds: BoundsConfig{Width: DefaultWidth, Height: DefaultHeight},
			Bounce: BounceConfig{Gravity: DefaultGravity, Restitution: DefaultRestitution},
			Bodies: []BodyConfig{
				{Name: "ball", Mass: 1, Radius: 50, Position: []float64{100, 100}, Velocity: []float64{40, 30}},
				{Name: "pebble", Mass: 0.1, Radius: 10, Position: []float64{1500, 300}, Velocity: []float64{-25, 10}},
			},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
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
	sort.Strings(names)
	return names
}

func ListModels() []string {
	return []string{ModelGravity2D, ModelGravity3D, ModelBounce}
}
