package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	ModelGravity2D = "gravity2d"
	ModelGravity3D = "gravity3d"
	ModelBounce    = "bounce"
)

const (
	DefaultG            = 6.674e-3
	DefaultDt           = 1.0 / 60.0
	DefaultDuration     = 60.0
	DefaultSpeedUp      = 1.0
	DefaultMaxFrameDt   = 0.25
	DefaultWidth        = 1600.0
	DefaultHeight       = 900.0
	DefaultGravity      = -9.81
	DefaultRestitution  = 0.8
	DefaultIntegrator   = "euler"
	DefaultCollision    = "freeze"
	defaultFilePerm     = 0644
	defaultBodyNameBase = "body"
)

type Config struct {
	Model       string       `yaml:"model"`
	Integrator  string       `yaml:"integrator"`
	Collision   string       `yaml:"collision"`
	G           float64      `yaml:"g"`
	SpeedUp     float64      `yaml:"speed_up"`
	Dt          float64      `yaml:"dt"`
	Duration    float64      `yaml:"duration"`
	ReportEvery int          `yaml:"report_every"`
	Bodies      []BodyConfig `yaml:"bodies"`
	Bounds      BoundsConfig `yaml:"bounds"`
	Bounce      BounceConfig `yaml:"bounce"`
}

type BodyConfig struct {
	Name     string    `yaml:"name"`
	Mass     float64   `yaml:"mass"`
	Radius   float64   `yaml:"radius"`
	Position []float64 `yaml:"position,flow"`
	Velocity []float64 `yaml:"velocity,flow"`
	Color    string    `yaml:"color,omitempty"`
}

type BoundsConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type BounceConfig struct {
	Gravity     float64 `yaml:"gravity"`
	Restitution float64 `yaml:"restitution"`
	// RestSpeed overrides the impact speed below which a ball settles
	// against a wall. 0 turns settling off.
	RestSpeed *float64 `yaml:"rest_speed,omitempty"`
}

// DefaultConfig is the two-planet 2D scene.
func DefaultConfig() *Config {
	return GetPreset(ModelGravity2D, "two-body")
}

func Load(path string) (*Config, error) {
	return LoadInto(path, DefaultConfig())
}

// LoadInto reads path over a copy of base. A file naming a different model
// is read over that model's default preset instead. A file without bodies
// keeps the bodies of whichever of the two it was read over.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var head struct {
		Model string `yaml:"model"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg := base.Clone()
	if head.Model != "" && head.Model != base.Model {
		if preset := GetPreset(head.Model, DefaultPresets[head.Model]); preset != nil {
			cfg = preset
		}
	}

	bodies := cfg.Bodies
	cfg.Bodies = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Bodies) == 0 {
		cfg.Bodies = bodies
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, defaultFilePerm)
}

// Clone returns a deep copy, so presets can be modified safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = make([]BodyConfig, len(c.Bodies))
	for i, b := range c.Bodies {
		b.Position = append([]float64(nil), b.Position...)
		b.Velocity = append([]float64(nil), b.Velocity...)
		out.Bodies[i] = b
	}
	if c.Bounce.RestSpeed != nil {
		rest := *c.Bounce.RestSpeed
		out.Bounce.RestSpeed = &rest
	}
	return &out
}

// Dimension is the vector size the model runs in, or 0 for an unknown model.
func (c *Config) Dimension() int {
	switch c.Model {
	case ModelGravity2D, ModelBounce:
		return 2
	case ModelGravity3D:
		return 3
	}
	return 0
}

func (c *Config) DynamoConfig() dynamo.Config {
	return dynamo.Config{
		G:             c.G,
		SpeedUp:       c.SpeedUp,
		Dt:            c.Dt,
		Duration:      c.Duration,
		MaxFrameDt:    DefaultMaxFrameDt,
		ValidateState: true,
		ReportEvery:   c.ReportEvery,
	}
}

func (c *Config) Validate() error {
	dim := c.Dimension()
	if dim == 0 {
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownModel, c.Model)
	}
	if err := c.DynamoConfig().Validate(); err != nil {
		return err
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("%w: scenario has no bodies", dynamo.ErrInvalidBody)
	}
	for i, b := range c.Bodies {
		name := b.Name
		if name == "" {
			name = fmt.Sprintf("%s%d", defaultBodyNameBase, i+1)
		}
		if len(b.Position) != 0 && len(b.Position) != dim {
			return fmt.Errorf("%w: %s position has %d components, model %s needs %d",
				dynamo.ErrDimensionMismatch, name, len(b.Position), c.Model, dim)
		}
		if len(b.Velocity) != 0 && len(b.Velocity) != dim {
			return fmt.Errorf("%w: %s velocity has %d components, model %s needs %d",
				dynamo.ErrDimensionMismatch, name, len(b.Velocity), c.Model, dim)
		}
		if b.Color != "" {
			if _, err := ParseColor(b.Color); err != nil {
				return fmt.Errorf("%w: %s: %v", dynamo.ErrInvalidBody, name, err)
			}
		}
	}
	if c.Model == ModelBounce {
		if !(c.Bounds.Width > 0 && c.Bounds.Height > 0) {
			return fmt.Errorf("%w: bounds must be positive, got %gx%g", dynamo.ErrInvalidConfig, c.Bounds.Width, c.Bounds.Height)
		}
		if c.Bounce.Restitution < 0 || c.Bounce.Restitution > 1 {
			return fmt.Errorf("%w: restitution must be in [0, 1], got %g", dynamo.ErrInvalidConfig, c.Bounce.Restitution)
		}
		if rest := c.Bounce.RestSpeed; rest != nil && !(*rest >= 0) {
			return fmt.Errorf("%w: rest speed must not be negative, got %g", dynamo.ErrInvalidConfig, *rest)
		}
	}
	return nil
}
