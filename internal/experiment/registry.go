package experiment

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// escapeRadius is the distance from the centre of mass beyond which a body
// counts as escaped for the stability metric.
const escapeRadius = 5000.0

// Options carry the outputs a built runner reports to.
type Options struct {
	// Report receives console position/velocity lines and events. Nil
	// disables console reporting.
	Report io.Writer
	Logger logrus.FieldLogger
}

type Builder func(cfg *config.Config, opts Options) (sim.Runner, error)

type Registry struct {
	models map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]Builder)}
	r.models[config.ModelGravity2D] = buildGravity[mgl64.Vec2]
	r.models[config.ModelGravity3D] = buildGravity[mgl64.Vec3]
	r.models[config.ModelBounce] = buildBounce
	return r
}

// Build validates cfg and assembles a runner for its model.
func (r *Registry) Build(cfg *config.Config, opts Options) (sim.Runner, error) {
	fn, ok := r.models[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownModel, cfg.Model, r.ListModels())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return fn(cfg, opts)
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListIntegrators() []string { return integrators.Names() }

func (r *Registry) ListCollisions() []string { return physics.CollisionModes() }

func DefaultMetrics[V vecmath.Vector[V]](model string, g float64) []sim.Metric[V] {
	if model == config.ModelBounce {
		return []sim.Metric[V]{metrics.NewMaxSpeed[V]()}
	}
	return []sim.Metric[V]{
		metrics.NewEnergy[V](g),
		metrics.NewEnergyDrift[V](g),
		metrics.NewMomentumDrift[V](),
		metrics.NewMinSeparation[V](),
		metrics.NewMaxSpeed[V](),
		metrics.NewStability[V](escapeRadius),
	}
}

func buildGravity[V vecmath.Vector[V]](cfg *config.Config, opts Options) (sim.Runner, error) {
	bodies, err := config.Bodies[V](cfg)
	if err != nil {
		return nil, err
	}
	integ, err := integrators.New[V](cfg.Integrator)
	if err != nil {
		return nil, err
	}
	mode, err := physics.ParseCollisionMode(cfg.Collision)
	if err != nil {
		return nil, err
	}
	world, err := physics.NewWorld(cfg.G, bodies, integ, mode)
	if err != nil {
		return nil, err
	}
	return assemble[V](world, cfg, opts)
}

func buildBounce(cfg *config.Config, opts Options) (sim.Runner, error) {
	bodies, err := config.Bodies[mgl64.Vec2](cfg)
	if err != nil {
		return nil, err
	}
	bouncer := physics.NewBouncer(cfg.Bounds.Width, cfg.Bounds.Height)
	bouncer.Gravity = cfg.Bounce.Gravity
	bouncer.Restitution = cfg.Bounce.Restitution
	if cfg.Bounce.RestSpeed != nil {
		bouncer.RestSpeed = *cfg.Bounce.RestSpeed
	}
	world, err := physics.NewBounceWorld(bouncer, bodies)
	if err != nil {
		return nil, err
	}
	return assemble[mgl64.Vec2](world, cfg, opts)
}

func assemble[V vecmath.Vector[V]](sys sim.System[V], cfg *config.Config, opts Options) (sim.Runner, error) {
	s, err := sim.New[V](sys, cfg.DynamoConfig())
	if err != nil {
		return nil, err
	}
	for _, m := range DefaultMetrics[V](cfg.Model, cfg.G) {
		s.AddMetric(m)
	}
	if opts.Report != nil {
		s.AddObserver(sim.NewConsoleReporter[V](opts.Report, cfg.ReportEvery))
	}
	if opts.Logger != nil {
		s.SetLogger(opts.Logger.WithField("model", cfg.Model))
	}
	return s, nil
}
