package sim

import (
	"context"
	"errors"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// Runner is the dimension-independent view of a Simulator.
type Runner interface {
	Run(ctx context.Context) (*Result, error)
	RunFrames(ctx context.Context, timer *FrameTimer, maxFrames int, onFrame func(Frame) bool) error
	Step(dt float64) ([]dynamo.Event, error)
	Frame() Frame
	Labels() []string
	Reset()
	Time() float64
	Config() dynamo.Config
	SetSpeedUp(speedUp float64)
	SetLogger(l logrus.FieldLogger)
	Dim() int
}

type Simulator[V vecmath.Vector[V]] struct {
	sys       System[V]
	cfg       dynamo.Config
	metrics   []Metric[V]
	observers []Observer[V]
	log       logrus.FieldLogger

	step int
	t    float64
}

var (
	_ Runner = (*Simulator[mgl64.Vec2])(nil)
	_ Runner = (*Simulator[mgl64.Vec3])(nil)
)

func New[V vecmath.Vector[V]](sys System[V], cfg dynamo.Config) (*Simulator[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return &Simulator[V]{
		sys:       sys,
		cfg:       cfg,
		metrics:   make([]Metric[V], 0),
		observers: make([]Observer[V], 0),
		log:       discard,
	}, nil
}

func (s *Simulator[V]) AddMetric(m Metric[V])     { s.metrics = append(s.metrics, m) }
func (s *Simulator[V]) AddObserver(o Observer[V]) { s.observers = append(s.observers, o) }

func (s *Simulator[V]) SetLogger(l logrus.FieldLogger) {
	if l != nil {
		s.log = l
	}
}

func (s *Simulator[V]) System() System[V]     { return s.sys }
func (s *Simulator[V]) Config() dynamo.Config { return s.cfg }
func (s *Simulator[V]) Time() float64         { return s.t }
func (s *Simulator[V]) Steps() int            { return s.step }
func (s *Simulator[V]) Dim() int              { return vecmath.Dim[V]() }

func (s *Simulator[V]) SetSpeedUp(speedUp float64) {
	if speedUp > 0 {
		s.cfg.SpeedUp = speedUp
	}
}

// Step advances the system by dt of simulated time. It performs no
// rendering and no I/O beyond logging.
func (s *Simulator[V]) Step(dt float64) ([]dynamo.Event, error) {
	events, err := s.sys.Advance(s.step, s.t, dt)
	if err != nil {
		return nil, s.fail(err)
	}

	s.t += dt
	s.step++

	bodies := s.sys.Bodies()
	if s.cfg.ValidateState {
		for i := range bodies {
			if !bodies[i].Finite() {
				return events, s.fail(&dynamo.SimulationError{
					Bodies:  []string{bodies[i].Name},
					Wrapped: dynamo.ErrInvalidState,
				})
			}
		}
	}

	for _, e := range events {
		s.log.WithFields(logrus.Fields{
			"step": e.Step,
			"t":    e.Time,
			"a":    e.A,
			"b":    e.B,
		}).Info(string(e.Kind))
		for _, o := range s.observers {
			if eo, ok := o.(EventObserver); ok {
				eo.OnEvent(e)
			}
		}
	}

	for _, m := range s.metrics {
		m.Observe(bodies, s.t)
	}
	for _, o := range s.observers {
		o.OnStep(s.step, s.t, bodies)
	}

	return events, nil
}

// fail stamps err with the current step and time and logs it.
func (s *Simulator[V]) fail(err error) error {
	var se *dynamo.SimulationError
	if !errors.As(err, &se) {
		se = &dynamo.SimulationError{Wrapped: err}
		err = se
	}
	se.Step = s.step
	se.Time = s.t
	s.log.WithFields(logrus.Fields{
		"step":   s.step,
		"t":      s.t,
		"bodies": se.Bodies,
	}).WithError(se.Wrapped).Error("simulation step failed")
	return err
}

// Run advances the system with the fixed step Dt·SpeedUp until Duration of
// simulated time has elapsed, recording every state.
func (s *Simulator[V]) Run(ctx context.Context) (*Result, error) {
	dt := s.cfg.StepDt()
	steps := int(math.Round(s.cfg.Duration / dt))

	result := &Result{
		Labels:  s.Labels(),
		Times:   make([]float64, 0, steps+1),
		States:  make([][]float64, 0, steps+1),
		Events:  make([]dynamo.Event, 0),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(s.sys.Bodies(), s.t)
	}

	result.Times = append(result.Times, s.t)
	result.States = append(result.States, s.snapshot())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		events, err := s.Step(dt)
		result.Events = append(result.Events, events...)
		if err != nil {
			result.Errors = append(result.Errors, err)
			s.collect(result)
			return result, err
		}

		result.StepsTaken++
		result.Times = append(result.Times, s.t)
		result.States = append(result.States, s.snapshot())
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator[V]) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunFrames drives the system from a frame timer: each frame advances by the
// clamped wall-clock delta scaled by SpeedUp, then hands the rendered frame
// to onFrame. It stops when onFrame returns false, after maxFrames frames
// (0 means no limit), or when ctx is done.
func (s *Simulator[V]) RunFrames(ctx context.Context, timer *FrameTimer, maxFrames int, onFrame func(Frame) bool) error {
	timer.Start()
	for frame := 0; maxFrames <= 0 || frame < maxFrames; frame++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		timer.SpeedUp = s.cfg.SpeedUp
		if dt := timer.Tick(); dt > 0 {
			if _, err := s.Step(dt); err != nil {
				return err
			}
		}

		if !onFrame(s.Frame()) {
			return nil
		}
	}
	return nil
}

func (s *Simulator[V]) Frame() Frame {
	bodies := s.sys.Bodies()
	f := Frame{
		Time:   s.t,
		Step:   s.step,
		Dim:    s.Dim(),
		Bodies: make([]BodyView, len(bodies)),
	}
	if e, ok := s.sys.(Energetic); ok {
		f.Energy = e.Energy()
	}
	for i := range bodies {
		b := &bodies[i]
		x, y, z := vecmath.Project(b.Position)
		f.Bodies[i] = BodyView{
			Name:   b.Name,
			X:      x,
			Y:      y,
			Z:      z,
			Radius: b.Radius,
			Color:  b.Color,
			Speed:  b.Speed(),
		}
	}
	return f
}

// Labels names the columns of a recorded state: every body's position
// components followed by its velocity components.
func (s *Simulator[V]) Labels() []string {
	axes := []string{"x", "y", "z"}[:s.Dim()]
	bodies := s.sys.Bodies()
	labels := make([]string, 0, len(bodies)*2*len(axes))
	for i := range bodies {
		for _, a := range axes {
			labels = append(labels, bodies[i].Name+"."+a)
		}
		for _, a := range axes {
			labels = append(labels, bodies[i].Name+".v"+a)
		}
	}
	return labels
}

func (s *Simulator[V]) snapshot() []float64 {
	bodies := s.sys.Bodies()
	out := make([]float64, 0, len(bodies)*2*s.Dim())
	for i := range bodies {
		out = append(out, vecmath.Components(bodies[i].Position)...)
		out = append(out, vecmath.Components(bodies[i].Velocity)...)
	}
	return out
}

func (s *Simulator[V]) Reset() {
	s.sys.Reset()
	s.step = 0
	s.t = 0
	for _, m := range s.metrics {
		m.Reset()
	}
}
