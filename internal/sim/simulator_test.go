package sim

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

func testConfig(dt, duration float64) dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.Dt = dt
	cfg.Duration = duration
	return cfg
}

func farBodies() []dynamo.Body[mgl64.Vec2] {
	return []dynamo.Body[mgl64.Vec2]{
		{Name: "planet1", Mass: 3e6, Radius: 15, Position: mgl64.Vec2{1000, 100}, Velocity: mgl64.Vec2{0, 10}},
		{Name: "planet2", Mass: 5e6, Radius: 25, Position: mgl64.Vec2{800, 50}},
	}
}

func newWorldSim(t *testing.T, bodies []dynamo.Body[mgl64.Vec2], mode physics.CollisionMode, cfg dynamo.Config) *Simulator[mgl64.Vec2] {
	t.Helper()
	w, err := physics.NewWorld(cfg.G, bodies, nil, mode)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	s, err := New[mgl64.Vec2](w, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// nanSystem corrupts its only body on the given step.
type nanSystem struct {
	bodies []dynamo.Body[mgl64.Vec2]
	failAt int
}

func (n *nanSystem) Bodies() []dynamo.Body[mgl64.Vec2] { return n.bodies }
func (n *nanSystem) Reset()                            {}
func (n *nanSystem) Advance(step int, t, dt float64) ([]dynamo.Event, error) {
	if step == n.failAt {
		n.bodies[0].Position = mgl64.Vec2{math.NaN(), 0}
	}
	return nil, nil
}

func TestSimulatorRun(t *testing.T) {
	s := newWorldSim(t, farBodies(), physics.CollisionNone, testConfig(0.1, 1.0))

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if math.Abs(result.Times[10]-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %v", result.Times[10])
	}
	if len(result.Labels) != 8 || len(result.States[0]) != 8 {
		t.Errorf("expected 8 columns, got %d labels and %d values", len(result.Labels), len(result.States[0]))
	}
	if result.Labels[0] != "planet1.x" || result.Labels[3] != "planet1.vy" {
		t.Errorf("unexpected labels %v", result.Labels)
	}
}

func TestSimulatorSpeedUp(t *testing.T) {
	cfg := testConfig(0.1, 10)
	cfg.SpeedUp = 10
	s := newWorldSim(t, farBodies(), physics.CollisionNone, cfg)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps of dt=1, got %d", result.StepsTaken)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  dynamo.Config
	}{
		{"zero dt", testConfig(0, 1.0)},
		{"negative dt", testConfig(-0.1, 1.0)},
		{"zero duration", testConfig(0.1, 0)},
		{"negative duration", testConfig(0.1, -1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[mgl64.Vec2](&nanSystem{failAt: -1}, tt.cfg)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorCoincidentBodies(t *testing.T) {
	g := NewWithT(t)

	bodies := []dynamo.Body[mgl64.Vec2]{
		{Name: "a", Mass: 1, Position: mgl64.Vec2{5, 5}},
		{Name: "b", Mass: 1, Position: mgl64.Vec2{5, 5}},
	}
	s := newWorldSim(t, bodies, physics.CollisionNone, testConfig(0.1, 1))

	result, err := s.Run(context.Background())
	g.Expect(err).To(MatchError(dynamo.ErrCoincidentBodies))
	g.Expect(result.Errors).To(HaveLen(1))

	var se *dynamo.SimulationError
	g.Expect(errors.As(err, &se)).To(BeTrue())
	g.Expect(se.Step).To(Equal(0))
	g.Expect(se.Bodies).To(Equal([]string{"a", "b"}))
}

func TestSimulatorInvalidState(t *testing.T) {
	g := NewWithT(t)

	sys := &nanSystem{bodies: []dynamo.Body[mgl64.Vec2]{{Name: "a", Mass: 1}}, failAt: 2}
	s, err := New[mgl64.Vec2](sys, testConfig(0.5, 10))
	g.Expect(err).NotTo(HaveOccurred())

	result, err := s.Run(context.Background())
	g.Expect(err).To(MatchError(dynamo.ErrInvalidState))
	g.Expect(result.StepsTaken).To(Equal(2))

	var se *dynamo.SimulationError
	g.Expect(errors.As(err, &se)).To(BeTrue())
	g.Expect(se.Step).To(Equal(3))
	g.Expect(se.Time).To(BeNumerically("~", 1.5, 1e-12))
	g.Expect(se.Bodies).To(Equal([]string{"a"}))
}

func TestSimulatorInvalidStateDisabled(t *testing.T) {
	cfg := testConfig(0.5, 10)
	cfg.ValidateState = false
	sys := &nanSystem{bodies: []dynamo.Body[mgl64.Vec2]{{Name: "a", Mass: 1}}, failAt: 2}
	s, _ := New[mgl64.Vec2](sys, cfg)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("expected no error with validation disabled, got %v", err)
	}
	if result.StepsTaken != 20 {
		t.Errorf("expected 20 steps, got %d", result.StepsTaken)
	}
}

func TestSimulatorContextCancellation(t *testing.T) {
	s := newWorldSim(t, farBodies(), physics.CollisionNone, testConfig(0.01, 100))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no steps, got %d", result.StepsTaken)
	}
}

type eventRecorder struct {
	events []dynamo.Event
	steps  int
}

func (r *eventRecorder) OnStep(int, float64, []dynamo.Body[mgl64.Vec2]) { r.steps++ }
func (r *eventRecorder) OnEvent(e dynamo.Event)                        { r.events = append(r.events, e) }

func TestSimulatorCollisionEvents(t *testing.T) {
	g := NewWithT(t)

	bodies := []dynamo.Body[mgl64.Vec2]{
		{Name: "left", Mass: 1, Radius: 3, Velocity: mgl64.Vec2{10, 0}},
		{Name: "right", Mass: 1, Radius: 3, Position: mgl64.Vec2{10, 0}, Velocity: mgl64.Vec2{-10, 0}},
	}
	s := newWorldSim(t, bodies, physics.CollisionSticky, testConfig(0.1, 2))

	logger, hook := logtest.NewNullLogger()
	s.SetLogger(logger)
	rec := &eventRecorder{}
	s.AddObserver(rec)

	result, err := s.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Events).To(HaveLen(1))
	g.Expect(result.Events[0].Kind).To(Equal(dynamo.EventCollision))
	g.Expect(rec.events).To(Equal(result.Events))
	g.Expect(rec.steps).To(Equal(20))

	g.Expect(hook.LastEntry()).NotTo(BeNil())
	g.Expect(hook.LastEntry().Level).To(Equal(logrus.InfoLevel))
	g.Expect(hook.LastEntry().Message).To(Equal("collision"))
	g.Expect(hook.LastEntry().Data).To(HaveKeyWithValue("a", "left"))

	final := result.States[len(result.States)-1]
	g.Expect(final[2]).To(BeZero(), "frozen body keeps zero velocity")
}

func TestSimulatorRunFrames(t *testing.T) {
	g := NewWithT(t)

	s := newWorldSim(t, farBodies(), physics.CollisionNone, testConfig(1.0/60, 60))

	now := 0.0
	clock := ClockFunc(func() float64 {
		v := now
		now += 1.0 / 60
		return v
	})
	timer := NewFrameTimer(clock, s.Config())

	frames := 0
	err := s.RunFrames(context.Background(), timer, 10, func(f Frame) bool {
		frames++
		return true
	})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(frames).To(Equal(10))
	g.Expect(s.Time()).To(BeNumerically("~", 10.0/60, 1e-9))

	frames = 0
	err = s.RunFrames(context.Background(), timer, 0, func(f Frame) bool {
		frames++
		return frames < 3
	})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(frames).To(Equal(3))
}

func TestSimulatorReset(t *testing.T) {
	g := NewWithT(t)

	s := newWorldSim(t, farBodies(), physics.CollisionNone, testConfig(0.1, 1))
	before := s.Frame()

	_, err := s.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.Frame().Bodies[0].X).NotTo(Equal(before.Bodies[0].X))

	s.Reset()
	g.Expect(s.Time()).To(BeZero())
	g.Expect(s.Frame()).To(Equal(before))
}

func TestSimulatorFrame3D(t *testing.T) {
	g := NewWithT(t)

	bodies := []dynamo.Body[mgl64.Vec3]{
		{Name: "a", Mass: 1e6, Radius: 1, Position: mgl64.Vec3{810, 5, 610}, Velocity: mgl64.Vec3{-5.6, 0, 0}},
	}
	w, err := physics.NewWorld(6.674e-5, bodies, nil, physics.CollisionFreeze)
	g.Expect(err).NotTo(HaveOccurred())
	s, err := New[mgl64.Vec3](w, testConfig(0.1, 1))
	g.Expect(err).NotTo(HaveOccurred())

	f := s.Frame()
	g.Expect(f.Dim).To(Equal(3))
	g.Expect(f.Bodies[0].X).To(Equal(810.0))
	g.Expect(f.Bodies[0].Y).To(Equal(610.0))
	g.Expect(f.Bodies[0].Z).To(Equal(5.0))
	g.Expect(f.Bodies[0].Speed).To(BeNumerically("~", 5.6, 1e-12))
	g.Expect(s.Labels()).To(HaveLen(6))
}

func TestSimulatorSetSpeedUp(t *testing.T) {
	s := newWorldSim(t, farBodies(), physics.CollisionNone, testConfig(0.1, 1))
	s.SetSpeedUp(5)
	s.SetSpeedUp(-1)
	if s.Config().SpeedUp != 5 {
		t.Errorf("expected speed-up 5, got %v", s.Config().SpeedUp)
	}
}

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	s := newWorldSim(t, farBodies(), physics.CollisionNone, testConfig(0.1, 1))
	s.AddObserver(NewConsoleReporter[mgl64.Vec2](&buf, 5))

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (2 reports x 2 bodies), got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "planet1 position=(") || !strings.Contains(lines[0], "velocity=(") {
		t.Errorf("unexpected report line %q", lines[0])
	}
}

func TestResultColumn(t *testing.T) {
	r := &Result{Labels: []string{"a.x", "a.y"}, States: [][]float64{{1, 2}, {3, 4}}}
	got := r.Column("a.y")
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("Column(a.y) = %v", got)
	}
	if r.Column("missing") != nil {
		t.Error("expected nil for unknown label")
	}
}
