package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

func TestSweep(t *testing.T) {
	build := func(i int) (Runner, error) {
		bodies := farBodies()
		bodies[0].Velocity = mgl64.Vec2{0, float64(i)}
		w, err := physics.NewWorld(6.674e-3, bodies, nil, physics.CollisionFreeze)
		if err != nil {
			return nil, err
		}
		return New[mgl64.Vec2](w, testConfig(0.1, 1))
	}

	results, err := Sweep(context.Background(), 4, 2, build)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r == nil || r.StepsTaken != 10 {
			t.Errorf("run %d: unexpected result %+v", i, r)
			continue
		}
		if vy := r.States[0][3]; vy != float64(i) {
			t.Errorf("run %d: initial vy = %v, want %d", i, vy, i)
		}
	}
}

func TestSweepBuildError(t *testing.T) {
	build := func(i int) (Runner, error) {
		if i == 2 {
			return nil, dynamo.ErrUnknownModel
		}
		w, _ := physics.NewWorld(6.674e-3, farBodies(), nil, physics.CollisionFreeze)
		return New[mgl64.Vec2](w, testConfig(0.1, 1))
	}

	_, err := Sweep(context.Background(), 4, 0, build)
	if !errors.Is(err, dynamo.ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
}

func TestFrameTimer(t *testing.T) {
	readings := []float64{0, 0.01, 5.01, 5.0}
	clock := ClockFunc(func() float64 {
		v := readings[0]
		readings = readings[1:]
		return v
	})
	ft := &FrameTimer{Clock: clock, SpeedUp: 2, MaxDt: 0.25}
	ft.Start()

	tests := []struct {
		name string
		want float64
	}{
		{"normal frame", 0.02},
		{"stalled frame is clamped", 0.5},
		{"clock going backwards", 0},
	}
	for _, tt := range tests {
		if got := ft.Tick(); got < tt.want-1e-12 || got > tt.want+1e-12 {
			t.Errorf("%s: Tick() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
