package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/gomega"
	"github.com/san-kum/gravsim/internal/dynamo"
)

func TestBounceFirstContact(t *testing.T) {
	g := NewWithT(t)

	const (
		height = 10.0
		dt     = 0.001
	)
	bouncer := NewBouncer(100, 100)
	ball := dynamo.Body[mgl64.Vec2]{Name: "ball", Mass: 1, Position: mgl64.Vec2{50, height}}

	var hit WallHit
	var contact float64
	for step := 1; step <= 5000; step++ {
		hits := bouncer.Step(&ball, dt)
		if len(hits) > 0 {
			hit = hits[0]
			contact = float64(step) * dt
			break
		}
	}

	g.Expect(hit.Wall).To(Equal("floor"))
	g.Expect(contact).To(BeNumerically("~", math.Sqrt(2*height/9.81), 2*dt))
	g.Expect(hit.Impact).To(BeNumerically("~", math.Sqrt(2*9.81*height), 9.81*2*dt))
	g.Expect(hit.Rebound).To(BeNumerically("~", 0.8*hit.Impact, 1e-12))
	g.Expect(ball.Velocity[1]).To(BeNumerically("~", hit.Rebound, 1e-12))
	g.Expect(ball.Position[1]).To(BeNumerically(">=", 0), "clamped above the floor")
}

func TestBounceWalls(t *testing.T) {
	tests := []struct {
		name     string
		pos, vel mgl64.Vec2
		wall     string
		wantVel  mgl64.Vec2
		wantPos  mgl64.Vec2
	}{
		{"left", mgl64.Vec2{5, 50}, mgl64.Vec2{-10, 0}, "left wall", mgl64.Vec2{8, 0}, mgl64.Vec2{4, 50}},
		{"right", mgl64.Vec2{95, 50}, mgl64.Vec2{10, 0}, "right wall", mgl64.Vec2{-8, 0}, mgl64.Vec2{96, 50}},
		{"ceiling", mgl64.Vec2{50, 95}, mgl64.Vec2{0, 10}, "ceiling", mgl64.Vec2{0, -8}, mgl64.Vec2{50, 96}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			bouncer := NewBouncer(100, 100)
			bouncer.Gravity = 0
			ball := dynamo.Body[mgl64.Vec2]{Name: "ball", Mass: 1, Radius: 4, Position: tt.pos, Velocity: tt.vel}

			hits := bouncer.Step(&ball, 1)

			g.Expect(hits).To(HaveLen(1))
			g.Expect(hits[0].Wall).To(Equal(tt.wall))
			g.Expect(ball.Velocity.ApproxEqual(tt.wantVel)).To(BeTrue(), "velocity %v", ball.Velocity)
			g.Expect(ball.Position.ApproxEqual(tt.wantPos)).To(BeTrue(), "position %v", ball.Position)
		})
	}
}

func TestBounceSettles(t *testing.T) {
	g := NewWithT(t)

	bouncer := NewBouncer(1600, 900)
	ball := dynamo.Body[mgl64.Vec2]{Name: "ball", Mass: 1, Radius: 50, Position: mgl64.Vec2{400, 600}}

	bounces := 0
	for i := 0; i < 200000; i++ {
		bounces += len(bouncer.Step(&ball, 0.01))
	}

	g.Expect(bounces).To(BeNumerically(">", 5))
	g.Expect(ball.Position[1]).To(BeNumerically("~", 50, 0.01))
	g.Expect(math.Abs(ball.Velocity[1])).To(BeNumerically("<", 0.2))
}

func TestBounceWithoutRestSpeed(t *testing.T) {
	g := NewWithT(t)

	bouncer := NewBouncer(100, 100)
	bouncer.RestSpeed = 0
	ball := dynamo.Body[mgl64.Vec2]{Name: "ball", Mass: 1, Radius: 1, Position: mgl64.Vec2{50, 1}, Velocity: mgl64.Vec2{0, -0.01}}

	hits := bouncer.Step(&ball, 0.001)
	g.Expect(hits).To(HaveLen(1), "slow impact still bounces")
	g.Expect(hits[0].Rebound).To(BeNumerically("~", 0.8*hits[0].Impact, 1e-12))
	g.Expect(ball.Velocity[1]).To(BeNumerically(">", 0))

	settling := NewBouncer(100, 100)
	ball = dynamo.Body[mgl64.Vec2]{Name: "ball", Mass: 1, Radius: 1, Position: mgl64.Vec2{50, 1}, Velocity: mgl64.Vec2{0, -0.01}}
	g.Expect(settling.Step(&ball, 0.001)).To(BeEmpty())
	g.Expect(ball.Velocity[1]).To(BeZero())
}

func TestBounceWorld(t *testing.T) {
	g := NewWithT(t)

	w, err := NewBounceWorld(NewBouncer(100, 100), []dynamo.Body[mgl64.Vec2]{
		{Name: "ball", Mass: 1, Radius: 1, Position: mgl64.Vec2{50, 1.5}},
	})
	g.Expect(err).NotTo(HaveOccurred())

	var events []dynamo.Event
	for i := 0; i < 100 && len(events) == 0; i++ {
		ev, err := w.Advance(i, float64(i)*0.05, 0.05)
		g.Expect(err).NotTo(HaveOccurred())
		events = append(events, ev...)
	}

	g.Expect(events).NotTo(BeEmpty())
	g.Expect(events[0].Kind).To(Equal(dynamo.EventBounce))
	g.Expect(events[0].A).To(Equal("ball"))
	g.Expect(events[0].B).To(Equal("floor"))

	w.Reset()
	g.Expect(w.Bodies()[0].Position).To(Equal(mgl64.Vec2{50, 1.5}))
}

func TestNewBounceWorld_Invalid(t *testing.T) {
	ball := []dynamo.Body[mgl64.Vec2]{{Name: "ball", Mass: 1}}

	bad := NewBouncer(100, 100)
	bad.Restitution = 1.5
	if _, err := NewBounceWorld(bad, ball); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for restitution, got %v", err)
	}

	if _, err := NewBounceWorld(NewBouncer(0, 100), ball); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for empty box, got %v", err)
	}

	if _, err := NewBounceWorld(NewBouncer(100, 100), nil); !errors.Is(err, dynamo.ErrInvalidBody) {
		t.Errorf("expected ErrInvalidBody, got %v", err)
	}
}
