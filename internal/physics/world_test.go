package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
)

func newWorld2D(g float64, mode CollisionMode, bodies ...dynamo.Body[mgl64.Vec2]) *World[mgl64.Vec2] {
	w, err := NewWorld(g, bodies, integrators.NewEuler[mgl64.Vec2](), mode)
	Expect(err).NotTo(HaveOccurred())
	return w
}

type advancer interface {
	Advance(step int, t, dt float64) ([]dynamo.Event, error)
}

func stepN(w advancer, n int, dt float64) []dynamo.Event {
	var events []dynamo.Event
	for i := 0; i < n; i++ {
		ev, err := w.Advance(i, float64(i)*dt, dt)
		Expect(err).NotTo(HaveOccurred())
		events = append(events, ev...)
	}
	return events
}

var _ = Describe("Attraction", func() {
	It("follows the inverse-square law along the line between bodies", func() {
		a := dynamo.Body[mgl64.Vec3]{Name: "a", Mass: 2, Position: mgl64.Vec3{0, 0, 0}}
		b := dynamo.Body[mgl64.Vec3]{Name: "b", Mass: 3, Position: mgl64.Vec3{0, 4, 0}}

		f, err := Attraction(0.5, &a, &b)
		Expect(err).NotTo(HaveOccurred())
		Expect(f[0]).To(BeZero())
		Expect(f[1]).To(BeNumerically("~", 0.5*2*3/16.0, 1e-15))
		Expect(f[2]).To(BeZero())
	})

	It("is antisymmetric", func() {
		a := dynamo.Body[mgl64.Vec2]{Mass: 1e6, Position: mgl64.Vec2{1000, 100}}
		b := dynamo.Body[mgl64.Vec2]{Mass: 5e6, Position: mgl64.Vec2{800, 50}}

		fab, err := Attraction(6.674e-3, &a, &b)
		Expect(err).NotTo(HaveOccurred())
		fba, err := Attraction(6.674e-3, &b, &a)
		Expect(err).NotTo(HaveOccurred())
		Expect(fab.Add(fba).Len()).To(BeNumerically("<", 1e-9))
	})

	It("reports coincident bodies instead of dividing by zero", func() {
		a := dynamo.Body[mgl64.Vec2]{Name: "a", Mass: 1, Position: mgl64.Vec2{5, 5}}
		b := dynamo.Body[mgl64.Vec2]{Name: "b", Mass: 1, Position: mgl64.Vec2{5, 5}}

		_, err := Attraction(1, &a, &b)
		Expect(err).To(MatchError(dynamo.ErrCoincidentBodies))
		Expect(err.Error()).To(ContainSubstring("a and b"))
	})
})

var _ = Describe("World", func() {
	const (
		g  = 6.674e-3
		m1 = 1e6
		m2 = 5e6
		d  = 200.0
		dt = 0.1
	)

	It("gives the closed-form relative velocity after one step from rest", func() {
		w := newWorld2D(g, CollisionFreeze,
			dynamo.Body[mgl64.Vec2]{Name: "a", Mass: m1, Radius: 1, Position: mgl64.Vec2{0, 0}},
			dynamo.Body[mgl64.Vec2]{Name: "b", Mass: m2, Radius: 2, Position: mgl64.Vec2{d, 0}},
		)

		stepN(w, 1, dt)

		bodies := w.Bodies()
		expected := g * (m1 + m2) / (d * d) * dt
		rel := bodies[0].Velocity.Sub(bodies[1].Velocity).Len()
		Expect(rel).To(BeNumerically("~", expected, 1e-12))
		Expect(bodies[0].Velocity[0]).To(BeNumerically("~", g*m2/(d*d)*dt, 1e-12))
		Expect(bodies[1].Velocity[0]).To(BeNumerically("~", -g*m1/(d*d)*dt, 1e-12))
	})

	DescribeTable("conserves total momentum",
		func(name string) {
			integ, err := integrators.New[mgl64.Vec2](name)
			Expect(err).NotTo(HaveOccurred())
			w, err := NewWorld(g, []dynamo.Body[mgl64.Vec2]{
				{Name: "a", Mass: m1, Radius: 1, Position: mgl64.Vec2{0, 0}, Velocity: mgl64.Vec2{0, 5}},
				{Name: "b", Mass: m2, Radius: 1, Position: mgl64.Vec2{d, 0}, Velocity: mgl64.Vec2{0, -1}},
			}, integ, CollisionNone)
			Expect(err).NotTo(HaveOccurred())

			stepN(w, 2000, dt)

			p := Momentum(w.Bodies())
			Expect(p.Len()).To(BeNumerically("<", 1e-4))
		},
		Entry("euler", "euler"),
		Entry("pairwise", "pairwise"),
		Entry("leapfrog", "leapfrog"),
	)

	It("runs the same recipe in three dimensions", func() {
		w, err := NewWorld(6.674e-5, []dynamo.Body[mgl64.Vec3]{
			{Name: "planet1", Mass: 1e6, Radius: 1, Position: mgl64.Vec3{810, 0, 610}, Velocity: mgl64.Vec3{-5.6, 0, 0}},
			{Name: "planet2", Mass: 5e6, Radius: 2, Position: mgl64.Vec3{800, 0, 600}},
		}, nil, CollisionNone)
		Expect(err).NotTo(HaveOccurred())

		p0 := Momentum(w.Bodies())
		for i := 0; i < 100; i++ {
			_, err := w.Advance(i, float64(i)/60, 1.0/60)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(Momentum(w.Bodies()).Sub(p0).Len()).To(BeNumerically("<", 1e-6))
		Expect(w.Bodies()[0].Position[1]).To(BeZero(), "motion stays in the starting plane")
	})

	Context("when bodies overlap", func() {
		var w *World[mgl64.Vec2]

		DescribeTable("freezes them idempotently",
			func(mode CollisionMode) {
				w = newWorld2D(g, mode,
					dynamo.Body[mgl64.Vec2]{Name: "a", Mass: m1, Radius: 15, Position: mgl64.Vec2{0, 0}, Velocity: mgl64.Vec2{3, 0}},
					dynamo.Body[mgl64.Vec2]{Name: "b", Mass: m2, Radius: 25, Position: mgl64.Vec2{30, 0}, Velocity: mgl64.Vec2{-1, 0}},
				)

				events := stepN(w, 1, dt)
				Expect(events).To(HaveLen(1))
				Expect(events[0].Kind).To(Equal(dynamo.EventCollision))

				frozen := dynamo.CloneBodies(w.Bodies())
				for _, b := range frozen {
					Expect(b.Velocity).To(Equal(mgl64.Vec2{}))
				}

				more := stepN(w, 50, dt)
				Expect(more).To(BeEmpty(), "contact is reported once")
				Expect(w.Bodies()).To(Equal(frozen))
			},
			Entry("freeze", CollisionFreeze),
			Entry("sticky", CollisionSticky),
		)
	})

	It("keeps a sticky pair frozen while other pairs still attract", func() {
		w := newWorld2D(g, CollisionSticky,
			dynamo.Body[mgl64.Vec2]{Name: "a", Mass: m1, Radius: 10, Position: mgl64.Vec2{0, 0}},
			dynamo.Body[mgl64.Vec2]{Name: "b", Mass: m1, Radius: 10, Position: mgl64.Vec2{15, 0}},
			dynamo.Body[mgl64.Vec2]{Name: "c", Mass: m2, Radius: 10, Position: mgl64.Vec2{0, 300}},
		)

		stepN(w, 10, dt)

		Expect(w.Collisions().Frozen(0, 1)).To(BeTrue())
		Expect(w.Collisions().Frozen(1, 0)).To(BeTrue())
		Expect(w.Active(0, 1)).To(BeFalse())
		Expect(w.Active(0, 2)).To(BeTrue())
		Expect(w.Bodies()[0].Velocity[1]).To(BeNumerically(">", 0), "c still pulls a")
	})

	It("releases a freeze-mode pair once it separates", func() {
		w := newWorld2D(g, CollisionFreeze,
			dynamo.Body[mgl64.Vec2]{Name: "a", Mass: m1, Radius: 10, Position: mgl64.Vec2{0, 0}},
			dynamo.Body[mgl64.Vec2]{Name: "b", Mass: m1, Radius: 10, Position: mgl64.Vec2{15, 0}},
		)
		stepN(w, 1, dt)
		Expect(w.Active(0, 1)).To(BeFalse())

		w.Bodies()[1].Position = mgl64.Vec2{100, 0}
		stepN(w, 1, dt)
		Expect(w.Active(0, 1)).To(BeTrue())
		Expect(w.Collisions().Frozen(0, 1)).To(BeFalse())
	})

	It("detects coincident point masses when collisions are disabled", func() {
		w := newWorld2D(g, CollisionNone,
			dynamo.Body[mgl64.Vec2]{Name: "a", Mass: 1, Position: mgl64.Vec2{400, 600}},
			dynamo.Body[mgl64.Vec2]{Name: "b", Mass: 1, Position: mgl64.Vec2{400, 600}},
		)

		_, err := w.Advance(0, 0, dt)
		Expect(err).To(MatchError(dynamo.ErrCoincidentBodies))
		for _, b := range w.Bodies() {
			Expect(b.Finite()).To(BeTrue(), "no NaN leaks into the state")
		}
	})

	It("treats coincident bodies as a collision when the policy is active", func() {
		w := newWorld2D(g, CollisionFreeze,
			dynamo.Body[mgl64.Vec2]{Name: "a", Mass: 1, Position: mgl64.Vec2{1, 1}},
			dynamo.Body[mgl64.Vec2]{Name: "b", Mass: 1, Position: mgl64.Vec2{1, 1}},
		)

		events, err := w.Advance(0, 0, dt)
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(1))
	})

	It("restores initial conditions on reset", func() {
		w := newWorld2D(g, CollisionSticky,
			dynamo.Body[mgl64.Vec2]{Name: "a", Mass: m1, Radius: 10, Position: mgl64.Vec2{0, 0}},
			dynamo.Body[mgl64.Vec2]{Name: "b", Mass: m1, Radius: 10, Position: mgl64.Vec2{15, 0}},
		)
		stepN(w, 3, dt)
		w.Reset()

		Expect(w.Collisions().Frozen(0, 1)).To(BeFalse())
		Expect(w.Bodies()[1].Position).To(Equal(mgl64.Vec2{15, 0}))
	})

	It("rejects invalid bodies and constants", func() {
		_, err := NewWorld[mgl64.Vec2](g, nil, nil, CollisionFreeze)
		Expect(err).To(MatchError(dynamo.ErrInvalidBody))

		_, err = NewWorld(g, []dynamo.Body[mgl64.Vec2]{{Name: "a", Mass: 0}}, nil, CollisionFreeze)
		Expect(err).To(MatchError(dynamo.ErrInvalidBody))

		_, err = NewWorld(0, []dynamo.Body[mgl64.Vec2]{{Name: "a", Mass: 1}}, nil, CollisionFreeze)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	It("tracks total energy for a bound orbit", func() {
		w := newWorld2D(1, CollisionNone,
			dynamo.Body[mgl64.Vec2]{Name: "sun", Mass: 1000, Position: mgl64.Vec2{0, 0}},
			dynamo.Body[mgl64.Vec2]{Name: "planet", Mass: 1, Position: mgl64.Vec2{100, 0}, Velocity: mgl64.Vec2{0, math.Sqrt(1000.0 / 100)}},
		)
		e0 := w.Energy()
		Expect(e0).To(BeNumerically("<", 0))

		stepN(w, 1000, 0.01)
		Expect(math.Abs(w.Energy()-e0) / math.Abs(e0)).To(BeNumerically("<", 1e-2))
	})
})

var _ = Describe("ParseCollisionMode", func() {
	It("defaults to freeze", func() {
		m, err := ParseCollisionMode("")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(CollisionFreeze))
	})

	It("rejects unknown modes", func() {
		_, err := ParseCollisionMode("bounce")
		Expect(err).To(MatchError(dynamo.ErrUnknownCollision))
	})

	It("lists every mode", func() {
		Expect(CollisionModes()).To(ConsistOf("none", "freeze", "sticky"))
	})
})
