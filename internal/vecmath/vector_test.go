package vecmath

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/gomega"
)

func TestDistanceSymmetric(t *testing.T) {
	g := NewWithT(t)

	a2, b2 := mgl64.Vec2{1000, 100}, mgl64.Vec2{800, 50}
	g.Expect(Distance(a2, b2)).To(Equal(Distance(b2, a2)))
	g.Expect(Distance(a2, b2)).To(BeNumerically("~", math.Sqrt(200*200+50*50), 1e-9))

	a3, b3 := mgl64.Vec3{810, 0, 610}, mgl64.Vec3{800, 0, 600}
	g.Expect(Distance(a3, b3)).To(Equal(Distance(b3, a3)))
	g.Expect(Distance(a3, b3)).To(BeNumerically("~", math.Sqrt(200), 1e-9))
}

func TestDirection(t *testing.T) {
	g := NewWithT(t)

	dir, d, err := Direction(mgl64.Vec2{0, 0}, mgl64.Vec2{3, 4})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d).To(Equal(5.0))
	g.Expect(dir.Len()).To(BeNumerically("~", 1, 1e-12))
	g.Expect(dir[0]).To(BeNumerically("~", 0.6, 1e-12))

	_, _, err = Direction(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3})
	g.Expect(errors.Is(err, ErrZeroLength)).To(BeTrue())
}

func TestComponents(t *testing.T) {
	tests := []struct {
		name string
		got  []float64
		want []float64
	}{
		{"vec2", Components(mgl64.Vec2{1, 2}), []float64{1, 2}},
		{"vec3", Components(mgl64.Vec3{1, 2, 3}), []float64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			NewWithT(t).Expect(tt.got).To(Equal(tt.want))
		})
	}
}

func TestFromComponents(t *testing.T) {
	g := NewWithT(t)

	v, err := FromComponents[mgl64.Vec3]([]float64{1, 2, 3})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(Equal(mgl64.Vec3{1, 2, 3}))

	_, err = FromComponents[mgl64.Vec2]([]float64{1, 2, 3})
	g.Expect(errors.Is(err, ErrDimension)).To(BeTrue())

	g.Expect(Dim[mgl64.Vec2]()).To(Equal(2))
	g.Expect(Dim[mgl64.Vec3]()).To(Equal(3))
}

func TestIsFinite(t *testing.T) {
	g := NewWithT(t)
	g.Expect(IsFinite(mgl64.Vec2{1, 2})).To(BeTrue())
	g.Expect(IsFinite(mgl64.Vec2{math.NaN(), 2})).To(BeFalse())
	g.Expect(IsFinite(mgl64.Vec3{0, math.Inf(1), 0})).To(BeFalse())
}

func TestProject(t *testing.T) {
	g := NewWithT(t)

	x, y, z := Project(mgl64.Vec2{3, 4})
	g.Expect([]float64{x, y, z}).To(Equal([]float64{3, 4, 0}))

	x, y, z = Project(mgl64.Vec3{1, 2, 3})
	g.Expect([]float64{x, y, z}).To(Equal([]float64{1, 3, 2}))
}
