package vecmath

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrZeroLength = errors.New("vecmath: zero-length vector")
	ErrDimension  = errors.New("vecmath: component count does not match vector dimension")
)

// Vector is the set of fixed-size vectors a simulation can run in.
type Vector[V any] interface {
	mgl64.Vec2 | mgl64.Vec3
	Add(V) V
	Sub(V) V
	Mul(float64) V
	Dot(V) float64
	Len() float64
}

// Distance returns the Euclidean distance between a and b.
func Distance[V Vector[V]](a, b V) float64 {
	return b.Sub(a).Len()
}

// Direction returns the unit vector pointing from `from` to `to` together
// with the distance between them.
func Direction[V Vector[V]](from, to V) (V, float64, error) {
	d := to.Sub(from)
	l := d.Len()
	if l == 0 {
		var zero V
		return zero, 0, ErrZeroLength
	}
	return d.Mul(1 / l), l, nil
}

func Dim[V Vector[V]]() int {
	var zero V
	return len(Components(zero))
}

func Components[V Vector[V]](v V) []float64 {
	switch x := any(v).(type) {
	case mgl64.Vec2:
		return []float64{x[0], x[1]}
	case mgl64.Vec3:
		return []float64{x[0], x[1], x[2]}
	}
	return nil
}

func FromComponents[V Vector[V]](c []float64) (V, error) {
	var zero V
	switch any(zero).(type) {
	case mgl64.Vec2:
		if len(c) != 2 {
			return zero, fmt.Errorf("%w: want 2, got %d", ErrDimension, len(c))
		}
		return any(mgl64.Vec2{c[0], c[1]}).(V), nil
	case mgl64.Vec3:
		if len(c) != 3 {
			return zero, fmt.Errorf("%w: want 3, got %d", ErrDimension, len(c))
		}
		return any(mgl64.Vec3{c[0], c[1], c[2]}).(V), nil
	}
	return zero, ErrDimension
}

// IsFinite reports whether no component is NaN or Inf.
func IsFinite[V Vector[V]](v V) bool {
	for _, c := range Components(v) {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Project maps a vector onto screen axes. 2D vectors map directly; 3D
// vectors use the x-z ground plane with y as height.
func Project[V Vector[V]](v V) (x, y, z float64) {
	c := Components(v)
	if len(c) == 2 {
		return c[0], c[1], 0
	}
	return c[0], c[2], c[1]
}
