package config

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// Bodies converts the scenario bodies to vectors of type V, filling in
// default names and palette colours.
func Bodies[V vecmath.Vector[V]](c *Config) ([]dynamo.Body[V], error) {
	dim := vecmath.Dim[V]()
	palette := Palette(len(c.Bodies))
	out := make([]dynamo.Body[V], len(c.Bodies))
	for i, bc := range c.Bodies {
		b := dynamo.Body[V]{
			Name:   c.BodyName(i),
			Mass:   bc.Mass,
			Radius: bc.Radius,
			Color:  palette[i],
		}
		if bc.Color != "" {
			col, err := ParseColor(bc.Color)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrInvalidBody, b.Name, err)
			}
			b.Color = col.Hex()
		}

		var err error
		if b.Position, err = vector[V](bc.Position, dim); err != nil {
			return nil, fmt.Errorf("%s position: %w", b.Name, err)
		}
		if b.Velocity, err = vector[V](bc.Velocity, dim); err != nil {
			return nil, fmt.Errorf("%s velocity: %w", b.Name, err)
		}
		out[i] = b
	}
	return out, nil
}

// BodyName is the name of body i, defaulting to body1, body2, ...
func (c *Config) BodyName(i int) string {
	if i < len(c.Bodies) && c.Bodies[i].Name != "" {
		return c.Bodies[i].Name
	}
	return fmt.Sprintf("%s%d", defaultBodyNameBase, i+1)
}

func vector[V vecmath.Vector[V]](c []float64, dim int) (V, error) {
	if len(c) == 0 {
		c = make([]float64, dim)
	}
	v, err := vecmath.FromComponents[V](c)
	if err != nil {
		return v, fmt.Errorf("%w: %v", dynamo.ErrDimensionMismatch, err)
	}
	return v, nil
}
