package viz

import (
	"math"

	"github.com/san-kum/gravsim/internal/sim"
)

const (
	minScale = 1e-6
	fitPad   = 1.5
)

// Viewport maps world coordinates onto canvas sub-pixels. Scale is world
// units per sub-pixel and world y points up.
type Viewport struct {
	CenterX, CenterY float64
	Scale            float64
}

// FitViewport centres the bodies of f and scales so their extent,
// radii included, fits a pw x ph sub-pixel area with some margin.
func FitViewport(f sim.Frame, pw, ph int) Viewport {
	if len(f.Bodies) == 0 || pw <= 0 || ph <= 0 {
		return Viewport{Scale: 1}
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, b := range f.Bodies {
		minX = math.Min(minX, b.X-b.Radius)
		maxX = math.Max(maxX, b.X+b.Radius)
		minY = math.Min(minY, b.Y-b.Radius)
		maxY = math.Max(maxY, b.Y+b.Radius)
	}
	span := math.Max((maxX-minX)/float64(pw), (maxY-minY)/float64(ph)) * fitPad
	if !(span > minScale) {
		span = 1
	}
	return Viewport{CenterX: (minX + maxX) / 2, CenterY: (minY + maxY) / 2, Scale: span}
}

// ToPixel converts a world position into sub-pixel coordinates on a
// pw x ph canvas.
func (v Viewport) ToPixel(x, y float64, pw, ph int) (int, int) {
	px := (x-v.CenterX)/v.Scale + float64(pw)/2
	py := float64(ph)/2 - (y-v.CenterY)/v.Scale
	return int(math.Round(px)), int(math.Round(py))
}

// Pan shifts the centre by a fraction of the visible width and height.
func (v *Viewport) Pan(fx, fy float64, pw, ph int) {
	v.CenterX += fx * float64(pw) * v.Scale
	v.CenterY += fy * float64(ph) * v.Scale
}

// Zoom scales the view; factors above one zoom in.
func (v *Viewport) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	v.Scale = math.Max(minScale, v.Scale/factor)
}
