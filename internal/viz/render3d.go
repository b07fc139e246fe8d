package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera orbits a target point and projects world positions onto the
// canvas with a perspective transform.
type Camera struct {
	Target     mgl64.Vec3
	Distance   float64
	Yaw, Pitch float64
	FOV        float64
	Near, Far  float64
}

func NewCamera(target mgl64.Vec3, distance float64) *Camera {
	return &Camera{
		Target:   target,
		Distance: distance,
		Yaw:      -math.Pi / 2,
		Pitch:    0.5,
		FOV:      mgl64.DegToRad(45),
		Near:     0.1,
		Far:      math.Max(1000, distance*10),
	}
}

// Eye is the camera position in world space.
func (c *Camera) Eye() mgl64.Vec3 {
	offset := mgl64.Vec3{
		math.Cos(c.Pitch) * math.Cos(c.Yaw),
		math.Sin(c.Pitch),
		math.Cos(c.Pitch) * math.Sin(c.Yaw),
	}
	return c.Target.Add(offset.Mul(c.Distance))
}

func (c *Camera) Orbit(dyaw, dpitch float64) {
	c.Yaw += dyaw
	c.Pitch = mgl64.Clamp(c.Pitch+dpitch, -1.5, 1.5)
}

func (c *Camera) Zoom(factor float64) {
	if factor > 0 {
		c.Distance = math.Max(c.Near*2, c.Distance/factor)
	}
}

// Project returns sub-pixel coordinates, the eye-space depth, and whether
// the point lies in front of the camera.
func (c *Camera) Project(p mgl64.Vec3, pw, ph int) (int, int, float64, bool) {
	view := mgl64.LookAtV(c.Eye(), c.Target, mgl64.Vec3{0, 1, 0})
	eye := view.Mul4x1(p.Vec4(1))
	if -eye.Z() < c.Near {
		return 0, 0, 0, false
	}
	aspect := float64(pw) / float64(ph)
	proj := mgl64.Perspective(c.FOV, aspect, c.Near, c.Far)
	win := mgl64.Project(p, view, proj, 0, 0, pw, ph)
	// window origin is bottom-left
	return int(math.Round(win.X())), int(math.Round(float64(ph) - win.Y())), -eye.Z(), true
}

// ScreenRadius is the projected size in sub-pixels of a sphere of radius r
// at eye depth d.
func (c *Camera) ScreenRadius(r, d float64, ph int) int {
	if d <= 0 {
		return 0
	}
	f := float64(ph) / 2 / math.Tan(c.FOV/2)
	return int(math.Round(r * f / d))
}

type Edge struct {
	Start, End mgl64.Vec3
	Color      string
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0)} }

func (w *Wireframe) AddEdge(s, e mgl64.Vec3, color string) {
	w.Edges = append(w.Edges, Edge{s, e, color})
}

// GroundGrid builds square grid lines on the y=0 plane, extent units from
// centre on each side.
func GroundGrid(center mgl64.Vec3, extent, cell float64, color string) *Wireframe {
	w := NewWireframe()
	if cell <= 0 || extent <= 0 {
		return w
	}
	n := int(extent / cell)
	for i := -n; i <= n; i++ {
		o := float64(i) * cell
		w.AddEdge(mgl64.Vec3{center.X() - extent, 0, center.Z() + o}, mgl64.Vec3{center.X() + extent, 0, center.Z() + o}, color)
		w.AddEdge(mgl64.Vec3{center.X() + o, 0, center.Z() - extent}, mgl64.Vec3{center.X() + o, 0, center.Z() + extent}, color)
	}
	return w
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
	color          string
}

// Render3D draws the wireframe far to near.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	pw, ph := c.PixelSize()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, pw, ph)
		x2, y2, d2, v2 := cam.Project(e.End, pw, ph)
		if v1 && v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Color})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth > proj[j].depth })
	for _, e := range proj {
		if absInt(e.x1-e.x2) > 4*pw || absInt(e.y1-e.y2) > 4*ph {
			continue
		}
		c.SetColor(e.color)
		c.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}
	c.SetColor("")
}
