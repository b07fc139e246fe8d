// Package flycam is a yaw/pitch free-fly camera for the window renderer.
package flycam

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Movement int

const (
	Forward Movement = iota
	Backward
	Left
	Right
)

const (
	DefaultSpeed       = 2.5
	DefaultSensitivity = 0.1
	maxPitch           = 89.0
)

// Camera angles are in degrees. Yaw -90 looks down -z.
type Camera struct {
	Position mgl64.Vec3
	Front    mgl64.Vec3
	Up       mgl64.Vec3
	Right    mgl64.Vec3
	WorldUp  mgl64.Vec3

	Yaw, Pitch  float64
	Speed       float64
	Sensitivity float64
}

func New(position, worldUp mgl64.Vec3, yaw, pitch float64) *Camera {
	c := &Camera{
		Position:    position,
		WorldUp:     worldUp,
		Yaw:         yaw,
		Pitch:       pitch,
		Speed:       DefaultSpeed,
		Sensitivity: DefaultSensitivity,
	}
	c.update()
	return c
}

// Move translates along the view axes by Speed*dt.
func (c *Camera) Move(m Movement, dt float64) {
	v := c.Speed * dt
	switch m {
	case Forward:
		c.Position = c.Position.Add(c.Front.Mul(v))
	case Backward:
		c.Position = c.Position.Sub(c.Front.Mul(v))
	case Left:
		c.Position = c.Position.Sub(c.Right.Mul(v))
	case Right:
		c.Position = c.Position.Add(c.Right.Mul(v))
	}
}

// Look turns the camera by a mouse offset. Pitch is held within ±89°.
func (c *Camera) Look(dx, dy float64) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch = mgl64.Clamp(c.Pitch+dy*c.Sensitivity, -maxPitch, maxPitch)
	c.update()
}

// Target is the point one unit ahead of the camera.
func (c *Camera) Target() mgl64.Vec3 { return c.Position.Add(c.Front) }

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target(), c.Up)
}

func (c *Camera) update() {
	yaw, pitch := mgl64.DegToRad(c.Yaw), mgl64.DegToRad(c.Pitch)
	c.Front = mgl64.Vec3{
		math.Cos(yaw) * math.Cos(pitch),
		math.Sin(pitch),
		math.Sin(yaw) * math.Cos(pitch),
	}.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}
