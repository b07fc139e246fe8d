// Package gui renders a simulation in a raylib window: 2D systems as discs
// on a y-up plane, 3D systems as spheres over a ground grid seen through a
// free-fly camera.
package gui

import (
	"context"
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gravsim/internal/gui/flycam"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	Width  = 1600
	Height = 900
	Title  = "Gravity Sim"

	targetFPS   = 60
	gridCell    = 10
	sphereRings = 50
	sprintScale = 5
	fovy        = 45
)

var ErrNoWindow = errors.New("gui: failed to create window")

var (
	ColBg   = rl.NewColor(10, 10, 10, 255)
	ColText = rl.NewColor(140, 140, 140, 255)
	ColGrid = rl.NewColor(77, 77, 77, 255)
)

type App struct {
	Runner sim.Runner
	Name   string
	Camera *flycam.Camera
}

func NewApp(r sim.Runner, name string) *App {
	return &App{
		Runner: r,
		Name:   name,
		Camera: flycam.New(mgl64.Vec3{800, 20, 600}, mgl64.Vec3{0, 1, 0}, -90, 0),
	}
}

// Run opens the window and drives r until the window is closed or Escape
// is pressed.
func Run(ctx context.Context, r sim.Runner, name string) error {
	rl.InitWindow(Width, Height, Title)
	if !rl.IsWindowReady() {
		return ErrNoWindow
	}
	defer rl.CloseWindow()
	rl.SetTargetFPS(targetFPS)

	app := NewApp(r, name)
	if r.Dim() == 3 {
		rl.DisableCursor()
	}
	timer := sim.NewFrameTimer(sim.ClockFunc(rl.GetTime), r.Config())
	return r.RunFrames(ctx, timer, 0, func(f sim.Frame) bool {
		if rl.WindowShouldClose() {
			return false
		}
		app.Update()
		app.Draw(f)
		return true
	})
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyR) {
		a.Runner.Reset()
	}
	if a.Runner.Dim() != 3 {
		return
	}

	dt := float64(rl.GetFrameTime())
	if rl.IsKeyDown(rl.KeyLeftShift) {
		dt *= sprintScale
	}
	for key, m := range map[int32]flycam.Movement{
		rl.KeyW: flycam.Forward,
		rl.KeyS: flycam.Backward,
		rl.KeyA: flycam.Left,
		rl.KeyD: flycam.Right,
	} {
		if rl.IsKeyDown(key) {
			a.Camera.Move(m, dt)
		}
	}
	delta := rl.GetMouseDelta()
	// screen y grows downward
	a.Camera.Look(float64(delta.X), -float64(delta.Y))
}

func (a *App) Draw(f sim.Frame) {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if f.Dim == 3 {
		a.draw3D(f)
	} else {
		a.draw2D(f)
	}
	a.drawHUD(f)

	rl.EndDrawing()
}

func (a *App) draw2D(f sim.Frame) {
	for _, b := range f.Bodies {
		rl.DrawCircleV(rl.NewVector2(float32(b.X), float32(Height-b.Y)), float32(b.Radius), bodyColor(b.Color))
	}
}

func (a *App) draw3D(f sim.Frame) {
	rl.BeginMode3D(a.camera3D())
	drawGrid()
	for _, b := range f.Bodies {
		rl.DrawSphereEx(rl.NewVector3(float32(b.X), float32(b.Z), float32(b.Y)), float32(b.Radius), sphereRings, sphereRings, bodyColor(b.Color))
	}
	rl.EndMode3D()
}

func (a *App) camera3D() rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(a.Camera.Position),
		Target:     vec3(a.Camera.Target()),
		Up:         vec3(a.Camera.Up),
		Fovy:       fovy,
		Projection: rl.CameraPerspective,
	}
}

// drawGrid covers the window-sized area of the y=0 plane.
func drawGrid() {
	for x := 0; x <= Width; x += gridCell {
		rl.DrawLine3D(rl.NewVector3(float32(x), 0, 0), rl.NewVector3(float32(x), 0, Height), ColGrid)
	}
	for z := 0; z < Height; z += gridCell {
		rl.DrawLine3D(rl.NewVector3(0, 0, float32(z)), rl.NewVector3(Width, 0, float32(z)), ColGrid)
	}
}

func (a *App) drawHUD(f sim.Frame) {
	rl.DrawText(fmt.Sprintf("%s  t=%.2fs  x%g", a.Name, f.Time, a.Runner.Config().SpeedUp), 20, 20, 20, ColText)
	rl.DrawText("[R] RESET  [ESC] QUIT", 20, Height-30, 16, ColText)
	rl.DrawFPS(Width-100, 20)
}

func vec3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

func bodyColor(hex string) rl.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return rl.White
	}
	r, g, b := c.RGB255()
	return rl.NewColor(r, g, b, 255)
}
