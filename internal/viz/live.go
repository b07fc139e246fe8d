package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	historyCapacity = 600
	trailLength     = 120
	maxEvents       = 4
	frameInterval   = time.Second / 60

	panStep   = 0.1
	zoomStep  = 1.25
	speedStep = 2.0
	orbitStep = 0.1
	gridCells = 10

	panelWidth = 44
	minWidth   = 20
	minHeight  = 8
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type trailPoint struct{ x, y, z float64 }

// Model is the bubbletea live view of a running simulation.
type Model struct {
	runner sim.Runner
	timer  *sim.FrameTimer
	title  string

	width, height int
	canvas        *Canvas
	view          Viewport
	camera        *Camera
	perspective   bool

	trails  map[string][]trailPoint
	history []float64
	energy  []float64
	events  []dynamo.Event

	running   bool
	err       error
	theme     Theme
	styles    Styles
	recorder  *Recorder
	recording bool
	gifPath   string
	notice    string
}

type Option func(*Model)

// WithClock replaces the wall clock driving the frame timer.
func WithClock(c sim.Clock) Option {
	return func(m *Model) { m.timer.Clock = c }
}

func WithTheme(name string) Option {
	return func(m *Model) {
		m.theme = GetTheme(name)
		m.styles = NewStyles(m.theme)
	}
}

// WithSize sets the canvas size in terminal cells.
func WithSize(w, h int) Option {
	return func(m *Model) { m.width, m.height = w, h }
}

func WithGIFPath(path string) Option {
	return func(m *Model) { m.gifPath = path }
}

// NewModel builds a live view over r. 3D systems start in perspective.
func NewModel(r sim.Runner, title string, opts ...Option) Model {
	m := Model{
		runner:  r,
		timer:   sim.NewFrameTimer(sim.NewWallClock(), r.Config()),
		title:   title,
		width:   defaultWidth,
		height:  defaultHeight,
		trails:  make(map[string][]trailPoint),
		history: make([]float64, 0, historyCapacity),
		energy:  make([]float64, 0, historyCapacity),
		running: true,
		theme:   Themes[0],
		gifPath: "gravsim.gif",
	}
	m.styles = NewStyles(m.theme)
	for _, opt := range opts {
		opt(&m)
	}
	m.canvas = NewCanvas(m.width, m.height)
	m.recorder = NewRecorder(m.theme)
	m.perspective = r.Dim() == 3
	m.fit()
	m.sample(r.Frame())
	return m
}

func (m *Model) fit() {
	pw, ph := m.canvas.PixelSize()
	f := m.runner.Frame()
	m.view = FitViewport(f, pw, ph)
	target := mgl64.Vec3{m.view.CenterX, 0, m.view.CenterY}
	m.camera = NewCamera(target, m.view.Scale*float64(pw))
}

// resize rebuilds the canvas at w by h cells and refits the view.
func (m *Model) resize(w, h int) {
	m.width, m.height = max(w, minWidth), max(h, minHeight)
	m.canvas = NewCanvas(m.width, m.height)
	m.fit()
}

func (m Model) Init() tea.Cmd {
	m.timer.Start()
	return tick()
}

// Running reports whether the view is advancing the simulation.
func (m Model) Running() bool { return m.running }

// Err is the error that stopped the simulation, if any.
func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width-panelWidth, msg.Height-2)
		return m, nil
	case TickMsg:
		m.timer.SpeedUp = m.runner.Config().SpeedUp
		dt := m.timer.Tick()
		if m.running && dt > 0 {
			m.advance(dt)
		}
		if m.recording {
			m.draw()
			m.recorder.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pw, ph := m.canvas.PixelSize()
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case " ":
		if m.err == nil {
			m.running = !m.running
		}
	case "r":
		m.reset()
	case "+", "=":
		m.runner.SetSpeedUp(m.runner.Config().SpeedUp * speedStep)
	case "-", "_":
		m.runner.SetSpeedUp(m.runner.Config().SpeedUp / speedStep)
	case "left":
		m.move(-panStep, 0, pw, ph)
	case "right":
		m.move(panStep, 0, pw, ph)
	case "up":
		m.move(0, panStep, pw, ph)
	case "down":
		m.move(0, -panStep, pw, ph)
	case "z":
		m.zoom(zoomStep)
	case "x":
		m.zoom(1 / zoomStep)
	case "v":
		if m.runner.Dim() == 3 {
			m.perspective = !m.perspective
		}
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.styles = NewStyles(m.theme)
	case "g":
		m.toggleRecording()
	}
	return m, nil
}

// move pans the flat view, or orbits the camera in perspective.
func (m *Model) move(fx, fy float64, pw, ph int) {
	if m.perspective {
		m.camera.Orbit(fx/panStep*orbitStep, fy/panStep*orbitStep)
		return
	}
	m.view.Pan(fx, fy, pw, ph)
}

func (m *Model) zoom(factor float64) {
	if m.perspective {
		m.camera.Zoom(factor)
		return
	}
	m.view.Zoom(factor)
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.notice = "recording"
		return
	}
	m.recording = false
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.notice = "gif: " + err.Error()
		return
	}
	m.notice = "saved " + m.gifPath
}

func (m *Model) advance(dt float64) {
	events, err := m.runner.Step(dt)
	m.events = append(m.events, events...)
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.sample(m.runner.Frame())
}

// sample appends the frame to the trails and the plotted series.
func (m *Model) sample(f sim.Frame) {
	for _, b := range f.Bodies {
		tr := append(m.trails[b.Name], trailPoint{b.X, b.Y, b.Z})
		if len(tr) > trailLength {
			tr = tr[len(tr)-trailLength:]
		}
		m.trails[b.Name] = tr
	}
	m.history = pushBounded(m.history, tracked(f))
	m.energy = pushBounded(m.energy, f.Energy)
}

// tracked is the separation of the first two bodies, or the height of a
// lone body.
func tracked(f sim.Frame) float64 {
	switch {
	case len(f.Bodies) >= 2:
		a, b := f.Bodies[0], f.Bodies[1]
		return math.Sqrt((a.X-b.X)*(a.X-b.X) + (a.Y-b.Y)*(a.Y-b.Y) + (a.Z-b.Z)*(a.Z-b.Z))
	case len(f.Bodies) == 1:
		return f.Bodies[0].Y
	}
	return 0
}

func pushBounded(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[len(s)-historyCapacity:]
	}
	return s
}

func (m *Model) reset() {
	m.runner.Reset()
	m.err = nil
	m.running = true
	m.events = m.events[:0]
	m.history = m.history[:0]
	m.energy = m.energy[:0]
	for k := range m.trails {
		delete(m.trails, k)
	}
	m.fit()
	m.timer.Start()
	m.sample(m.runner.Frame())
}

// draw renders the current frame onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	f := m.runner.Frame()
	if m.perspective {
		m.drawPerspective(f)
		return
	}
	m.drawFlat(f)
}

func (m *Model) drawFlat(f sim.Frame) {
	pw, ph := m.canvas.PixelSize()
	if f.Dim == 3 {
		m.drawFlatGrid(pw, ph)
	}
	for _, b := range f.Bodies {
		m.canvas.SetColor(b.Color)
		for _, p := range m.trails[b.Name] {
			x, y := m.view.ToPixel(p.x, p.y, pw, ph)
			m.canvas.Set(x, y)
		}
		x, y := m.view.ToPixel(b.X, b.Y, pw, ph)
		m.canvas.FillCircle(x, y, m.pixelRadius(b.Radius/m.view.Scale, ph))
	}
	m.canvas.SetColor("")
}

func (m *Model) drawFlatGrid(pw, ph int) {
	m.canvas.SetColor(string(m.theme.Muted))
	for i := 1; i < gridCells; i++ {
		x := pw * i / gridCells
		y := ph * i / gridCells
		for j := 0; j < ph; j += 4 {
			m.canvas.Set(x, j)
		}
		for j := 0; j < pw; j += 4 {
			m.canvas.Set(j, y)
		}
	}
}

func (m *Model) drawPerspective(f sim.Frame) {
	pw, ph := m.canvas.PixelSize()
	extent := m.view.Scale * float64(pw) / 2
	grid := GroundGrid(m.camera.Target, extent, extent/float64(gridCells/2), string(m.theme.Muted))
	Render3D(m.canvas, grid, m.camera)

	for _, b := range f.Bodies {
		m.canvas.SetColor(b.Color)
		for _, p := range m.trails[b.Name] {
			if x, y, _, ok := m.camera.Project(mgl64.Vec3{p.x, p.z, p.y}, pw, ph); ok {
				m.canvas.Set(x, y)
			}
		}
		x, y, d, ok := m.camera.Project(mgl64.Vec3{b.X, b.Z, b.Y}, pw, ph)
		if !ok {
			continue
		}
		m.canvas.FillCircle(x, y, m.pixelRadius(float64(m.camera.ScreenRadius(b.Radius, d, ph)), ph))
	}
	m.canvas.SetColor("")
}

func (m *Model) pixelRadius(r float64, ph int) int {
	return int(math.Min(math.Round(r), float64(ph/4)))
}

func (m Model) View() string {
	m.draw()
	canvasView := m.styles.Canvas.Render(m.canvas.Render())

	f := m.runner.Frame()
	cfg := m.runner.Config()
	st := m.styles
	var s strings.Builder

	s.WriteString(st.Header.Render(GradientText(strings.ToUpper(m.title), m.theme.Primary, m.theme.Secondary)) + "\n\n")
	switch {
	case m.err != nil:
		s.WriteString(st.Error.Render("STOPPED") + "\n")
	case m.running:
		s.WriteString(st.Running.Render("RUNNING") + "\n")
	default:
		s.WriteString(st.Paused.Render("PAUSED") + "\n")
	}
	if m.recording {
		s.WriteString(st.Recording.Render(fmt.Sprintf("REC %d", m.recorder.Len())) + "\n")
	}
	s.WriteString("\n")

	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", f.Time))
	row("Step", fmt.Sprintf("%d", f.Step))
	row("Speed-up", fmt.Sprintf("%gx", cfg.SpeedUp))
	row("Bodies", fmt.Sprintf("%d", len(f.Bodies)))
	if f.Dim == 3 && m.perspective {
		row("View", "perspective")
	}
	if len(m.energy) > 1 && f.Energy != 0 {
		row("Energy", fmt.Sprintf("%.4g", f.Energy))
		s.WriteString(st.Graph.Render(Sparkline(m.energy, 30)) + "\n")
	}
	s.WriteString(ProgressBar(f.Time/cfg.Duration, 30, m.theme) + "\n")

	if len(m.history) > 1 {
		caption := "Separation"
		if len(f.Bodies) == 1 {
			caption = "Height"
		}
		chart := asciigraph.Plot(m.history, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption(caption))
		s.WriteString("\n" + st.Graph.Render(chart) + "\n")
	}

	if len(m.events) > 0 {
		s.WriteString("\n")
		for _, e := range m.events {
			s.WriteString(st.Event.Render(e.String()) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + st.Error.Render(m.err.Error()) + "\n")
	}
	if m.notice != "" {
		s.WriteString("\n" + st.Label.Render(m.notice) + "\n")
	}

	s.WriteString(st.Help.Render("\nSP:Pause R:Reset Q:Quit\n+/-:Speed ←↑↓→:Pan Z/X:Zoom\nT:Theme G:Record V:View"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.Panel.Render(s.String()))
}

// Run starts the live view and blocks until the user quits.
func Run(r sim.Runner, title string, opts ...Option) error {
	p := tea.NewProgram(NewModel(r, title, opts...), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}
