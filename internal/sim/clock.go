package sim

import (
	"math"
	"time"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Clock reports elapsed seconds from an arbitrary origin.
type Clock interface {
	Now() float64
}

type ClockFunc func() float64

func (f ClockFunc) Now() float64 { return f() }

// WallClock is a monotonic clock starting at its creation.
type WallClock struct {
	start time.Time
}

func NewWallClock() *WallClock { return &WallClock{start: time.Now()} }

func (c *WallClock) Now() float64 { return time.Since(c.start).Seconds() }

// FrameTimer turns successive clock readings into simulation steps.
type FrameTimer struct {
	Clock   Clock
	SpeedUp float64
	MaxDt   float64

	prev    float64
	started bool
}

func NewFrameTimer(clock Clock, cfg dynamo.Config) *FrameTimer {
	return &FrameTimer{Clock: clock, SpeedUp: cfg.SpeedUp, MaxDt: cfg.MaxFrameDt}
}

func (ft *FrameTimer) Start() {
	ft.prev = ft.Clock.Now()
	ft.started = true
}

// Tick returns (now - prev)·SpeedUp. The raw delta is clamped to MaxDt so a
// stalled frame does not produce one huge step.
func (ft *FrameTimer) Tick() float64 {
	now := ft.Clock.Now()
	if !ft.started {
		ft.prev = now
		ft.started = true
		return 0
	}
	raw := now - ft.prev
	ft.prev = now
	if raw < 0 || math.IsNaN(raw) {
		return 0
	}
	if ft.MaxDt > 0 && raw > ft.MaxDt {
		raw = ft.MaxDt
	}
	return raw * ft.SpeedUp
}
