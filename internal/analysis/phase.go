package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravsim/internal/sim"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D holds two recorded columns plotted against each other.
type PhasePortrait2D struct {
	XLabel, YLabel string
	Points         []Point
}

func PhasePortrait(r *sim.Result, xLabel, yLabel string) (*PhasePortrait2D, error) {
	xs, ys := r.Column(xLabel), r.Column(yLabel)
	if xs == nil {
		return nil, fmt.Errorf("analysis: no column %q", xLabel)
	}
	if ys == nil {
		return nil, fmt.Errorf("analysis: no column %q", yLabel)
	}

	portrait := &PhasePortrait2D{
		XLabel: xLabel,
		YLabel: yLabel,
		Points: make([]Point, len(xs)),
	}
	for i := range xs {
		portrait.Points[i] = Point{X: xs[i], Y: ys[i]}
	}
	return portrait, nil
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Axes, where they cross the visible area.
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PoincareSection records (xLabel, yLabel) every time the cross column
// passes threshold going upwards.
func PoincareSection(r *sim.Result, crossLabel string, threshold float64, xLabel, yLabel string) (*PhasePortrait2D, error) {
	cross := r.Column(crossLabel)
	if cross == nil {
		return nil, fmt.Errorf("analysis: no column %q", crossLabel)
	}
	portrait, err := PhasePortrait(r, xLabel, yLabel)
	if err != nil {
		return nil, err
	}

	section := &PhasePortrait2D{XLabel: xLabel, YLabel: yLabel, Points: make([]Point, 0)}
	for i := 1; i < len(cross); i++ {
		prev, curr := cross[i-1], cross[i]
		if !(prev < threshold && curr >= threshold) {
			continue
		}
		frac := (threshold - prev) / (curr - prev)
		a, b := portrait.Points[i-1], portrait.Points[i]
		section.Points = append(section.Points, Point{
			X: a.X + (b.X-a.X)*frac,
			Y: a.Y + (b.Y-a.Y)*frac,
		})
	}
	return section, nil
}
