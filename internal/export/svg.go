package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/viz"
)

const (
	background  = "#0a0a0a"
	defaultDot  = "#00ff00"
	boundsPad   = 0.1
	strokeWidth = 1.5
)

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot in
// the colour of its cell.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.PixelSize()
	width, height := float64(pw)*scale, float64(ph)*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fill := canvas.Colors[y/4][x/2]
			if fill == "" {
				fill = defaultDot
			}
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius, fill)
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectorySVG draws every track as a polyline on shared axes, with a dot
// at each body's final position. colors maps body names to stroke colours;
// unnamed bodies take palette colours.
func TrajectorySVG(tracks []analysis.Track, colors map[string]string, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, t := range tracks {
		for i := range t.X {
			minX, maxX = math.Min(minX, t.X[i]), math.Max(maxX, t.X[i])
			minY, maxY = math.Min(minY, t.Y[i]), math.Max(maxY, t.Y[i])
		}
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * boundsPad
	minY -= rangeY * boundsPad
	rangeX *= 1 + 2*boundsPad
	rangeY *= 1 + 2*boundsPad

	project := func(x, y float64) (float64, float64) {
		return (x - minX) / rangeX * float64(width), float64(height) - (y-minY)/rangeY*float64(height)
	}

	palette := config.Palette(len(tracks))
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	for i, t := range tracks {
		if len(t.X) == 0 {
			continue
		}
		stroke := colors[t.Name]
		if stroke == "" {
			stroke = palette[i]
		}

		fmt.Fprintf(&sb, `<g id="%s" stroke="%s" fill="%s">
<path fill="none" stroke-width="%.1f" d="`, t.Name, stroke, stroke, strokeWidth)
		for j := range t.X {
			x, y := project(t.X[j], t.Y[j])
			if j == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		x, y := project(t.X[len(t.X)-1], t.Y[len(t.Y)-1])
		fmt.Fprintf(&sb, `"/>
<circle cx="%.1f" cy="%.1f" r="4"/>
</g>
`, x, y)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteSVG writes svg to w, or to path when w is nil.
func WriteSVG(w io.Writer, path, svg string) error {
	if w != nil {
		_, err := io.WriteString(w, svg)
		return err
	}
	return os.WriteFile(path, []byte(svg), 0o644)
}
