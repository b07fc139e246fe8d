package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/sim"
)

var axes = []string{"x", "y", "z"}

// Track is one body's path in the screen plane: x-y for 2D runs, x-z for
// 3D runs.
type Track struct {
	Name string
	X, Y []float64
}

// Bodies lists body names in column order.
func Bodies(r *sim.Result) []string {
	var names []string
	seen := make(map[string]bool)
	for _, l := range r.Labels {
		name, _, ok := strings.Cut(l, ".")
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Position returns the position series of a body, one slice per axis.
func Position(r *sim.Result, body string) ([][]float64, error) {
	var out [][]float64
	for _, a := range axes {
		col := r.Column(body + "." + a)
		if col == nil {
			break
		}
		out = append(out, col)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("analysis: no body %q in run", body)
	}
	return out, nil
}

// Separation returns the distance between bodies a and b at every
// recorded time.
func Separation(r *sim.Result, a, b string) ([]float64, error) {
	pa, err := Position(r, a)
	if err != nil {
		return nil, err
	}
	pb, err := Position(r, b)
	if err != nil {
		return nil, err
	}
	if len(pa) != len(pb) {
		return nil, fmt.Errorf("analysis: %s and %s have different dimensions", a, b)
	}

	out := make([]float64, len(r.States))
	for i := range out {
		sum := 0.0
		for k := range pa {
			d := pb[k][i] - pa[k][i]
			sum += d * d
		}
		out[i] = math.Sqrt(sum)
	}
	return out, nil
}

// Speed returns |v| of a body at every recorded time.
func Speed(r *sim.Result, body string) ([]float64, error) {
	var vs [][]float64
	for _, a := range axes {
		col := r.Column(body + ".v" + a)
		if col == nil {
			break
		}
		vs = append(vs, col)
	}
	if len(vs) == 0 {
		return nil, fmt.Errorf("analysis: no body %q in run", body)
	}

	out := make([]float64, len(r.States))
	for i := range out {
		sum := 0.0
		for _, v := range vs {
			sum += v[i] * v[i]
		}
		out[i] = math.Sqrt(sum)
	}
	return out, nil
}

func Trajectories(r *sim.Result) []Track {
	names := Bodies(r)
	tracks := make([]Track, 0, len(names))
	for _, name := range names {
		pos, err := Position(r, name)
		if err != nil || len(pos) < 2 {
			continue
		}
		y := pos[1]
		if len(pos) == 3 {
			y = pos[2]
		}
		tracks = append(tracks, Track{Name: name, X: pos[0], Y: y})
	}
	return tracks
}
