package sim

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// ConsoleReporter prints every body's position and velocity each Every steps
// and every event as it happens.
type ConsoleReporter[V vecmath.Vector[V]] struct {
	W     io.Writer
	Every int
}

func NewConsoleReporter[V vecmath.Vector[V]](w io.Writer, every int) *ConsoleReporter[V] {
	return &ConsoleReporter[V]{W: w, Every: every}
}

func (r *ConsoleReporter[V]) OnStep(step int, t float64, bodies []dynamo.Body[V]) {
	if r.Every <= 0 || step%r.Every != 0 {
		return
	}
	for i := range bodies {
		b := &bodies[i]
		fmt.Fprintf(r.W, "t=%.3f %s position=%s velocity=%s\n",
			t, b.Name, formatVec(b.Position), formatVec(b.Velocity))
	}
}

func (r *ConsoleReporter[V]) OnEvent(e dynamo.Event) {
	fmt.Fprintln(r.W, e.String())
}

func formatVec[V vecmath.Vector[V]](v V) string {
	c := vecmath.Components(v)
	parts := make([]string, len(c))
	for i, x := range c {
		parts[i] = fmt.Sprintf("%.3f", x)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
