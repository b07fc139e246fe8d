package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/sim"
)

// LyapunovExponent estimates the rate at which two nearby runs diverge.
// Both runners must hold the same bodies; b is usually a copy of a with a
// small perturbation. The exponent is the least-squares slope of
// ln(separation) against time over steps steps of size dt. A positive value
// indicates chaos.
func LyapunovExponent(a, b sim.Runner, dt float64, steps int) (float64, error) {
	if steps < 2 {
		return 0, ErrShortSeries
	}
	if len(a.Frame().Bodies) != len(b.Frame().Bodies) {
		return 0, errors.New("analysis: runs have different bodies")
	}

	var sumT, sumL, sumTT, sumTL float64
	n := 0
	for i := 0; i < steps; i++ {
		if _, err := a.Step(dt); err != nil {
			return 0, fmt.Errorf("reference run: %w", err)
		}
		if _, err := b.Step(dt); err != nil {
			return 0, fmt.Errorf("perturbed run: %w", err)
		}

		sep := frameSeparation(a.Frame(), b.Frame())
		if sep <= 0 {
			continue
		}
		t, l := a.Time(), math.Log(sep)
		sumT += t
		sumL += l
		sumTT += t * t
		sumTL += t * l
		n++
	}

	if n < 2 {
		return 0, nil
	}
	fn := float64(n)
	den := fn*sumTT - sumT*sumT
	if den == 0 {
		return 0, nil
	}
	return (fn*sumTL - sumT*sumL) / den, nil
}

// frameSeparation is the Euclidean norm of all position differences.
func frameSeparation(a, b sim.Frame) float64 {
	sum := 0.0
	for i := range a.Bodies {
		dx := a.Bodies[i].X - b.Bodies[i].X
		dy := a.Bodies[i].Y - b.Bodies[i].Y
		dz := a.Bodies[i].Z - b.Bodies[i].Z
		sum += dx*dx + dy*dy + dz*dz
	}
	return math.Sqrt(sum)
}
