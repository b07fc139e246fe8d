package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// Energy is the mean total energy over all observed states.
type Energy[V vecmath.Vector[V]] struct {
	name        string
	g           float64
	samples     int
	totalEnergy float64
}

func NewEnergy[V vecmath.Vector[V]](g float64) *Energy[V] {
	return &Energy[V]{name: "energy", g: g}
}

func (e *Energy[V]) Name() string { return e.name }

func (e *Energy[V]) Observe(bodies []dynamo.Body[V], t float64) {
	e.totalEnergy += physics.TotalEnergy(e.g, bodies)
	e.samples++
}

func (e *Energy[V]) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy[V]) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation of total energy from its
// first observed value.
type EnergyDrift[V vecmath.Vector[V]] struct {
	name          string
	g             float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift[V vecmath.Vector[V]](g float64) *EnergyDrift[V] {
	return &EnergyDrift[V]{name: "energy_drift", g: g}
}

func (e *EnergyDrift[V]) Name() string { return e.name }

func (e *EnergyDrift[V]) Observe(bodies []dynamo.Body[V], t float64) {
	energy := physics.TotalEnergy(e.g, bodies)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift[V]) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift[V]) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
