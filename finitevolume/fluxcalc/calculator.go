// Package fluxcalc computes interface fluxes between two cell states.
package fluxcalc

import (
	"fmt"
	"math"

	"github.com/notargets/gofv/types"
)

// Side is the primitive state on one side of a face
type Side struct {
	Density               float64
	Velocity              [3]float64
	Pressure              float64
	InternalEnergyDensity float64 // rho * e
	SoundSpeed            float64
}

// Region identifies the wave region sampled at the face
type Region uint8

const (
	LeftState Region = iota
	LeftFan
	LeftStar
	RightStar
	RightFan
	RightState
)

func (r Region) String() string {
	switch r {
	case LeftState:
		return "LeftState"
	case LeftFan:
		return "LeftFan"
	case LeftStar:
		return "LeftStar"
	case RightStar:
		return "RightStar"
	case RightFan:
		return "RightFan"
	case RightState:
		return "RightState"
	}
	return fmt.Sprintf("Region(%d)", uint8(r))
}

// Flux is the physical flux along the face normal plus the wave structure that produced it
type Flux struct {
	Mass         float64
	Momentum     [3]float64
	Energy       float64
	StarPressure float64
	StarVelocity float64
	Region       Region
	// Signed leftmost and rightmost signal speeds
	LeftWaveSpeed, RightWaveSpeed float64
	MaxWaveSpeed                  float64
}

// UpwindLeft is true when the sampled state lies left of the contact
func (f Flux) UpwindLeft() bool { return f.Region <= LeftStar }

type Calculator interface {
	Name() string
	ComputeFlux(left, right Side, normal [3]float64) (Flux, error)
}

// TieBreak picks the upwind side when the contact is exactly stationary
type TieBreak uint8

const (
	TieBreakLeft TieBreak = iota
	TieBreakRight
)

func NewTieBreak(label string) (tb TieBreak, err error) {
	switch label {
	case "", "left", "Left":
		tb = TieBreakLeft
	case "right", "Right":
		tb = TieBreakRight
	default:
		err = types.NewConfigurationError("unknown tie break %q, use left or right", label)
	}
	return
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func checkSide(name string, s Side, pInf float64) error {
	for _, v := range []float64{s.Density, s.Pressure, s.InternalEnergyDensity, s.SoundSpeed,
		s.Velocity[0], s.Velocity[1], s.Velocity[2]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return types.NewInvalidStateError("%s state is not finite: %+v", name, s)
		}
	}
	if s.Density <= 0 || s.SoundSpeed <= 0 || s.Pressure+pInf <= 0 {
		return types.NewInvalidStateError("%s state inadmissible: rho=%g c=%g p=%g", name, s.Density, s.SoundSpeed, s.Pressure)
	}
	return nil
}

// Set maps each phase pairing to its calculator
type Set struct {
	calcs [4]Calculator
}

func NewSet(gasGas, gasLiquid, liquidGas, liquidLiquid Calculator) (s *Set, err error) {
	s = &Set{calcs: [4]Calculator{gasGas, gasLiquid, liquidGas, liquidLiquid}}
	for i, c := range s.calcs {
		if c == nil {
			return nil, types.NewConfigurationError("no flux calculator for %s", types.PhasePairing(i))
		}
	}
	return
}

func (s *Set) Select(pp types.PhasePairing) Calculator { return s.calcs[pp] }

func (s *Set) ComputeFlux(leftGas, rightGas bool, left, right Side, normal [3]float64) (Flux, error) {
	return s.calcs[types.NewPhasePairing(leftGas, rightGas)].ComputeFlux(left, right, normal)
}
