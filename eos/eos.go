// Package eos holds the thermodynamic closures used by the flow solver.
package eos

import (
	"math"

	"github.com/notargets/gofv/types"
)

// State is the conserved thermodynamic state of a cell.
// DensityVolumeFraction and VolumeFraction are only read by mixture closures.
type State struct {
	Density               float64
	InternalEnergy        float64 // specific internal energy
	DensityVolumeFraction float64 // alpha * rho_1
	VolumeFraction        float64 // alpha of phase 1
}

type EOS interface {
	Name() string
	Pressure(s State) (p float64, err error)
	Temperature(s State) (T float64, err error)
	SpeedOfSound(s State) (c float64, err error)
}

// Phase is a single phase closure of stiffened gas form, p = (gamma-1) rho e - gamma pInf
type Phase interface {
	EOS
	Stiffness() (gamma, pInf float64)
	DensityFromTemperaturePressure(T, p float64) (rho float64, err error)
	InternalEnergyFromDensityPressure(rho, p float64) (e float64, err error)
	TemperatureFromDensityPressure(rho, p float64) (T float64, err error)
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func checkDensity(name string, rho, e float64) error {
	if !finite(rho, e) {
		return types.NewInvalidStateError("%s: non finite state rho=%g e=%g", name, rho, e)
	}
	if rho <= 0 {
		return types.NewInvalidStateError("%s: non positive density %g", name, rho)
	}
	return nil
}

// stiffPressure evaluates the stiffened gas pressure relation
func stiffPressure(gamma, pInf, rho, e float64) float64 {
	return (gamma-1)*rho*e - gamma*pInf
}

func stiffSoundSpeed(name string, gamma, pInf, rho, p float64) (c float64, err error) {
	var (
		c2 = gamma * (p + pInf) / rho
	)
	if !(c2 > 0) || !finite(c2) {
		err = types.NewInvalidStateError("%s: imaginary sound speed, rho=%g p=%g", name, rho, p)
		return
	}
	c = math.Sqrt(c2)
	return
}
