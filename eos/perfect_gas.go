package eos

import (
	"fmt"

	"github.com/notargets/gofv/types"
)

type PerfectGas struct {
	Gamma float64
	Rgas  float64
}

func NewPerfectGas(gamma, rgas float64) (pg *PerfectGas, err error) {
	if !(gamma > 1) || !(rgas > 0) {
		err = types.NewConfigurationError("perfect gas requires gamma > 1 and Rgas > 0, have gamma=%g Rgas=%g", gamma, rgas)
		return
	}
	pg = &PerfectGas{Gamma: gamma, Rgas: rgas}
	return
}

func (pg *PerfectGas) Name() string {
	return fmt.Sprintf("PerfectGas(gamma=%g, Rgas=%g)", pg.Gamma, pg.Rgas)
}

func (pg *PerfectGas) Stiffness() (gamma, pInf float64) { return pg.Gamma, 0 }

func (pg *PerfectGas) Pressure(s State) (p float64, err error) {
	if err = checkDensity("PerfectGas", s.Density, s.InternalEnergy); err != nil {
		return
	}
	p = stiffPressure(pg.Gamma, 0, s.Density, s.InternalEnergy)
	return
}

func (pg *PerfectGas) Temperature(s State) (T float64, err error) {
	var p float64
	if p, err = pg.Pressure(s); err != nil {
		return
	}
	return pg.TemperatureFromDensityPressure(s.Density, p)
}

func (pg *PerfectGas) SpeedOfSound(s State) (c float64, err error) {
	var p float64
	if p, err = pg.Pressure(s); err != nil {
		return
	}
	return stiffSoundSpeed("PerfectGas", pg.Gamma, 0, s.Density, p)
}

func (pg *PerfectGas) DensityFromTemperaturePressure(T, p float64) (rho float64, err error) {
	if !finite(T, p) || T <= 0 || p <= 0 {
		err = types.NewInvalidStateError("PerfectGas: need positive T and p, have T=%g p=%g", T, p)
		return
	}
	rho = p / (pg.Rgas * T)
	return
}

func (pg *PerfectGas) InternalEnergyFromDensityPressure(rho, p float64) (e float64, err error) {
	if err = checkDensity("PerfectGas", rho, p); err != nil {
		return
	}
	e = p / ((pg.Gamma - 1) * rho)
	return
}

func (pg *PerfectGas) TemperatureFromDensityPressure(rho, p float64) (T float64, err error) {
	if err = checkDensity("PerfectGas", rho, p); err != nil {
		return
	}
	if p <= 0 {
		err = types.NewInvalidStateError("PerfectGas: non positive pressure %g", p)
		return
	}
	T = p / (rho * pg.Rgas)
	return
}
