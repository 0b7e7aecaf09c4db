package eos

import (
	"fmt"

	"github.com/notargets/gofv/types"
)

// StiffenedGas models a liquid phase with a reference pressure PInf and constant Cv
type StiffenedGas struct {
	Gamma float64
	PInf  float64
	Cv    float64
}

func NewStiffenedGas(gamma, pInf, cv float64) (sg *StiffenedGas, err error) {
	if !(gamma > 1) || !(pInf >= 0) || !(cv > 0) {
		err = types.NewConfigurationError("stiffened gas requires gamma > 1, pInf >= 0, Cv > 0, have gamma=%g pInf=%g Cv=%g",
			gamma, pInf, cv)
		return
	}
	sg = &StiffenedGas{Gamma: gamma, PInf: pInf, Cv: cv}
	return
}

func (sg *StiffenedGas) Name() string {
	return fmt.Sprintf("StiffenedGas(gamma=%g, pInf=%g, Cv=%g)", sg.Gamma, sg.PInf, sg.Cv)
}

func (sg *StiffenedGas) Stiffness() (gamma, pInf float64) { return sg.Gamma, sg.PInf }

func (sg *StiffenedGas) Pressure(s State) (p float64, err error) {
	if err = checkDensity("StiffenedGas", s.Density, s.InternalEnergy); err != nil {
		return
	}
	p = stiffPressure(sg.Gamma, sg.PInf, s.Density, s.InternalEnergy)
	return
}

func (sg *StiffenedGas) Temperature(s State) (T float64, err error) {
	var p float64
	if p, err = sg.Pressure(s); err != nil {
		return
	}
	return sg.TemperatureFromDensityPressure(s.Density, p)
}

func (sg *StiffenedGas) SpeedOfSound(s State) (c float64, err error) {
	var p float64
	if p, err = sg.Pressure(s); err != nil {
		return
	}
	return stiffSoundSpeed("StiffenedGas", sg.Gamma, sg.PInf, s.Density, p)
}

func (sg *StiffenedGas) DensityFromTemperaturePressure(T, p float64) (rho float64, err error) {
	if !finite(T, p) || T <= 0 || p+sg.PInf <= 0 {
		err = types.NewInvalidStateError("StiffenedGas: need T > 0 and p > -pInf, have T=%g p=%g", T, p)
		return
	}
	rho = (p + sg.PInf) / ((sg.Gamma - 1) * sg.Cv * T)
	return
}

func (sg *StiffenedGas) InternalEnergyFromDensityPressure(rho, p float64) (e float64, err error) {
	if err = checkDensity("StiffenedGas", rho, p); err != nil {
		return
	}
	e = (p + sg.Gamma*sg.PInf) / ((sg.Gamma - 1) * rho)
	return
}

func (sg *StiffenedGas) TemperatureFromDensityPressure(rho, p float64) (T float64, err error) {
	if err = checkDensity("StiffenedGas", rho, p); err != nil {
		return
	}
	if p+sg.PInf <= 0 {
		err = types.NewInvalidStateError("StiffenedGas: p + pInf must be positive, have p=%g", p)
		return
	}
	T = (p + sg.PInf) / ((sg.Gamma - 1) * rho * sg.Cv)
	return
}
