package eos

import (
	"fmt"
	"math"

	"github.com/notargets/gofv/types"
)

const (
	// PhaseThreshold is the volume fraction below which a phase is treated as absent
	PhaseThreshold = 1.0e-10
	// fractionSlack absorbs round off in advected fractions before a state is rejected
	fractionSlack = 1.0e-8
)

// TwoPhase is a pressure equilibrium mixture of a gas (phase 1) and a liquid (phase 2).
// The volume fraction and partial density carried in State belong to the gas.
type TwoPhase struct {
	gas, liquid Phase
}

// Decoded is a fully resolved mixture state
type Decoded struct {
	Pressure       float64
	SoundSpeed     float64
	Temperature    float64
	MassFraction   float64 // Y1, gas mass fraction
	VolumeFraction float64
	GasDensity     float64
	LiquidDensity  float64
	GasPresent     bool
	LiquidPresent  bool
}

func NewTwoPhase(gas, liquid Phase) (tp *TwoPhase, err error) {
	if gas == nil || liquid == nil {
		err = types.NewConfigurationError("two phase EOS requires both phases")
		return
	}
	tp = &TwoPhase{gas: gas, liquid: liquid}
	return
}

func (tp *TwoPhase) Name() string {
	return fmt.Sprintf("TwoPhase(%s, %s)", tp.gas.Name(), tp.liquid.Name())
}

func (tp *TwoPhase) Gas() Phase    { return tp.gas }
func (tp *TwoPhase) Liquid() Phase { return tp.liquid }

// Decode resolves pressure, temperature and sound speed of a mixture state.
// With one phase absent the result is that of the remaining phase alone.
func (tp *TwoPhase) Decode(s State) (d Decoded, err error) {
	var (
		rho   = s.Density
		alpha = s.VolumeFraction
		dvf   = s.DensityVolumeFraction
		rhoE  float64
	)
	if !finite(rho, s.InternalEnergy, alpha, dvf) {
		err = types.NewInvalidStateError("TwoPhase: non finite state %+v", s)
		return
	}
	if rho <= 0 {
		err = types.NewInvalidStateError("TwoPhase: non positive density %g", rho)
		return
	}
	if alpha < -fractionSlack || alpha > 1+fractionSlack {
		err = types.NewInvalidStateError("TwoPhase: volume fraction %g outside [0,1]", alpha)
		return
	}
	if dvf < -fractionSlack*rho || dvf > rho*(1+fractionSlack) {
		err = types.NewInvalidStateError("TwoPhase: partial density %g outside [0,%g]", dvf, rho)
		return
	}
	alpha = math.Min(math.Max(alpha, 0), 1)
	dvf = math.Min(math.Max(dvf, 0), rho)
	rhoE = rho * s.InternalEnergy

	d.VolumeFraction = alpha
	d.GasPresent = alpha > PhaseThreshold && dvf > 0
	d.LiquidPresent = 1-alpha > PhaseThreshold && rho-dvf > 0

	var (
		g1, pInf1 = tp.gas.Stiffness()
		g2, pInf2 = tp.liquid.Stiffness()
	)
	switch {
	case d.GasPresent && d.LiquidPresent:
		d.GasDensity = dvf / alpha
		d.LiquidDensity = (rho - dvf) / (1 - alpha)
		d.MassFraction = dvf / rho
		num := rhoE - alpha*g1*pInf1/(g1-1) - (1-alpha)*g2*pInf2/(g2-1)
		den := alpha/(g1-1) + (1-alpha)/(g2-1)
		d.Pressure = num / den
		var (
			c1, c2, T1, T2 float64
			Y1             = d.MassFraction
		)
		if c1, err = stiffSoundSpeed("TwoPhase gas", g1, pInf1, d.GasDensity, d.Pressure); err != nil {
			return
		}
		if c2, err = stiffSoundSpeed("TwoPhase liquid", g2, pInf2, d.LiquidDensity, d.Pressure); err != nil {
			return
		}
		d.SoundSpeed = math.Sqrt(Y1*c1*c1 + (1-Y1)*c2*c2)
		if T1, err = tp.gas.TemperatureFromDensityPressure(d.GasDensity, d.Pressure); err != nil {
			return
		}
		if T2, err = tp.liquid.TemperatureFromDensityPressure(d.LiquidDensity, d.Pressure); err != nil {
			return
		}
		d.Temperature = Y1*T1 + (1-Y1)*T2
	case d.GasPresent:
		d.GasDensity = rho
		d.MassFraction = 1
		d.Pressure = stiffPressure(g1, pInf1, rho, s.InternalEnergy)
		if d.SoundSpeed, err = stiffSoundSpeed("TwoPhase gas", g1, pInf1, rho, d.Pressure); err != nil {
			return
		}
		if d.Temperature, err = tp.gas.TemperatureFromDensityPressure(rho, d.Pressure); err != nil {
			return
		}
	case d.LiquidPresent:
		d.LiquidDensity = rho
		d.MassFraction = 0
		d.Pressure = stiffPressure(g2, pInf2, rho, s.InternalEnergy)
		if d.SoundSpeed, err = stiffSoundSpeed("TwoPhase liquid", g2, pInf2, rho, d.Pressure); err != nil {
			return
		}
		if d.Temperature, err = tp.liquid.TemperatureFromDensityPressure(rho, d.Pressure); err != nil {
			return
		}
	default:
		err = types.NewInvalidStateError("TwoPhase: no phase present, alpha=%g partial density=%g", alpha, dvf)
	}
	return
}

func (tp *TwoPhase) Pressure(s State) (p float64, err error) {
	var d Decoded
	if d, err = tp.Decode(s); err != nil {
		return
	}
	p = d.Pressure
	return
}

func (tp *TwoPhase) Temperature(s State) (T float64, err error) {
	var d Decoded
	if d, err = tp.Decode(s); err != nil {
		return
	}
	T = d.Temperature
	return
}

func (tp *TwoPhase) SpeedOfSound(s State) (c float64, err error) {
	var d Decoded
	if d, err = tp.Decode(s); err != nil {
		return
	}
	c = d.SoundSpeed
	return
}

// StateFromTemperaturePressure builds the mixture density, internal energy per unit volume and
// gas partial density of a mixture in thermal and mechanical equilibrium.
func (tp *TwoPhase) StateFromTemperaturePressure(T, p, alpha float64) (rho, rhoe, dvf float64, err error) {
	var (
		rho1, rho2, e1, e2 float64
	)
	if !finite(alpha) || alpha < 0 || alpha > 1 {
		err = types.NewInvalidStateError("TwoPhase: volume fraction %g outside [0,1]", alpha)
		return
	}
	if alpha > PhaseThreshold {
		if rho1, err = tp.gas.DensityFromTemperaturePressure(T, p); err != nil {
			return
		}
		if e1, err = tp.gas.InternalEnergyFromDensityPressure(rho1, p); err != nil {
			return
		}
	}
	if 1-alpha > PhaseThreshold {
		if rho2, err = tp.liquid.DensityFromTemperaturePressure(T, p); err != nil {
			return
		}
		if e2, err = tp.liquid.InternalEnergyFromDensityPressure(rho2, p); err != nil {
			return
		}
	}
	switch {
	case alpha <= PhaseThreshold:
		rho, rhoe, dvf = rho2, rho2*e2, 0
	case 1-alpha <= PhaseThreshold:
		rho, rhoe, dvf = rho1, rho1*e1, rho1
	default:
		rho = alpha*rho1 + (1-alpha)*rho2
		rhoe = alpha*rho1*e1 + (1-alpha)*rho2*e2
		dvf = alpha * rho1
	}
	return
}
