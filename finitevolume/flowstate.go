package finitevolume

import (
	"github.com/notargets/gofv/domain"
	"github.com/notargets/gofv/eos"
	"github.com/notargets/gofv/mathfunc"
	"github.com/notargets/gofv/types"
)

// CompressibleFlowState converts primitive functions of position into the conserved fields of a
// two phase flow in thermal and mechanical equilibrium
type CompressibleFlowState struct {
	EOS            *eos.TwoPhase
	Temperature    mathfunc.Function
	Pressure       mathfunc.Function
	Velocity       mathfunc.Function
	VolumeFraction mathfunc.Function
}

func (cfs *CompressibleFlowState) validate() error {
	if cfs.EOS == nil || cfs.Temperature == nil || cfs.Pressure == nil || cfs.Velocity == nil || cfs.VolumeFraction == nil {
		return types.NewConfigurationError("compressible flow state is incomplete")
	}
	return nil
}

func (cfs *CompressibleFlowState) conserved(x [3]float64, t float64, vel []float64) (rho, rhoE, dvf, alpha float64, err error) {
	var (
		T, p, rhoe float64
	)
	if err = cfs.validate(); err != nil {
		return
	}
	if T, err = mathfunc.Scalar(cfs.Temperature, x, t); err != nil {
		return
	}
	if p, err = mathfunc.Scalar(cfs.Pressure, x, t); err != nil {
		return
	}
	if alpha, err = mathfunc.Scalar(cfs.VolumeFraction, x, t); err != nil {
		return
	}
	if err = cfs.Velocity.Eval(x, t, vel); err != nil {
		return
	}
	if rho, rhoe, dvf, err = cfs.EOS.StateFromTemperaturePressure(T, p, alpha); err != nil {
		return
	}
	var ke float64
	for _, v := range vel {
		ke += v * v
	}
	rhoE = rhoe + 0.5*rho*ke
	return
}

// EulerFunction yields rho, rhoE and momentum
func (cfs *CompressibleFlowState) EulerFunction() mathfunc.Function {
	var (
		nv = 0
	)
	if cfs.Velocity != nil {
		nv = cfs.Velocity.NumComponents()
	}
	return mathfunc.Func{N: 2 + nv, F: func(x [3]float64, t float64, out []float64) (err error) {
		var (
			vel       = out[2 : 2+nv]
			rho, rhoE float64
		)
		if rho, rhoE, _, _, err = cfs.conserved(x, t, vel); err != nil {
			return
		}
		out[RHO], out[RHOE] = rho, rhoE
		for d := range vel {
			vel[d] *= rho
		}
		return
	}}
}

func (cfs *CompressibleFlowState) DensityVolumeFractionFunction() mathfunc.Function {
	return mathfunc.Func{N: 1, F: func(x [3]float64, t float64, out []float64) (err error) {
		var vel [3]float64
		nv := 0
		if cfs.Velocity != nil {
			nv = cfs.Velocity.NumComponents()
		}
		_, _, out[0], _, err = cfs.conserved(x, t, vel[:nv])
		return
	}}
}

func (cfs *CompressibleFlowState) VolumeFractionFunction() mathfunc.Function {
	return cfs.VolumeFraction
}

// Initializer sets every two phase solution field
func (cfs *CompressibleFlowState) Initializer() (in domain.Initializer, err error) {
	if err = cfs.validate(); err != nil {
		return
	}
	in = domain.Initializer{
		domain.NewFieldFunction(EulerField, cfs.EulerFunction()),
		domain.NewFieldFunction(DensityVolumeFractionField, cfs.DensityVolumeFractionFunction()),
		domain.NewFieldFunction(VolumeFractionField, cfs.VolumeFractionFunction()),
	}
	return
}
