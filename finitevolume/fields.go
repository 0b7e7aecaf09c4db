// Package finitevolume evaluates the right hand side of a cell centered finite volume system.
package finitevolume

import (
	"github.com/notargets/gofv/domain"
)

const (
	EulerField                 = "euler"
	DensityVolumeFractionField = "densityvolumeFraction"
	VolumeFractionField        = "volumeFraction"
	PressureField              = "pressure"
	TemperatureField           = "temperature"
	VelocityField              = "velocity"
)

// Component offsets within the euler field
const (
	RHO = iota
	RHOE
	RHOU
	RHOV
	RHOW
)

func CompressibleFlowFields(dim int) []domain.FieldDescription {
	var (
		eulerComps = []string{"rho", "rhoE", "rhoU", "rhoV", "rhoW"}[:2+dim]
		velComps   = []string{"u", "v", "w"}[:dim]
	)
	return []domain.FieldDescription{
		{Name: EulerField, Prefix: "euler", Components: eulerComps, Location: domain.Solution, Type: domain.FVM},
		{Name: TemperatureField, Prefix: "T", Location: domain.Auxiliary, Type: domain.FVM},
		{Name: VelocityField, Prefix: "vel", Components: velComps, Location: domain.Auxiliary, Type: domain.FVM},
	}
}

func TwoPhaseFields() []domain.FieldDescription {
	return []domain.FieldDescription{
		{Name: DensityVolumeFractionField, Prefix: "dvf", Location: domain.Solution, Type: domain.FVM},
		{Name: VolumeFractionField, Prefix: "vf", Location: domain.Solution, Type: domain.FVM},
		{Name: PressureField, Prefix: "p", Location: domain.Auxiliary, Type: domain.FVM},
	}
}
