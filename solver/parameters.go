package solver

import (
	"math"
	"strings"

	"github.com/notargets/gofv/types"
)

type AdaptType uint8

const (
	AdaptNone AdaptType = iota
	AdaptPhysicsConstrained
)

var AdaptNameMap = map[string]AdaptType{
	"none":               AdaptNone,
	"fixed":              AdaptNone,
	"physicsconstrained": AdaptPhysicsConstrained,
	"cfl":                AdaptPhysicsConstrained,
}

func (at AdaptType) String() string {
	if at == AdaptPhysicsConstrained {
		return "physicsConstrained"
	}
	return "none"
}

func NewAdaptType(label string) (at AdaptType, err error) {
	var ok bool
	if label == "" {
		return AdaptPhysicsConstrained, nil
	}
	if at, ok = AdaptNameMap[strings.ToLower(label)]; !ok {
		err = types.NewConfigurationError("unknown time step adaptor %q", label)
	}
	return
}

type AdaptParameters struct {
	Type      AdaptType
	CFL       float64
	MinDt     float64 // 0 disables the stagnation check
	MaxDt     float64 // 0 is unbounded
	MaxGrowth float64 // largest ratio between successive steps, 0 uses 1.1
	// AllowStagnation clamps steps below MinDt to MinDt with a warning instead of failing
	AllowStagnation bool
}

type Parameters struct {
	Scheme    string // euler, rk2ssp or rk3ssp
	MaxTime   float64
	MaxSteps  int // 0 is unlimited
	InitialDt float64
	Adapt     AdaptParameters
}

func (p Parameters) withDefaults() Parameters {
	if p.Scheme == "" {
		p.Scheme = "euler"
	}
	if p.Adapt.MaxGrowth == 0 {
		p.Adapt.MaxGrowth = 1.1
	}
	if p.Adapt.MaxDt == 0 {
		p.Adapt.MaxDt = math.Inf(1)
	}
	if p.MaxTime <= 0 {
		p.MaxTime = math.Inf(1)
	}
	return p
}

func (p Parameters) Validate() (err error) {
	if _, err = NewScheme(p.Scheme); err != nil {
		return
	}
	switch {
	case !(p.MaxTime > 0) && p.MaxSteps <= 0:
		return types.NewConfigurationError("time stepper needs a positive MaxTime or MaxSteps")
	case p.MaxSteps < 0:
		return types.NewConfigurationError("negative MaxSteps %d", p.MaxSteps)
	case !(p.InitialDt > 0) || math.IsInf(p.InitialDt, 0):
		return types.NewConfigurationError("initial time step %g must be positive", p.InitialDt)
	case p.Adapt.MinDt < 0:
		return types.NewConfigurationError("negative minimum time step %g", p.Adapt.MinDt)
	case p.Adapt.MaxDt < 0 || (p.Adapt.MaxDt > 0 && p.Adapt.MaxDt < p.Adapt.MinDt):
		return types.NewConfigurationError("maximum time step %g below minimum %g", p.Adapt.MaxDt, p.Adapt.MinDt)
	case p.Adapt.MaxGrowth < 0 || (p.Adapt.MaxGrowth > 0 && p.Adapt.MaxGrowth < 1):
		return types.NewConfigurationError("time step growth %g below one", p.Adapt.MaxGrowth)
	}
	if p.Adapt.Type == AdaptPhysicsConstrained && !(p.Adapt.CFL > 0) {
		return types.NewConfigurationError("CFL %g must be positive", p.Adapt.CFL)
	}
	return
}
