package fluxcalc

import (
	"fmt"
	"math"

	"github.com/notargets/gofv/eos"
	"github.com/notargets/gofv/types"
)

type Options struct {
	TieBreak      TieBreak
	Tolerance     float64 // relative star pressure change ending the iteration
	MaxIterations int
}

func (o Options) withDefaults() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = 1.e-10
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = 100
	}
	return o
}

type stiffness struct {
	gamma, pInf float64
}

// RiemannStiff is an exact Riemann solver for stiffened gases, each side with its own stiffness
type RiemannStiff struct {
	name        string
	left, right stiffness
	opts        Options
}

func NewRiemannStiff(left, right eos.Phase, opts Options) (rs *RiemannStiff, err error) {
	if left == nil || right == nil {
		err = types.NewConfigurationError("riemann solver requires a left and right EOS")
		return
	}
	rs = &RiemannStiff{
		name: fmt.Sprintf("RiemannStiff[%s | %s]", left.Name(), right.Name()),
		opts: opts.withDefaults(),
	}
	rs.left.gamma, rs.left.pInf = left.Stiffness()
	rs.right.gamma, rs.right.pInf = right.Stiffness()
	return
}

func (rs *RiemannStiff) Name() string { return rs.name }

type waveSide struct {
	stiffness
	rho, u, p, c float64
}

// pressureFunction is the velocity change across the wave on one side for star pressure p
func (ws waveSide) pressureFunction(p float64) (f, df float64) {
	var (
		g     = ws.gamma
		pHat  = p + ws.pInf
		pkHat = ws.p + ws.pInf
	)
	if p > ws.p { // shock
		var (
			A = 2 / ((g + 1) * ws.rho)
			B = (g - 1) / (g + 1) * pkHat
			q = math.Sqrt(A / (pHat + B))
		)
		f = (p - ws.p) * q
		df = q * (1 - 0.5*(p-ws.p)/(B+pHat))
		return
	}
	r := pHat / pkHat // rarefaction
	f = 2 * ws.c / (g - 1) * (math.Pow(r, (g-1)/(2*g)) - 1)
	df = ws.c / (g * pkHat) * math.Pow(r, -(g+1)/(2*g))
	return
}

// shockFactor scales the sound speed into the shock speed for star pressure p
func (ws waveSide) shockFactor(p float64) float64 {
	var (
		g = ws.gamma
		r = (p + ws.pInf) / (ws.p + ws.pInf)
	)
	return math.Sqrt((g+1)/(2*g)*r + (g-1)/(2*g))
}

func (rs *RiemannStiff) starPressure(L, R waveSide) (p float64, err error) {
	var (
		pFloor = -math.Min(L.pInf, R.pInf)
		scale  = 0.5 * (L.p + L.pInf + R.p + R.pInf)
		du     = R.u - L.u
	)
	if 2*L.c/(L.gamma-1)+2*R.c/(R.gamma-1) <= du {
		err = types.NewInvalidStateError("riemann: vacuum generated, du=%g", du)
		return
	}
	// Primitive variable guess
	p = 0.5*(L.p+R.p) - 0.125*du*(L.rho+R.rho)*(L.c+R.c)
	if p <= pFloor {
		p = pFloor + 1.e-6*scale
	}
	for it := 0; it < rs.opts.MaxIterations; it++ {
		fL, dL := L.pressureFunction(p)
		fR, dR := R.pressureFunction(p)
		res := fL + fR + du
		if res == 0 {
			return
		}
		pNew := p - res/(dL+dR)
		if pNew <= pFloor {
			pNew = 0.5 * (p + pFloor)
		}
		if math.Abs(pNew-p) <= rs.opts.Tolerance*scale {
			p = pNew
			return
		}
		p = pNew
	}
	err = types.NewInvalidStateError("riemann: star pressure did not converge in %d iterations, p=%g",
		rs.opts.MaxIterations, p)
	return
}

func (rs *RiemannStiff) ComputeFlux(left, right Side, normal [3]float64) (flux Flux, err error) {
	if err = checkSide("left", left, rs.left.pInf); err != nil {
		return
	}
	if err = checkSide("right", right, rs.right.pInf); err != nil {
		return
	}
	var (
		L = waveSide{stiffness: rs.left, rho: left.Density, u: dot(left.Velocity, normal),
			p: left.Pressure, c: left.SoundSpeed}
		R = waveSide{stiffness: rs.right, rho: right.Density, u: dot(right.Velocity, normal),
			p: right.Pressure, c: right.SoundSpeed}
		pStar, uStar float64
	)
	if pStar, err = rs.starPressure(L, R); err != nil {
		return
	}
	fL, _ := L.pressureFunction(pStar)
	fR, _ := R.pressureFunction(pStar)
	uStar = 0.5*(L.u+R.u) + 0.5*(fR-fL)
	flux.StarPressure, flux.StarVelocity = pStar, uStar

	if pStar > L.p {
		flux.LeftWaveSpeed = L.u - L.c*L.shockFactor(pStar)
	} else {
		flux.LeftWaveSpeed = L.u - L.c
	}
	if pStar > R.p {
		flux.RightWaveSpeed = R.u + R.c*R.shockFactor(pStar)
	} else {
		flux.RightWaveSpeed = R.u + R.c
	}
	flux.MaxWaveSpeed = math.Max(math.Abs(flux.LeftWaveSpeed), math.Abs(flux.RightWaveSpeed))

	var (
		rho, un, p float64
		side       = left
		ws         = L
	)
	if uStar > 0 || (uStar == 0 && rs.opts.TieBreak == TieBreakLeft) {
		flux.Region, rho, un, p = sampleLeft(L, pStar, uStar)
	} else {
		flux.Region, rho, un, p = sampleRight(R, pStar, uStar)
		side, ws = right, R
	}

	var (
		vel  [3]float64
		rhoe float64
	)
	switch flux.Region {
	case LeftState, RightState:
		vel, rhoe = side.Velocity, side.InternalEnergyDensity
	default:
		for d := 0; d < 3; d++ {
			vel[d] = side.Velocity[d] + (un-ws.u)*normal[d]
		}
		rhoe = side.InternalEnergyDensity + (p-ws.p)/(ws.gamma-1)
	}
	E := rhoe + 0.5*rho*dot(vel, vel)
	flux.Mass = rho * un
	for d := 0; d < 3; d++ {
		flux.Momentum[d] = flux.Mass*vel[d] + p*normal[d]
	}
	flux.Energy = un * (E + p)
	return
}

func sampleLeft(L waveSide, pStar, uStar float64) (region Region, rho, u, p float64) {
	var (
		g  = L.gamma
		pr = (pStar + L.pInf) / (L.p + L.pInf)
	)
	if pStar > L.p {
		if L.u-L.c*L.shockFactor(pStar) >= 0 {
			return LeftState, L.rho, L.u, L.p
		}
		gr := (g - 1) / (g + 1)
		return LeftStar, L.rho * (pr + gr) / (gr*pr + 1), uStar, pStar
	}
	if L.u-L.c >= 0 {
		return LeftState, L.rho, L.u, L.p
	}
	if uStar-L.c*math.Pow(pr, (g-1)/(2*g)) < 0 {
		return LeftStar, L.rho * math.Pow(pr, 1/g), uStar, pStar
	}
	cr := 2/(g+1) + (g-1)/((g+1)*L.c)*L.u
	rho = L.rho * math.Pow(cr, 2/(g-1))
	u = 2 / (g + 1) * (L.c + 0.5*(g-1)*L.u)
	p = (L.p+L.pInf)*math.Pow(cr, 2*g/(g-1)) - L.pInf
	return LeftFan, rho, u, p
}

func sampleRight(R waveSide, pStar, uStar float64) (region Region, rho, u, p float64) {
	var (
		g  = R.gamma
		pr = (pStar + R.pInf) / (R.p + R.pInf)
	)
	if pStar > R.p {
		if R.u+R.c*R.shockFactor(pStar) <= 0 {
			return RightState, R.rho, R.u, R.p
		}
		gr := (g - 1) / (g + 1)
		return RightStar, R.rho * (pr + gr) / (gr*pr + 1), uStar, pStar
	}
	if R.u+R.c <= 0 {
		return RightState, R.rho, R.u, R.p
	}
	if uStar+R.c*math.Pow(pr, (g-1)/(2*g)) > 0 {
		return RightStar, R.rho * math.Pow(pr, 1/g), uStar, pStar
	}
	cr := 2/(g+1) - (g-1)/((g+1)*R.c)*R.u
	rho = R.rho * math.Pow(cr, 2/(g-1))
	u = 2 / (g + 1) * (-R.c + 0.5*(g-1)*R.u)
	p = (R.p+R.pInf)*math.Pow(cr, 2*g/(g-1)) - R.pInf
	return RightFan, rho, u, p
}

// NewStiffSet builds the four pairings from a gas and a liquid closure
func NewStiffSet(gas, liquid eos.Phase, opts Options) (s *Set, err error) {
	var (
		calcs [4]Calculator
		pairs = [4][2]eos.Phase{{gas, gas}, {gas, liquid}, {liquid, gas}, {liquid, liquid}}
	)
	for i, pr := range pairs {
		var rs *RiemannStiff
		if rs, err = NewRiemannStiff(pr[0], pr[1], opts); err != nil {
			return
		}
		calcs[i] = rs
	}
	return NewSet(calcs[0], calcs[1], calcs[2], calcs[3])
}
