package sod_shock_tube

import (
	"math"
)

// Problem is an ideal gas shock tube with a diaphragm at X0
type Problem struct {
	RhoL, UL, PL float64
	RhoR, UR, PR float64
	Gamma        float64
	X0           float64
}

// ClassicSod is the non dimensional Sod problem on [0,1]
func ClassicSod() Problem {
	return Problem{RhoL: 1, PL: 1, RhoR: 0.125, PR: 0.1, Gamma: 1.4, X0: 0.5}
}

// WaveSpeeds are the signal speeds bounding each region, left to right
type WaveSpeeds struct {
	LeftHead, LeftTail   float64 // equal for a left shock
	Contact              float64
	RightTail, RightHead float64 // equal for a right shock
}

func (sp Problem) soundSpeeds() (cL, cR float64) {
	return math.Sqrt(sp.Gamma * sp.PL / sp.RhoL), math.Sqrt(sp.Gamma * sp.PR / sp.RhoR)
}

func (sp Problem) waveFunction(p, rho, pk, c float64) float64 {
	g := sp.Gamma
	if p > pk {
		A := 2 / ((g + 1) * rho)
		B := (g - 1) / (g + 1) * pk
		return (p - pk) * math.Sqrt(A/(p+B))
	}
	return 2 * c / (g - 1) * (math.Pow(p/pk, (g-1)/(2*g)) - 1)
}

// StarState solves for the pressure and velocity between the two nonlinear waves by bisection
func (sp Problem) StarState() (pStar, uStar float64) {
	var (
		cL, cR = sp.soundSpeeds()
		du     = sp.UR - sp.UL
		res    = func(p float64) float64 {
			return sp.waveFunction(p, sp.RhoL, sp.PL, cL) + sp.waveFunction(p, sp.RhoR, sp.PR, cR) + du
		}
		lo, hi = 0., math.Max(sp.PL, sp.PR)
	)
	for res(hi) < 0 {
		hi *= 2
	}
	for i := 0; i < 200 && hi-lo > 1.e-15*hi; i++ {
		mid := 0.5 * (lo + hi)
		if res(mid) > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	pStar = 0.5 * (lo + hi)
	uStar = 0.5*(sp.UL+sp.UR) + 0.5*(sp.waveFunction(pStar, sp.RhoR, sp.PR, cR)-sp.waveFunction(pStar, sp.RhoL, sp.PL, cL))
	return
}

func (sp Problem) shockFactor(pStar, pk float64) float64 {
	g := sp.Gamma
	return math.Sqrt((g+1)/(2*g)*pStar/pk + (g-1)/(2*g))
}

func (sp Problem) Speeds() (ws WaveSpeeds) {
	var (
		g            = sp.Gamma
		cL, cR       = sp.soundSpeeds()
		pStar, uStar = sp.StarState()
	)
	ws.Contact = uStar
	if pStar > sp.PL {
		ws.LeftHead = sp.UL - cL*sp.shockFactor(pStar, sp.PL)
		ws.LeftTail = ws.LeftHead
	} else {
		ws.LeftHead = sp.UL - cL
		ws.LeftTail = uStar - cL*math.Pow(pStar/sp.PL, (g-1)/(2*g))
	}
	if pStar > sp.PR {
		ws.RightHead = sp.UR + cR*sp.shockFactor(pStar, sp.PR)
		ws.RightTail = ws.RightHead
	} else {
		ws.RightHead = sp.UR + cR
		ws.RightTail = uStar + cR*math.Pow(pStar/sp.PR, (g-1)/(2*g))
	}
	return
}

// Sample returns the similarity solution at xi = (x - X0)/t
func (sp Problem) Sample(xi float64) (rho, u, p float64) {
	var (
		g            = sp.Gamma
		gr           = (g - 1) / (g + 1)
		cL, cR       = sp.soundSpeeds()
		pStar, uStar = sp.StarState()
		ws           = sp.Speeds()
	)
	switch {
	case xi < ws.LeftHead:
		return sp.RhoL, sp.UL, sp.PL
	case xi < ws.LeftTail: // left fan
		c := 2/(g+1)*cL + gr*(sp.UL-xi)
		rho = sp.RhoL * math.Pow(c/cL, 2/(g-1))
		u = 2 / (g + 1) * (cL + 0.5*(g-1)*sp.UL + xi)
		p = sp.PL * math.Pow(c/cL, 2*g/(g-1))
		return
	case xi < ws.Contact:
		if pStar > sp.PL {
			rho = sp.RhoL * (pStar/sp.PL + gr) / (gr*pStar/sp.PL + 1)
		} else {
			rho = sp.RhoL * math.Pow(pStar/sp.PL, 1/g)
		}
		return rho, uStar, pStar
	case xi < ws.RightTail:
		if pStar > sp.PR {
			rho = sp.RhoR * (pStar/sp.PR + gr) / (gr*pStar/sp.PR + 1)
		} else {
			rho = sp.RhoR * math.Pow(pStar/sp.PR, 1/g)
		}
		return rho, uStar, pStar
	case xi < ws.RightHead: // right fan
		c := 2/(g+1)*cR - gr*(sp.UR-xi)
		rho = sp.RhoR * math.Pow(c/cR, 2/(g-1))
		u = 2 / (g + 1) * (-cR + 0.5*(g-1)*sp.UR + xi)
		p = sp.PR * math.Pow(c/cR, 2*g/(g-1))
		return
	}
	return sp.RhoR, sp.UR, sp.PR
}

// SOD_calc samples the classic Sod solution at time t on the wave boundaries of [0,1]
func SOD_calc(t float64) (X, Rho, P, U, E []float64) {
	var (
		sp  = ClassicSod()
		ws  = sp.Speeds()
		tol = 0.00000001
		x0  = sp.X0
	)
	X = []float64{0}
	for _, s := range []float64{ws.LeftHead, ws.LeftTail, ws.Contact, ws.RightHead} {
		X = append(X, x0+s*t-tol, x0+s*t+tol)
	}
	X = append(X, 1)
	Rho = make([]float64, len(X))
	P = make([]float64, len(X))
	U = make([]float64, len(X))
	E = make([]float64, len(X))
	for i, x := range X {
		Rho[i], U[i], P[i] = sp.Sample((x - x0) / t)
		E[i] = P[i] / ((sp.Gamma - 1.) * Rho[i])
	}
	return
}
