package sod_shock_tube

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSOD(t *testing.T) {
	{ // Classic non dimensional values
		sp := ClassicSod()
		pStar, uStar := sp.StarState()
		assert.InDelta(t, 0.30313, pStar, 1.e-5)
		assert.InDelta(t, 0.92745, uStar, 1.e-5)
		ws := sp.Speeds()
		assert.InDelta(t, -math.Sqrt(1.4), ws.LeftHead, 1.e-12)
		assert.InDelta(t, 1.75216, ws.RightHead, 1.e-5)
		assert.Equal(t, ws.RightHead, ws.RightTail)
		assert.True(t, ws.LeftTail < 0 && ws.LeftTail > ws.LeftHead)
	}
	{ // Plateau densities either side of the contact
		X, Rho, P, _, _ := SOD_calc(0.1)
		assert.Equal(t, 10, len(X))
		assert.InDelta(t, 0.426319, Rho[5], 1.e-5)
		assert.InDelta(t, 0.265574, Rho[6], 1.e-5)
		assert.Equal(t, 1., Rho[0])
		assert.Equal(t, 0.125, Rho[9])
		assert.InDelta(t, P[5], P[6], 1.e-12)
		// Shock location
		assert.InDelta(t, 0.675216, X[7], 1.e-5)
		X, _, _, _, _ = SOD_calc(0.2)
		assert.InDelta(t, 0.850432, X[7], 1.e-5)
	}
	{ // Dimensional tube
		sp := Problem{RhoL: 1, PL: 1.e5, RhoR: 0.125, PR: 1.e4, Gamma: 1.4}
		pStar, uStar := sp.StarState()
		assert.InDelta(t, 30313.0178, pStar, 1.e-2)
		assert.InDelta(t, 293.286, uStar, 1.e-3)
		assert.InDelta(t, 554.0803, sp.Speeds().RightHead, 1.e-3)
	}
	{ // Fan is continuous at both edges
		sp := ClassicSod()
		ws := sp.Speeds()
		rho, _, _ := sp.Sample(ws.LeftHead + 1.e-12)
		assert.InDelta(t, 1., rho, 1.e-9)
		rho, _, _ = sp.Sample(ws.LeftTail - 1.e-12)
		rhoStar, _, _ := sp.Sample(ws.LeftTail + 1.e-12)
		assert.InDelta(t, rhoStar, rho, 1.e-9)
	}
}
