package fluxcalc

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofv/eos"
	"github.com/notargets/gofv/sod_shock_tube"
	"github.com/notargets/gofv/types"
)

func gasSide(t *testing.T, g eos.Phase, rho, p float64, vel [3]float64) Side {
	e, err := g.InternalEnergyFromDensityPressure(rho, p)
	require.NoError(t, err)
	c, err := g.SpeedOfSound(eos.State{Density: rho, InternalEnergy: e})
	require.NoError(t, err)
	return Side{Density: rho, Velocity: vel, Pressure: p, InternalEnergyDensity: rho * e, SoundSpeed: c}
}

func physicalFlux(s Side, n [3]float64) (mass float64, mom [3]float64, energy float64) {
	un := dot(s.Velocity, n)
	E := s.InternalEnergyDensity + 0.5*s.Density*dot(s.Velocity, s.Velocity)
	mass = s.Density * un
	for d := 0; d < 3; d++ {
		mom[d] = mass*s.Velocity[d] + s.Pressure*n[d]
	}
	energy = un * (E + s.Pressure)
	return
}

func TestRiemannStiffConsistency(t *testing.T) {
	air, _ := eos.NewPerfectGas(1.4, 287)
	water, _ := eos.NewStiffenedGas(4.4, 6.e8, 1000)
	for _, ph := range []eos.Phase{air, water} {
		rs, err := NewRiemannStiff(ph, ph, Options{})
		require.NoError(t, err)
		for _, tc := range []struct {
			vel    [3]float64
			normal [3]float64
		}{
			{[3]float64{0, 0, 0}, [3]float64{1, 0, 0}},
			{[3]float64{100, 30, 0}, [3]float64{1, 0, 0}},
			{[3]float64{-50, 20, 5}, [3]float64{0.6, 0.8, 0}},
			{[3]float64{3000, 0, 0}, [3]float64{1, 0, 0}},  // supersonic in air
			{[3]float64{-3000, 0, 0}, [3]float64{1, 0, 0}}, // reverse supersonic
		} {
			s := gasSide(t, ph, 1.2, 1.e5, tc.vel)
			if ph == eos.Phase(water) {
				s = gasSide(t, ph, 1000, 1.e5, tc.vel)
			}
			f, err := rs.ComputeFlux(s, s, tc.normal)
			require.NoError(t, err)
			mass, mom, energy := physicalFlux(s, tc.normal)
			assert.InDelta(t, mass, f.Mass, 1.e-12*math.Abs(mass)+1.e-12)
			for d := 0; d < 3; d++ {
				assert.InDelta(t, mom[d], f.Momentum[d], 1.e-12*math.Abs(mom[d])+1.e-9)
			}
			assert.InDelta(t, energy, f.Energy, 1.e-12*math.Abs(energy)+1.e-9)
			assert.Equal(t, s.Pressure, f.StarPressure)
			assert.Equal(t, dot(s.Velocity, tc.normal), f.StarVelocity)
			assert.InDelta(t, math.Abs(dot(s.Velocity, tc.normal))+s.SoundSpeed, f.MaxWaveSpeed, 1.e-9)
		}
	}
}

func TestRiemannStiffSod(t *testing.T) {
	air, _ := eos.NewPerfectGas(1.4, 287)
	rs, err := NewRiemannStiff(air, air, Options{})
	require.NoError(t, err)
	var (
		L  = gasSide(t, air, 1, 1.e5, [3]float64{})
		R  = gasSide(t, air, 0.125, 1.e4, [3]float64{})
		n  = [3]float64{1, 0, 0}
		sp = sod_shock_tube.Problem{RhoL: 1, PL: 1.e5, RhoR: 0.125, PR: 1.e4, Gamma: 1.4}
	)
	f, err := rs.ComputeFlux(L, R, n)
	require.NoError(t, err)
	pStar, uStar := sp.StarState()
	ws := sp.Speeds()
	assert.InEpsilon(t, pStar, f.StarPressure, 1.e-8)
	assert.InEpsilon(t, uStar, f.StarVelocity, 1.e-8)
	assert.InEpsilon(t, ws.RightHead, f.RightWaveSpeed, 1.e-8)
	// Rarefaction head is the acoustic estimate
	assert.InEpsilon(t, -L.SoundSpeed, f.LeftWaveSpeed, 1.e-12)
	assert.InEpsilon(t, ws.RightHead, f.MaxWaveSpeed, 1.e-8)
	assert.Equal(t, LeftStar, f.Region)
	assert.True(t, f.UpwindLeft())
	rho, u, p := sp.Sample(0)
	assert.InEpsilon(t, rho*u, f.Mass, 1.e-7)
	assert.InEpsilon(t, rho*u*u+p, f.Momentum[0], 1.e-7)
	assert.InEpsilon(t, u*(p/0.4+0.5*rho*u*u+p), f.Energy, 1.e-7)
	{ // Mirror image: reversing the orientation negates the flux
		fm, err := rs.ComputeFlux(R, L, [3]float64{-1, 0, 0})
		require.NoError(t, err)
		assert.Equal(t, RightStar, fm.Region)
		assert.InEpsilon(t, -f.Mass, fm.Mass, 1.e-10)
		assert.InEpsilon(t, -f.Momentum[0], fm.Momentum[0], 1.e-10)
		assert.InEpsilon(t, -f.Energy, fm.Energy, 1.e-10)
		assert.InEpsilon(t, -f.StarVelocity, fm.StarVelocity, 1.e-10)
		assert.InEpsilon(t, f.MaxWaveSpeed, fm.MaxWaveSpeed, 1.e-10)
	}
}

func TestRiemannStiffSonicFan(t *testing.T) {
	// Left state expanding with the flow so the fan straddles the face
	air, _ := eos.NewPerfectGas(1.4, 287)
	rs, _ := NewRiemannStiff(air, air, Options{})
	var (
		L  = gasSide(t, air, 1, 1.e5, [3]float64{200, 0, 0})
		R  = gasSide(t, air, 0.125, 1.e4, [3]float64{200, 0, 0})
		sp = sod_shock_tube.Problem{RhoL: 1, UL: 200, PL: 1.e5, RhoR: 0.125, UR: 200, PR: 1.e4, Gamma: 1.4}
	)
	f, err := rs.ComputeFlux(L, R, [3]float64{1, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, LeftFan, f.Region)
	rho, u, p := sp.Sample(0)
	assert.InEpsilon(t, rho*u, f.Mass, 1.e-7)
	assert.InEpsilon(t, rho*u*u+p, f.Momentum[0], 1.e-7)
	fm, err := rs.ComputeFlux(R, L, [3]float64{-1, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, RightFan, fm.Region)
	assert.InEpsilon(t, -f.Mass, fm.Mass, 1.e-10)
}

func TestRiemannStiffTieBreak(t *testing.T) {
	air, _ := eos.NewPerfectGas(1.4, 287)
	var (
		L = gasSide(t, air, 1, 1.e5, [3]float64{0, 10, 0})
		R = gasSide(t, air, 0.5, 1.e5, [3]float64{0, -10, 0})
		n = [3]float64{1, 0, 0}
	)
	tb, err := NewTieBreak("left")
	require.NoError(t, err)
	left, _ := NewRiemannStiff(air, air, Options{TieBreak: tb})
	tb, _ = NewTieBreak("right")
	right, _ := NewRiemannStiff(air, air, Options{TieBreak: tb})
	fl, err := left.ComputeFlux(L, R, n)
	require.NoError(t, err)
	fr, err := right.ComputeFlux(L, R, n)
	require.NoError(t, err)
	assert.Equal(t, 0., fl.StarVelocity)
	assert.Equal(t, LeftStar, fl.Region)
	assert.Equal(t, RightStar, fr.Region)
	assert.Equal(t, 0., fl.Mass)
	assert.Equal(t, 1.e5, fl.Momentum[0])
	assert.Equal(t, fl.Momentum[0], fr.Momentum[0])
	_, err = NewTieBreak("up")
	assert.True(t, errors.Is(err, types.ErrConfiguration))
}

func TestRiemannStiffInterface(t *testing.T) {
	air, _ := eos.NewPerfectGas(1.4, 287)
	water, _ := eos.NewStiffenedGas(4.4, 6.e8, 1000)
	set, err := NewStiffSet(air, water, Options{})
	require.NoError(t, err)
	assert.Contains(t, set.Select(types.GasLiquid).Name(), "PerfectGas")
	assert.Contains(t, set.Select(types.LiquidLiquid).Name(), "StiffenedGas")
	{ // Gas/liquid interface in pressure equilibrium stays at rest
		var (
			L = gasSide(t, air, 1.2, 1.e5, [3]float64{})
			R = gasSide(t, water, 1000, 1.e5, [3]float64{})
		)
		f, err := set.ComputeFlux(true, false, L, R, [3]float64{1, 0, 0})
		require.NoError(t, err)
		assert.Equal(t, 0., f.StarVelocity)
		assert.Equal(t, 1.e5, f.StarPressure)
		assert.Equal(t, 0., f.Mass)
		assert.InEpsilon(t, R.SoundSpeed, f.MaxWaveSpeed, 1.e-12)
	}
	{ // Liquid impact on gas
		var (
			L = gasSide(t, water, 1000, 1.e5, [3]float64{50, 0, 0})
			R = gasSide(t, air, 1.2, 1.e5, [3]float64{})
		)
		f, err := set.ComputeFlux(false, true, L, R, [3]float64{1, 0, 0})
		require.NoError(t, err)
		assert.True(t, f.StarPressure > 1.e5)
		assert.True(t, f.StarVelocity > 0 && f.StarVelocity < 50)
		assert.True(t, f.RightWaveSpeed > f.StarVelocity)
	}
	{ // Rejected states
		var (
			L = gasSide(t, air, 1, 1.e5, [3]float64{-3000, 0, 0})
			R = gasSide(t, air, 1, 1.e5, [3]float64{3000, 0, 0})
		)
		_, err := set.ComputeFlux(true, true, L, R, [3]float64{1, 0, 0})
		assert.True(t, errors.Is(err, types.ErrInvalidState))
		bad := L
		bad.Density = 0
		_, err = set.ComputeFlux(true, true, bad, R, [3]float64{1, 0, 0})
		assert.True(t, errors.Is(err, types.ErrInvalidState))
		bad = L
		bad.Pressure = math.NaN()
		_, err = set.ComputeFlux(true, true, bad, R, [3]float64{1, 0, 0})
		assert.True(t, errors.Is(err, types.ErrInvalidState))
	}
	{
		_, err := NewSet(nil, nil, nil, nil)
		assert.True(t, errors.Is(err, types.ErrConfiguration))
		_, err = NewRiemannStiff(nil, air, Options{})
		assert.True(t, errors.Is(err, types.ErrConfiguration))
	}
}
