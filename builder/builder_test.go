package builder

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofv/InputParameters"
	"github.com/notargets/gofv/finitevolume"
	"github.com/notargets/gofv/types"
)

var shockTube = `
Title: tube
Mesh:
  Faces: [20]
  Lower: [0]
  Upper: [1]
EOS:
  Gas:
    Type: perfectGas
    Gamma: 1.4
    Rgas: 287.0
  Liquid:
    Type: stiffenedGas
    Gamma: 4.4
    PInf: 6.e8
    Cv: 1000
InitialConditions:
  Temperature: "x < 0.5 ? 348.4320557491289 : 278.74564459930315"
  Pressure: "x < 0.5 ? 1e5 : 1e4"
  Velocity: "0"
  VolumeFraction: "1"
Regions:
  left: "x < 0.5"
Boundaries:
  - Name: ends
    Type: reflective
    Labels: [1, 2]
TimeStepper:
  Scheme: rk2ssp
  MaxSteps: 3
  InitialDt: 1.e-6
  Adapt:
    Type: physicsConstrained
    CFL: 0.5
Serializer:
  Interval:
    Type: fixed
    Value: 1
Monitors:
  - Type: maxMinAverage
    Field: pressure
    Interval:
      Type: fixed
      Value: 1
`

func parse(t *testing.T, src string) *InputParameters.Simulation {
	sim := &InputParameters.Simulation{}
	require.NoError(t, sim.Parse([]byte(src)))
	return sim
}

func TestBuildShockTube(t *testing.T) {
	var (
		dir = t.TempDir()
		sim = parse(t, shockTube)
	)
	c, err := Build(sim, Options{OutputDirectory: dir, ParallelDegree: 2})
	require.NoError(t, err)
	require.NotNil(t, c.Serializer)

	cells, err := c.Mesh.RegionCells("left")
	require.NoError(t, err)
	assert.Len(t, cells, 10)
	assert.Equal(t, "tube", c.Stepper.Name())
	assert.Len(t, c.Stepper.Solvers(), 1)

	require.NoError(t, c.Stepper.Solve(context.Background()))
	assert.Equal(t, 3, c.Stepper.Step())
	assert.Greater(t, c.Stepper.Time(), 0.)
	assert.Len(t, c.Serializer.Written(), 4)
	assert.Equal(t, filepath.Join(dir, "tube.00003.nc"), c.Serializer.Written()[3])

	sums := c.Solver.Integrals(c.Solver.Solution())
	for _, vals := range sums {
		for _, v := range vals {
			assert.False(t, math.IsNaN(v))
		}
	}
	// A closed tube keeps its mass
	rhoL, rhoR := 1.e5/(287*348.4320557491289), 1.e4/(287*278.74564459930315)
	mass := sums[finitevolume.EulerField][finitevolume.RHO]
	assert.InDelta(t, 0.5*(rhoL+rhoR), mass, 1.e-12)
}

func TestBuildBubble(t *testing.T) {
	sim, err := InputParameters.ReadFile("../cases/bubble.yaml")
	require.NoError(t, err)
	sim.Mesh.Faces = []int{8, 8}
	sim.Mesh.Refine = 0
	sim.Serializer = nil
	sim.TimeStepper.MaxSteps = 2
	sim.TimeStepper.MaxTime = 0

	c, err := Build(sim, Options{})
	require.NoError(t, err)
	assert.Nil(t, c.Serializer)
	require.NoError(t, c.Stepper.Solve(context.Background()))
	assert.Equal(t, 2, c.Stepper.Step())
	for _, v := range c.Solver.Solution() {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestBuildErrors(t *testing.T) {
	cases := map[string]func(s *InputParameters.Simulation){
		"unknown EOS":        func(s *InputParameters.Simulation) { s.EOS.Liquid.Type = "tillotson" },
		"bad gamma":          func(s *InputParameters.Simulation) { s.EOS.Gas.Gamma = 0.5 },
		"velocity dimension": func(s *InputParameters.Simulation) { s.InitialConditions.Velocity = "0, 0" },
		"bad formula":        func(s *InputParameters.Simulation) { s.InitialConditions.Pressure = "1e5 +" },
		"bad tie break":      func(s *InputParameters.Simulation) { s.Riemann.TieBreak = "middle" },
		"bad adapt":          func(s *InputParameters.Simulation) { s.TimeStepper.Adapt.Type = "guess" },
		"bad interval":       func(s *InputParameters.Simulation) { s.Serializer.Interval.Type = "sometimes" },
		"bad region":         func(s *InputParameters.Simulation) { s.Regions["left"] = "x <" },
		"empty essential": func(s *InputParameters.Simulation) {
			s.Boundaries[0].Type = "essential"
		},
	}
	for name, mod := range cases {
		t.Run(name, func(t *testing.T) {
			sim := parse(t, shockTube)
			mod(sim)
			_, err := Build(sim, Options{OutputDirectory: t.TempDir()})
			require.Error(t, err)
		})
	}

	sim := parse(t, shockTube)
	sim.EOS.Liquid.Type = "tillotson"
	_, err := Build(sim, Options{})
	assert.True(t, errors.Is(err, types.ErrConfiguration))
}

func TestBuildEssentialState(t *testing.T) {
	sim := parse(t, shockTube)
	sim.Boundaries = []InputParameters.Boundary{
		{
			Name:   "inflow",
			Type:   "essential",
			Labels: []int{1},
			State: &InputParameters.FlowState{
				Temperature: "300", Pressure: "1e5", Velocity: "10", VolumeFraction: "1",
			},
		},
		{Name: "wall", Type: "reflective", Labels: []int{2}},
	}
	sim.Serializer = nil
	c, err := Build(sim, Options{})
	require.NoError(t, err)
	require.NoError(t, c.Stepper.Solve(context.Background()))
	assert.Equal(t, 3, c.Stepper.Step())
}
