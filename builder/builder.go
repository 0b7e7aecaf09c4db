// Package builder assembles a runnable case from its input parameters.
package builder

import (
	"fmt"
	"strings"

	"github.com/notargets/gofv/InputParameters"
	"github.com/notargets/gofv/domain"
	"github.com/notargets/gofv/eos"
	"github.com/notargets/gofv/finitevolume"
	"github.com/notargets/gofv/finitevolume/boundary"
	"github.com/notargets/gofv/finitevolume/fluxcalc"
	"github.com/notargets/gofv/finitevolume/process"
	"github.com/notargets/gofv/interval"
	"github.com/notargets/gofv/mathfunc"
	"github.com/notargets/gofv/mesh"
	"github.com/notargets/gofv/monitors"
	"github.com/notargets/gofv/serializer"
	"github.com/notargets/gofv/solver"
	"github.com/notargets/gofv/types"
)

type Options struct {
	OutputDirectory string
	ParallelDegree  int // overrides the case when positive
}

type Case struct {
	Mesh       *mesh.BoxMesh
	Domain     *domain.Domain
	EOS        *eos.TwoPhase
	Solver     *finitevolume.Solver
	Serializer *serializer.CDF
	Stepper    *solver.TimeStepper
}

// Build validates sim and wires the mesh, fields, physics, output and time stepper of the case
func Build(sim *InputParameters.Simulation, opts Options) (c *Case, err error) {
	if err = sim.Validate(); err != nil {
		return
	}
	c = &Case{}
	if c.Mesh, err = mesh.NewBoxMesh(sim.Title, sim.Mesh.Faces, sim.Mesh.Lower, sim.Mesh.Upper, sim.Mesh.Refine); err != nil {
		return nil, err
	}
	if err = defineRegions(c.Mesh, sim.Regions); err != nil {
		return nil, err
	}
	if c.EOS, err = newTwoPhase(sim.EOS); err != nil {
		return nil, err
	}
	dim := c.Mesh.Dimension()
	if c.Domain, err = domain.NewDomain(sim.Title, c.Mesh,
		append(finitevolume.CompressibleFlowFields(dim), finitevolume.TwoPhaseFields()...)...); err != nil {
		return nil, err
	}
	var (
		initial     *finitevolume.CompressibleFlowState
		initializer domain.Initializer
		proc        *process.TwoPhaseEulerAdvection
		bcs         []boundary.BoundaryCondition
		fluxes      *fluxcalc.Set
		tieBreak    fluxcalc.TieBreak
		monitorSet  []solver.Monitor
		parallel    = sim.ParallelDegree
		region      = domain.EntireDomain
	)
	if initial, err = flowState(c.EOS, sim.InitialConditions, dim); err != nil {
		return nil, fmt.Errorf("initial conditions: %w", err)
	}
	if initializer, err = initial.Initializer(); err != nil {
		return nil, err
	}
	if tieBreak, err = fluxcalc.NewTieBreak(sim.Riemann.TieBreak); err != nil {
		return nil, err
	}
	if fluxes, err = fluxcalc.NewStiffSet(c.EOS.Gas(), c.EOS.Liquid(), fluxcalc.Options{
		TieBreak:      tieBreak,
		Tolerance:     sim.Riemann.Tolerance,
		MaxIterations: sim.Riemann.MaxIterations,
	}); err != nil {
		return nil, err
	}
	if proc, err = process.NewTwoPhaseEulerAdvection(c.EOS, fluxes); err != nil {
		return nil, err
	}
	for _, b := range sim.Boundaries {
		var built []boundary.BoundaryCondition
		if built, err = newBoundaries(c.EOS, b, dim); err != nil {
			return nil, fmt.Errorf("boundary %q: %w", b.Name, err)
		}
		bcs = append(bcs, built...)
	}
	if opts.ParallelDegree > 0 {
		parallel = opts.ParallelDegree
	}
	if sim.SolverRegion != "" {
		region = domain.Region{Name: sim.SolverRegion}
	}
	c.Solver = finitevolume.NewSolver("flow", region, finitevolume.Options{ParallelDegree: parallel, EOS: c.EOS},
		[]finitevolume.Process{proc}, bcs)

	var ser solver.Serializer
	if sim.Serializer != nil {
		var iv interval.Interval
		if iv, err = interval.New(sim.Serializer.Interval.Type, sim.Serializer.Interval.Value); err != nil {
			return nil, fmt.Errorf("serializer: %w", err)
		}
		c.Serializer = serializer.NewCDF(opts.OutputDirectory, sim.Title, iv)
		ser = c.Serializer
	}
	for _, m := range sim.Monitors {
		var mon solver.Monitor
		if mon, err = newMonitor(m); err != nil {
			return nil, err
		}
		monitorSet = append(monitorSet, mon)
	}
	var params solver.Parameters
	if params, err = stepperParameters(sim.TimeStepper); err != nil {
		return nil, err
	}
	if c.Stepper, err = solver.NewTimeStepper(sim.Title, c.Domain, params, ser, initializer); err != nil {
		return nil, err
	}
	if err = c.Stepper.Register(c.Solver, monitorSet...); err != nil {
		return nil, err
	}
	return
}

func defineRegions(bm *mesh.BoxMesh, regions map[string]string) (err error) {
	for name, src := range regions {
		var f *mathfunc.Formula
		if f, err = mathfunc.NewFormula(src); err != nil {
			return fmt.Errorf("region %q: %w", name, err)
		}
		var evalErr error
		if err = bm.DefineRegion(name, func(x [3]float64) bool {
			v, err := mathfunc.Scalar(f, x, 0)
			if err != nil && evalErr == nil {
				evalErr = err
			}
			return v != 0
		}); err != nil {
			return
		}
		if evalErr != nil {
			return fmt.Errorf("region %q: %w", name, evalErr)
		}
	}
	return
}

func newPhase(p InputParameters.Phase) (eos.Phase, error) {
	switch strings.ToLower(p.Type) {
	case "perfectgas", "":
		return eos.NewPerfectGas(p.Gamma, p.Rgas)
	case "stiffenedgas":
		return eos.NewStiffenedGas(p.Gamma, p.PInf, p.Cv)
	}
	return nil, types.NewConfigurationError("unknown EOS type %q", p.Type)
}

func newTwoPhase(ip InputParameters.TwoPhaseEOS) (tp *eos.TwoPhase, err error) {
	var gas, liquid eos.Phase
	if gas, err = newPhase(ip.Gas); err != nil {
		return nil, fmt.Errorf("gas: %w", err)
	}
	if liquid, err = newPhase(ip.Liquid); err != nil {
		return nil, fmt.Errorf("liquid: %w", err)
	}
	return eos.NewTwoPhase(gas, liquid)
}

func flowState(tp *eos.TwoPhase, fs InputParameters.FlowState, dim int) (cfs *finitevolume.CompressibleFlowState, err error) {
	var (
		fns [4]*mathfunc.Formula
	)
	for i, src := range []string{fs.Temperature, fs.Pressure, fs.Velocity, fs.VolumeFraction} {
		if fns[i], err = mathfunc.NewFormula(src); err != nil {
			return
		}
	}
	if nv := fns[2].NumComponents(); nv != dim {
		return nil, types.NewConfigurationError("velocity %q has %d components in %d dimensions", fs.Velocity, nv, dim)
	}
	for _, f := range []*mathfunc.Formula{fns[0], fns[1], fns[3]} {
		if f.NumComponents() != 1 {
			return nil, types.NewConfigurationError("formula %q must be scalar", f.String())
		}
	}
	cfs = &finitevolume.CompressibleFlowState{
		EOS:            tp,
		Temperature:    fns[0],
		Pressure:       fns[1],
		Velocity:       fns[2],
		VolumeFraction: fns[3],
	}
	return
}

func newBoundaries(tp *eos.TwoPhase, b InputParameters.Boundary, dim int) (bcs []boundary.BoundaryCondition, err error) {
	var (
		flag types.BCFLAG
	)
	if flag, err = types.NewBCFLAG(b.Type); err != nil {
		return
	}
	switch flag {
	case types.BC_Reflective:
		bcs = []boundary.BoundaryCondition{
			boundary.NewReflective(b.Name, finitevolume.EulerField, b.Labels, b.LabelSet, finitevolume.RHOU),
			boundary.NewReflective(b.Name, finitevolume.DensityVolumeFractionField, b.Labels, b.LabelSet, -1),
			boundary.NewReflective(b.Name, finitevolume.VolumeFractionField, b.Labels, b.LabelSet, -1),
		}
		return
	case types.BC_Essential:
		var ffs []domain.FieldFunction
		if b.State != nil {
			var cfs *finitevolume.CompressibleFlowState
			if cfs, err = flowState(tp, *b.State, dim); err != nil {
				return
			}
			ffs = []domain.FieldFunction{
				domain.NewFieldFunction(finitevolume.EulerField, cfs.EulerFunction()),
				domain.NewFieldFunction(finitevolume.DensityVolumeFractionField, cfs.DensityVolumeFractionFunction()),
				domain.NewFieldFunction(finitevolume.VolumeFractionField, cfs.VolumeFractionFunction()),
			}
		}
		for _, field := range b.SortedFields() {
			var f *mathfunc.Formula
			if f, err = mathfunc.NewFormula(b.Fields[field]); err != nil {
				return
			}
			ffs = append(ffs, domain.NewFieldFunction(field, f))
		}
		if len(ffs) == 0 {
			return nil, types.NewConfigurationError("essential boundary needs Fields or a State")
		}
		for _, ff := range ffs {
			bcs = append(bcs, boundary.NewEssentialGhost(b.Name, b.Labels, ff, b.LabelSet, b.EnforceAtFace))
		}
		return
	}
	return nil, types.NewConfigurationError("boundary type %q cannot be built", b.Type)
}

func newMonitor(m InputParameters.Monitor) (mon solver.Monitor, err error) {
	var iv interval.Interval
	if iv, err = interval.New(m.Interval.Type, m.Interval.Value); err != nil {
		return nil, fmt.Errorf("monitor %s: %w", m.Type, err)
	}
	switch strings.ToLower(m.Type) {
	case "timestep":
		return monitors.NewTimeStep(iv), nil
	case "maxminaverage":
		return monitors.NewMaxMinAverage(m.Field, iv), nil
	}
	return nil, types.NewConfigurationError("unknown monitor %q", m.Type)
}

func stepperParameters(ip InputParameters.TimeStepper) (p solver.Parameters, err error) {
	p = solver.Parameters{
		Scheme:    ip.Scheme,
		MaxTime:   ip.MaxTime,
		MaxSteps:  ip.MaxSteps,
		InitialDt: ip.InitialDt,
		Adapt: solver.AdaptParameters{
			CFL:             ip.Adapt.CFL,
			MinDt:           ip.Adapt.MinDt,
			MaxDt:           ip.Adapt.MaxDt,
			MaxGrowth:       ip.Adapt.MaxGrowth,
			AllowStagnation: ip.Adapt.AllowStagnation,
		},
	}
	p.Adapt.Type, err = solver.NewAdaptType(ip.Adapt.Type)
	return
}
