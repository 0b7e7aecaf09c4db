// Package process holds the right hand side contributions of the flow solver.
package process

import (
	"fmt"

	"github.com/notargets/gofv/domain"
	"github.com/notargets/gofv/eos"
	"github.com/notargets/gofv/finitevolume"
	"github.com/notargets/gofv/finitevolume/fluxcalc"
	"github.com/notargets/gofv/mesh"
	"github.com/notargets/gofv/types"
	"github.com/notargets/gofv/utils"
)

// TwoPhaseEulerAdvection is the inviscid flux of a two phase mixture. Mass, momentum, energy and
// gas partial density are advanced in conservation form, the volume fraction by upwind advection
// along the interface velocity.
type TwoPhaseEulerAdvection struct {
	eos     *eos.TwoPhase
	fluxes  *fluxcalc.Set
	euler   *domain.Field
	dvf, vf *domain.Field
	dim     int
	cells   []cellState // decoded state of every mesh cell
	// cells read by the faces of the last partitioning seen
	touched   []int
	touchedOf *mesh.Partitioning
}

type cellState struct {
	side  fluxcalc.Side
	alpha float64
	y1    float64
	gas   bool
}

func NewTwoPhaseEulerAdvection(tp *eos.TwoPhase, fluxes *fluxcalc.Set) (p *TwoPhaseEulerAdvection, err error) {
	if tp == nil || fluxes == nil {
		err = types.NewConfigurationError("two phase advection requires an EOS and flux calculators")
		return
	}
	p = &TwoPhaseEulerAdvection{eos: tp, fluxes: fluxes}
	return
}

func (p *TwoPhaseEulerAdvection) Name() string { return "TwoPhaseEulerAdvection" }

func (p *TwoPhaseEulerAdvection) Setup(d *domain.Domain) (err error) {
	p.dim = d.Mesh.Dimension()
	if p.euler, err = d.Fields.Field(finitevolume.EulerField); err != nil {
		return
	}
	if p.euler.NumComponents() != 2+p.dim {
		return types.NewConfigurationError("field %q has %d components, need %d in %d dimensions",
			p.euler.Name, p.euler.NumComponents(), 2+p.dim, p.dim)
	}
	if p.dvf, err = d.Fields.Field(finitevolume.DensityVolumeFractionField); err != nil {
		return
	}
	if p.vf, err = d.Fields.Field(finitevolume.VolumeFractionField); err != nil {
		return
	}
	if p.dvf.NumComponents() != 1 || p.vf.NumComponents() != 1 {
		return types.NewConfigurationError("volume fraction fields must be scalar")
	}
	p.cells = make([]cellState, d.Mesh.NumCells())
	p.touchedOf = nil
	return
}

func (p *TwoPhaseEulerAdvection) touchedCells(m mesh.Mesh, parts *mesh.Partitioning) []int {
	if p.touchedOf == parts {
		return p.touched
	}
	var (
		faces = m.Faces()
		seen  = make([]bool, m.NumCells())
	)
	p.touched = p.touched[:0]
	for _, part := range parts.Partitions {
		for _, fi := range part.Faces {
			for _, c := range []int{faces[fi].Left, faces[fi].Right} {
				if !seen[c] {
					seen[c] = true
					p.touched = append(p.touched, c)
				}
			}
		}
	}
	p.touchedOf = parts
	return p.touched
}

func (p *TwoPhaseEulerAdvection) decode(data *domain.Storage, c int) (err error) {
	var (
		u     = data.Cell(p.euler, c)
		cs    = &p.cells[c]
		state eos.State
		dec   eos.Decoded
		ke    float64
	)
	cs.side = fluxcalc.Side{Density: u[finitevolume.RHO]}
	for d := 0; d < p.dim; d++ {
		cs.side.Velocity[d] = u[finitevolume.RHOU+d] / u[finitevolume.RHO]
		ke += cs.side.Velocity[d] * u[finitevolume.RHOU+d]
	}
	cs.side.InternalEnergyDensity = u[finitevolume.RHOE] - 0.5*ke
	state = eos.State{
		Density:               u[finitevolume.RHO],
		InternalEnergy:        cs.side.InternalEnergyDensity / u[finitevolume.RHO],
		DensityVolumeFraction: data.Cell(p.dvf, c)[0],
		VolumeFraction:        data.Cell(p.vf, c)[0],
	}
	if dec, err = p.eos.Decode(state); err != nil {
		return &types.StateError{Field: p.euler.Name, Cell: c, Err: err}
	}
	cs.side.Pressure = dec.Pressure
	cs.side.SoundSpeed = dec.SoundSpeed
	cs.alpha = dec.VolumeFraction
	cs.y1 = dec.MassFraction
	cs.gas = cs.alpha >= 0.5
	return
}

func (p *TwoPhaseEulerAdvection) AccumulateRHS(rc *finitevolume.RHSContext) (err error) {
	var (
		m       = rc.Domain.Mesh
		data    = rc.Domain.Data
		touched = p.touchedCells(m, rc.Partitions)
		pm      = utils.NewPartitionMap(rc.Partitions.ParallelDegree(), len(touched))
	)
	if err = pm.ParallelFor(func(_, kMin, kMax int) (err error) {
		for _, c := range touched[kMin:kMax] {
			if err = p.decode(data, c); err != nil {
				return
			}
		}
		return
	}); err != nil {
		return
	}
	return rc.Partitions.ParallelFor(func(np int, part *mesh.Partition) error {
		return p.accumulatePartition(rc, np, part)
	})
}

func (p *TwoPhaseEulerAdvection) accumulatePartition(rc *finitevolume.RHSContext, np int, part *mesh.Partition) (err error) {
	var (
		m     = rc.Domain.Mesh
		faces = m.Faces()
		euler = rc.RHS.Values(p.euler)
		dvf   = rc.RHS.Values(p.dvf)
		vf    = rc.RHS.Values(p.vf)
		nc    = p.euler.NumComponents()
	)
	for _, fi := range part.Faces {
		var (
			f         = faces[fi]
			L, R      = &p.cells[f.Left], &p.cells[f.Right]
			flux      fluxcalc.Flux
			y1, alpha float64
		)
		if flux, err = p.fluxes.ComputeFlux(L.gas, R.gas, L.side, R.side, f.Normal); err != nil {
			return &types.StateError{Field: p.euler.Name, Cell: f.Left, Err: fmt.Errorf("face %d: %w", fi, err)}
		}
		rc.ReportWaveSpeed(np, flux.MaxWaveSpeed)
		if flux.UpwindLeft() {
			y1, alpha = L.y1, L.alpha
		} else {
			y1, alpha = R.y1, R.alpha
		}
		massY1 := flux.Mass * y1
		for _, side := range [2]struct {
			cell int
			sign float64
			cs   *cellState
		}{{f.Left, -1, L}, {f.Right, 1, R}} {
			if rc.Partitions.Owner(side.cell) != np {
				continue
			}
			var (
				scale = f.Area / m.CellVolume(side.cell)
				u     = euler[side.cell*nc : (side.cell+1)*nc]
			)
			u[finitevolume.RHO] += side.sign * scale * flux.Mass
			u[finitevolume.RHOE] += side.sign * scale * flux.Energy
			for d := 0; d < p.dim; d++ {
				u[finitevolume.RHOU+d] += side.sign * scale * flux.Momentum[d]
			}
			dvf[side.cell] += side.sign * scale * massY1
			vf[side.cell] += side.sign * scale * flux.StarVelocity * (alpha - side.cs.alpha)
		}
	}
	return
}
