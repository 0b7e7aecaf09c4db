package finitevolume

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/notargets/gofv/domain"
	"github.com/notargets/gofv/eos"
	"github.com/notargets/gofv/finitevolume/boundary"
	"github.com/notargets/gofv/mesh"
	"github.com/notargets/gofv/types"
)

type Options struct {
	ParallelDegree int          // 0 uses every CPU
	EOS            *eos.TwoPhase // recovers pressure, temperature and velocity, nil skips them
	Log            logrus.FieldLogger
}

// Solver owns the solution fields over a region and evaluates their right hand side from an
// ordered list of processes after filling ghost cells
type Solver struct {
	id         string
	region     domain.Region
	opts       Options
	processes  []Process
	boundaries []boundary.BoundaryCondition

	d            *domain.Domain
	cells        []int
	partitions   *mesh.Partitioning
	solFields    []*domain.Field
	rhsStorage   *domain.Storage
	rc           *RHSContext
	rhs          []float64
	size         int
	minCellSize  float64
	maxWaveSpeed float64
	aux          auxFields
	log          logrus.FieldLogger
}

type auxFields struct {
	euler, dvf, vf              *domain.Field
	pressure, temperature, velo *domain.Field
}

func NewSolver(id string, region domain.Region, opts Options, processes []Process,
	boundaries []boundary.BoundaryCondition) *Solver {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	return &Solver{
		id:         id,
		region:     region,
		opts:       opts,
		processes:  processes,
		boundaries: boundaries,
		log:        opts.Log.WithField("solver", id),
	}
}

func (s *Solver) ID() string { return s.id }

func (s *Solver) Domain() *domain.Domain { return s.d }

func (s *Solver) Cells() []int { return s.cells }

func (s *Solver) Partitions() *mesh.Partitioning { return s.partitions }

func (s *Solver) Setup(d *domain.Domain) (err error) {
	if d == nil {
		return types.NewConfigurationError("solver %q: no domain", s.id)
	}
	s.d = d
	if s.cells, err = d.RegionCells(s.region); err != nil {
		return
	}
	if s.solFields = d.Fields.Fields(domain.Solution); len(s.solFields) == 0 {
		return types.NewConfigurationError("solver %q: domain has no solution fields", s.id)
	}
	if len(s.processes) == 0 {
		s.log.Warnf("solver %q has no processes, the right hand side is zero", s.id)
	}
	s.partitions = mesh.NewPartitioning(d.Mesh, s.cells, s.opts.ParallelDegree)
	s.rhsStorage = domain.NewStorage(d.Fields, d.Mesh.NumCells())
	s.rc = NewRHSContext(d, s.partitions, s.rhsStorage)
	s.size = 0
	for _, f := range s.solFields {
		s.size += len(s.cells) * f.NumComponents()
	}
	s.rhs = make([]float64, s.size)
	s.minCellSize = d.Mesh.MinCellSize()
	for _, bc := range s.boundaries {
		if err = bc.Setup(d); err != nil {
			return fmt.Errorf("solver %q boundary %q: %w", s.id, bc.Name(), err)
		}
	}
	for _, p := range s.processes {
		if err = p.Setup(d); err != nil {
			return fmt.Errorf("solver %q process %q: %w", s.id, p.Name(), err)
		}
	}
	if s.opts.EOS != nil {
		if err = s.setupAuxiliary(); err != nil {
			return
		}
	}
	s.log.WithFields(logrus.Fields{
		"cells":      len(s.cells),
		"partitions": s.partitions.ParallelDegree(),
		"processes":  len(s.processes),
		"boundaries": len(s.boundaries),
	}).Infof("solver %q ready on region %q", s.id, s.region.Name)
	return
}

// Solution gathers the solution fields of the region into a new vector
func (s *Solver) Solution() (u []float64) {
	u = make([]float64, s.size)
	var offset int
	for _, f := range s.solFields {
		nc := f.NumComponents()
		for _, c := range s.cells {
			copy(u[offset:offset+nc], s.d.Data.Cell(f, c))
			offset += nc
		}
	}
	return
}

// SetSolution scatters u into cell storage
func (s *Solver) SetSolution(u []float64) (err error) {
	if len(u) != s.size {
		return fmt.Errorf("solver %q: solution has %d values, expected %d", s.id, len(u), s.size)
	}
	var offset int
	for _, f := range s.solFields {
		nc := f.NumComponents()
		for _, c := range s.cells {
			copy(s.d.Data.Cell(f, c), u[offset:offset+nc])
			offset += nc
		}
	}
	return
}

// EvaluateRHS computes du/dt at time for state u. The returned slice is reused by the next call.
func (s *Solver) EvaluateRHS(time float64, u []float64) (rhs []float64, err error) {
	if err = s.SetSolution(u); err != nil {
		return
	}
	for _, bc := range s.boundaries {
		if err = bc.Apply(time, s.d); err != nil {
			return nil, fmt.Errorf("boundary %q: %w", bc.Name(), err)
		}
	}
	for _, f := range s.solFields {
		s.rhsStorage.ZeroCells(f, s.cells)
	}
	s.rc.Reset(time)
	for _, p := range s.processes {
		if err = p.AccumulateRHS(s.rc); err != nil {
			return nil, fmt.Errorf("process %q: %w", p.Name(), err)
		}
	}
	var offset int
	for _, f := range s.solFields {
		nc := f.NumComponents()
		for _, c := range s.cells {
			copy(s.rhs[offset:offset+nc], s.rhsStorage.Cell(f, c))
			offset += nc
		}
	}
	s.maxWaveSpeed = s.rc.MaxWaveSpeed()
	rhs = s.rhs
	return
}

// StabilityEstimate reports the cell size and maximum wave speed of the last evaluation
func (s *Solver) StabilityEstimate() (cellSize, maxWaveSpeed float64) {
	return s.minCellSize, s.maxWaveSpeed
}

func (s *Solver) setupAuxiliary() (err error) {
	reg := s.d.Fields
	for _, name := range []string{EulerField, DensityVolumeFractionField, VolumeFractionField} {
		if !reg.HasField(name) {
			return types.NewConfigurationError("solver %q: auxiliary update needs field %q", s.id, name)
		}
	}
	s.aux.euler, _ = reg.Field(EulerField)
	s.aux.dvf, _ = reg.Field(DensityVolumeFractionField)
	s.aux.vf, _ = reg.Field(VolumeFractionField)
	if reg.HasField(PressureField) {
		s.aux.pressure, _ = reg.Field(PressureField)
	}
	if reg.HasField(TemperatureField) {
		s.aux.temperature, _ = reg.Field(TemperatureField)
	}
	if reg.HasField(VelocityField) {
		s.aux.velo, _ = reg.Field(VelocityField)
		if s.aux.velo.NumComponents() != s.d.Mesh.Dimension() {
			return types.NewConfigurationError("solver %q: velocity field has %d components in %d dimensions",
				s.id, s.aux.velo.NumComponents(), s.d.Mesh.Dimension())
		}
	}
	return
}

// UpdateAuxiliary recomputes pressure, temperature and velocity in the region from the solution
func (s *Solver) UpdateAuxiliary(time float64) (err error) {
	if s.opts.EOS == nil {
		return
	}
	return s.partitions.ParallelFor(func(np int, part *mesh.Partition) (err error) {
		for _, c := range part.Cells {
			if err = s.updateCell(c); err != nil {
				return
			}
		}
		return
	})
}

func (s *Solver) updateCell(c int) (err error) {
	var (
		data  = s.d.Data
		u     = data.Cell(s.aux.euler, c)
		state eos.State
		dec   eos.Decoded
		ke    float64
		dim   = s.d.Mesh.Dimension()
	)
	state.Density = u[RHO]
	for d := 0; d < dim; d++ {
		ke += u[RHOU+d] * u[RHOU+d]
	}
	ke *= 0.5 / u[RHO]
	state.InternalEnergy = (u[RHOE] - ke) / u[RHO]
	state.DensityVolumeFraction = data.Cell(s.aux.dvf, c)[0]
	state.VolumeFraction = data.Cell(s.aux.vf, c)[0]
	if dec, err = s.opts.EOS.Decode(state); err != nil {
		return &types.StateError{Field: EulerField, Cell: c, Err: err}
	}
	if s.aux.pressure != nil {
		data.Cell(s.aux.pressure, c)[0] = dec.Pressure
	}
	if s.aux.temperature != nil {
		data.Cell(s.aux.temperature, c)[0] = dec.Temperature
	}
	if s.aux.velo != nil {
		vel := data.Cell(s.aux.velo, c)
		for d := 0; d < dim; d++ {
			vel[d] = u[RHOU+d] / u[RHO]
		}
	}
	return
}

// Integrals integrates a vector in solution layout over the region, by field and component
func (s *Solver) Integrals(vec []float64) (sums map[string][]float64) {
	var (
		offset int
	)
	sums = make(map[string][]float64)
	for _, f := range s.solFields {
		var (
			nc  = f.NumComponents()
			sum = make([]float64, nc)
		)
		for _, c := range s.cells {
			v := s.d.Mesh.CellVolume(c)
			for n := 0; n < nc; n++ {
				sum[n] += vec[offset+n] * v
			}
			offset += nc
		}
		sums[f.Name] = sum
	}
	return
}
