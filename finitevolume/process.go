package finitevolume

import (
	"math"

	"github.com/notargets/gofv/domain"
	"github.com/notargets/gofv/mesh"
)

// Process contributes flux divergence increments to the right hand side
type Process interface {
	Name() string
	Setup(d *domain.Domain) error
	// AccumulateRHS adds into rc.RHS for the cells of rc.Partitions and may read any cell of rc.Domain
	AccumulateRHS(rc *RHSContext) error
}

type RHSContext struct {
	Time       float64
	Domain     *domain.Domain
	Partitions *mesh.Partitioning
	RHS        *domain.Storage
	waveSpeed  []float64
}

func NewRHSContext(d *domain.Domain, partitions *mesh.Partitioning, rhs *domain.Storage) *RHSContext {
	return &RHSContext{
		Domain:     d,
		Partitions: partitions,
		RHS:        rhs,
		waveSpeed:  make([]float64, partitions.ParallelDegree()),
	}
}

func (rc *RHSContext) Reset(time float64) {
	rc.Time = time
	for i := range rc.waveSpeed {
		rc.waveSpeed[i] = 0
	}
}

// ReportWaveSpeed records the largest signal speed seen by partition np
func (rc *RHSContext) ReportWaveSpeed(np int, s float64) {
	if s > rc.waveSpeed[np] {
		rc.waveSpeed[np] = s
	}
}

func (rc *RHSContext) MaxWaveSpeed() (s float64) {
	for _, ws := range rc.waveSpeed {
		s = math.Max(s, ws)
	}
	return
}
