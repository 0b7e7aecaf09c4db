// Package solver advances registered solvers in time with an explicit scheme and an adaptive
// step size, invoking monitors and the serializer as they fall due.
package solver

import (
	"time"

	"github.com/notargets/gofv/domain"
)

// Solver is a semi discrete system du/dt = rhs(t, u) over a region of a domain
type Solver interface {
	ID() string
	Setup(d *domain.Domain) error
	Domain() *domain.Domain
	Cells() []int
	Solution() []float64
	SetSolution(u []float64) error
	EvaluateRHS(time float64, u []float64) ([]float64, error)
	// StabilityEstimate reports the smallest cell size and largest wave speed of the last evaluation
	StabilityEstimate() (cellSize, maxWaveSpeed float64)
	UpdateAuxiliary(time float64) error
}

type StepInfo struct {
	Step     int
	Time, Dt float64
	Elapsed  time.Duration // wall time spent stepping
}

type Monitor interface {
	Name() string
	IsDue(step int, time float64) bool
	Invoke(info StepInfo, s Solver) error
}

type Serializer interface {
	IsDue(step int, time float64) bool
	Serialize(info StepInfo, d *domain.Domain) error
}
