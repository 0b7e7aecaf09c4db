// Package monitors reports on the progress of a solve through logrus.
package monitors

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gofv/domain"
	"github.com/notargets/gofv/interval"
	"github.com/notargets/gofv/solver"
)

// TimeStep logs the step, time and step size
type TimeStep struct {
	interval.Interval
	Log logrus.FieldLogger
}

func NewTimeStep(iv interval.Interval) *TimeStep {
	return &TimeStep{Interval: iv, Log: logrus.StandardLogger()}
}

func (ts *TimeStep) Name() string { return "TimeStep" }

func (ts *TimeStep) Invoke(info solver.StepInfo, s solver.Solver) error {
	ts.Log.WithFields(logrus.Fields{
		"solver":  s.ID(),
		"elapsed": info.Elapsed,
	}).Infof("%8d %12.5e %12.5e", info.Step, info.Time, info.Dt)
	return nil
}

// Statistics of one field component over a region
type Statistics struct {
	Min, Max, Average float64
}

// MaxMinAverage logs the extremes and volume average of every component of a field
type MaxMinAverage struct {
	interval.Interval
	Field string
	Log   logrus.FieldLogger
	Last  []Statistics
}

func NewMaxMinAverage(field string, iv interval.Interval) *MaxMinAverage {
	return &MaxMinAverage{Interval: iv, Field: field, Log: logrus.StandardLogger()}
}

func (mm *MaxMinAverage) Name() string { return "MaxMinAverage(" + mm.Field + ")" }

func (mm *MaxMinAverage) Invoke(info solver.StepInfo, s solver.Solver) (err error) {
	var (
		d     = s.Domain()
		cells = s.Cells()
		f     *domain.Field
	)
	if f, err = d.Fields.Field(mm.Field); err != nil {
		return
	}
	if len(cells) == 0 {
		return fmt.Errorf("monitor %s: solver %q has no cells", mm.Name(), s.ID())
	}
	var (
		nc      = f.NumComponents()
		vals    = make([]float64, len(cells))
		volumes = make([]float64, len(cells))
	)
	for i, c := range cells {
		volumes[i] = d.Mesh.CellVolume(c)
	}
	total := floats.Sum(volumes)
	mm.Last = make([]Statistics, nc)
	for n := 0; n < nc; n++ {
		for i, c := range cells {
			vals[i] = d.Data.Cell(f, c)[n]
		}
		st := Statistics{Min: floats.Min(vals), Max: floats.Max(vals), Average: floats.Dot(vals, volumes) / total}
		if math.IsNaN(st.Average) {
			mm.Log.Warnf("%s component %s is not finite at step %d", mm.Field, f.ComponentName(n), info.Step)
		}
		mm.Last[n] = st
		mm.Log.WithFields(logrus.Fields{
			"solver": s.ID(),
			"step":   info.Step,
		}).Infof("%s min %12.5e max %12.5e avg %12.5e", f.ComponentName(n), st.Min, st.Max, st.Average)
	}
	return
}
