package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/notargets/gofv/domain"
	"github.com/notargets/gofv/types"
)

type State uint8

const (
	Idle State = iota
	Stepping
	Finalizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Stepping:
		return "Stepping"
	case Finalizing:
		return "Finalizing"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

type registration struct {
	solver   Solver
	monitors []Monitor
}

type TimeStepper struct {
	name        string
	d           *domain.Domain
	params      Parameters
	scheme      Scheme
	serializer  Serializer
	initializer domain.Initializer
	controller  *Controller
	entries     []registration
	log         logrus.FieldLogger

	state       State
	initialized bool
	time, dt    float64
	step        int
	elapsed     time.Duration
	eps         float64
	// per solver stage storage
	u0, stage, next [][]float64
}

// NewTimeStepper validates the parameters; the initializer is applied to the domain on the first
// Solve and may be nil when the solution is already set
func NewTimeStepper(name string, d *domain.Domain, params Parameters, serializer Serializer,
	initializer domain.Initializer) (ts *TimeStepper, err error) {
	if d == nil {
		err = types.NewConfigurationError("time stepper %q: no domain", name)
		return
	}
	if err = params.Validate(); err != nil {
		return
	}
	params = params.withDefaults()
	ts = &TimeStepper{
		name:        name,
		d:           d,
		params:      params,
		serializer:  serializer,
		initializer: initializer,
		dt:          params.InitialDt,
		log:         logrus.WithField("stepper", name),
	}
	ts.scheme, _ = NewScheme(params.Scheme)
	ts.controller = NewController(params.Adapt, ts.log)
	ts.eps = 1.e-12 * math.Max(1, math.Abs(params.MaxTime))
	if math.IsInf(params.MaxTime, 1) {
		ts.eps = 0
	}
	return
}

// Register sets up a solver on the stepper's domain and attaches its monitors
func (ts *TimeStepper) Register(s Solver, monitors ...Monitor) (err error) {
	if ts.state != Idle || ts.initialized {
		return types.NewConfigurationError("time stepper %q: register before solving", ts.name)
	}
	for _, e := range ts.entries {
		if e.solver.ID() == s.ID() {
			return types.NewConfigurationError("time stepper %q: solver %q registered twice", ts.name, s.ID())
		}
	}
	if err = s.Setup(ts.d); err != nil {
		return
	}
	ts.entries = append(ts.entries, registration{solver: s, monitors: monitors})
	return
}

func (ts *TimeStepper) Name() string            { return ts.name }
func (ts *TimeStepper) Domain() *domain.Domain  { return ts.d }
func (ts *TimeStepper) State() State            { return ts.state }
func (ts *TimeStepper) Time() float64           { return ts.time }
func (ts *TimeStepper) Step() int               { return ts.step }
func (ts *TimeStepper) Dt() float64             { return ts.dt }
func (ts *TimeStepper) History() []float64      { return ts.controller.History() }
func (ts *TimeStepper) Parameters() Parameters  { return ts.params }
func (ts *TimeStepper) Controller() *Controller { return ts.controller }

func (ts *TimeStepper) Solvers() (solvers []Solver) {
	for _, e := range ts.entries {
		solvers = append(solvers, e.solver)
	}
	return
}

func (ts *TimeStepper) info() StepInfo {
	return StepInfo{Step: ts.step, Time: ts.time, Dt: ts.dt, Elapsed: ts.elapsed}
}

func (ts *TimeStepper) finished() bool {
	if ts.params.MaxSteps > 0 && ts.step >= ts.params.MaxSteps {
		return true
	}
	return ts.time >= ts.params.MaxTime-ts.eps
}

// Solve steps until MaxTime or MaxSteps is reached or ctx is cancelled. A cancelled stepper
// resumes where it stopped on the next call.
func (ts *TimeStepper) Solve(ctx context.Context) (err error) {
	if ts.state == Finalizing {
		return fmt.Errorf("time stepper %q: %w", ts.name, types.ErrFinalized)
	}
	if len(ts.entries) == 0 {
		return types.NewConfigurationError("time stepper %q has no solvers", ts.name)
	}
	if !ts.initialized {
		if err = ts.initialize(); err != nil {
			return
		}
	}
	ts.state = Stepping
	ts.log.WithFields(logrus.Fields{
		"scheme":  ts.scheme.Name,
		"maxTime": ts.params.MaxTime,
		"dt":      ts.dt,
	}).Infof("solving from t=%g step %d", ts.time, ts.step)
	for !ts.finished() {
		select {
		case <-ctx.Done():
			ts.state = Idle
			ts.log.Infof("cancelled at t=%g step %d", ts.time, ts.step)
			return ctx.Err()
		default:
		}
		start := time.Now()
		err = ts.advance()
		ts.elapsed += time.Since(start)
		if err != nil {
			return
		}
		if err = ts.report(); err != nil {
			return
		}
	}
	ts.state = Finalizing
	ts.log.WithField("elapsed", ts.elapsed).Infof("finished at t=%g after %d steps", ts.time, ts.step)
	return
}

func (ts *TimeStepper) initialize() (err error) {
	if ts.initializer != nil {
		if err = ts.initializer.Apply(ts.d, ts.time); err != nil {
			return
		}
	}
	ts.u0 = make([][]float64, len(ts.entries))
	ts.stage = make([][]float64, len(ts.entries))
	ts.next = make([][]float64, len(ts.entries))
	for i, e := range ts.entries {
		n := len(e.solver.Solution())
		ts.u0[i], ts.stage[i], ts.next[i] = make([]float64, n), make([]float64, n), make([]float64, n)
		if err = e.solver.UpdateAuxiliary(ts.time); err != nil {
			return ts.stepError(e.solver, err)
		}
	}
	ts.initialized = true
	if ts.serializer != nil && ts.serializer.IsDue(ts.step, ts.time) {
		if err = ts.serializer.Serialize(ts.info(), ts.d); err != nil {
			return fmt.Errorf("serializer at step %d: %w", ts.step, err)
		}
	}
	return
}

func (ts *TimeStepper) stepError(s Solver, err error) error {
	id := ""
	if s != nil {
		id = s.ID()
	}
	return &types.StepError{Solver: id, Step: ts.step, Time: ts.time, Err: err}
}

// evaluate computes every solver's right hand side for its stage state. All states are placed in
// the domain first so that solvers sharing it see each other's stage values.
func (ts *TimeStepper) evaluate(t float64, states [][]float64) (rhs [][]float64, err error) {
	for i, e := range ts.entries {
		if err = e.solver.SetSolution(states[i]); err != nil {
			return nil, ts.stepError(e.solver, err)
		}
	}
	rhs = make([][]float64, len(ts.entries))
	for i, e := range ts.entries {
		if rhs[i], err = e.solver.EvaluateRHS(t, states[i]); err != nil {
			return nil, ts.stepError(e.solver, err)
		}
	}
	return
}

func (ts *TimeStepper) bound() float64 {
	estimates := make([][2]float64, len(ts.entries))
	for i, e := range ts.entries {
		estimates[i][0], estimates[i][1] = e.solver.StabilityEstimate()
	}
	return ts.controller.Bound(estimates)
}

func (ts *TimeStepper) restore() {
	for i, e := range ts.entries {
		_ = e.solver.SetSolution(ts.u0[i])
	}
}

// advance takes one step of the scheme. On failure the solution is left as it was.
func (ts *TimeStepper) advance() (err error) {
	var (
		rhs       [][]float64
		dt, bound float64
		truncated bool
	)
	for i, e := range ts.entries {
		copy(ts.u0[i], e.solver.Solution())
	}
	if rhs, err = ts.evaluate(ts.time, ts.u0); err != nil {
		ts.restore()
		return
	}
	bound = ts.bound()
	if dt, err = ts.controller.Limit(ts.dt, bound); err != nil {
		ts.restore()
		return ts.stepError(nil, err)
	}
	if remaining := ts.params.MaxTime - ts.time; dt >= remaining-ts.eps {
		dt, truncated = remaining, true
	}
	var (
		prev = ts.u0
		bufs = [2][][]float64{ts.stage, ts.next}
	)
	for k, st := range ts.scheme.Stages {
		if k > 0 {
			if rhs, err = ts.evaluate(ts.time+st.T*dt, prev); err != nil {
				ts.restore()
				return
			}
		}
		dst := bufs[k%2]
		for i := range ts.entries {
			st.combine(dst[i], ts.u0[i], prev[i], rhs[i], dt)
		}
		prev = dst
	}
	for i, e := range ts.entries {
		if err = e.solver.SetSolution(prev[i]); err != nil {
			ts.restore()
			return ts.stepError(e.solver, err)
		}
	}
	ts.time += dt
	if truncated {
		ts.time = ts.params.MaxTime
	}
	ts.step++
	ts.controller.Record(dt)
	for _, e := range ts.entries {
		if err = e.solver.UpdateAuxiliary(ts.time); err != nil {
			return ts.stepError(e.solver, err)
		}
	}
	if !truncated {
		// The stage one estimate of the step just taken bounds the next
		if ts.dt, err = ts.controller.Next(dt, bound); err != nil {
			return ts.stepError(nil, err)
		}
	}
	return
}

func (ts *TimeStepper) report() (err error) {
	info := ts.info()
	for _, e := range ts.entries {
		for _, m := range e.monitors {
			if !m.IsDue(ts.step, ts.time) {
				continue
			}
			if err = m.Invoke(info, e.solver); err != nil {
				return fmt.Errorf("monitor %q: %w", m.Name(), ts.stepError(e.solver, err))
			}
		}
	}
	if ts.serializer != nil && ts.serializer.IsDue(ts.step, ts.time) {
		if err = ts.serializer.Serialize(info, ts.d); err != nil {
			return fmt.Errorf("serializer: %w", ts.stepError(nil, err))
		}
	}
	return
}
