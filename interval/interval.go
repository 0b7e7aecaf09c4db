// Package interval decides when monitors and serializers fire.
package interval

import (
	"math"
	"strings"
	"time"

	"github.com/notargets/gofv/types"
)

type Interval interface {
	IsDue(step int, time float64) bool
}

// Fixed fires every N steps, every step when N <= 1
type Fixed struct {
	N int
}

func (f Fixed) IsDue(step int, _ float64) bool {
	if f.N <= 1 {
		return true
	}
	return step%f.N == 0
}

// SimulationTime fires the first time each multiple of Dt is reached
type SimulationTime struct {
	Dt   float64
	last int
}

func NewSimulationTime(dt float64) (st *SimulationTime, err error) {
	if !(dt > 0) {
		err = types.NewConfigurationError("simulation time interval %g must be positive", dt)
		return
	}
	st = &SimulationTime{Dt: dt, last: -1}
	return
}

func (st *SimulationTime) IsDue(_ int, t float64) bool {
	var (
		eps = 1.e-9 * st.Dt
		n   = int(math.Floor((t + eps) / st.Dt))
	)
	if n <= st.last {
		return false
	}
	st.last = n
	return true
}

// WallTime fires when at least Period of real time has passed since it last fired
type WallTime struct {
	Period time.Duration
	last   time.Time
	now    func() time.Time
}

func NewWallTime(period time.Duration) (wt *WallTime, err error) {
	if period <= 0 {
		err = types.NewConfigurationError("wall time interval %v must be positive", period)
		return
	}
	wt = &WallTime{Period: period, now: time.Now}
	return
}

func (wt *WallTime) IsDue(_ int, _ float64) bool {
	now := wt.now()
	if !wt.last.IsZero() && now.Sub(wt.last) < wt.Period {
		return false
	}
	wt.last = now
	return true
}

// New builds an interval from a case file entry: "fixed" takes a step count, "simulationTime"
// a simulated duration and "wallTime" seconds of real time
func New(kind string, value float64) (iv Interval, err error) {
	switch strings.ToLower(kind) {
	case "", "fixed", "steps":
		if value < 0 || value != math.Trunc(value) {
			return nil, types.NewConfigurationError("fixed interval needs a whole step count, have %g", value)
		}
		return Fixed{N: int(value)}, nil
	case "simulationtime", "time":
		return NewSimulationTime(value)
	case "walltime":
		return NewWallTime(time.Duration(value * float64(time.Second)))
	}
	return nil, types.NewConfigurationError("unknown interval type %q", kind)
}
