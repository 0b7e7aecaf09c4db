package solver

import (
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gofv/types"
)

// Stage of an explicit scheme in Shu-Osher form:
// u_k = A u_0 + B u_(k-1) + C dt rhs(t + T dt, u_(k-1))
type Stage struct {
	A, B, C, T float64
}

type Scheme struct {
	Name   string
	Stages []Stage
}

var schemes = map[string]Scheme{
	"euler": {Name: "euler", Stages: []Stage{{0, 1, 1, 0}}},
	"rk2ssp": {Name: "rk2ssp", Stages: []Stage{
		{0, 1, 1, 0},
		{0.5, 0.5, 0.5, 1},
	}},
	"rk3ssp": {Name: "rk3ssp", Stages: []Stage{
		{0, 1, 1, 0},
		{0.75, 0.25, 0.25, 1},
		{1. / 3., 2. / 3., 2. / 3., 0.5},
	}},
}

func NewScheme(name string) (s Scheme, err error) {
	var ok bool
	if s, ok = schemes[strings.ToLower(name)]; !ok {
		err = types.NewConfigurationError("unknown time integration scheme %q", name)
	}
	return
}

// combine writes the stage update into dst
func (st Stage) combine(dst, u0, prev, rhs []float64, dt float64) {
	if st.A == 0 {
		copy(dst, prev)
		if st.B != 1 {
			floats.Scale(st.B, dst)
		}
	} else {
		floats.ScaleTo(dst, st.A, u0)
		floats.AddScaled(dst, st.B, prev)
	}
	floats.AddScaled(dst, st.C*dt, rhs)
}
