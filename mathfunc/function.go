// Package mathfunc provides the field functions used to initialize and constrain solution fields.
package mathfunc

import (
	"fmt"

	"github.com/notargets/gofv/types"
)

// Function evaluates NumComponents values at a point and time. Points always carry three
// coordinates, trailing ones are zero for lower dimensional meshes.
type Function interface {
	NumComponents() int
	Eval(x [3]float64, t float64, out []float64) error
}

type Constant []float64

func NewConstant(values ...float64) Constant {
	c := make(Constant, len(values))
	copy(c, values)
	return c
}

func (c Constant) NumComponents() int { return len(c) }

func (c Constant) Eval(_ [3]float64, _ float64, out []float64) error {
	if len(out) < len(c) {
		return fmt.Errorf("constant: output holds %d values, need %d", len(out), len(c))
	}
	copy(out, c)
	return nil
}

// Func wraps a Go function as a Function
type Func struct {
	N int
	F func(x [3]float64, t float64, out []float64) error
}

func (f Func) NumComponents() int { return f.N }

func (f Func) Eval(x [3]float64, t float64, out []float64) error {
	if len(out) < f.N {
		return fmt.Errorf("func: output holds %d values, need %d", len(out), f.N)
	}
	return f.F(x, t, out)
}

// Scalar evaluates a single component function
func Scalar(fn Function, x [3]float64, t float64) (v float64, err error) {
	if fn.NumComponents() != 1 {
		err = types.NewConfigurationError("expected a scalar function, have %d components", fn.NumComponents())
		return
	}
	var out [1]float64
	if err = fn.Eval(x, t, out[:]); err != nil {
		return
	}
	v = out[0]
	return
}

// Concat stacks the components of several functions
type Concat []Function

func (c Concat) NumComponents() (n int) {
	for _, f := range c {
		n += f.NumComponents()
	}
	return
}

func (c Concat) Eval(x [3]float64, t float64, out []float64) error {
	if len(out) < c.NumComponents() {
		return fmt.Errorf("concat: output holds %d values, need %d", len(out), c.NumComponents())
	}
	var offset int
	for _, f := range c {
		n := f.NumComponents()
		if err := f.Eval(x, t, out[offset:offset+n]); err != nil {
			return err
		}
		offset += n
	}
	return nil
}
