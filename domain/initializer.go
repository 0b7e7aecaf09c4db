package domain

import (
	"github.com/notargets/gofv/mathfunc"
	"github.com/notargets/gofv/types"
)

// FieldFunction assigns a function to a named field
type FieldFunction struct {
	Field    string
	Function mathfunc.Function
}

func NewFieldFunction(field string, fn mathfunc.Function) FieldFunction {
	return FieldFunction{Field: field, Function: fn}
}

// Resolve checks the field exists and matches the function's component count
func (ff FieldFunction) Resolve(d *Domain) (f *Field, err error) {
	if ff.Function == nil {
		err = types.NewConfigurationError("field function for %q has no function", ff.Field)
		return
	}
	if f, err = d.Fields.Field(ff.Field); err != nil {
		return
	}
	if f.NumComponents() != ff.Function.NumComponents() {
		err = types.NewConfigurationError("field %q has %d components, function provides %d",
			ff.Field, f.NumComponents(), ff.Function.NumComponents())
		return nil, err
	}
	return
}

// Initializer sets solution fields from functions of position at the start time
type Initializer []FieldFunction

// Apply evaluates each function at every cell centroid, ghost cells included
func (in Initializer) Apply(d *Domain, time float64) (err error) {
	for _, ff := range in {
		var f *Field
		if f, err = ff.Resolve(d); err != nil {
			return
		}
		for c := 0; c < d.Mesh.NumCells(); c++ {
			if err = ff.Function.Eval(d.Mesh.CellCentroid(c), time, d.Data.Cell(f, c)); err != nil {
				return
			}
		}
	}
	return
}
