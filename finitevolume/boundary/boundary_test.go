package boundary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofv/domain"
	"github.com/notargets/gofv/mathfunc"
	"github.com/notargets/gofv/mesh"
	"github.com/notargets/gofv/types"
)

func newDomain(t *testing.T) *domain.Domain {
	bm, err := mesh.NewBoxMesh("box", []int{4, 4}, []float64{-2, -2}, []float64{2, 2}, 0)
	require.NoError(t, err)
	d, err := domain.NewDomain("test", bm,
		domain.FieldDescription{Name: "euler", Components: []string{"rho", "rhoE", "rhoU", "rhoV"}},
		domain.FieldDescription{Name: "volumeFraction"})
	require.NoError(t, err)
	init := domain.Initializer{
		domain.NewFieldFunction("euler", mathfunc.Func{N: 4, F: func(x [3]float64, _ float64, out []float64) error {
			out[0], out[1], out[2], out[3] = 1+0.1*x[0], 2.5e5, 10+x[0], -20+x[1]
			return nil
		}}),
		domain.NewFieldFunction("volumeFraction", mathfunc.NewConstant(0.3)),
	}
	require.NoError(t, init.Apply(d, 0))
	return d
}

func snapshot(d *domain.Domain) (vals [][]float64) {
	for _, f := range d.Fields.All() {
		vals = append(vals, append([]float64{}, d.Data.Values(f)...))
	}
	return
}

func TestEssentialGhost(t *testing.T) {
	d := newDomain(t)
	walls, err := mathfunc.NewFormula("1.1614401858304297, 1.1614401858304297*215250.0, 0.0, 0.0")
	require.NoError(t, err)
	bc := NewEssentialGhost("walls", []int{1, 2, 3, 4}, domain.NewFieldFunction("euler", walls), "", false)
	require.NoError(t, bc.Setup(d))
	assert.Equal(t, "euler", bc.FieldName())
	assert.Equal(t, 16, len(bc.faces))
	before := snapshot(d)
	require.NoError(t, bc.Apply(0, d))
	once := snapshot(d)
	require.NoError(t, bc.Apply(0, d))
	assert.Equal(t, once, snapshot(d)) // idempotent
	var (
		euler, _ = d.Fields.Field("euler")
		rho      = 1.1614401858304297
		rhoE     = rho * 215250.0
	)
	for c := 0; c < d.Mesh.NumCells(); c++ {
		if d.Mesh.IsGhost(c) {
			assert.Equal(t, []float64{rho, rhoE, 0, 0}, d.Data.Cell(euler, c))
			continue
		}
		// Interior untouched
		assert.Equal(t, before[euler.ID][c*4:(c+1)*4], d.Data.Cell(euler, c))
	}
	{ // Face enforced values average to the prescription
		vf := NewEssentialGhost("vf", []int{2}, domain.NewFieldFunction("volumeFraction", mathfunc.NewConstant(1)),
			mesh.FaceSets, true)
		require.NoError(t, vf.Setup(d))
		require.NoError(t, vf.Apply(0, d))
		field, _ := d.Fields.Field("volumeFraction")
		for _, fi := range vf.faces {
			f := d.Mesh.Faces()[fi]
			assert.InDelta(t, 1., 0.5*(d.Data.Cell(field, f.Left)[0]+d.Data.Cell(field, f.Right)[0]), 1.e-15)
		}
	}
	{ // Configuration errors
		for _, bad := range []BoundaryCondition{
			NewEssentialGhost("bad", []int{9}, domain.NewFieldFunction("euler", walls), "", false),
			NewEssentialGhost("bad", []int{1}, domain.NewFieldFunction("euler", mathfunc.NewConstant(1)), "", false),
			NewEssentialGhost("bad", []int{1}, domain.NewFieldFunction("density", walls), "", false),
			NewEssentialGhost("bad", nil, domain.NewFieldFunction("euler", walls), "", false),
			NewEssentialGhost("bad", []int{1}, domain.NewFieldFunction("euler", walls), "Cell Sets", false),
		} {
			assert.True(t, errors.Is(bad.Setup(d), types.ErrConfiguration))
		}
	}
}

func TestReflective(t *testing.T) {
	d := newDomain(t)
	bc := NewReflective("slip", "euler", []int{1, 2, 3, 4, 4}, mesh.FaceSets, 2)
	require.NoError(t, bc.Setup(d))
	assert.Equal(t, 16, len(bc.faces))
	require.NoError(t, bc.Apply(0, d))
	euler, _ := d.Fields.Field("euler")
	for _, fi := range bc.faces {
		var (
			f  = d.Mesh.Faces()[fi]
			in = d.Data.Cell(euler, f.Left)
			gh = d.Data.Cell(euler, f.Right)
		)
		assert.Equal(t, in[0], gh[0])
		assert.Equal(t, in[1], gh[1])
		if f.Normal[0] != 0 {
			assert.Equal(t, -in[2], gh[2])
			assert.Equal(t, in[3], gh[3])
		} else {
			assert.Equal(t, in[2], gh[2])
			assert.Equal(t, -in[3], gh[3])
		}
	}
	copyBC := NewReflective("copy", "volumeFraction", []int{1}, "", -1)
	require.NoError(t, copyBC.Setup(d))
	require.NoError(t, copyBC.Apply(0, d))
	assert.True(t, errors.Is(NewReflective("bad", "volumeFraction", []int{1}, "", 0).Setup(d), types.ErrConfiguration))
	assert.True(t, errors.Is(NewReflective("bad", "pressure", []int{1}, "", -1).Setup(d), types.ErrConfiguration))
}
