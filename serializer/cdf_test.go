package serializer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofv/domain"
	"github.com/notargets/gofv/interval"
	"github.com/notargets/gofv/mathfunc"
	"github.com/notargets/gofv/mesh"
	"github.com/notargets/gofv/solver"
)

func TestCDFRoundTrip(t *testing.T) {
	bm, err := mesh.NewBoxMesh("box", []int{3, 2}, []float64{0, 0}, []float64{3, 2}, 0)
	require.NoError(t, err)
	d, err := domain.NewDomain("box", bm,
		domain.FieldDescription{Name: "euler", Components: []string{"rho", "rhoE", "rhoU", "rhoV"}},
		domain.FieldDescription{Name: "pressure", Location: domain.Auxiliary})
	require.NoError(t, err)
	require.NoError(t, domain.Initializer{
		domain.NewFieldFunction("euler", mathfunc.Func{N: 4, F: func(x [3]float64, _ float64, out []float64) error {
			out[0], out[1], out[2], out[3] = 1, 2, x[0], x[1]
			return nil
		}}),
		domain.NewFieldFunction("pressure", mathfunc.NewConstant(1.e5)),
	}.Apply(d, 0))

	var (
		dir = filepath.Join(t.TempDir(), "out")
		s   = NewCDF(dir, "box", interval.Fixed{N: 10})
	)
	assert.True(t, s.IsDue(20, 0))
	assert.False(t, s.IsDue(21, 0))
	require.NoError(t, s.Serialize(solver.StepInfo{Step: 20, Time: 0.5}, d))
	require.Equal(t, []string{filepath.Join(dir, "box.00020.nc")}, s.Written())

	ff, err := os.Open(s.Written()[0])
	require.NoError(t, err)
	defer ff.Close()
	f, err := cdf.Open(ff)
	require.NoError(t, err)
	assert.Equal(t, "box", f.Header.GetAttribute("", "title"))
	assert.Equal(t, []float64{0.5}, f.Header.GetAttribute("", "time"))
	assert.Equal(t, []int32{20}, f.Header.GetAttribute("", "step"))
	assert.ElementsMatch(t, []string{"x", "y", "euler_rho", "euler_rhoE", "euler_rhoU", "euler_rhoV", "pressure"},
		f.Header.Variables())
	read := func(name string) []float64 {
		r := f.Reader(name, nil, nil)
		buf := r.Zero(bm.NumOwnedCells())
		_, err := r.Read(buf)
		require.NoError(t, err)
		return buf.([]float64)
	}
	assert.Equal(t, []float64{0.5, 1.5, 2.5, 0.5, 1.5, 2.5}, read("x"))
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 1.5, 1.5, 1.5}, read("y"))
	assert.Equal(t, read("x"), read("euler_rhoU"))
	assert.Equal(t, []float64{1.e5, 1.e5, 1.e5, 1.e5, 1.e5, 1.e5}, read("pressure"))
	assert.Equal(t, "AUX", f.Header.GetAttribute("pressure", "location"))
}
