// Package serializer writes solution snapshots to disk.
package serializer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"

	"github.com/notargets/gofv/domain"
	"github.com/notargets/gofv/interval"
	"github.com/notargets/gofv/solver"
)

const cellDim = "cell"

// CDF writes one netCDF file per due step holding the owned cell centroids and every field
type CDF struct {
	interval.Interval
	Directory string
	Title     string
	Log       logrus.FieldLogger
	written   []string
}

func NewCDF(directory, title string, iv interval.Interval) *CDF {
	return &CDF{Interval: iv, Directory: directory, Title: title, Log: logrus.StandardLogger()}
}

func (s *CDF) FileName(step int) string {
	return filepath.Join(s.Directory, fmt.Sprintf("%s.%05d.nc", s.Title, step))
}

// Written lists the files produced so far
func (s *CDF) Written() []string { return s.written }

// VariableName is the netCDF name of a field component
func VariableName(f *domain.Field, n int) string {
	if f.NumComponents() == 1 && len(f.Components) == 0 {
		return f.Name
	}
	return f.Name + "_" + f.ComponentName(n)
}

var coordinates = []string{"x", "y", "z"}

func (s *CDF) Serialize(info solver.StepInfo, d *domain.Domain) (err error) {
	var (
		m      = d.Mesh
		nCells = m.NumOwnedCells()
		dim    = m.Dimension()
		fields = d.Fields.All()
		h      = cdf.NewHeader([]string{cellDim}, []int{nCells})
		ff     *os.File
		f      *cdf.File
	)
	h.AddAttribute("", "title", s.Title)
	h.AddAttribute("", "time", []float64{info.Time})
	h.AddAttribute("", "step", []int32{int32(info.Step)})
	for _, c := range coordinates[:dim] {
		h.AddVariable(c, []string{cellDim}, []float64{0})
		h.AddAttribute(c, "description", "cell centroid")
	}
	for _, fld := range fields {
		for n := 0; n < fld.NumComponents(); n++ {
			name := VariableName(fld, n)
			h.AddVariable(name, []string{cellDim}, []float64{0})
			h.AddAttribute(name, "location", fld.Location.String())
		}
	}
	h.Define()
	if err = os.MkdirAll(s.Directory, 0755); err != nil {
		return
	}
	fileName := s.FileName(info.Step)
	if ff, err = os.Create(fileName); err != nil {
		return
	}
	defer func() {
		if cerr := ff.Close(); err == nil {
			err = cerr
		}
	}()
	if f, err = cdf.Create(ff, h); err != nil {
		return
	}
	buf := make([]float64, nCells)
	for i, c := range coordinates[:dim] {
		for cell := 0; cell < nCells; cell++ {
			buf[cell] = m.CellCentroid(cell)[i]
		}
		if err = writeVariable(f, c, buf); err != nil {
			return
		}
	}
	for _, fld := range fields {
		nc := fld.NumComponents()
		vals := d.Data.Values(fld)
		for n := 0; n < nc; n++ {
			for cell := 0; cell < nCells; cell++ {
				buf[cell] = vals[cell*nc+n]
			}
			if err = writeVariable(f, VariableName(fld, n), buf); err != nil {
				return
			}
		}
	}
	if err = cdf.UpdateNumRecs(ff); err != nil {
		return
	}
	s.written = append(s.written, fileName)
	s.Log.WithFields(logrus.Fields{"step": info.Step, "time": info.Time}).Debugf("wrote %s", fileName)
	return
}

func writeVariable(f *cdf.File, name string, data []float64) (err error) {
	var (
		end   = f.Header.Lengths(name)
		start = make([]int, len(end))
	)
	w := f.Writer(name, start, end)
	if _, err = w.Write(data); err != nil {
		err = fmt.Errorf("writing %s: %w", name, err)
	}
	return
}
