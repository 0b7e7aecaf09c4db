package boundary

import (
	"github.com/notargets/gofv/domain"
)

// EssentialGhost imposes field values on ghost cells from a field function evaluated at each face.
// With enforceAtFace the ghost is reflected about the prescribed value so the face average matches it.
type EssentialGhost struct {
	name          string
	labelName     string
	labels        []int
	ff            domain.FieldFunction
	enforceAtFace bool
	field         *domain.Field
	faces         []int
}

func NewEssentialGhost(name string, labels []int, ff domain.FieldFunction, labelName string, enforceAtFace bool) *EssentialGhost {
	return &EssentialGhost{
		name:          name,
		labels:        labels,
		ff:            ff,
		labelName:     labelName,
		enforceAtFace: enforceAtFace,
	}
}

func (eg *EssentialGhost) Name() string { return eg.name }

func (eg *EssentialGhost) FieldName() string { return eg.ff.Field }

func (eg *EssentialGhost) Setup(d *domain.Domain) (err error) {
	if eg.field, err = eg.ff.Resolve(d); err != nil {
		return
	}
	eg.faces, err = collectFaces(d, eg.name, eg.labelName, eg.labels)
	return
}

func (eg *EssentialGhost) Apply(time float64, d *domain.Domain) (err error) {
	var (
		faces = d.Mesh.Faces()
		nc    = eg.field.NumComponents()
	)
	for _, fi := range eg.faces {
		var (
			f     = faces[fi]
			ghost = d.Data.Cell(eg.field, f.Right)
		)
		if err = eg.ff.Function.Eval(f.Centroid, time, ghost); err != nil {
			return
		}
		if eg.enforceAtFace {
			interior := d.Data.Cell(eg.field, f.Left)
			for n := 0; n < nc; n++ {
				ghost[n] = 2*ghost[n] - interior[n]
			}
		}
	}
	return
}
