package boundary

import (
	"github.com/notargets/gofv/domain"
	"github.com/notargets/gofv/types"
)

// Reflective copies the interior state into the ghost and reverses the normal component of the
// vector starting at vectorComponent, a slip wall for momentum. vectorComponent < 0 copies the
// field unchanged.
type Reflective struct {
	name            string
	fieldName       string
	labelName       string
	labels          []int
	vectorComponent int
	field           *domain.Field
	dim             int
	faces           []int
}

func NewReflective(name, field string, labels []int, labelName string, vectorComponent int) *Reflective {
	return &Reflective{
		name:            name,
		fieldName:       field,
		labels:          labels,
		labelName:       labelName,
		vectorComponent: vectorComponent,
	}
}

func (r *Reflective) Name() string { return r.name }

func (r *Reflective) FieldName() string { return r.fieldName }

func (r *Reflective) Setup(d *domain.Domain) (err error) {
	if r.field, err = d.Fields.Field(r.fieldName); err != nil {
		return
	}
	r.dim = d.Mesh.Dimension()
	if r.vectorComponent >= 0 && r.vectorComponent+r.dim > r.field.NumComponents() {
		return types.NewConfigurationError("boundary %q: field %q has %d components, no %d component vector at %d",
			r.name, r.fieldName, r.field.NumComponents(), r.dim, r.vectorComponent)
	}
	r.faces, err = collectFaces(d, r.name, r.labelName, r.labels)
	return
}

func (r *Reflective) Apply(_ float64, d *domain.Domain) (err error) {
	var (
		faces = d.Mesh.Faces()
	)
	for _, fi := range r.faces {
		var (
			f        = faces[fi]
			ghost    = d.Data.Cell(r.field, f.Right)
			interior = d.Data.Cell(r.field, f.Left)
		)
		copy(ghost, interior)
		if r.vectorComponent < 0 {
			continue
		}
		var (
			vec = ghost[r.vectorComponent : r.vectorComponent+r.dim]
			vn  float64
		)
		for i := range vec {
			vn += vec[i] * f.Normal[i]
		}
		for i := range vec {
			vec[i] -= 2 * vn * f.Normal[i]
		}
	}
	return
}
