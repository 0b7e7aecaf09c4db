// Package boundary fills ghost cells so interface fluxes at the domain edge see boundary data.
package boundary

import (
	"sort"

	"github.com/notargets/gofv/domain"
	"github.com/notargets/gofv/types"
)

type BoundaryCondition interface {
	Name() string
	FieldName() string
	Setup(d *domain.Domain) error
	// Apply overwrites the ghost values of the condition's faces
	Apply(time float64, d *domain.Domain) error
}

// collectFaces gathers the boundary faces carrying any of labels
func collectFaces(d *domain.Domain, name, labelName string, labels []int) (faces []int, err error) {
	if len(labels) == 0 {
		err = types.NewConfigurationError("boundary %q: no labels", name)
		return
	}
	var (
		seen = make(map[int]bool)
	)
	for _, label := range labels {
		var lf []int
		if lf, err = d.Mesh.BoundaryFaces(labelName, label); err != nil {
			return nil, err
		}
		for _, f := range lf {
			if !seen[f] {
				seen[f] = true
				faces = append(faces, f)
			}
		}
	}
	sort.Ints(faces)
	return
}
