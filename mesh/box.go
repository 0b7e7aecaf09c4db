package mesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/gofv/types"
)

// BoxMesh is a uniform Cartesian mesh of one to three dimensions
type BoxMesh struct {
	name       string
	dim        int
	n          [3]int
	lower, dx  [3]float64
	nOwned     int
	volume     float64
	centroids  [][3]float64
	faces      []Face
	labelFaces map[int][]int
	regions    map[string][]int
}

// NewBoxMesh builds a box with faces[d] cells along each dimension, multiplied by
// 2^refine, spanning lower[d] to upper[d]
func NewBoxMesh(name string, faces []int, lower, upper []float64, refine int) (bm *BoxMesh, err error) {
	var (
		dim = len(faces)
	)
	if dim < 1 || dim > 3 {
		err = types.NewConfigurationError("box mesh %q: dimension %d not in [1,3]", name, dim)
		return
	}
	if len(lower) != dim || len(upper) != dim {
		err = types.NewConfigurationError("box mesh %q: bounds have %d/%d entries for %d dimensions",
			name, len(lower), len(upper), dim)
		return
	}
	if refine < 0 || refine > 10 {
		err = types.NewConfigurationError("box mesh %q: refine %d not in [0,10]", name, refine)
		return
	}
	bm = &BoxMesh{
		name:       name,
		dim:        dim,
		n:          [3]int{1, 1, 1},
		volume:     1,
		labelFaces: make(map[int][]int),
		regions:    make(map[string][]int),
	}
	for d := 0; d < dim; d++ {
		if faces[d] < 1 {
			return nil, types.NewConfigurationError("box mesh %q: %d cells in dimension %d", name, faces[d], d)
		}
		if !(upper[d] > lower[d]) {
			return nil, types.NewConfigurationError("box mesh %q: upper %g not above lower %g in dimension %d",
				name, upper[d], lower[d], d)
		}
		bm.n[d] = faces[d] << uint(refine)
		bm.lower[d] = lower[d]
		bm.dx[d] = (upper[d] - lower[d]) / float64(bm.n[d])
		bm.volume *= bm.dx[d]
	}
	bm.nOwned = bm.n[0] * bm.n[1] * bm.n[2]
	bm.centroids = make([][3]float64, bm.nOwned)
	for k := 0; k < bm.n[2]; k++ {
		for j := 0; j < bm.n[1]; j++ {
			for i := 0; i < bm.n[0]; i++ {
				c := bm.index(i, j, k)
				ijk := [3]int{i, j, k}
				for d := 0; d < dim; d++ {
					bm.centroids[c][d] = bm.lower[d] + (float64(ijk[d])+0.5)*bm.dx[d]
				}
			}
		}
	}
	bm.buildFaces()
	owned := make([]int, bm.nOwned)
	for c := range owned {
		owned[c] = c
	}
	bm.regions[EntireDomain] = owned
	return
}

func (bm *BoxMesh) index(i, j, k int) int {
	return i + bm.n[0]*(j+bm.n[1]*k)
}

// BoundaryLabel gives the face set label of the lower or upper side of a dimension:
// 1D left 1, right 2; 2D bottom 1, right 2, top 3, left 4;
// 3D z- 1, z+ 2, y- 3, y+ 4, x+ 5, x- 6
func BoundaryLabel(dim, d int, upperSide bool) int {
	switch dim {
	case 1:
		if upperSide {
			return 2
		}
		return 1
	case 2:
		switch {
		case d == 1 && !upperSide:
			return 1
		case d == 0 && upperSide:
			return 2
		case d == 1 && upperSide:
			return 3
		default:
			return 4
		}
	default:
		switch {
		case d == 2 && !upperSide:
			return 1
		case d == 2:
			return 2
		case d == 1 && !upperSide:
			return 3
		case d == 1:
			return 4
		case upperSide:
			return 5
		default:
			return 6
		}
	}
}

func (bm *BoxMesh) buildFaces() {
	var (
		ghost = bm.nOwned
	)
	for d := 0; d < bm.dim; d++ {
		var (
			area = bm.volume / bm.dx[d]
			e    [3]float64
		)
		e[d] = 1
		for k := 0; k < bm.n[2]; k++ {
			for j := 0; j < bm.n[1]; j++ {
				for i := 0; i < bm.n[0]; i++ {
					ijk := [3]int{i, j, k}
					c := bm.index(i, j, k)
					if ijk[d] == 0 { // lower boundary face
						bm.addBoundaryFace(c, ghost, d, false, area)
						ghost++
					}
					if ijk[d] == bm.n[d]-1 { // upper boundary face
						bm.addBoundaryFace(c, ghost, d, true, area)
						ghost++
						continue
					}
					ijk[d]++
					right := bm.index(ijk[0], ijk[1], ijk[2])
					f := Face{Left: c, Right: right, Area: area, Normal: e}
					f.Centroid = bm.centroids[c]
					f.Centroid[d] += 0.5 * bm.dx[d]
					bm.faces = append(bm.faces, f)
				}
			}
		}
	}
}

func (bm *BoxMesh) addBoundaryFace(interior, ghost, d int, upperSide bool, area float64) {
	var (
		f = Face{Left: interior, Right: ghost, Area: area}
		s = -1.
	)
	if upperSide {
		s = 1
	}
	f.Normal[d] = s
	f.Centroid = bm.centroids[interior]
	f.Centroid[d] += s * 0.5 * bm.dx[d]
	f.Label = BoundaryLabel(bm.dim, d, upperSide)
	gc := f.Centroid
	gc[d] += s * 0.5 * bm.dx[d]
	bm.centroids = append(bm.centroids, gc)
	bm.labelFaces[f.Label] = append(bm.labelFaces[f.Label], len(bm.faces))
	bm.faces = append(bm.faces, f)
}

func (bm *BoxMesh) Name() string { return bm.name }

func (bm *BoxMesh) Dimension() int { return bm.dim }

func (bm *BoxMesh) NumCells() int { return len(bm.centroids) }

func (bm *BoxMesh) NumOwnedCells() int { return bm.nOwned }

func (bm *BoxMesh) IsGhost(c int) bool { return c >= bm.nOwned }

// Ghost cells mirror the volume of their interior neighbor
func (bm *BoxMesh) CellVolume(c int) float64 { return bm.volume }

func (bm *BoxMesh) CellCentroid(c int) [3]float64 { return bm.centroids[c] }

func (bm *BoxMesh) Faces() []Face { return bm.faces }

// CellsPerDimension returns the refined cell counts
func (bm *BoxMesh) CellsPerDimension() (n [3]int) { return bm.n }

func (bm *BoxMesh) MinCellSize() (h float64) {
	h = math.MaxFloat64
	for d := 0; d < bm.dim; d++ {
		h = math.Min(h, bm.dx[d])
	}
	return
}

func (bm *BoxMesh) BoundaryFaces(labelSet string, label int) (faces []int, err error) {
	if labelSet == "" {
		labelSet = FaceSets
	}
	if labelSet != FaceSets {
		err = types.NewConfigurationError("mesh %q: unknown label set %q", bm.name, labelSet)
		return
	}
	var ok bool
	if faces, ok = bm.labelFaces[label]; !ok {
		err = types.NewConfigurationError("mesh %q: no faces carry label %d in %q", bm.name, label, labelSet)
		return
	}
	return
}

func (bm *BoxMesh) Labels() (labels []int) {
	for l := range bm.labelFaces {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	return
}

func (bm *BoxMesh) RegionCells(name string) (cells []int, err error) {
	if name == "" {
		name = EntireDomain
	}
	var ok bool
	if cells, ok = bm.regions[name]; !ok {
		err = types.NewConfigurationError("mesh %q: unknown region %q", bm.name, name)
	}
	return
}

// DefineRegion registers the owned cells whose centroid satisfies inside
func (bm *BoxMesh) DefineRegion(name string, inside func(x [3]float64) bool) (err error) {
	if _, exists := bm.regions[name]; exists {
		return types.NewConfigurationError("mesh %q: region %q already defined", bm.name, name)
	}
	var cells []int
	for c := 0; c < bm.nOwned; c++ {
		if inside(bm.centroids[c]) {
			cells = append(cells, c)
		}
	}
	if len(cells) == 0 {
		return types.NewConfigurationError("mesh %q: region %q is empty", bm.name, name)
	}
	bm.regions[name] = cells
	return
}

func (bm *BoxMesh) String() string {
	return fmt.Sprintf("BoxMesh %q: %dD %v cells, %d ghosts, %d faces",
		bm.name, bm.dim, bm.n[:bm.dim], bm.NumCells()-bm.nOwned, len(bm.faces))
}
