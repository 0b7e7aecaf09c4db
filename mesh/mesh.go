// Package mesh describes the cell and face topology a finite volume solver runs on.
// Owned cells are numbered first, ghost cells follow, one per boundary face.
package mesh

const (
	// FaceSets is the label set holding boundary face labels
	FaceSets = "Face Sets"
	// EntireDomain names the region of every owned cell
	EntireDomain = "domain"
)

type Face struct {
	Left, Right int // Right is the ghost cell on a boundary face
	Area        float64
	Normal      [3]float64 // unit normal pointing from Left to Right
	Centroid    [3]float64
	Label       int // boundary label within FaceSets, 0 for interior faces
}

func (f Face) IsBoundary() bool { return f.Label != 0 }

type Mesh interface {
	Name() string
	Dimension() int
	NumCells() int
	NumOwnedCells() int
	IsGhost(c int) bool
	CellVolume(c int) float64
	CellCentroid(c int) [3]float64
	Faces() []Face
	BoundaryFaces(labelSet string, label int) (faces []int, err error)
	RegionCells(name string) (cells []int, err error)
	MinCellSize() float64
}
