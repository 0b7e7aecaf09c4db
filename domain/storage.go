package domain

// Storage holds the values of every registered field for every cell, owned and ghost.
// Values of one field are contiguous, indexed cell*NumComponents + component.
type Storage struct {
	numCells int
	data     [][]float64
}

func NewStorage(r *Registry, numCells int) (s *Storage) {
	s = &Storage{
		numCells: numCells,
		data:     make([][]float64, len(r.All())),
	}
	for _, f := range r.All() {
		s.data[f.ID] = make([]float64, numCells*f.NumComponents())
	}
	return
}

func (s *Storage) NumCells() int { return s.numCells }

func (s *Storage) Values(f *Field) []float64 { return s.data[f.ID] }

// Cell returns the components of field f at cell c, aliasing the storage
func (s *Storage) Cell(f *Field, c int) []float64 {
	nc := f.NumComponents()
	return s.data[f.ID][c*nc : (c+1)*nc]
}

func (s *Storage) ZeroCells(f *Field, cells []int) {
	var (
		nc   = f.NumComponents()
		vals = s.data[f.ID]
	)
	for _, c := range cells {
		for n := 0; n < nc; n++ {
			vals[c*nc+n] = 0
		}
	}
}
