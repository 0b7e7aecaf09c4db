package mesh

import (
	"github.com/notargets/gofv/utils"
)

// Partition is the work of one worker: the cells it owns and every face touching them.
// A face on a partition seam appears in both neighbouring partitions.
type Partition struct {
	Cells []int
	Faces []int
}

type Partitioning struct {
	Partitions []Partition
	owner      []int // partition of each mesh cell, -1 outside the partitioned set
	pm         *utils.PartitionMap
}

// NewPartitioning splits cells into contiguous partitions, at most parallelDegree of them
func NewPartitioning(m Mesh, cells []int, parallelDegree int) (p *Partitioning) {
	var (
		np = utils.DefaultParallelDegree(parallelDegree, len(cells))
	)
	p = &Partitioning{
		Partitions: make([]Partition, np),
		owner:      make([]int, m.NumCells()),
		pm:         utils.NewPartitionMap(np, len(cells)),
	}
	for c := range p.owner {
		p.owner[c] = -1
	}
	for bn := 0; bn < np; bn++ {
		kMin, kMax := p.pm.GetBucketRange(bn)
		p.Partitions[bn].Cells = cells[kMin:kMax]
		for _, c := range cells[kMin:kMax] {
			p.owner[c] = bn
		}
	}
	for i, f := range m.Faces() {
		l, r := p.owner[f.Left], p.owner[f.Right]
		if l >= 0 {
			p.Partitions[l].Faces = append(p.Partitions[l].Faces, i)
		}
		if r >= 0 && r != l {
			p.Partitions[r].Faces = append(p.Partitions[r].Faces, i)
		}
	}
	return
}

func (p *Partitioning) ParallelDegree() int { return len(p.Partitions) }

// Owner returns the partition writing cell c, -1 when no partition owns it
func (p *Partitioning) Owner(c int) int { return p.owner[c] }

// ParallelFor runs fn concurrently for every partition
func (p *Partitioning) ParallelFor(fn func(np int, part *Partition) error) error {
	return utils.ParallelRun(len(p.Partitions), func(np int) error {
		return fn(np, &p.Partitions[np])
	})
}
