// Package kd provides an exact nearest-neighbor backend built on a k-d tree.
// It is the default backend: O(log n) expected query time, full float64
// precision.
package kd

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/morphkit/pointmatch/index"
)

// Compile-time check to ensure KD satisfies the index interface.
var _ index.Index = (*KD)(nil)

// point carries its original slice position through the tree so query hits
// can be mapped back to the caller's data.
type point struct {
	pos index.Point
	i   int
}

func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.pos[d] - c.(point).pos[d]
}

func (p point) Dims() int { return 3 }

// Distance returns the squared Euclidean distance, matching the convention
// of kdtree.Point. Callers convert at the boundary.
func (p point) Distance(c kdtree.Comparable) float64 {
	q := c.(point)
	var sum float64
	for d := range p.pos {
		diff := p.pos[d] - q.pos[d]
		sum += diff * diff
	}
	return sum
}

// points satisfies kdtree.Interface for tree construction.
type points []point

func (p points) Index(i int) kdtree.Comparable { return p[i] }
func (p points) Len() int                      { return len(p) }
func (p points) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p points) Pivot(d kdtree.Dim) int {
	return plane{points: p, Dim: d}.Pivot()
}

// plane sorts points along a single dimension for pivot selection.
type plane struct {
	points
	kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return p.points[i].pos[p.Dim] < p.points[j].pos[p.Dim]
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}

// KD is an exact k-d tree index over a fixed set of points.
type KD struct {
	tree *kdtree.Tree
	n    int
}

// New builds a k-d tree over the given points.
func New(pts []index.Point) (*KD, error) {
	if len(pts) == 0 {
		return nil, index.ErrNoPoints
	}

	data := make(points, len(pts))
	for i, p := range pts {
		data[i] = point{pos: p, i: i}
	}

	return &KD{
		tree: kdtree.New(data, false),
		n:    len(pts),
	}, nil
}

// Builder adapts New to the index.Builder signature.
func Builder(pts []index.Point) (index.Index, error) { return New(pts) }

// Len returns the number of indexed points.
func (t *KD) Len() int { return t.n }

// Nearest returns the closest indexed point to q within upperBound.
func (t *KD) Nearest(q index.Point, upperBound float64) (index.Neighbor, bool) {
	got, sqDist := t.tree.Nearest(point{pos: q})
	if got == nil {
		return index.Neighbor{}, false
	}

	dist := math.Sqrt(sqDist)
	if dist > upperBound {
		return index.Neighbor{}, false
	}

	return index.Neighbor{I: got.(point).i, Dist: dist}, true
}

// KNearest returns the k nearest indexed points to q, closest first.
func (t *KD) KNearest(q index.Point, k int) ([]index.Neighbor, error) {
	if err := index.ValidateQuery(k); err != nil {
		return nil, err
	}
	if k > t.n {
		k = t.n
	}

	keeper := kdtree.NewNKeeper(k)
	t.tree.NearestSet(keeper, point{pos: q})

	nbrs := make([]index.Neighbor, 0, k)
	for _, cd := range keeper.Heap {
		// The keeper seeds its heap with an infinite-distance placeholder
		// that survives when the tree holds fewer points than requested.
		if cd.Comparable == nil {
			continue
		}
		nbrs = append(nbrs, index.Neighbor{
			I:    cd.Comparable.(point).i,
			Dist: math.Sqrt(cd.Dist),
		})
	}

	sort.Slice(nbrs, func(i, j int) bool { return nbrs[i].Dist < nbrs[j].Dist })
	return nbrs, nil
}
