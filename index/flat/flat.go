// Package flat provides a brute-force nearest-neighbor backend.
//
// Points are stored as float32, trading precision for a compact, cache-warm
// linear scan. Queries are cast to float32 before distance evaluation so
// that stored and query coordinates share one precision; this affects
// bit-level reproducibility versus the float64 kd backend, not correctness.
package flat

import (
	"math"
	"sort"

	"github.com/morphkit/pointmatch/index"
)

// Compile-time check to ensure Flat satisfies the index interface.
var _ index.Index = (*Flat)(nil)

// Flat is a brute-force index over a fixed set of points.
type Flat struct {
	// coords holds the points flattened as x,y,z triples.
	coords []float32
	n      int
}

// New builds a flat index over the given points.
func New(pts []index.Point) (*Flat, error) {
	if len(pts) == 0 {
		return nil, index.ErrNoPoints
	}

	coords := make([]float32, 0, 3*len(pts))
	for _, p := range pts {
		coords = append(coords, float32(p[0]), float32(p[1]), float32(p[2]))
	}

	return &Flat{coords: coords, n: len(pts)}, nil
}

// Builder adapts New to the index.Builder signature.
func Builder(pts []index.Point) (index.Index, error) { return New(pts) }

// Len returns the number of indexed points.
func (f *Flat) Len() int { return f.n }

func (f *Flat) squaredL2(q [3]float32, i int) float32 {
	dx := q[0] - f.coords[3*i]
	dy := q[1] - f.coords[3*i+1]
	dz := q[2] - f.coords[3*i+2]
	return dx*dx + dy*dy + dz*dz
}

// Nearest returns the closest indexed point to q within upperBound.
func (f *Flat) Nearest(q index.Point, upperBound float64) (index.Neighbor, bool) {
	qf := [3]float32{float32(q[0]), float32(q[1]), float32(q[2])}

	best := -1
	bestDist := float32(math.MaxFloat32)
	for i := 0; i < f.n; i++ {
		if d := f.squaredL2(qf, i); d < bestDist {
			best = i
			bestDist = d
		}
	}

	dist := math.Sqrt(float64(bestDist))
	if best < 0 || dist > upperBound {
		return index.Neighbor{}, false
	}
	return index.Neighbor{I: best, Dist: dist}, true
}

// KNearest returns the k nearest indexed points to q, closest first.
func (f *Flat) KNearest(q index.Point, k int) ([]index.Neighbor, error) {
	if err := index.ValidateQuery(k); err != nil {
		return nil, err
	}
	if k > f.n {
		k = f.n
	}

	qf := [3]float32{float32(q[0]), float32(q[1]), float32(q[2])}

	nbrs := make([]index.Neighbor, f.n)
	for i := 0; i < f.n; i++ {
		nbrs[i] = index.Neighbor{I: i, Dist: math.Sqrt(float64(f.squaredL2(qf, i)))}
	}
	sort.Slice(nbrs, func(i, j int) bool { return nbrs[i].Dist < nbrs[j].Dist })

	return nbrs[:k], nil
}
