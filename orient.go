package pointmatch

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/morphkit/pointmatch/index"
	"github.com/morphkit/pointmatch/index/kd"
)

// EstimateOrientation computes a per-point unit tangent vector and linearity
// confidence for the given positions via local principal component analysis.
//
// For every point, its k nearest neighbors (the point itself included) are
// gathered, the 3×3 scatter matrix of the neighborhood about its centroid is
// eigendecomposed, and:
//
//   - the tangent is the unit eigenvector of the largest eigenvalue;
//   - the confidence is (λ1−λ2)/(λ1+λ2+λ3), 1 for a perfectly line-like
//     neighborhood and near 0 for an isotropic one.
//
// Fails with ErrInvalidK when k < 1 and ErrInsufficientData when fewer than
// k points are given.
func EstimateOrientation(points []Point, k int) ([]Point, []float64, error) {
	if k < 1 {
		return nil, nil, fmt.Errorf("%w: k=%d", ErrInvalidK, k)
	}
	if len(points) < k {
		return nil, nil, &ErrInsufficientData{K: k, N: len(points)}
	}

	idx, err := kd.New(points)
	if err != nil {
		return nil, nil, err
	}

	return estimateOrientation(points, idx, k)
}

func estimateOrientation(points []Point, idx index.Index, k int) ([]Point, []float64, error) {
	tangents := make([]Point, len(points))
	alpha := make([]float64, len(points))

	var eig mat.EigenSym
	var vecs mat.Dense

	for i, p := range points {
		nbrs, err := idx.KNearest(p, k)
		if err != nil {
			return nil, nil, err
		}

		// Centroid of the neighborhood.
		var cx, cy, cz float64
		for _, nb := range nbrs {
			q := points[nb.I]
			cx += q[0]
			cy += q[1]
			cz += q[2]
		}
		inv := 1 / float64(len(nbrs))
		cx *= inv
		cy *= inv
		cz *= inv

		// Scatter matrix: sum of outer products about the centroid.
		var xx, xy, xz, yy, yz, zz float64
		for _, nb := range nbrs {
			q := points[nb.I]
			dx, dy, dz := q[0]-cx, q[1]-cy, q[2]-cz
			xx += dx * dx
			xy += dx * dy
			xz += dx * dz
			yy += dy * dy
			yz += dy * dz
			zz += dz * dz
		}

		sym := mat.NewSymDense(3, []float64{
			xx, xy, xz,
			xy, yy, yz,
			xz, yz, zz,
		})
		if ok := eig.Factorize(sym, true); !ok {
			return nil, nil, fmt.Errorf("%w: point %d", ErrEigenFailed, i)
		}

		vals := eig.Values(nil) // ascending order
		total := vals[0] + vals[1] + vals[2]
		if total <= 0 {
			// Fully degenerate neighborhood (e.g. k=1 or duplicated
			// points): no direction is meaningful.
			tangents[i] = Point{1, 0, 0}
			alpha[i] = 0
			continue
		}

		eig.VectorsTo(&vecs)
		tangents[i] = Point{vecs.At(0, 2), vecs.At(1, 2), vecs.At(2, 2)}
		alpha[i] = clamp01((vals[2] - vals[1]) / total)
	}

	return tangents, alpha, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
