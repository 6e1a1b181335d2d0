package pointmatch

import (
	"fmt"
	"math"

	"github.com/morphkit/pointmatch/index"
)

// PairScores holds the dense result of scoring a query cloud against a
// target cloud. All slices have length equal to the query's point count and
// are aligned with its point order; no points are dropped, so downstream
// vectorized reductions never see variable-length results.
type PairScores struct {
	// Distance holds, per query point, the distance to its nearest target
	// point, or the configured upper bound when no target point lies
	// within it.
	Distance []float64

	// DotProduct holds the absolute tangent dot product with the nearest
	// target point. The absolute value is taken because tangent sign
	// carries no geometric meaning for a line orientation. Forced to 0 for
	// points that hit the upper-bound fallback.
	DotProduct []float64

	// AlphaProduct holds the product of the query and target confidence
	// values, forced to 0 under the same fallback. Nil unless requested
	// via WithAlphaProduct.
	AlphaProduct []float64
}

type scoreOptions struct {
	upperBound   float64
	alphaProduct bool
}

// ScoreOption configures a similarity query.
type ScoreOption func(*scoreOptions)

// WithUpperBound bounds the nearest-neighbor search. Query points with no
// target point within the bound receive the fallback scores (bound, 0, 0)
// rather than being dropped.
func WithUpperBound(d float64) ScoreOption {
	return func(o *scoreOptions) {
		o.upperBound = d
	}
}

// WithAlphaProduct requests the confidence-product array in the result.
func WithAlphaProduct() ScoreOption {
	return func(o *scoreOptions) {
		o.alphaProduct = true
	}
}

// ScoreAgainst scores every point of query against its nearest point in
// target.
//
// The operation is deliberately asymmetric: the search is driven by the
// query's points against the target's index, so ScoreAgainst(Q, T) and
// ScoreAgainst(T, Q) generally differ. Consumers wanting a symmetric
// measure must combine both directions themselves.
//
// Query positions are cast to the target backend's element precision before
// searching (the flat backend stores float32), which affects bit-level
// reproducibility across backends, not correctness.
func ScoreAgainst(query, target *Cloud, optFns ...ScoreOption) (*PairScores, error) {
	o := scoreOptions{upperBound: math.Inf(1)}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if query == nil || query.Len() == 0 {
		return nil, ErrNoPoints
	}
	if target == nil || target.Len() == 0 {
		return nil, ErrInvalidTarget
	}
	if err := index.ValidateBound(o.upperBound); err != nil {
		return nil, err
	}

	qTangents, err := query.Tangents()
	if err != nil {
		return nil, err
	}
	tTangents, err := target.Tangents()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}
	idx, err := target.Index()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}

	var qAlpha, tAlpha []float64
	if o.alphaProduct {
		if qAlpha, err = query.Alpha(); err != nil {
			return nil, err
		}
		if tAlpha, err = target.Alpha(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTarget, err)
		}
	}

	n := query.Len()
	scores := &PairScores{
		Distance:   make([]float64, n),
		DotProduct: make([]float64, n),
	}
	if o.alphaProduct {
		scores.AlphaProduct = make([]float64, n)
	}

	for i, p := range query.Points() {
		nb, ok := idx.Nearest(p, o.upperBound)
		if !ok {
			// Dense fallback, not an error.
			scores.Distance[i] = o.upperBound
			continue
		}

		qt, tt := qTangents[i], tTangents[nb.I]
		scores.Distance[i] = nb.Dist
		scores.DotProduct[i] = math.Abs(qt[0]*tt[0] + qt[1]*tt[1] + qt[2]*tt[2])
		if o.alphaProduct {
			scores.AlphaProduct[i] = qAlpha[i] * tAlpha[nb.I]
		}
	}

	query.logger.WithN(n).Debug("scored cloud pair", "target_n", target.Len())
	return scores, nil
}
