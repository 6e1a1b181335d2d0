package pointmatch

import (
	"fmt"
	"math"
	"slices"

	"github.com/morphkit/pointmatch/index"
)

// Point is a position or unit vector in R³.
type Point = index.Point

// unitTol is the tolerance applied when validating supplied tangent vectors.
const unitTol = 1e-6

// Cloud is an oriented point cloud: an ordered set of 3D positions, each
// carrying a unit tangent vector and a linearity confidence in [0,1].
//
// Tangents and confidence are estimated lazily via local PCA over each
// point's k-neighborhood, unless supplied directly at construction.
// Replacing the positions invalidates the cached nearest-neighbor index and
// any derived orientation.
//
// A Cloud is not safe for concurrent mutation. Once orientation and index
// are built, concurrent read access is safe.
type Cloud struct {
	points   []Point
	tangents []Point
	alpha    []float64

	k       int
	stale   bool
	idx     index.Index
	builder index.Builder
	logger  *Logger
}

// New creates a cloud from raw positions.
//
// Orientation is estimated on first use with the configured neighborhood
// size (see WithK), or taken verbatim from WithOrientation.
func New(points []Point, optFns ...Option) (*Cloud, error) {
	o := applyOptions(optFns)

	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	if o.k < 1 {
		return nil, fmt.Errorf("%w: k=%d", ErrInvalidK, o.k)
	}

	c := &Cloud{
		points:  slices.Clone(points),
		k:       o.k,
		stale:   true,
		builder: o.builder,
		logger:  o.logger,
	}

	if o.tangents != nil || o.alpha != nil {
		if err := c.setOrientation(o.tangents, o.alpha); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Cloud) setOrientation(tangents []Point, alpha []float64) error {
	if len(tangents) != len(c.points) {
		return &ErrLengthMismatch{Field: "tangents", Expected: len(c.points), Actual: len(tangents)}
	}
	if len(alpha) != len(c.points) {
		return &ErrLengthMismatch{Field: "alpha", Expected: len(c.points), Actual: len(alpha)}
	}
	for i, t := range tangents {
		norm := math.Sqrt(t[0]*t[0] + t[1]*t[1] + t[2]*t[2])
		if math.Abs(norm-1) > unitTol {
			return &ErrInvalidTangent{Index: i, Norm: norm}
		}
	}
	for i, a := range alpha {
		if a != a || a < 0 || a > 1 {
			return &ErrInvalidAlpha{Index: i, Value: a}
		}
	}

	c.tangents = slices.Clone(tangents)
	c.alpha = slices.Clone(alpha)
	c.stale = false
	return nil
}

// Len returns the number of points in the cloud.
func (c *Cloud) Len() int { return len(c.points) }

// K returns the neighborhood size used for orientation estimation.
func (c *Cloud) K() int { return c.k }

// Points returns the cloud's positions. The returned slice is shared with
// the cloud and must not be modified; use SetPoints to replace positions.
func (c *Cloud) Points() []Point { return c.points }

// SetPoints replaces the cloud's positions. The cached index is dropped and
// any orientation, supplied or derived, is discarded and re-estimated on
// next use.
func (c *Cloud) SetPoints(points []Point) error {
	if len(points) == 0 {
		return ErrNoPoints
	}
	c.points = slices.Clone(points)
	c.idx = nil
	c.tangents = nil
	c.alpha = nil
	c.stale = true
	return nil
}

// Reestimate recomputes orientation with a new neighborhood size,
// discarding any previous tangents and confidence values.
func (c *Cloud) Reestimate(k int) error {
	if k < 1 {
		return fmt.Errorf("%w: k=%d", ErrInvalidK, k)
	}
	c.k = k
	c.stale = true
	return c.ensureOrientation()
}

// Tangents returns the per-point unit tangent vectors, estimating them
// first if needed. The returned slice is shared with the cloud and must not
// be modified.
func (c *Cloud) Tangents() ([]Point, error) {
	if err := c.ensureOrientation(); err != nil {
		return nil, err
	}
	return c.tangents, nil
}

// Alpha returns the per-point linearity confidence values in [0,1],
// estimating them first if needed. The returned slice is shared with the
// cloud and must not be modified.
func (c *Cloud) Alpha() ([]float64, error) {
	if err := c.ensureOrientation(); err != nil {
		return nil, err
	}
	return c.alpha, nil
}

// Index returns the cloud's nearest-neighbor index, building and caching it
// on first use.
func (c *Cloud) Index() (index.Index, error) {
	if c.idx != nil {
		return c.idx, nil
	}
	idx, err := c.builder(c.points)
	if err != nil {
		return nil, err
	}
	c.idx = idx
	return idx, nil
}

func (c *Cloud) ensureOrientation() error {
	if !c.stale {
		return nil
	}
	if len(c.points) < c.k {
		return &ErrInsufficientData{K: c.k, N: len(c.points)}
	}

	idx, err := c.Index()
	if err != nil {
		return err
	}

	tangents, alpha, err := estimateOrientation(c.points, idx, c.k)
	if err != nil {
		return err
	}

	c.tangents = tangents
	c.alpha = alpha
	c.stale = false

	c.logger.WithK(c.k).WithN(len(c.points)).Debug("estimated orientation")
	return nil
}
