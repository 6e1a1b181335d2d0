package pointmatch

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linePoints(n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{float64(i), 0, 0}
	}
	return pts
}

func randomPoints(n int, seed int64) []Point {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{
			rng.Float64() * 100,
			rng.Float64() * 100,
			rng.Float64() * 100,
		}
	}
	return pts
}

func norm(v Point) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func TestEstimateOrientation(t *testing.T) {
	t.Run("StraightLine", func(t *testing.T) {
		tangents, alpha, err := EstimateOrientation(linePoints(10), 3)
		require.NoError(t, err)
		require.Len(t, tangents, 10)
		require.Len(t, alpha, 10)

		for i := range tangents {
			// Colinear neighborhoods: the tangent is ±X and the
			// confidence is exactly 1.
			assert.InDelta(t, 1, math.Abs(tangents[i][0]), 1e-9, "point %d", i)
			assert.InDelta(t, 1, alpha[i], 1e-9, "point %d", i)
		}
	})

	t.Run("UnitTangentsAndAlphaRange", func(t *testing.T) {
		tangents, alpha, err := EstimateOrientation(randomPoints(100, 42), 10)
		require.NoError(t, err)

		for i := range tangents {
			assert.InDelta(t, 1, norm(tangents[i]), 1e-6, "tangent %d", i)
			assert.GreaterOrEqual(t, alpha[i], 0.0, "alpha %d", i)
			assert.LessOrEqual(t, alpha[i], 1.0, "alpha %d", i)
		}
	})

	t.Run("DegenerateNeighborhood", func(t *testing.T) {
		// All points coincide: no direction is meaningful.
		pts := []Point{{1, 2, 3}, {1, 2, 3}, {1, 2, 3}}

		tangents, alpha, err := EstimateOrientation(pts, 3)
		require.NoError(t, err)

		for i := range pts {
			assert.Equal(t, Point{1, 0, 0}, tangents[i])
			assert.Zero(t, alpha[i])
		}
	})

	t.Run("InvalidK", func(t *testing.T) {
		_, _, err := EstimateOrientation(linePoints(5), 0)
		assert.ErrorIs(t, err, ErrInvalidK)

		_, _, err = EstimateOrientation(linePoints(5), -3)
		assert.ErrorIs(t, err, ErrInvalidK)
	})

	t.Run("InsufficientData", func(t *testing.T) {
		_, _, err := EstimateOrientation(linePoints(4), 5)
		require.Error(t, err)
		assert.IsType(t, &ErrInsufficientData{}, err)
	})

	t.Run("KOfOne", func(t *testing.T) {
		// A single-point neighborhood has zero scatter everywhere.
		tangents, alpha, err := EstimateOrientation(linePoints(5), 1)
		require.NoError(t, err)

		for i := range tangents {
			assert.InDelta(t, 1, norm(tangents[i]), 1e-6)
			assert.Zero(t, alpha[i])
		}
	})
}
