package match

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morphkit/pointmatch"
)

func mustMatrix(t *testing.T, rows, cols []string, scores [][]float64) *Matrix[string] {
	t.Helper()
	m, err := NewMatrix(rows, cols, scores)
	require.NoError(t, err)
	return m
}

func TestMatchOneToOne(t *testing.T) {
	t.Run("SquareUnconstrainedEqualsPlainSolver", func(t *testing.T) {
		scores := [][]float64{
			{0.1, 0.9, 0.3},
			{0.8, 0.2, 0.4},
			{0.5, 0.6, 0.7},
		}
		m := mustMatrix(t, []string{"a", "b", "c"}, []string{"x", "y", "z"}, scores)

		res, err := Match(m)
		require.NoError(t, err)

		// Same pairs the bare solver selects on the raw matrix.
		var plain []Pair[string]
		for _, p := range maxAssignment(scores) {
			plain = append(plain, Pair[string]{
				Row:   m.Rows()[p[0]],
				Col:   m.Cols()[p[1]],
				Score: scores[p[0]][p[1]],
			})
		}

		assert.Empty(t, cmp.Diff(plain, res.Pairs))
		assert.Empty(t, res.UnmatchedRows)
		assert.Empty(t, res.UnmatchedCols)
		assert.True(t, res.Complete)
	})

	t.Run("RectangularLeavesExcessUnmatched", func(t *testing.T) {
		m := mustMatrix(t,
			[]string{"a", "b"},
			[]string{"w", "x", "y", "z"},
			[][]float64{
				{9, 1, 1, 1},
				{1, 8, 1, 1},
			},
		)

		res, err := Match(m)
		require.NoError(t, err)

		require.Len(t, res.Pairs, 2)
		assert.Empty(t, res.UnmatchedRows)
		assert.Equal(t, []string{"y", "z"}, res.UnmatchedCols)
	})

	t.Run("ThresholdAboveMaxUnmatchesEverything", func(t *testing.T) {
		m := mustMatrix(t,
			[]string{"a", "b"},
			[]string{"x", "y"},
			[][]float64{
				{0.3, 0.2},
				{0.1, 0.4},
			},
		)

		res, err := Match(m, WithThreshold[string](0.5))
		require.NoError(t, err)

		assert.Empty(t, res.Pairs)
		assert.Equal(t, []string{"a", "b"}, res.UnmatchedRows)
		assert.Equal(t, []string{"x", "y"}, res.UnmatchedCols)
	})

	t.Run("ThresholdIsStrict", func(t *testing.T) {
		m := mustMatrix(t,
			[]string{"a"},
			[]string{"x"},
			[][]float64{{0.5}},
		)

		// An entry exactly at the threshold survives.
		res, err := Match(m, WithThreshold[string](0.5))
		require.NoError(t, err)
		require.Len(t, res.Pairs, 1)
		assert.Equal(t, 0.5, res.Pairs[0].Score)
	})

	t.Run("ForcedPairOverridesBetterOption", func(t *testing.T) {
		// A's best option is x, but (A, y) is forced.
		m := mustMatrix(t,
			[]string{"A", "B"},
			[]string{"x", "y"},
			[][]float64{
				{9, 1},
				{8, 7},
			},
		)

		res, err := Match(m, WithKnownMatches(map[string]string{"A": "y"}))
		require.NoError(t, err)

		want := []Pair[string]{
			{Row: "A", Col: "y", Score: 1},
			{Row: "B", Col: "x", Score: 8},
		}
		assert.Empty(t, cmp.Diff(want, res.Pairs))
	})

	t.Run("LabelMismatchForbidsGoodMatch", func(t *testing.T) {
		m := mustMatrix(t,
			[]string{"A", "B"},
			[]string{"x", "y"},
			[][]float64{
				{9, 1},
				{8, 7},
			},
		)

		// x carries a label nobody else has, so it can never match.
		res, err := Match(m, WithLabels(map[string][]string{
			"A": {"left"},
			"B": {"left"},
			"x": {"right"},
			"y": {"left"},
		}))
		require.NoError(t, err)

		want := []Pair[string]{{Row: "B", Col: "y", Score: 7}}
		assert.Empty(t, cmp.Diff(want, res.Pairs))
		assert.Equal(t, []string{"A"}, res.UnmatchedRows)
		assert.Equal(t, []string{"x"}, res.UnmatchedCols)
	})

	t.Run("UnlabeledPairStaysCompatible", func(t *testing.T) {
		m := mustMatrix(t,
			[]string{"A"},
			[]string{"x"},
			[][]float64{{5}},
		)

		// Neither id is in the label map: both carry the empty set.
		res, err := Match(m, WithLabels(map[string][]string{"other": {"l"}}))
		require.NoError(t, err)
		require.Len(t, res.Pairs, 1)
	})

	t.Run("ConflictingForcedPairsAreInfeasible", func(t *testing.T) {
		m := mustMatrix(t,
			[]string{"A", "B"},
			[]string{"x", "y"},
			[][]float64{
				{1, 2},
				{3, 4},
			},
		)

		_, err := Match(m, WithKnownMatches(map[string]string{"A": "x", "B": "x"}))
		assert.ErrorIs(t, err, ErrInfeasibleAssignment)
	})

	t.Run("UnknownForcedID", func(t *testing.T) {
		m := mustMatrix(t,
			[]string{"A"},
			[]string{"x"},
			[][]float64{{1}},
		)

		_, err := Match(m, WithKnownMatches(map[string]string{"Z": "x"}))
		require.Error(t, err)
		assert.IsType(t, &ErrUnknownID{}, err)
	})
}

func TestMatchLogger(t *testing.T) {
	m := mustMatrix(t, []string{"A"}, []string{"x"}, [][]float64{{1}})

	t.Run("WrapperLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := pointmatch.NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))

		_, err := Match(m, WithLogger[string](logger))
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "assignment complete")
	})

	t.Run("NilDisablesLogging", func(t *testing.T) {
		_, err := Match(m, WithLogger[string](nil))
		require.NoError(t, err)
	})
}

func TestMatchOneToMany(t *testing.T) {
	// 3 rows, 5 columns: rows must be duplicated to cover all columns.
	rows := []string{"A", "B", "C"}
	cols := []string{"c1", "c2", "c3", "c4", "c5"}
	scores := [][]float64{
		{9, 1, 1, 8, 1},
		{1, 9, 1, 1, 1},
		{1, 1, 9, 1, 8},
	}

	t.Run("ZeroPenaltyCoversAllColumns", func(t *testing.T) {
		m := mustMatrix(t, rows, cols, scores)

		res, err := Match(m, OneToMany[string](0))
		require.NoError(t, err)

		require.Len(t, res.Pairs, 5)
		assert.True(t, res.Complete)
		assert.Empty(t, res.UnmatchedRows)
		assert.Empty(t, res.UnmatchedCols)

		// With no penalty, every column reaches its best row.
		var wantTotal float64
		for j := range cols {
			best := scores[0][j]
			for i := 1; i < len(rows); i++ {
				if scores[i][j] > best {
					best = scores[i][j]
				}
			}
			wantTotal += best
		}
		assert.InDelta(t, wantTotal, res.TotalScore(), 1e-9)

		matchedCols := make(map[string]int)
		for _, p := range res.Pairs {
			matchedCols[p.Col]++
		}
		for _, c := range cols {
			assert.Equal(t, 1, matchedCols[c], "column %s", c)
		}
	})

	t.Run("PenaltyNeverIncreasesTotal", func(t *testing.T) {
		var prev float64
		for i, penalty := range []float64{0, 1, 5} {
			m := mustMatrix(t, rows, cols, scores)

			res, err := Match(m, OneToMany[string](penalty))
			require.NoError(t, err)

			total := res.TotalScore()
			if i > 0 {
				assert.LessOrEqual(t, total, prev+1e-9, "penalty %g", penalty)
			}
			prev = total
		}
	})

	t.Run("RepeatedCloningAccumulatesPenalty", func(t *testing.T) {
		// One row covering three columns needs two clones of the same row;
		// the first clone pays the penalty once, the second twice. Every
		// assignment of the resulting 3x3 has the same total, so the total
		// pins the cumulative semantics: 24 - (1+2)*penalty.
		for _, penalty := range []float64{1, 2} {
			m := mustMatrix(t, []string{"A"}, []string{"x", "y", "z"},
				[][]float64{{9, 8, 7}})

			res, err := Match(m, OneToMany[string](penalty))
			require.NoError(t, err)

			require.Len(t, res.Pairs, 3, "penalty %g", penalty)
			assert.Empty(t, res.UnmatchedCols)
			for _, p := range res.Pairs {
				assert.Equal(t, "A", p.Row)
			}
			assert.InDelta(t, 24-3*penalty, res.TotalScore(), 1e-9, "penalty %g", penalty)
		}
	})

	t.Run("NegativePenalty", func(t *testing.T) {
		m := mustMatrix(t, rows, cols, scores)

		_, err := Match(m, OneToMany[string](-1))
		assert.ErrorIs(t, err, ErrInvalidPenalty)
	})

	t.Run("InfeasibleColumnStaysUnmatched", func(t *testing.T) {
		m := mustMatrix(t,
			[]string{"A", "B"},
			[]string{"x", "y", "z"},
			[][]float64{
				{0.9, 0.8, 0.1},
				{0.7, 0.9, 0.1},
			},
		)

		// z scores below the threshold against every row: no amount of
		// duplication can match it.
		res, err := Match(m, WithThreshold[string](0.5), OneToMany[string](0))
		require.NoError(t, err)

		require.Len(t, res.Pairs, 2)
		assert.True(t, res.Complete)
		assert.Equal(t, []string{"z"}, res.UnmatchedCols)
		assert.Empty(t, res.UnmatchedRows)
	})

	t.Run("RoundCapDefaults", func(t *testing.T) {
		m := mustMatrix(t, rows, cols, scores)

		// A cap of 0 falls back to the default (rows+cols).
		res, err := Match(m, OneToMany[string](0), WithMaxRematchRounds[string](0))
		require.NoError(t, err)
		assert.True(t, res.Complete)

		// One duplication round is all this shape needs.
		res, err = Match(m, OneToMany[string](0), WithMaxRematchRounds[string](1))
		require.NoError(t, err)
		assert.True(t, res.Complete)
		require.Len(t, res.Pairs, 5)
	})

	t.Run("SquareOneToManyEqualsOneToOne", func(t *testing.T) {
		square := [][]float64{
			{9, 1, 1},
			{1, 9, 1},
			{1, 1, 9},
		}
		m1 := mustMatrix(t, rows, []string{"x", "y", "z"}, square)
		m2 := mustMatrix(t, rows, []string{"x", "y", "z"}, square)

		one, err := Match(m1)
		require.NoError(t, err)
		many, err := Match(m2, OneToMany[string](0))
		require.NoError(t, err)

		assert.Empty(t, cmp.Diff(one.Pairs, many.Pairs))
	})
}
