package match

import "math"

// Sentinel scores stand in for ±infinity so the assignment solver stays
// numerically well-behaved. Legitimate scores are bounded by MaxScore,
// leaving a wide, asserted margin to both sentinels.
const (
	// MaxScore bounds the magnitude of legitimate matrix entries.
	MaxScore = 1e10

	// scoreForbidden replaces entries ruled out by thresholding or label
	// incompatibility.
	scoreForbidden = -1e12

	// scoreForced replaces entries of forced pairs, guaranteeing selection.
	scoreForced = 1e12

	// forbiddenCutoff separates real (possibly penalized) scores from
	// forbidden sentinels; pairs at or below it are treated as "no match".
	forbiddenCutoff = -1e11
)

// Matrix is a dense similarity matrix with unique, opaque row and column
// identifiers. It is immutable after construction; the matcher works on
// copies.
type Matrix[ID comparable] struct {
	rowIDs []ID
	colIDs []ID
	rowPos map[ID]int
	colPos map[ID]int
	scores [][]float64
}

// NewMatrix constructs a similarity matrix. scores is row-major with
// len(scores) == len(rowIDs) and len(scores[i]) == len(colIDs). Identifiers
// must be unique per axis and every entry must be finite with magnitude at
// most MaxScore.
func NewMatrix[ID comparable](rowIDs, colIDs []ID, scores [][]float64) (*Matrix[ID], error) {
	if len(rowIDs) == 0 || len(colIDs) == 0 {
		return nil, ErrEmptyMatrix
	}
	if len(scores) != len(rowIDs) {
		return nil, &ErrShapeMismatch{Axis: "row", Expected: len(rowIDs), Actual: len(scores)}
	}

	rowPos := make(map[ID]int, len(rowIDs))
	for i, id := range rowIDs {
		if _, dup := rowPos[id]; dup {
			return nil, &ErrDuplicateID{Axis: "row", ID: id}
		}
		rowPos[id] = i
	}
	colPos := make(map[ID]int, len(colIDs))
	for j, id := range colIDs {
		if _, dup := colPos[id]; dup {
			return nil, &ErrDuplicateID{Axis: "column", ID: id}
		}
		colPos[id] = j
	}

	copied := make([][]float64, len(scores))
	for i, row := range scores {
		if len(row) != len(colIDs) {
			return nil, &ErrShapeMismatch{Axis: "column", Expected: len(colIDs), Actual: len(row)}
		}
		copied[i] = make([]float64, len(row))
		for j, s := range row {
			if math.IsNaN(s) || math.Abs(s) > MaxScore {
				return nil, &ErrScoreOutOfRange{Row: i, Col: j, Score: s}
			}
			copied[i][j] = s
		}
	}

	return &Matrix[ID]{
		rowIDs: rowIDs,
		colIDs: colIDs,
		rowPos: rowPos,
		colPos: colPos,
		scores: copied,
	}, nil
}

// Rows returns the row identifiers in matrix order.
func (m *Matrix[ID]) Rows() []ID { return m.rowIDs }

// Cols returns the column identifiers in matrix order.
func (m *Matrix[ID]) Cols() []ID { return m.colIDs }

// At returns the score at row i, column j.
func (m *Matrix[ID]) At(i, j int) float64 { return m.scores[i][j] }

// Score returns the entry for a pair of identifiers; ok is false when
// either identifier is unknown.
func (m *Matrix[ID]) Score(rowID, colID ID) (score float64, ok bool) {
	i, okRow := m.rowPos[rowID]
	j, okCol := m.colPos[colID]
	if !okRow || !okCol {
		return 0, false
	}
	return m.scores[i][j], true
}
