package match

import (
	"fmt"
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/morphkit/pointmatch/internal/labelset"
)

// Pair is one matched row/column pair.
type Pair[ID comparable] struct {
	Row ID
	Col ID

	// Score is the pair's working score: the matrix entry minus any
	// duplication penalties accumulated in one-to-many mode. Sentinel
	// values never leak here; forced pairs report their true entry.
	Score float64
}

// Result is the outcome of one Match call.
type Result[ID comparable] struct {
	// Pairs holds the matched pairs, ordered by row then column position
	// of the input matrix.
	Pairs []Pair[ID]

	// UnmatchedRows and UnmatchedCols list identifiers that appear in no
	// matched pair, in input order.
	UnmatchedRows []ID
	UnmatchedCols []ID

	// Complete is false when one-to-many rematching stopped at the round
	// cap with identifiers still unmatched that had feasible partners.
	Complete bool
}

// TotalScore sums the scores of all matched pairs.
func (r *Result[ID]) TotalScore() float64 {
	var total float64
	for _, p := range r.Pairs {
		total += p.Score
	}
	return total
}

// MatchedScores returns the matched pairs' scores in Pairs order.
func (r *Result[ID]) MatchedScores() []float64 {
	scores := make([]float64, len(r.Pairs))
	for i, p := range r.Pairs {
		scores[i] = p.Score
	}
	return scores
}

// Axis tags for workspace references back to the input matrix.
const (
	axisRow = iota
	axisCol
)

// axisRef ties a working row or column back to an input-matrix identifier.
// Duplicated columns share the ref of the column they were cloned from.
type axisRef struct {
	axis int
	idx  int
}

// workspace holds the mutable state of one Match call. raw carries true
// scores minus duplication penalties; con additionally carries the sentinel
// substitutions the solver sees. The input matrix is never mutated.
type workspace struct {
	raw    [][]float64
	con    [][]float64
	rowRef []axisRef
	colRef []axisRef
}

// Match computes a constrained assignment over the similarity matrix,
// maximizing total score.
//
// By default the assignment is one-to-one and covers min(rows, cols) pairs;
// pairs ruled out by constraints but chosen anyway because the solver had
// no alternative are reported as unmatched rather than matched. With
// OneToMany, unmatched identifiers with at least one feasible partner are
// satisfied by iteratively duplicating their best partner at a score
// penalty per clone, alternating axes until everything is matched, nothing
// feasible remains, or the round cap is hit.
//
// Forced pairs that cannot all be honored make the whole assignment
// infeasible: Match returns ErrInfeasibleAssignment rather than silently
// relaxing a constraint.
func Match[ID comparable](m *Matrix[ID], optFns ...Option[ID]) (*Result[ID], error) {
	o := applyOptions(optFns)

	if math.IsNaN(o.threshold) {
		return nil, ErrInvalidThreshold
	}
	if !o.oneToOne {
		if math.IsNaN(o.penalty) || o.penalty < 0 || o.penalty > MaxScore {
			return nil, fmt.Errorf("%w: %g", ErrInvalidPenalty, o.penalty)
		}
	}

	nr := len(m.rowIDs)
	nc := len(m.colIDs)

	con, err := constrain(m, &o)
	if err != nil {
		return nil, err
	}

	// Feasibility per input identifier: at least one partner that is not
	// forbidden. Identifiers without one can never match and do not drive
	// duplication.
	feasible := [2][]bool{make([]bool, nr), make([]bool, nc)}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if con[i][j] > forbiddenCutoff {
				feasible[axisRow][i] = true
				feasible[axisCol][j] = true
			}
		}
	}

	w := newWorkspace(m.scores, con)
	if nr < nc {
		// Normalize orientation so working rows >= working columns.
		w.transpose()
	}

	var pairs [][2]int
	complete := true

	if o.oneToOne {
		pairs = maxAssignment(w.con)
	} else {
		maxRounds := o.maxRounds
		if maxRounds <= 0 {
			maxRounds = nr + nc
		}

		rounds := 0
		for {
			pairs = maxAssignment(w.con)
			covered := w.coverage(nr, nc, pairs)

			open := false
			allMatched := true
			for axis := range covered {
				for idx, ok := range covered[axis] {
					if ok {
						continue
					}
					allMatched = false
					if feasible[axis][idx] {
						open = true
					}
				}
			}
			if allMatched || !open {
				break
			}
			if rounds >= maxRounds {
				complete = false
				o.logger.Warn("one-to-many rematch cap reached",
					"rounds", rounds, "rows", nr, "cols", nc)
				break
			}
			rounds++

			w.duplicate(covered, feasible, o.penalty)
			w.transpose()
		}
	}

	return assemble(m, &o, w, pairs, complete)
}

// constrain builds the sentinel-substituted score matrix in the input
// orientation: thresholded and label-incompatible entries become
// scoreForbidden, forced pairs become scoreForced.
func constrain[ID comparable](m *Matrix[ID], o *options[ID]) ([][]float64, error) {
	nr := len(m.rowIDs)
	nc := len(m.colIDs)

	con := make([][]float64, nr)
	for i := range con {
		con[i] = make([]float64, nc)
		copy(con[i], m.scores[i])
	}

	if !math.IsInf(o.threshold, -1) {
		for i := 0; i < nr; i++ {
			for j := 0; j < nc; j++ {
				if con[i][j] < o.threshold {
					con[i][j] = scoreForbidden
				}
			}
		}
	}

	if o.labels != nil {
		in := labelset.NewInterner()
		rowSets := make([]*roaring.Bitmap, nr)
		for i, id := range m.rowIDs {
			rowSets[i] = in.Set(o.labels[id])
		}
		colSets := make([]*roaring.Bitmap, nc)
		for j, id := range m.colIDs {
			colSets[j] = in.Set(o.labels[id])
		}
		for i := 0; i < nr; i++ {
			for j := 0; j < nc; j++ {
				if !labelset.Equal(rowSets[i], colSets[j]) {
					con[i][j] = scoreForbidden
				}
			}
		}
	}

	if o.known != nil {
		usedCols := make(map[int]ID, len(o.known))
		for rid, cid := range o.known {
			i, ok := m.rowPos[rid]
			if !ok {
				return nil, &ErrUnknownID{Axis: "row", ID: rid}
			}
			j, ok := m.colPos[cid]
			if !ok {
				return nil, &ErrUnknownID{Axis: "column", ID: cid}
			}
			if prev, dup := usedCols[j]; dup {
				return nil, fmt.Errorf("%w: rows %v and %v both forced to column %v",
					ErrInfeasibleAssignment, prev, rid, cid)
			}
			usedCols[j] = rid
			con[i][j] = scoreForced
		}
	}

	return con, nil
}

func newWorkspace(raw, con [][]float64) *workspace {
	nr := len(raw)
	nc := len(raw[0])

	w := &workspace{
		raw:    make([][]float64, nr),
		con:    make([][]float64, nr),
		rowRef: make([]axisRef, nr),
		colRef: make([]axisRef, nc),
	}
	for i := 0; i < nr; i++ {
		w.raw[i] = make([]float64, nc)
		copy(w.raw[i], raw[i])
		w.con[i] = make([]float64, nc)
		copy(w.con[i], con[i])
		w.rowRef[i] = axisRef{axis: axisRow, idx: i}
	}
	for j := 0; j < nc; j++ {
		w.colRef[j] = axisRef{axis: axisCol, idx: j}
	}
	return w
}

// transpose swaps the roles of working rows and columns.
func (w *workspace) transpose() {
	w.raw = transposed(w.raw)
	w.con = transposed(w.con)
	w.rowRef, w.colRef = w.colRef, w.rowRef
}

func transposed(m [][]float64) [][]float64 {
	nr := len(m)
	nc := len(m[0])
	t := make([][]float64, nc)
	for j := 0; j < nc; j++ {
		t[j] = make([]float64, nr)
		for i := 0; i < nr; i++ {
			t[j][i] = m[i][j]
		}
	}
	return t
}

// coverage marks which input identifiers are covered by the kept (not
// forbidden) pairs of an assignment. Indexed by axis, then input position.
func (w *workspace) coverage(nr, nc int, pairs [][2]int) [2][]bool {
	covered := [2][]bool{make([]bool, nr), make([]bool, nc)}
	for _, p := range pairs {
		r, c := p[0], p[1]
		if w.con[r][c] <= forbiddenCutoff {
			continue
		}
		rr := w.rowRef[r]
		cc := w.colRef[c]
		covered[rr.axis][rr.idx] = true
		covered[cc.axis][cc.idx] = true
	}
	return covered
}

// duplicate appends, for every uncovered-but-feasible working row, a clone
// of that row's best remaining column with all scores reduced by penalty.
// Clones of clones accumulate penalties, so a column duplicated twice is
// penalized twice.
func (w *workspace) duplicate(covered [2][]bool, feasible [2][]bool, penalty float64) {
	for r := range w.raw {
		ref := w.rowRef[r]
		if covered[ref.axis][ref.idx] || !feasible[ref.axis][ref.idx] {
			continue
		}

		best := -1
		bestScore := math.Inf(-1)
		for c, s := range w.con[r] {
			if s > forbiddenCutoff && s > bestScore {
				best = c
				bestScore = s
			}
		}
		if best < 0 {
			// Every partner was forbidden or penalized out of range.
			continue
		}

		// Clone from the most-penalized existing copy of the chosen column,
		// never the original, so each successive clone carries one more
		// penalty than the last.
		src := best
		for c, ref := range w.colRef {
			if ref == w.colRef[best] && w.con[r][c] < w.con[r][src] {
				src = c
			}
		}

		for rr := range w.raw {
			w.raw[rr] = append(w.raw[rr], w.raw[rr][src]-penalty)
			w.con[rr] = append(w.con[rr], w.con[rr][src]-penalty)
		}
		w.colRef = append(w.colRef, w.colRef[src])
	}
}

// assemble maps the final assignment back to input identifiers.
func assemble[ID comparable](m *Matrix[ID], o *options[ID], w *workspace, pairs [][2]int, complete bool) (*Result[ID], error) {
	nr := len(m.rowIDs)
	nc := len(m.colIDs)

	type keptPair struct {
		row, col int
		score    float64
	}
	var kept []keptPair
	for _, p := range pairs {
		r, c := p[0], p[1]
		if w.con[r][c] <= forbiddenCutoff {
			continue
		}
		rr := w.rowRef[r]
		cc := w.colRef[c]
		kp := keptPair{score: w.raw[r][c]}
		if rr.axis == axisRow {
			kp.row, kp.col = rr.idx, cc.idx
		} else {
			kp.row, kp.col = cc.idx, rr.idx
		}
		kept = append(kept, kp)
	}

	if o.known != nil {
		selected := make(map[[2]int]bool, len(kept))
		for _, kp := range kept {
			selected[[2]int{kp.row, kp.col}] = true
		}
		for rid, cid := range o.known {
			i, j := m.rowPos[rid], m.colPos[cid]
			if !selected[[2]int{i, j}] {
				return nil, fmt.Errorf("%w: forced pair (%v, %v) could not be honored",
					ErrInfeasibleAssignment, rid, cid)
			}
		}
	}

	sort.Slice(kept, func(a, b int) bool {
		if kept[a].row != kept[b].row {
			return kept[a].row < kept[b].row
		}
		if kept[a].col != kept[b].col {
			return kept[a].col < kept[b].col
		}
		return kept[a].score > kept[b].score
	})

	res := &Result[ID]{Complete: complete}
	rowCovered := make([]bool, nr)
	colCovered := make([]bool, nc)
	for _, kp := range kept {
		rowCovered[kp.row] = true
		colCovered[kp.col] = true
		res.Pairs = append(res.Pairs, Pair[ID]{
			Row:   m.rowIDs[kp.row],
			Col:   m.colIDs[kp.col],
			Score: kp.score,
		})
	}
	for i, id := range m.rowIDs {
		if !rowCovered[i] {
			res.UnmatchedRows = append(res.UnmatchedRows, id)
		}
	}
	for j, id := range m.colIDs {
		if !colCovered[j] {
			res.UnmatchedCols = append(res.UnmatchedCols, id)
		}
	}

	o.logger.Debug("assignment complete",
		"pairs", len(res.Pairs),
		"unmatched_rows", len(res.UnmatchedRows),
		"unmatched_cols", len(res.UnmatchedCols),
		"complete", complete)

	return res, nil
}
