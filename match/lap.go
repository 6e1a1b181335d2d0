package match

import "math"

// lapMinimize solves the rectangular linear sum assignment problem by
// shortest augmenting paths with dual potentials (Jonker-Volgenant class,
// O(n³)).
//
// cost must satisfy len(cost) <= len(cost[0]) and contain only finite
// values; every row is assigned a distinct column minimizing total cost.
// Returns row→column.
//
// Outline, per unassigned row:
//  1. Run a Dijkstra-like search over reduced costs
//     cost[i][j] − u[i] − v[j] until the cheapest reachable unassigned
//     column (the sink) is found.
//  2. Update the duals u, v for every row and column visited, preserving
//     complementary slackness.
//  3. Augment: flip assignments along the alternating path back to the
//     starting row.
//
// With finite costs a sink always exists, so the search cannot fail.
func lapMinimize(cost [][]float64) []int {
	nr := len(cost)
	nc := len(cost[0])

	u := make([]float64, nr)
	v := make([]float64, nc)
	col4row := make([]int, nr)
	row4col := make([]int, nc)
	for i := range col4row {
		col4row[i] = -1
	}
	for j := range row4col {
		row4col[j] = -1
	}

	shortest := make([]float64, nc)
	path := make([]int, nc)
	visitedRow := make([]bool, nr)
	visitedCol := make([]bool, nc)
	remaining := make([]int, nc)

	for curRow := 0; curRow < nr; curRow++ {
		for i := range visitedRow {
			visitedRow[i] = false
		}
		for j := range visitedCol {
			visitedCol[j] = false
		}
		for j := range shortest {
			shortest[j] = math.Inf(1)
			path[j] = -1
		}
		for j := range remaining {
			remaining[j] = j
		}
		numRemaining := nc

		minVal := 0.0
		i := curRow
		sink := -1

		for sink == -1 {
			visitedRow[i] = true

			index := -1
			lowest := math.Inf(1)
			for it := 0; it < numRemaining; it++ {
				j := remaining[it]
				r := minVal + cost[i][j] - u[i] - v[j]
				if r < shortest[j] {
					shortest[j] = r
					path[j] = i
				}
				// Prefer unassigned columns on ties so augmenting paths
				// stay short.
				if shortest[j] < lowest || (shortest[j] == lowest && row4col[j] == -1) {
					lowest = shortest[j]
					index = it
				}
			}

			minVal = lowest
			j := remaining[index]
			if row4col[j] == -1 {
				sink = j
			} else {
				i = row4col[j]
			}
			visitedCol[j] = true
			numRemaining--
			remaining[index] = remaining[numRemaining]
		}

		u[curRow] += minVal
		for ii := 0; ii < nr; ii++ {
			if visitedRow[ii] && ii != curRow {
				u[ii] += minVal - shortest[col4row[ii]]
			}
		}
		for j := 0; j < nc; j++ {
			if visitedCol[j] {
				v[j] -= minVal - shortest[j]
			}
		}

		// Augment along the alternating path back to curRow.
		j := sink
		for {
			ii := path[j]
			row4col[j] = ii
			col4row[ii], j = j, col4row[ii]
			if ii == curRow {
				break
			}
		}
	}

	return col4row
}

// maxAssignment computes the score-maximizing assignment over a rectangular
// matrix of any orientation, covering min(rows, cols) pairs. Returned pairs
// are (row, col) index tuples.
func maxAssignment(scores [][]float64) [][2]int {
	nr := len(scores)
	nc := len(scores[0])

	if nr <= nc {
		cost := make([][]float64, nr)
		for i := range cost {
			cost[i] = make([]float64, nc)
			for j := range cost[i] {
				cost[i][j] = -scores[i][j]
			}
		}
		row2col := lapMinimize(cost)
		pairs := make([][2]int, nr)
		for i, j := range row2col {
			pairs[i] = [2]int{i, j}
		}
		return pairs
	}

	// Transpose so the solver assigns the short axis fully.
	cost := make([][]float64, nc)
	for j := range cost {
		cost[j] = make([]float64, nr)
		for i := range cost[j] {
			cost[j][i] = -scores[i][j]
		}
	}
	col2row := lapMinimize(cost)
	pairs := make([][2]int, nc)
	for j, i := range col2row {
		pairs[j] = [2]int{i, j}
	}
	return pairs
}
