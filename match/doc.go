// Package match solves constrained optimal bipartite assignment over dense
// similarity matrices.
//
// A Matrix carries scores between two sets of uniquely-identified objects.
// Match selects pairs maximizing total score under optional constraints:
// a score threshold, label-set compatibility, forced pairs, and a
// one-to-one or one-to-many cardinality mode. One-to-many matching is
// implemented by iteratively duplicating the best remaining partner of each
// unmatched identifier at a per-clone score penalty, alternating axes until
// the assignment settles or a round cap is hit.
//
//	m, _ := match.NewMatrix(rowIDs, colIDs, scores)
//	res, _ := match.Match(m,
//	    match.WithThreshold[string](0.2),
//	    match.OneToMany[string](0.1),
//	)
//
// The matcher is a single-shot pure function of its inputs: the matrix is
// never mutated and no state survives the call.
package match
