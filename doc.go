// Package pointmatch compares line-like 3D shapes represented as oriented
// point clouds.
//
// A Cloud is a set of 3D positions where every point carries a unit tangent
// vector (the dominant local direction) and a linearity confidence in [0,1],
// both estimated by local PCA over the point's k-neighborhood.
//
// # Quick Start
//
//	q, _ := pointmatch.New(queryPoints, pointmatch.WithK(5))
//	t, _ := pointmatch.New(targetPoints, pointmatch.WithK(5))
//
//	scores, _ := pointmatch.ScoreAgainst(q, t,
//	    pointmatch.WithUpperBound(10),
//	    pointmatch.WithAlphaProduct(),
//	)
//	// scores.Distance, scores.DotProduct and scores.AlphaProduct are
//	// aligned with q's points.
//
// Scoring is asymmetric by construction; callers wanting a symmetric
// measure combine both directions explicitly.
//
// Nearest-neighbor search is pluggable via index.Builder: the default is an
// exact kd-tree (index/kd); a brute-force float32 scan is available in
// index/flat. See the match package for turning many pairwise scores into a
// constrained bipartite assignment.
package pointmatch
