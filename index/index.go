// Package index provides interfaces and types for nearest-neighbor indexes
// over fixed sets of 3D points.
package index

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrNoPoints is returned when an index is built over an empty point set.
	ErrNoPoints = errors.New("no points to index")
)

// ErrInvalidUpperBound is a named error type for a malformed search bound.
type ErrInvalidUpperBound struct {
	Bound float64
}

// Error returns the error message for an invalid search bound.
func (e *ErrInvalidUpperBound) Error() string {
	return fmt.Sprintf("invalid distance upper bound: %v", e.Bound)
}

// Point is a position in R³.
type Point [3]float64

// Neighbor represents a single nearest-neighbor search hit.
type Neighbor struct {
	// I is the hit's index into the point slice the index was built from.
	I int

	// Dist is the Euclidean distance between the query and the hit.
	Dist float64
}

// Index answers nearest-neighbor queries over a fixed set of points.
//
// An Index is immutable once built: concurrent read queries are safe, but an
// index must never be queried concurrently with a rebuild of its owner's
// points. Backends may store points at reduced precision; reported distances
// are always float64.
type Index interface {
	// Len returns the number of indexed points.
	Len() int

	// Nearest returns the single nearest indexed point to q. The search is
	// bounded by upperBound (inclusive); pass math.Inf(1) for an unbounded
	// search. ok is false when no point lies within the bound.
	Nearest(q Point, upperBound float64) (n Neighbor, ok bool)

	// KNearest returns the k nearest indexed points to q, ordered by
	// ascending distance. If the index holds fewer than k points, all of
	// them are returned.
	KNearest(q Point, k int) ([]Neighbor, error)
}

// Builder constructs an Index over the given points. Backend choice is a
// performance decision, not a correctness one: any exact implementation
// satisfies the same contract.
type Builder func(points []Point) (Index, error)

// ValidateQuery checks common query arguments shared by all backends.
func ValidateQuery(k int) error {
	if k < 1 {
		return fmt.Errorf("%w: k=%d", ErrInvalidK, k)
	}
	return nil
}

// ValidateBound checks a distance upper bound. NaN, zero and negative bounds
// are rejected; +Inf is the documented "unbounded" value.
func ValidateBound(bound float64) error {
	if bound != bound || bound <= 0 {
		return &ErrInvalidUpperBound{Bound: bound}
	}
	return nil
}
