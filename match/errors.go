package match

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMatrix is returned when a matrix is constructed with no rows
	// or no columns.
	ErrEmptyMatrix = errors.New("similarity matrix has no rows or columns")

	// ErrInvalidPenalty is returned for a negative, NaN or oversized
	// duplicate penalty.
	ErrInvalidPenalty = errors.New("duplicate penalty must be non-negative and finite")

	// ErrInvalidThreshold is returned for a NaN score threshold.
	ErrInvalidThreshold = errors.New("threshold must not be NaN")

	// ErrInfeasibleAssignment is returned when forced pairs conflict with
	// each other or with other constraints such that no valid assignment
	// exists. It is never auto-recovered.
	ErrInfeasibleAssignment = errors.New("assignment is infeasible")
)

// ErrDuplicateID indicates a repeated identifier on one matrix axis.
type ErrDuplicateID struct {
	Axis string // "row" or "column"
	ID   any
}

func (e *ErrDuplicateID) Error() string {
	return fmt.Sprintf("duplicate %s identifier: %v", e.Axis, e.ID)
}

// ErrUnknownID indicates a constraint referencing an identifier that is not
// present on the relevant matrix axis.
type ErrUnknownID struct {
	Axis string
	ID   any
}

func (e *ErrUnknownID) Error() string {
	return fmt.Sprintf("unknown %s identifier: %v", e.Axis, e.ID)
}

// ErrShapeMismatch indicates score data whose dimensions do not match the
// identifier slices.
type ErrShapeMismatch struct {
	Axis     string
	Expected int
	Actual   int
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("score shape mismatch on %s axis: expected %d, got %d", e.Axis, e.Expected, e.Actual)
}

// ErrScoreOutOfRange indicates a matrix entry that is not finite or that
// collides with the sentinel margin.
type ErrScoreOutOfRange struct {
	Row   int
	Col   int
	Score float64
}

func (e *ErrScoreOutOfRange) Error() string {
	return fmt.Sprintf("score at (%d,%d) outside legal range ±%g: %g", e.Row, e.Col, MaxScore, e.Score)
}
