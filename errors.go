package pointmatch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when a neighborhood size is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrNoPoints is returned when a cloud is constructed or rebuilt with
	// an empty point set.
	ErrNoPoints = errors.New("point cloud has no points")

	// ErrInvalidTarget is returned when the target of a similarity query is
	// not a usable oriented point cloud.
	ErrInvalidTarget = errors.New("target is not a usable oriented point cloud")

	// ErrEigenFailed is returned when the scatter-matrix eigendecomposition
	// does not converge. This indicates degenerate input such as NaN
	// coordinates.
	ErrEigenFailed = errors.New("scatter matrix eigendecomposition failed")
)

// ErrInsufficientData indicates fewer points than the requested
// neighborhood size.
type ErrInsufficientData struct {
	K int // Requested neighborhood size
	N int // Available points
}

func (e *ErrInsufficientData) Error() string {
	return fmt.Sprintf("insufficient data: k=%d exceeds point count %d", e.K, e.N)
}

// ErrLengthMismatch indicates that a supplied per-point array does not match
// the cloud's point count.
type ErrLengthMismatch struct {
	Field    string
	Expected int
	Actual   int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("length mismatch for %s: expected %d, got %d", e.Field, e.Expected, e.Actual)
}

// ErrInvalidTangent indicates a supplied tangent vector that is not unit
// length within tolerance.
type ErrInvalidTangent struct {
	Index int
	Norm  float64
}

func (e *ErrInvalidTangent) Error() string {
	return fmt.Sprintf("tangent %d is not unit length: |t|=%g", e.Index, e.Norm)
}

// ErrInvalidAlpha indicates a supplied confidence value outside [0,1].
type ErrInvalidAlpha struct {
	Index int
	Value float64
}

func (e *ErrInvalidAlpha) Error() string {
	return fmt.Sprintf("confidence %d out of range [0,1]: %g", e.Index, e.Value)
}
