// SPDX-License-Identifier: MIT

// Package sketch: orientations, sentinel errors and the tagged backend error.
package sketch

import (
	"errors"
	"fmt"
)

// Orientation selects whether the linear map acts on the input's rows
// (Columnwise: height N -> S) or on its columns (Rowwise: width N -> S).
type Orientation int

const (
	// Columnwise applies the map along columns: each column of the input is
	// projected from length N to length S.
	Columnwise Orientation = iota
	// Rowwise applies the map along rows: each row of the input is
	// projected from length N to length S.
	Rowwise
)

// String returns the orientation tag name.
func (o Orientation) String() string {
	if o == Columnwise {
		return "Columnwise"
	}

	return "Rowwise"
}

// ErrParameterRange is returned when a distribution-specific parameter
// constraint is violated at construction.
var ErrParameterRange = errors.New("sketch: parameter out of supported range")

// ErrDimension is returned when the governing dimension contract of Apply
// is violated.
var ErrDimension = errors.New("sketch: dimension mismatch")

// ErrInvalidDimensions is returned by constructors for non-positive N or S.
var ErrInvalidDimensions = errors.New("sketch: dimensions must be > 0")

// ErrNilMatrix is returned when Apply receives a nil input or output.
var ErrNilMatrix = errors.New("sketch: nil matrix")

// ErrNilContext is returned by constructors given a nil random context.
var ErrNilContext = errors.New("sketch: nil random stream context")

// ErrUnsupportedOrientation is returned for orientations outside the two
// defined tags.
var ErrUnsupportedOrientation = errors.New("sketch: unsupported orientation")

// ErrUnsupportedDistribution is returned when the (input layout, output
// layout, orientation) combination has no specialization.
var ErrUnsupportedDistribution = errors.New("sketch: unsupported matrix distribution")

// ErrUnknownKind is returned by FromTree for an unrecognized type tag.
var ErrUnknownKind = errors.New("sketch: unknown transform kind")

// ErrCollectiveAborted is returned on every member when any member of the
// grid failed before a collective point. Converting a subset failure into a
// common error is what keeps the surviving members from deadlocking inside
// a collective that can never complete.
var ErrCollectiveAborted = errors.New("sketch: collective aborted by peer failure")

// Origin tags which back-end layer a re-signaled failure came from.
type Origin int

const (
	// OriginLinAlg: the local linear-algebra layer (a numerical fault).
	OriginLinAlg Origin = iota
	// OriginComm: the communication layer (a grid fault).
	OriginComm
)

// String returns the origin tag name.
func (o Origin) String() string {
	if o == OriginLinAlg {
		return "linalg"
	}

	return "comm"
}

// BackendError re-signals a lower-level failure caught at the transform
// boundary, preserving the original message and tagging its origin.
type BackendError struct {
	Origin Origin
	Err    error
}

// Error formats the tagged message.
func (e *BackendError) Error() string {
	return fmt.Sprintf("sketch: %s backend: %v", e.Origin, e.Err)
}

// Unwrap exposes the original failure for errors.Is/As chains.
func (e *BackendError) Unwrap() error { return e.Err }
