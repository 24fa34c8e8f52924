// ABOUTME: Sentinel and typed errors for scene validation.
// ABOUTME: Validation failures are reported before any command is created.
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates malformed user input such as a non-positive size or empty name.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSide indicates a side that the shape's kind does not expose.
	ErrInvalidSide = errors.New("invalid side for shape")

	// ErrLinkNotFound indicates no connection joins the given endpoints.
	ErrLinkNotFound = errors.New("link not found")

	// ErrSelfLink indicates a connection whose ends are the same attachment point.
	ErrSelfLink = errors.New("cannot link a side to itself")
)

// ShapeNotFoundError indicates the referenced shape doesn't exist.
type ShapeNotFoundError struct {
	ID int
}

func (e *ShapeNotFoundError) Error() string {
	return fmt.Sprintf("shape not found: %d", e.ID)
}
