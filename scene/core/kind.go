// ABOUTME: Shape kinds and attachment sides for the diagram scene model.
// ABOUTME: Defines which sides each kind exposes and the bottom-family grouping used by routing.
package core

import "fmt"

// Kind is the closed set of shape variants a scene can hold.
type Kind string

const (
	KindArray      Kind = "array"
	KindTable      Kind = "2darray"
	KindPointer    Kind = "pointer"
	KindIterator   Kind = "iterator"
	KindNode       Kind = "node"
	KindBinaryNode Kind = "binarynode"
	KindNaryNode   Kind = "narynode"
)

// Kinds lists every shape kind in declaration order.
var Kinds = []Kind{KindArray, KindTable, KindPointer, KindIterator, KindNode, KindBinaryNode, KindNaryNode}

// ParseKind accepts the wire tag of a kind as well as a few friendly aliases.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "array":
		return KindArray, nil
	case "2darray", "table", "table2d":
		return KindTable, nil
	case "pointer":
		return KindPointer, nil
	case "iterator":
		return KindIterator, nil
	case "node":
		return KindNode, nil
	case "binarynode", "binary-node", "bnode":
		return KindBinaryNode, nil
	case "narynode", "n-ary-node", "nnode":
		return KindNaryNode, nil
	default:
		return "", fmt.Errorf("%w: unknown shape kind %q", ErrInvalidInput, s)
	}
}

// ArrayLike reports whether iterators track links to shapes of this kind.
func (k Kind) ArrayLike() bool {
	return k == KindArray || k == KindTable
}

// Side names an attachment point on a shape's boundary.
type Side string

const (
	SideTop         Side = "top"
	SideRight       Side = "right"
	SideBottom      Side = "bottom"
	SideLeft        Side = "left"
	SideBottomLeft  Side = "bottom-left"
	SideBottomRight Side = "bottom-right"
)

var (
	cardinalSides   = []Side{SideTop, SideRight, SideBottom, SideLeft}
	binaryNodeSides = []Side{SideTop, SideBottomLeft, SideBottomRight}
	naryNodeSides   = []Side{SideTop, SideBottom}
)

// Sides returns the attachment sides a kind exposes, in enumeration order.
// The returned slice must not be modified.
func (k Kind) Sides() []Side {
	switch k {
	case KindBinaryNode:
		return binaryNodeSides
	case KindNaryNode:
		return naryNodeSides
	default:
		return cardinalSides
	}
}

// HasSide reports whether s is a valid attachment side for k.
func (k Kind) HasSide(s Side) bool {
	for _, v := range k.Sides() {
		if v == s {
			return true
		}
	}
	return false
}

// BottomFamily reports whether s attaches to the bottom edge.
func (s Side) BottomFamily() bool {
	return s == SideBottom || s == SideBottomLeft || s == SideBottomRight
}
