// ABOUTME: Shape is the tagged union of diagram components with a kind-specific Body.
// ABOUTME: Shapes marshal to flat JSON objects discriminated by a "type" field.
package core

import (
	"encoding/json"
	"fmt"
)

// Shape is one component on the canvas.
type Shape struct {
	ID   int
	X, Y float64
	Body Body
}

// Kind returns the shape's variant, or "" for a shape without a body.
func (s Shape) Kind() Kind {
	if s.Body == nil {
		return ""
	}
	return s.Body.Kind()
}

// Clone returns a deep copy of s. Mutating the clone never affects s.
func (s Shape) Clone() Shape {
	out := s
	if s.Body != nil {
		out.Body = s.Body.clone()
	}
	return out
}

// Body carries the fields specific to one shape kind.
type Body interface {
	Kind() Kind
	clone() Body
}

// LinkedArray records one array-like shape attached to an iterator. The
// order of entries determines the shade each linked array is painted with.
type LinkedArray struct {
	ID   int  `json:"id"`
	Side Side `json:"side"`
}

// ArrayBody is a one-dimensional array of Length cells.
type ArrayBody struct {
	Length int      `json:"length"`
	Values []string `json:"values"`
}

func (b *ArrayBody) Kind() Kind { return KindArray }
func (b *ArrayBody) clone() Body {
	c := *b
	c.Values = cloneStrings(b.Values)
	return &c
}

// TableBody is a two-dimensional array; Cells is row-major.
type TableBody struct {
	Rows  int        `json:"rows"`
	Cols  int        `json:"cols"`
	Cells [][]string `json:"cells"`
}

func (b *TableBody) Kind() Kind { return KindTable }
func (b *TableBody) clone() Body {
	c := *b
	if b.Cells != nil {
		c.Cells = make([][]string, len(b.Cells))
		for i, row := range b.Cells {
			c.Cells[i] = cloneStrings(row)
		}
	}
	return &c
}

// PointerBody is a named pointer variable.
type PointerBody struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (b *PointerBody) Kind() Kind { return KindPointer }
func (b *PointerBody) clone() Body {
	c := *b
	return &c
}

// IteratorBody is an index cursor. LinkedArrays is derived from the
// scene's connections and only changes through link commands.
type IteratorBody struct {
	Name         string        `json:"name"`
	MaxIndex     int           `json:"maxIndex"`
	Color        string        `json:"color"`
	LinkedArrays []LinkedArray `json:"linkedArrays"`
}

func (b *IteratorBody) Kind() Kind { return KindIterator }
func (b *IteratorBody) clone() Body {
	c := *b
	if b.LinkedArrays != nil {
		c.LinkedArrays = append([]LinkedArray(nil), b.LinkedArrays...)
	}
	return &c
}

// NodeBody is a linked-list node.
type NodeBody struct {
	Value string `json:"value"`
	Color string `json:"color"`
}

func (b *NodeBody) Kind() Kind { return KindNode }
func (b *NodeBody) clone() Body {
	c := *b
	return &c
}

// BinaryNodeBody is a binary tree node with left and right child sides.
type BinaryNodeBody struct {
	Value string `json:"value"`
	Color string `json:"color"`
}

func (b *BinaryNodeBody) Kind() Kind { return KindBinaryNode }
func (b *BinaryNodeBody) clone() Body {
	c := *b
	return &c
}

// NaryNodeBody is a tree node with ChildCount children hanging off its bottom.
type NaryNodeBody struct {
	Value      string `json:"value"`
	Color      string `json:"color"`
	ChildCount int    `json:"childCount"`
}

func (b *NaryNodeBody) Kind() Kind { return KindNaryNode }
func (b *NaryNodeBody) clone() Body {
	c := *b
	return &c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

// MarshalJSON writes the shape as a flat object with a "type" discriminator.
func (s Shape) MarshalJSON() ([]byte, error) {
	if s.Body == nil {
		return nil, fmt.Errorf("marshal shape %d: missing body", s.ID)
	}
	raw, err := json.Marshal(s.Body)
	if err != nil {
		return nil, fmt.Errorf("marshal shape %d: %w", s.ID, err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	for k, v := range map[string]any{"id": s.ID, "x": s.X, "y": s.Y, "type": s.Body.Kind()} {
		enc, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		m[k] = enc
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads a flat shape object, choosing the body by "type".
func (s *Shape) UnmarshalJSON(data []byte) error {
	var envelope struct {
		ID   int     `json:"id"`
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
		Type Kind    `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("unmarshal shape envelope: %w", err)
	}

	var body Body
	switch envelope.Type {
	case KindArray:
		body = &ArrayBody{}
	case KindTable:
		body = &TableBody{}
	case KindPointer:
		body = &PointerBody{}
	case KindIterator:
		body = &IteratorBody{}
	case KindNode:
		body = &NodeBody{}
	case KindBinaryNode:
		body = &BinaryNodeBody{}
	case KindNaryNode:
		body = &NaryNodeBody{}
	default:
		return fmt.Errorf("unknown shape type: %q", envelope.Type)
	}
	if err := json.Unmarshal(data, body); err != nil {
		return fmt.Errorf("unmarshal %s shape %d: %w", envelope.Type, envelope.ID, err)
	}
	*s = Shape{ID: envelope.ID, X: envelope.X, Y: envelope.Y, Body: body}
	return nil
}
