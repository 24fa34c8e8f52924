// ABOUTME: Human-readable one-line descriptions of shapes shared by the exporters and front ends.
// ABOUTME: Shapes are ordered by id so every export is deterministic.
package export

import (
	"fmt"
	"slices"
	"strings"

	"github.com/2389-research/tracie/scene/core"
)

// Describe returns a short label such as "array[5]" or "iterator i (0..4)".
func Describe(sh core.Shape) string {
	switch b := sh.Body.(type) {
	case *core.ArrayBody:
		return fmt.Sprintf("array[%d]", b.Length)
	case *core.TableBody:
		return fmt.Sprintf("table %dx%d", b.Rows, b.Cols)
	case *core.PointerBody:
		if b.Value == "" {
			return "pointer " + b.Name
		}
		return fmt.Sprintf("pointer %s -> %s", b.Name, b.Value)
	case *core.IteratorBody:
		return fmt.Sprintf("iterator %s (0..%d)", b.Name, b.MaxIndex)
	case *core.NodeBody:
		return labelled("node", b.Value)
	case *core.BinaryNodeBody:
		return labelled("binary node", b.Value)
	case *core.NaryNodeBody:
		return fmt.Sprintf("%s (%d children)", labelled("n-ary node", b.Value), b.ChildCount)
	default:
		return "unknown"
	}
}

// Values returns the cell contents of array-like shapes, row by row.
func Values(sh core.Shape) [][]string {
	switch b := sh.Body.(type) {
	case *core.ArrayBody:
		return [][]string{b.Values}
	case *core.TableBody:
		return b.Cells
	default:
		return nil
	}
}

func labelled(kind, value string) string {
	if value == "" {
		return kind
	}
	return kind + " " + value
}

func sortedShapes(shapes []core.Shape) []core.Shape {
	out := slices.Clone(shapes)
	slices.SortFunc(out, func(a, b core.Shape) int { return a.ID - b.ID })
	return out
}

func joinCells(cells []string) string {
	shown := make([]string, len(cells))
	for i, c := range cells {
		if c == "" {
			c = "·"
		}
		shown[i] = c
	}
	return strings.Join(shown, " ")
}
