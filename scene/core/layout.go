// ABOUTME: Default layout for shapes when no rendering layer supplies geometry.
// ABOUTME: Derives a bounding box per kind and the anchor point of each side on that box.
package core

import (
	"math"

	"github.com/2389-research/tracie/geom"
)

// CellSize is the width and height of one array or table cell.
const CellSize = 40.0

// DefaultSize returns the width and height a shape occupies.
func DefaultSize(s Shape) (w, h float64) {
	switch b := s.Body.(type) {
	case *ArrayBody:
		return CellSize * float64(max(b.Length, 1)), CellSize
	case *TableBody:
		return CellSize * float64(max(b.Cols, 1)), CellSize * float64(max(b.Rows, 1))
	case *PointerBody, *IteratorBody:
		return 80, 40
	case *NodeBody:
		return 50, 50
	case *BinaryNodeBody:
		return 60, 60
	case *NaryNodeBody:
		return math.Max(60, 30*float64(b.ChildCount)), 60
	default:
		return CellSize, CellSize
	}
}

// DefaultBox returns the shape's bounding box under the default layout.
func DefaultBox(s Shape) geom.Rect {
	w, h := DefaultSize(s)
	return geom.Rect{X: s.X, Y: s.Y, W: w, H: h}
}

// AnchorPoint returns where side attaches on box.
func AnchorPoint(box geom.Rect, side Side) geom.Point {
	switch side {
	case SideTop:
		return geom.Pt(box.X+box.W/2, box.MinY())
	case SideBottom:
		return geom.Pt(box.X+box.W/2, box.MaxY())
	case SideLeft:
		return geom.Pt(box.MinX(), box.Y+box.H/2)
	case SideRight:
		return geom.Pt(box.MaxX(), box.Y+box.H/2)
	case SideBottomLeft:
		return geom.Pt(box.X+box.W/4, box.MaxY())
	case SideBottomRight:
		return geom.Pt(box.X+3*box.W/4, box.MaxY())
	default:
		return box.Center()
	}
}
