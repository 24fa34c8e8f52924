// ABOUTME: Quadtree-backed index of obstacle boxes for grid routing.
// ABOUTME: Box centres are indexed; queries search a window as large as the widest box.
package route

import (
	"math"

	"github.com/2389-research/tracie/geom"
	"github.com/asim/quadtree"
)

// obstacleIndex answers point-in-box queries over a fixed set of boxes.
type obstacleIndex struct {
	tree         *quadtree.QuadTree
	halfW, halfH float64
}

func newObstacleIndex(boxes []geom.Rect) *obstacleIndex {
	if len(boxes) == 0 {
		return &obstacleIndex{}
	}
	area := geom.Bounds(boxes...).Expand(1)
	c := area.Center()
	idx := &obstacleIndex{
		tree: quadtree.New(quadtree.NewAABB(
			quadtree.NewPoint(c.X, c.Y, nil),
			quadtree.NewPoint(area.W/2, area.H/2, nil),
		), 0, nil),
	}

	// Boxes sharing a centre share one quadtree point.
	byCenter := map[geom.Point][]geom.Rect{}
	var order []geom.Point
	for _, b := range boxes {
		bc := b.Center()
		if _, ok := byCenter[bc]; !ok {
			order = append(order, bc)
		}
		byCenter[bc] = append(byCenter[bc], b)
		idx.halfW = math.Max(idx.halfW, b.W/2)
		idx.halfH = math.Max(idx.halfH, b.H/2)
	}
	for _, bc := range order {
		idx.tree.Insert(quadtree.NewPoint(bc.X, bc.Y, byCenter[bc]))
	}
	return idx
}

func (o *obstacleIndex) candidates(p geom.Point) []geom.Rect {
	if o.tree == nil {
		return nil
	}
	window := quadtree.NewAABB(
		quadtree.NewPoint(p.X, p.Y, nil),
		quadtree.NewPoint(o.halfW+1, o.halfH+1, nil),
	)
	var out []geom.Rect
	for _, pt := range o.tree.Search(window) {
		out = append(out, pt.Data().([]geom.Rect)...)
	}
	return out
}

// Blocked reports whether p lies inside or on any box.
func (o *obstacleIndex) Blocked(p geom.Point) bool {
	for _, b := range o.candidates(p) {
		if b.Contains(p) {
			return true
		}
	}
	return false
}

// Inside reports whether p lies strictly inside any box.
func (o *obstacleIndex) Inside(p geom.Point) bool {
	for _, b := range o.candidates(p) {
		if b.ContainsStrict(p) {
			return true
		}
	}
	return false
}
