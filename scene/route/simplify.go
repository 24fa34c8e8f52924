// ABOUTME: Polyline simplification that drops interior points lying on a straight run.
// ABOUTME: Only horizontal, vertical and 45-degree runs are merged.
package route

import (
	"math"

	"github.com/2389-research/tracie/geom"
)

const epsilon = 1e-9

// direction is a unit step in one of the eight compass directions.
type direction struct{ dx, dy int }

// stepDirection returns the compass direction from a to b, or false when the
// segment is degenerate or not aligned to one of the eight directions.
func stepDirection(a, b geom.Point) (direction, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	ax, ay := math.Abs(dx), math.Abs(dy)
	if ax < epsilon && ay < epsilon {
		return direction{}, false
	}
	if ax > epsilon && ay > epsilon && math.Abs(ax-ay) > epsilon {
		return direction{}, false
	}
	return direction{dx: int(sign(round(dx))), dy: int(sign(round(dy)))}, true
}

func round(v float64) float64 {
	if math.Abs(v) < epsilon {
		return 0
	}
	return v
}

// Simplify removes every interior point whose incoming and outgoing
// segments share the same compass direction. Duplicate consecutive points
// are dropped as well.
func Simplify(points []geom.Point) []geom.Point {
	if len(points) < 3 {
		return append([]geom.Point(nil), points...)
	}
	out := []geom.Point{points[0]}
	for i := 1; i < len(points)-1; i++ {
		prev, cur, next := out[len(out)-1], points[i], points[i+1]
		if geom.Distance(prev, cur) < epsilon {
			continue
		}
		d1, ok1 := stepDirection(prev, cur)
		d2, ok2 := stepDirection(cur, next)
		if ok1 && ok2 && d1 == d2 {
			continue
		}
		out = append(out, cur)
	}
	return append(out, points[len(points)-1])
}
