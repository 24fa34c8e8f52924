// ABOUTME: Direct routing mode: a cubic Bézier between two anchors bowing along the dominant axis.
// ABOUTME: Control offset is half the smaller axis distance, capped at MaxCurveOffset.
package route

import (
	"math"

	"github.com/2389-research/tracie/geom"
)

// MaxCurveOffset caps how far control points sit from their endpoints.
const MaxCurveOffset = 100.0

// Curve returns the direct-mode path between from and to.
func Curve(from, to geom.Point) Path {
	dx, dy := to.X-from.X, to.Y-from.Y
	offset := math.Min(math.Min(math.Abs(dx), math.Abs(dy))*0.5, MaxCurveOffset)

	var c1, c2 geom.Point
	if math.Abs(dx) > math.Abs(dy) {
		s := sign(dx)
		c1 = geom.Pt(from.X+s*offset, from.Y)
		c2 = geom.Pt(to.X-s*offset, to.Y)
	} else {
		s := sign(dy)
		c1 = geom.Pt(from.X, from.Y+s*offset)
		c2 = geom.Pt(to.X, to.Y-s*offset)
	}
	return Path{Points: []geom.Point{from, c1, c2, to}, Curve: true}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
