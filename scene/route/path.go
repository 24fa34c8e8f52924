// ABOUTME: Path is the routed geometry of one connection and its SVG path-data rendering.
// ABOUTME: Curves render as "M … C …" and grid routes as "M … L …" polylines.
package route

import (
	"strconv"
	"strings"

	"github.com/2389-research/tracie/geom"
)

// Path is a routed connection. For curves Points holds start, both control
// points and end; otherwise it is a polyline.
type Path struct {
	Points   []geom.Point
	Curve    bool
	Fallback bool
}

// Start returns the first point of the path.
func (p Path) Start() geom.Point {
	if len(p.Points) == 0 {
		return geom.Point{}
	}
	return p.Points[0]
}

// End returns the last point of the path.
func (p Path) End() geom.Point {
	if len(p.Points) == 0 {
		return geom.Point{}
	}
	return p.Points[len(p.Points)-1]
}

// String renders the path as SVG path data.
func (p Path) String() string {
	if len(p.Points) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, p.Points[0])
	if p.Curve && len(p.Points) == 4 {
		b.WriteString(" C ")
		writePoint(&b, p.Points[1])
		b.WriteByte(' ')
		writePoint(&b, p.Points[2])
		b.WriteByte(' ')
		writePoint(&b, p.Points[3])
		return b.String()
	}
	for _, pt := range p.Points[1:] {
		b.WriteString(" L ")
		writePoint(&b, pt)
	}
	return b.String()
}

func writePoint(b *strings.Builder, p geom.Point) {
	b.WriteString(formatCoord(p.X))
	b.WriteByte(',')
	b.WriteString(formatCoord(p.Y))
}

func formatCoord(v float64) string {
	if v == 0 {
		// Avoid rendering negative zero.
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
