// ABOUTME: Side optimization: picks the attachment sides that minimise a link's anchor distance.
// ABOUTME: Binary nodes may not join two bottom-family sides; ties keep the current sides.
package route

import (
	"math"

	"github.com/2389-research/tracie/geom"
	"github.com/2389-research/tracie/scene/core"
)

// SidesAllowed reports whether sa on a may connect to sb on b.
func SidesAllowed(a, b core.Shape, sa, sb core.Side) bool {
	if !a.Kind().HasSide(sa) || !b.Kind().HasSide(sb) {
		return false
	}
	binary := a.Kind() == core.KindBinaryNode || b.Kind() == core.KindBinaryNode
	return !(binary && sa.BottomFamily() && sb.BottomFamily())
}

// OptimizeSides returns the side pair with the shortest anchor distance
// between a and b. The current pair wins ties; otherwise the first pair in
// enumeration order does.
func OptimizeSides(g core.GeometryProvider, a, b core.Shape, curA, curB core.Side) (core.Side, core.Side) {
	bestA, bestB := curA, curB
	bestDist := math.Inf(1)
	if SidesAllowed(a, b, curA, curB) {
		if d, ok := sideDistance(g, a.ID, b.ID, curA, curB); ok {
			bestDist = d
		}
	}
	for _, sa := range a.Kind().Sides() {
		for _, sb := range b.Kind().Sides() {
			if !SidesAllowed(a, b, sa, sb) {
				continue
			}
			d, ok := sideDistance(g, a.ID, b.ID, sa, sb)
			if ok && d < bestDist {
				bestA, bestB, bestDist = sa, sb, d
			}
		}
	}
	return bestA, bestB
}

func sideDistance(g core.GeometryProvider, a, b int, sa, sb core.Side) (float64, bool) {
	pa, okA := g.Anchor(a, sa)
	pb, okB := g.Anchor(b, sb)
	if !okA || !okB {
		return 0, false
	}
	return geom.Distance(pa, pb), true
}

// PlanOptimization returns the retargets that move every connection in snap
// onto its optimal sides. Connections already optimal are omitted.
func PlanOptimization(g core.GeometryProvider, snap core.Snapshot) []core.Retarget {
	var moves []core.Retarget
	for _, c := range snap.Connections {
		a, okA := snap.Shape(c.From.ComponentID)
		b, okB := snap.Shape(c.To.ComponentID)
		if !okA || !okB {
			continue
		}
		sa, sb := OptimizeSides(g, a, b, c.From.Side, c.To.Side)
		if sa == c.From.Side && sb == c.To.Side {
			continue
		}
		after := c
		after.From = core.At(c.From.ComponentID, sa)
		after.To = core.At(c.To.ComponentID, sb)
		moves = append(moves, core.Retarget{Before: c, After: after})
	}
	return moves
}

// OptimizeLinks moves every link in ws onto its optimal sides as a single
// undo step and returns how many links changed.
func OptimizeLinks(ws *core.Workspace) int {
	moves := PlanOptimization(ws.Geometry, ws.Scene.Snapshot())
	ws.Retarget(moves)
	return len(moves)
}
