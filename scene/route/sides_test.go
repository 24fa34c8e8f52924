// ABOUTME: Tests for side optimization over the default layout.
// ABOUTME: Covers nearest-pair choice, the binary-node bottom rule and tie-breaking.
package route_test

import (
	"testing"

	"github.com/2389-research/tracie/scene/core"
	"github.com/2389-research/tracie/scene/route"
	"github.com/google/go-cmp/cmp"
)

func layoutOf(shapes ...core.Shape) core.LayoutGeometry {
	return core.LayoutGeometry{Snapshot: core.Snapshot{Shapes: shapes}}
}

func node(id int, x, y float64) core.Shape {
	return core.Shape{ID: id, X: x, Y: y, Body: &core.NodeBody{}}
}

func TestOptimizeSidesPicksFacingSides(t *testing.T) {
	a, b := node(1, 0, 0), node(2, 300, 0)
	sa, sb := route.OptimizeSides(layoutOf(a, b), a, b, core.SideTop, core.SideTop)
	if sa != core.SideRight || sb != core.SideLeft {
		t.Errorf("got %s/%s, want right/left", sa, sb)
	}
}

func TestOptimizeSidesVerticalStack(t *testing.T) {
	a := node(1, 0, 0)
	b := core.Shape{ID: 2, X: 0, Y: 200, Body: &core.NaryNodeBody{ChildCount: 2}}
	sa, sb := route.OptimizeSides(layoutOf(a, b), a, b, core.SideLeft, core.SideBottom)
	if sa != core.SideBottom || sb != core.SideTop {
		t.Errorf("got %s/%s, want bottom/top", sa, sb)
	}
}

func TestOptimizeSidesBinaryNodeForbidsBottomPairs(t *testing.T) {
	a := core.Shape{ID: 1, Body: &core.BinaryNodeBody{}}
	b := core.Shape{ID: 2, X: 100, Body: &core.BinaryNodeBody{}}
	sa, sb := route.OptimizeSides(layoutOf(a, b), a, b, core.SideBottomRight, core.SideBottomLeft)
	if sa.BottomFamily() && sb.BottomFamily() {
		t.Fatalf("got forbidden pair %s/%s", sa, sb)
	}
	if sa != core.SideTop || sb != core.SideTop {
		t.Errorf("got %s/%s, want top/top", sa, sb)
	}
	if route.SidesAllowed(a, b, core.SideBottomLeft, core.SideBottomRight) {
		t.Error("SidesAllowed accepted two bottom sides on binary nodes")
	}
}

func TestOptimizeSidesTieBreaking(t *testing.T) {
	// right->top and bottom->left are equally short.
	a, b := node(1, 0, 0), node(2, 100, 100)
	g := layoutOf(a, b)

	sa, sb := route.OptimizeSides(g, a, b, core.SideBottom, core.SideLeft)
	if sa != core.SideBottom || sb != core.SideLeft {
		t.Errorf("current pair should win the tie, got %s/%s", sa, sb)
	}
	sa, sb = route.OptimizeSides(g, a, b, core.SideTop, core.SideTop)
	if sa != core.SideRight || sb != core.SideTop {
		t.Errorf("enumeration order should win, got %s/%s", sa, sb)
	}
}

func TestOptimizeLinksIsOneUndoStep(t *testing.T) {
	ws := core.NewWorkspace()
	a, _ := ws.AddNode("a")
	b, _ := ws.AddNode("b")
	if err := ws.MoveShape(b.ID, geomPt(400, 50)); err != nil {
		t.Fatalf("MoveShape: %v", err)
	}
	if _, err := ws.Connect(core.At(a.ID, core.SideTop), core.At(b.ID, core.SideBottom), ""); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	before := ws.Scene.ListConnections()

	if n := route.OptimizeLinks(ws); n != 1 {
		t.Fatalf("OptimizeLinks changed %d links, want 1", n)
	}
	got := ws.Scene.ListConnections()[0]
	if got.From.Side != core.SideRight || got.To.Side != core.SideLeft {
		t.Errorf("optimized sides: got %s/%s", got.From.Side, got.To.Side)
	}
	if n := route.OptimizeLinks(ws); n != 0 {
		t.Errorf("second optimization changed %d links", n)
	}

	ws.Undo()
	opts := cmp.Options{cmp.Comparer(func(x, y core.Endpoint) bool { return x.Same(y) })}
	if diff := cmp.Diff(before, ws.Scene.ListConnections(), opts); diff != "" {
		t.Errorf("after undo (-want +got):\n%s", diff)
	}
}
