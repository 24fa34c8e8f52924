// ABOUTME: Tests for the geometry registry: key format, lazy resolution and layout tracking.
// ABOUTME: Unregistered keys must resolve to the zero point rather than fail.
package core_test

import (
	"testing"

	"github.com/2389-research/tracie/geom"
	"github.com/2389-research/tracie/scene/core"
	"github.com/google/go-cmp/cmp"
)

func TestAnchorKeyRoundTrip(t *testing.T) {
	key := core.AnchorKey(12, core.SideBottomLeft)
	if key != "12-bottom-left" {
		t.Errorf("AnchorKey: got %q", key)
	}
	id, side, err := core.ParseAnchorKey(key)
	if err != nil || id != 12 || side != core.SideBottomLeft {
		t.Errorf("ParseAnchorKey: got %d %q %v", id, side, err)
	}
	if _, _, err := core.ParseAnchorKey("nope"); err == nil {
		t.Error("ParseAnchorKey malformed: expected error")
	}
}

func TestRegistryBindResolvesLazily(t *testing.T) {
	reg := core.NewRegistry()
	e := reg.Bind(core.At(3, core.SideTop))
	if got := e.Point(); got != (geom.Point{}) {
		t.Errorf("unregistered: got %+v, want zero", got)
	}

	pos := geom.Pt(1, 2)
	reg.Register(3, core.SideTop, func() geom.Point { return pos })
	if got := e.Point(); got != pos {
		t.Errorf("after register: got %+v, want %+v", got, pos)
	}
	pos = geom.Pt(5, 6)
	if got := e.Point(); got != pos {
		t.Errorf("locator not re-evaluated: got %+v", got)
	}
}

func TestRegistryUnregisterDropsOnlyThatShape(t *testing.T) {
	reg := core.NewRegistry()
	for _, id := range []int{1, 11} {
		reg.Register(id, core.SideTop, func() geom.Point { return geom.Point{} })
		reg.Register(id, core.SideLeft, func() geom.Point { return geom.Point{} })
		reg.RegisterBounds(id, func() geom.Rect { return geom.Rect{} })
	}
	reg.Unregister(1)
	want := []string{"11-left", "11-top"}
	if diff := cmp.Diff(want, reg.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if _, ok := reg.Bounds(1); ok {
		t.Error("bounds for 1 survived Unregister")
	}
}

func TestRegistryBindLayoutTracksScene(t *testing.T) {
	ws := core.NewWorkspace()
	bn := must(t)(ws.AddBinaryNode("b"))

	box, ok := ws.Geometry.Bounds(bn.ID)
	if !ok {
		t.Fatal("bounds not registered for new shape")
	}
	if box != (geom.Rect{X: 50, Y: 50, W: 60, H: 60}) {
		t.Errorf("bounds: got %+v", box)
	}
	p, ok := ws.Geometry.Anchor(bn.ID, core.SideBottomRight)
	if !ok || p != geom.Pt(95, 110) {
		t.Errorf("bottom-right anchor: got %+v %v, want (95,110)", p, ok)
	}
	if _, ok := ws.Geometry.Anchor(bn.ID, core.SideLeft); ok {
		t.Error("binary node should not register a left anchor")
	}

	if err := ws.DeleteShape(bn.ID); err != nil {
		t.Fatalf("DeleteShape: %v", err)
	}
	if len(ws.Geometry.Keys()) != 0 {
		t.Errorf("keys after delete: %v", ws.Geometry.Keys())
	}
	ws.Undo()
	if _, ok := ws.Geometry.Anchor(bn.ID, core.SideTop); !ok {
		t.Error("anchor not re-registered after undo")
	}
}

func TestBindLayoutReregistersWhenKindChanges(t *testing.T) {
	ws := core.NewWorkspace()
	arr := must(t)(ws.AddArray(3))

	ws.Load([]core.Shape{{ID: arr.ID, X: 50, Y: 50, Body: &core.BinaryNodeBody{Value: "b"}}}, nil)

	want := []string{"1-bottom-left", "1-bottom-right", "1-top"}
	if diff := cmp.Diff(want, ws.Geometry.Keys()); diff != "" {
		t.Errorf("keys after load (-want +got):\n%s", diff)
	}
	if p, ok := ws.Geometry.Anchor(arr.ID, core.SideBottomLeft); !ok || p != geom.Pt(65, 110) {
		t.Errorf("bottom-left anchor: got %+v %v, want (65,110)", p, ok)
	}
}

func TestLayoutGeometry(t *testing.T) {
	snap := core.Snapshot{Shapes: []core.Shape{{ID: 1, X: 0, Y: 0, Body: &core.ArrayBody{Length: 3}}}}
	g := core.LayoutGeometry{Snapshot: snap}
	if p, ok := g.Anchor(1, core.SideRight); !ok || p != geom.Pt(120, 20) {
		t.Errorf("array right anchor: got %+v %v", p, ok)
	}
	if _, ok := g.Anchor(1, core.SideBottomLeft); ok {
		t.Error("array should not expose bottom-left")
	}
	if _, ok := g.Bounds(2); ok {
		t.Error("Bounds of missing shape: got ok")
	}
}
