// ABOUTME: Tests for Workspace validation, id allocation, placement and default link colours.
// ABOUTME: Invalid input must be rejected without recording any command.
package core_test

import (
	"errors"
	"testing"

	"github.com/2389-research/tracie/geom"
	"github.com/2389-research/tracie/scene/core"
)

func TestWorkspaceRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		spec core.ShapeSpec
	}{
		{"zero length array", core.ShapeSpec{Kind: core.KindArray}},
		{"negative table", core.ShapeSpec{Kind: core.KindTable, Rows: -1, Cols: 2}},
		{"empty pointer name", core.ShapeSpec{Kind: core.KindPointer, Name: "  "}},
		{"iterator without max index", core.ShapeSpec{Kind: core.KindIterator, Name: "i"}},
		{"nary without children", core.ShapeSpec{Kind: core.KindNaryNode}},
		{"unknown kind", core.ShapeSpec{Kind: "circle"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ws := core.NewWorkspace()
			_, err := ws.Add(tc.spec)
			if !errors.Is(err, core.ErrInvalidInput) {
				t.Errorf("Add: got %v, want ErrInvalidInput", err)
			}
			if ws.History.CanUndo() {
				t.Error("invalid input recorded a command")
			}
			if ws.NextID() != 1 {
				t.Errorf("NextID: got %d, want 1", ws.NextID())
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"5", 5, true},
		{" 12 ", 12, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"five", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := core.ParseSize(tc.raw)
		if (err == nil) != tc.ok {
			t.Errorf("ParseSize(%q): err=%v, want ok=%v", tc.raw, err, tc.ok)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("ParseSize(%q): got %d, want %d", tc.raw, got, tc.want)
		}
		if !tc.ok && !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("ParseSize(%q): got %v, want ErrInvalidInput", tc.raw, err)
		}
	}
}

func TestWorkspaceIDsAreNeverReused(t *testing.T) {
	ws := core.NewWorkspace()
	a := must(t)(ws.AddNode("a"))
	ws.Undo()
	b := must(t)(ws.AddNode("b"))
	if b.ID == a.ID {
		t.Errorf("id reused after undo: %d", b.ID)
	}
}

func TestWorkspacePlacementCascades(t *testing.T) {
	ws := core.NewWorkspace()
	first := must(t)(ws.AddNode("a"))
	second := must(t)(ws.AddNode("b"))
	if first.X != 50 || first.Y != 50 {
		t.Errorf("first placement: got (%v,%v), want (50,50)", first.X, first.Y)
	}
	if second.X != 70 || second.Y != 70 {
		t.Errorf("second placement: got (%v,%v), want (70,70)", second.X, second.Y)
	}
}

func TestConnectValidation(t *testing.T) {
	ws := core.NewWorkspace()
	bn := must(t)(ws.AddBinaryNode("root"))
	n := must(t)(ws.AddNode("leaf"))

	var notFound *core.ShapeNotFoundError
	if _, err := ws.Connect(core.At(99, core.SideTop), core.At(n.ID, core.SideTop), ""); !errors.As(err, &notFound) {
		t.Errorf("missing shape: got %v, want ShapeNotFoundError", err)
	}
	if _, err := ws.Connect(core.At(bn.ID, core.SideLeft), core.At(n.ID, core.SideTop), ""); !errors.Is(err, core.ErrInvalidSide) {
		t.Errorf("binary node left side: got %v, want ErrInvalidSide", err)
	}
	if _, err := ws.Connect(core.At(n.ID, core.SideTop), core.At(n.ID, core.SideTop), ""); !errors.Is(err, core.ErrSelfLink) {
		t.Errorf("self link: got %v, want ErrSelfLink", err)
	}
	if err := ws.Disconnect(core.At(bn.ID, core.SideTop), core.At(n.ID, core.SideTop)); !errors.Is(err, core.ErrLinkNotFound) {
		t.Errorf("Disconnect missing: got %v, want ErrLinkNotFound", err)
	}
	if got := ws.History.UndoDepth(); got != 2 {
		t.Errorf("rejected links recorded commands: depth %d, want 2", got)
	}
}

func TestConnectDefaultColors(t *testing.T) {
	ws := core.NewWorkspace()
	a := must(t)(ws.AddArray(2))
	b := must(t)(ws.AddArray(2))
	it := must(t)(ws.AddIterator("i", 2))
	n := must(t)(ws.AddNode("n"))

	c1, _ := ws.Connect(core.At(it.ID, core.SideBottom), core.At(a.ID, core.SideTop), "")
	c2, _ := ws.Connect(core.At(it.ID, core.SideBottom), core.At(b.ID, core.SideTop), "")
	c3, _ := ws.Connect(core.At(n.ID, core.SideRight), core.At(a.ID, core.SideLeft), "")
	c4, _ := ws.Connect(core.At(n.ID, core.SideTop), core.At(b.ID, core.SideLeft), "#ff0000")

	if c1.Color != geom.Shade(geom.DefaultIteratorColor, 0) {
		t.Errorf("first iterator link colour: got %s", c1.Color)
	}
	if c2.Color != geom.Shade(geom.DefaultIteratorColor, 1) {
		t.Errorf("second iterator link colour: got %s", c2.Color)
	}
	if c3.Color != core.DefaultLinkColor {
		t.Errorf("plain link colour: got %s", c3.Color)
	}
	if c4.Color != "#ff0000" {
		t.Errorf("explicit colour: got %s", c4.Color)
	}
}

func TestConnectBindsEndpointsToLayout(t *testing.T) {
	ws := core.NewWorkspace()
	a := must(t)(ws.AddNode("a"))
	b := must(t)(ws.AddNode("b"))
	c, err := ws.Connect(core.At(a.ID, core.SideRight), core.At(b.ID, core.SideLeft), "")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	// Node a sits at (50,50) with a 50x50 box.
	if got := c.From.Point(); got != geom.Pt(100, 75) {
		t.Errorf("From.Point: got %+v, want (100,75)", got)
	}
	if err := ws.MoveShape(a.ID, geom.Pt(0, 0)); err != nil {
		t.Fatalf("MoveShape: %v", err)
	}
	if got := c.From.Point(); got != geom.Pt(50, 25) {
		t.Errorf("From.Point after move: got %+v, want (50,25)", got)
	}
}

func TestLoadResetsHistoryKeepsIDsMonotonic(t *testing.T) {
	ws := core.NewWorkspace()
	must(t)(ws.AddNode("a"))
	ws.Load([]core.Shape{{ID: 9, Body: &core.NodeBody{Value: "x"}}}, nil)
	if ws.History.CanUndo() {
		t.Error("history survived Load")
	}
	if ws.NextID() != 10 {
		t.Errorf("NextID after load: got %d, want 10", ws.NextID())
	}

	ws.Load([]core.Shape{{ID: 2, Body: &core.NodeBody{Value: "y"}}}, nil)
	if ws.NextID() != 10 {
		t.Errorf("NextID after loading lower ids: got %d, want 10", ws.NextID())
	}

	ws.Reset()
	if len(ws.Scene.ListShapes()) != 0 || ws.NextID() != 10 {
		t.Errorf("Reset: %d shapes, next id %d, want 0 and 10", len(ws.Scene.ListShapes()), ws.NextID())
	}
	if sh := must(t)(ws.AddNode("z")); sh.ID != 10 {
		t.Errorf("id after reset: got %d, want 10", sh.ID)
	}
}
