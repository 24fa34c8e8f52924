// ABOUTME: Tests for Shape JSON encoding, cloning and kind side sets.
// ABOUTME: Verifies the flat "type"-tagged wire form and deep-copy isolation.
package core_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/2389-research/tracie/scene/core"
	"github.com/google/go-cmp/cmp"
)

func TestShapeJSONIsFlatAndTagged(t *testing.T) {
	sh := core.Shape{ID: 4, X: 10, Y: 20, Body: &core.IteratorBody{
		Name: "i", MaxIndex: 3, Color: "#112233",
		LinkedArrays: []core.LinkedArray{{ID: 1, Side: core.SideTop}},
	}}
	data, err := json.Marshal(sh)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("Unmarshal flat: %v", err)
	}
	if flat["type"] != "iterator" || flat["id"] != float64(4) || flat["maxIndex"] != float64(3) {
		t.Errorf("flat form: %s", data)
	}

	var back core.Shape
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(sh, back); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestShapeUnmarshalUnknownType(t *testing.T) {
	var sh core.Shape
	err := json.Unmarshal([]byte(`{"id":1,"type":"hexagon"}`), &sh)
	if err == nil || !strings.Contains(err.Error(), "hexagon") {
		t.Errorf("got %v, want unknown type error", err)
	}
}

func TestShapeCloneIsDeep(t *testing.T) {
	orig := core.Shape{ID: 1, Body: &core.TableBody{Rows: 1, Cols: 2, Cells: [][]string{{"a", "b"}}}}
	c := orig.Clone()
	c.Body.(*core.TableBody).Cells[0][0] = "z"
	if got := orig.Body.(*core.TableBody).Cells[0][0]; got != "a" {
		t.Errorf("clone aliased cells: original now %q", got)
	}
}

func TestKindSides(t *testing.T) {
	cases := []struct {
		kind core.Kind
		want []core.Side
	}{
		{core.KindArray, []core.Side{core.SideTop, core.SideRight, core.SideBottom, core.SideLeft}},
		{core.KindBinaryNode, []core.Side{core.SideTop, core.SideBottomLeft, core.SideBottomRight}},
		{core.KindNaryNode, []core.Side{core.SideTop, core.SideBottom}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, tc.kind.Sides()); diff != "" {
			t.Errorf("%s sides (-want +got):\n%s", tc.kind, diff)
		}
	}
	if !core.SideBottomLeft.BottomFamily() || core.SideLeft.BottomFamily() {
		t.Error("BottomFamily misclassifies sides")
	}
}

func TestParseKindAliases(t *testing.T) {
	for raw, want := range map[string]core.Kind{"table": core.KindTable, "bnode": core.KindBinaryNode, "n-ary-node": core.KindNaryNode} {
		got, err := core.ParseKind(raw)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q): got %q %v, want %q", raw, got, err, want)
		}
	}
	if _, err := core.ParseKind("blob"); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("ParseKind(blob) err = %v, want ErrInvalidInput", err)
	}
}

func TestParseEndpoint(t *testing.T) {
	got, err := core.ParseEndpoint(" 12:bottom-left ")
	if err != nil {
		t.Fatalf("ParseEndpoint: %v", err)
	}
	if got.ComponentID != 12 || got.Side != core.SideBottomLeft {
		t.Errorf("ParseEndpoint = %+v", got)
	}
	if got.String() != "12:bottom-left" {
		t.Errorf("String() = %q", got.String())
	}
	for _, bad := range []string{"12", "x:top", ""} {
		if _, err := core.ParseEndpoint(bad); !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("ParseEndpoint(%q) err = %v, want ErrInvalidInput", bad, err)
		}
	}
}
