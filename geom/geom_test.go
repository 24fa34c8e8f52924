// ABOUTME: Tests for the geometry primitives: distance, containment, expansion and union.
// ABOUTME: Uses table-driven cases for the boundary behaviour the router depends on.
package geom_test

import (
	"math"
	"testing"

	"github.com/2389-research/tracie/geom"
)

func TestDistance(t *testing.T) {
	got := geom.Distance(geom.Pt(0, 0), geom.Pt(3, 4))
	if got != 5 {
		t.Errorf("Distance: got %v, want 5", got)
	}
	if d := geom.Distance(geom.Pt(2, 2), geom.Pt(2, 2)); d != 0 {
		t.Errorf("Distance same point: got %v, want 0", d)
	}
}

func TestRectContains(t *testing.T) {
	r := geom.Rect{X: 10, Y: 10, W: 20, H: 10}
	cases := []struct {
		name           string
		p              geom.Point
		inside, strict bool
	}{
		{"center", geom.Pt(20, 15), true, true},
		{"corner", geom.Pt(10, 10), true, false},
		{"edge", geom.Pt(30, 15), true, false},
		{"outside", geom.Pt(31, 15), false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.p); got != tc.inside {
				t.Errorf("Contains: got %v, want %v", got, tc.inside)
			}
			if got := r.ContainsStrict(tc.p); got != tc.strict {
				t.Errorf("ContainsStrict: got %v, want %v", got, tc.strict)
			}
		})
	}
}

func TestRectExpandAndCenter(t *testing.T) {
	r := geom.Rect{X: 0, Y: 0, W: 40, H: 40}.Expand(15)
	want := geom.Rect{X: -15, Y: -15, W: 70, H: 70}
	if r != want {
		t.Errorf("Expand: got %+v, want %+v", r, want)
	}
	if c := r.Center(); c != geom.Pt(20, 20) {
		t.Errorf("Center: got %+v, want (20,20)", c)
	}
}

func TestBounds(t *testing.T) {
	if got := geom.Bounds(); got != (geom.Rect{}) {
		t.Errorf("Bounds(): got %+v, want zero", got)
	}
	got := geom.Bounds(geom.Rect{X: 0, Y: 0, W: 10, H: 10}, geom.Rect{X: 20, Y: -5, W: 5, H: 5})
	want := geom.Rect{X: 0, Y: -5, W: 25, H: 15}
	if got != want {
		t.Errorf("Bounds: got %+v, want %+v", got, want)
	}
}

func TestRectFromPoints(t *testing.T) {
	got := geom.RectFromPoints(geom.Pt(5, 9), geom.Pt(1, 2))
	if got.MinX() != 1 || got.MinY() != 2 || math.Abs(got.MaxX()-5) > 1e-9 || math.Abs(got.MaxY()-9) > 1e-9 {
		t.Errorf("RectFromPoints: got %+v", got)
	}
}
