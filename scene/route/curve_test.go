// ABOUTME: Tests for direct-mode curves and SVG path-data formatting.
// ABOUTME: Covers the dominant-axis bow and the control offset cap.
package route_test

import (
	"testing"

	"github.com/2389-research/tracie/geom"
	"github.com/2389-research/tracie/scene/route"
)

func TestCurve(t *testing.T) {
	cases := []struct {
		name     string
		from, to geom.Point
		want     string
	}{
		{"horizontal dominant", geom.Pt(0, 0), geom.Pt(200, 100), "M 0,0 C 50,0 150,100 200,100"},
		{"offset capped", geom.Pt(0, 0), geom.Pt(1000, 600), "M 0,0 C 100,0 900,600 1000,600"},
		{"vertical dominant", geom.Pt(0, 0), geom.Pt(40, 300), "M 0,0 C 0,20 40,280 40,300"},
		{"leftward", geom.Pt(200, 50), geom.Pt(0, 0), "M 200,50 C 175,50 25,0 0,0"},
		{"straight", geom.Pt(0, 10), geom.Pt(80, 10), "M 0,10 C 0,10 80,10 80,10"},
		{"equal axes bow vertically", geom.Pt(0, 0), geom.Pt(100, 100), "M 0,0 C 0,50 100,50 100,100"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := route.Curve(tc.from, tc.to)
			if got := p.String(); got != tc.want {
				t.Errorf("Curve: got %q, want %q", got, tc.want)
			}
			if p.Start() != tc.from || p.End() != tc.to {
				t.Errorf("endpoints: got %+v -> %+v", p.Start(), p.End())
			}
		})
	}
}

func TestPolylineString(t *testing.T) {
	p := route.Path{Points: []geom.Point{geom.Pt(0, 0), geom.Pt(8.5, 0), geom.Pt(8.5, -16)}}
	if got, want := p.String(), "M 0,0 L 8.5,0 L 8.5,-16"; got != want {
		t.Errorf("String: got %q, want %q", got, want)
	}
	if got := (route.Path{}).String(); got != "" {
		t.Errorf("empty path: got %q", got)
	}
}
