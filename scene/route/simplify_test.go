// ABOUTME: Tests for polyline simplification along the eight compass directions.
// ABOUTME: Off-angle segments must be preserved.
package route_test

import (
	"testing"

	"github.com/2389-research/tracie/geom"
	"github.com/2389-research/tracie/scene/route"
	"github.com/google/go-cmp/cmp"
)

func TestSimplify(t *testing.T) {
	cases := []struct {
		name string
		in   []geom.Point
		want []geom.Point
	}{
		{
			name: "horizontal run",
			in:   []geom.Point{geom.Pt(0, 0), geom.Pt(8, 0), geom.Pt(16, 0), geom.Pt(24, 0)},
			want: []geom.Point{geom.Pt(0, 0), geom.Pt(24, 0)},
		},
		{
			name: "diagonal then vertical",
			in:   []geom.Point{geom.Pt(0, 0), geom.Pt(8, 8), geom.Pt(16, 16), geom.Pt(16, 24), geom.Pt(16, 32)},
			want: []geom.Point{geom.Pt(0, 0), geom.Pt(16, 16), geom.Pt(16, 32)},
		},
		{
			name: "off-angle kept",
			in:   []geom.Point{geom.Pt(0, 0), geom.Pt(8, 4), geom.Pt(16, 8)},
			want: []geom.Point{geom.Pt(0, 0), geom.Pt(8, 4), geom.Pt(16, 8)},
		},
		{
			name: "duplicates dropped",
			in:   []geom.Point{geom.Pt(0, 0), geom.Pt(0, 0), geom.Pt(0, 8), geom.Pt(8, 8)},
			want: []geom.Point{geom.Pt(0, 0), geom.Pt(0, 8), geom.Pt(8, 8)},
		},
		{
			name: "two points untouched",
			in:   []geom.Point{geom.Pt(1, 1), geom.Pt(5, 9)},
			want: []geom.Point{geom.Pt(1, 1), geom.Pt(5, 9)},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, route.Simplify(tc.in)); diff != "" {
				t.Errorf("Simplify (-want +got):\n%s", diff)
			}
		})
	}
}
