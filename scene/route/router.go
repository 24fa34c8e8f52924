// ABOUTME: Router computes connection paths in direct (curve) or grid (A*) mode.
// ABOUTME: Grid mode routes around shapes and degrades to a straight line when no route exists.
package route

import (
	"log/slog"
	"math"

	"github.com/2389-research/tracie/geom"
	"github.com/2389-research/tracie/scene/core"
)

const (
	// DefaultCellSize is the grid pitch in scene units.
	DefaultCellSize = 8.0
	// DefaultMargin is how far obstacles extend past each shape's box.
	DefaultMargin = 15.0
	// DefaultEndpointOffset is how far endpoints are pushed out from their side.
	DefaultEndpointOffset = 15.0

	searchPadding = 8
)

// Options configures a Router.
type Options struct {
	Grid           bool
	CellSize       float64
	Margin         float64
	EndpointOffset float64
	MaxExpansions  int
	Logger         *slog.Logger
}

// DefaultOptions returns direct-mode routing with the standard grid parameters.
func DefaultOptions() Options {
	return Options{
		CellSize:       DefaultCellSize,
		Margin:         DefaultMargin,
		EndpointOffset: DefaultEndpointOffset,
		MaxExpansions:  DefaultMaxExpansions,
	}
}

// Router turns connections into paths using a geometry provider.
type Router struct {
	geometry core.GeometryProvider
	opts     Options
	logger   *slog.Logger
}

// New returns a router. Zero-valued options fall back to the defaults.
func New(geometry core.GeometryProvider, opts Options) *Router {
	def := DefaultOptions()
	if opts.CellSize <= 0 {
		opts.CellSize = def.CellSize
	}
	if opts.Margin <= 0 {
		opts.Margin = def.Margin
	}
	if opts.EndpointOffset <= 0 {
		opts.EndpointOffset = def.EndpointOffset
	}
	if opts.MaxExpansions <= 0 {
		opts.MaxExpansions = def.MaxExpansions
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Router{geometry: geometry, opts: opts, logger: logger}
}

// Grid reports whether grid routing is enabled.
func (r *Router) Grid() bool { return r.opts.Grid }

// SetGrid switches between grid and direct routing.
func (r *Router) SetGrid(on bool) { r.opts.Grid = on }

// Route computes the path for c among shapes.
func (r *Router) Route(c core.Connection, shapes []core.Shape) Path {
	from := r.anchor(c.From)
	to := r.anchor(c.To)
	if !r.opts.Grid {
		return Curve(from, to)
	}
	return r.gridRoute(c, from, to, shapes)
}

// RouteAll routes every connection in snap.
func (r *Router) RouteAll(snap core.Snapshot) map[core.LinkKey]Path {
	out := make(map[core.LinkKey]Path, len(snap.Connections))
	for _, c := range snap.Connections {
		out[c.Key()] = r.Route(c, snap.Shapes)
	}
	return out
}

// Annotate returns copies of the connections with Path filled in.
func (r *Router) Annotate(snap core.Snapshot) []core.Connection {
	out := make([]core.Connection, len(snap.Connections))
	for i, c := range snap.Connections {
		c.Path = r.Route(c, snap.Shapes).String()
		out[i] = c
	}
	return out
}

func (r *Router) anchor(e core.Endpoint) geom.Point {
	if p, ok := r.geometry.Anchor(e.ComponentID, e.Side); ok {
		return p
	}
	return e.Point()
}

func (r *Router) box(sh core.Shape) geom.Rect {
	if b, ok := r.geometry.Bounds(sh.ID); ok {
		return b
	}
	return core.DefaultBox(sh)
}

func (r *Router) gridRoute(c core.Connection, from, to geom.Point, shapes []core.Shape) Path {
	boxes := make([]geom.Rect, 0, len(shapes))
	var fromBox, toBox *geom.Rect
	for _, sh := range shapes {
		b := r.box(sh)
		boxes = append(boxes, b.Expand(r.opts.Margin))
		if sh.ID == c.From.ComponentID {
			fromBox = &b
		}
		if sh.ID == c.To.ComponentID {
			toBox = &b
		}
	}
	start := pushOut(from, c.From.Side, fromBox, r.opts.EndpointOffset)
	goal := pushOut(to, c.To.Side, toBox, r.opts.EndpointOffset)
	straight := Path{Points: []geom.Point{start, goal}, Fallback: true}

	obstacles := newObstacleIndex(boxes)
	if obstacles.Inside(start) || obstacles.Inside(goal) {
		r.logger.Debug("grid route fallback", "link", c.String(), "reason", "endpoint inside obstacle")
		return straight
	}

	size := r.opts.CellSize
	startCell, goalCell := r.cellOf(start), r.cellOf(goal)
	window := geom.Bounds(append(boxes, geom.RectFromPoints(start, goal))...)
	grid := Grid{
		Min: Cell{int(math.Floor(window.MinX()/size)) - searchPadding, int(math.Floor(window.MinY()/size)) - searchPadding},
		Max: Cell{int(math.Ceil(window.MaxX()/size)) + searchPadding, int(math.Ceil(window.MaxY()/size)) + searchPadding},
		Blocked: func(cell Cell) bool {
			return obstacles.Blocked(r.center(cell))
		},
	}
	cells, err := FindPath(grid, startCell, goalCell, r.opts.MaxExpansions)
	if err != nil {
		r.logger.Debug("grid route fallback", "link", c.String(), "reason", err.Error())
		return straight
	}

	points := make([]geom.Point, 0, len(cells)+4)
	points = append(points, from, start)
	for _, cell := range cells[1 : len(cells)-1] {
		points = append(points, r.center(cell))
	}
	points = append(points, goal, to)
	return Path{Points: Simplify(points)}
}

func (r *Router) cellOf(p geom.Point) Cell {
	return Cell{int(math.Round(p.X / r.opts.CellSize)), int(math.Round(p.Y / r.opts.CellSize))}
}

func (r *Router) center(c Cell) geom.Point {
	return geom.Pt(float64(c.X)*r.opts.CellSize, float64(c.Y)*r.opts.CellSize)
}

// pushOut moves an anchor offset units away from its shape along side.
func pushOut(p geom.Point, side core.Side, box *geom.Rect, offset float64) geom.Point {
	switch side {
	case core.SideTop:
		if box != nil {
			return geom.Pt(p.X, box.MinY()-offset)
		}
		return geom.Pt(p.X, p.Y-offset)
	case core.SideLeft:
		if box != nil {
			return geom.Pt(box.MinX()-offset, p.Y)
		}
		return geom.Pt(p.X-offset, p.Y)
	case core.SideRight:
		if box != nil {
			return geom.Pt(box.MaxX()+offset, p.Y)
		}
		return geom.Pt(p.X+offset, p.Y)
	case core.SideBottom, core.SideBottomLeft, core.SideBottomRight:
		if box != nil {
			return geom.Pt(p.X, box.MaxY()+offset)
		}
		return geom.Pt(p.X, p.Y+offset)
	default:
		return p
	}
}
