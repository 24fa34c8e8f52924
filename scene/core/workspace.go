// ABOUTME: Workspace is the public editing surface: validated shape and link operations over a Scene.
// ABOUTME: Every mutation is routed through History so it can be undone and redone.
package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/2389-research/tracie/geom"
)

const (
	// DefaultLinkColor is used for links without an explicit colour.
	DefaultLinkColor = "#333333"

	placementOrigin = 50.0
	placementStep   = 20.0
	placementWrap   = 10
)

// ShapeSpec describes a shape to create. Only the fields relevant to Kind
// are read.
type ShapeSpec struct {
	Kind       Kind   `json:"kind"`
	Length     int    `json:"length,omitempty"`
	Rows       int    `json:"rows,omitempty"`
	Cols       int    `json:"cols,omitempty"`
	Name       string `json:"name,omitempty"`
	Value      string `json:"value,omitempty"`
	MaxIndex   int    `json:"maxIndex,omitempty"`
	ChildCount int    `json:"childCount,omitempty"`
	Color      string `json:"color,omitempty"`
}

// Body validates the spec and builds the matching shape body.
func (s ShapeSpec) Body() (Body, error) {
	switch s.Kind {
	case KindArray:
		if s.Length < 1 {
			return nil, fmt.Errorf("%w: array length must be positive, got %d", ErrInvalidInput, s.Length)
		}
		return &ArrayBody{Length: s.Length, Values: make([]string, s.Length)}, nil
	case KindTable:
		if s.Rows < 1 || s.Cols < 1 {
			return nil, fmt.Errorf("%w: table needs positive rows and cols, got %dx%d", ErrInvalidInput, s.Rows, s.Cols)
		}
		cells := make([][]string, s.Rows)
		for i := range cells {
			cells[i] = make([]string, s.Cols)
		}
		return &TableBody{Rows: s.Rows, Cols: s.Cols, Cells: cells}, nil
	case KindPointer:
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: pointer name is empty", ErrInvalidInput)
		}
		return &PointerBody{Name: name, Value: s.Value}, nil
	case KindIterator:
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: iterator name is empty", ErrInvalidInput)
		}
		if s.MaxIndex < 1 {
			return nil, fmt.Errorf("%w: iterator max index must be positive, got %d", ErrInvalidInput, s.MaxIndex)
		}
		return &IteratorBody{Name: name, MaxIndex: s.MaxIndex, Color: orDefault(s.Color, geom.DefaultIteratorColor)}, nil
	case KindNode:
		return &NodeBody{Value: s.Value, Color: s.Color}, nil
	case KindBinaryNode:
		return &BinaryNodeBody{Value: s.Value, Color: s.Color}, nil
	case KindNaryNode:
		if s.ChildCount < 1 {
			return nil, fmt.Errorf("%w: child count must be positive, got %d", ErrInvalidInput, s.ChildCount)
		}
		return &NaryNodeBody{Value: s.Value, Color: s.Color, ChildCount: s.ChildCount}, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, s.Kind)
	}
}

// ParseSize parses a user-typed positive integer such as an array length.
func ParseSize(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, raw)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidInput, n)
	}
	return n, nil
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*Workspace)

// WithHistoryLimit overrides the per-stack history depth.
func WithHistoryLimit(n int) WorkspaceOption {
	return func(w *Workspace) { w.History = NewHistory(n) }
}

// Workspace owns one editing session's scene, history and geometry.
type Workspace struct {
	Scene    *Scene
	History  *History
	Geometry *Registry

	nextID int
}

// NewWorkspace returns an empty workspace whose registry tracks the default
// layout of its scene.
func NewWorkspace(opts ...WorkspaceOption) *Workspace {
	w := &Workspace{
		Scene:    NewScene(),
		History:  NewHistory(DefaultHistoryLimit),
		Geometry: NewRegistry(),
		nextID:   1,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.Geometry.BindLayout(w.Scene)
	return w
}

// NextID returns the id the next created shape will receive.
func (w *Workspace) NextID() int { return w.nextID }

func (w *Workspace) allocID() int {
	id := w.nextID
	w.nextID++
	return id
}

func (w *Workspace) placement() geom.Point {
	n := len(w.Scene.ListShapes()) % placementWrap
	off := placementStep * float64(n)
	return geom.Pt(placementOrigin+off, placementOrigin+off)
}

// Add validates spec and adds the shape it describes.
func (w *Workspace) Add(spec ShapeSpec) (Shape, error) {
	body, err := spec.Body()
	if err != nil {
		return Shape{}, err
	}
	p := w.placement()
	sh := Shape{ID: w.allocID(), X: p.X, Y: p.Y, Body: body}
	w.History.Execute(NewAddShapeCommand(w.Scene, sh))
	return sh.Clone(), nil
}

func (w *Workspace) AddArray(length int) (Shape, error) {
	return w.Add(ShapeSpec{Kind: KindArray, Length: length})
}

func (w *Workspace) AddTable(rows, cols int) (Shape, error) {
	return w.Add(ShapeSpec{Kind: KindTable, Rows: rows, Cols: cols})
}

func (w *Workspace) AddPointer(name string) (Shape, error) {
	return w.Add(ShapeSpec{Kind: KindPointer, Name: name})
}

func (w *Workspace) AddIterator(name string, maxIndex int) (Shape, error) {
	return w.Add(ShapeSpec{Kind: KindIterator, Name: name, MaxIndex: maxIndex})
}

func (w *Workspace) AddNode(value string) (Shape, error) {
	return w.Add(ShapeSpec{Kind: KindNode, Value: value})
}

func (w *Workspace) AddBinaryNode(value string) (Shape, error) {
	return w.Add(ShapeSpec{Kind: KindBinaryNode, Value: value})
}

func (w *Workspace) AddNaryNode(value string, childCount int) (Shape, error) {
	return w.Add(ShapeSpec{Kind: KindNaryNode, Value: value, ChildCount: childCount})
}

// DeleteShape removes a shape and its connections.
func (w *Workspace) DeleteShape(id int) error {
	if _, ok := w.Scene.Shape(id); !ok {
		return &ShapeNotFoundError{ID: id}
	}
	w.History.Execute(NewDeleteShapeCommand(w.Scene, id))
	return nil
}

// MoveShape moves a shape to an absolute position.
func (w *Workspace) MoveShape(id int, to geom.Point) error {
	sh, ok := w.Scene.Shape(id)
	if !ok {
		return &ShapeNotFoundError{ID: id}
	}
	w.History.Execute(NewMoveShapeCommand(w.Scene, id, geom.Pt(sh.X, sh.Y), to, false))
	return nil
}

// CommitMove records a move the caller has already applied to the scene,
// for example at the end of a drag. Only redo re-applies it.
func (w *Workspace) CommitMove(id int, from, to geom.Point) error {
	if _, ok := w.Scene.Shape(id); !ok {
		return &ShapeNotFoundError{ID: id}
	}
	w.History.Execute(NewMoveShapeCommand(w.Scene, id, from, to, true))
	return nil
}

// MoveMultiple translates every listed shape by delta as one undo step.
// Unknown ids are skipped; nothing is recorded when none exist.
func (w *Workspace) MoveMultiple(ids []int, delta geom.Point) int {
	snap := w.Scene.Snapshot()
	moves := make([]Move, 0, len(ids))
	for _, id := range ids {
		sh, ok := snap.Shape(id)
		if !ok {
			continue
		}
		from := geom.Pt(sh.X, sh.Y)
		moves = append(moves, Move{ID: id, From: from, To: from.Add(delta)})
	}
	if len(moves) == 0 {
		return 0
	}
	w.History.Execute(NewMoveMultipleCommand(w.Scene, moves, false))
	return len(moves)
}

// Connect links two shape sides. An empty colour picks a default: links from
// an iterator to an array take the shade of the iterator's next linked slot.
func (w *Workspace) Connect(from, to Endpoint, color string) (Connection, error) {
	snap := w.Scene.Snapshot()
	fromShape, err := endpointShape(snap, from)
	if err != nil {
		return Connection{}, err
	}
	toShape, err := endpointShape(snap, to)
	if err != nil {
		return Connection{}, err
	}
	if from.Same(to) {
		return Connection{}, ErrSelfLink
	}
	if color == "" {
		color = defaultLinkColor(fromShape, toShape)
	}
	conn := w.Geometry.BindConnection(Connection{From: from, To: to, Color: color})
	w.History.Execute(NewCreateLinkCommand(w.Scene, conn))
	return conn, nil
}

func endpointShape(snap Snapshot, e Endpoint) (Shape, error) {
	sh, ok := snap.Shape(e.ComponentID)
	if !ok {
		return Shape{}, &ShapeNotFoundError{ID: e.ComponentID}
	}
	if !sh.Kind().HasSide(e.Side) {
		return Shape{}, fmt.Errorf("%w: %s has no side %q", ErrInvalidSide, sh.Kind(), e.Side)
	}
	return sh, nil
}

func defaultLinkColor(from, to Shape) string {
	it, ok := from.Body.(*IteratorBody)
	if !ok {
		it, ok = to.Body.(*IteratorBody)
	}
	if ok && (from.Kind().ArrayLike() || to.Kind().ArrayLike()) {
		return geom.Shade(orDefault(it.Color, geom.DefaultIteratorColor), len(it.LinkedArrays))
	}
	return DefaultLinkColor
}

// Disconnect removes the link joining from and to.
func (w *Workspace) Disconnect(from, to Endpoint) error {
	if indexOfLink(w.Scene.ListConnections(), from, to) < 0 {
		return fmt.Errorf("%w: %s -> %s", ErrLinkNotFound, from, to)
	}
	w.History.Execute(NewDeleteLinkCommand(w.Scene, from, to))
	return nil
}

// Duplicate copies a shape with a fresh id. It returns nil when id is unknown.
func (w *Workspace) Duplicate(id int) *Shape {
	if _, ok := w.Scene.Shape(id); !ok {
		return nil
	}
	cmd := NewDuplicateShapeCommand(w.Scene, id, w.allocID())
	if cmd == nil {
		return nil
	}
	w.History.Execute(cmd)
	sh := cmd.Shape()
	return &sh
}

// Retarget applies side changes to existing links as one undo step.
func (w *Workspace) Retarget(moves []Retarget) {
	if len(moves) == 0 {
		return
	}
	for i := range moves {
		moves[i].After = w.Geometry.BindConnection(moves[i].After)
	}
	w.History.Execute(NewRetargetLinksCommand(w.Scene, moves))
}

func (w *Workspace) Undo() bool { return w.History.Undo() }
func (w *Workspace) Redo() bool { return w.History.Redo() }

// Reset clears the scene and history for a new document.
func (w *Workspace) Reset() {
	w.Load(nil, nil)
}

// Load replaces the scene wholesale, binds every connection to the registry
// and starts a fresh history. Ids continue after the highest loaded id and
// never move backwards.
func (w *Workspace) Load(shapes []Shape, conns []Connection) {
	maxID := 0
	for _, sh := range shapes {
		maxID = max(maxID, sh.ID)
	}
	bound := make([]Connection, len(conns))
	for i, c := range conns {
		bound[i] = w.Geometry.BindConnection(c)
	}
	w.History.Reset()
	w.nextID = max(w.nextID, maxID+1)
	w.Scene.ReplaceAll(shapes, bound)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
