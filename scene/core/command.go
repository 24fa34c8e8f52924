// ABOUTME: Command is the closed set of reversible scene mutations executed through History.
// ABOUTME: Each command holds an explicit Scene handle and captures what it needs to revert exactly.
package core

import "github.com/2389-research/tracie/geom"

// DuplicateOffset is how far a duplicated shape is placed from its source.
const DuplicateOffset = 20

// Command is a reversible mutation of a Scene. A command whose referenced
// shape has vanished degrades to a no-op in both directions.
type Command interface {
	CommandType() string
	Apply()
	Revert()
	commandSeal()
}

// linkReporter is implemented by commands that touch iterator linkedArrays.
type linkReporter interface {
	linkChanges() []LinkChange
}

// AddShapeCommand inserts a new shape.
type AddShapeCommand struct {
	scene *Scene
	shape Shape
}

// NewAddShapeCommand returns a command that appends shape to scene.
func NewAddShapeCommand(scene *Scene, shape Shape) *AddShapeCommand {
	return &AddShapeCommand{scene: scene, shape: shape.Clone()}
}

func (c *AddShapeCommand) CommandType() string { return "AddShape" }
func (c *AddShapeCommand) commandSeal()        {}

// Shape returns the shape this command adds.
func (c *AddShapeCommand) Shape() Shape { return c.shape.Clone() }

func (c *AddShapeCommand) Apply() {
	shapes := c.scene.ListShapes()
	if indexOfShape(shapes, c.shape.ID) >= 0 {
		return
	}
	c.scene.ReplaceShapes(insertAt(shapes, -1, c.shape.Clone()))
}

func (c *AddShapeCommand) Revert() {
	shapes := c.scene.ListShapes()
	if i := indexOfShape(shapes, c.shape.ID); i >= 0 {
		c.scene.ReplaceShapes(removeAt(shapes, i))
	}
}

type indexedConnection struct {
	index int
	conn  Connection
}

// DeleteShapeCommand removes a shape together with every connection touching
// it, pruning iterator linkedArrays entries those connections implied.
type DeleteShapeCommand struct {
	scene *Scene
	id    int

	applied bool
	shape   Shape
	index   int
	conns   []indexedConnection
	unlinks []linkedEdit
	changes []LinkChange
}

// NewDeleteShapeCommand returns a command that deletes the shape with id.
func NewDeleteShapeCommand(scene *Scene, id int) *DeleteShapeCommand {
	return &DeleteShapeCommand{scene: scene, id: id}
}

func (c *DeleteShapeCommand) CommandType() string       { return "DeleteShape" }
func (c *DeleteShapeCommand) commandSeal()              {}
func (c *DeleteShapeCommand) linkChanges() []LinkChange { return c.changes }

func (c *DeleteShapeCommand) Apply() {
	c.changes = nil
	snap := c.scene.Snapshot()
	idx := indexOfShape(snap.Shapes, c.id)
	if idx < 0 {
		return
	}

	// Snapshot everything revert needs before removing it.
	c.shape = snap.Shapes[idx].Clone()
	c.index = idx
	c.conns = c.conns[:0]
	c.unlinks = c.unlinks[:0]

	shapes := snap.Shapes
	kept := make([]Connection, 0, len(snap.Connections))
	for i, conn := range snap.Connections {
		if !conn.Touches(c.id) {
			kept = append(kept, conn)
			continue
		}
		c.conns = append(c.conns, indexedConnection{index: i, conn: conn})
		iterID, entry, ok := iteratorLink(shapes, conn)
		if !ok || iterID == c.id {
			continue
		}
		var pos int
		shapes, pos = removeLinked(shapes, iterID, entry, -1)
		if pos >= 0 {
			c.unlinks = append(c.unlinks, linkedEdit{iteratorID: iterID, entry: entry, pos: pos})
			c.changes = append(c.changes, LinkChange{IteratorID: iterID, Entry: entry, Linked: false})
		}
	}
	shapes = removeAt(shapes, indexOfShape(shapes, c.id))

	c.applied = true
	c.scene.ReplaceAll(shapes, kept)
}

func (c *DeleteShapeCommand) Revert() {
	c.changes = nil
	if !c.applied {
		return
	}
	snap := c.scene.Snapshot()
	shapes := insertAt(snap.Shapes, c.index, c.shape.Clone())
	for i := len(c.unlinks) - 1; i >= 0; i-- {
		u := c.unlinks[i]
		shapes, _ = insertLinked(shapes, u.iteratorID, u.entry, u.pos)
		c.changes = append(c.changes, LinkChange{IteratorID: u.iteratorID, Entry: u.entry, Linked: true})
	}
	conns := snap.Connections
	for _, ic := range c.conns {
		conns = insertAt(conns, ic.index, ic.conn)
	}

	c.applied = false
	c.scene.ReplaceAll(shapes, conns)
}

// Move is one shape's position change within a move gesture.
type Move struct {
	ID       int
	From, To geom.Point
}

// MoveShapeCommand repositions a single shape.
type MoveShapeCommand struct {
	scene     *Scene
	move      Move
	skipFirst bool
}

// NewMoveShapeCommand returns a move command. When alreadyApplied is true the
// caller has moved the shape itself and the first Apply does nothing.
func NewMoveShapeCommand(scene *Scene, id int, from, to geom.Point, alreadyApplied bool) *MoveShapeCommand {
	return &MoveShapeCommand{scene: scene, move: Move{ID: id, From: from, To: to}, skipFirst: alreadyApplied}
}

func (c *MoveShapeCommand) CommandType() string { return "MoveShape" }
func (c *MoveShapeCommand) commandSeal()        {}

func (c *MoveShapeCommand) Apply() {
	if c.skipFirst {
		c.skipFirst = false
		return
	}
	applyMoves(c.scene, []Move{c.move}, false)
}

func (c *MoveShapeCommand) Revert() {
	applyMoves(c.scene, []Move{c.move}, true)
}

// MoveMultipleCommand repositions several shapes as one gesture.
type MoveMultipleCommand struct {
	scene     *Scene
	moves     []Move
	skipFirst bool
}

// NewMoveMultipleCommand returns a command moving every shape in moves.
func NewMoveMultipleCommand(scene *Scene, moves []Move, alreadyApplied bool) *MoveMultipleCommand {
	return &MoveMultipleCommand{scene: scene, moves: append([]Move(nil), moves...), skipFirst: alreadyApplied}
}

func (c *MoveMultipleCommand) CommandType() string { return "MoveMultiple" }
func (c *MoveMultipleCommand) commandSeal()        {}

func (c *MoveMultipleCommand) Apply() {
	if c.skipFirst {
		c.skipFirst = false
		return
	}
	applyMoves(c.scene, c.moves, false)
}

func (c *MoveMultipleCommand) Revert() {
	applyMoves(c.scene, c.moves, true)
}

func applyMoves(scene *Scene, moves []Move, reverse bool) {
	shapes := scene.ListShapes()
	out := shapes
	changed := false
	for _, m := range moves {
		i := indexOfShape(out, m.ID)
		if i < 0 {
			continue
		}
		p := m.To
		if reverse {
			p = m.From
		}
		sh := out[i].Clone()
		sh.X, sh.Y = p.X, p.Y
		out = replaceAt(out, i, sh)
		changed = true
	}
	if changed {
		scene.ReplaceShapes(out)
	}
}

// CreateLinkCommand adds a connection and, for iterator-to-array links, the
// matching linkedArrays entry.
type CreateLinkCommand struct {
	scene *Scene
	conn  Connection

	applied bool
	link    *linkedEdit
	changes []LinkChange
}

// NewCreateLinkCommand returns a command that appends conn.
func NewCreateLinkCommand(scene *Scene, conn Connection) *CreateLinkCommand {
	return &CreateLinkCommand{scene: scene, conn: conn}
}

func (c *CreateLinkCommand) CommandType() string       { return "CreateLink" }
func (c *CreateLinkCommand) commandSeal()              {}
func (c *CreateLinkCommand) linkChanges() []LinkChange { return c.changes }

// Connection returns the connection this command creates.
func (c *CreateLinkCommand) Connection() Connection { return c.conn }

func (c *CreateLinkCommand) Apply() {
	c.changes = nil
	snap := c.scene.Snapshot()
	if indexOfShape(snap.Shapes, c.conn.From.ComponentID) < 0 || indexOfShape(snap.Shapes, c.conn.To.ComponentID) < 0 {
		return
	}
	shapes := snap.Shapes
	c.link = nil
	if iterID, entry, ok := iteratorLink(shapes, c.conn); ok {
		var pos int
		shapes, pos = insertLinked(shapes, iterID, entry, -1)
		c.link = &linkedEdit{iteratorID: iterID, entry: entry, pos: pos}
		c.changes = append(c.changes, LinkChange{IteratorID: iterID, Entry: entry, Linked: true})
	}
	c.applied = true
	c.scene.ReplaceAll(shapes, insertAt(snap.Connections, -1, c.conn))
}

func (c *CreateLinkCommand) Revert() {
	c.changes = nil
	if !c.applied {
		return
	}
	snap := c.scene.Snapshot()
	conns := snap.Connections
	if i := lastIndexOfLink(conns, c.conn.From, c.conn.To); i >= 0 {
		conns = removeAt(conns, i)
	}
	shapes := snap.Shapes
	if c.link != nil {
		var pos int
		shapes, pos = removeLinked(shapes, c.link.iteratorID, c.link.entry, c.link.pos)
		if pos >= 0 {
			c.changes = append(c.changes, LinkChange{IteratorID: c.link.iteratorID, Entry: c.link.entry, Linked: false})
		}
	}
	c.applied = false
	c.scene.ReplaceAll(shapes, conns)
}

// DeleteLinkCommand removes the first connection joining from and to.
type DeleteLinkCommand struct {
	scene    *Scene
	from, to Endpoint

	applied bool
	removed indexedConnection
	unlink  *linkedEdit
	changes []LinkChange
}

// NewDeleteLinkCommand returns a command removing the link from -> to.
func NewDeleteLinkCommand(scene *Scene, from, to Endpoint) *DeleteLinkCommand {
	return &DeleteLinkCommand{scene: scene, from: from, to: to}
}

func (c *DeleteLinkCommand) CommandType() string       { return "DeleteLink" }
func (c *DeleteLinkCommand) commandSeal()              {}
func (c *DeleteLinkCommand) linkChanges() []LinkChange { return c.changes }

func (c *DeleteLinkCommand) Apply() {
	c.changes = nil
	snap := c.scene.Snapshot()
	idx := indexOfLink(snap.Connections, c.from, c.to)
	if idx < 0 {
		return
	}
	conn := snap.Connections[idx]
	c.removed = indexedConnection{index: idx, conn: conn}
	c.unlink = nil

	shapes := snap.Shapes
	if iterID, entry, ok := iteratorLink(shapes, conn); ok {
		var pos int
		shapes, pos = removeLinked(shapes, iterID, entry, -1)
		if pos >= 0 {
			c.unlink = &linkedEdit{iteratorID: iterID, entry: entry, pos: pos}
			c.changes = append(c.changes, LinkChange{IteratorID: iterID, Entry: entry, Linked: false})
		}
	}
	c.applied = true
	c.scene.ReplaceAll(shapes, removeAt(snap.Connections, idx))
}

func (c *DeleteLinkCommand) Revert() {
	c.changes = nil
	if !c.applied {
		return
	}
	snap := c.scene.Snapshot()
	shapes := snap.Shapes
	if c.unlink != nil {
		shapes, _ = insertLinked(shapes, c.unlink.iteratorID, c.unlink.entry, c.unlink.pos)
		c.changes = append(c.changes, LinkChange{IteratorID: c.unlink.iteratorID, Entry: c.unlink.entry, Linked: true})
	}
	c.applied = false
	c.scene.ReplaceAll(shapes, insertAt(snap.Connections, c.removed.index, c.removed.conn))
}

// DuplicateShapeCommand adds an offset copy of an existing shape.
type DuplicateShapeCommand struct {
	AddShapeCommand
	sourceID int
}

// NewDuplicateShapeCommand copies the shape sourceID under newID, offset by
// DuplicateOffset on both axes. It returns nil when the source is missing.
// Iterator copies start without linked arrays since links are not copied.
func NewDuplicateShapeCommand(scene *Scene, sourceID, newID int) *DuplicateShapeCommand {
	src, ok := scene.Shape(sourceID)
	if !ok {
		return nil
	}
	dup := src.Clone()
	dup.ID = newID
	dup.X += DuplicateOffset
	dup.Y += DuplicateOffset
	if it, ok := dup.Body.(*IteratorBody); ok {
		it.LinkedArrays = nil
	}
	return &DuplicateShapeCommand{
		AddShapeCommand: AddShapeCommand{scene: scene, shape: dup},
		sourceID:        sourceID,
	}
}

func (c *DuplicateShapeCommand) CommandType() string { return "DuplicateShape" }

// SourceID returns the id of the shape that was copied.
func (c *DuplicateShapeCommand) SourceID() int { return c.sourceID }

// Retarget moves one connection onto different sides.
type Retarget struct {
	Before, After Connection
}

// RetargetLinksCommand changes the sides of existing connections in place,
// keeping their position in the collection and in iterator linkedArrays.
type RetargetLinksCommand struct {
	scene   *Scene
	moves   []Retarget
	changes []LinkChange
}

// NewRetargetLinksCommand returns a command applying every retarget in order.
func NewRetargetLinksCommand(scene *Scene, moves []Retarget) *RetargetLinksCommand {
	return &RetargetLinksCommand{scene: scene, moves: append([]Retarget(nil), moves...)}
}

func (c *RetargetLinksCommand) CommandType() string       { return "RetargetLinks" }
func (c *RetargetLinksCommand) commandSeal()              {}
func (c *RetargetLinksCommand) linkChanges() []LinkChange { return c.changes }

func (c *RetargetLinksCommand) Apply() {
	c.retarget(false)
}

func (c *RetargetLinksCommand) Revert() {
	c.retarget(true)
}

func (c *RetargetLinksCommand) retarget(reverse bool) {
	c.changes = nil
	snap := c.scene.Snapshot()
	shapes, conns := snap.Shapes, snap.Connections
	changed := false

	for i := range c.moves {
		m := c.moves[i]
		if reverse {
			m = c.moves[len(c.moves)-1-i]
			m.Before, m.After = m.After, m.Before
		}
		idx := indexOfLink(conns, m.Before.From, m.Before.To)
		if idx < 0 {
			continue
		}
		iterID, oldEntry, hadLink := iteratorLink(shapes, m.Before)
		conns = replaceAt(conns, idx, m.After)
		changed = true
		if !hadLink {
			continue
		}
		_, newEntry, _ := iteratorLink(shapes, m.After)
		if oldEntry == newEntry {
			continue
		}
		var pos int
		shapes, pos = replaceLinked(shapes, iterID, oldEntry, newEntry)
		if pos >= 0 {
			c.changes = append(c.changes,
				LinkChange{IteratorID: iterID, Entry: oldEntry, Linked: false},
				LinkChange{IteratorID: iterID, Entry: newEntry, Linked: true})
		}
	}
	if changed {
		c.scene.ReplaceAll(shapes, conns)
	}
}
