// ABOUTME: Scene is the observable store holding the ordered shape and connection collections.
// ABOUTME: Every mutation swaps in a freshly built collection and then notifies subscribers.
package core

import (
	"slices"
	"sync"
)

// Snapshot is an immutable view of the scene after a change. Callers must
// not modify the slices.
type Snapshot struct {
	Shapes      []Shape
	Connections []Connection
}

// Shape returns the shape with the given id.
func (s Snapshot) Shape(id int) (Shape, bool) {
	for _, sh := range s.Shapes {
		if sh.ID == id {
			return sh, true
		}
	}
	return Shape{}, false
}

// Scene holds the canonical document state. Shapes and connections are only
// ever replaced wholesale, so a slice returned from ListShapes or
// ListConnections stays valid and unchanged after later mutations.
type Scene struct {
	mu     sync.Mutex
	shapes []Shape
	conns  []Connection

	nextSub int
	subs    map[int]func(Snapshot)
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{subs: make(map[int]func(Snapshot))}
}

// ListShapes returns the current shape collection in insertion order.
func (s *Scene) ListShapes() []Shape {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shapes
}

// ListConnections returns the current connection collection.
func (s *Scene) ListConnections() []Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns
}

// Snapshot returns both collections at once.
func (s *Scene) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Shapes: s.shapes, Connections: s.conns}
}

// Shape returns the shape with the given id.
func (s *Scene) Shape(id int) (Shape, bool) {
	return s.Snapshot().Shape(id)
}

// ReplaceShapes installs a new shape collection.
func (s *Scene) ReplaceShapes(shapes []Shape) {
	s.mu.Lock()
	s.shapes = shapes
	s.mu.Unlock()
	s.notify()
}

// ReplaceConnections installs a new connection collection.
func (s *Scene) ReplaceConnections(conns []Connection) {
	s.mu.Lock()
	s.conns = conns
	s.mu.Unlock()
	s.notify()
}

// ReplaceAll installs both collections and notifies once.
func (s *Scene) ReplaceAll(shapes []Shape, conns []Connection) {
	s.mu.Lock()
	s.shapes = shapes
	s.conns = conns
	s.mu.Unlock()
	s.notify()
}

// Subscribe registers fn to run after every replace. The returned function
// removes the subscription.
func (s *Scene) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Scene) notify() {
	s.mu.Lock()
	snap := Snapshot{Shapes: s.shapes, Connections: s.conns}
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	// Deliver in subscription order.
	slices.Sort(ids)
	for _, id := range ids {
		s.mu.Lock()
		fn, ok := s.subs[id]
		s.mu.Unlock()
		if ok {
			fn(snap)
		}
	}
}
