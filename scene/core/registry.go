// ABOUTME: Registry is the shape geometry provider: anchor locators and bounding boxes per shape.
// ABOUTME: Endpoints resolve their position lazily through it using "<id>-<side>" keys.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/2389-research/tracie/geom"
)

// GeometryProvider answers where a shape side attaches and how large a shape is.
type GeometryProvider interface {
	Anchor(id int, side Side) (geom.Point, bool)
	Bounds(id int) (geom.Rect, bool)
}

// AnchorKey formats the registry key for a shape side.
func AnchorKey(id int, side Side) string {
	return fmt.Sprintf("%d-%s", id, side)
}

// ParseAnchorKey splits a registry key into shape id and side.
func ParseAnchorKey(key string) (int, Side, error) {
	idPart, side, ok := strings.Cut(key, "-")
	if !ok {
		return 0, "", fmt.Errorf("malformed anchor key %q", key)
	}
	id, err := strconv.Atoi(idPart)
	if err != nil {
		return 0, "", fmt.Errorf("malformed anchor key %q: %w", key, err)
	}
	return id, Side(side), nil
}

// Registry maps anchor keys to locators and shape ids to bounding boxes.
// Locators are invoked outside the registry lock.
type Registry struct {
	mu      sync.RWMutex
	anchors *OrderedMap[string, Locator]
	bounds  *OrderedMap[int, func() geom.Rect]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		anchors: NewOrderedMap[string, Locator](),
		bounds:  NewOrderedMap[int, func() geom.Rect](),
	}
}

// Register installs the locator for a shape side, replacing any previous one.
func (r *Registry) Register(id int, side Side, fn Locator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.anchors.Set(AnchorKey(id, side), fn)
}

// RegisterBounds installs the bounding-box function for a shape.
func (r *Registry) RegisterBounds(id int, fn func() geom.Rect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bounds.Set(id, fn)
}

// Unregister removes every locator and the bounds for a shape.
func (r *Registry) Unregister(id int) {
	prefix := strconv.Itoa(id) + "-"
	r.mu.Lock()
	defer r.mu.Unlock()
	r.anchors.DeleteFunc(func(k string) bool { return strings.HasPrefix(k, prefix) })
	r.bounds.Delete(id)
}

// Resolve returns the locator registered under key.
func (r *Registry) Resolve(key string) (Locator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.anchors.Get(key)
}

// Keys returns every registered anchor key in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.anchors.Keys()
}

// Anchor returns the current position of a shape side.
func (r *Registry) Anchor(id int, side Side) (geom.Point, bool) {
	fn, ok := r.Resolve(AnchorKey(id, side))
	if !ok {
		return geom.Point{}, false
	}
	return fn(), true
}

// Bounds returns the current bounding box of a shape.
func (r *Registry) Bounds(id int) (geom.Rect, bool) {
	r.mu.RLock()
	fn, ok := r.bounds.Get(id)
	r.mu.RUnlock()
	if !ok {
		return geom.Rect{}, false
	}
	return fn(), true
}

// Bind returns e with a Locate callback that looks its key up at call time.
// An unregistered key locates to the zero point.
func (r *Registry) Bind(e Endpoint) Endpoint {
	key := e.Key()
	e.Locate = func() geom.Point {
		if fn, ok := r.Resolve(key); ok {
			return fn()
		}
		return geom.Point{}
	}
	return e
}

// BindConnection binds both endpoints of c.
func (r *Registry) BindConnection(c Connection) Connection {
	c.From = r.Bind(c.From)
	c.To = r.Bind(c.To)
	return c
}

// BindLayout keeps the registry populated with the default layout of every
// shape in scene, registering new shapes, re-registering shapes whose kind
// changed and dropping deleted ones after each change. The returned function stops tracking.
func (r *Registry) BindLayout(scene *Scene) func() {
	var mu sync.Mutex
	tracked := make(map[int]Kind)

	refresh := func(snap Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		present := make(map[int]bool, len(snap.Shapes))
		for _, sh := range snap.Shapes {
			present[sh.ID] = true
			kind, ok := tracked[sh.ID]
			if ok && kind == sh.Kind() {
				continue
			}
			// A loaded document can reuse an id for a different kind.
			if ok {
				r.Unregister(sh.ID)
			}
			r.registerLayout(scene, sh)
			tracked[sh.ID] = sh.Kind()
		}
		for id := range tracked {
			if !present[id] {
				r.Unregister(id)
				delete(tracked, id)
			}
		}
	}
	refresh(scene.Snapshot())
	return scene.Subscribe(refresh)
}

func (r *Registry) registerLayout(scene *Scene, sh Shape) {
	id := sh.ID
	box := func() geom.Rect {
		cur, ok := scene.Shape(id)
		if !ok {
			return geom.Rect{}
		}
		return DefaultBox(cur)
	}
	r.RegisterBounds(id, box)
	for _, side := range sh.Kind().Sides() {
		r.Register(id, side, func() geom.Point { return AnchorPoint(box(), side) })
	}
}

// LayoutGeometry is a GeometryProvider computed directly from a snapshot
// under the default layout, without any registration.
type LayoutGeometry struct {
	Snapshot Snapshot
}

func (g LayoutGeometry) Anchor(id int, side Side) (geom.Point, bool) {
	sh, ok := g.Snapshot.Shape(id)
	if !ok || !sh.Kind().HasSide(side) {
		return geom.Point{}, false
	}
	return AnchorPoint(DefaultBox(sh), side), true
}

func (g LayoutGeometry) Bounds(id int) (geom.Rect, bool) {
	sh, ok := g.Snapshot.Shape(id)
	if !ok {
		return geom.Rect{}, false
	}
	return DefaultBox(sh), true
}
