// ABOUTME: Tracker keeps routed paths current by re-routing after every scene change.
// ABOUTME: Paths are read by serializers and views without mutating the scene.
package route

import (
	"maps"
	"sync"

	"github.com/2389-research/tracie/scene/core"
)

// Tracker subscribes to a scene and caches the routed path of every link.
type Tracker struct {
	mu     sync.RWMutex
	scene  *core.Scene
	router *Router
	paths  map[core.LinkKey]Path
	stop   func()
}

// Track starts tracking scene with router.
func Track(scene *core.Scene, router *Router) *Tracker {
	t := &Tracker{scene: scene, router: router}
	t.update(scene.Snapshot())
	t.stop = scene.Subscribe(t.update)
	return t
}

func (t *Tracker) update(snap core.Snapshot) {
	paths := t.router.RouteAll(snap)
	t.mu.Lock()
	t.paths = paths
	t.mu.Unlock()
}

// Refresh re-routes the current scene, for example after a mode switch.
func (t *Tracker) Refresh() {
	t.update(t.scene.Snapshot())
}

// SetGrid switches the router's mode and re-routes.
func (t *Tracker) SetGrid(on bool) {
	t.mu.Lock()
	t.router.SetGrid(on)
	t.mu.Unlock()
	t.Refresh()
}

// Grid reports whether the tracked router is in grid mode.
func (t *Tracker) Grid() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.router.Grid()
}

// Path returns the cached path for a link.
func (t *Tracker) Path(key core.LinkKey) (Path, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.paths[key]
	return p, ok
}

// Paths returns a copy of every cached path.
func (t *Tracker) Paths() map[core.LinkKey]Path {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.paths)
}

// Annotate returns the current connections with their cached paths filled in.
func (t *Tracker) Annotate() []core.Connection {
	snap := t.scene.Snapshot()
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]core.Connection, len(snap.Connections))
	for i, c := range snap.Connections {
		if p, ok := t.paths[c.Key()]; ok {
			c.Path = p.String()
		}
		out[i] = c
	}
	return out
}

// Stop unsubscribes from the scene.
func (t *Tracker) Stop() {
	if t.stop != nil {
		t.stop()
	}
}
