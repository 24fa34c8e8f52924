// ABOUTME: Shared comparison options and fixtures for scene core tests.
// ABOUTME: Ignores endpoint locators, which are functions and never compare equal.
package core_test

import (
	"testing"

	"github.com/2389-research/tracie/scene/core"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var sceneOpts = []cmp.Option{
	cmpopts.IgnoreFields(core.Endpoint{}, "Locate"),
	cmpopts.EquateEmpty(),
}

// snapshotOf copies the scene's collections so later mutations can't alias them.
func snapshotOf(s *core.Scene) core.Snapshot {
	snap := s.Snapshot()
	shapes := make([]core.Shape, len(snap.Shapes))
	for i, sh := range snap.Shapes {
		shapes[i] = sh.Clone()
	}
	conns := append([]core.Connection(nil), snap.Connections...)
	return core.Snapshot{Shapes: shapes, Connections: conns}
}

// must wraps an Add* result so tests can write must(t)(ws.AddArray(3)).
func must(t testing.TB) func(core.Shape, error) core.Shape {
	return func(sh core.Shape, err error) core.Shape {
		t.Helper()
		if err != nil {
			t.Fatalf("add shape: %v", err)
		}
		return sh
	}
}

func iteratorLinks(t testing.TB, s *core.Scene, id int) []core.LinkedArray {
	t.Helper()
	sh, ok := s.Shape(id)
	if !ok {
		t.Fatalf("iterator %d missing", id)
	}
	body, ok := sh.Body.(*core.IteratorBody)
	if !ok {
		t.Fatalf("shape %d is %s, not an iterator", id, sh.Kind())
	}
	return body.LinkedArrays
}
