// ABOUTME: Tests for the session registry: creation, lookup, eviction and TTL cleanup.
// ABOUTME: Sessions share one in-memory document store.
package server_test

import (
	"context"
	"testing"
	"time"

	"github.com/2389-research/tracie/scene/core"
	"github.com/2389-research/tracie/scene/server"
	"github.com/2389-research/tracie/scene/store"
)

func TestSessionsCreateGetDelete(t *testing.T) {
	ss := server.NewSessions(server.SessionOptions{Docs: store.NewMemoryStore(nil)}, 10, time.Hour)
	sess := ss.Create()
	if sess.ID == "" || ss.Len() != 1 {
		t.Fatalf("Create: id=%q len=%d", sess.ID, ss.Len())
	}
	got, ok := ss.Get(sess.ID)
	if !ok || got != sess {
		t.Fatal("Get did not return the created session")
	}
	if !ss.Delete(sess.ID) || ss.Delete(sess.ID) {
		t.Error("Delete should succeed once")
	}
	if _, ok := ss.Get(sess.ID); ok {
		t.Error("session still present after Delete")
	}
}

func TestSessionsEvictOldest(t *testing.T) {
	ss := server.NewSessions(server.SessionOptions{}, 2, time.Hour)
	first := ss.Create()
	first.LastAccess = time.Now().Add(-time.Minute)
	second := ss.Create()
	third := ss.Create()

	if ss.Len() != 2 {
		t.Fatalf("Len = %d, want 2", ss.Len())
	}
	if _, ok := ss.Get(first.ID); ok {
		t.Error("oldest session was not evicted")
	}
	for _, s := range []*server.Session{second, third} {
		if _, ok := ss.Get(s.ID); !ok {
			t.Errorf("session %s missing", s.ID)
		}
	}
}

func TestSessionsCleanup(t *testing.T) {
	ss := server.NewSessions(server.SessionOptions{}, 0, time.Minute)
	stale := ss.Create()
	stale.LastAccess = time.Now().Add(-2 * time.Minute)
	fresh := ss.Create()

	ss.Cleanup()
	if _, ok := ss.Get(stale.ID); ok {
		t.Error("stale session survived cleanup")
	}
	if _, ok := ss.Get(fresh.ID); !ok {
		t.Error("fresh session removed")
	}
}

func TestSessionTracksAndPersists(t *testing.T) {
	docs := store.NewMemoryStore(nil)
	sess := server.NewSession("s1", server.SessionOptions{Docs: docs, Grid: true})
	defer sess.Close()

	a, err := sess.Workspace.AddArray(2)
	if err != nil {
		t.Fatal(err)
	}
	b, err := sess.Workspace.AddNode("x")
	if err != nil {
		t.Fatal(err)
	}
	conn, err := sess.Workspace.Connect(
		core.At(a.ID, core.SideRight), core.At(b.ID, core.SideLeft), "")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if !sess.Tracker.Grid() {
		t.Error("session not in grid mode")
	}
	if _, ok := sess.Tracker.Path(conn.Key()); !ok {
		t.Error("tracker has no path for the new link")
	}

	if _, err := sess.Files.Save(context.Background(), "ada", "doc"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	doc, err := docs.Load(context.Background(), "ada", "doc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if path, _ := doc.Links[0]["path"].(string); path == "" {
		t.Error("saved link has no routed path")
	}
}
