// ABOUTME: Tests for the console command language against a real session.
// ABOUTME: Covers shape creation, linking, history, routing modes and document commands.
package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/2389-research/tracie/scene/core"
	"github.com/2389-research/tracie/scene/files"
	"github.com/2389-research/tracie/scene/server"
	"github.com/2389-research/tracie/scene/store"
	"github.com/google/go-cmp/cmp"
)

func testConsole(t *testing.T, confirm files.Confirmer) *Console {
	t.Helper()
	sess := server.NewSession("test", server.SessionOptions{
		Docs:      store.NewMemoryStore(nil),
		Confirmer: confirm,
	})
	t.Cleanup(sess.Close)
	return NewConsole(sess, "alice")
}

func run(t *testing.T, c *Console, line string) string {
	t.Helper()
	res, err := c.Execute(context.Background(), line)
	if err != nil {
		t.Fatalf("%q: %v", line, err)
	}
	return res.Output
}

func TestConsoleAddsShapes(t *testing.T) {
	c := testConsole(t, nil)
	outputs := []string{
		run(t, c, "array 5"),
		run(t, c, "table 2 3"),
		run(t, c, "pointer head"),
		run(t, c, "iterator i 4"),
		run(t, c, "node 7"),
		run(t, c, "bnode"),
		run(t, c, "nnode r 3"),
	}
	want := []string{
		"added 1: array[5]",
		"added 2: table 2x3",
		"added 3: pointer head",
		"added 4: iterator i (0..4)",
		"added 5: node 7",
		"added 6: binary node",
		"added 7: n-ary node r (3 children)",
	}
	if diff := cmp.Diff(want, outputs); diff != "" {
		t.Errorf("outputs mismatch (-want +got):\n%s", diff)
	}
	if n := len(c.Session().Workspace.Scene.ListShapes()); n != 7 {
		t.Errorf("scene holds %d shapes, want 7", n)
	}
}

func TestConsoleRejectsBadInput(t *testing.T) {
	c := testConsole(t, nil)
	tests := []struct {
		line string
		want error
	}{
		{"array 0", core.ErrInvalidInput},
		{"array five", core.ErrInvalidInput},
		{"array", core.ErrInvalidInput},
		{"table 2", core.ErrInvalidInput},
		{"move x 1 2", core.ErrInvalidInput},
		{"link 1 2:left", core.ErrInvalidInput},
		{"grid maybe", core.ErrInvalidInput},
		{"frobnicate", ErrUnknownCommand},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := c.Execute(context.Background(), tt.line)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConsoleUnknownShape(t *testing.T) {
	c := testConsole(t, nil)
	for _, line := range []string{"del 9", "dup 9", "move 9 1 1"} {
		_, err := c.Execute(context.Background(), line)
		var nf *core.ShapeNotFoundError
		if !errors.As(err, &nf) || nf.ID != 9 {
			t.Errorf("%q: err = %v, want shape not found 9", line, err)
		}
	}
}

func TestConsoleLinkUndoRedo(t *testing.T) {
	c := testConsole(t, nil)
	run(t, c, "node a")
	run(t, c, "node b")

	if out := run(t, c, "link 1:right 2:left red"); out != "linked 1:right->2:left (red)" {
		t.Errorf("link output = %q", out)
	}
	if n := len(c.Session().Workspace.Scene.ListConnections()); n != 1 {
		t.Fatalf("connections = %d, want 1", n)
	}
	if out := run(t, c, "undo"); out != "undone" {
		t.Errorf("undo output = %q", out)
	}
	if n := len(c.Session().Workspace.Scene.ListConnections()); n != 0 {
		t.Errorf("connections after undo = %d, want 0", n)
	}
	if out := run(t, c, "redo"); out != "redone" {
		t.Errorf("redo output = %q", out)
	}
	if out := run(t, c, "unlink 1:right 2:left"); out != "unlinked 1:right->2:left" {
		t.Errorf("unlink output = %q", out)
	}
	if _, err := c.Execute(context.Background(), "unlink 1:right 2:left"); !errors.Is(err, core.ErrLinkNotFound) {
		t.Errorf("second unlink err = %v, want ErrLinkNotFound", err)
	}
}

func TestConsoleMoveDuplicateDelete(t *testing.T) {
	c := testConsole(t, nil)
	run(t, c, "array 3")

	if out := run(t, c, "move 1 40 60"); out != "moved 1 to (40, 60)" {
		t.Errorf("move output = %q", out)
	}
	sh, _ := c.Session().Workspace.Scene.Shape(1)
	if sh.X != 40 || sh.Y != 60 {
		t.Errorf("shape at (%g, %g), want (40, 60)", sh.X, sh.Y)
	}
	if out := run(t, c, "dup 1"); out != "duplicated 1 as 2" {
		t.Errorf("dup output = %q", out)
	}
	if out := run(t, c, "del 1"); out != "deleted 1" {
		t.Errorf("del output = %q", out)
	}
	if _, ok := c.Session().Workspace.Scene.Shape(1); ok {
		t.Error("shape 1 still present")
	}
}

func TestConsoleGridToggle(t *testing.T) {
	c := testConsole(t, nil)
	run(t, c, "grid on")
	if !c.Session().Tracker.Grid() {
		t.Error("grid on did not enable grid routing")
	}
	run(t, c, "grid off")
	if c.Session().Tracker.Grid() {
		t.Error("grid off did not disable grid routing")
	}
}

func TestConsoleOptimize(t *testing.T) {
	c := testConsole(t, nil)
	run(t, c, "node a")
	run(t, c, "node b")
	run(t, c, "move 2 400 50")
	run(t, c, "link 1:left 2:right")

	out := run(t, c, "optimize")
	if out != "retargeted 1 links" {
		t.Errorf("optimize output = %q", out)
	}
	conn := c.Session().Workspace.Scene.ListConnections()[0]
	if conn.From.Side != core.SideRight || conn.To.Side != core.SideLeft {
		t.Errorf("optimized link = %s, want 1:right->2:left", conn)
	}
}

func TestConsoleDocuments(t *testing.T) {
	c := testConsole(t, files.AlwaysOverwrite)
	ctx := context.Background()

	if _, err := c.Execute(ctx, "save"); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("save without a name: err = %v, want ErrInvalidInput", err)
	}
	run(t, c, "array 4")
	if out := run(t, c, "save notes"); out != "saved notes (1 shapes, 0 links)" {
		t.Errorf("save output = %q", out)
	}
	run(t, c, "node x")
	if out := run(t, c, "save"); out != "saved notes (2 shapes, 0 links)" {
		t.Errorf("resave output = %q", out)
	}

	out := run(t, c, "ls")
	if !strings.HasPrefix(out, "notes  2 shapes  0 links") {
		t.Errorf("ls output = %q", out)
	}

	run(t, c, "new")
	if n := len(c.Session().Workspace.Scene.ListShapes()); n != 0 {
		t.Errorf("new left %d shapes", n)
	}
	run(t, c, "load notes")
	if n := len(c.Session().Workspace.Scene.ListShapes()); n != 2 {
		t.Errorf("load restored %d shapes, want 2", n)
	}

	run(t, c, "rm notes")
	if out := run(t, c, "ls"); out != "no saved documents" {
		t.Errorf("ls after rm = %q", out)
	}
	if _, err := c.Execute(ctx, "load notes"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("load missing: err = %v, want ErrNotFound", err)
	}
}

func TestConsoleDeclinedOverwrite(t *testing.T) {
	c := testConsole(t, files.NeverOverwrite)
	run(t, c, "node a")
	run(t, c, "save first")
	run(t, c, "new")
	run(t, c, "node b")
	run(t, c, "save second")

	_, err := c.Execute(context.Background(), "save first")
	if !errors.Is(err, files.ErrUserAborted) {
		t.Errorf("err = %v, want ErrUserAborted", err)
	}
}

func TestConsoleQuitAndHelp(t *testing.T) {
	c := testConsole(t, nil)
	res, err := c.Execute(context.Background(), "quit")
	if err != nil || !res.Quit {
		t.Errorf("quit = %+v, %v", res, err)
	}
	help := run(t, c, "help")
	for _, usage := range []string{"array <length>", "link <id:side> <id:side> [color]", "quit"} {
		if !strings.Contains(help, usage) {
			t.Errorf("help is missing %q", usage)
		}
	}
	if out := run(t, c, "   "); out != "" {
		t.Errorf("blank line output = %q", out)
	}
}

func TestConsoleSnapshot(t *testing.T) {
	c := testConsole(t, nil)
	run(t, c, "array 2")
	run(t, c, "pointer p")
	run(t, c, "link 2:right 1:left")

	v := c.Snapshot()
	if v.Name != files.UntitledName || v.Saved {
		t.Errorf("name=%q saved=%v, want unsaved Untitled", v.Name, v.Saved)
	}
	if v.UndoDepth != 3 || v.RedoDepth != 0 {
		t.Errorf("history depth = %d/%d, want 3/0", v.UndoDepth, v.RedoDepth)
	}
	if len(v.Shapes) != 2 || !strings.Contains(v.Shapes[0], "array[2]") {
		t.Errorf("shapes = %q", v.Shapes)
	}
	if len(v.Links) != 1 || !strings.HasPrefix(v.Links[0], "2:right -> 1:left") {
		t.Errorf("links = %q", v.Links)
	}
}
