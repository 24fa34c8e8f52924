// ABOUTME: Tests for the AppModel message loop, the overwrite dialog and the panels.
// ABOUTME: Commands are driven through the same tea.Cmd path the running program uses.
package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/2389-research/tracie/scene/files"
	tea "github.com/charmbracelet/bubbletea"
)

func testApp(t *testing.T) (AppModel, *ConfirmDialog) {
	t.Helper()
	confirm := NewConfirmDialog()
	c := testConsole(t, confirm)
	m := NewAppModel(context.Background(), c, confirm)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(AppModel), confirm
}

func typeLine(t *testing.T, m AppModel, line string) (AppModel, tea.Cmd) {
	t.Helper()
	m.input.SetValue(line)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(AppModel), cmd
}

// submit types line, runs the resulting command and feeds its result back.
func submit(t *testing.T, m AppModel, line string) AppModel {
	t.Helper()
	m, cmd := typeLine(t, m, line)
	if cmd == nil {
		t.Fatalf("%q produced no command", line)
	}
	msg := cmd()
	updated, _ := m.Update(msg)
	return updated.(AppModel)
}

func TestAppModelInitialView(t *testing.T) {
	m, _ := testApp(t)
	view := m.View()
	for _, want := range []string{"SCENE", "Empty scene", files.UntitledName, "routing: curve"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAppModelTooSmall(t *testing.T) {
	m, _ := testApp(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	if got := updated.(AppModel).View(); !strings.Contains(got, "Terminal too small") {
		t.Errorf("View() = %q", got)
	}
}

func TestAppModelRunsCommands(t *testing.T) {
	m, _ := testApp(t)
	m = submit(t, m, "array 3")
	m = submit(t, m, "grid on")

	if m.busy {
		t.Error("model still busy after the result arrived")
	}
	if m.output.Len() != 2 {
		t.Errorf("transcript holds %d entries, want 2", m.output.Len())
	}
	if m.input.Value() != "" {
		t.Errorf("prompt not cleared: %q", m.input.Value())
	}
	view := m.View()
	for _, want := range []string{"array[3]", "routing: grid", "1 shapes"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAppModelIgnoresInputWhileBusy(t *testing.T) {
	m, _ := testApp(t)
	m, cmd := typeLine(t, m, "array 3")
	if cmd == nil || !m.busy {
		t.Fatal("first command did not start")
	}
	m, cmd = typeLine(t, m, "array 4")
	if cmd != nil {
		t.Error("second command started while busy")
	}
}

func TestAppModelShowsErrors(t *testing.T) {
	m, _ := testApp(t)
	m = submit(t, m, "array zero")
	if !strings.Contains(m.View(), "is not a number") {
		t.Error("error message not shown in the transcript")
	}
}

func TestAppModelQuit(t *testing.T) {
	m, _ := testApp(t)
	m, cmd := typeLine(t, m, "quit")
	_, cmd = m.Update(cmd())
	if cmd == nil {
		t.Fatal("quit produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit did not return tea.Quit")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not return tea.Quit")
	}
}

func TestConfirmDialogAnswers(t *testing.T) {
	for _, tt := range []struct {
		key  tea.KeyMsg
		want bool
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, true},
		{tea.KeyMsg{Type: tea.KeyEnter}, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, false},
	} {
		t.Run(tt.key.String(), func(t *testing.T) {
			d := NewConfirmDialog()
			done := make(chan bool, 1)
			go func() {
				ok, _ := d.ConfirmOverwrite(context.Background(), "notes")
				done <- ok
			}()

			msg := WaitForConfirmCmd(d.RequestChan())().(ConfirmRequestMsg)
			if msg.Name != "notes" {
				t.Fatalf("request for %q, want notes", msg.Name)
			}
			d.SetActive(msg.Name)
			if !strings.Contains(d.View(), `"notes"`) {
				t.Errorf("dialog view = %q", d.View())
			}
			if !d.HandleKey(tt.key) {
				t.Fatal("key not consumed by active dialog")
			}
			if d.IsActive() {
				t.Error("dialog still active after answer")
			}
			select {
			case got := <-done:
				if got != tt.want {
					t.Errorf("answer = %v, want %v", got, tt.want)
				}
			case <-time.After(time.Second):
				t.Fatal("ConfirmOverwrite did not return")
			}
		})
	}
}

func TestConfirmDialogInactiveIgnoresKeys(t *testing.T) {
	d := NewConfirmDialog()
	if d.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}) {
		t.Error("inactive dialog consumed a key")
	}
	if d.View() != "" {
		t.Error("inactive dialog rendered")
	}
}

func TestConfirmDialogCancelled(t *testing.T) {
	d := NewConfirmDialog()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.ConfirmOverwrite(ctx, "notes"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestAppModelOverwriteFlow(t *testing.T) {
	m, confirm := testApp(t)
	m = submit(t, m, "node a")
	m = submit(t, m, "save first")
	m = submit(t, m, "new")
	m = submit(t, m, "node b")

	m, cmd := typeLine(t, m, "save first")
	results := make(chan tea.Msg, 1)
	go func() { results <- cmd() }()

	updated, _ := m.Update(WaitForConfirmCmd(confirm.RequestChan())())
	m = updated.(AppModel)
	if !strings.Contains(m.View(), "Overwrite it?") {
		t.Fatal("overwrite dialog not shown")
	}
	updated, next := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = updated.(AppModel)
	if next == nil {
		t.Error("dialog did not resume waiting for requests")
	}

	select {
	case msg := <-results:
		updated, _ = m.Update(msg)
		m = updated.(AppModel)
	case <-time.After(time.Second):
		t.Fatal("save did not finish after confirmation")
	}
	if !strings.Contains(m.View(), "saved first (1 shapes, 0 links)") {
		t.Error("save result not shown")
	}
}

func TestRenderScene(t *testing.T) {
	if got := renderScene(SceneView{}); got != "" {
		t.Errorf("empty scene rendered %q", got)
	}
	got := renderScene(SceneView{Shapes: []string{"  1  array[2]"}, Links: []string{"1:right -> 2:left"}})
	if !strings.Contains(got, "array[2]") || !strings.Contains(got, "1:right -> 2:left") {
		t.Errorf("renderScene = %q", got)
	}
}

func TestOutputPanelEvictsOldest(t *testing.T) {
	p := NewOutputPanelModel(2)
	p.Append("a", "1", false)
	p.Append("b", "2", false)
	p.Append("c", "3", true)
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
	if p.entries[0].line != "b" {
		t.Errorf("oldest entry = %q, want b", p.entries[0].line)
	}
}
