// ABOUTME: Implements a single-line status bar for the bottom of the TUI.
// ABOUTME: Displays the document name, saved state, history depth and routing mode.
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// StatusBarModel displays document status in a single line.
type StatusBarModel struct {
	view  SceneView
	busy  bool
	width int
}

// SetView updates the displayed document state.
func (m *StatusBarModel) SetView(v SceneView) { m.view = v }

// SetBusy marks a command as running.
func (m *StatusBarModel) SetBusy(busy bool) { m.busy = busy }

// SetWidth sets the bar width for rendering.
func (m *StatusBarModel) SetWidth(w int) { m.width = w }

func routingLabel(grid bool) string {
	if grid {
		return "grid"
	}
	return "curve"
}

// View renders the status bar as a single styled line.
func (m StatusBarModel) View() string {
	name := m.view.Name
	if name == "" {
		name = "Untitled"
	}
	state := SavedStyle.Render("saved")
	if !m.view.Saved {
		state = UnsavedStyle.Render("modified")
	}
	content := fmt.Sprintf("%s [%s] | %d shapes, %d links | undo %d redo %d | routing: %s",
		name, state, len(m.view.Shapes), len(m.view.Links),
		m.view.UndoDepth, m.view.RedoDepth, routingLabel(m.view.Grid))
	if m.busy {
		content += " | working..."
	}
	style := StatusBarStyle.Width(m.width)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, style.Render(content))
}
