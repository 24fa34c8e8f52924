// ABOUTME: Implements the scrolling command transcript using the bubbles viewport component.
// ABOUTME: Each entry echoes the typed command and its output, with failures shown in red.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
)

type outputEntry struct {
	line   string
	output string
	failed bool
}

// OutputPanelModel keeps the most recent command results.
type OutputPanelModel struct {
	entries  []outputEntry
	max      int
	viewport viewport.Model
	width    int
	height   int
}

// NewOutputPanelModel creates a transcript holding at most maxEntries results.
// If maxEntries is <= 0, it defaults to 200.
func NewOutputPanelModel(maxEntries int) OutputPanelModel {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	return OutputPanelModel{
		entries:  make([]outputEntry, 0, maxEntries),
		max:      maxEntries,
		viewport: viewport.New(80, 6),
	}
}

// Append records a command result, evicting the oldest entry at capacity.
func (m *OutputPanelModel) Append(line, output string, failed bool) {
	if len(m.entries) >= m.max {
		m.entries = m.entries[1:]
	}
	m.entries = append(m.entries, outputEntry{line: line, output: output, failed: failed})
	m.syncViewport()
}

// Len returns the number of entries.
func (m OutputPanelModel) Len() int { return len(m.entries) }

// SetSize sets the available dimensions and updates the viewport.
func (m *OutputPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = max(w-2, 1)
	m.viewport.Height = max(h-2, 1)
	m.syncViewport()
}

// View renders the transcript.
func (m OutputPanelModel) View() string {
	return BorderStyle.
		Width(max(m.width-2, 1)).
		Height(max(m.height-2, 1)).
		Render(m.viewport.View())
}

func (m *OutputPanelModel) syncViewport() {
	lines := make([]string, 0, len(m.entries)*2)
	for _, e := range m.entries {
		lines = append(lines, DimStyle.Render("> "+e.line))
		if e.output == "" {
			continue
		}
		style := OutputStyle
		if e.failed {
			style = ErrorStyle
		}
		lines = append(lines, style.Render(e.output))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}
