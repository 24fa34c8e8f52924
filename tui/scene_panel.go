// ABOUTME: Implements the scrollable scene listing using the bubbles viewport component.
// ABOUTME: Shows every shape with its description and position, followed by the routed links.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ScenePanelModel lists the shapes and links of the current scene.
type ScenePanelModel struct {
	view     SceneView
	viewport viewport.Model
	width    int
	height   int
}

// NewScenePanelModel creates an empty scene panel.
func NewScenePanelModel() ScenePanelModel {
	return ScenePanelModel{viewport: viewport.New(80, 10)}
}

// SetView replaces the displayed scene.
func (m *ScenePanelModel) SetView(v SceneView) {
	m.view = v
	m.syncViewport()
}

// SetSize sets the available dimensions and updates the viewport.
func (m *ScenePanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	// border plus title
	m.viewport.Width = max(w-2, 1)
	m.viewport.Height = max(h-3, 1)
	m.syncViewport()
}

// Update forwards scroll keys to the viewport.
func (m ScenePanelModel) Update(msg tea.Msg) (ScenePanelModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the scene panel.
func (m ScenePanelModel) View() string {
	content := DimStyle.Render("Empty scene. Type help for commands.")
	if len(m.view.Shapes) > 0 {
		content = m.viewport.View()
	}
	return BorderStyle.
		Width(max(m.width-2, 1)).
		Height(max(m.height-2, 1)).
		Render(TitleStyle.Render("SCENE") + "\n" + content)
}

func (m *ScenePanelModel) syncViewport() {
	m.viewport.SetContent(renderScene(m.view))
}

func renderScene(v SceneView) string {
	if len(v.Shapes) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(SectionStyle.Render("Shapes"))
	for _, line := range v.Shapes {
		b.WriteString("\n" + line)
	}
	if len(v.Links) > 0 {
		b.WriteString("\n\n" + SectionStyle.Render("Links"))
		for _, line := range v.Links {
			b.WriteString("\n" + line)
		}
	}
	return b.String()
}
