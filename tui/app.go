// ABOUTME: Top-level Bubble Tea AppModel composing the scene listing, transcript, prompt and status bar.
// ABOUTME: Typed commands run off the UI goroutine and report back with a fresh scene view.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// AppModel is the top-level Bubble Tea model for the scene console.
type AppModel struct {
	scene   ScenePanelModel
	output  OutputPanelModel
	status  StatusBarModel
	input   textinput.Model
	confirm *ConfirmDialog

	console *Console
	ctx     context.Context

	busy   bool
	width  int
	height int
}

// NewAppModel creates an AppModel driving console. confirm must be the
// confirmer the session's file manager was built with.
func NewAppModel(ctx context.Context, console *Console, confirm *ConfirmDialog) AppModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "array 5, link 1:right 2:left, save notes ... (help)"
	ti.Focus()

	m := AppModel{
		scene:   NewScenePanelModel(),
		output:  NewOutputPanelModel(200),
		input:   ti,
		confirm: confirm,
		console: console,
		ctx:     ctx,
	}
	m.applyView(console.Snapshot())
	return m
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		WaitForConfirmCmd(m.confirm.RequestChan()),
	)
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case CommandResultMsg:
		return m.handleCommandResult(msg)

	case ConfirmRequestMsg:
		m.confirm.SetActive(msg.Name)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 40 || m.height < 12 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 40x12.", m.width, m.height)
	}

	lower := m.output.View()
	if m.confirm.IsActive() {
		lower = m.confirm.View()
	}

	var b strings.Builder
	b.WriteString(m.scene.View())
	b.WriteString("\n")
	b.WriteString(lower)
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.status.View())
	return b.String()
}

func (m *AppModel) applyView(v SceneView) {
	m.scene.SetView(v)
	m.status.SetView(v)
}

// layout splits the height between the scene panel and the transcript.
func (m *AppModel) layout() {
	const promptHeight, statusHeight = 1, 1
	outputHeight := max((m.height-promptHeight-statusHeight)/3, 4)
	sceneHeight := max(m.height-promptHeight-statusHeight-outputHeight, 3)

	m.scene.SetSize(m.width, sceneHeight)
	m.output.SetSize(m.width, outputHeight)
	m.status.SetWidth(m.width)
	m.input.Width = max(m.width-4, 1)
}

func (m AppModel) handleCommandResult(msg CommandResultMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.status.SetBusy(false)
	m.applyView(msg.View)
	if msg.Result.Quit {
		return m, tea.Quit
	}
	if msg.Err != nil {
		m.output.Append(msg.Line, msg.Err.Error(), true)
	} else {
		m.output.Append(msg.Line, msg.Result.Output, false)
	}
	return m, nil
}

func (m AppModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm.HandleKey(msg) {
		if m.confirm.IsActive() {
			return m, nil
		}
		return m, WaitForConfirmCmd(m.confirm.RequestChan())
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.scene, cmd = m.scene.Update(msg)
		return m, cmd
	case "enter":
		line := strings.TrimSpace(m.input.Value())
		if line == "" || m.busy {
			return m, nil
		}
		m.input.Reset()
		m.busy = true
		m.status.SetBusy(true)
		return m, ExecuteCmd(m.ctx, m.console, line)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Run starts the terminal UI on console and blocks until the user quits.
func Run(ctx context.Context, console *Console, confirm *ConfirmDialog) error {
	p := tea.NewProgram(NewAppModel(ctx, console, confirm), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
