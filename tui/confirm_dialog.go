// ABOUTME: ConfirmDialog bridges overwrite confirmations with Bubble Tea's message loop via channels.
// ABOUTME: Renders a y/n dialog while a save waits for the user's answer.
package tui

import (
	"context"
	"fmt"

	"github.com/2389-research/tracie/scene/files"
	tea "github.com/charmbracelet/bubbletea"
)

var _ files.Confirmer = (*ConfirmDialog)(nil)

// ConfirmDialog implements files.Confirmer for the terminal UI. A save calls
// ConfirmOverwrite from a command goroutine, which sends the document name
// on requestCh and blocks on responseCh. A persistent tea.Cmd polls
// requestCh and injects ConfirmRequestMsg; the key handler answers.
type ConfirmDialog struct {
	name       string
	active     bool
	requestCh  chan string
	responseCh chan bool
}

// NewConfirmDialog returns a dialog with initialized channels.
func NewConfirmDialog() *ConfirmDialog {
	return &ConfirmDialog{
		requestCh:  make(chan string),
		responseCh: make(chan bool, 1),
	}
}

// ConfirmOverwrite asks the user whether name may be replaced.
func (d *ConfirmDialog) ConfirmOverwrite(ctx context.Context, name string) (bool, error) {
	select {
	case d.requestCh <- name:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-d.responseCh:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// RequestChan exposes pending confirmation requests to WaitForConfirmCmd.
func (d *ConfirmDialog) RequestChan() <-chan string { return d.requestCh }

// SetActive shows the dialog for name.
func (d *ConfirmDialog) SetActive(name string) {
	d.name = name
	d.active = true
}

// IsActive reports whether the dialog is waiting for an answer.
func (d *ConfirmDialog) IsActive() bool { return d.active }

// Answer resolves the pending request and hides the dialog.
func (d *ConfirmDialog) Answer(ok bool) {
	if !d.active {
		return
	}
	d.active = false
	d.name = ""
	d.responseCh <- ok
}

// HandleKey answers on y/Y/enter or n/N/esc and reports whether the key was consumed.
func (d *ConfirmDialog) HandleKey(msg tea.KeyMsg) bool {
	if !d.active {
		return false
	}
	switch msg.String() {
	case "y", "Y", "enter":
		d.Answer(true)
	case "n", "N", "esc":
		d.Answer(false)
	}
	return true
}

// View renders the dialog, or nothing when inactive.
func (d *ConfirmDialog) View() string {
	if !d.active {
		return ""
	}
	body := fmt.Sprintf("%s\n\nA document named %q already exists.\nOverwrite it? [y/n]",
		TitleStyle.Render("Overwrite"), d.name)
	return ConfirmStyle.Render(body)
}
