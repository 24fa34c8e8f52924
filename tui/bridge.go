// ABOUTME: Bridge connecting the console to the Bubble Tea message loop.
// ABOUTME: Provides tea.Cmd factories for running commands off the UI goroutine and awaiting confirmations.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ExecuteCmd returns a tea.Cmd that runs line on the console and reports
// the result together with a fresh scene view. It runs off the UI
// goroutine so a save may block on an overwrite confirmation.
func ExecuteCmd(ctx context.Context, console *Console, line string) tea.Cmd {
	return func() tea.Msg {
		res, err := console.Execute(ctx, line)
		return CommandResultMsg{Line: line, Result: res, Err: err, View: console.Snapshot()}
	}
}

// WaitForConfirmCmd returns a tea.Cmd that blocks on the request channel
// and sends a ConfirmRequestMsg when a save asks to overwrite.
func WaitForConfirmCmd(requestCh <-chan string) tea.Cmd {
	return func() tea.Msg {
		name, ok := <-requestCh
		if !ok {
			return nil
		}
		return ConfirmRequestMsg{Name: name}
	}
}
