// ABOUTME: Bubble Tea message types used in the TUI message loop.
// ABOUTME: Command results carry a fresh scene view captured after the command ran.
package tui

// CommandResultMsg reports a finished console command.
type CommandResultMsg struct {
	Line   string
	Result Result
	Err    error
	View   SceneView
}

// ConfirmRequestMsg signals that a save wants to overwrite an existing document.
type ConfirmRequestMsg struct {
	Name string
}
