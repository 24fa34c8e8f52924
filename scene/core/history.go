// ABOUTME: History runs commands and keeps bounded undo and redo stacks.
// ABOUTME: Link-changing commands are reported to observers registered with OnLinkChange.
package core

import "slices"

// DefaultHistoryLimit is the maximum depth of each history stack.
const DefaultHistoryLimit = 100

// History executes commands and tracks them for undo and redo. The top of
// each stack is the last element.
type History struct {
	undo  []Command
	redo  []Command
	limit int

	observers []func(LinkChange)
}

// NewHistory returns a history capped at limit entries per stack. A
// non-positive limit selects DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Execute applies cmd, pushes it on the undo stack and clears redo.
func (h *History) Execute(cmd Command) {
	cmd.Apply()
	h.undo = h.push(h.undo, cmd)
	h.redo = nil
	h.report(cmd)
}

// Undo reverts the most recent command. It returns false when there is
// nothing to undo.
func (h *History) Undo() bool {
	if len(h.undo) == 0 {
		return false
	}
	cmd := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	cmd.Revert()
	h.redo = h.push(h.redo, cmd)
	h.report(cmd)
	return true
}

// Redo re-applies the most recently undone command. It returns false when
// there is nothing to redo.
func (h *History) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	cmd.Apply()
	h.undo = h.push(h.undo, cmd)
	h.report(cmd)
	return true
}

func (h *History) CanUndo() bool  { return len(h.undo) > 0 }
func (h *History) CanRedo() bool  { return len(h.redo) > 0 }
func (h *History) UndoDepth() int { return len(h.undo) }
func (h *History) RedoDepth() int { return len(h.redo) }

// Reset drops both stacks.
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}

// OnLinkChange registers fn to receive iterator link changes caused by
// executed, undone or redone commands.
func (h *History) OnLinkChange(fn func(LinkChange)) {
	h.observers = append(h.observers, fn)
}

func (h *History) push(stack []Command, cmd Command) []Command {
	stack = append(stack, cmd)
	if over := len(stack) - h.limit; over > 0 {
		stack = slices.Delete(stack, 0, over)
	}
	return stack
}

func (h *History) report(cmd Command) {
	lr, ok := cmd.(linkReporter)
	if !ok {
		return
	}
	for _, ch := range lr.linkChanges() {
		for _, fn := range h.observers {
			fn(ch)
		}
	}
}
