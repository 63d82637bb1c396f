// Package command implements the reversible mutations behind the editor's
// undo/redo. Commands reference shapes by stable world ID so a stale target
// degrades to a logged no-op instead of a dangling pointer.
package command

import "log"

// DefaultLimit bounds the undo history; the oldest entry is evicted first.
const DefaultLimit = 10

// Command is one atomic, reversible world mutation. Execute and Undo report
// whether they changed anything; both must tolerate stale targets.
type Command interface {
	Execute() bool
	Undo() bool
	Name() string
}

// History holds the bounded undo and redo stacks. Executing a new command
// through Do clears the redo stack, so there are no branching timelines.
type History struct {
	limit int
	undo  []Command
	redo  []Command
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Do executes the command and records it. Commands that report no effect
// (failed validation, stale target) are dropped without touching either
// stack so a failed gesture never burns an undo slot.
func (h *History) Do(cmd Command) bool {
	if !cmd.Execute() {
		log.Printf("command: %s had no effect, not recorded", cmd.Name())
		return false
	}
	h.push(cmd)
	h.redo = h.redo[:0]
	return true
}

func (h *History) push(cmd Command) {
	if len(h.undo) >= h.limit {
		n := copy(h.undo, h.undo[1:])
		h.undo = h.undo[:n]
	}
	h.undo = append(h.undo, cmd)
}

// Undo reverses the most recent command. The command moves to the redo
// stack even when its Undo reports no effect, keeping the stacks symmetric.
func (h *History) Undo() bool {
	if len(h.undo) == 0 {
		return false
	}
	cmd := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	if !cmd.Undo() {
		log.Printf("command: undo %s had no effect", cmd.Name())
	}
	h.redo = append(h.redo, cmd)
	return true
}

// Redo re-applies the most recently undone command.
func (h *History) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	if !cmd.Execute() {
		log.Printf("command: redo %s had no effect", cmd.Name())
	}
	h.push(cmd)
	return true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len reports the undo stack depth.
func (h *History) Len() int { return len(h.undo) }

// Clear drops both stacks, e.g. after a level load.
func (h *History) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}
