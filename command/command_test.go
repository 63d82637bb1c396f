package command

import "testing"

// stubCommand counts calls so history mechanics can be tested without a
// world behind them.
type stubCommand struct {
	name     string
	fail     bool
	executes int
	undos    int
}

func (c *stubCommand) Execute() bool {
	c.executes++
	return !c.fail
}

func (c *stubCommand) Undo() bool {
	c.undos++
	return true
}

func (c *stubCommand) Name() string { return c.name }

func TestHistoryEmptyNoops(t *testing.T) {
	h := NewHistory(DefaultLimit)
	if h.Undo() {
		t.Fatal("Undo on empty history reported work")
	}
	if h.Redo() {
		t.Fatal("Redo on empty history reported work")
	}
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("empty history claims undoable or redoable work")
	}
}

func TestHistoryFailedCommandNotRecorded(t *testing.T) {
	h := NewHistory(DefaultLimit)
	cmd := &stubCommand{name: "broken", fail: true}
	if h.Do(cmd) {
		t.Fatal("Do reported success for a failing command")
	}
	if h.Len() != 0 {
		t.Fatalf("failed command burned an undo slot, len = %d", h.Len())
	}
}

func TestHistoryEviction(t *testing.T) {
	const limit = 3
	h := NewHistory(limit)

	cmds := make([]*stubCommand, limit+2)
	for i := range cmds {
		cmds[i] = &stubCommand{name: "stub"}
		if !h.Do(cmds[i]) {
			t.Fatalf("Do %d failed", i)
		}
	}
	if h.Len() != limit {
		t.Fatalf("len = %d, want %d", h.Len(), limit)
	}

	// only the newest `limit` commands are still undoable
	for i := 0; i < limit; i++ {
		if !h.Undo() {
			t.Fatalf("undo %d failed", i)
		}
	}
	if h.Undo() {
		t.Fatal("undo past the evicted entries reported work")
	}
	if cmds[0].undos != 0 || cmds[1].undos != 0 {
		t.Fatal("evicted commands were undone")
	}
	if cmds[len(cmds)-1].undos != 1 {
		t.Fatal("newest command was not undone")
	}
}

func TestHistoryRedoClearedOnDo(t *testing.T) {
	h := NewHistory(DefaultLimit)
	h.Do(&stubCommand{name: "a"})
	h.Do(&stubCommand{name: "b"})
	h.Undo()
	if !h.CanRedo() {
		t.Fatal("expected redoable work after undo")
	}

	h.Do(&stubCommand{name: "c"})
	if h.CanRedo() {
		t.Fatal("new command did not clear the redo stack")
	}
}

func TestHistoryUndoRedoRoundtrip(t *testing.T) {
	h := NewHistory(DefaultLimit)
	cmd := &stubCommand{name: "a"}
	h.Do(cmd)

	if !h.Undo() {
		t.Fatal("undo failed")
	}
	if !h.Redo() {
		t.Fatal("redo failed")
	}
	if cmd.executes != 2 || cmd.undos != 1 {
		t.Fatalf("executes = %d, undos = %d, want 2 and 1", cmd.executes, cmd.undos)
	}
	if !h.CanUndo() || h.CanRedo() {
		t.Fatal("stacks out of position after redo")
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(DefaultLimit)
	h.Do(&stubCommand{name: "a"})
	h.Do(&stubCommand{name: "b"})
	h.Undo()
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("Clear left work on a stack")
	}
}
