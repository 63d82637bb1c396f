package command

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp/v2"

	"github.com/milk9111/playground/obj"
)

// SetMarker places or clears the start or end marker, remembering the prior
// point for undo.
type SetMarker struct {
	w        *obj.World
	kind     obj.MarkerKind
	from, to *cp.Vector
}

func NewSetMarker(w *obj.World, kind obj.MarkerKind, pos *cp.Vector) *SetMarker {
	return &SetMarker{w: w, kind: kind, from: copyPoint(w.Marker(kind)), to: copyPoint(pos)}
}

func copyPoint(p *cp.Vector) *cp.Vector {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}

func (c *SetMarker) Execute() bool {
	c.w.SetMarker(c.kind, c.to)
	return true
}

func (c *SetMarker) Undo() bool {
	c.w.SetMarker(c.kind, c.from)
	return true
}

func (c *SetMarker) Name() string { return fmt.Sprintf("set %s marker", c.kind) }

// AddCheckpoint appends a respawn point.
type AddCheckpoint struct {
	w   *obj.World
	pos cp.Vector
}

func NewAddCheckpoint(w *obj.World, pos cp.Vector) *AddCheckpoint {
	return &AddCheckpoint{w: w, pos: pos}
}

func (c *AddCheckpoint) Execute() bool {
	c.w.AddCheckpoint(c.pos)
	return true
}

func (c *AddCheckpoint) Undo() bool {
	if _, ok := c.w.RemoveCheckpoint(c.pos); !ok {
		log.Printf("command: undo add checkpoint: none at (%.0f, %.0f)", c.pos.X, c.pos.Y)
		return false
	}
	return true
}

func (c *AddCheckpoint) Name() string { return "add checkpoint" }

// RemoveCheckpoint deletes a respawn point, recording the list index it held
// so undo re-inserts it in place and the remaining order is preserved.
type RemoveCheckpoint struct {
	w     *obj.World
	pos   cp.Vector
	index int
}

func NewRemoveCheckpoint(w *obj.World, pos cp.Vector) *RemoveCheckpoint {
	return &RemoveCheckpoint{w: w, pos: pos, index: -1}
}

func (c *RemoveCheckpoint) Execute() bool {
	idx, ok := c.w.RemoveCheckpoint(c.pos)
	if !ok {
		log.Printf("command: remove checkpoint: none at (%.0f, %.0f)", c.pos.X, c.pos.Y)
		return false
	}
	c.index = idx
	return true
}

func (c *RemoveCheckpoint) Undo() bool {
	if c.index < 0 {
		log.Println("command: undo remove checkpoint: nothing was removed")
		return false
	}
	c.w.InsertCheckpoint(c.index, c.pos)
	return true
}

func (c *RemoveCheckpoint) Name() string { return "remove checkpoint" }
