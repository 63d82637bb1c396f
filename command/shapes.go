package command

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp/v2"

	"github.com/milk9111/playground/obj"
)

// PlaceShape creates a shape from construction parameters captured at the
// placement gesture. Redo rebuilds an equivalent shape under the original
// ID so later commands referencing it stay valid.
type PlaceShape struct {
	w      *obj.World
	kind   obj.ShapeKind
	pos    cp.Vector
	props  obj.Properties
	params obj.SizeParams

	createdID int
}

func NewPlaceShape(w *obj.World, kind obj.ShapeKind, pos cp.Vector, props obj.Properties, params obj.SizeParams) *PlaceShape {
	return &PlaceShape{w: w, kind: kind, pos: pos, props: props.Clone(), params: params}
}

// CreatedID returns the placed shape's world ID, zero before first Execute.
func (c *PlaceShape) CreatedID() int { return c.createdID }

func (c *PlaceShape) Execute() bool {
	if c.createdID != 0 && c.w.ShapeByID(c.createdID) != nil {
		log.Printf("command: place %s: shape %d still present", c.kind, c.createdID)
		return false
	}
	s, err := obj.NewShape(c.kind, c.pos, 0, c.props.Clone(), c.params, c.w.Defs().Shape)
	if err != nil {
		log.Printf("command: place %s: %v", c.kind, err)
		return false
	}
	if c.createdID == 0 {
		c.createdID = c.w.AddShape(s)
	} else {
		c.w.RestoreShape(s, c.createdID)
	}
	return true
}

func (c *PlaceShape) Undo() bool {
	s := c.w.ShapeByID(c.createdID)
	if s == nil {
		log.Printf("command: undo place: shape %d missing", c.createdID)
		return false
	}
	return c.w.RemoveShape(s)
}

func (c *PlaceShape) Name() string { return fmt.Sprintf("place %s", c.kind) }

// DeleteShape removes a shape, snapshotting it for undo. Undo restores an
// equivalent shape under the same ID.
type DeleteShape struct {
	w   *obj.World
	id  int
	rec obj.ShapeRecord
}

func NewDeleteShape(w *obj.World, s *obj.Shape) *DeleteShape {
	return &DeleteShape{w: w, id: s.ID(), rec: s.Record()}
}

func (c *DeleteShape) Execute() bool {
	s := c.w.ShapeByID(c.id)
	if s == nil {
		log.Printf("command: delete: shape %d missing", c.id)
		return false
	}
	c.rec = s.Record()
	return c.w.RemoveShape(s)
}

func (c *DeleteShape) Undo() bool {
	if c.w.ShapeByID(c.id) != nil {
		log.Printf("command: undo delete: shape %d already present", c.id)
		return false
	}
	if _, err := c.w.RestoreShapeFromRecord(c.rec, c.id); err != nil {
		log.Printf("command: undo delete shape %d: %v", c.id, err)
		return false
	}
	return true
}

func (c *DeleteShape) Name() string { return fmt.Sprintf("delete shape %d", c.id) }

// MoveShape teleports a shape between two recorded positions.
type MoveShape struct {
	w        *obj.World
	id       int
	from, to cp.Vector
}

func NewMoveShape(w *obj.World, s *obj.Shape, from, to cp.Vector) *MoveShape {
	return &MoveShape{w: w, id: s.ID(), from: from, to: to}
}

func (c *MoveShape) Execute() bool { return c.teleport(c.to) }
func (c *MoveShape) Undo() bool    { return c.teleport(c.from) }

func (c *MoveShape) teleport(pos cp.Vector) bool {
	s := c.w.ShapeByID(c.id)
	if s == nil {
		log.Printf("command: move: shape %d missing", c.id)
		return false
	}
	c.w.TeleportShape(s, pos)
	return true
}

func (c *MoveShape) Name() string { return fmt.Sprintf("move shape %d", c.id) }

// ResizeShape swaps a shape between its pre-gesture geometry and the
// geometry computed at gesture end. The old snapshot is captured at
// construction, before anything has been applied.
type ResizeShape struct {
	w  *obj.World
	id int

	oldParams, newParams obj.SizeParams
	oldPos, newPos       cp.Vector
	oldAngle, newAngle   float64
}

func NewResizeShape(w *obj.World, s *obj.Shape, newParams obj.SizeParams, newPos cp.Vector) *ResizeShape {
	return &ResizeShape{
		w:         w,
		id:        s.ID(),
		oldParams: s.Params(),
		newParams: newParams,
		oldPos:    s.Position(),
		newPos:    newPos,
		oldAngle:  s.Angle(),
		newAngle:  s.Angle(),
	}
}

func (c *ResizeShape) Execute() bool { return c.apply(c.newParams, c.newPos, c.newAngle) }
func (c *ResizeShape) Undo() bool    { return c.apply(c.oldParams, c.oldPos, c.oldAngle) }

func (c *ResizeShape) apply(params obj.SizeParams, pos cp.Vector, angle float64) bool {
	s := c.w.ShapeByID(c.id)
	if s == nil {
		log.Printf("command: resize: shape %d missing", c.id)
		return false
	}
	if !c.w.ResizeShape(s, params, pos, angle) {
		log.Printf("command: resize shape %d: rejected %+v", c.id, params)
		return false
	}
	return true
}

func (c *ResizeShape) Name() string { return fmt.Sprintf("resize shape %d", c.id) }

// ToggleProperty flips one property flag. The target value is captured at
// construction so executing twice is not a double toggle.
type ToggleProperty struct {
	w     *obj.World
	id    int
	prop  string
	value bool
}

func NewToggleProperty(w *obj.World, s *obj.Shape, prop string) *ToggleProperty {
	return &ToggleProperty{w: w, id: s.ID(), prop: prop, value: !s.Props[prop]}
}

func (c *ToggleProperty) Execute() bool { return c.set(c.value) }
func (c *ToggleProperty) Undo() bool    { return c.set(!c.value) }

func (c *ToggleProperty) set(v bool) bool {
	s := c.w.ShapeByID(c.id)
	if s == nil {
		log.Printf("command: toggle %s: shape %d missing", c.prop, c.id)
		return false
	}
	if !c.w.SetShapeProperty(s, c.prop, v) {
		log.Printf("command: toggle %s: shape %d already %v", c.prop, c.id, v)
		return false
	}
	return true
}

func (c *ToggleProperty) Name() string { return fmt.Sprintf("toggle %s", c.prop) }
