package main

import (
	"log"
	"math"

	"github.com/jakecoffman/cp/v2"

	"github.com/milk9111/playground/command"
	"github.com/milk9111/playground/obj"
)

const (
	minRectSide = 10.0
	minRadius   = 5.0
	minScale    = 0.1

	// a radial resize needs the grab point clear of the center or the
	// scaling ratio blows up
	minGrabDistance = 1.0
)

// editorState is one phase of the pointer interaction. States are stateless
// singletons in the same style as the game modes; the capture data they act
// on lives in Editor.gesture. Positions arrive in world coordinates.
type editorState interface {
	pointerDown(e *Editor, pos cp.Vector) editorState
	pointerMove(e *Editor, pos cp.Vector) editorState
	pointerUp(e *Editor, pos cp.Vector) editorState
	cancel(e *Editor) editorState
	name() string
}

var (
	stateIdle     editorState = &idleState{}
	stateDragging editorState = &draggingState{}
	stateResizing editorState = &resizingState{}
)

type idleState struct{}

func (s *idleState) name() string { return "idle" }

func (s *idleState) pointerDown(e *Editor, pos cp.Vector) editorState {
	// a grab point on the selected shape wins over everything underneath it
	if e.selected != nil {
		if h, ok := handleAt(e.selected.BB(), pos); ok {
			e.gesture = gesture{
				shape:       e.selected,
				handle:      h,
				startMouse:  pos,
				startPos:    e.selected.Position(),
				startParams: e.selected.Params(),
				startAngle:  e.selected.Angle(),
			}
			e.menu.Hide()
			log.Printf("editor: resizing shape %d via %s handle", e.selected.ID(), h)
			return stateResizing
		}
	}

	// pressing an existing shape always selects it, whatever the tool;
	// placement only happens on empty ground
	if hit := e.world.ShapeAt(pos); hit != nil {
		e.selectShape(hit)
		e.gesture = gesture{
			shape:      hit,
			startMouse: pos,
			startPos:   hit.Position(),
		}
		e.menu.Hide()
		return stateDragging
	}

	e.selectShape(nil)
	if kind, ok := e.tool.shapeKind(); ok {
		e.placeShape(kind, pos)
	} else if marker, ok := e.tool.markerKind(); ok {
		e.do(command.NewSetMarker(e.world, marker, &pos))
	} else if e.tool == ToolCheckpoint {
		e.do(command.NewAddCheckpoint(e.world, pos))
	}
	return stateIdle
}

func (s *idleState) pointerMove(e *Editor, pos cp.Vector) editorState { return stateIdle }
func (s *idleState) pointerUp(e *Editor, pos cp.Vector) editorState   { return stateIdle }

func (s *idleState) cancel(e *Editor) editorState {
	e.selectShape(nil)
	return stateIdle
}

type draggingState struct{}

func (s *draggingState) name() string { return "dragging" }

func (s *draggingState) pointerDown(e *Editor, pos cp.Vector) editorState { return stateDragging }

// pointerMove previews the drag live; the command is only recorded on
// release so undo treats the whole drag as one step.
func (s *draggingState) pointerMove(e *Editor, pos cp.Vector) editorState {
	if !e.gestureAlive() {
		return stateIdle
	}
	g := e.gesture
	e.world.TeleportShape(g.shape, g.startPos.Add(pos.Sub(g.startMouse)))
	return stateDragging
}

func (s *draggingState) pointerUp(e *Editor, pos cp.Vector) editorState {
	if e.gestureAlive() {
		g := e.gesture
		delta := pos.Sub(g.startMouse)
		if delta.Length() > dragCommitThreshold {
			e.do(command.NewMoveShape(e.world, g.shape, g.startPos, g.startPos.Add(delta)))
		} else {
			// too small to count as a move, put it back exactly
			e.world.TeleportShape(g.shape, g.startPos)
		}
	}
	e.gesture = gesture{}
	e.showMenu()
	return stateIdle
}

func (s *draggingState) cancel(e *Editor) editorState {
	if e.gestureAlive() {
		e.world.TeleportShape(e.gesture.shape, e.gesture.startPos)
	}
	e.gesture = gesture{}
	e.selectShape(nil)
	return stateIdle
}

type resizingState struct{}

func (s *resizingState) name() string { return "resizing" }

func (s *resizingState) pointerDown(e *Editor, pos cp.Vector) editorState { return stateResizing }

// The new geometry applies on release; nothing tracks the pointer in
// between, so the shape never holds a half-built collider.
func (s *resizingState) pointerMove(e *Editor, pos cp.Vector) editorState { return stateResizing }

func (s *resizingState) pointerUp(e *Editor, pos cp.Vector) editorState {
	if e.gestureAlive() {
		g := e.gesture
		params, newPos, ok := resolveResize(g, pos)
		if ok && (params != g.startParams || newPos != g.startPos) {
			e.do(command.NewResizeShape(e.world, g.shape, params, newPos))
		} else {
			// nothing changed; put the shape back directly, no history entry
			e.world.ResizeShape(g.shape, g.startParams, g.startPos, g.startAngle)
			log.Printf("editor: resize cancelled for shape %d", g.shape.ID())
		}
	}
	e.gesture = gesture{}
	e.showMenu()
	return stateIdle
}

func (s *resizingState) cancel(e *Editor) editorState {
	e.gesture = gesture{}
	e.selectShape(nil)
	return stateIdle
}

// handlePoint is one resize grab point. Handle names follow the bounding
// box's numeric axes, so the "t" row sits on the larger-Y edge.
type handlePoint struct {
	name string
	pos  cp.Vector
}

func resizeHandles(bb cp.BB) []handlePoint {
	cx := (bb.L + bb.R) / 2
	cy := (bb.B + bb.T) / 2
	return []handlePoint{
		{"tl", cp.Vector{X: bb.L, Y: bb.T}},
		{"tm", cp.Vector{X: cx, Y: bb.T}},
		{"tr", cp.Vector{X: bb.R, Y: bb.T}},
		{"ml", cp.Vector{X: bb.L, Y: cy}},
		{"mr", cp.Vector{X: bb.R, Y: cy}},
		{"bl", cp.Vector{X: bb.L, Y: bb.B}},
		{"bm", cp.Vector{X: cx, Y: bb.B}},
		{"br", cp.Vector{X: bb.R, Y: bb.B}},
	}
}

// handleAt hit-tests the grab points with the same box the cursor sees drawn.
func handleAt(bb cp.BB, p cp.Vector) (string, bool) {
	const half = resizeHandleSize / 2
	for _, h := range resizeHandles(bb) {
		if math.Abs(p.X-h.pos.X) <= half && math.Abs(p.Y-h.pos.Y) <= half {
			return h.name, true
		}
	}
	return "", false
}

// resolveResize turns a finished handle drag into new sizing parameters.
// Rectangles resize edge-wise and shift their center so the opposite edge
// stays pinned; circles and triangles scale radially around their center.
// Every dimension is clamped to a usable minimum, never zero.
func resolveResize(g gesture, end cp.Vector) (obj.SizeParams, cp.Vector, bool) {
	params := g.startParams
	pos := g.startPos

	switch g.shape.Kind {
	case obj.KindRectangle:
		delta := end.Sub(g.startMouse)
		size := g.startParams.Size
		for _, c := range g.handle {
			switch c {
			case 't':
				nh := math.Max(minRectSide, g.startParams.Size.Y+delta.Y)
				pos.Y = g.startPos.Y + (nh-g.startParams.Size.Y)/2
				size.Y = nh
			case 'b':
				nh := math.Max(minRectSide, g.startParams.Size.Y-delta.Y)
				pos.Y = g.startPos.Y - (nh-g.startParams.Size.Y)/2
				size.Y = nh
			case 'l':
				nw := math.Max(minRectSide, g.startParams.Size.X-delta.X)
				pos.X = g.startPos.X - (nw-g.startParams.Size.X)/2
				size.X = nw
			case 'r':
				nw := math.Max(minRectSide, g.startParams.Size.X+delta.X)
				pos.X = g.startPos.X + (nw-g.startParams.Size.X)/2
				size.X = nw
			}
		}
		params.Size = size
	case obj.KindCircle:
		ratio, ok := grabRatio(g, end)
		if !ok {
			return params, pos, false
		}
		params.Radius = math.Max(minRadius, g.startParams.Radius*ratio)
	case obj.KindTriangle:
		ratio, ok := grabRatio(g, end)
		if !ok {
			return params, pos, false
		}
		params.Scale = math.Max(minScale, g.startParams.Scale*ratio)
	default:
		return params, pos, false
	}
	return params, pos, true
}

func grabRatio(g gesture, end cp.Vector) (float64, bool) {
	startDist := g.startMouse.Distance(g.startPos)
	if startDist <= minGrabDistance {
		return 0, false
	}
	return end.Distance(g.startPos) / startDist, true
}
