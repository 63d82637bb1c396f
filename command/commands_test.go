package command

import (
	"testing"

	"github.com/jakecoffman/cp/v2"

	"github.com/milk9111/playground/defs"
	"github.com/milk9111/playground/obj"
)

func newTestWorld(t *testing.T) *obj.World {
	t.Helper()
	d, err := defs.LoadAll()
	if err != nil {
		t.Fatalf("load defs: %v", err)
	}
	return obj.NewWorld(d)
}

func placeRect(t *testing.T, w *obj.World, pos cp.Vector) *obj.Shape {
	t.Helper()
	s, err := obj.NewShape(obj.KindRectangle, pos, 0, nil, obj.SizeParams{}, w.Defs().Shape)
	if err != nil {
		t.Fatalf("new shape: %v", err)
	}
	w.AddShape(s)
	return s
}

func TestPlaceShapeUndoRedo(t *testing.T) {
	w := newTestWorld(t)
	h := NewHistory(DefaultLimit)

	cmd := NewPlaceShape(w, obj.KindRectangle, cp.Vector{X: 100, Y: 100}, obj.Properties{}, obj.SizeParams{})
	if !h.Do(cmd) {
		t.Fatal("place failed")
	}
	if len(w.Shapes()) != 1 {
		t.Fatalf("shape count = %d, want 1", len(w.Shapes()))
	}
	id := cmd.CreatedID()
	if id == 0 {
		t.Fatal("place did not report a created ID")
	}

	if !h.Undo() {
		t.Fatal("undo failed")
	}
	if len(w.Shapes()) != 0 {
		t.Fatalf("shape count after undo = %d, want 0", len(w.Shapes()))
	}

	if !h.Redo() {
		t.Fatal("redo failed")
	}
	s := w.ShapeByID(id)
	if s == nil {
		t.Fatalf("redo did not restore shape under ID %d", id)
	}
	if got := s.Position(); got != (cp.Vector{X: 100, Y: 100}) {
		t.Fatalf("redo position = %v, want (100, 100)", got)
	}
}

func TestDeleteShapeUndoRestoresSnapshot(t *testing.T) {
	w := newTestWorld(t)
	h := NewHistory(DefaultLimit)

	s := placeRect(t, w, cp.Vector{X: 300, Y: 200})
	w.SetShapeProperty(s, obj.PropSticky, true)
	id := s.ID()
	wantParams := s.Params()

	if !h.Do(NewDeleteShape(w, s)) {
		t.Fatal("delete failed")
	}
	if len(w.Shapes()) != 0 {
		t.Fatal("delete left the shape in the world")
	}

	if !h.Undo() {
		t.Fatal("undo failed")
	}
	restored := w.ShapeByID(id)
	if restored == nil {
		t.Fatalf("undo did not restore shape under ID %d", id)
	}
	if restored.Kind != obj.KindRectangle {
		t.Fatalf("restored kind = %s", restored.Kind)
	}
	if !restored.Props[obj.PropSticky] {
		t.Fatal("restored shape lost its Sticky flag")
	}
	if restored.Params() != wantParams {
		t.Fatalf("restored params = %+v, want %+v", restored.Params(), wantParams)
	}
	if got := restored.Position(); got != (cp.Vector{X: 300, Y: 200}) {
		t.Fatalf("restored position = %v", got)
	}
}

func TestMoveShapeUndoRedo(t *testing.T) {
	w := newTestWorld(t)
	h := NewHistory(DefaultLimit)
	s := placeRect(t, w, cp.Vector{X: 100, Y: 100})

	from := cp.Vector{X: 100, Y: 100}
	to := cp.Vector{X: 400, Y: 250}
	if !h.Do(NewMoveShape(w, s, from, to)) {
		t.Fatal("move failed")
	}
	if s.Position() != to {
		t.Fatalf("position = %v, want %v", s.Position(), to)
	}
	h.Undo()
	if s.Position() != from {
		t.Fatalf("position after undo = %v, want %v", s.Position(), from)
	}
	h.Redo()
	if s.Position() != to {
		t.Fatalf("position after redo = %v, want %v", s.Position(), to)
	}
}

func TestResizeCircleUndo(t *testing.T) {
	w := newTestWorld(t)
	h := NewHistory(DefaultLimit)

	s, err := obj.NewShape(obj.KindCircle, cp.Vector{X: 500, Y: 500}, 0, nil, obj.SizeParams{Radius: 20}, w.Defs().Shape)
	if err != nil {
		t.Fatalf("new circle: %v", err)
	}
	w.AddShape(s)

	if !h.Do(NewResizeShape(w, s, obj.SizeParams{Radius: 40}, s.Position())) {
		t.Fatal("resize failed")
	}
	if got := s.Params().Radius; got != 40 {
		t.Fatalf("radius = %.1f, want 40", got)
	}
	h.Undo()
	if got := s.Params().Radius; got != 20 {
		t.Fatalf("radius after undo = %.1f, want 20", got)
	}
}

func TestResizeRejectsDegenerateGeometry(t *testing.T) {
	w := newTestWorld(t)
	h := NewHistory(DefaultLimit)
	s := placeRect(t, w, cp.Vector{X: 100, Y: 100})
	want := s.Params()

	cmd := NewResizeShape(w, s, obj.SizeParams{Size: cp.Vector{X: 0, Y: 50}}, s.Position())
	if h.Do(cmd) {
		t.Fatal("zero-width resize was accepted")
	}
	if s.Params() != want {
		t.Fatalf("params changed to %+v after rejected resize", s.Params())
	}
	if h.Len() != 0 {
		t.Fatal("rejected resize was recorded")
	}
}

func TestTogglePropertyTwiceIndependentlyUndoable(t *testing.T) {
	w := newTestWorld(t)
	h := NewHistory(DefaultLimit)
	s := placeRect(t, w, cp.Vector{X: 100, Y: 100})

	h.Do(NewToggleProperty(w, s, obj.PropSticky))
	h.Do(NewToggleProperty(w, s, obj.PropSticky))
	if s.Props[obj.PropSticky] {
		t.Fatal("two toggles should land back on false")
	}

	h.Undo()
	if !s.Props[obj.PropSticky] {
		t.Fatal("undoing the second toggle should restore true")
	}
	h.Undo()
	if s.Props[obj.PropSticky] {
		t.Fatal("undoing both toggles should restore false")
	}
}

func TestToggleSpinningSurvivesRebuild(t *testing.T) {
	w := newTestWorld(t)
	h := NewHistory(DefaultLimit)
	s := placeRect(t, w, cp.Vector{X: 250, Y: 250})
	id := s.ID()

	if !h.Do(NewToggleProperty(w, s, obj.PropSpinning)) {
		t.Fatal("toggle failed")
	}
	if s.Body().GetType() != cp.BODY_KINEMATIC {
		t.Fatal("spinning shape should have a kinematic body")
	}
	if got := s.Position(); got != (cp.Vector{X: 250, Y: 250}) {
		t.Fatalf("rebuild moved the shape to %v", got)
	}
	if w.ShapeByID(id) != s {
		t.Fatal("rebuild changed the shape's identity")
	}

	h.Undo()
	if s.Body().GetType() != cp.BODY_STATIC {
		t.Fatal("undo should restore the static body")
	}
}

func TestStaleShapeCommandsNoop(t *testing.T) {
	w := newTestWorld(t)
	s := placeRect(t, w, cp.Vector{X: 100, Y: 100})

	move := NewMoveShape(w, s, cp.Vector{X: 100, Y: 100}, cp.Vector{X: 200, Y: 200})
	toggle := NewToggleProperty(w, s, obj.PropDanger)
	resize := NewResizeShape(w, s, obj.SizeParams{Size: cp.Vector{X: 40, Y: 40}}, s.Position())
	del := NewDeleteShape(w, s)

	w.RemoveShape(s)

	for _, tc := range []struct {
		name string
		cmd  Command
	}{
		{"move", move},
		{"toggle", toggle},
		{"resize", resize},
		{"delete", del},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if tc.cmd.Execute() {
				t.Fatalf("%s executed against a removed shape", tc.cmd.Name())
			}
		})
	}
}

func TestSetMarkerUndo(t *testing.T) {
	w := newTestWorld(t)
	h := NewHistory(DefaultLimit)

	first := cp.Vector{X: 50, Y: 60}
	second := cp.Vector{X: 500, Y: 600}
	h.Do(NewSetMarker(w, obj.MarkerStart, &first))
	h.Do(NewSetMarker(w, obj.MarkerStart, &second))

	if got := w.Marker(obj.MarkerStart); got == nil || *got != second {
		t.Fatalf("marker = %v, want %v", got, second)
	}
	h.Undo()
	if got := w.Marker(obj.MarkerStart); got == nil || *got != first {
		t.Fatalf("marker after undo = %v, want %v", got, first)
	}
	h.Undo()
	if w.Marker(obj.MarkerStart) != nil {
		t.Fatal("undoing the first set should clear the marker")
	}
}

func TestAddCheckpointUndo(t *testing.T) {
	w := newTestWorld(t)
	h := NewHistory(DefaultLimit)

	pos := cp.Vector{X: 300, Y: 400}
	h.Do(NewAddCheckpoint(w, pos))
	if len(w.Checkpoints()) != 1 {
		t.Fatalf("checkpoint count = %d, want 1", len(w.Checkpoints()))
	}
	h.Undo()
	if len(w.Checkpoints()) != 0 {
		t.Fatalf("checkpoint count after undo = %d, want 0", len(w.Checkpoints()))
	}
}

func TestRemoveCheckpointUndoRestoresIndex(t *testing.T) {
	w := newTestWorld(t)
	h := NewHistory(DefaultLimit)

	points := []cp.Vector{
		{X: 100, Y: 0}, {X: 200, Y: 0}, {X: 300, Y: 0}, {X: 400, Y: 0}, {X: 500, Y: 0},
	}
	for _, p := range points {
		w.AddCheckpoint(p)
	}

	if !h.Do(NewRemoveCheckpoint(w, points[2])) {
		t.Fatal("remove failed")
	}
	if len(w.Checkpoints()) != 4 {
		t.Fatalf("checkpoint count = %d, want 4", len(w.Checkpoints()))
	}

	h.Undo()
	got := w.Checkpoints()
	if len(got) != len(points) {
		t.Fatalf("checkpoint count after undo = %d, want %d", len(got), len(points))
	}
	for i, p := range points {
		if got[i] != p {
			t.Fatalf("checkpoint %d = %v, want %v", i, got[i], p)
		}
	}
}

// Any command sequence undone to an empty stack returns the world to its
// pre-command state.
func TestUndoToEmptyRestoresInitialWorld(t *testing.T) {
	w := newTestWorld(t)
	h := NewHistory(DefaultLimit)

	place := NewPlaceShape(w, obj.KindCircle, cp.Vector{X: 600, Y: 400}, obj.Properties{}, obj.SizeParams{})
	h.Do(place)
	s := w.ShapeByID(place.CreatedID())
	h.Do(NewToggleProperty(w, s, obj.PropDanger))
	h.Do(NewMoveShape(w, s, s.Position(), cp.Vector{X: 700, Y: 500}))
	start := cp.Vector{X: 50, Y: 50}
	h.Do(NewSetMarker(w, obj.MarkerStart, &start))
	h.Do(NewAddCheckpoint(w, cp.Vector{X: 900, Y: 900}))

	for h.CanUndo() {
		h.Undo()
	}

	if len(w.Shapes()) != 0 {
		t.Fatalf("shape count = %d, want 0", len(w.Shapes()))
	}
	if w.Marker(obj.MarkerStart) != nil {
		t.Fatal("start marker survived the unwind")
	}
	if len(w.Checkpoints()) != 0 {
		t.Fatalf("checkpoint count = %d, want 0", len(w.Checkpoints()))
	}
}
