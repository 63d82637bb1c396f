package obj

import (
	"path/filepath"
	"testing"

	"github.com/jakecoffman/cp/v2"
)

func TestShapeAtTopmostFirst(t *testing.T) {
	w := testWorld(t)
	bottom := addShape(t, w, KindRectangle, cp.Vector{X: 500, Y: 500}, SizeParams{Size: cp.Vector{X: 200, Y: 200}})
	top := addShape(t, w, KindRectangle, cp.Vector{X: 500, Y: 500}, SizeParams{Size: cp.Vector{X: 80, Y: 80}})

	if got := w.ShapeAt(cp.Vector{X: 500, Y: 500}); got != top {
		t.Fatalf("center hit = %v, want the most recently placed shape", got)
	}
	// outside the small shape, still inside the big one
	if got := w.ShapeAt(cp.Vector{X: 580, Y: 500}); got != bottom {
		t.Fatalf("edge hit = %v, want the bottom shape", got)
	}
	if got := w.ShapeAt(cp.Vector{X: 900, Y: 900}); got != nil {
		t.Fatalf("empty space hit = %v, want nil", got)
	}
}

func TestShapeIDsNeverReused(t *testing.T) {
	w := testWorld(t)
	a := addShape(t, w, KindRectangle, cp.Vector{X: 100, Y: 100}, SizeParams{})
	w.RemoveShape(a)
	b := addShape(t, w, KindRectangle, cp.Vector{X: 200, Y: 200}, SizeParams{})
	if b.ID() <= a.ID() {
		t.Fatalf("ID %d reused after %d was removed", b.ID(), a.ID())
	}
}

func TestSpawnPositionResolution(t *testing.T) {
	w := testWorld(t)

	center := cp.Vector{X: w.Width() / 2, Y: w.Height() / 2}
	if got := w.SpawnPosition(); got != center {
		t.Fatalf("empty world spawn = %v, want map center %v", got, center)
	}

	start := cp.Vector{X: 120, Y: 700}
	w.SetMarker(MarkerStart, &start)
	if got := w.SpawnPosition(); got != start {
		t.Fatalf("spawn = %v, want start marker %v", got, start)
	}

	// an activated checkpoint outranks the start marker
	checkpoint := cp.Vector{X: 800, Y: 500}
	w.AddCheckpoint(checkpoint)
	w.AddPlayer(checkpoint)
	w.UpdateCheckpoints()
	if got := w.SpawnPosition(); got != checkpoint {
		t.Fatalf("spawn = %v, want activated checkpoint %v", got, checkpoint)
	}
}

func TestSpawnPositionClampedToBoundary(t *testing.T) {
	w := testWorld(t)
	start := cp.Vector{X: 2, Y: 3}
	w.SetMarker(MarkerStart, &start)

	margin := w.defs.Player.Radius + w.defs.World.BoundaryWidth
	got := w.SpawnPosition()
	if got.X != margin || got.Y != margin {
		t.Fatalf("spawn = %v, want clamped to margin %.0f", got, margin)
	}
}

func TestCheckpointTieResolvesFirstInList(t *testing.T) {
	w := testWorld(t)
	first := cp.Vector{X: 510, Y: 500}
	second := cp.Vector{X: 490, Y: 500}
	w.AddCheckpoint(first)
	w.AddCheckpoint(second)

	// equidistant from both
	w.AddPlayer(cp.Vector{X: 500, Y: 500})
	w.UpdateCheckpoints()

	got := w.LastActivated()
	if got == nil {
		t.Fatal("no checkpoint activated")
	}
	if *got != first {
		t.Fatalf("activated %v, want the earlier checkpoint %v", *got, first)
	}
}

func TestRemoveCheckpointClearsLastActivated(t *testing.T) {
	w := testWorld(t)
	point := cp.Vector{X: 400, Y: 400}
	w.AddCheckpoint(point)
	w.AddPlayer(point)
	w.UpdateCheckpoints()
	if w.LastActivated() == nil {
		t.Fatal("checkpoint not activated")
	}

	if _, ok := w.RemoveCheckpoint(point); !ok {
		t.Fatal("remove failed")
	}
	if w.LastActivated() != nil {
		t.Fatal("last-activated still references a removed checkpoint")
	}
}

func TestInsertCheckpointClampsIndex(t *testing.T) {
	w := testWorld(t)
	w.AddCheckpoint(cp.Vector{X: 1, Y: 0})
	w.InsertCheckpoint(10, cp.Vector{X: 2, Y: 0})
	got := w.Checkpoints()
	if len(got) != 2 || got[1] != (cp.Vector{X: 2, Y: 0}) {
		t.Fatalf("checkpoints = %v, want the out-of-range insert appended", got)
	}
}

func TestLoadAbortsOnMissingPosition(t *testing.T) {
	w := testWorld(t)
	addShape(t, w, KindRectangle, cp.Vector{X: 100, Y: 100}, SizeParams{})

	level := []byte(`{
		"shapes": [
			{"kind": "Rectangle", "position": [10, 10], "size": [40, 40]},
			{"kind": "Circle", "radius": 25}
		]
	}`)
	if err := w.Load(level); err == nil {
		t.Fatal("load accepted a shape without a position")
	}
	if len(w.Shapes()) != 0 {
		t.Fatalf("world holds %d shapes after a failed load, want 0", len(w.Shapes()))
	}
}

func TestLoadAbortsOnBadJSON(t *testing.T) {
	w := testWorld(t)
	addShape(t, w, KindRectangle, cp.Vector{X: 100, Y: 100}, SizeParams{})

	if err := w.Load([]byte(`{"shapes": [`)); err == nil {
		t.Fatal("load accepted malformed JSON")
	}
	if len(w.Shapes()) != 0 {
		t.Fatal("failed load left the world partially populated")
	}
}

func TestLoadValidatesSizingPerKind(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"rectangle without size", `{"shapes": [{"kind": "Rectangle", "position": [10, 10]}]}`},
		{"circle without radius", `{"shapes": [{"kind": "Circle", "position": [10, 10]}]}`},
		{"triangle without scale", `{"shapes": [{"kind": "Triangle", "position": [10, 10]}]}`},
		{"unknown kind", `{"shapes": [{"kind": "Hexagon", "position": [10, 10]}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := testWorld(t)
			if err := w.Load([]byte(tc.level)); err == nil {
				t.Fatal("load accepted an invalid shape record")
			}
			if len(w.Shapes()) != 0 {
				t.Fatal("failed load left shapes behind")
			}
		})
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	w := testWorld(t)
	addShape(t, w, KindRectangle, cp.Vector{X: 100, Y: 900}, SizeParams{Size: cp.Vector{X: 300, Y: 40}})
	circle := addShape(t, w, KindCircle, cp.Vector{X: 400, Y: 500}, SizeParams{Radius: 35})
	w.SetShapeProperty(circle, PropDanger, true)
	addShape(t, w, KindTriangle, cp.Vector{X: 700, Y: 600}, SizeParams{Scale: 1.5})
	start := cp.Vector{X: 50, Y: 800}
	w.SetMarker(MarkerStart, &start)
	w.AddCheckpoint(cp.Vector{X: 600, Y: 700})

	path := filepath.Join(t.TempDir(), "level.json")
	if err := w.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := testWorld(t)
	if err := loaded.LoadFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(loaded.Shapes()) != 3 {
		t.Fatalf("loaded %d shapes, want 3", len(loaded.Shapes()))
	}
	if got := loaded.Marker(MarkerStart); got == nil || *got != start {
		t.Fatalf("loaded start marker = %v, want %v", got, start)
	}
	if len(loaded.Checkpoints()) != 1 {
		t.Fatalf("loaded %d checkpoints, want 1", len(loaded.Checkpoints()))
	}

	got := loaded.Shapes()[1]
	if got.Kind != KindCircle || got.Params().Radius != 35 || !got.Props[PropDanger] {
		t.Fatalf("circle did not round-trip: kind %s params %+v props %v", got.Kind, got.Params(), got.Props)
	}
}

func TestClearKeepsPlayer(t *testing.T) {
	w := testWorld(t)
	addShape(t, w, KindRectangle, cp.Vector{X: 100, Y: 100}, SizeParams{})
	w.AddCheckpoint(cp.Vector{X: 200, Y: 200})
	p := w.AddPlayer(cp.Vector{X: 500, Y: 500})

	w.Clear()
	if len(w.Shapes()) != 0 || len(w.Checkpoints()) != 0 {
		t.Fatal("clear left level entities behind")
	}
	if w.Player() != p {
		t.Fatal("clear should not remove the player")
	}
}
