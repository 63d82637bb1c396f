package obj

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jakecoffman/cp/v2"
)

// LevelRecord is the flat level file: optional markers, ordered checkpoint
// points and ordered shape records. Marker keys are always written so a
// cleared marker round-trips as null.
type LevelRecord struct {
	StartMarker *[2]float64   `json:"start_marker"`
	EndMarker   *[2]float64   `json:"end_marker"`
	Checkpoints [][2]float64  `json:"checkpoints"`
	Shapes      []ShapeRecord `json:"shapes"`
}

// ShapeRecord is one persisted shape. Position and kind are mandatory;
// exactly one sizing field must be present, matching the kind.
type ShapeRecord struct {
	Kind       ShapeKind       `json:"kind"`
	Position   *[2]float64     `json:"position"`
	Angle      float64         `json:"angle"`
	Properties map[string]bool `json:"properties,omitempty"`
	Size       *[2]float64     `json:"size,omitempty"`
	Radius     *float64        `json:"radius,omitempty"`
	Scale      *float64        `json:"scale,omitempty"`
}

// Record snapshots a shape for persistence or the clipboard.
func (s *Shape) Record() ShapeRecord {
	pos := s.body.Position()
	rec := ShapeRecord{
		Kind:     s.Kind,
		Position: &[2]float64{pos.X, pos.Y},
		Angle:    s.body.Angle(),
	}
	if len(s.Props) > 0 {
		rec.Properties = map[string]bool(s.Props.Clone())
	}
	switch s.Kind {
	case KindRectangle:
		rec.Size = &[2]float64{s.size.X, s.size.Y}
	case KindCircle:
		r := s.radius
		rec.Radius = &r
	case KindTriangle:
		sc := s.scale
		rec.Scale = &sc
	}
	return rec
}

func (r ShapeRecord) validate(i int) error {
	switch r.Kind {
	case KindRectangle, KindCircle, KindTriangle:
	case "":
		return fmt.Errorf("shape %d: missing kind", i)
	default:
		return fmt.Errorf("shape %d: unknown kind %q", i, r.Kind)
	}
	if r.Position == nil {
		return fmt.Errorf("shape %d: missing position", i)
	}
	switch {
	case r.Kind == KindRectangle && r.Size == nil:
		return fmt.Errorf("shape %d: rectangle missing size", i)
	case r.Kind == KindCircle && r.Radius == nil:
		return fmt.Errorf("shape %d: circle missing radius", i)
	case r.Kind == KindTriangle && r.Scale == nil:
		return fmt.Errorf("shape %d: triangle missing scale", i)
	}
	return nil
}

func (r ShapeRecord) params() SizeParams {
	var p SizeParams
	switch r.Kind {
	case KindRectangle:
		p.Size = cp.Vector{X: r.Size[0], Y: r.Size[1]}
	case KindCircle:
		p.Radius = *r.Radius
	case KindTriangle:
		p.Scale = *r.Scale
	}
	return p
}

func (w *World) buildFromRecord(rec ShapeRecord) (*Shape, error) {
	if err := rec.validate(0); err != nil {
		return nil, err
	}
	var props Properties
	if rec.Properties != nil {
		props = Properties(rec.Properties).Clone()
	}
	return NewShape(rec.Kind, cp.Vector{X: rec.Position[0], Y: rec.Position[1]}, rec.Angle, props, rec.params(), w.defs.Shape)
}

// AddShapeFromRecord validates and places one persisted shape.
func (w *World) AddShapeFromRecord(rec ShapeRecord) (*Shape, error) {
	s, err := w.buildFromRecord(rec)
	if err != nil {
		return nil, err
	}
	w.AddShape(s)
	return s, nil
}

// RestoreShapeFromRecord rebuilds a snapshotted shape under its original ID
// so commands that reference the ID stay valid across delete and undo.
func (w *World) RestoreShapeFromRecord(rec ShapeRecord, id int) (*Shape, error) {
	s, err := w.buildFromRecord(rec)
	if err != nil {
		return nil, err
	}
	w.RestoreShape(s, id)
	return s, nil
}

// Snapshot captures the whole world for saving.
func (w *World) Snapshot() LevelRecord {
	rec := LevelRecord{}
	if w.startMarker != nil {
		rec.StartMarker = &[2]float64{w.startMarker.X, w.startMarker.Y}
	}
	if w.endMarker != nil {
		rec.EndMarker = &[2]float64{w.endMarker.X, w.endMarker.Y}
	}
	for _, c := range w.checkpoints {
		rec.Checkpoints = append(rec.Checkpoints, [2]float64{c.X, c.Y})
	}
	for _, s := range w.shapes {
		rec.Shapes = append(rec.Shapes, s.Record())
	}
	return rec
}

// Save writes the level to disk, creating the directory if needed.
func (w *World) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("level: create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("level: create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(w.Snapshot()); err != nil {
		return fmt.Errorf("level: encode %s: %w", path, err)
	}
	log.Printf("world: saved %d shapes to %s", len(w.shapes), path)
	return nil
}

// Load replaces the entire world with the given level bytes. The world is
// cleared before parsing; any parse or missing-field error aborts and
// leaves it cleared, never partially populated.
func (w *World) Load(data []byte) error {
	w.Clear()

	var rec LevelRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("level: parse: %w", err)
	}

	for i, sr := range rec.Shapes {
		if err := sr.validate(i); err != nil {
			w.Clear()
			return fmt.Errorf("level: %w", err)
		}
	}

	for i, sr := range rec.Shapes {
		if _, err := w.AddShapeFromRecord(sr); err != nil {
			w.Clear()
			return fmt.Errorf("level: shape %d: %w", i, err)
		}
	}
	if rec.StartMarker != nil {
		w.SetMarker(MarkerStart, &cp.Vector{X: rec.StartMarker[0], Y: rec.StartMarker[1]})
	}
	if rec.EndMarker != nil {
		w.SetMarker(MarkerEnd, &cp.Vector{X: rec.EndMarker[0], Y: rec.EndMarker[1]})
	}
	for _, c := range rec.Checkpoints {
		w.AddCheckpoint(cp.Vector{X: c[0], Y: c[1]})
	}

	log.Printf("world: loaded %d shapes, %d checkpoints", len(w.shapes), len(w.checkpoints))
	return nil
}

// LoadFile loads a level from disk. A missing or unreadable file still
// clears the world so the caller never sees a half-replaced level.
func (w *World) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		w.Clear()
		return fmt.Errorf("level: read %s: %w", path, err)
	}
	return w.Load(data)
}
