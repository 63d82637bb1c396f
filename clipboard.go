package main

import (
	"encoding/json"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp/v2"
	"golang.design/x/clipboard"

	"github.com/milk9111/playground/command"
	"github.com/milk9111/playground/obj"
)

// clipboardReady is set once clipboard.Init succeeds; copy and paste quietly
// no-op on platforms without clipboard access.
var clipboardReady bool

// copySelected serializes the selected shape in the level-file record format
// so shapes can travel between running editors or be pasted into a text file.
func (e *Editor) copySelected() {
	if !clipboardReady || e.selected == nil {
		return
	}
	data, err := json.Marshal(e.selected.Record())
	if err != nil {
		log.Printf("editor: copy: %v", err)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	log.Printf("editor: copied %s %d", e.selected.Kind, e.selected.ID())
}

// pasteFromClipboard stamps the copied record at the cursor, falling back to
// the record's own position when the cursor is off the map.
func (e *Editor) pasteFromClipboard() {
	if !clipboardReady {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	var rec obj.ShapeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		log.Printf("editor: paste: not a shape record: %v", err)
		return
	}
	switch rec.Kind {
	case obj.KindRectangle, obj.KindCircle, obj.KindTriangle:
	default:
		log.Printf("editor: paste: unknown kind %q", rec.Kind)
		return
	}

	params := obj.SizeParams{}
	if rec.Size != nil {
		params.Size = cp.Vector{X: rec.Size[0], Y: rec.Size[1]}
	}
	if rec.Radius != nil {
		params.Radius = *rec.Radius
	}
	if rec.Scale != nil {
		params.Scale = *rec.Scale
	}

	cmd := command.NewPlaceShape(e.world, rec.Kind, e.pastePosition(rec), obj.Properties(rec.Properties), params)
	if !e.do(cmd) {
		return
	}
	if s := e.world.ShapeByID(cmd.CreatedID()); s != nil {
		e.selectShape(s)
	}
}

func (e *Editor) pastePosition(rec obj.ShapeRecord) cp.Vector {
	mx, my := ebiten.CursorPosition()
	cursor := e.camera.ScreenToWorld(float64(mx), float64(my))
	if float64(my) > toolbarHeight && e.world.InBounds(cursor) {
		return cursor
	}
	if rec.Position != nil {
		return cp.Vector{X: rec.Position[0], Y: rec.Position[1]}
	}
	return cp.Vector{X: e.world.Width() / 2, Y: e.world.Height() / 2}
}
