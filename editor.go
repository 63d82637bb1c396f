package main

import (
	"log"

	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp/v2"
	"golang.org/x/image/colornames"

	"github.com/milk9111/playground/command"
	"github.com/milk9111/playground/obj"
)

const (
	// cursor within this many pixels of a window edge pans the map
	edgeScrollZone  = 40.0
	edgeScrollSpeed = 600.0

	// pointer travel below this is a click, not a move
	dragCommitThreshold = 1.0

	resizeHandleSize = 8.0
)

// editorMode runs the level editor. The world keeps whatever the last play
// session left behind, but the editing session itself starts fresh on every
// entry.
type editorMode struct{}

func (m *editorMode) name() string { return "editor" }

func (m *editorMode) enter(g *Game) {
	g.world.SetGravity(cp.Vector{})
	g.world.RemovePlayer()
	g.editor.reset()
}

func (m *editorMode) exit(g *Game) {}

func (m *editorMode) update(g *Game) error {
	e := g.editor
	if e.toolbar != nil {
		e.toolbar.Update()
	}
	e.handleKeys(g)
	if g.mode != modeEditor {
		return nil
	}
	e.handleMouse()
	e.edgeScroll(frameDT)
	return nil
}

func (m *editorMode) draw(g *Game, screen *ebiten.Image) {
	screen.Fill(editorFill)
	g.world.Draw(screen, g.camera.Offset())
	g.editor.drawOverlay(screen)
}

// Editor owns build-mode interaction: the active tool, pointer gestures, the
// undo history and the radial menu. Every world mutation flows through a
// command so it can be undone.
type Editor struct {
	world   *obj.World
	camera  *obj.Camera
	history *command.History
	toolbar *Toolbar
	menu    *RadialMenu

	tool     Tool
	selected *obj.Shape
	state    editorState

	gesture gesture

	levelPath string
}

// gesture is the pointer-capture bookkeeping shared by the dragging and
// resizing states.
type gesture struct {
	shape       *obj.Shape
	handle      string
	startMouse  cp.Vector
	startPos    cp.Vector
	startParams obj.SizeParams
	startAngle  float64
}

func NewEditor(w *obj.World, cam *obj.Camera, levelPath string) *Editor {
	e := &Editor{
		world:     w,
		camera:    cam,
		history:   command.NewHistory(command.DefaultLimit),
		menu:      NewRadialMenu(),
		tool:      ToolSelect,
		state:     stateIdle,
		levelPath: levelPath,
	}
	e.toolbar = newToolbar(e.setTool, e.tool)
	return e
}

// reset restarts the editing session: gesture, selection, tool and history
// all return to their initial state while the world itself is untouched.
func (e *Editor) reset() {
	e.gesture = gesture{}
	e.state = stateIdle
	e.selectShape(nil)
	e.setTool(ToolSelect)
	e.history.Clear()
}

func (e *Editor) handleKeys(g *Game) {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	switch {
	case ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyZ):
		e.redo()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyZ):
		e.undo()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyY):
		e.redo()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS):
		e.saveLevel()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyL):
		e.loadLevel()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC):
		e.copySelected()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV):
		e.pasteFromClipboard()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		e.escape()
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete), inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		e.deleteSelected()
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		if e.world.Marker(obj.MarkerStart) == nil {
			log.Println("editor: place a start marker before playing")
			return
		}
		g.setMode(modePlaying)
	}
}

func (e *Editor) handleMouse() {
	mx, my := ebiten.CursorPosition()
	screen := cp.Vector{X: float64(mx), Y: float64(my)}
	e.menu.UpdateHover(screen)

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		e.pointerDown(screen)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		e.pointerMove(screen)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		e.pointerUp(screen)
	}
}

// pointerDown routes a press: the radial menu gets first claim, then the
// toolbar strip, then the map. Clicks outside the map clear the selection.
func (e *Editor) pointerDown(screen cp.Vector) {
	if action, ok := e.menu.HandlePress(screen); ok {
		e.applyMenuAction(action)
		return
	}
	if e.uiHovered() || screen.Y <= toolbarHeight {
		return
	}
	world := e.camera.ScreenToWorld(screen.X, screen.Y)
	if !e.world.InBounds(world) {
		e.selectShape(nil)
		return
	}
	e.state = e.state.pointerDown(e, world)
}

func (e *Editor) pointerMove(screen cp.Vector) {
	world := e.camera.ScreenToWorld(screen.X, screen.Y)
	e.state = e.state.pointerMove(e, world)
}

func (e *Editor) pointerUp(screen cp.Vector) {
	world := e.camera.ScreenToWorld(screen.X, screen.Y)
	e.state = e.state.pointerUp(e, world)
}

// escape cancels the gesture in flight and clears the selection.
func (e *Editor) escape() {
	e.state = e.state.cancel(e)
}

// uiHovered reports whether the ebitenui layer wants the pointer. Headless
// tests run without a toolbar.
func (e *Editor) uiHovered() bool {
	return e.toolbar != nil && ebuiinput.UIHovered
}

// setTool switches the active tool; leaving Select drops the selection.
func (e *Editor) setTool(t Tool) {
	if e.tool == t {
		return
	}
	e.tool = t
	if e.toolbar != nil {
		e.toolbar.SetActive(t)
	}
	if t != ToolSelect {
		e.selectShape(nil)
	}
}

// selectShape moves the selection ring and radial menu to s; nil clears
// both. Selecting always snaps the active tool back to Select.
func (e *Editor) selectShape(s *obj.Shape) {
	if e.selected != nil {
		e.selected.Selected = false
	}
	e.selected = s
	if s == nil {
		e.menu.Hide()
		return
	}
	s.Selected = true
	e.setTool(ToolSelect)
	e.showMenu()
}

func (e *Editor) showMenu() {
	if e.selected == nil {
		return
	}
	e.menu.Show(e.camera.WorldToScreen(e.selected.Position()))
}

// do funnels a mutation through the history, then re-checks the selection
// since the command may have removed or rebuilt the shape behind it.
func (e *Editor) do(cmd command.Command) bool {
	ok := e.history.Do(cmd)
	e.revalidateSelection()
	return ok
}

func (e *Editor) undo() {
	e.history.Undo()
	e.revalidateSelection()
}

func (e *Editor) redo() {
	e.history.Redo()
	e.revalidateSelection()
}

// revalidateSelection drops the selection when its shape is no longer the
// live object under that ID, e.g. undoing a delete restores a rebuilt
// instance that replaces the one we were pointing at.
func (e *Editor) revalidateSelection() {
	if e.selected == nil {
		return
	}
	if e.world.ShapeByID(e.selected.ID()) != e.selected {
		e.selected.Selected = false
		e.selected = nil
		e.menu.Hide()
	}
}

// gestureAlive reports whether the captured shape is still the live object
// in the world; an undo mid-gesture can pull it out from underneath.
func (e *Editor) gestureAlive() bool {
	g := e.gesture
	if g.shape == nil {
		return false
	}
	if e.world.ShapeByID(g.shape.ID()) != g.shape {
		e.gesture = gesture{}
		return false
	}
	return true
}

func (e *Editor) applyMenuAction(a menuAction) {
	if e.selected == nil {
		return
	}
	switch a {
	case menuToggleDanger:
		e.do(command.NewToggleProperty(e.world, e.selected, obj.PropDanger))
	case menuToggleSpinning:
		e.do(command.NewToggleProperty(e.world, e.selected, obj.PropSpinning))
	case menuToggleSticky:
		e.do(command.NewToggleProperty(e.world, e.selected, obj.PropSticky))
	case menuDelete:
		e.deleteSelected()
	}
}

func (e *Editor) deleteSelected() {
	if e.selected == nil {
		return
	}
	e.do(command.NewDeleteShape(e.world, e.selected))
	e.selectShape(nil)
}

// placeShape stamps a fresh shape with default sizing and no properties,
// then selects it so the radial menu is ready for tuning.
func (e *Editor) placeShape(kind obj.ShapeKind, pos cp.Vector) {
	cmd := command.NewPlaceShape(e.world, kind, pos, obj.Properties{}, obj.SizeParams{})
	if !e.do(cmd) {
		return
	}
	if s := e.world.ShapeByID(cmd.CreatedID()); s != nil {
		e.selectShape(s)
	}
}

func (e *Editor) saveLevel() {
	if err := e.world.Save(e.levelPath); err != nil {
		log.Printf("editor: save: %v", err)
	}
}

// loadLevel replaces the whole world, so nothing in the history can still
// apply; the stacks drop along with the selection. A failed load clears the
// world too, so the editor state resets either way.
func (e *Editor) loadLevel() {
	err := e.world.LoadFile(e.levelPath)
	e.gesture = gesture{}
	e.state = stateIdle
	e.selectShape(nil)
	e.history.Clear()
	if err != nil {
		log.Printf("editor: load: %v", err)
	}
}

// edgeScroll pans the map while the cursor rides a window edge. The top zone
// starts below the toolbar so hovering tool buttons doesn't scroll.
func (e *Editor) edgeScroll(dt float64) {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	if x < 0 || y < 0 || x > baseWidth || y > baseHeight {
		return
	}

	var dx, dy float64
	if x < edgeScrollZone {
		dx = -edgeScrollSpeed * dt
	} else if x > baseWidth-edgeScrollZone {
		dx = edgeScrollSpeed * dt
	}
	if y > toolbarHeight && y < toolbarHeight+edgeScrollZone {
		dy = -edgeScrollSpeed * dt
	} else if y > baseHeight-edgeScrollZone {
		dy = edgeScrollSpeed * dt
	}
	if dx != 0 || dy != 0 {
		e.camera.MoveBy(dx, dy)
	}
}

func (e *Editor) drawOverlay(screen *ebiten.Image) {
	e.drawHandles(screen)
	if e.toolbar != nil {
		e.toolbar.Draw(screen)
	}
	e.menu.Draw(screen)
}

// drawHandles marks the selected shape's bounding box with the eight resize
// grab points.
func (e *Editor) drawHandles(screen *ebiten.Image) {
	if e.selected == nil || e.tool != ToolSelect {
		return
	}
	const half = resizeHandleSize / 2
	for _, h := range resizeHandles(e.selected.BB()) {
		p := e.camera.WorldToScreen(h.pos)
		x := float32(p.X - half)
		y := float32(p.Y - half)
		vector.DrawFilledRect(screen, x, y, resizeHandleSize, resizeHandleSize, colornames.Magenta, false)
		vector.StrokeRect(screen, x, y, resizeHandleSize, resizeHandleSize, 1, colornames.Black, false)
	}
}
