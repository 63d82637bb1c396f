package obj

import (
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp/v2"
	"golang.org/x/image/colornames"

	"github.com/milk9111/playground/common"
	"github.com/milk9111/playground/defs"
)

type MarkerKind string

const (
	MarkerStart MarkerKind = "start"
	MarkerEnd   MarkerKind = "end"
)

// endTouchRadius pads the end marker's win check around the player circle.
const endTouchRadius = 15

// World owns the physics space and everything placed in it: shapes in
// insertion order, the collider→shape-ID side table used by collision
// callbacks, level markers, checkpoints and the player.
type World struct {
	space *cp.Space
	defs  *defs.Defs

	shapes     []*Shape
	byCollider map[*cp.Shape]int
	nextID     int

	startMarker *cp.Vector
	endMarker   *cp.Vector
	checkpoints []cp.Vector

	// weak reference by position into checkpoints, never an owner
	lastActivated *cp.Vector

	player *Player
}

func NewWorld(d *defs.Defs) *World {
	space := cp.NewSpace()
	space.Iterations = d.World.Iterations
	space.SetGravity(cp.Vector{})

	w := &World{
		space:      space,
		defs:       d,
		byCollider: make(map[*cp.Shape]int),
		nextID:     1,
	}
	w.buildBoundary()
	return w
}

func (w *World) Space() *cp.Space { return w.space }
func (w *World) Defs() *defs.Defs { return w.defs }

func (w *World) Width() float64  { return w.defs.World.Width }
func (w *World) Height() float64 { return w.defs.World.Height }

// InBounds reports whether a world point is inside the playable map.
func (w *World) InBounds(p cp.Vector) bool {
	return p.X >= 0 && p.X <= w.Width() && p.Y >= 0 && p.Y <= w.Height()
}

func (w *World) buildBoundary() {
	spec := w.defs.World
	width, height := spec.Width, spec.Height
	corners := [][2]cp.Vector{
		{{X: 0, Y: 0}, {X: width, Y: 0}},
		{{X: width, Y: 0}, {X: width, Y: height}},
		{{X: width, Y: height}, {X: 0, Y: height}},
		{{X: 0, Y: height}, {X: 0, Y: 0}},
	}
	for _, seg := range corners {
		s := cp.NewSegment(w.space.StaticBody, seg[0], seg[1], spec.BoundaryWidth)
		s.SetFriction(spec.BoundaryFriction)
		s.SetElasticity(spec.BoundaryBounce)
		s.SetCollisionType(CollisionNormal)
		w.space.AddShape(s)
	}
}

func (w *World) SetGravity(g cp.Vector) { w.space.SetGravity(g) }

// Step advances the simulation one fixed timestep. All mutation happens
// synchronously outside this call; nothing runs concurrently with it.
func (w *World) Step(dt float64) { w.space.Step(dt) }

// AddShape inserts a freshly created shape, assigning it a stable ID that
// is never reused for the lifetime of the world.
func (w *World) AddShape(s *Shape) int {
	s.id = w.nextID
	w.nextID++
	w.insert(s)
	return s.id
}

// RestoreShape re-inserts a shape under a previously assigned ID, used by
// undo of delete and redo of place so command references stay valid.
func (w *World) RestoreShape(s *Shape, id int) {
	s.id = id
	if id >= w.nextID {
		w.nextID = id + 1
	}
	w.insert(s)
}

func (w *World) insert(s *Shape) {
	s.attach(w.space)
	w.shapes = append(w.shapes, s)
	w.byCollider[s.collider] = s.id
}

// RemoveShape detaches a shape from the space and forgets it. The shape
// object itself stays intact so a snapshot-holding command can restore it.
func (w *World) RemoveShape(s *Shape) bool {
	idx := -1
	for i, other := range w.shapes {
		if other == s {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.detach(w.space)
	delete(w.byCollider, s.collider)
	w.shapes = append(w.shapes[:idx], w.shapes[idx+1:]...)
	return true
}

func (w *World) Shapes() []*Shape { return w.shapes }

func (w *World) ShapeByID(id int) *Shape {
	for _, s := range w.shapes {
		if s.id == id {
			return s
		}
	}
	return nil
}

// ShapeAt hit-tests topmost-first (reverse insertion order) using exact
// geometric containment.
func (w *World) ShapeAt(p cp.Vector) *Shape {
	for i := len(w.shapes) - 1; i >= 0; i-- {
		if w.shapes[i].ContainsPoint(p) {
			return w.shapes[i]
		}
	}
	return nil
}

// ShapeForCollider resolves a physics collider back to its owning shape
// during collision-callback dispatch.
func (w *World) ShapeForCollider(c *cp.Shape) *Shape {
	id, ok := w.byCollider[c]
	if !ok {
		return nil
	}
	return w.ShapeByID(id)
}

// TeleportShape moves a shape without physics, reindexing the space so
// static colliders keep answering queries at the new position.
func (w *World) TeleportShape(s *Shape, pos cp.Vector) {
	s.body.SetPosition(pos)
	w.space.ReindexShapesForBody(s.body)
}

// ResizeShape rebuilds a shape's physics pair with new geometry, keeping
// the side table pointing at the fresh collider.
func (w *World) ResizeShape(s *Shape, params SizeParams, pos cp.Vector, angle float64) bool {
	old := s.collider
	if !s.Resize(w.space, params, pos, angle) {
		return false
	}
	w.rebind(old, s)
	return true
}

// SetShapeProperty flips one flag, rebinding the side table when the
// Spinning toggle swapped the body out underneath the collider.
func (w *World) SetShapeProperty(s *Shape, name string, value bool) bool {
	old := s.collider
	if !s.SetProperty(w.space, name, value) {
		return false
	}
	if s.collider != old {
		w.rebind(old, s)
	}
	return true
}

func (w *World) rebind(old *cp.Shape, s *Shape) {
	delete(w.byCollider, old)
	w.byCollider[s.collider] = s.id
}

func (w *World) Marker(kind MarkerKind) *cp.Vector {
	if kind == MarkerStart {
		return w.startMarker
	}
	return w.endMarker
}

func (w *World) SetMarker(kind MarkerKind, pos *cp.Vector) {
	var v *cp.Vector
	if pos != nil {
		copied := *pos
		v = &copied
	}
	if kind == MarkerStart {
		w.startMarker = v
	} else {
		w.endMarker = v
	}
}

func (w *World) Checkpoints() []cp.Vector { return w.checkpoints }

func (w *World) AddCheckpoint(p cp.Vector) {
	w.checkpoints = append(w.checkpoints, p)
}

// RemoveCheckpoint drops the first checkpoint equal to p and reports the
// index it held. The last-activated reference is cleared when it pointed
// at the removed point.
func (w *World) RemoveCheckpoint(p cp.Vector) (int, bool) {
	for i, c := range w.checkpoints {
		if c == p {
			w.checkpoints = append(w.checkpoints[:i], w.checkpoints[i+1:]...)
			if w.lastActivated != nil && *w.lastActivated == p {
				w.lastActivated = nil
			}
			return i, true
		}
	}
	return 0, false
}

// InsertCheckpoint re-inserts at the original index, clamped so undo stays
// valid after unrelated removals shrank the list.
func (w *World) InsertCheckpoint(idx int, p cp.Vector) {
	if idx < 0 {
		idx = 0
	}
	if idx > len(w.checkpoints) {
		idx = len(w.checkpoints)
	}
	w.checkpoints = append(w.checkpoints, cp.Vector{})
	copy(w.checkpoints[idx+1:], w.checkpoints[idx:])
	w.checkpoints[idx] = p
}

func (w *World) LastActivated() *cp.Vector { return w.lastActivated }

func (w *World) ClearLastActivated() { w.lastActivated = nil }

// UpdateCheckpoints activates the nearest checkpoint the player overlaps.
// Exact distance ties resolve to the earliest checkpoint in the list.
func (w *World) UpdateCheckpoints() {
	if w.player == nil {
		return
	}
	pos := w.player.Position()
	reach := w.player.Radius() + w.defs.World.CheckpointRadius

	best := -1
	bestDist := 0.0
	for i, c := range w.checkpoints {
		d := pos.Distance(c)
		if d > reach {
			continue
		}
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return
	}
	hit := w.checkpoints[best]
	if w.lastActivated == nil || *w.lastActivated != hit {
		w.lastActivated = &hit
		log.Printf("world: checkpoint %d activated at (%.0f, %.0f)", best, hit.X, hit.Y)
	}
}

// SpawnPosition resolves where the player enters play mode: the last
// activated checkpoint, else the start marker, else the map center, always
// clamped inside the boundary walls.
func (w *World) SpawnPosition() cp.Vector {
	var spawn cp.Vector
	switch {
	case w.lastActivated != nil:
		spawn = *w.lastActivated
	case w.startMarker != nil:
		spawn = *w.startMarker
	default:
		spawn = cp.Vector{X: w.Width() / 2, Y: w.Height() / 2}
		log.Println("world: no start marker or checkpoint, spawning at map center")
	}

	margin := w.defs.Player.Radius + w.defs.World.BoundaryWidth
	spawn.X = common.Clamp(spawn.X, margin, w.Width()-margin)
	spawn.Y = common.Clamp(spawn.Y, margin, w.Height()-margin)
	return spawn
}

func (w *World) AddPlayer(pos cp.Vector) *Player {
	if w.player != nil {
		return w.player
	}
	w.player = NewPlayer(pos, w)
	return w.player
}

func (w *World) Player() *Player { return w.player }

func (w *World) RemovePlayer() {
	if w.player == nil {
		return
	}
	w.player.detach(w.space)
	w.player = nil
}

// CheckWin reports whether the player reached the end marker.
func (w *World) CheckWin() bool {
	if w.player == nil || w.endMarker == nil {
		return false
	}
	return w.player.Position().Distance(*w.endMarker) < w.player.Radius()+endTouchRadius
}

// CheckFall reports whether the player dropped well below the map.
func (w *World) CheckFall() bool {
	if w.player == nil {
		return false
	}
	return w.player.Position().Y > w.Height()+5*w.player.Radius()
}

// Clear removes every placed shape, marker and checkpoint, leaving the
// boundary walls and player untouched.
func (w *World) Clear() {
	for _, s := range w.shapes {
		s.detach(w.space)
	}
	w.shapes = nil
	w.byCollider = make(map[*cp.Shape]int)
	w.startMarker = nil
	w.endMarker = nil
	w.checkpoints = nil
	w.lastActivated = nil
}

// InvalidateImages drops every cached shape fill after a palette reload.
func (w *World) InvalidateImages() {
	for _, s := range w.shapes {
		s.InvalidateImage()
	}
}

// Draw renders boundary, shapes, markers, checkpoints and player with the
// camera offset applied.
func (w *World) Draw(screen *ebiten.Image, camOffset cp.Vector) {
	w.drawBoundary(screen, camOffset)

	for _, s := range w.shapes {
		s.Draw(screen, camOffset)
	}

	cpRadius := float32(w.defs.World.CheckpointRadius)
	for _, c := range w.checkpoints {
		x := float32(c.X - camOffset.X)
		y := float32(c.Y - camOffset.Y)
		col := colornames.Gold
		if w.lastActivated != nil && *w.lastActivated == c {
			col = colornames.Lime
		}
		vector.DrawFilledCircle(screen, x, y, cpRadius, col, true)
		vector.StrokeCircle(screen, x, y, cpRadius, 2, colornames.Black, true)
	}

	if w.startMarker != nil {
		drawMarker(screen, *w.startMarker, camOffset, colornames.Green, "S")
	}
	if w.endMarker != nil {
		drawMarker(screen, *w.endMarker, camOffset, colornames.Red, "E")
	}

	if w.player != nil {
		w.player.Draw(screen, camOffset)
	}
}

func (w *World) drawBoundary(screen *ebiten.Image, camOffset cp.Vector) {
	width, height := float32(w.Width()), float32(w.Height())
	thickness := float32(w.defs.World.BoundaryWidth)
	ox := float32(-camOffset.X)
	oy := float32(-camOffset.Y)
	vector.StrokeLine(screen, ox, oy, ox+width, oy, thickness, colornames.Black, false)
	vector.StrokeLine(screen, ox+width, oy, ox+width, oy+height, thickness, colornames.Black, false)
	vector.StrokeLine(screen, ox+width, oy+height, ox, oy+height, thickness, colornames.Black, false)
	vector.StrokeLine(screen, ox, oy+height, ox, oy, thickness, colornames.Black, false)
}

func drawMarker(screen *ebiten.Image, pos, camOffset cp.Vector, col color.RGBA, label string) {
	x := float32(pos.X - camOffset.X)
	y := float32(pos.Y - camOffset.Y)
	vector.DrawFilledCircle(screen, x, y, 12, col, true)
	ebitenutil.DebugPrintAt(screen, label, int(x)-3, int(y)-8)
}
