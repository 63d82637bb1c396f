package obj

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp/v2"

	"github.com/milk9111/playground/defs"
)

type ShapeKind string

const (
	KindRectangle ShapeKind = "Rectangle"
	KindCircle    ShapeKind = "Circle"
	KindTriangle  ShapeKind = "Triangle"
)

// Property flags with physics meaning. The bag is open: unknown flags are
// cosmetic-only and round-trip through level files untouched.
const (
	PropDanger   = "Danger"
	PropSpinning = "Spinning"
	PropSticky   = "Sticky"
)

const (
	CollisionPlayer cp.CollisionType = iota + 1
	CollisionNormal
	CollisionDanger
)

const (
	PlayerCategory uint = 1 << iota
	ShapeCategory
)

type Properties map[string]bool

func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// SizeParams carries the sizing for a shape; only the field matching the
// kind is meaningful (full rect extents, circle radius, triangle scale).
type SizeParams struct {
	Size   cp.Vector
	Radius float64
	Scale  float64
}

// Shape is a placed level entity backed by a physics body and collider.
// The physics pair is regenerated, never mutated, when geometry or the
// static/kinematic split changes.
type Shape struct {
	id       int
	Kind     ShapeKind
	Props    Properties
	Selected bool

	size   cp.Vector
	radius float64
	scale  float64

	body     *cp.Body
	collider *cp.Shape

	spec *defs.ShapeSpec
	img  *ebiten.Image
}

// NewShape builds a shape and its physics pair. Zero-valued params fall
// back to the palette's default size for the kind.
func NewShape(kind ShapeKind, pos cp.Vector, angle float64, props Properties, params SizeParams, spec *defs.ShapeSpec) (*Shape, error) {
	if props == nil {
		props = make(Properties)
	}
	s := &Shape{Kind: kind, Props: props, spec: spec}

	d := spec.DefaultSize
	switch kind {
	case KindRectangle:
		s.size = params.Size
		if s.size.X == 0 && s.size.Y == 0 {
			s.size = cp.Vector{X: d, Y: d}
		}
	case KindCircle:
		s.radius = params.Radius
		if s.radius == 0 {
			s.radius = d / 2
		}
	case KindTriangle:
		s.scale = params.Scale
		if s.scale == 0 {
			s.scale = 1
		}
	default:
		return nil, fmt.Errorf("shape: unknown kind %q", kind)
	}

	if err := s.buildPhysics(pos, angle); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Shape) ID() int             { return s.id }
func (s *Shape) Position() cp.Vector { return s.body.Position() }
func (s *Shape) Angle() float64      { return s.body.Angle() }
func (s *Shape) Body() *cp.Body      { return s.body }
func (s *Shape) Collider() *cp.Shape { return s.collider }
func (s *Shape) BB() cp.BB           { return s.collider.BB() }

func (s *Shape) Params() SizeParams {
	switch s.Kind {
	case KindRectangle:
		return SizeParams{Size: s.size}
	case KindCircle:
		return SizeParams{Radius: s.radius}
	default:
		return SizeParams{Scale: s.scale}
	}
}

// ContainsPoint is exact geometric containment, not bounding-box.
func (s *Shape) ContainsPoint(p cp.Vector) bool {
	return s.collider.PointQuery(p).Distance <= 0
}

func validateParams(kind ShapeKind, params SizeParams) error {
	switch kind {
	case KindRectangle:
		if params.Size.X <= 0 || params.Size.Y <= 0 {
			return fmt.Errorf("shape: rectangle size must be positive, got %.1fx%.1f", params.Size.X, params.Size.Y)
		}
	case KindCircle:
		if params.Radius <= 0 {
			return fmt.Errorf("shape: circle radius must be positive, got %.1f", params.Radius)
		}
	case KindTriangle:
		if params.Scale <= 0.01 {
			return fmt.Errorf("shape: triangle scale too small, got %.3f", params.Scale)
		}
	default:
		return fmt.Errorf("shape: unknown kind %q", kind)
	}
	return nil
}

// Resize atomically rebuilds the physics pair with the new geometry at the
// given placement. On validation or build failure the shape keeps its prior
// pair untouched and stays in the space.
func (s *Shape) Resize(space *cp.Space, params SizeParams, pos cp.Vector, angle float64) bool {
	if err := validateParams(s.Kind, params); err != nil {
		return false
	}

	oldSize, oldRadius, oldScale := s.size, s.radius, s.scale
	oldBody, oldCollider := s.body, s.collider

	s.detach(space)
	switch s.Kind {
	case KindRectangle:
		s.size = params.Size
	case KindCircle:
		s.radius = params.Radius
	case KindTriangle:
		s.scale = params.Scale
	}

	if err := s.buildPhysics(pos, angle); err != nil {
		s.size, s.radius, s.scale = oldSize, oldRadius, oldScale
		s.body, s.collider = oldBody, oldCollider
		s.attach(space)
		return false
	}

	s.attach(space)
	s.img = nil
	return true
}

// SetProperty applies one flag. Reports false when the value already
// matched. Spinning swaps the body between static and kinematic via a full
// rebuild at the same placement; Danger and Sticky retune the existing
// collider surface in place.
func (s *Shape) SetProperty(space *cp.Space, name string, value bool) bool {
	if s.Props[name] == value {
		return false
	}
	s.Props[name] = value

	if name == PropSpinning {
		pos, angle := s.body.Position(), s.body.Angle()
		s.detach(space)
		if err := s.buildPhysics(pos, angle); err != nil {
			// geometry unchanged, so the rebuild cannot actually fail;
			// restore the flag if it somehow does
			s.Props[name] = !value
			s.attach(space)
			return false
		}
		s.attach(space)
	} else {
		s.applySurface()
	}
	s.img = nil
	return true
}

func (s *Shape) buildPhysics(pos cp.Vector, angle float64) error {
	var body *cp.Body
	if s.Props[PropSpinning] {
		body = cp.NewKinematicBody()
	} else {
		body = cp.NewStaticBody()
	}
	body.SetPosition(pos)
	body.SetAngle(angle)
	if s.Props[PropSpinning] {
		body.SetAngularVelocity(s.spec.SpinRate)
	}

	var collider *cp.Shape
	switch s.Kind {
	case KindRectangle:
		if s.size.X <= 0 || s.size.Y <= 0 {
			return fmt.Errorf("shape: degenerate rectangle %.1fx%.1f", s.size.X, s.size.Y)
		}
		collider = cp.NewBox(body, s.size.X, s.size.Y, 0)
	case KindCircle:
		if s.radius <= 0 {
			return fmt.Errorf("shape: degenerate circle radius %.1f", s.radius)
		}
		collider = cp.NewCircle(body, s.radius, cp.Vector{})
	case KindTriangle:
		verts := s.vertices()
		if len(verts) < 3 {
			return fmt.Errorf("shape: triangle needs 3 vertices, got %d", len(verts))
		}
		collider = cp.NewPolyShapeRaw(body, len(verts), verts, 0)
	}

	s.body = body
	s.collider = collider
	s.applySurface()
	return nil
}

func (s *Shape) applySurface() {
	friction := s.spec.Friction
	if s.Props[PropSticky] {
		friction = s.spec.StickyFric
	}
	s.collider.SetFriction(friction)
	s.collider.SetElasticity(s.spec.Elasticity)
	if s.Props[PropDanger] {
		s.collider.SetCollisionType(CollisionDanger)
	} else {
		s.collider.SetCollisionType(CollisionNormal)
	}
	s.collider.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, ShapeCategory, cp.ALL_CATEGORIES))
}

// vertices returns the canonical triangle scaled: base corners below the
// centroid, apex above, matching the collider the renderer rasterizes.
func (s *Shape) vertices() []cp.Vector {
	d := s.spec.DefaultSize
	base := []cp.Vector{
		{X: -d / 2, Y: d / 3},
		{X: d / 2, Y: d / 3},
		{X: 0, Y: -2 * d / 3},
	}
	out := make([]cp.Vector, len(base))
	for i, v := range base {
		out[i] = v.Mult(s.scale)
	}
	return out
}

func (s *Shape) attach(space *cp.Space) {
	space.AddBody(s.body)
	space.AddShape(s.collider)
}

func (s *Shape) detach(space *cp.Space) {
	space.RemoveShape(s.collider)
	space.RemoveBody(s.body)
}

func (s *Shape) color() color.NRGBA {
	switch {
	case s.Props[PropDanger]:
		return s.spec.DangerColor.NRGBA(color.NRGBA{R: 255, G: 100, B: 0, A: 255})
	case s.Props[PropSticky]:
		return s.spec.StickyColor.NRGBA(color.NRGBA{R: 139, G: 69, B: 19, A: 255})
	case s.Props[PropSpinning]:
		return s.spec.SpinColor.NRGBA(color.NRGBA{R: 255, G: 105, B: 180, A: 255})
	}
	return s.spec.BaseColor.NRGBA(color.NRGBA{R: 50, G: 50, B: 255, A: 255})
}

// InvalidateImage drops the cached fill so the next draw picks up palette
// or geometry changes.
func (s *Shape) InvalidateImage() { s.img = nil }

// BoundingRadius circumscribes the shape regardless of angle; used for the
// selection ring and menu anchoring.
func (s *Shape) BoundingRadius() float64 {
	switch s.Kind {
	case KindRectangle:
		return math.Hypot(s.size.X, s.size.Y) / 2
	case KindCircle:
		return s.radius
	default:
		return 2 * s.spec.DefaultSize / 3 * s.scale
	}
}

// Draw renders the cached fill rotated to the body angle. Images are built
// lazily on first draw so headless callers never touch the GPU.
func (s *Shape) Draw(screen *ebiten.Image, camOffset cp.Vector) {
	if s.img == nil {
		s.img = s.buildImage()
	}
	pos := s.body.Position()
	ax, ay := s.anchor()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-ax, -ay)
	op.GeoM.Rotate(s.body.Angle())
	op.GeoM.Translate(pos.X-camOffset.X, pos.Y-camOffset.Y)
	screen.DrawImage(s.img, op)

	if s.Selected {
		ring := s.spec.RingColor.NRGBA(color.NRGBA{R: 255, G: 255, B: 0, A: 255})
		r := s.BoundingRadius() + 4
		vector.StrokeCircle(screen, float32(pos.X-camOffset.X), float32(pos.Y-camOffset.Y), float32(r), 2, ring, true)
	}
}

// anchor is the body origin inside the cached image: dead center for
// rectangles and circles, the centroid for triangles (two thirds down from
// the apex).
func (s *Shape) anchor() (float64, float64) {
	w, h := s.img.Bounds().Dx(), s.img.Bounds().Dy()
	if s.Kind == KindTriangle {
		return float64(w) / 2, float64(h) * 2 / 3
	}
	return float64(w) / 2, float64(h) / 2
}

func (s *Shape) buildImage() *ebiten.Image {
	col := s.color()
	switch s.Kind {
	case KindCircle:
		return circleImage(int(math.Ceil(s.radius*2)), col)
	case KindTriangle:
		return triangleImage(int(math.Ceil(s.spec.DefaultSize*s.scale)), col)
	default:
		img := ebiten.NewImage(maxInt(1, int(math.Ceil(s.size.X))), maxInt(1, int(math.Ceil(s.size.Y))))
		img.Fill(col)
		return img
	}
}

func circleImage(size int, col color.NRGBA) *ebiten.Image {
	if size < 2 {
		size = 2
	}
	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	cx := float64(size) / 2
	cy := float64(size) / 2
	r := float64(size) / 2
	rr := r * r
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= rr {
				rgba.Set(x, y, col)
			}
		}
	}
	return ebiten.NewImageFromImage(rgba)
}

// triangleImage fills an upward-pointing triangle, base along the bottom
// edge, spanning the full image width like the collider's canonical verts.
func triangleImage(size int, col color.NRGBA) *ebiten.Image {
	if size < 2 {
		size = 2
	}
	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	cx := float64(size) / 2
	for y := 0; y < size; y++ {
		progress := float64(y) / float64(size-1)
		rowWidth := progress * float64(size)
		left := cx - rowWidth/2
		right := cx + rowWidth/2
		for x := 0; x < size; x++ {
			fx := float64(x) + 0.5
			if fx >= left && fx <= right {
				rgba.Set(x, y, col)
			}
		}
	}
	return ebiten.NewImageFromImage(rgba)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
