package obj

import (
	"math"

	"github.com/jakecoffman/cp/v2"

	"github.com/milk9111/playground/common"
)

// Camera maps world coordinates to screen coordinates through a top-left
// offset. Drawing code subtracts Offset() from world positions.
type Camera struct {
	offset cp.Vector

	screenW float64
	screenH float64

	// smoothing factor (0..1). higher -> faster follow.
	smooth float64
	// world bounds in pixels (0 means unbounded)
	worldW float64
	worldH float64
}

// NewCamera creates a camera with the given logical screen size.
func NewCamera(screenW, screenH int, smooth float64) *Camera {
	return &Camera{
		screenW: float64(screenW),
		screenH: float64(screenH),
		smooth:  smooth,
	}
}

// Offset returns the world coordinate mapped to the screen's top-left.
func (c *Camera) Offset() cp.Vector {
	return c.offset
}

// SetScreenSize updates the logical screen size used by the camera.
func (c *Camera) SetScreenSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.screenW = float64(w)
	c.screenH = float64(h)
	c.clampOffset()
}

// SetWorldBounds sets the world pixel dimensions for clamping the view.
func (c *Camera) SetWorldBounds(w, h float64) {
	c.worldW = w
	c.worldH = h
	c.clampOffset()
}

func (c *Camera) SetSmooth(f float64) {
	if f < 0 {
		f = 0
	}
	c.smooth = f
}

// ScreenToWorld converts a screen point to world space.
func (c *Camera) ScreenToWorld(x, y float64) cp.Vector {
	return cp.Vector{X: x + c.offset.X, Y: y + c.offset.Y}
}

// WorldToScreen converts a world point to screen space.
func (c *Camera) WorldToScreen(p cp.Vector) cp.Vector {
	return p.Sub(c.offset)
}

// Follow moves the camera toward centering the target. Call from the
// fixed-rate Update loop to get consistent smoothing.
func (c *Camera) Follow(target cp.Vector) {
	want := cp.Vector{X: target.X - c.screenW/2, Y: target.Y - c.screenH/2}
	if c.smooth <= 0 {
		c.offset = want
	} else {
		c.offset.X = common.Lerp(c.offset.X, want.X, c.smooth)
		c.offset.Y = common.Lerp(c.offset.Y, want.Y, c.smooth)
	}
	c.clampOffset()
}

// SnapTo immediately centers the camera on the given world point, applying
// the same clamping as Follow. Use after a level load or respawn.
func (c *Camera) SnapTo(target cp.Vector) {
	c.offset = cp.Vector{X: target.X - c.screenW/2, Y: target.Y - c.screenH/2}
	c.clampOffset()
}

// MoveBy shifts the camera directly, bypassing smoothing. The editor's edge
// scrolling uses this.
func (c *Camera) MoveBy(dx, dy float64) {
	c.offset.X += dx
	c.offset.Y += dy
	c.clampOffset()
}

func (c *Camera) clampOffset() {
	// snap to integer pixels to keep primitives crisp
	c.offset.X = math.Round(c.offset.X)
	c.offset.Y = math.Round(c.offset.Y)

	if c.worldW > 0 {
		maxX := c.worldW - c.screenW
		if maxX < 0 {
			// world smaller than view: center on world
			c.offset.X = maxX / 2
		} else {
			c.offset.X = common.Clamp(c.offset.X, 0, maxX)
		}
	}
	if c.worldH > 0 {
		maxY := c.worldH - c.screenH
		if maxY < 0 {
			c.offset.Y = maxY / 2
		} else {
			c.offset.Y = common.Clamp(c.offset.Y, 0, maxY)
		}
	}
}
