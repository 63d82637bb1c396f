package obj

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input holds the per-frame movement state. Poll fills it from the
// keyboard; tests populate the fields directly.
type Input struct {
	// MoveX is -1 for left, 0 for none, +1 for right.
	MoveX float64
	// JumpPressed is true only on the frame the jump key went down.
	JumpPressed bool
	// JumpHeld is true while the jump key stays down.
	JumpHeld bool
}

// Poll reads the keyboard for the current frame.
func (i *Input) Poll() {
	i.MoveX = 0
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		i.MoveX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		i.MoveX++
	}
	i.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	i.JumpHeld = ebiten.IsKeyPressed(ebiten.KeySpace)
}
