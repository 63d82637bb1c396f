package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/playground/obj"
)

const (
	heartRadius  = 10.0
	heartSpacing = 28.0
	hudX         = 15.0
	hudY         = 75.0
)

// drawHUD paints the health row. Lost hearts stay as outlines so the total
// is always readable.
func drawHUD(screen *ebiten.Image, p *obj.Player) {
	if p == nil {
		return
	}
	for i := 0; i < p.MaxHealth(); i++ {
		x := float32(hudX + float64(i)*heartSpacing)
		y := float32(hudY)
		if i < p.Health() {
			vector.DrawFilledCircle(screen, x, y, heartRadius, colornames.Crimson, true)
		}
		vector.StrokeCircle(screen, x, y, heartRadius, 2, colornames.Black, true)
	}
}

// drawEndOverlay dims the frozen world and centers the verdict over it.
func drawEndOverlay(screen *ebiten.Image, overlay color.NRGBA, caption string) {
	w := screen.Bounds().Dx()
	h := screen.Bounds().Dy()
	vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), overlay, false)

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(w)/2, float64(h)/2-30)
	op.ColorScale.ScaleWithColor(color.White)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(screen, caption, fontFace(64), op)

	hint := &text.DrawOptions{}
	hint.GeoM.Translate(float64(w)/2, float64(h)/2+40)
	hint.ColorScale.ScaleWithColor(color.White)
	hint.PrimaryAlign = text.AlignCenter
	hint.SecondaryAlign = text.AlignCenter
	text.Draw(screen, "Press Enter to return to Editor", fontFace(20), hint)
}
