package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp/v2"
)

const (
	menuRadius       = 60.0
	menuButtonRadius = 20.0
)

var (
	menuButtonFill   = color.NRGBA{R: 80, G: 80, B: 120, A: 255}
	menuButtonHover  = color.NRGBA{R: 110, G: 110, B: 160, A: 255}
	menuButtonBorder = color.NRGBA{R: 200, G: 200, B: 255, A: 255}
)

type menuAction int

const (
	menuNone menuAction = iota
	menuToggleDanger
	menuToggleSpinning
	menuToggleSticky
	menuDelete
)

// menuButton is one option ring entry at a fixed angle around the center;
// 0 degrees points right, 90 points down the screen.
type menuButton struct {
	label  string
	action menuAction
	angle  float64
}

// RadialMenu is the circular context menu anchored on the selected shape.
// It lives entirely in screen space so the camera can move underneath it.
type RadialMenu struct {
	visible bool
	center  cp.Vector
	hovered int

	buttons []menuButton
}

func NewRadialMenu() *RadialMenu {
	return &RadialMenu{
		hovered: -1,
		buttons: []menuButton{
			{label: "D", action: menuToggleDanger, angle: 270},
			{label: "S", action: menuToggleSpinning, angle: 0},
			{label: "T", action: menuToggleSticky, angle: 90},
			{label: "X", action: menuDelete, angle: 180},
		},
	}
}

func (m *RadialMenu) Show(center cp.Vector) {
	m.visible = true
	m.center = center
	m.hovered = -1
}

func (m *RadialMenu) Hide() {
	m.visible = false
	m.hovered = -1
}

func (m *RadialMenu) Visible() bool { return m.visible }

func (m *RadialMenu) buttonPos(b menuButton) cp.Vector {
	rad := b.angle * math.Pi / 180
	return cp.Vector{
		X: m.center.X + menuRadius*math.Cos(rad),
		Y: m.center.Y + menuRadius*math.Sin(rad),
	}
}

// HandlePress routes a screen-space press. A press on a button returns its
// action and consumes the event; any other press hides the menu but stays
// unconsumed so the editor routes it normally. The menu hides either way.
func (m *RadialMenu) HandlePress(p cp.Vector) (menuAction, bool) {
	if !m.visible {
		return menuNone, false
	}
	for _, b := range m.buttons {
		if m.buttonPos(b).Distance(p) <= menuButtonRadius {
			m.Hide()
			return b.action, true
		}
	}
	m.Hide()
	return menuNone, false
}

func (m *RadialMenu) UpdateHover(p cp.Vector) {
	m.hovered = -1
	if !m.visible {
		return
	}
	for i, b := range m.buttons {
		if m.buttonPos(b).Distance(p) <= menuButtonRadius {
			m.hovered = i
			return
		}
	}
}

func (m *RadialMenu) Draw(screen *ebiten.Image) {
	if !m.visible {
		return
	}
	for i, b := range m.buttons {
		pos := m.buttonPos(b)
		fill := menuButtonFill
		if i == m.hovered {
			fill = menuButtonHover
		}
		x, y := float32(pos.X), float32(pos.Y)
		vector.DrawFilledCircle(screen, x, y, menuButtonRadius, fill, true)
		vector.StrokeCircle(screen, x, y, menuButtonRadius, 2, menuButtonBorder, true)
		ebitenutil.DebugPrintAt(screen, b.label, int(pos.X)-3, int(pos.Y)-8)
	}
}
