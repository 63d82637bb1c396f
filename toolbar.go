package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/playground/obj"
)

// toolbarHeight is the strip across the top of the editor; map clicks start
// below it.
const toolbarHeight = 60

// Tool is the editor's active placement or manipulation mode, one per
// toolbar button.
type Tool int

const (
	ToolSelect Tool = iota
	ToolRectangle
	ToolCircle
	ToolTriangle
	ToolStart
	ToolEnd
	ToolCheckpoint
)

var toolNames = []string{"Select", "Rectangle", "Circle", "Triangle", "Start", "End", "Checkpoint"}

func (t Tool) String() string {
	if int(t) >= 0 && int(t) < len(toolNames) {
		return toolNames[t]
	}
	return "Unknown"
}

// shapeKind maps a placement tool to the shape kind it stamps.
func (t Tool) shapeKind() (obj.ShapeKind, bool) {
	switch t {
	case ToolRectangle:
		return obj.KindRectangle, true
	case ToolCircle:
		return obj.KindCircle, true
	case ToolTriangle:
		return obj.KindTriangle, true
	}
	return "", false
}

func (t Tool) markerKind() (obj.MarkerKind, bool) {
	switch t {
	case ToolStart:
		return obj.MarkerStart, true
	case ToolEnd:
		return obj.MarkerEnd, true
	}
	return "", false
}

// Toolbar is the ebitenui tool strip. It owns its own UI tree; the editor
// only talks to it through the selection callback and SetActive.
type Toolbar struct {
	ui      *ebitenui.UI
	group   *widget.RadioGroup
	buttons []*widget.Button
}

func newToolbar(onToolSelected func(Tool), initialTool Tool) *Toolbar {
	ui := &ebitenui.UI{}
	face := fontFace(14)
	ui.PrimaryTheme = newUITheme(&face)

	buttonTextColor := &widget.ButtonTextColor{
		Idle:     color.Black,
		Hover:    color.Black,
		Pressed:  color.RGBA{0, 0, 200, 255},
		Disabled: color.Gray{Y: 128},
	}

	strip := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(baseWidth, toolbarHeight),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(10),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{50, 50, 50, 255})),
	)

	var buttons []*widget.Button
	for _, name := range toolNames {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(ui.PrimaryTheme.ButtonTheme.Image),
			widget.ButtonOpts.Text(name, &face, buttonTextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(100, 40),
			),
		)
		buttons = append(buttons, btn)
		strip.AddChild(btn)
	}

	elements := make([]widget.RadioGroupElement, 0, len(buttons))
	for _, b := range buttons {
		elements = append(elements, b)
	}
	group := widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if onToolSelected == nil {
				return
			}
			for idx, b := range buttons {
				if args.Active == b {
					onToolSelected(Tool(idx))
					return
				}
			}
		}),
	)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	strip.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
		StretchHorizontal:  true,
	}
	root.AddChild(strip)
	ui.Container = root

	t := &Toolbar{ui: ui, group: group, buttons: buttons}
	t.SetActive(initialTool)
	return t
}

// SetActive syncs the pressed toggle with the editor's tool, e.g. after
// clicking a shape snapped the tool back to Select.
func (t *Toolbar) SetActive(tool Tool) {
	if idx := int(tool); idx >= 0 && idx < len(t.buttons) {
		t.group.SetActive(t.buttons[idx])
	}
}

func (t *Toolbar) Update() {
	t.ui.Update()
}

func (t *Toolbar) Draw(screen *ebiten.Image) {
	t.ui.Draw(screen)
}
