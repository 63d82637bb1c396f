package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/playground/defs"
	"github.com/milk9111/playground/levels"
	"github.com/milk9111/playground/obj"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// fixed simulation timestep; ebiten ticks at 60 TPS
	frameDT = 1.0 / 60.0
)

var (
	editorFill  = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	playingFill = color.NRGBA{R: 100, G: 100, B: 120, A: 255}
)

// gameMode is one top-level screen of the app. Modes are package-level
// singletons; everything they mutate lives on Game.
type gameMode interface {
	enter(g *Game)
	exit(g *Game)
	update(g *Game) error
	draw(g *Game, screen *ebiten.Image)
	name() string
}

var (
	modeEditor   gameMode = &editorMode{}
	modePlaying  gameMode = &playingMode{}
	modeGameOver gameMode = &endMode{
		id:      "game over",
		caption: "Game Over",
		overlay: color.NRGBA{R: 80, G: 0, B: 0, A: 190},
	}
	modeWin gameMode = &endMode{
		id:      "win",
		caption: "You Win!",
		overlay: color.NRGBA{R: 50, G: 50, B: 50, A: 180},
	}
)

type Game struct {
	frames int
	debug  bool

	defs   *defs.Defs
	world  *obj.World
	camera *obj.Camera
	input  *obj.Input

	editor *Editor
	mode   gameMode

	levelPath string
	watcher   *defs.Watcher
}

func NewGame(d *defs.Defs, levelPath string, debug bool) *Game {
	camera := obj.NewCamera(baseWidth, baseHeight, d.World.CameraSmoothing)
	camera.SetWorldBounds(d.World.Width, d.World.Height)

	g := &Game{
		defs:      d,
		world:     obj.NewWorld(d),
		camera:    camera,
		input:     &obj.Input{},
		levelPath: levelPath,
		debug:     debug,
	}
	g.editor = NewEditor(g.world, camera, levelPath)
	g.loadStartLevel()
	g.setMode(modeEditor)
	return g
}

// loadStartLevel prefers the level file on disk and falls back to the
// embedded demo so a fresh checkout opens with something to play with.
func (g *Game) loadStartLevel() {
	err := g.world.LoadFile(g.levelPath)
	if err == nil {
		return
	}
	log.Printf("game: %v, falling back to embedded demo", err)

	data, demoErr := levels.Demo()
	if demoErr != nil {
		log.Printf("game: embedded demo: %v", demoErr)
		return
	}
	if demoErr := g.world.Load(data); demoErr != nil {
		log.Printf("game: embedded demo: %v", demoErr)
	}
}

func (g *Game) setMode(m gameMode) {
	if g.mode != nil {
		g.mode.exit(g)
	}
	g.mode = m
	m.enter(g)
	log.Printf("game: entered %s mode", m.name())
}

func (g *Game) Update() error {
	g.frames++
	g.pollDefsWatcher()
	return g.mode.update(g)
}

// pollDefsWatcher drains pending definition-file changes on the game loop so
// reloads never race the frame reading them.
func (g *Game) pollDefsWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.defs.Reload(name); err != nil {
				log.Printf("game: reload %s: %v", name, err)
				continue
			}
			g.world.InvalidateImages()
			g.camera.SetSmooth(g.defs.World.CameraSmoothing)
			log.Printf("game: reloaded %s", name)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("game: defs watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.mode.draw(g, screen)
	if g.debug {
		g.world.DebugDraw(screen, g.camera.Offset())
		msg := fmt.Sprintf("FPS: %.2f    TPS: %.2f    Mode: %s", ebiten.ActualFPS(), ebiten.ActualTPS(), g.mode.name())
		ebitenutil.DebugPrintAt(screen, msg, 4, toolbarHeight+4)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// endMode is the shared frozen-world screen behind both the win and the game
// over overlays.
type endMode struct {
	id      string
	caption string
	overlay color.NRGBA
}

func (m *endMode) name() string  { return m.id }
func (m *endMode) enter(g *Game) {}
func (m *endMode) exit(g *Game)  {}

func (m *endMode) update(g *Game) error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.setMode(modeEditor)
	}
	return nil
}

func (m *endMode) draw(g *Game, screen *ebiten.Image) {
	screen.Fill(playingFill)
	g.world.Draw(screen, g.camera.Offset())
	drawEndOverlay(screen, m.overlay, m.caption)
}
