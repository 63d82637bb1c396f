package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp/v2"
)

// playingMode runs the live simulation over the same world the editor
// mutates. Entering turns gravity on and (re)spawns the player; returning to
// the editor freezes everything again.
type playingMode struct{}

func (m *playingMode) name() string { return "playing" }

func (m *playingMode) enter(g *Game) {
	g.world.SetGravity(cp.Vector{Y: g.defs.World.Gravity})

	// the previous run's checkpoint decides the spawn, then the slate clears
	spawn := g.world.SpawnPosition()
	if p := g.world.Player(); p == nil {
		g.world.AddPlayer(spawn)
	} else {
		p.Reset(spawn)
	}
	g.world.ClearLastActivated()
	g.camera.SnapTo(spawn)
}

func (m *playingMode) exit(g *Game) {}

func (m *playingMode) update(g *Game) error {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.setMode(modeEditor)
		return nil
	}

	p := g.world.Player()
	if p == nil {
		g.setMode(modeEditor)
		return nil
	}

	g.input.Poll()
	p.Update(*g.input, frameDT)
	p.BeginStep()
	g.world.Step(frameDT)

	// a danger contact during the step teleports the survivor back to the
	// spawn point without touching health or timers
	if p.ConsumeRespawn() {
		spawn := g.world.SpawnPosition()
		p.Teleport(spawn)
		g.camera.SnapTo(spawn)
	}

	switch {
	case p.Dead():
		g.setMode(modeGameOver)
	case g.world.CheckFall():
		g.setMode(modeGameOver)
	case g.world.CheckWin():
		g.setMode(modeWin)
	default:
		g.camera.Follow(p.Position())
		g.world.UpdateCheckpoints()
	}
	return nil
}

func (m *playingMode) draw(g *Game, screen *ebiten.Image) {
	screen.Fill(playingFill)
	g.world.Draw(screen, g.camera.Offset())
	drawHUD(screen, g.world.Player())
}
