package obj

import (
	"testing"

	"github.com/jakecoffman/cp/v2"
)

func TestPlayerDamageAndInvincibility(t *testing.T) {
	w := testWorld(t)
	p := w.AddPlayer(cp.Vector{X: 500, Y: 500})

	if !p.TakeDamage(1) {
		t.Fatal("first hit should land")
	}
	if p.Health() != p.MaxHealth()-1 {
		t.Fatalf("health = %d, want %d", p.Health(), p.MaxHealth()-1)
	}
	if p.TakeDamage(1) {
		t.Fatal("hit should be ignored during the invincibility window")
	}

	// run the timer out, then the next hit lands again
	for i := 0; i < 70; i++ {
		p.Update(Input{}, 1.0/60.0)
	}
	if !p.TakeDamage(1) {
		t.Fatal("hit after the invincibility window should land")
	}
}

func TestPlayerDeathAtZeroHealth(t *testing.T) {
	w := testWorld(t)
	p := w.AddPlayer(cp.Vector{X: 500, Y: 500})

	for p.Health() > 0 {
		p.TakeDamage(1)
		for i := 0; i < 70; i++ {
			p.Update(Input{}, 1.0/60.0)
		}
	}
	if !p.Dead() {
		t.Fatal("player should be dead at zero health")
	}
	if p.TakeDamage(1) {
		t.Fatal("a dead player cannot take more damage")
	}
}

func TestPlayerResetRestoresFullState(t *testing.T) {
	w := testWorld(t)
	p := w.AddPlayer(cp.Vector{X: 500, Y: 500})
	for p.Health() > 0 {
		p.TakeDamage(1)
		for i := 0; i < 70; i++ {
			p.Update(Input{}, 1.0/60.0)
		}
	}

	spawn := cp.Vector{X: 200, Y: 300}
	p.Reset(spawn)
	if p.Dead() {
		t.Fatal("reset player still dead")
	}
	if p.Health() != p.MaxHealth() {
		t.Fatalf("health = %d, want %d", p.Health(), p.MaxHealth())
	}
	if p.Position() != spawn {
		t.Fatalf("position = %v, want %v", p.Position(), spawn)
	}
}

func TestWinAndFallConditions(t *testing.T) {
	w := testWorld(t)
	if w.CheckWin() || w.CheckFall() {
		t.Fatal("world without a player reports win or fall")
	}

	p := w.AddPlayer(cp.Vector{X: 500, Y: 500})
	end := cp.Vector{X: 510, Y: 500}
	w.SetMarker(MarkerEnd, &end)
	if !w.CheckWin() {
		t.Fatal("player within reach of the end marker should win")
	}

	p.Teleport(cp.Vector{X: 500, Y: w.Height() + 10*p.Radius()})
	if !w.CheckFall() {
		t.Fatal("player far below the map should count as fallen")
	}
}

func TestConsumeRespawnClearsFlag(t *testing.T) {
	w := testWorld(t)
	p := w.AddPlayer(cp.Vector{X: 500, Y: 500})
	if p.ConsumeRespawn() {
		t.Fatal("fresh player has no pending respawn")
	}
	p.needsRespawn = true
	if !p.ConsumeRespawn() {
		t.Fatal("pending respawn not reported")
	}
	if p.ConsumeRespawn() {
		t.Fatal("respawn flag not cleared after consumption")
	}
}
