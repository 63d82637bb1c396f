package obj

import (
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp/v2"
	"golang.org/x/image/colornames"

	"github.com/milk9111/playground/defs"
)

// Player is the dynamic circle driven around the placed shapes in play mode.
// The body carries infinite moment so it never rotates.
type Player struct {
	world *World
	spec  *defs.PlayerSpec
	body  *cp.Body
	shape *cp.Shape

	health          int
	invincibleTimer float64
	dead            bool

	// contact flags written by collision handlers during Step
	grounded     bool
	wasGrounded  bool
	onSticky     bool
	needsRespawn bool

	coyoteTimer     float64
	jumpBufferTimer float64
	varJumpTimer    float64
	stuckTimer      float64
	clock           float64
	facingRight     bool
}

func NewPlayer(pos cp.Vector, w *World) *Player {
	spec := w.defs.Player

	body := cp.NewBody(spec.Mass, math.Inf(1))
	body.SetPosition(pos)

	shape := cp.NewCircle(body, spec.Radius, cp.Vector{})
	shape.SetFriction(spec.Friction)
	shape.SetElasticity(spec.Elasticity)
	shape.SetCollisionType(CollisionPlayer)
	shape.SetFilter(cp.NewShapeFilter(1, uint(PlayerCategory), cp.ALL_CATEGORIES))

	w.space.AddBody(body)
	w.space.AddShape(shape)

	p := &Player{
		world:       w,
		spec:        spec,
		body:        body,
		shape:       shape,
		health:      spec.MaxHealth,
		facingRight: true,
	}
	p.registerContactHandlers()
	return p
}

// registerContactHandlers wires the ground-contact flags. Re-registering on
// a fresh player simply rebinds the pair handlers to it.
func (p *Player) registerContactHandlers() {
	for _, other := range []cp.CollisionType{CollisionNormal, CollisionDanger} {
		h := p.world.space.NewCollisionHandler(CollisionPlayer, other)
		h.UserData = p
		h.PreSolveFunc = playerContactPreSolve
	}
	danger := p.world.space.NewCollisionHandler(CollisionPlayer, CollisionDanger)
	danger.BeginFunc = playerDangerBegin
}

func playerContactPreSolve(arb *cp.Arbiter, _ *cp.Space, userData interface{}) bool {
	p, ok := userData.(*Player)
	if !ok || p == nil {
		return true
	}
	a, b := arb.Shapes()
	if a != p.shape && b != p.shape {
		return true
	}
	other := b
	n := arb.Normal()
	if b == p.shape {
		other = a
		n = n.Neg()
	}
	// standing contact only: the normal points from the player into the
	// surface, which is down the screen when the surface is below
	if n.Y <= 0.7 {
		return true
	}
	// dynamic bodies never count as ground
	if other.Body().GetType() == cp.BODY_DYNAMIC {
		return true
	}
	p.grounded = true
	if s := p.world.ShapeForCollider(other); s != nil && s.Props[PropSticky] {
		p.onSticky = true
	}
	return true
}

// playerDangerBegin applies contact damage on first touch. The contact still
// resolves so the player bounces off rather than sinking in; the respawn
// itself is deferred until the step finishes.
func playerDangerBegin(arb *cp.Arbiter, _ *cp.Space, userData interface{}) bool {
	p, ok := userData.(*Player)
	if !ok || p == nil {
		return true
	}
	a, b := arb.Shapes()
	if a != p.shape && b != p.shape {
		return true
	}
	if p.TakeDamage(1) && !p.dead {
		p.needsRespawn = true
	}
	return true
}

// ConsumeRespawn reports and clears the deferred respawn raised by a danger
// contact during the last step.
func (p *Player) ConsumeRespawn() bool {
	hit := p.needsRespawn
	p.needsRespawn = false
	return hit
}

func (p *Player) Position() cp.Vector { return p.body.Position() }
func (p *Player) Velocity() cp.Vector { return p.body.Velocity() }
func (p *Player) Radius() float64     { return p.spec.Radius }
func (p *Player) Health() int         { return p.health }
func (p *Player) MaxHealth() int      { return p.spec.MaxHealth }
func (p *Player) Dead() bool          { return p.dead }
func (p *Player) Grounded() bool      { return p.grounded }
func (p *Player) OnSticky() bool      { return p.onSticky }
func (p *Player) Invincible() bool    { return p.invincibleTimer > 0 }

// TakeDamage applies one hit unless the player is dead or still flashing
// from the last one. Reaching zero health freezes the body in place.
func (p *Player) TakeDamage(amount int) bool {
	if p.dead || p.invincibleTimer > 0 {
		return false
	}
	p.health -= amount
	p.invincibleTimer = p.spec.Invincibility
	log.Printf("player: took damage, health %d/%d", p.health, p.spec.MaxHealth)
	if p.health <= 0 {
		p.dead = true
		p.body.SetVelocity(0, 0)
		log.Println("player: health depleted")
	}
	return true
}

// Teleport moves the player and kills its momentum, keeping health and
// timers intact. Used for checkpoint respawns.
func (p *Player) Teleport(pos cp.Vector) {
	p.body.SetPosition(pos)
	p.body.SetVelocity(0, 0)
	p.body.EachShape(func(s *cp.Shape) {
		p.world.space.ReindexShape(s)
	})
}

// Reset restores the player to full health at the given position.
func (p *Player) Reset(pos cp.Vector) {
	p.Teleport(pos)
	p.health = p.spec.MaxHealth
	p.invincibleTimer = 0
	p.dead = false
	p.grounded = false
	p.wasGrounded = false
	p.onSticky = false
	p.needsRespawn = false
	p.coyoteTimer = 0
	p.jumpBufferTimer = 0
	p.varJumpTimer = 0
	p.stuckTimer = 0
	p.facingRight = true
}

// BeginStep snapshots and clears the contact flags. Call right before
// World.Step so the handlers repopulate them for the new step.
func (p *Player) BeginStep() {
	p.wasGrounded = p.grounded
	p.grounded = false
	p.onSticky = false
}

// Update applies input forces, damping and jump logic ahead of the physics
// step, using the contact flags from the previous one.
func (p *Player) Update(in Input, dt float64) {
	p.clock += dt

	if p.dead {
		p.body.SetVelocity(0, 0)
		return
	}

	if p.invincibleTimer > 0 {
		p.invincibleTimer = math.Max(0, p.invincibleTimer-dt)
	}

	if in.MoveX < 0 {
		p.facingRight = false
	} else if in.MoveX > 0 {
		p.facingRight = true
	}

	if p.grounded {
		p.coyoteTimer = p.spec.CoyoteTime
	} else {
		p.coyoteTimer = math.Max(0, p.coyoteTimer-dt)
	}
	if in.JumpPressed {
		p.jumpBufferTimer = p.spec.JumpBuffer
	} else {
		p.jumpBufferTimer = math.Max(0, p.jumpBufferTimer-dt)
	}

	p.applyMovement(in)
	p.applyJump(in)
	p.applyVariableJump(in, dt)
	p.applyStuckNudge(in, dt)
}

func (p *Player) applyMovement(in Input) {
	accel := p.spec.MoveAccel
	if p.onSticky {
		accel *= p.spec.StickyMove
	}
	if !p.grounded {
		accel *= p.spec.AirControl
	}
	p.body.ApplyForceAtLocalPoint(cp.Vector{X: in.MoveX * accel}, cp.Vector{})

	v := p.body.Velocity()
	if in.MoveX == 0 {
		damping := p.spec.AirDamping
		if p.grounded {
			damping = p.spec.GroundDamping
			if p.onSticky {
				damping = p.spec.StickyDamping
			}
		}
		p.body.SetVelocity(v.X*damping, v.Y)
	} else if math.Abs(v.X) > p.spec.MaxSpeed {
		clamped := math.Max(-p.spec.MaxSpeed, math.Min(p.spec.MaxSpeed, v.X))
		p.body.SetVelocity(clamped, v.Y)
	}
}

func (p *Player) applyJump(in Input) {
	if p.jumpBufferTimer <= 0 {
		return
	}
	if !p.grounded && p.coyoteTimer <= 0 {
		return
	}
	impulse := p.spec.JumpImpulse
	if p.onSticky {
		impulse *= p.spec.StickyJump
	}
	v := p.body.Velocity()
	p.body.SetVelocity(v.X, -impulse)
	p.jumpBufferTimer = 0
	p.coyoteTimer = 0
	p.varJumpTimer = 0
	if in.JumpHeld {
		p.varJumpTimer = p.spec.VarJumpTime
	}
}

// applyVariableJump counters part of gravity while the jump key stays held
// during the rising arc, stretching the jump without a second impulse.
func (p *Player) applyVariableJump(in Input, dt float64) {
	if p.grounded {
		p.varJumpTimer = 0
		return
	}
	if !in.JumpHeld || p.varJumpTimer <= 0 || p.body.Velocity().Y >= 0 {
		return
	}
	g := p.world.defs.World.Gravity
	if g > 0 {
		counter := -g * p.spec.Mass * (1 - p.spec.VarJumpCut)
		p.body.ApplyForceAtLocalPoint(cp.Vector{Y: counter}, cp.Vector{})
	}
	p.varJumpTimer = math.Max(0, p.varJumpTimer-dt)
}

// applyStuckNudge pops the player upward when it has been pushing into
// something without moving, usually a seam between adjacent shapes.
func (p *Player) applyStuckNudge(in Input, dt float64) {
	v := p.body.Velocity()
	slow := v.LengthSq() < p.spec.StuckSpeed*p.spec.StuckSpeed
	if slow && p.grounded && in.MoveX != 0 {
		p.stuckTimer += dt
	} else {
		p.stuckTimer = 0
		return
	}
	if p.stuckTimer >= p.spec.StuckTime {
		p.body.ApplyImpulseAtLocalPoint(cp.Vector{Y: -p.spec.NudgeImpulse}, cp.Vector{})
		p.stuckTimer = 0
	}
}

func (p *Player) detach(space *cp.Space) {
	space.RemoveShape(p.shape)
	space.RemoveBody(p.body)
}

func (p *Player) Draw(screen *ebiten.Image, camOffset cp.Vector) {
	pos := p.body.Position()
	x := float32(pos.X - camOffset.X)
	y := float32(pos.Y - camOffset.Y)
	r := float32(p.spec.Radius)

	body := p.spec.BodyColor.NRGBA(color.NRGBA{R: 220, G: 20, B: 60, A: 255})
	vector.DrawFilledCircle(screen, x, y, r, body, true)
	if p.invincibleTimer > 0 && !p.dead && int(p.clock*10)%2 == 0 {
		tint := p.spec.InvincibleTint.NRGBA(color.NRGBA{R: 255, G: 255, B: 255, A: 128})
		vector.DrawFilledCircle(screen, x, y, r, tint, true)
	}
	vector.StrokeCircle(screen, x, y, r, 2, colornames.Black, true)

	// eye dot so the facing direction reads at a glance
	eyeX := x + r/2
	if !p.facingRight {
		eyeX = x - r/2
	}
	vector.DrawFilledCircle(screen, eyeX, y-r/3, r/5, colornames.White, true)
}
