package game

import "math"

// Per-weapon behavior tuning
const (
	MIRVWarheads = 6
	MIRVSpread   = 20.0 // Degrees either side of the parent heading
	MIRVJitter   = 2.0  // Degrees of per-warhead noise

	RollerSlopeFactor = 0.5   // Fraction of gravity applied along the slope
	RollerFriction    = 40.0  // Units/s² opposing roll
	RollerStopSpeed   = 5.0   // Below this horizontal speed the roller detonates
	RollerMaxDistance = 300.0 // Cumulative roll distance cap
	RollerValleyProbe = 15.0
	RollerValleyDepth = 3.0
	RollClearance     = 1.0 // Rolling munitions ride this far above the surface

	LeapfrogWallDamping    = 0.8
	LeapfrogTerrainDamping = 0.7
	LeapfrogDeflection     = 22.5 // Degrees of randomization around straight up

	FunkyMinFragments = 5
	FunkyMaxFragments = 9
	FunkyMinSpeed     = 100.0
	FunkyMaxSpeed     = 300.0
	FunkyOffset       = 50.0
)

type outcome int

const (
	outcomeFlying outcome = iota
	outcomeExploded
	outcomeRemoved
)

// behavior is the handler for one SpecialBehavior variant. move advances the
// munition and may resolve it; contact decides what a detected contact does.
type behavior interface {
	move(e *Engine, p *Projectile, dt float64) outcome
	contact(e *Engine, p *Projectile, hit contact) outcome
}

var behaviors = map[SpecialBehavior]behavior{
	BehaviorNone:           standardBehavior{},
	BehaviorMIRVSplit:      mirvBehavior{},
	BehaviorRoller:         rollerBehavior{},
	BehaviorLeapfrogBounce: leapfrogBehavior{},
	BehaviorTracerChain:    tracerBehavior{},
	BehaviorFunkySpawn:     funkyBehavior{},
}

func behaviorFor(p *Projectile) behavior {
	if p.Mini {
		return miniBehavior{}
	}
	if stats, ok := weaponData[p.Weapon]; ok {
		if b, ok := behaviors[stats.Behavior]; ok {
			return b
		}
	}
	return standardBehavior{}
}

// advanceProjectile runs one integration step and contact check for p
func (e *Engine) advanceProjectile(p *Projectile, dt float64) outcome {
	b := behaviorFor(p)
	if o := b.move(e, p, dt); o != outcomeFlying {
		return o
	}
	p.updateArming()
	hit := e.detectContact(p)
	if hit.kind == contactNone {
		return outcomeFlying
	}
	return b.contact(e, p, hit)
}

// standardBehavior explodes on terrain or combatant contact and vanishes at the scene edge
type standardBehavior struct{}

func (standardBehavior) move(e *Engine, p *Projectile, dt float64) outcome {
	Integrate(p, e.wind, dt)
	return outcomeFlying
}

func (standardBehavior) contact(e *Engine, p *Projectile, hit contact) outcome {
	switch hit.kind {
	case contactBoundary:
		p.State = StateRemoved
		return outcomeRemoved
	case contactCombatant:
		e.directHit(p, hit.target)
	default:
		e.explode(p.X, p.Y, p.Blast, nil)
	}
	p.State = StateExploded
	return outcomeExploded
}

// miniBehavior is shared by every spawned munition; it never spawns again
type miniBehavior struct{ standardBehavior }

// mirvBehavior splits into warheads at the apex
type mirvBehavior struct{ standardBehavior }

func (mirvBehavior) move(e *Engine, p *Projectile, dt float64) outcome {
	Integrate(p, e.wind, dt)
	if p.prevVY <= 0 && p.VY > 0 {
		e.splitMIRV(p)
		p.State = StateRemoved
		return outcomeRemoved
	}
	return outcomeFlying
}

func (e *Engine) splitMIRV(p *Projectile) {
	speed := math.Hypot(p.VX, p.VY)
	heading := math.Atan2(p.VY, p.VX)
	blast := p.Blast.Scaled(1, 2, 2)
	for i := 0; i < MIRVWarheads; i++ {
		spread := -MIRVSpread + 2*MIRVSpread*float64(i)/float64(MIRVWarheads-1)
		jitter := (e.rng.Float64()*2 - 1) * MIRVJitter
		dir := heading + (spread+jitter)*math.Pi/180
		s := speed * (0.8 + 0.4*e.rng.Float64())
		e.spawnMini(p, p.X, p.Y, s*math.Cos(dir), s*math.Sin(dir), blast)
	}
	e.debugf("MIRV split at (%.0f,%.0f) into %d warheads", p.X, p.Y, MIRVWarheads)
}

// rollerBehavior lands, then rolls along the surface until it stops
type rollerBehavior struct{}

func (rollerBehavior) move(e *Engine, p *Projectile, dt float64) outcome {
	if p.State != StateRolling {
		Integrate(p, e.wind, dt)
		return outcomeFlying
	}

	slope := e.terrain.SlopeAt(p.X)
	p.VX += Gravity * RollerSlopeFactor * slope * dt
	friction := RollerFriction * dt
	if math.Abs(p.VX) <= friction {
		p.VX = 0
	} else {
		p.VX -= sign(p.VX) * friction
	}

	p.trail.Push(Point{X: p.X, Y: p.Y})
	dx := p.VX * dt
	p.X += dx
	p.RollDistance += math.Abs(dx)

	if p.X < 0 || p.X > e.width {
		p.X = clamp(p.X, 0, e.width)
		p.Y = e.terrain.HeightAt(p.X)
		return e.detonate(p)
	}

	surface := e.terrain.HeightAt(p.X)
	p.Y = surface - RollClearance

	if math.Abs(p.VX) < RollerStopSpeed ||
		p.RollDistance >= RollerMaxDistance ||
		e.terrain.IsValley(p.X, RollerValleyProbe, RollerValleyDepth) {
		p.Y = surface
		return e.detonate(p)
	}
	return outcomeFlying
}

func (rollerBehavior) contact(e *Engine, p *Projectile, hit contact) outcome {
	if hit.kind == contactTerrain && p.State == StateFlying {
		p.State = StateRolling
		p.Y = e.terrain.HeightAt(p.X) - RollClearance
		p.VY = 0
		e.debugf("roller landed at %.0f, vx %.1f", p.X, p.VX)
		return outcomeFlying
	}
	if hit.kind == contactTerrain {
		// Rolling over a freshly carved edge; stay on the surface
		p.Y = e.terrain.HeightAt(p.X) - RollClearance
		return outcomeFlying
	}
	return standardBehavior{}.contact(e, p, hit)
}

func (e *Engine) detonate(p *Projectile) outcome {
	e.explode(p.X, p.Y, p.Blast, nil)
	p.State = StateExploded
	return outcomeExploded
}

// leapfrogBehavior bounces off terrain and walls with small blasts, then
// finishes with an amplified one
type leapfrogBehavior struct{ standardBehavior }

func (leapfrogBehavior) contact(e *Engine, p *Projectile, hit contact) outcome {
	if hit.kind == contactCombatant || p.Bounces >= p.MaxBounces {
		return standardBehavior{}.contact(e, p, hit)
	}

	reduced := p.Blast.Scaled(1, 2, 0.5)

	if hit.kind == contactBoundary {
		if p.X < 0 || p.X > e.width {
			p.VX = -p.VX * LeapfrogWallDamping
			p.VY *= LeapfrogWallDamping
			p.X = clamp(p.X, 0, e.width)
		} else {
			p.VY = -p.VY * LeapfrogWallDamping
			p.VX *= LeapfrogWallDamping
			p.Y = e.height
		}
		e.explode(p.X, p.Y, reduced, nil)
	} else {
		e.explode(p.X, p.Y, reduced, nil)
		speed := math.Hypot(p.VX, p.VY) * LeapfrogTerrainDamping
		deg := 90 + (e.rng.Float64()*2-1)*LeapfrogDeflection
		rad := deg * math.Pi / 180
		p.VX = speed * math.Cos(rad)
		p.VY = -speed * math.Sin(rad)
		p.Y = e.terrain.HeightAt(p.X) - RollClearance
	}

	p.Bounces++
	e.debugf("leapfrog bounce %d/%d at (%.0f,%.0f)", p.Bounces, p.MaxBounces, p.X, p.Y)

	if p.Bounces >= p.MaxBounces {
		e.explode(p.X, p.Y, p.Blast.Scaled(2, 1, 2), nil)
		p.State = StateExploded
		return outcomeExploded
	}
	return outcomeFlying
}

// tracerBehavior never explodes; any contact removes it and keeps its path
type tracerBehavior struct{ standardBehavior }

func (tracerBehavior) contact(e *Engine, p *Projectile, hit contact) outcome {
	path := p.trail.Points()
	path = append(path, Point{X: p.X, Y: p.Y})
	e.tracerPaths = append(e.tracerPaths, path)
	p.State = StateRemoved
	return outcomeRemoved
}

// funkyBehavior scatters fragments after its terminal explosion
type funkyBehavior struct{ standardBehavior }

func (funkyBehavior) contact(e *Engine, p *Projectile, hit contact) outcome {
	o := standardBehavior{}.contact(e, p, hit)
	if o == outcomeExploded {
		e.spawnFunky(p)
	}
	return o
}

func (e *Engine) spawnFunky(p *Projectile) {
	n := FunkyMinFragments + e.rng.Intn(FunkyMaxFragments-FunkyMinFragments+1)
	blast := p.Blast.Scaled(1, 3, 1)
	for i := 0; i < n; i++ {
		dir := math.Pi * e.rng.Float64() // Upper half plane
		speed := FunkyMinSpeed + e.rng.Float64()*(FunkyMaxSpeed-FunkyMinSpeed)
		x := p.X + FunkyOffset*math.Cos(dir)
		y := p.Y - FunkyOffset*math.Sin(dir)
		e.spawnMini(p, x, y, speed*math.Cos(dir), -speed*math.Sin(dir), blast)
	}
	e.debugf("funky bomb at (%.0f,%.0f) spawned %d fragments", p.X, p.Y, n)
}

// spawnMini queues a mini-munition; it joins the active set after the current pass
func (e *Engine) spawnMini(parent *Projectile, x, y, vx, vy float64, blast Blast) {
	stats := weaponData[parent.Weapon]
	e.spawned = append(e.spawned, &Projectile{
		X:       x,
		Y:       y,
		VX:      vx,
		VY:      vy,
		Weapon:  parent.Weapon,
		Owner:   parent.Owner,
		Blast:   blast,
		State:   StateFlying,
		Mini:    true,
		launchX: x,
		launchY: y,
		armed:   true,
		prevVY:  vy,
		trail:   newTrail(stats.MaxTrail),
	})
}
