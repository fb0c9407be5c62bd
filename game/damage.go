package game

import "math"

// RollerHitMultiplier scales direct-hit damage dealt by a rolling Roller
const RollerHitMultiplier = 1.5

// ApplyDamage applies damage to the active shield first, then health.
// Health never drops below zero. Returns the total amount actually absorbed.
func ApplyDamage(c *Combatant, damage int) int {
	if c == nil || damage <= 0 {
		return 0
	}

	totalApplied := 0

	// Shield soaks damage until depleted
	if c.Shield > 0 {
		shieldDamage := min(damage, c.Shield)
		c.Shield -= shieldDamage
		damage -= shieldDamage
		totalApplied += shieldDamage
	}

	// Remaining damage goes to health
	if damage > 0 {
		healthDamage := min(damage, c.Health)
		c.Health -= healthDamage
		totalApplied += healthDamage
	}

	return totalApplied
}

// FalloffDamage interpolates linearly from maxDamage at distance 0 to
// minDamage at distance == radius. Beyond radius the damage is 0.
func FalloffDamage(minDamage, maxDamage int, radius, dist float64) int {
	if radius <= 0 || math.IsNaN(dist) || dist > radius {
		return 0
	}
	if dist <= 0 {
		return maxDamage
	}
	f := dist / radius
	return int(math.Round(float64(maxDamage) - float64(maxDamage-minDamage)*f))
}

// DirectHitDamage is the damage a munition deals on combatant contact.
// A rolling Roller scales the float result and rounds to nearest.
func DirectHitDamage(p *Projectile) int {
	if p.State == StateRolling {
		return int(math.Round(float64(p.Blast.MaxDamage) * RollerHitMultiplier))
	}
	return p.Blast.MaxDamage
}

// explode creates an explosion at (x, y): carves the crater, damages every
// living combatant in range except the one already hit directly, and settles
// combatants onto the new surface.
func (e *Engine) explode(x, y float64, blast Blast, direct *Combatant) {
	e.explosions = append(e.explosions, &Explosion{X: x, Y: y, MaxRadius: blast.Radius})
	e.terrain.Deform(x, y, blast.Radius)

	for _, c := range e.combatants {
		if c == direct || !c.Alive() {
			continue
		}
		dist := Distance(x, y, c.X, c.Y)
		damage := FalloffDamage(blast.MinDamage, blast.MaxDamage, blast.Radius, dist)
		if damage > 0 {
			dealt := ApplyDamage(c, damage)
			e.debugf("blast at (%.0f,%.0f) hit %s for %d at %.1f", x, y, c.Name, dealt, dist)
		}
	}

	e.settleCombatants()
}

// directHit resolves a combatant-contact hit: full damage to the target, then
// the impact explosion for everyone else.
func (e *Engine) directHit(p *Projectile, target *Combatant) {
	dealt := ApplyDamage(target, DirectHitDamage(p))
	e.debugf("direct hit on %s by %s for %d", target.Name, p.Weapon, dealt)
	e.explode(p.X, p.Y, p.Blast, target)
}

func (e *Engine) settleCombatants() {
	for _, c := range e.combatants {
		c.Y = e.terrain.HeightAt(c.X)
	}
}

// collectEliminations assigns elimination order to combatants that reached
// zero health during the last pass, in registry order.
func (e *Engine) collectEliminations() []CombatantID {
	var out []CombatantID
	for _, c := range e.combatants {
		if c.Health <= 0 && c.EliminationOrder < 0 {
			out = append(out, c.ID)
		}
	}
	for _, id := range out {
		c := e.combatant(id)
		c.EliminationOrder = e.nextElimination
		c.Shield = 0
		e.nextElimination++
		e.debugf("%s eliminated (order %d)", c.Name, c.EliminationOrder)
	}
	return out
}
