package game

type contactKind int

const (
	contactNone contactKind = iota
	contactBoundary
	contactTerrain
	contactCombatant
)

type contact struct {
	kind   contactKind
	target *Combatant
}

// detectContact runs the per-step checks in priority order: boundary exit,
// terrain, then the first living combatant within hit radius in registry order.
func (e *Engine) detectContact(p *Projectile) contact {
	if p.X < 0 || p.X > e.width || p.Y > e.height {
		return contact{kind: contactBoundary}
	}

	if p.Y >= e.terrain.HeightAt(p.X) {
		return contact{kind: contactTerrain}
	}

	for _, c := range e.combatants {
		if !c.Alive() {
			continue
		}
		// Shooter is safe until the shot clears the muzzle
		if c.ID == p.Owner && !p.armed {
			continue
		}
		if Distance(p.X, p.Y, c.X, c.Y) <= CombatantHitRadius {
			return contact{kind: contactCombatant, target: c}
		}
	}

	return contact{kind: contactNone}
}
