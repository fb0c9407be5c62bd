package game

import "math"

// aimSpread is the maximum random error a controller adds to its baseline aim
type aimSpread struct {
	angle float64
	power float64
}

var aimSpreads = map[Difficulty]aimSpread{
	Easy:   {angle: 15, power: 20},
	Medium: {angle: 7, power: 9},
	Hard:   {angle: 2, power: 3},
}

// Aim computes a shot for shooter at its nearest living opponent. The
// baseline is a 45° lob with the flat-ground power for the horizontal
// distance, then perturbed by the controller's spread. target is nil when
// no opponent is alive.
func (e *Engine) Aim(shooter *Combatant) (angle, power float64, target *Combatant) {
	target = e.nearestOpponent(shooter)
	if target == nil {
		return shooter.Angle, shooter.Power, nil
	}

	dx := target.X - shooter.X
	angle = 45.0
	if dx < 0 {
		angle = 135.0
	}
	power = PowerForRange(45, math.Abs(dx))

	if s, ok := aimSpreads[shooter.Difficulty]; ok {
		angle += (e.rng.Float64()*2 - 1) * s.angle
		power += (e.rng.Float64()*2 - 1) * s.power
	}
	return ClampAngle(angle), ClampPower(power), target
}

func (e *Engine) nearestOpponent(shooter *Combatant) *Combatant {
	var best *Combatant
	bestDist := math.MaxFloat64
	for _, c := range e.combatants {
		if c.ID == shooter.ID || !c.Alive() {
			continue
		}
		if d := math.Abs(c.X - shooter.X); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// chooseWeapon picks what an AI controller fires. Hard uses its strongest
// owned weapon, Medium any owned weapon at random, Easy the basic missile.
func (e *Engine) chooseWeapon(c *Combatant) WeaponType {
	var owned []WeaponType
	for _, w := range Weapons() {
		if w == WeaponTracer || !c.HasAmmo(w) {
			continue
		}
		owned = append(owned, w)
	}
	if len(owned) == 0 {
		return WeaponMissile
	}

	switch c.Difficulty {
	case Hard:
		best := owned[0]
		for _, w := range owned[1:] {
			if weaponData[w].MaxDamage > weaponData[best].MaxDamage {
				best = w
			}
		}
		return best
	case Medium:
		return owned[e.rng.Intn(len(owned))]
	default:
		return WeaponMissile
	}
}

// takeAIShot selects a weapon, aims and fires for an AI-controlled combatant
func (e *Engine) takeAIShot(c *Combatant) {
	c.Weapon = e.chooseWeapon(c)
	angle, power, target := e.Aim(c)
	if target != nil {
		e.debugf("%s targets %s with %s (%.1f°, %.1f)", c.Name, target.Name, c.Weapon, angle, power)
	}
	if e.Fire(angle, power) {
		return
	}
	c.Weapon = WeaponMissile
	if !e.Fire(angle, power) {
		e.debugf("%s could not fire", c.Name)
	}
}
