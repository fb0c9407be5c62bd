package game

import "testing"

const (
	testWidth   = 800.0
	testHeight  = 600.0
	testSurface = 500.0
	testFrame   = 1.0 / 60
)

// newFlatEngine starts a match on level ground at testSurface with no wind
func newFlatEngine(t *testing.T, count int, difficulties []Difficulty, extra ...Option) *Engine {
	t.Helper()
	opts := []Option{
		WithSeed(42),
		WithWind(0),
		WithTerrain(NewFlatTerrain(testWidth, testHeight, testSurface)),
	}
	opts = append(opts, extra...)
	e := NewEngine(opts...)
	if err := e.NewMatch(count, difficulties, 3); err != nil {
		t.Fatalf("NewMatch(%d) failed: %v", count, err)
	}
	return e
}

// place moves a combatant onto the surface at x
func place(e *Engine, id CombatantID, x float64) *Combatant {
	c := e.combatant(id)
	c.X = x
	c.Y = e.terrain.HeightAt(x)
	return c
}

// stepUntilEvent steps frames until Step reports something other than EventNone
func stepUntilEvent(t *testing.T, e *Engine, maxFrames int) TurnEvent {
	t.Helper()
	for i := 0; i < maxFrames; i++ {
		if ev := e.Step(testFrame); ev.Kind != EventNone {
			return ev
		}
	}
	t.Fatalf("no turn event after %d frames (phase %s)", maxFrames, e.phase)
	return TurnEvent{}
}

// armedShot puts a primary munition of w in flight at (x, y) moving (vx, vy)
func armedShot(e *Engine, w WeaponType, owner CombatantID, x, y, vx, vy float64) *Projectile {
	stats := weaponData[w]
	p := &Projectile{
		X:          x,
		Y:          y,
		VX:         vx,
		VY:         vy,
		Weapon:     w,
		Owner:      owner,
		Blast:      stats.Blast(),
		State:      StateFlying,
		MaxBounces: stats.MaxBounces,
		armed:      true,
		prevVY:     vy,
		trail:      newTrail(stats.MaxTrail),
	}
	e.projectile = p
	e.lastBehavior = stats.Behavior
	e.phase = PhaseInFlight
	return p
}
