package game

import "testing"

func TestApplyDamage(t *testing.T) {
	tests := []struct {
		name           string
		health         int
		shield         int
		damage         int
		expectedHealth int
		expectedShield int
		expectedTotal  int
	}{
		{
			name:           "No shield",
			health:         100,
			damage:         30,
			expectedHealth: 70,
			expectedTotal:  30,
		},
		{
			name:           "Shield absorbs all",
			health:         100,
			shield:         50,
			damage:         30,
			expectedHealth: 100,
			expectedShield: 20,
			expectedTotal:  30,
		},
		{
			name:           "Shield absorbs part",
			health:         100,
			shield:         20,
			damage:         50,
			expectedHealth: 70,
			expectedTotal:  50,
		},
		{
			name:           "Overkill clamps at zero",
			health:         10,
			damage:         50,
			expectedHealth: 0,
			expectedTotal:  10,
		},
		{
			name:           "Zero damage",
			health:         100,
			shield:         50,
			damage:         0,
			expectedHealth: 100,
			expectedShield: 50,
			expectedTotal:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Combatant{Health: tt.health, Shield: tt.shield, EliminationOrder: -1}
			total := ApplyDamage(c, tt.damage)
			if c.Health != tt.expectedHealth {
				t.Errorf("health = %d, want %d", c.Health, tt.expectedHealth)
			}
			if c.Shield != tt.expectedShield {
				t.Errorf("shield = %d, want %d", c.Shield, tt.expectedShield)
			}
			if total != tt.expectedTotal {
				t.Errorf("total applied = %d, want %d", total, tt.expectedTotal)
			}
		})
	}
}

func TestFalloffDamage(t *testing.T) {
	tests := []struct {
		name     string
		dist     float64
		radius   float64
		expected int
	}{
		{"Center", 0, 30, 35},
		{"Edge", 30, 30, 10},
		{"Halfway rounds to nearest", 15, 30, 23},
		{"Beyond radius", 31, 30, 0},
		{"Zero radius", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FalloffDamage(10, 35, tt.radius, tt.dist); got != tt.expected {
				t.Errorf("FalloffDamage(10, 35, %.0f, %.0f) = %d, want %d", tt.radius, tt.dist, got, tt.expected)
			}
		})
	}
}

func TestDirectHitDamage(t *testing.T) {
	tests := []struct {
		name     string
		weapon   WeaponType
		state    ProjectileState
		expected int
	}{
		{"Missile", WeaponMissile, StateFlying, 35},
		{"Nuke", WeaponNuke, StateFlying, 75},
		{"Roller in flight", WeaponRoller, StateFlying, 45},
		{"Roller rolling", WeaponRoller, StateRolling, 68}, // 45 * 1.5 = 67.5
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Projectile{Weapon: tt.weapon, State: tt.state, Blast: weaponData[tt.weapon].Blast()}
			if got := DirectHitDamage(p); got != tt.expected {
				t.Errorf("DirectHitDamage(%s, %s) = %d, want %d", tt.weapon, tt.state, got, tt.expected)
			}
		})
	}
}

func TestExplodeCratersAndSettles(t *testing.T) {
	e := newFlatEngine(t, 2, nil)
	near := place(e, 0, 400)
	far := place(e, 1, 700)

	e.explode(400, testSurface, weaponData[WeaponMissile].Blast(), nil)

	if near.Health != MaxHealth-35 {
		t.Errorf("near health = %d, want %d", near.Health, MaxHealth-35)
	}
	if far.Health != MaxHealth {
		t.Errorf("far health = %d, want %d", far.Health, MaxHealth)
	}
	if near.Y != testSurface+CraterDepth {
		t.Errorf("near y = %.1f, want settled into crater at %.1f", near.Y, testSurface+CraterDepth)
	}
	if len(e.explosions) != 1 || e.explosions[0].MaxRadius != 30 {
		t.Errorf("explosions = %+v, want one of radius 30", e.explosions)
	}
}

func TestDirectHitSparesTargetFromFalloff(t *testing.T) {
	e := newFlatEngine(t, 3, nil)
	target := place(e, 0, 400)
	bystander := place(e, 1, 420)
	place(e, 2, 100)

	p := &Projectile{X: 400, Y: 495, Weapon: WeaponMissile, Owner: 2, Blast: weaponData[WeaponMissile].Blast()}
	e.directHit(p, target)

	if target.Health != MaxHealth-35 {
		t.Errorf("target health = %d, want %d", target.Health, MaxHealth-35)
	}
	if bystander.Health >= MaxHealth {
		t.Errorf("bystander health = %d, want splash damage", bystander.Health)
	}
}

func TestShieldAbsorbsBlast(t *testing.T) {
	e := newFlatEngine(t, 2, nil)
	c := place(e, 0, 400)
	place(e, 1, 700)
	c.Shield = ShieldStrength

	e.explode(400, testSurface, weaponData[WeaponMissile].Blast(), nil)

	if c.Health != MaxHealth {
		t.Errorf("health = %d, want %d", c.Health, MaxHealth)
	}
	if c.Shield != ShieldStrength-35 {
		t.Errorf("shield = %d, want %d", c.Shield, ShieldStrength-35)
	}
}

func TestCollectEliminationsRegistryOrder(t *testing.T) {
	e := newFlatEngine(t, 3, nil)
	e.combatant(2).Health = 0
	e.combatant(1).Health = 0

	got := e.collectEliminations()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("eliminated = %v, want [1 2]", got)
	}
	if e.combatant(1).EliminationOrder != 0 || e.combatant(2).EliminationOrder != 1 {
		t.Errorf("orders = %d, %d, want 0, 1", e.combatant(1).EliminationOrder, e.combatant(2).EliminationOrder)
	}
	if again := e.collectEliminations(); len(again) != 0 {
		t.Errorf("second pass eliminated %v, want none", again)
	}
}
