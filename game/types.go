package game

import (
	"fmt"
	"math"
)

// Scene and physics constants
const (
	// Gravity is 9.8 m/s² scaled to scene units (30 units per meter)
	Gravity = 9.8 * 30

	// PowerScale converts aiming power (0-100) to launch speed in units per second
	PowerScale = 8.5

	MinAngle = 0.0
	MaxAngle = 180.0
	MinPower = 0.0
	MaxPower = 100.0

	// MaxWind bounds the per-turn horizontal acceleration
	MaxWind = 40.0

	// MaxSubstep is the longest integration step; Step subdivides longer deltas
	MaxSubstep = 1.0 / 120

	DefaultWidth  = 800
	DefaultHeight = 600

	// Combatant geometry
	CombatantHitRadius = 15.0
	MuzzleOffset       = 12.0 // Projectiles launch this far above the combatant
	ArmingDistance     = 30.0 // Shooter is immune to its own shot until it travels this far

	MaxHealth = 100

	// Shields
	ShieldStrength = 50

	// Explosion animation window in seconds
	ExplosionDuration = 0.5

	// TracerPathLimit caps a tracer trail within a single turn
	TracerPathLimit = 4096
)

// Placement awards
const (
	PlacementAward = 1000
)

// CombatantID is a stable identifier assigned at match start
type CombatantID int

// NoCombatant marks the absence of a combatant
const NoCombatant CombatantID = -1

// Difficulty selects who controls a combatant
type Difficulty int

const (
	Human Difficulty = iota
	Easy
	Medium
	Hard
)

var difficultyNames = map[Difficulty]string{
	Human:  "human",
	Easy:   "easy",
	Medium: "medium",
	Hard:   "hard",
}

func (d Difficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

// MarshalText encodes the difficulty by name
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ParseDifficulty maps a controller name to a Difficulty
func ParseDifficulty(name string) (Difficulty, error) {
	for d, n := range difficultyNames {
		if n == name {
			return d, nil
		}
	}
	return Human, fmt.Errorf("unknown controller %q", name)
}

// Point is a position in scene coordinates (x right, y down)
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Combatant represents a participant in the duel
type Combatant struct {
	ID   CombatantID `json:"id"`
	Name string      `json:"name"`

	// Position on the terrain surface
	X float64 `json:"x"`
	Y float64 `json:"y"`

	Health int `json:"health"` // 0..MaxHealth

	// Aim
	Angle  float64    `json:"angle"` // Degrees, 0 = right, 90 = up
	Power  float64    `json:"power"` // 0..MaxPower
	Weapon WeaponType `json:"weapon"`

	Inventory map[WeaponType]int `json:"inventory"` // Remaining ammo, Unlimited for infinite
	Shields   int                `json:"shields"`   // Shield items owned
	Shield    int                `json:"shield"`    // Active shield strength, 0 when down
	Money     int                `json:"money"`

	Difficulty       Difficulty `json:"controller"`
	EliminationOrder int        `json:"eliminationOrder"` // -1 until eliminated
}

// Alive reports whether the combatant can still be hit and take turns
func (c *Combatant) Alive() bool {
	return c.Health > 0 && c.EliminationOrder < 0
}

// IsAI reports whether the engine aims and fires for this combatant
func (c *Combatant) IsAI() bool {
	return c.Difficulty != Human
}

// HasAmmo reports whether at least one round of w remains
func (c *Combatant) HasAmmo(w WeaponType) bool {
	n := c.Inventory[w]
	return n == Unlimited || n > 0
}

func (c *Combatant) consume(w WeaponType) {
	if n := c.Inventory[w]; n > 0 {
		c.Inventory[w] = n - 1
	}
}

func (c *Combatant) clone() Combatant {
	cp := *c
	cp.Inventory = make(map[WeaponType]int, len(c.Inventory))
	for w, n := range c.Inventory {
		cp.Inventory[w] = n
	}
	return cp
}

// ProjectileState tracks a munition through its behavior state machine
type ProjectileState int

const (
	StateFlying ProjectileState = iota
	StateRolling
	StateExploded
	StateRemoved
)

var projectileStateNames = [...]string{"flying", "rolling", "exploded", "removed"}

func (s ProjectileState) String() string {
	if s >= 0 && int(s) < len(projectileStateNames) {
		return projectileStateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText encodes the state by name
func (s ProjectileState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Blast carries the per-instance damage and radius of a munition
type Blast struct {
	MinDamage int     `json:"minDamage"`
	MaxDamage int     `json:"maxDamage"`
	Radius    float64 `json:"radius"`
}

// Scaled multiplies damage by num/den, rounding down, and the radius by radiusFactor
func (b Blast) Scaled(num, den int, radiusFactor float64) Blast {
	return Blast{
		MinDamage: b.MinDamage * num / den,
		MaxDamage: b.MaxDamage * num / den,
		Radius:    b.Radius * radiusFactor,
	}
}

// Projectile is a primary munition or a mini-munition in flight
type Projectile struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`

	Weapon WeaponType      `json:"weapon"`
	Owner  CombatantID     `json:"owner"`
	Blast  Blast           `json:"blast"`
	State  ProjectileState `json:"state"`
	Mini   bool            `json:"mini"`

	Bounces      int     `json:"bounces"`
	MaxBounces   int     `json:"-"`
	RollDistance float64 `json:"-"`

	launchX, launchY float64
	armed            bool
	prevVY           float64
	trail            Trail
}

// Trail returns the recorded past positions, oldest first
func (p *Projectile) Trail() []Point {
	return p.trail.Points()
}

// updateArming arms the projectile against its owner once it has left the muzzle
func (p *Projectile) updateArming() {
	if !p.armed && Distance(p.launchX, p.launchY, p.X, p.Y) >= ArmingDistance {
		p.armed = true
	}
}

// Explosion is the visual record of a blast; damage is applied when it is created
type Explosion struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Radius    float64 `json:"radius"`
	MaxRadius float64 `json:"maxRadius"`
	Progress  float64 `json:"progress"` // 0..1 through the animation window
}

// Distance calculates distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
