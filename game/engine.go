package game

import (
	"fmt"
	"log"
	"math/rand"
)

// Engine owns all mutable simulation state for one match. It is advanced only
// by explicit calls; hosts must serialize every call onto one goroutine.
type Engine struct {
	width  float64
	height float64

	terrain    *Terrain
	combatants []*Combatant // Registry in creation order; never reordered
	projectile *Projectile  // At most one primary munition per turn
	minis      []*Projectile
	spawned    []*Projectile // Mini-munitions created during the current pass
	explosions []*Explosion

	tracerPaths [][]Point

	wind      float64
	fixedWind *float64

	phase           TurnPhase
	current         CombatantID
	lastBehavior    SpecialBehavior
	tracerBonusUsed bool

	round           int
	totalRounds     int
	nextElimination int
	awarded         bool

	startingInventory map[WeaponType]int
	startingMoney     int
	presetTerrain     *Terrain

	rng   *rand.Rand
	debug bool
}

// NewEngine creates an idle engine; call NewMatch to start playing
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		width:             DefaultWidth,
		height:            DefaultHeight,
		phase:             PhaseRoundOver,
		current:           NoCombatant,
		startingInventory: DefaultInventory(),
		rng:               rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.presetTerrain != nil {
		e.width = e.presetTerrain.Width
		e.height = e.presetTerrain.Height
	}
	e.terrain = NewFlatTerrain(e.width, e.height, e.height*terrainBaseRatio)
	return e
}

// NewMatch registers combatants and starts the first round. perAIDifficulty
// assigns a controller per combatant; missing entries are Human.
func (e *Engine) NewMatch(combatantCount int, perAIDifficulty []Difficulty, totalRounds int) error {
	if combatantCount < 2 || totalRounds < 1 {
		return fmt.Errorf("%w: %d combatants, %d rounds", ErrInvalidMatch, combatantCount, totalRounds)
	}

	e.combatants = make([]*Combatant, combatantCount)
	for i := range e.combatants {
		d := Human
		if i < len(perAIDifficulty) {
			d = perAIDifficulty[i]
		}
		name := fmt.Sprintf("Player %d", i+1)
		if d != Human {
			name = fmt.Sprintf("CPU %d", i+1)
		}

		inv := make(map[WeaponType]int, len(e.startingInventory)+1)
		for w, n := range e.startingInventory {
			inv[w] = n
		}
		// The basic missile never runs out so every turn has a legal shot
		inv[WeaponMissile] = Unlimited

		e.combatants[i] = &Combatant{
			ID:               CombatantID(i),
			Name:             name,
			Health:           MaxHealth,
			Angle:            45,
			Power:            50,
			Weapon:           WeaponMissile,
			Inventory:        inv,
			Money:            e.startingMoney,
			Difficulty:       d,
			EliminationOrder: -1,
		}
	}

	e.totalRounds = totalRounds
	e.round = 0
	e.startRound()
	return nil
}

// UpdateDimensions rescales the scene. The current terrain keeps its shape
// and every positioned object is stretched with it.
func (e *Engine) UpdateDimensions(width, height float64) {
	if !(width > 0) || !(height > 0) {
		return
	}
	sx := width / e.width
	sy := height / e.height

	e.terrain.Rescale(width, height)
	e.width = width
	e.height = height

	for _, c := range e.combatants {
		c.X *= sx
	}
	e.settleCombatants()

	if e.projectile != nil {
		e.projectile.X *= sx
		e.projectile.Y *= sy
	}
	for _, m := range e.minis {
		m.X *= sx
		m.Y *= sy
	}
	for _, x := range e.explosions {
		x.X *= sx
		x.Y *= sy
	}
}

// Fire launches the current combatant's selected weapon. It returns false and
// changes nothing when the weapon has no ammunition or no shot is expected.
func (e *Engine) Fire(angle, power float64) bool {
	return e.TryFire(angle, power) == nil
}

// TryFire is Fire with the refusal reason
func (e *Engine) TryFire(angle, power float64) error {
	c := e.currentCombatant()
	if e.phase != PhaseWaitingForInput || c == nil || !c.Alive() {
		return ErrNotWaiting
	}
	stats, ok := weaponData[c.Weapon]
	if !ok || !c.HasAmmo(c.Weapon) {
		return ErrNoAmmo
	}

	angle = ClampAngle(angle)
	power = ClampPower(power)
	c.Angle = angle
	c.Power = power
	c.consume(c.Weapon)

	e.projectile = e.launch(c, stats, angle, power)
	e.lastBehavior = stats.Behavior
	e.phase = PhaseInFlight
	e.debugf("%s fired %s at %.1f° power %.1f (wind %.1f)", c.Name, c.Weapon, angle, power, e.wind)
	return nil
}

func (e *Engine) launch(c *Combatant, stats WeaponStats, angle, power float64) *Projectile {
	vx, vy := LaunchVelocity(angle, power)
	x := c.X
	y := c.Y - MuzzleOffset
	return &Projectile{
		X:          x,
		Y:          y,
		VX:         vx,
		VY:         vy,
		Weapon:     c.Weapon,
		Owner:      c.ID,
		Blast:      stats.Blast(),
		State:      StateFlying,
		MaxBounces: stats.MaxBounces,
		launchX:    x,
		launchY:    y,
		prevVY:     vy,
		trail:      newTrail(stats.MaxTrail),
	}
}

// SetAim stores the current combatant's angle and power without firing
func (e *Engine) SetAim(angle, power float64) error {
	c := e.currentCombatant()
	if e.phase != PhaseWaitingForInput || c == nil {
		return ErrNotWaiting
	}
	c.Angle = ClampAngle(angle)
	c.Power = ClampPower(power)
	return nil
}

// SelectWeapon switches the current combatant's weapon
func (e *Engine) SelectWeapon(w WeaponType) error {
	c := e.currentCombatant()
	if e.phase != PhaseWaitingForInput || c == nil {
		return ErrNotWaiting
	}
	if _, ok := weaponData[w]; !ok || !c.HasAmmo(w) {
		return ErrNoAmmo
	}
	c.Weapon = w
	return nil
}

// ActivateShield raises a shield for the current combatant from inventory
func (e *Engine) ActivateShield() error {
	c := e.currentCombatant()
	if e.phase != PhaseWaitingForInput || c == nil {
		return ErrNotWaiting
	}
	if c.Shields <= 0 || c.Shield > 0 {
		return ErrNoAmmo
	}
	c.Shields--
	c.Shield = ShieldStrength
	e.debugf("%s raised shield", c.Name)
	return nil
}

// GrantAmmo adds rounds of w to a combatant's inventory (shop layer)
func (e *Engine) GrantAmmo(id CombatantID, w WeaponType, count int) error {
	c := e.combatant(id)
	if c == nil {
		return ErrUnknownCombatant
	}
	if _, ok := weaponData[w]; !ok {
		return fmt.Errorf("grant ammo: unknown weapon %d", int(w))
	}
	if c.Inventory[w] == Unlimited || count <= 0 {
		return nil
	}
	c.Inventory[w] += count
	return nil
}

// GrantShields adds shield items to a combatant (shop layer)
func (e *Engine) GrantShields(id CombatantID, count int) error {
	c := e.combatant(id)
	if c == nil {
		return ErrUnknownCombatant
	}
	if count > 0 {
		c.Shields += count
	}
	return nil
}

// SetMoney overwrites a combatant's money (shop layer)
func (e *Engine) SetMoney(id CombatantID, money int) error {
	c := e.combatant(id)
	if c == nil {
		return ErrUnknownCombatant
	}
	c.Money = money
	return nil
}

// SetName renames a combatant
func (e *Engine) SetName(id CombatantID, name string) error {
	c := e.combatant(id)
	if c == nil {
		return ErrUnknownCombatant
	}
	c.Name = name
	return nil
}

// SetWind overrides the wind for the rest of the current turn
func (e *Engine) SetWind(wind float64) {
	e.wind = clamp(wind, -MaxWind, MaxWind)
}

func (e *Engine) Width() float64             { return e.width }
func (e *Engine) Height() float64            { return e.height }
func (e *Engine) Wind() float64              { return e.wind }
func (e *Engine) Phase() TurnPhase           { return e.phase }
func (e *Engine) CurrentID() CombatantID     { return e.current }
func (e *Engine) Round() int                 { return e.round }
func (e *Engine) TotalRounds() int           { return e.totalRounds }
func (e *Engine) HeightAt(x float64) float64 { return e.terrain.HeightAt(x) }

// Combatant returns a copy of the combatant with the given ID
func (e *Engine) Combatant(id CombatantID) (Combatant, bool) {
	c := e.combatant(id)
	if c == nil {
		return Combatant{}, false
	}
	return c.clone(), true
}

// Combatants returns copies of every registered combatant in registry order
func (e *Engine) Combatants() []Combatant {
	out := make([]Combatant, len(e.combatants))
	for i, c := range e.combatants {
		out[i] = c.clone()
	}
	return out
}

func (e *Engine) combatant(id CombatantID) *Combatant {
	if i := e.index(id); i >= 0 {
		return e.combatants[i]
	}
	return nil
}

func (e *Engine) index(id CombatantID) int {
	for i, c := range e.combatants {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) currentCombatant() *Combatant {
	return e.combatant(e.current)
}

func (e *Engine) livingCount() int {
	n := 0
	for _, c := range e.combatants {
		if c.Alive() {
			n++
		}
	}
	return n
}

func (e *Engine) debugf(format string, args ...interface{}) {
	if e.debug {
		log.Printf("[ENGINE] "+format, args...)
	}
}
