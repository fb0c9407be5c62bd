package game

import "math/rand"

// Option configures an Engine at construction
type Option func(*Engine)

// WithSeed seeds the single random source every engine decision draws from
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithDimensions sets the scene size
func WithDimensions(width, height float64) Option {
	return func(e *Engine) {
		if width > 0 && height > 0 {
			e.width = width
			e.height = height
		}
	}
}

// WithWind pins the wind to a constant instead of sampling it each turn
func WithWind(wind float64) Option {
	return func(e *Engine) {
		w := clamp(wind, -MaxWind, MaxWind)
		e.fixedWind = &w
	}
}

// WithTerrain uses t for the first round instead of generating one
func WithTerrain(t *Terrain) Option {
	return func(e *Engine) {
		e.presetTerrain = t
	}
}

// WithStartingInventory replaces the default match loadout
func WithStartingInventory(inv map[WeaponType]int) Option {
	return func(e *Engine) {
		e.startingInventory = make(map[WeaponType]int, len(inv))
		for w, n := range inv {
			e.startingInventory[w] = n
		}
	}
}

// WithStartingMoney sets each combatant's money at match start
func WithStartingMoney(money int) Option {
	return func(e *Engine) {
		e.startingMoney = money
	}
}

// WithDebugLog enables per-event physics logging
func WithDebugLog(enabled bool) Option {
	return func(e *Engine) {
		e.debug = enabled
	}
}
