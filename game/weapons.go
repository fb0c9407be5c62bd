package game

import "fmt"

// WeaponType identifies an entry in the weapon catalog
type WeaponType int

const (
	WeaponMissile WeaponType = iota
	WeaponNuke
	WeaponMIRV
	WeaponRoller
	WeaponLeapfrog
	WeaponTracer
	WeaponFunkyBomb
)

// Unlimited marks an inventory slot that never runs out
const Unlimited = -1

// SpecialBehavior selects the state machine a weapon runs after launch
type SpecialBehavior int

const (
	BehaviorNone SpecialBehavior = iota
	BehaviorMIRVSplit
	BehaviorRoller
	BehaviorLeapfrogBounce
	BehaviorTracerChain
	BehaviorFunkySpawn
)

var behaviorNames = [...]string{"none", "mirv_split", "roller", "leapfrog_bounce", "tracer_chain", "funky_spawn"}

func (b SpecialBehavior) String() string {
	if b >= 0 && int(b) < len(behaviorNames) {
		return behaviorNames[b]
	}
	return fmt.Sprintf("behavior(%d)", int(b))
}

// MarshalText encodes the behavior by name
func (b SpecialBehavior) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// WeaponStats holds the immutable template for a weapon type
type WeaponStats struct {
	Name        string          `json:"name"`
	Key         string          `json:"key"` // Short name used in config files and client messages
	MinDamage   int             `json:"minDamage"`
	MaxDamage   int             `json:"maxDamage"`
	BlastRadius float64         `json:"blastRadius"`
	MaxBounces  int             `json:"maxBounces"`
	MaxTrail    int             `json:"-"` // Trail length cap, in recorded positions
	Behavior    SpecialBehavior `json:"behavior"`
	Price       int             `json:"price"` // Read by the shop layer between rounds
}

// Blast returns the default blast carried by a freshly fired munition
func (s WeaponStats) Blast() Blast {
	return Blast{MinDamage: s.MinDamage, MaxDamage: s.MaxDamage, Radius: s.BlastRadius}
}

var weaponData = map[WeaponType]WeaponStats{
	WeaponMissile: {
		Name:        "Missile",
		Key:         "missile",
		MinDamage:   10,
		MaxDamage:   35,
		BlastRadius: 30,
		MaxTrail:    40,
		Behavior:    BehaviorNone,
	},
	WeaponNuke: {
		Name:        "Baby Nuke",
		Key:         "nuke",
		MinDamage:   20,
		MaxDamage:   75,
		BlastRadius: 75,
		MaxTrail:    40,
		Behavior:    BehaviorNone,
		Price:       4000,
	},
	WeaponMIRV: {
		Name:        "MIRV",
		Key:         "mirv",
		MinDamage:   10,
		MaxDamage:   30,
		BlastRadius: 20, // Warheads double this
		MaxTrail:    40,
		Behavior:    BehaviorMIRVSplit,
		Price:       5000,
	},
	WeaponRoller: {
		Name:        "Roller",
		Key:         "roller",
		MinDamage:   15,
		MaxDamage:   45,
		BlastRadius: 35,
		MaxTrail:    40,
		Behavior:    BehaviorRoller,
		Price:       2500,
	},
	WeaponLeapfrog: {
		Name:        "Leapfrog",
		Key:         "leapfrog",
		MinDamage:   10,
		MaxDamage:   35,
		BlastRadius: 30,
		MaxBounces:  3,
		MaxTrail:    40,
		Behavior:    BehaviorLeapfrogBounce,
		Price:       3000,
	},
	WeaponTracer: {
		Name:     "Tracer",
		Key:      "tracer",
		MaxTrail: TracerPathLimit,
		Behavior: BehaviorTracerChain,
		Price:    500,
	},
	WeaponFunkyBomb: {
		Name:        "Funky Bomb",
		Key:         "funky",
		MinDamage:   15,
		MaxDamage:   45,
		BlastRadius: 40,
		MaxTrail:    40,
		Behavior:    BehaviorFunkySpawn,
		Price:       6000,
	},
}

// Weapons lists every catalog entry in display order
func Weapons() []WeaponType {
	return []WeaponType{WeaponMissile, WeaponNuke, WeaponMIRV, WeaponRoller, WeaponLeapfrog, WeaponTracer, WeaponFunkyBomb}
}

// WeaponInfo returns the catalog entry for w
func WeaponInfo(w WeaponType) (WeaponStats, bool) {
	s, ok := weaponData[w]
	return s, ok
}

func (w WeaponType) String() string {
	if s, ok := weaponData[w]; ok {
		return s.Key
	}
	return fmt.Sprintf("weapon(%d)", int(w))
}

// MarshalText encodes the weapon by key so inventories serialize as objects
func (w WeaponType) MarshalText() ([]byte, error) {
	if _, ok := weaponData[w]; !ok {
		return nil, fmt.Errorf("unknown weapon %d", int(w))
	}
	return []byte(w.String()), nil
}

// UnmarshalText decodes a weapon key
func (w *WeaponType) UnmarshalText(text []byte) error {
	parsed, err := ParseWeapon(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// ParseWeapon maps a weapon key to its type
func ParseWeapon(key string) (WeaponType, error) {
	for w, s := range weaponData {
		if s.Key == key {
			return w, nil
		}
	}
	return WeaponMissile, fmt.Errorf("unknown weapon %q", key)
}

// DefaultInventory is the loadout a combatant starts a match with
func DefaultInventory() map[WeaponType]int {
	return map[WeaponType]int{
		WeaponMissile:   Unlimited,
		WeaponNuke:      1,
		WeaponMIRV:      1,
		WeaponRoller:    2,
		WeaponLeapfrog:  2,
		WeaponTracer:    3,
		WeaponFunkyBomb: 1,
	}
}
