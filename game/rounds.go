package game

import (
	"sort"
)

// Placement margin as a fraction of scene width on each side
const placementMargin = 0.1

// Standing is one combatant's placement at the end of a round
type Standing struct {
	ID       CombatantID `json:"id"`
	Name     string      `json:"name"`
	Position int         `json:"position"` // 0 is the winner
	Award    int         `json:"award"`
	Money    int         `json:"money"`
}

// PlacementAwardFor returns the money for finishing at position (0-based) among n
func PlacementAwardFor(n, position int) int {
	if position == 0 {
		return n * PlacementAward
	}
	return max(n-position-1, 0) * PlacementAward
}

// Standings ranks combatants by elimination order, last eliminated first.
// Combatants still alive mid-round rank below everyone already placed.
func (e *Engine) Standings() []Standing {
	ranked := make([]*Combatant, len(e.combatants))
	copy(ranked, e.combatants)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EliminationOrder > ranked[j].EliminationOrder
	})

	n := len(ranked)
	out := make([]Standing, n)
	for pos, c := range ranked {
		out[pos] = Standing{
			ID:       c.ID,
			Name:     c.Name,
			Position: pos,
			Award:    PlacementAwardFor(n, pos),
			Money:    c.Money,
		}
	}
	return out
}

// PrepareNextRound credits placement money for the finished round. Calling
// it again for the same round pays nothing more.
func (e *Engine) PrepareNextRound() ([]Standing, error) {
	if e.phase != PhaseRoundOver || len(e.combatants) == 0 {
		return nil, ErrRoundInProgress
	}
	standings := e.Standings()
	if e.awarded {
		return standings, nil
	}
	for i, s := range standings {
		c := e.combatant(s.ID)
		c.Money += s.Award
		standings[i].Money = c.Money
	}
	e.awarded = true
	e.debugf("round %d awards paid", e.round)
	return standings, nil
}

// TransitionToNextRound starts the next round on fresh terrain, paying any
// outstanding awards first.
func (e *Engine) TransitionToNextRound() error {
	if e.phase != PhaseRoundOver || len(e.combatants) == 0 {
		return ErrRoundInProgress
	}
	if e.round >= e.totalRounds {
		return ErrMatchOver
	}
	if !e.awarded {
		if _, err := e.PrepareNextRound(); err != nil {
			return err
		}
	}
	e.startRound()
	return nil
}

// MatchOver reports whether the final round has ended
func (e *Engine) MatchOver() bool {
	return e.phase == PhaseRoundOver && len(e.combatants) > 0 && e.round >= e.totalRounds
}

func (e *Engine) startRound() {
	e.round++
	if e.presetTerrain != nil && e.round == 1 {
		e.terrain = e.presetTerrain.clone()
	} else {
		e.terrain = GenerateTerrain(e.width, e.height, e.rng)
	}

	e.projectile = nil
	e.minis = nil
	e.spawned = nil
	e.explosions = nil
	e.tracerPaths = nil
	e.nextElimination = 0
	e.awarded = false

	for _, c := range e.combatants {
		c.Health = MaxHealth
		c.Shield = 0
		c.EliminationOrder = -1
		c.Angle = 45
		c.Power = 50
		if !c.HasAmmo(c.Weapon) {
			c.Weapon = WeaponMissile
		}
	}
	e.placeCombatants()

	first := e.combatants[(e.round-1)%len(e.combatants)]
	e.debugf("round %d/%d begins", e.round, e.totalRounds)
	e.beginTurn(first.ID)
}

// placeCombatants spreads combatants evenly inside the margins in a random order
func (e *Engine) placeCombatants() {
	n := len(e.combatants)
	margin := e.width * placementMargin
	span := e.width - 2*margin
	order := e.rng.Perm(n)
	for i, c := range e.combatants {
		slot := order[i]
		c.X = margin + span*float64(slot)/float64(n-1)
		if c.Angle == 45 && c.X > e.width/2 {
			c.Angle = 135
		}
	}
	e.settleCombatants()
}
