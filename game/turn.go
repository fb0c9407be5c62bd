package game

import "math"

// MaxFrameDelta bounds the time a single Step may simulate. Hosts that stall
// resume without a burst of thousands of substeps.
const MaxFrameDelta = 0.25

// TurnPhase is the turn state machine
type TurnPhase int

const (
	PhaseWaitingForInput TurnPhase = iota
	PhaseInFlight
	PhaseResolvingSubmunitions
	PhaseRoundOver
)

var phaseNames = map[TurnPhase]string{
	PhaseWaitingForInput:       "waiting",
	PhaseInFlight:              "in-flight",
	PhaseResolvingSubmunitions: "resolving",
	PhaseRoundOver:             "round-over",
}

func (p TurnPhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the phase by name for JSON clients
func (p TurnPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// TurnEventKind says what a Step concluded
type TurnEventKind int

const (
	EventNone TurnEventKind = iota
	EventTurnEnded
	EventExtraShot
	EventRoundOver
)

var eventNames = map[TurnEventKind]string{
	EventNone:      "none",
	EventTurnEnded: "turn-ended",
	EventExtraShot: "extra-shot",
	EventRoundOver: "round-over",
}

func (k TurnEventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the event kind by name for JSON clients
func (k TurnEventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// TurnEvent reports the result of one Step. A Step covers at most
// MaxFrameDelta of simulated time, so a host that stalled longer sees the
// shot resume where it paused rather than jump ahead.
type TurnEvent struct {
	Kind       TurnEventKind `json:"kind"`
	Previous   CombatantID   `json:"previous"`
	Next       CombatantID   `json:"next"`
	Eliminated []CombatantID `json:"eliminated,omitempty"`
}

// Step advances the simulation by dt seconds. Explosion animations always
// progress; munitions move only while a shot is resolving. dt is capped at
// MaxFrameDelta and the excess is dropped, not carried to the next call.
// The simulated time is split into substeps no longer than MaxSubstep.
func (e *Engine) Step(dt float64) TurnEvent {
	ev := TurnEvent{Kind: EventNone, Previous: e.current, Next: e.current}
	if !(dt > 0) || math.IsInf(dt, 1) {
		return ev
	}
	dt = math.Min(dt, MaxFrameDelta)

	e.updateExplosions(dt)

	if e.phase != PhaseInFlight && e.phase != PhaseResolvingSubmunitions {
		return ev
	}

	n := int(math.Ceil(dt / MaxSubstep))
	h := dt / float64(n)
	for i := 0; i < n && e.unresolved(); i++ {
		e.substep(h)
		ev.Eliminated = append(ev.Eliminated, e.collectEliminations()...)
		if e.livingCount() == 0 {
			e.endRound()
			ev.Kind = EventRoundOver
			return ev
		}
	}

	if e.projectile != nil {
		return ev
	}
	if len(e.minis) > 0 {
		e.phase = PhaseResolvingSubmunitions
		return ev
	}
	return e.resolveTurn(ev)
}

func (e *Engine) unresolved() bool {
	return e.projectile != nil || len(e.minis) > 0 || len(e.spawned) > 0
}

// substep advances the primary munition, then every mini in order. Minis
// spawned during the pass join the active set only once it is complete.
func (e *Engine) substep(dt float64) {
	if p := e.projectile; p != nil {
		if e.advanceProjectile(p, dt) != outcomeFlying {
			e.projectile = nil
		}
	}

	// Filter in place, keeping only munitions still in flight
	writeIdx := 0
	for _, m := range e.minis {
		if e.advanceProjectile(m, dt) != outcomeFlying {
			continue
		}
		e.minis[writeIdx] = m
		writeIdx++
	}
	for i := writeIdx; i < len(e.minis); i++ {
		e.minis[i] = nil
	}
	e.minis = append(e.minis[:writeIdx], e.spawned...)
	e.spawned = e.spawned[:0]
}

func (e *Engine) updateExplosions(dt float64) {
	writeIdx := 0
	for _, x := range e.explosions {
		x.Progress += dt / ExplosionDuration
		if x.Progress >= 1 {
			continue
		}
		x.Radius = x.MaxRadius * x.Progress
		e.explosions[writeIdx] = x
		writeIdx++
	}
	for i := writeIdx; i < len(e.explosions); i++ {
		e.explosions[i] = nil
	}
	e.explosions = e.explosions[:writeIdx]
}

// resolveTurn runs once every munition of the shot is gone
func (e *Engine) resolveTurn(ev TurnEvent) TurnEvent {
	if e.livingCount() <= 1 {
		e.endRound()
		ev.Kind = EventRoundOver
		return ev
	}

	shooter := e.currentCombatant()
	if e.lastBehavior == BehaviorTracerChain && !e.tracerBonusUsed && shooter != nil && shooter.Alive() {
		e.tracerBonusUsed = true
		e.phase = PhaseWaitingForInput
		ev.Kind = EventExtraShot
		e.debugf("%s earned a follow-up shot", shooter.Name)
		if shooter.IsAI() {
			e.takeAIShot(shooter)
		}
		return ev
	}

	next := e.nextLiving(e.current)
	ev.Kind = EventTurnEnded
	ev.Next = next.ID
	e.beginTurn(next.ID)
	return ev
}

// beginTurn hands control to id with fresh wind; AI combatants fire at once
func (e *Engine) beginTurn(id CombatantID) {
	e.current = id
	e.phase = PhaseWaitingForInput
	e.tracerBonusUsed = false
	e.lastBehavior = BehaviorNone
	e.tracerPaths = nil
	e.wind = e.sampleWind()

	c := e.combatant(id)
	e.debugf("turn: %s (wind %.1f)", c.Name, e.wind)
	if c.IsAI() {
		e.takeAIShot(c)
	}
}

func (e *Engine) sampleWind() float64 {
	if e.fixedWind != nil {
		return *e.fixedWind
	}
	return (e.rng.Float64()*2 - 1) * MaxWind
}

// nextLiving returns the next living combatant after id in registry order,
// wrapping around. The current combatant may itself be dead.
func (e *Engine) nextLiving(id CombatantID) *Combatant {
	n := len(e.combatants)
	start := e.index(id)
	for k := 1; k <= n; k++ {
		c := e.combatants[(start+k+n)%n]
		if c.Alive() {
			return c
		}
	}
	return nil
}

// endRound stops all munitions and ranks the survivors above the eliminated
func (e *Engine) endRound() {
	e.projectile = nil
	e.minis = nil
	e.spawned = e.spawned[:0]
	for _, c := range e.combatants {
		if c.EliminationOrder < 0 {
			c.EliminationOrder = e.nextElimination
			e.nextElimination++
		}
	}
	e.phase = PhaseRoundOver
	e.debugf("round %d over", e.round)
}

// Resign eliminates a combatant outright. It is accepted only between shots;
// resigning on one's own turn passes it to the next living combatant.
func (e *Engine) Resign(id CombatantID) (TurnEvent, error) {
	ev := TurnEvent{Kind: EventNone, Previous: e.current, Next: e.current}
	c := e.combatant(id)
	if c == nil {
		return ev, ErrUnknownCombatant
	}
	if e.phase != PhaseWaitingForInput {
		return ev, ErrNotWaiting
	}
	if !c.Alive() {
		return ev, nil
	}

	c.Health = 0
	c.Shield = 0
	ev.Eliminated = e.collectEliminations()
	e.debugf("%s resigned", c.Name)

	if e.livingCount() <= 1 {
		e.endRound()
		ev.Kind = EventRoundOver
		return ev, nil
	}
	if id == e.current {
		next := e.nextLiving(id)
		ev.Kind = EventTurnEnded
		ev.Next = next.ID
		e.beginTurn(next.ID)
	}
	return ev, nil
}
