package game

// ProjectileView is the render-facing state of one munition
type ProjectileView struct {
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Weapon WeaponType      `json:"weapon"`
	State  ProjectileState `json:"state"`
	Mini   bool            `json:"mini"`
	Trail  []Point         `json:"trail,omitempty"`
}

// Snapshot is a deep copy of everything a renderer needs for one frame
type Snapshot struct {
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	Round       int              `json:"round"`
	TotalRounds int              `json:"totalRounds"`
	Phase       TurnPhase        `json:"phase"`
	Current     CombatantID      `json:"current"`
	Wind        float64          `json:"wind"`
	Terrain     []Point          `json:"terrain"`
	Combatants  []Combatant      `json:"combatants"`
	Projectile  *ProjectileView  `json:"projectile,omitempty"`
	Minis       []ProjectileView `json:"minis"`
	Explosions  []Explosion      `json:"explosions"`
	TracerPaths [][]Point        `json:"tracerPaths"`
	MatchOver   bool             `json:"matchOver"`
}

// Snapshot copies the current engine state; the result shares nothing with the engine
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Width:       e.width,
		Height:      e.height,
		Round:       e.round,
		TotalRounds: e.totalRounds,
		Phase:       e.phase,
		Current:     e.current,
		Wind:        e.wind,
		Terrain:     e.terrain.Samples(),
		Combatants:  e.Combatants(),
		Minis:       make([]ProjectileView, 0, len(e.minis)),
		Explosions:  make([]Explosion, 0, len(e.explosions)),
		TracerPaths: make([][]Point, 0, len(e.tracerPaths)),
		MatchOver:   e.MatchOver(),
	}

	if e.projectile != nil {
		v := viewOf(e.projectile)
		s.Projectile = &v
	}
	for _, m := range e.minis {
		s.Minis = append(s.Minis, viewOf(m))
	}
	for _, x := range e.explosions {
		s.Explosions = append(s.Explosions, *x)
	}
	for _, path := range e.tracerPaths {
		cp := make([]Point, len(path))
		copy(cp, path)
		s.TracerPaths = append(s.TracerPaths, cp)
	}
	return s
}

func viewOf(p *Projectile) ProjectileView {
	return ProjectileView{
		X:      p.X,
		Y:      p.Y,
		Weapon: p.Weapon,
		State:  p.State,
		Mini:   p.Mini,
		Trail:  p.Trail(),
	}
}
