package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lab1702/artillery-web/game"
	"github.com/lab1702/artillery-web/server"
)

const (
	frameInterval = 16 * time.Millisecond // ~60 FPS
	hudRows       = 2
	fineStep      = 1.0
	coarseStep    = 5.0
)

var combatantColors = []tcell.Color{
	tcell.ColorRed,
	tcell.ColorBlue,
	tcell.ColorYellow,
	tcell.ColorPurple,
	tcell.ColorAqua,
	tcell.ColorWhite,
}

// Term is a hot-seat terminal host: every human combatant shares the keyboard
type Term struct {
	screen        tcell.Screen
	width, height int

	cfg     *server.Config
	engine  *game.Engine
	matches int

	status     string
	roundEnded time.Time
}

func NewTerm(cfg *server.Config) (*Term, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		return nil, err
	}

	t := &Term{
		screen: screen,
		cfg:    cfg,
	}
	t.width, t.height = screen.Size()

	if err := t.newMatch(); err != nil {
		screen.Fini()
		return nil, err
	}
	return t, nil
}

func (t *Term) newMatch() error {
	seed := t.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine, err := t.cfg.BuildEngine(seed + int64(t.matches))
	if err != nil {
		return err
	}
	t.matches++
	t.engine = engine
	t.roundEnded = time.Time{}
	t.status = fmt.Sprintf("Match %d, round 1 of %d", t.matches, engine.TotalRounds())
	log.Printf("[TERM] match %d started with seed %d", t.matches, seed)
	return nil
}

// nextRound pays the finished round and starts the next one, or a new match
func (t *Term) nextRound() {
	if t.engine.Phase() != game.PhaseRoundOver {
		return
	}
	standings, err := t.engine.PrepareNextRound()
	if err != nil {
		t.status = err.Error()
		return
	}

	if t.engine.MatchOver() {
		winner := standings[0].Name
		if err := t.newMatch(); err != nil {
			t.status = err.Error()
			return
		}
		t.status = fmt.Sprintf("%s won the final round. New match!", winner)
		return
	}

	if err := t.engine.TransitionToNextRound(); err != nil {
		t.status = err.Error()
		return
	}
	t.roundEnded = time.Time{}
	t.status = fmt.Sprintf("Round %d of %d", t.engine.Round(), t.engine.TotalRounds())
}

// report turns an engine event into the status line
func (t *Term) report(ev game.TurnEvent) {
	switch ev.Kind {
	case game.EventTurnEnded:
		t.status = fmt.Sprintf("%s's turn", t.name(ev.Next))
	case game.EventExtraShot:
		t.status = fmt.Sprintf("%s gets a follow-up shot", t.name(ev.Previous))
	case game.EventRoundOver:
		t.roundEnded = time.Now()
		t.status = fmt.Sprintf("Round %d over, %s wins. Press n to continue", t.engine.Round(), t.engine.Standings()[0].Name)
	}
}

func (t *Term) name(id game.CombatantID) string {
	if c, ok := t.engine.Combatant(id); ok {
		return c.Name
	}
	return "?"
}

func (t *Term) update(dt float64) {
	t.report(t.engine.Step(dt))

	if !t.roundEnded.IsZero() && time.Since(t.roundEnded) > t.cfg.RoundDelayDuration() {
		t.nextRound()
	}
}

func (t *Term) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		t.handleKey(ev)

	case *tcell.EventResize:
		t.width, t.height = t.screen.Size()
		t.screen.Sync()
	}

	return true
}

func (t *Term) handleKey(ev *tcell.EventKey) {
	e := t.engine
	if ev.Key() == tcell.KeyRune && ev.Rune() == 'n' {
		t.nextRound()
		return
	}

	current, ok := e.Combatant(e.CurrentID())
	if !ok || current.IsAI() || e.Phase() != game.PhaseWaitingForInput {
		return
	}

	step := fineStep
	if ev.Modifiers()&tcell.ModShift != 0 {
		step = coarseStep
	}

	var err error
	switch ev.Key() {
	case tcell.KeyLeft:
		err = e.SetAim(current.Angle+step, current.Power)
	case tcell.KeyRight:
		err = e.SetAim(current.Angle-step, current.Power)
	case tcell.KeyUp:
		err = e.SetAim(current.Angle, current.Power+step)
	case tcell.KeyDown:
		err = e.SetAim(current.Angle, current.Power-step)
	case tcell.KeyEnter:
		err = e.TryFire(current.Angle, current.Power)
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			err = e.TryFire(current.Angle, current.Power)
		case 'w':
			err = cycleWeapon(e, current)
		case 's':
			err = e.ActivateShield()
		case 'r':
			var rev game.TurnEvent
			rev, err = e.Resign(current.ID)
			t.report(rev)
		}
	}
	if err != nil {
		t.status = err.Error()
	}
}

// cycleWeapon selects the next catalog weapon the combatant still owns
func cycleWeapon(e *game.Engine, c game.Combatant) error {
	weapons := game.Weapons()
	start := 0
	for i, w := range weapons {
		if w == c.Weapon {
			start = i
		}
	}
	for k := 1; k <= len(weapons); k++ {
		w := weapons[(start+k)%len(weapons)]
		if c.HasAmmo(w) {
			return e.SelectWeapon(w)
		}
	}
	return game.ErrNoAmmo
}

// toCell maps scene coordinates to a terminal cell below the HUD
func (t *Term) toCell(snap *game.Snapshot, x, y float64) (int, int) {
	rows := t.height - hudRows
	col := int(x / snap.Width * float64(t.width))
	row := hudRows + int(y/snap.Height*float64(rows))
	return col, row
}

func (t *Term) drawText(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (t *Term) draw() {
	t.screen.Clear()
	snap := t.engine.Snapshot()
	rows := t.height - hudRows
	if t.width <= 0 || rows <= 0 {
		t.screen.Show()
		return
	}

	// Terrain, one column per cell
	ground := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	for col := 0; col < t.width; col++ {
		x := (float64(col) + 0.5) * snap.Width / float64(t.width)
		_, top := t.toCell(&snap, x, t.engine.HeightAt(x))
		for row := top; row < t.height; row++ {
			t.screen.SetContent(col, row, '█', nil, ground)
		}
	}

	// Explosions as filled discs
	cellW := snap.Width / float64(t.width)
	cellH := snap.Height / float64(rows)
	for _, x := range snap.Explosions {
		style := tcell.StyleDefault.Foreground(tcell.ColorOrange)
		for dy := -x.Radius; dy <= x.Radius; dy += cellH {
			for dx := -x.Radius; dx <= x.Radius; dx += cellW {
				if math.Hypot(dx, dy) > x.Radius {
					continue
				}
				col, row := t.toCell(&snap, x.X+dx, x.Y+dy)
				t.screen.SetContent(col, row, '░', nil, style)
			}
		}
	}

	trail := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for _, path := range snap.TracerPaths {
		for _, p := range path {
			col, row := t.toCell(&snap, p.X, p.Y)
			t.screen.SetContent(col, row, ':', nil, trail)
		}
	}
	shot := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	if p := snap.Projectile; p != nil {
		for _, pt := range p.Trail {
			col, row := t.toCell(&snap, pt.X, pt.Y)
			t.screen.SetContent(col, row, '.', nil, trail)
		}
		col, row := t.toCell(&snap, p.X, p.Y)
		t.screen.SetContent(col, row, '*', nil, shot)
	}
	for _, m := range snap.Minis {
		col, row := t.toCell(&snap, m.X, m.Y)
		t.screen.SetContent(col, row, '+', nil, shot)
	}

	for _, c := range snap.Combatants {
		if !c.Alive() {
			continue
		}
		style := tcell.StyleDefault.Foreground(combatantColors[int(c.ID)%len(combatantColors)])
		col, row := t.toCell(&snap, c.X, c.Y)
		row--
		t.screen.SetContent(col, row, '▲', nil, style)
		if c.Shield > 0 {
			t.screen.SetContent(col-1, row, '(', nil, style)
			t.screen.SetContent(col+1, row, ')', nil, style)
		}
		label := fmt.Sprintf("%s %d", c.Name, c.Health)
		t.drawText(col-len([]rune(label))/2, row-1, label, style)
	}

	t.drawHUD(&snap)
	t.screen.Show()
}

func (t *Term) drawHUD(snap *game.Snapshot) {
	hud := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	wind := "→"
	if snap.Wind < 0 {
		wind = "←"
	}
	line := fmt.Sprintf("Round %d/%d  Wind %s%.0f", snap.Round, snap.TotalRounds, wind, math.Abs(snap.Wind))

	if c, ok := t.engine.Combatant(snap.Current); ok && snap.Phase != game.PhaseRoundOver {
		ammo := "∞"
		if n := c.Inventory[c.Weapon]; n != game.Unlimited {
			ammo = fmt.Sprint(n)
		}
		line += fmt.Sprintf("  %s [%s]  Angle %.0f  Power %.0f  %s x%s  Shields %d  $%d",
			c.Name, c.Difficulty, c.Angle, c.Power, c.Weapon, ammo, c.Shields, c.Money)
	}
	t.drawText(0, 0, line, hud)

	help := "←→ angle  ↑↓ power (shift x5)  w weapon  s shield  space fire  r resign  n next round  q quit"
	if t.status != "" {
		help = t.status
	}
	t.drawText(0, 1, help, hud.Foreground(tcell.ColorYellow))
}

func (t *Term) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- t.screen.PollEvent()
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !t.handleInput(ev) {
				return
			}

		case now := <-ticker.C:
			t.update(now.Sub(last).Seconds())
			last = now
			t.draw()
		}
	}
}

func main() {
	configPath := flag.String("config", "", "YAML match configuration")
	logPath := flag.String("log", "", "Write debug log to this file")
	flag.Parse()

	// The screen owns the terminal; logging goes to a file or nowhere
	log.SetOutput(io.Discard)
	cfg := server.DefaultConfig()
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
		cfg.Debug = true
	}

	if *configPath != "" {
		loaded, err := server.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		loaded.Debug = loaded.Debug || cfg.Debug
		cfg = loaded
	}

	term, err := NewTerm(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer term.screen.Fini()

	term.run()
}
