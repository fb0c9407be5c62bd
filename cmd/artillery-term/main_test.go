package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lab1702/artillery-web/game"
	"github.com/lab1702/artillery-web/server"
)

// newTestTerm hosts a two-human match on a simulated 80x24 screen
func newTestTerm(t *testing.T, tweaks ...func(*server.Config)) *Term {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	cfg := server.DefaultConfig()
	cfg.Seed = 3
	cfg.Combatants = []server.CombatantConfig{
		{Name: "Left", Controller: "human"},
		{Name: "Right", Controller: "human"},
	}
	for _, tweak := range tweaks {
		tweak(cfg)
	}

	term := &Term{screen: screen, cfg: cfg}
	term.width, term.height = screen.Size()
	if err := term.newMatch(); err != nil {
		t.Fatalf("newMatch: %v", err)
	}
	return term
}

func key(k tcell.Key, r rune, mod tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(k, r, mod)
}

func rowText(screen tcell.Screen, row, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := screen.GetContent(x, row)
		b.WriteRune(r)
	}
	return b.String()
}

func TestAimKeys(t *testing.T) {
	term := newTestTerm(t)
	start, _ := term.engine.Combatant(0)

	term.handleInput(key(tcell.KeyLeft, 0, tcell.ModNone))
	term.handleInput(key(tcell.KeyUp, 0, tcell.ModShift))

	c, _ := term.engine.Combatant(0)
	if c.Angle != start.Angle+fineStep || c.Power != start.Power+coarseStep {
		t.Errorf("aim = (%.0f, %.0f), want (%.0f, %.0f)", c.Angle, c.Power, start.Angle+fineStep, start.Power+coarseStep)
	}
}

func TestFireKey(t *testing.T) {
	term := newTestTerm(t)
	term.handleInput(key(tcell.KeyRune, ' ', tcell.ModNone))
	if term.engine.Phase() != game.PhaseInFlight {
		t.Errorf("phase = %s, want %s", term.engine.Phase(), game.PhaseInFlight)
	}

	// Aim keys are ignored while the shot resolves
	before, _ := term.engine.Combatant(0)
	term.handleInput(key(tcell.KeyLeft, 0, tcell.ModNone))
	after, _ := term.engine.Combatant(0)
	if after.Angle != before.Angle {
		t.Errorf("angle changed in flight: %.0f -> %.0f", before.Angle, after.Angle)
	}
}

func TestQuitKeys(t *testing.T) {
	term := newTestTerm(t)
	for _, ev := range []*tcell.EventKey{
		key(tcell.KeyEscape, 0, tcell.ModNone),
		key(tcell.KeyCtrlC, 0, tcell.ModCtrl),
		key(tcell.KeyRune, 'q', tcell.ModNone),
	} {
		if term.handleInput(ev) {
			t.Errorf("%s did not quit", ev.Name())
		}
	}
}

func TestCycleWeaponSkipsEmpty(t *testing.T) {
	term := newTestTerm(t, func(cfg *server.Config) {
		cfg.Inventory = map[string]int{"nuke": 0, "mirv": 1}
	})
	e := term.engine

	term.handleInput(key(tcell.KeyRune, 'w', tcell.ModNone))
	c, _ := e.Combatant(0)
	if c.Weapon != game.WeaponMIRV {
		t.Errorf("weapon = %s, want mirv after skipping the empty nuke", c.Weapon)
	}
}

func TestResignAndNextRound(t *testing.T) {
	term := newTestTerm(t)
	term.handleInput(key(tcell.KeyRune, 'r', tcell.ModNone))
	if term.engine.Phase() != game.PhaseRoundOver {
		t.Fatalf("phase = %s, want round over", term.engine.Phase())
	}
	if !strings.Contains(term.status, "Right wins") {
		t.Errorf("status = %q", term.status)
	}

	term.handleInput(key(tcell.KeyRune, 'n', tcell.ModNone))
	if term.engine.Round() != 2 || term.engine.Phase() != game.PhaseWaitingForInput {
		t.Errorf("round %d phase %s, want round 2 waiting", term.engine.Round(), term.engine.Phase())
	}
}

func TestDrawHUD(t *testing.T) {
	term := newTestTerm(t)
	term.draw()

	hud := rowText(term.screen, 0, term.width)
	if !strings.HasPrefix(hud, "Round 1/3") || !strings.Contains(hud, "Left [human]") {
		t.Errorf("HUD = %q", hud)
	}

	// The bottom row is always ground
	r, _, _, _ := term.screen.GetContent(term.width/2, term.height-1)
	if r != '█' {
		t.Errorf("bottom cell = %q, want ground", r)
	}
}
