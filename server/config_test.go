package server

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lab1702/artillery-web/game"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "match.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Port != "8080" || cfg.Rounds != 3 || cfg.TickRate != 60 {
		t.Errorf("defaults = port %s rounds %d tick %d", cfg.Port, cfg.Rounds, cfg.TickRate)
	}
	diffs, err := cfg.Difficulties()
	if err != nil {
		t.Fatalf("Difficulties failed: %v", err)
	}
	if len(diffs) != 2 || diffs[0] != game.Human || diffs[1] != game.Medium {
		t.Errorf("default controllers = %v, want [human medium]", diffs)
	}
	if cfg.TickInterval() != time.Second/60 {
		t.Errorf("tick interval = %v", cfg.TickInterval())
	}
	if cfg.RoundDelayDuration() != 5*time.Second {
		t.Errorf("round delay = %v, want 5s", cfg.RoundDelayDuration())
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
port: "9090"
seed: 7
rounds: 5
shields: 1
inventory:
  missile: -1
  nuke: 3
combatants:
  - name: Alice
  - name: Bot
    controller: hard
  - name: Rookie
    controller: easy
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Port != "9090" || cfg.Seed != 7 || cfg.Rounds != 5 || cfg.Shields != 1 {
		t.Errorf("loaded = %+v", cfg)
	}
	if cfg.Width != game.DefaultWidth || cfg.TickRate != 60 {
		t.Errorf("omitted fields not defaulted: width %.0f tick %d", cfg.Width, cfg.TickRate)
	}

	diffs, _ := cfg.Difficulties()
	want := []game.Difficulty{game.Human, game.Hard, game.Easy}
	for i := range want {
		if diffs[i] != want[i] {
			t.Errorf("controller %d = %s, want %s", i, diffs[i], want[i])
		}
	}

	inv, err := cfg.StartingInventory()
	if err != nil {
		t.Fatalf("StartingInventory failed: %v", err)
	}
	if len(inv) != 2 || inv[game.WeaponNuke] != 3 || inv[game.WeaponMissile] != game.Unlimited {
		t.Errorf("inventory = %v", inv)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"Malformed YAML", "rounds: [", "parse config"},
		{"Single combatant", "combatants:\n  - name: Solo\n", "at least 2 combatants"},
		{"Negative rounds", "rounds: -1\n", "rounds must be positive"},
		{"Tick rate too high", "tick_rate: 1000\n", "tick_rate"},
		{"Unknown controller", "combatants:\n  - controller: genius\n  - controller: easy\n", "unknown controller"},
		{"Unknown weapon", "inventory:\n  laser: 2\n", "unknown weapon"},
		{"Bad ammo count", "inventory:\n  nuke: -5\n", "invalid count"},
		{"Negative delay", "round_delay_seconds: -2\n", "negative round delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadConfig error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig of missing file succeeded")
	}
}

func TestBuildEngine(t *testing.T) {
	cfg := &Config{
		Shields:       2,
		StartingMoney: 500,
		Combatants: []CombatantConfig{
			{Name: "Alice"},
			{Name: "<>", Controller: "hard"},
		},
	}
	cfg.applyDefaults()

	e, err := cfg.BuildEngine(11)
	if err != nil {
		t.Fatalf("BuildEngine failed: %v", err)
	}
	if e.Round() != 1 || e.TotalRounds() != 3 || e.Phase() != game.PhaseWaitingForInput {
		t.Errorf("round %d/%d phase %s", e.Round(), e.TotalRounds(), e.Phase())
	}

	alice, _ := e.Combatant(0)
	if alice.Name != "Alice" || alice.Shields != 2 || alice.Money != 500 {
		t.Errorf("alice = %+v", alice)
	}
	bot, _ := e.Combatant(1)
	if bot.Name == "" || bot.Name == "<>" || !bot.IsAI() {
		t.Errorf("bot name %q ai %v, want default name kept for an empty sanitized name", bot.Name, bot.IsAI())
	}
}
