package server

import (
	"fmt"
	"os"
	"time"

	"github.com/lab1702/artillery-web/game"
	"gopkg.in/yaml.v3"
)

// CombatantConfig seats one combatant in the match
type CombatantConfig struct {
	Name       string `yaml:"name"`
	Controller string `yaml:"controller"` // human, easy, medium or hard
}

// Config describes the match the server hosts
type Config struct {
	Port          string            `yaml:"port"`
	Width         float64           `yaml:"width"`
	Height        float64           `yaml:"height"`
	Seed          int64             `yaml:"seed"` // 0 picks a time-based seed
	Rounds        int               `yaml:"rounds"`
	TickRate      int               `yaml:"tick_rate"` // Simulation steps per second
	RoundDelay    float64           `yaml:"round_delay_seconds"`
	StartingMoney int               `yaml:"starting_money"`
	Shields       int               `yaml:"shields"` // Shield items each combatant starts with
	Inventory     map[string]int    `yaml:"inventory"`
	Combatants    []CombatantConfig `yaml:"combatants"`
	Debug         bool              `yaml:"debug"`
}

// DefaultConfig is one human against a medium AI over three rounds
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a YAML match description, filling defaults for omitted fields
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.Width == 0 {
		c.Width = game.DefaultWidth
	}
	if c.Height == 0 {
		c.Height = game.DefaultHeight
	}
	if c.Rounds == 0 {
		c.Rounds = 3
	}
	if c.TickRate == 0 {
		c.TickRate = 60
	}
	if c.RoundDelay == 0 {
		c.RoundDelay = 5
	}
	if len(c.Combatants) == 0 {
		c.Combatants = []CombatantConfig{
			{Name: "Player", Controller: "human"},
			{Name: "CPU", Controller: "medium"},
		}
	}
	for i := range c.Combatants {
		if c.Combatants[i].Controller == "" {
			c.Combatants[i].Controller = "human"
		}
	}
}

// Validate rejects configurations the engine cannot play
func (c *Config) Validate() error {
	if len(c.Combatants) < 2 {
		return fmt.Errorf("config: need at least 2 combatants, got %d", len(c.Combatants))
	}
	if c.Rounds < 1 {
		return fmt.Errorf("config: rounds must be positive, got %d", c.Rounds)
	}
	if c.TickRate < 1 || c.TickRate > 240 {
		return fmt.Errorf("config: tick_rate must be within 1..240, got %d", c.TickRate)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: invalid scene %.0fx%.0f", c.Width, c.Height)
	}
	if c.RoundDelay < 0 {
		return fmt.Errorf("config: negative round delay %.1f", c.RoundDelay)
	}
	if _, err := c.Difficulties(); err != nil {
		return err
	}
	if _, err := c.StartingInventory(); err != nil {
		return err
	}
	return nil
}

// Difficulties returns the controller of every configured combatant in order
func (c *Config) Difficulties() ([]game.Difficulty, error) {
	out := make([]game.Difficulty, len(c.Combatants))
	for i, cc := range c.Combatants {
		d, err := game.ParseDifficulty(cc.Controller)
		if err != nil {
			return nil, fmt.Errorf("config: combatant %d: %w", i, err)
		}
		out[i] = d
	}
	return out, nil
}

// StartingInventory converts the weapon-key inventory into engine terms.
// An empty inventory keeps the engine default loadout.
func (c *Config) StartingInventory() (map[game.WeaponType]int, error) {
	if len(c.Inventory) == 0 {
		return game.DefaultInventory(), nil
	}
	out := make(map[game.WeaponType]int, len(c.Inventory))
	for key, n := range c.Inventory {
		w, err := game.ParseWeapon(key)
		if err != nil {
			return nil, fmt.Errorf("config: inventory: %w", err)
		}
		if n < game.Unlimited {
			return nil, fmt.Errorf("config: inventory %s: invalid count %d", key, n)
		}
		out[w] = n
	}
	return out, nil
}

// BuildEngine starts a match on a fresh engine seeded with seed, applying
// the configured names, loadout and shields
func (c *Config) BuildEngine(seed int64) (*game.Engine, error) {
	inventory, err := c.StartingInventory()
	if err != nil {
		return nil, err
	}
	controllers, err := c.Difficulties()
	if err != nil {
		return nil, err
	}

	engine := game.NewEngine(
		game.WithSeed(seed),
		game.WithDimensions(c.Width, c.Height),
		game.WithStartingInventory(inventory),
		game.WithStartingMoney(c.StartingMoney),
		game.WithDebugLog(c.Debug),
	)
	if err := engine.NewMatch(len(c.Combatants), controllers, c.Rounds); err != nil {
		return nil, fmt.Errorf("start match: %w", err)
	}
	for i, cc := range c.Combatants {
		id := game.CombatantID(i)
		if name := sanitizeName(cc.Name); name != "" {
			engine.SetName(id, name)
		}
		if c.Shields > 0 {
			engine.GrantShields(id, c.Shields)
		}
	}
	return engine, nil
}

// TickInterval is the wall-clock period between simulation steps
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// RoundDelayDuration is the pause between a round ending and the next starting
func (c *Config) RoundDelayDuration() time.Duration {
	return time.Duration(c.RoundDelay * float64(time.Second))
}
