package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/internal/game"
)

// Config represents the complete table configuration
type Config struct {
	Table     *TableSettings  `hcl:"table,block"`
	Seats     []SeatSettings  `hcl:"seat,block"`
	BotPolicy *PolicySettings `hcl:"bot_policy,block"`
}

// TableSettings contains the stakes and pacing
type TableSettings struct {
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	BotDelay      string `hcl:"bot_delay,optional"`
	NextHandDelay string `hcl:"next_hand_delay,optional"`
	LogLevel      string `hcl:"log_level,optional"`
}

// SeatSettings defines one seat, in clockwise order
type SeatSettings struct {
	Name  string `hcl:"name,label"`
	Human bool   `hcl:"human,optional"`
	Chips int    `hcl:"chips,optional"`
}

// PolicySettings tunes the bots; unset values keep the defaults
type PolicySettings struct {
	FoldBelow    *float64           `hcl:"fold_below,optional"`
	CheckBelow   *float64           `hcl:"check_below,optional"`
	CallBelow    map[string]float64 `hcl:"call_below,optional"`
	UseHoleCards *bool              `hcl:"use_hole_cards,optional"`
}

const (
	defaultSmallBlind    = 10
	defaultBigBlind      = 20
	defaultStartingChips = 1000
	defaultBotDelay      = "1s"
	defaultNextHandDelay = "3s"
	defaultLogLevel      = "info"
)

// Default returns one human seat and five bots with 1000 chips each at 10/20.
func Default() *Config {
	cfg := &Config{
		Seats: []SeatSettings{{Name: "You", Human: true}},
	}
	for i := 1; i <= 5; i++ {
		cfg.Seats = append(cfg.Seats, SeatSettings{Name: fmt.Sprintf("Bot %d", i)})
	}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from an HCL file, returning defaults when it does not exist.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills in defaults for anything unset.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	if len(cfg.Seats) == 0 {
		cfg.Seats = Default().Seats
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Table == nil {
		c.Table = &TableSettings{}
	}
	t := c.Table
	if t.SmallBlind == 0 {
		t.SmallBlind = defaultSmallBlind
	}
	if t.BigBlind == 0 {
		t.BigBlind = max(defaultBigBlind, 2*t.SmallBlind)
	}
	if t.StartingChips == 0 {
		t.StartingChips = defaultStartingChips
	}
	if t.BotDelay == "" {
		t.BotDelay = defaultBotDelay
	}
	if t.NextHandDelay == "" {
		t.NextHandDelay = defaultNextHandDelay
	}
	if t.LogLevel == "" {
		t.LogLevel = defaultLogLevel
	}
	for i := range c.Seats {
		if c.Seats[i].Chips == 0 {
			c.Seats[i].Chips = t.StartingChips
		}
	}
	if c.BotPolicy == nil {
		c.BotPolicy = &PolicySettings{}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	t := c.Table
	if t.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if t.BigBlind < t.SmallBlind {
		return fmt.Errorf("big blind must be at least the small blind")
	}
	if _, err := log.ParseLevel(t.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if _, err := time.ParseDuration(t.BotDelay); err != nil {
		return fmt.Errorf("bot_delay: %w", err)
	}
	if _, err := time.ParseDuration(t.NextHandDelay); err != nil {
		return fmt.Errorf("next_hand_delay: %w", err)
	}

	if len(c.Seats) < 2 || len(c.Seats) > 10 {
		return fmt.Errorf("between 2 and 10 seats are required, got %d", len(c.Seats))
	}
	names := make(map[string]bool, len(c.Seats))
	humans := 0
	for _, s := range c.Seats {
		if names[s.Name] {
			return fmt.Errorf("seat %q: duplicate name", s.Name)
		}
		names[s.Name] = true
		if s.Chips <= 0 {
			return fmt.Errorf("seat %q: chips must be positive", s.Name)
		}
		if s.Human {
			humans++
		}
	}
	if humans > 1 {
		return fmt.Errorf("at most one human seat is supported")
	}

	p := c.BotParams()
	for name, v := range map[string]float64{
		"fold_below": p.FoldBelow, "check_below": p.CheckBelow,
		"call_below.preflop": p.CallBelow.Preflop, "call_below.flop": p.CallBelow.Flop,
		"call_below.turn": p.CallBelow.Turn, "call_below.river": p.CallBelow.River,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("bot_policy %s: %v is outside [0, 1]", name, v)
		}
	}
	for street := range c.BotPolicy.CallBelow {
		switch street {
		case "preflop", "flop", "turn", "river":
		default:
			return fmt.Errorf("bot_policy call_below: unknown street %q", street)
		}
	}
	return nil
}

// SessionSeats converts the seats for game.NewSession.
func (c *Config) SessionSeats() []game.SeatConfig {
	seats := make([]game.SeatConfig, len(c.Seats))
	for i, s := range c.Seats {
		seats[i] = game.SeatConfig{Name: s.Name, Chips: s.Chips, Human: s.Human}
	}
	return seats
}

// BotParams merges the configured policy over bot.DefaultParams.
func (c *Config) BotParams() bot.Params {
	p := bot.DefaultParams()
	bp := c.BotPolicy
	if bp == nil {
		return p
	}
	if bp.FoldBelow != nil {
		p.FoldBelow = *bp.FoldBelow
	}
	if bp.CheckBelow != nil {
		p.CheckBelow = *bp.CheckBelow
	}
	if bp.UseHoleCards != nil {
		p.UseHoleCards = *bp.UseHoleCards
	}
	for street, v := range bp.CallBelow {
		switch street {
		case "preflop":
			p.CallBelow.Preflop = v
		case "flop":
			p.CallBelow.Flop = v
		case "turn":
			p.CallBelow.Turn = v
		case "river":
			p.CallBelow.River = v
		}
	}
	return p
}

// BotDelay is the pause before a bot acts. Call Validate first.
func (c *Config) BotDelay() time.Duration {
	d, _ := time.ParseDuration(c.Table.BotDelay)
	return d
}

// NextHandDelay is the pause between hands. Call Validate first.
func (c *Config) NextHandDelay() time.Duration {
	d, _ := time.ParseDuration(c.Table.NextHandDelay)
	return d
}

// Level is the configured log level. Call Validate first.
func (c *Config) Level() log.Level {
	lvl, _ := log.ParseLevel(c.Table.LogLevel)
	return lvl
}

// HasHuman reports whether a seat is played interactively.
func (c *Config) HasHuman() bool {
	for _, s := range c.Seats {
		if s.Human {
			return true
		}
	}
	return false
}
