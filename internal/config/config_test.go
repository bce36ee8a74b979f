package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Seats, 6)
	assert.Equal(t, "You", cfg.Seats[0].Name)
	assert.True(t, cfg.Seats[0].Human)
	assert.Equal(t, "Bot 5", cfg.Seats[5].Name)
	for _, s := range cfg.Seats {
		assert.Equal(t, 1000, s.Chips)
	}
	assert.Equal(t, 10, cfg.Table.SmallBlind)
	assert.Equal(t, 20, cfg.Table.BigBlind)
	assert.Equal(t, time.Second, cfg.BotDelay())
	assert.Equal(t, 3*time.Second, cfg.NextHandDelay())
	assert.Equal(t, log.InfoLevel, cfg.Level())
	assert.True(t, cfg.HasHuman())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "holdem.hcl")
	src := `
table {
  small_blind = 25
  big_blind   = 50
  bot_delay   = "250ms"
}

seat "Alice" {
  human = true
}

seat "Rob" {
  chips = 3000
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 25, cfg.Table.SmallBlind)
	assert.Equal(t, 50, cfg.Table.BigBlind)
	assert.Equal(t, 250*time.Millisecond, cfg.BotDelay())
	assert.Equal(t, 3*time.Second, cfg.NextHandDelay())

	seats := cfg.SessionSeats()
	require.Len(t, seats, 2)
	assert.Equal(t, "Alice", seats[0].Name)
	assert.True(t, seats[0].Human)
	assert.Equal(t, 1000, seats[0].Chips)
	assert.Equal(t, 3000, seats[1].Chips)
}

func TestParseBotPolicy(t *testing.T) {
	t.Parallel()
	src := `
bot_policy {
  fold_below     = 0.2
  use_hole_cards = false
  call_below = {
    river = 0.1
  }
}
`
	cfg, err := Parse([]byte(src), "policy.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.Seats, 6, "seats default when none are configured")

	p := cfg.BotParams()
	assert.Equal(t, 0.2, p.FoldBelow)
	assert.Equal(t, 0.5, p.CheckBelow)
	assert.False(t, p.UseHoleCards)
	assert.Equal(t, 0.7, p.CallBelow.Preflop)
	assert.Equal(t, 0.1, p.CallBelow.River)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte(`table {`), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse HCL")

	_, err = Parse([]byte(`table { unknown = 1 }`), "unknown.hcl")
	assert.ErrorContains(t, err, "failed to decode HCL")
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero small blind", func(c *Config) { c.Table.SmallBlind = -1 }, "small blind"},
		{"big below small", func(c *Config) { c.Table.BigBlind = 5 }, "big blind"},
		{"bad delay", func(c *Config) { c.Table.BotDelay = "soon" }, "bot_delay"},
		{"bad log level", func(c *Config) { c.Table.LogLevel = "loud" }, "log_level"},
		{"one seat", func(c *Config) { c.Seats = c.Seats[:1] }, "between 2 and 10"},
		{"duplicate name", func(c *Config) { c.Seats[2].Name = "Bot 1" }, "duplicate"},
		{"two humans", func(c *Config) { c.Seats[1].Human = true }, "at most one human"},
		{"empty stack", func(c *Config) { c.Seats[3].Chips = -5 }, "chips must be positive"},
		{"threshold range", func(c *Config) {
			v := 1.5
			c.BotPolicy.CheckBelow = &v
		}, "check_below"},
		{"unknown street", func(c *Config) {
			c.BotPolicy.CallBelow = map[string]float64{"showdown": 0.5}
		}, "unknown street"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}
