package bot

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
)

// Bot plays a seat by feeding draws from its own RNG into Decide.
type Bot struct {
	params Params
	rng    *rand.Rand
	logger *log.Logger
}

// New creates a bot. The RNG is required so simulations stay reproducible.
func New(params Params, rng *rand.Rand, logger *log.Logger) *Bot {
	return &Bot{
		params: params,
		rng:    rng,
		logger: logger.WithPrefix("bot"),
	}
}

// Act draws once and returns the policy's decision.
func (b *Bot) Act(name string, view View) Decision {
	draw := b.rng.Float64()
	d := Decide(view, draw, b.params)
	b.logger.Debug("decision",
		"player", name,
		"street", view.Street,
		"toCall", view.ToCall,
		"chips", view.Chips,
		"draw", draw,
		"action", d.Action,
		"amount", d.Amount,
		"reasoning", d.Reasoning)
	return d
}
