package game

import (
	"github.com/coder/quartz"

	"github.com/lox/holdem/poker"
)

// HandOption configures a HandState during creation.
type HandOption func(*handConfig)

type handConfig struct {
	handID  string
	deck    *poker.Deck
	clock   quartz.Clock
	publish func(GameEvent)
}

// WithDeck sets a specific pre-arranged deck.
// This overrides the RNG for deck creation.
func WithDeck(deck *poker.Deck) HandOption {
	return func(c *handConfig) {
		c.deck = deck
	}
}

// WithHandID sets the hand identifier instead of generating a UUID.
func WithHandID(id string) HandOption {
	return func(c *handConfig) {
		c.handID = id
	}
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) HandOption {
	return func(c *handConfig) {
		c.clock = clock
	}
}

// WithPublisher receives every event the hand produces, synchronously.
func WithPublisher(publish func(GameEvent)) HandOption {
	return func(c *handConfig) {
		c.publish = publish
	}
}
