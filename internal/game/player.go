package game

import (
	"slices"

	"github.com/lox/holdem/poker"
)

// Player is a seat at the table. It persists across hands within a session;
// Bet, Committed, HoleCards, Folded and AllIn are reset at the start of every hand.
type Player struct {
	ID        int
	Name      string
	Chips     int
	Bet       int // current street
	Committed int // whole hand, including Bet
	HoleCards []poker.Card
	Folded    bool
	AllIn     bool
	Bot       bool
}

// CanAct reports whether the player can still take a betting action this hand.
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn && p.Chips > 0
}

func (p *Player) resetForHand() {
	p.Bet = 0
	p.Committed = 0
	p.HoleCards = p.HoleCards[:0]
	p.Folded = false
	p.AllIn = false
}

// commit moves chips from the stack into the current bet.
func (p *Player) commit(chips int) {
	p.Chips -= chips
	p.Bet += chips
	p.Committed += chips
	if p.Chips == 0 {
		p.AllIn = true
	}
}

// Clone returns a deep copy.
func (p *Player) Clone() *Player {
	c := *p
	c.HoleCards = slices.Clone(p.HoleCards)
	return &c
}
