package game

import (
	"fmt"
	"strings"
)

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	if s < Preflop || s > Showdown {
		return "unknown"
	}
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	AllIn
)

func (a Action) String() string {
	if a < Fold || a > AllIn {
		return "unknown"
	}
	return [...]string{"fold", "check", "call", "raise", "allin"}[a]
}

// ParseAction converts user input such as "call" or "all-in" into an Action.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold", "f":
		return Fold, nil
	case "check", "x":
		return Check, nil
	case "call", "c":
		return Call, nil
	case "raise", "bet", "r":
		return Raise, nil
	case "allin", "all-in", "all_in", "a":
		return AllIn, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// bettingRound tracks the street-level betting state.
type bettingRound struct {
	currentBet int
	acted      []bool // acted since the last raise
}

func newBettingRound(numPlayers int) *bettingRound {
	return &bettingRound{acted: make([]bool, numPlayers)}
}

func (br *bettingRound) reset() {
	br.currentBet = 0
	clear(br.acted)
}

// raised records that seat pushed the current bet up; everyone else must act again.
func (br *bettingRound) raised(seat, newBet int) {
	br.currentBet = newBet
	clear(br.acted)
	br.acted[seat] = true
}

// complete reports whether the street's betting is closed. Every player who can act
// must have matched the current bet and acted since the last raise. The big blind has
// not acted when the blinds go in, which gives it the preflop option. With at most one
// player able to act there is nobody left to bet against once that player has matched.
func (br *bettingRound) complete(players []*Player) bool {
	canAct := 0
	allActed := true
	for i, p := range players {
		if !p.CanAct() {
			continue
		}
		canAct++
		if p.Bet != br.currentBet {
			return false
		}
		if !br.acted[i] {
			allActed = false
		}
	}
	return allActed || canAct <= 1
}
