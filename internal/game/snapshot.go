package game

import (
	"slices"

	"github.com/lox/holdem/poker"
)

// SeatView is one seat as the presentation layer may see it.
type SeatView struct {
	ID          int
	Name        string
	Chips       int
	Bet         int
	Committed   int
	Folded      bool
	AllIn       bool
	Bot         bool
	HoleCards   []poker.Card // nil when hidden
	CardsHidden bool
}

// GameState is a read-only copy of everything needed to render the table.
type GameState struct {
	HandID        string
	HandNumber    int
	Street        Street
	DeckRemaining int
	Seats         []SeatView
	Board         []poker.Card
	MainPot       int
	SidePots      []Pot
	ToAct         int // seat ID, -1 when nobody is to act
	Dealer        int // seat ID
	CurrentBet    int
	MinRaise      int
	HandComplete  bool
	LastResult    *HandResult
	GameOver      bool
	Winner        int // seat ID, -1 unless one seat is left
}

// Seat returns the view for seat ID, or nil.
func (gs *GameState) Seat(id int) *SeatView {
	for i := range gs.Seats {
		if gs.Seats[i].ID == id {
			return &gs.Seats[i]
		}
	}
	return nil
}

// Snapshot copies the session state. Hole cards are only visible for the human seat,
// and for every live seat once a hand reaches showdown.
func (s *Session) Snapshot() GameState {
	gs := GameState{
		HandNumber: s.handNumber,
		ToAct:      -1,
		Dealer:     -1,
		LastResult: s.lastResult.Clone(),
		GameOver:   s.over,
		Winner:     s.winner,
	}
	if len(s.players) > 0 {
		gs.Dealer = s.players[s.button].ID
	}

	h := s.hand
	showdown := false
	if h != nil {
		gs.HandID = h.ID
		gs.Street = h.Street
		gs.DeckRemaining = h.Deck.Remaining()
		gs.Board = slices.Clone(h.Board)
		gs.HandComplete = h.IsComplete()
		gs.CurrentBet = h.CurrentBet()
		gs.MinRaise = h.MinRaise()
		if p := h.Acting(); p != nil {
			gs.ToAct = p.ID
		}
		if !h.IsComplete() {
			// The dealer of a hand in play is that hand's button.
			gs.Dealer = h.Players[h.Button].ID
		}
		if len(h.Pots) > 0 {
			gs.MainPot = h.Pots[0].Amount
			gs.SidePots = clonePots(h.Pots[1:])
		}
		showdown = h.result != nil && h.result.Showdown
	}

	for _, p := range s.players {
		view := SeatView{
			ID:        p.ID,
			Name:      p.Name,
			Chips:     p.Chips,
			Bet:       p.Bet,
			Committed: p.Committed,
			Folded:    p.Folded,
			AllIn:     p.AllIn,
			Bot:       p.Bot,
		}
		if len(p.HoleCards) > 0 {
			if p.ID == s.humanID || (showdown && !p.Folded) {
				view.HoleCards = slices.Clone(p.HoleCards)
			} else {
				view.CardsHidden = true
			}
		}
		gs.Seats = append(gs.Seats, view)
	}
	return gs
}
