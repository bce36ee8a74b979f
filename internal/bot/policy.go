package bot

import (
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/poker"
)

// StreetThresholds holds one threshold per betting street.
type StreetThresholds struct {
	Preflop float64
	Flop    float64
	Turn    float64
	River   float64
}

// For returns the threshold for street; showdown uses the river value.
func (st StreetThresholds) For(street game.Street) float64 {
	switch street {
	case game.Preflop:
		return st.Preflop
	case game.Flop:
		return st.Flop
	case game.Turn:
		return st.Turn
	default:
		return st.River
	}
}

// Params tunes the policy. Every threshold is compared against a uniform draw in [0, 1).
type Params struct {
	FoldBelow  float64          // facing a bet: fold when draw < FoldBelow
	CheckBelow float64          // nothing owed: check when draw < CheckBelow, otherwise raise
	CallBelow  StreetThresholds // facing a bet: call when draw < threshold, otherwise raise
	// UseHoleCards adjusts preflop folding by starting hand: premium hands never fold
	// and trash folds twice as often.
	UseHoleCards bool
}

// DefaultParams calls less and raises more on every later street.
func DefaultParams() Params {
	return Params{
		FoldBelow:    0.1,
		CheckBelow:   0.5,
		CallBelow:    StreetThresholds{Preflop: 0.7, Flop: 0.6, Turn: 0.5, River: 0.4},
		UseHoleCards: true,
	}
}

// View is what a bot knows when it is asked to act.
type View struct {
	Street     game.Street
	Chips      int // remaining stack
	Bet        int // own street bet
	ToCall     int
	CurrentBet int
	MinRaise   int // smallest legal raise target
	BigBlind   int
	Pot        int
	HoleCards  []poker.Card
}

// ViewOf builds the view for p in hand h.
func ViewOf(h *game.HandState, p *game.Player) View {
	return View{
		Street:     h.Street,
		Chips:      p.Chips,
		Bet:        p.Bet,
		ToCall:     h.ToCall(p),
		CurrentBet: h.CurrentBet(),
		MinRaise:   h.MinRaise(),
		BigBlind:   h.BigBlind,
		Pot:        game.PotTotal(h.Pots),
		HoleCards:  p.HoleCards,
	}
}

// Decision is a bot's chosen action. Amount is the raise target for game.Raise.
type Decision struct {
	Action    game.Action
	Amount    int
	Reasoning string
}

// Decide maps a view and a uniform draw in [0, 1) to a legal action. With nothing owed
// it checks or raises and never folds. Facing a bet it folds, calls or raises depending
// on where the draw falls. Raise targets stay within [MinRaise, Chips]; whenever the
// commitment would take the whole stack the decision is AllIn instead.
func Decide(view View, draw float64, params Params) Decision {
	if view.ToCall == 0 {
		if draw < params.CheckBelow {
			return Decision{Action: game.Check, Reasoning: "checking"}
		}
		// Size between the minimum raise and the pot, scaled by the draw.
		ceiling := max(view.MinRaise, min(view.Chips, view.Pot))
		target := view.MinRaise + int(float64(ceiling-view.MinRaise)*draw)
		return raise(view, target, "betting into an unopened street")
	}

	foldBelow := params.FoldBelow
	if params.UseHoleCards && view.Street == game.Preflop && len(view.HoleCards) == 2 {
		switch poker.CategorizeHoleCards(view.HoleCards[0], view.HoleCards[1]) {
		case poker.CategoryPremium:
			foldBelow = 0
		case poker.CategoryTrash:
			foldBelow = min(1, 2*foldBelow)
		}
	}

	switch {
	case draw < foldBelow:
		return Decision{Action: game.Fold, Reasoning: "folding to a bet"}
	case draw < params.CallBelow.For(view.Street):
		if view.ToCall >= view.Chips {
			return Decision{Action: game.AllIn, Reasoning: "calling all-in"}
		}
		return Decision{Action: game.Call, Reasoning: "calling"}
	}

	// Raise by the amount owed times 1..2 plus up to five big blinds.
	target := view.CurrentBet + int(float64(view.ToCall)*(1+draw)+float64(view.BigBlind)*draw*5)
	return raise(view, target, "raising over a bet")
}

// raise clamps target into the legal range and turns raises that would commit the whole
// stack into AllIn. A raise may not target more than the remaining stack.
func raise(view View, target int, why string) Decision {
	target = max(target, view.MinRaise)
	if target-view.Bet >= view.Chips {
		return Decision{Action: game.AllIn, Reasoning: why + ", all-in"}
	}
	if target > view.Chips {
		if view.MinRaise > view.Chips {
			return Decision{Action: game.AllIn, Reasoning: why + ", all-in"}
		}
		target = view.Chips
	}
	return Decision{Action: game.Raise, Amount: target, Reasoning: why}
}
