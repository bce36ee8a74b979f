package game

import (
	"fmt"
	"slices"

	"github.com/lox/holdem/poker"
)

// PotResult records who won one pot.
type PotResult struct {
	Pot
	Winners []int // seat IDs, in remainder order
}

// HandResult contains the results of a completed hand
type HandResult struct {
	HandID   string
	Showdown bool
	Board    []poker.Card
	Pots     []PotResult
	Winnings map[int]int            // seat ID -> chips awarded
	Winners  []int                  // union of pot winners, in seat order
	Ranks    map[int]poker.HandRank // showdown hands by seat ID
}

// Won returns what seat won in total.
func (r *HandResult) Won(seat int) int {
	return r.Winnings[seat]
}

// Total is the sum of every pot.
func (r *HandResult) Total() int {
	total := 0
	for _, p := range r.Pots {
		total += p.Amount
	}
	return total
}

// Clone returns a deep copy.
func (r *HandResult) Clone() *HandResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Board = slices.Clone(r.Board)
	c.Winners = slices.Clone(r.Winners)
	c.Pots = make([]PotResult, len(r.Pots))
	for i, p := range r.Pots {
		c.Pots[i] = PotResult{Pot: clonePots([]Pot{p.Pot})[0], Winners: slices.Clone(p.Winners)}
	}
	c.Winnings = make(map[int]int, len(r.Winnings))
	for k, v := range r.Winnings {
		c.Winnings[k] = v
	}
	c.Ranks = make(map[int]poker.HandRank, len(r.Ranks))
	for k, v := range r.Ranks {
		c.Ranks[k] = v
	}
	return &c
}

// finish settles the hand. Every pot goes to the best hand among its eligible seats, or
// straight to its only eligible seat. Tied winners split evenly and odd chips are handed
// out one at a time starting with the first tied winner left of the button.
func (h *HandState) finish(showdown bool) error {
	h.ToAct = -1
	h.Pots = Allocate(contributions(h.Players))

	res := &HandResult{
		HandID:   h.ID,
		Showdown: showdown,
		Board:    slices.Clone(h.Board),
		Winnings: make(map[int]int),
		Ranks:    make(map[int]poker.HandRank),
	}
	if showdown {
		for _, p := range h.Players {
			if p.Folded {
				continue
			}
			cards := append(slices.Clone(p.HoleCards), h.Board...)
			rank, err := poker.Evaluate(cards)
			if err != nil {
				return fmt.Errorf("evaluating %s: %w", p.Name, err)
			}
			res.Ranks[p.ID] = rank
		}
	}

	for _, pot := range h.Pots {
		winners := h.potWinners(pot, res.Ranks)
		if len(winners) == 0 {
			return &InvariantError{HandID: h.ID, Reason: fmt.Sprintf("pot of %d has no eligible seat", pot.Amount)}
		}
		share, odd := pot.Amount/len(winners), pot.Amount%len(winners)
		for i, id := range winners {
			won := share
			if i < odd {
				won++
			}
			h.PlayerByID(id).Chips += won
			res.Winnings[id] += won
		}
		res.Pots = append(res.Pots, PotResult{Pot: pot, Winners: winners})
	}

	for _, p := range h.Players {
		p.Bet = 0
		p.Committed = 0
		if res.Winnings[p.ID] > 0 {
			res.Winners = append(res.Winners, p.ID)
		}
	}
	h.Pots = nil
	h.result = res
	h.emit(HandEndEvent{Result: *res.Clone(), At: h.clock.Now()})
	return nil
}

// potWinners returns the best eligible hands ordered clockwise from the seat left of the button.
func (h *HandState) potWinners(pot Pot, ranks map[int]poker.HandRank) []int {
	if len(pot.Eligible) <= 1 {
		return slices.Clone(pot.Eligible)
	}
	var winners []int
	var best poker.HandRank
	for _, id := range pot.Eligible {
		rank, ok := ranks[id]
		if !ok {
			continue
		}
		switch cmp := rank.Compare(best); {
		case winners == nil || cmp > 0:
			best, winners = rank, []int{id}
		case cmp == 0:
			winners = append(winners, id)
		}
	}
	slices.SortFunc(winners, func(a, b int) int {
		return h.distanceFromButton(a) - h.distanceFromButton(b)
	})
	return winners
}

// distanceFromButton is 0 for the seat left of the button.
func (h *HandState) distanceFromButton(id int) int {
	for i, p := range h.Players {
		if p.ID == id {
			return h.seat(i - h.Button - 1)
		}
	}
	return len(h.Players)
}
