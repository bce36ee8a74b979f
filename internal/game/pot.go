package game

import (
	"slices"
)

// Contribution is what one seat has put into the hand so far.
type Contribution struct {
	Seat   int
	Amount int
	Folded bool
	AllIn  bool
}

// Pot represents a pot (main or side)
type Pot struct {
	Amount    int
	Eligible  []int // seat IDs that can win this pot
	Threshold int   // contribution level that closes this pot
}

// Allocate partitions contributions into the main pot followed by side pots in
// ascending threshold order.
//
// Pot boundaries are the distinct totals of live all-in players plus the largest live
// total. Each pot takes every contributor's chips between the previous boundary and its
// own, and is contested by the live players who reached its boundary. Folded chips count
// toward amounts but never toward eligibility; anything a folded player put in above
// the top boundary lands in the top pot. Without an all-in there is exactly one pot.
func Allocate(contribs []Contribution) []Pot {
	levels := potLevels(contribs)
	if len(levels) == 0 {
		total := 0
		for _, c := range contribs {
			total += c.Amount
		}
		if total == 0 {
			return nil
		}
		return []Pot{{Amount: total, Eligible: liveSeats(contribs, 0)}}
	}

	pots := make([]Pot, 0, len(levels))
	prev := 0
	for i, level := range levels {
		top := i == len(levels)-1
		pot := Pot{Threshold: level, Eligible: liveSeats(contribs, level)}
		for _, c := range contribs {
			upper := min(c.Amount, level)
			if top {
				upper = c.Amount
			}
			if upper > prev {
				pot.Amount += upper - prev
			}
		}
		pots = append(pots, pot)
		prev = level
	}
	return pots
}

// potLevels returns the sorted, distinct pot boundaries.
func potLevels(contribs []Contribution) []int {
	var levels []int
	top := 0
	for _, c := range contribs {
		if c.Folded {
			continue
		}
		top = max(top, c.Amount)
		if c.AllIn && c.Amount > 0 {
			levels = append(levels, c.Amount)
		}
	}
	if top == 0 {
		return nil
	}
	levels = append(levels, top)
	slices.Sort(levels)
	return slices.Compact(levels)
}

func liveSeats(contribs []Contribution, level int) []int {
	seats := make([]int, 0, len(contribs))
	for _, c := range contribs {
		if !c.Folded && c.Amount >= level {
			seats = append(seats, c.Seat)
		}
	}
	return seats
}

// PotTotal sums the pot amounts.
func PotTotal(pots []Pot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}

func contributions(players []*Player) []Contribution {
	contribs := make([]Contribution, len(players))
	for i, p := range players {
		contribs[i] = Contribution{Seat: p.ID, Amount: p.Committed, Folded: p.Folded, AllIn: p.AllIn}
	}
	return contribs
}

func clonePots(pots []Pot) []Pot {
	if pots == nil {
		return nil
	}
	out := make([]Pot, len(pots))
	for i, p := range pots {
		out[i] = p
		out[i].Eligible = slices.Clone(p.Eligible)
	}
	return out
}
