// Package display renders table snapshots and game events as styled terminal text.
package display

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/poker"
)

// Card renders one card, red for hearts and diamonds.
func Card(c poker.Card) string {
	if c.Suit.IsRed() {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}

// Cards renders cards separated by spaces.
func Cards(cards []poker.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = Card(c)
	}
	return strings.Join(parts, " ")
}

// Table renders the snapshot from the point of view of seat humanID.
func Table(gs game.GameState, humanID int) string {
	var b strings.Builder

	header := fmt.Sprintf("Hand #%d  %s", gs.HandNumber, gs.Street)
	b.WriteString(HeaderStyle.Render(header))
	b.WriteString("\n")

	board := InfoStyle.Render("no cards")
	if len(gs.Board) > 0 {
		board = Cards(gs.Board)
	}
	pots := fmt.Sprintf("Pot %d", gs.MainPot)
	for i, sp := range gs.SidePots {
		pots += fmt.Sprintf("  Side %d: %d", i+1, sp.Amount)
	}
	b.WriteString(BoardStyle.Render(board + "\n" + HandInfoStyle.Render(pots)))
	b.WriteString("\n")

	for _, s := range gs.Seats {
		b.WriteString(seatLine(gs, s, humanID))
		b.WriteString("\n")
	}

	if gs.ToAct >= 0 && gs.ToAct == humanID {
		if seat := gs.Seat(humanID); seat != nil {
			owed := gs.CurrentBet - seat.Bet
			prompt := fmt.Sprintf("Your turn: %d to call, raise to at least %d", owed, gs.MinRaise)
			if owed == 0 {
				prompt = fmt.Sprintf("Your turn: check or bet at least %d", gs.MinRaise)
			}
			b.WriteString(ActionsStyle.Render(prompt))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func seatLine(gs game.GameState, s game.SeatView, humanID int) string {
	marker := "  "
	switch {
	case s.ID == gs.ToAct:
		marker = "> "
	case s.ID == gs.Dealer:
		marker = "D "
	}

	name := s.Name
	if s.ID == humanID {
		name += " (you)"
	}

	cards := ""
	switch {
	case len(s.HoleCards) > 0:
		cards = Cards(s.HoleCards)
	case s.CardsHidden:
		cards = InfoStyle.Render("[??]")
	}

	status := ""
	switch {
	case s.Folded:
		status = "folded"
	case s.AllIn:
		status = "all-in"
	case s.Bet > 0:
		status = fmt.Sprintf("bet %d", s.Bet)
	}

	line := fmt.Sprintf("%s%-14s %6d  %-8s", marker, name, s.Chips, status)
	if s.Folded {
		return FoldedStyle.Render(line) + " " + cards
	}
	return SeatStyle.Render(line) + " " + cards
}

// Event renders a one-line description of ev, or "" for events not worth printing.
func Event(ev game.GameEvent) string {
	switch e := ev.(type) {
	case game.HandStartEvent:
		return InfoStyle.Render(fmt.Sprintf("--- new hand, blinds %d/%d ---", e.SmallBlind, e.BigBlind))
	case game.PlayerActionEvent:
		switch e.Action {
		case game.Fold, game.Check:
			return fmt.Sprintf("%s %ss", e.Name, e.Action)
		case game.Call:
			return fmt.Sprintf("%s calls %d", e.Name, e.Amount)
		case game.Raise:
			return fmt.Sprintf("%s raises to %d", e.Name, e.BetTo)
		default:
			return fmt.Sprintf("%s is all-in for %d", e.Name, e.BetTo)
		}
	case game.StreetChangeEvent:
		return HandInfoStyle.Render(e.Street.String()) + ": " + Cards(e.Board)
	case game.GameOverEvent:
		if e.HumanBusted {
			return ErrorStyle.Render(fmt.Sprintf("You are out of chips after %d hands.", e.Hands))
		}
		return SuccessStyle.Render(fmt.Sprintf("%s wins the game after %d hands!", e.WinnerName, e.Hands))
	}
	return ""
}

// Result renders who won each pot. names maps seat IDs to player names.
func Result(r *game.HandResult, names map[int]string) string {
	if r == nil {
		return ""
	}
	var lines []string
	for i, pr := range r.Pots {
		label := "Main pot"
		if i > 0 {
			label = fmt.Sprintf("Side pot %d", i)
		}
		winners := make([]string, 0, len(pr.Winners))
		for _, id := range pr.Winners {
			winners = append(winners, names[id])
		}
		line := fmt.Sprintf("%s (%d): %s", label, pr.Amount, strings.Join(winners, ", "))
		if r.Showdown && len(pr.Winners) > 0 {
			if rank, ok := r.Ranks[pr.Winners[0]]; ok {
				line += " with " + rank.String()
			}
		}
		lines = append(lines, SuccessStyle.Render(line))
	}
	if r.Showdown {
		ids := make([]int, 0, len(r.Ranks))
		for id := range r.Ranks {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			lines = append(lines, InfoStyle.Render(fmt.Sprintf("  %s: %s", names[id], r.Ranks[id])))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
