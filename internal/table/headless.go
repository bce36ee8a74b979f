package table

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/statistics"
)

// Report summarizes a headless session.
type Report struct {
	Hands     int
	Showdowns int
	Winner    int         // seat ID, -1 if the hand limit was reached first
	Stacks    map[int]int // final stacks of the seats still seated
	Stats     statistics.Statistics
}

// RunHeadless plays session to completion, or for at most maxHands hands, with every seat
// driven by a bot and no delays. Per-seat results are collected in big blinds.
func RunHeadless(ctx context.Context, session *game.Session, params bot.Params, rng *rand.Rand, logger *log.Logger, maxHands int) (*Report, error) {
	b := bot.New(params, rng, logger)
	report := &Report{Winner: -1, Stacks: make(map[int]int)}

	for report.Hands < maxHands && !session.IsOver() {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		before := make(map[int]int, len(session.Players()))
		for _, p := range session.Players() {
			before[p.ID] = p.Chips
		}
		bb := session.BigBlind()

		h, err := session.StartHand()
		if err != nil {
			return report, fmt.Errorf("hand %d: %w", report.Hands+1, err)
		}
		players := append([]*game.Player(nil), h.Players...)
		button := h.Button

		for !h.IsComplete() {
			p := h.Acting()
			d := b.Act(p.Name, bot.ViewOf(h, p))
			if err := session.Apply(p.ID, d.Action, d.Amount); err != nil {
				return report, fmt.Errorf("hand %s: %s %s: %w", h.ID, p.Name, d.Action, err)
			}
		}

		result := h.Result()
		report.Hands++
		if result.Showdown {
			report.Showdowns++
		}
		for i, p := range players {
			report.Stats.Add(statistics.HandResult{
				NetBB:          float64(p.Chips-before[p.ID]) / float64(bb),
				Position:       (i - button + len(players)) % len(players),
				WentToShowdown: result.Showdown,
				PotChips:       result.Total(),
				BigBlind:       bb,
			})
		}
		logger.Debug("headless hand", "hand", h.ID, "winners", result.Winners, "pot", result.Total())
	}

	report.Winner = session.Winner()
	for _, p := range session.Players() {
		report.Stacks[p.ID] = p.Chips
	}
	return report, nil
}
