package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lox/holdem/internal/display"
	"github.com/lox/holdem/poker"
)

type EvalCmd struct {
	Cards []string `arg:"" help:"5 to 7 cards, e.g. As Kd 7h 7c 2s"`
}

func (c *EvalCmd) Run() error {
	cards, err := poker.ParseCards(strings.Join(c.Cards, " "))
	if err != nil {
		return err
	}
	rank, best, err := poker.EvaluateBest(cards)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s  %s\n", display.HandInfoStyle.Render(rank.String()), display.Cards(best[:]))
	return nil
}
