package game

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/poker"
)

// testPlayers seats one bot per stack, named P0, P1, ...
func testPlayers(chips ...int) []*Player {
	players := make([]*Player, len(chips))
	for i, c := range chips {
		players[i] = &Player{ID: i, Name: fmt.Sprintf("P%d", i), Chips: c, Bot: true}
	}
	return players
}

// stackedDeck arranges a deck so holes[i] are dealt to seat i when the button is at
// button, followed by the five board cards.
func stackedDeck(button int, holes []string, board string) *poker.Deck {
	n := len(holes)
	parsed := make([][]poker.Card, n)
	for i, h := range holes {
		parsed[i] = poker.MustParseCards(h)
	}
	var cards []poker.Card
	for pass := range 2 {
		for k := 1; k <= n; k++ {
			cards = append(cards, parsed[(button+k)%n][pass])
		}
	}
	cards = append(cards, poker.MustParseCards(board)...)
	return poker.NewStackedDeck(cards...)
}

// newTestHand starts a hand with blinds 10/20 unless the options say otherwise.
func newTestHand(t *testing.T, players []*Player, button int, opts ...HandOption) *HandState {
	t.Helper()
	h, err := NewHand(randutil.New(42), players, button, 10, 20, append([]HandOption{WithHandID("test")}, opts...)...)
	require.NoError(t, err)
	return h
}

func mustApply(t *testing.T, h *HandState, seat int, action Action, amount int) {
	t.Helper()
	require.NoError(t, h.Apply(seat, action, amount), "seat %d %s %d", seat, action, amount)
}

// checkDown checks or calls for whoever is to act until the hand completes.
func checkDown(t *testing.T, h *HandState) {
	t.Helper()
	for guard := 0; !h.IsComplete(); guard++ {
		require.Less(t, guard, 100, "hand did not finish")
		mustApply(t, h, h.Acting().ID, Call, 0)
	}
}

// randomAction picks a legal action for the player to act.
func randomAction(rng *rand.Rand, h *HandState) (Action, int) {
	p := h.Acting()
	owed := h.ToCall(p)
	minRaise := h.MinRaise()
	switch r := rng.IntN(20); {
	case r == 0:
		return AllIn, 0
	case r < 5 && owed > 0:
		return Fold, 0
	case r < 8 && minRaise <= p.Chips:
		return Raise, minRaise + rng.IntN(p.Chips-minRaise+1)
	case owed == 0:
		return Check, 0
	default:
		return Call, 0
	}
}

func totalChips(players []*Player) int {
	total := 0
	for _, p := range players {
		total += p.Chips + p.Committed
	}
	return total
}
