// Package game implements no-limit Texas Hold'em betting and settlement.
//
// The main type is HandState, which runs one hand from the blinds to settlement:
// dealing, validating and applying actions, closing streets, building side pots and
// paying out at showdown. Session wraps successive hands with a persistent roster,
// button and RNG, and produces GameState snapshots for rendering.
//
// # Basic Usage
//
//	s, _ := game.NewSession([]game.SeatConfig{
//	    {Name: "Alice", Chips: 1000},
//	    {Name: "Bob", Chips: 1000},
//	}, game.WithBlinds(10, 20), game.WithRNG(randutil.New(42)))
//	h, _ := s.StartHand()
//	err := s.Apply(h.Acting().ID, game.Call, 0)
//	if errors.Is(err, game.ErrIllegalAction) {
//	    // rejected, nothing changed
//	}
//
// # Architecture
//
//   - bettingRound: tracks the current bet and who has acted since the last raise
//   - Allocate: splits committed chips into a main pot and side pots
//   - poker.Evaluate: ranks the best five of seven cards at showdown
//
// Every state change is checked for chip conservation; a violation is reported as an
// *InvariantError.
package game
