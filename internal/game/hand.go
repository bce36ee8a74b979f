package game

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/holdem/poker"
)

// HandState represents the state of a poker hand
type HandState struct {
	ID         string
	Players    []*Player // clockwise seat order
	Button     int       // index into Players
	Street     Street
	Board      []poker.Card
	Pots       []Pot
	ToAct      int // index into Players, -1 when nobody is to act
	Deck       *poker.Deck
	SmallBlind int
	BigBlind   int

	betting    *bettingRound
	seq        int
	startTotal int
	result     *HandResult
	clock      quartz.Clock
	publish    func(GameEvent)
}

// NewHand shuffles a deck, deals two hole cards to every player starting left of the
// button, posts the blinds from the two seats after the button and puts the action on
// the seat three after the button.
//
// Players are shared with the caller; their chip stacks change as the hand plays out.
func NewHand(rng *rand.Rand, players []*Player, button int, smallBlind, bigBlind int, opts ...HandOption) (*HandState, error) {
	if len(players) < 2 {
		return nil, ErrNotEnoughSeats
	}
	if button < 0 || button >= len(players) {
		return nil, fmt.Errorf("button %d out of range for %d players", button, len(players))
	}
	if smallBlind <= 0 || bigBlind < smallBlind {
		return nil, fmt.Errorf("invalid blinds %d/%d", smallBlind, bigBlind)
	}
	for _, p := range players {
		if p.Chips <= 0 {
			return nil, fmt.Errorf("%w: %s has no chips", ErrNotEnoughSeats, p.Name)
		}
	}

	cfg := &handConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.handID == "" {
		cfg.handID = uuid.NewString()
	}
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	deck := cfg.deck
	if deck == nil {
		if rng == nil {
			return nil, fmt.Errorf("rng is required without a prepared deck")
		}
		deck = poker.NewDeck(rng)
	}

	h := &HandState{
		ID:         cfg.handID,
		Players:    players,
		Button:     button,
		Street:     Preflop,
		Board:      make([]poker.Card, 0, 5),
		ToAct:      -1,
		Deck:       deck,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		betting:    newBettingRound(len(players)),
		clock:      cfg.clock,
		publish:    cfg.publish,
	}
	for _, p := range players {
		p.resetForHand()
		h.startTotal += p.Chips
	}

	if err := h.dealHoleCards(); err != nil {
		return nil, err
	}
	sb, bb := h.postBlinds()
	h.Pots = Allocate(contributions(h.Players))

	h.emit(HandStartEvent{
		HandID:         h.ID,
		Button:         h.Players[button].ID,
		SmallBlindSeat: h.Players[sb].ID,
		BigBlindSeat:   h.Players[bb].ID,
		SmallBlind:     smallBlind,
		BigBlind:       bigBlind,
		Players:        h.names(),
		At:             h.clock.Now(),
	})

	if err := h.progress(h.seat(button + 3)); err != nil {
		return nil, err
	}
	return h, h.checkInvariants()
}

func (h *HandState) dealHoleCards() error {
	n := len(h.Players)
	for range 2 {
		for k := 1; k <= n; k++ {
			c, err := h.Deck.Draw()
			if err != nil {
				return fmt.Errorf("dealing hole cards: %w", err)
			}
			p := h.Players[h.seat(h.Button+k)]
			p.HoleCards = append(p.HoleCards, c)
		}
	}
	return nil
}

// postBlinds posts the small and big blind; a short stack posts what it has and is all-in.
func (h *HandState) postBlinds() (sb, bb int) {
	sb, bb = h.seat(h.Button+1), h.seat(h.Button+2)
	for _, post := range []struct{ idx, amount int }{{sb, h.SmallBlind}, {bb, h.BigBlind}} {
		p := h.Players[post.idx]
		p.commit(min(post.amount, p.Chips))
		h.betting.currentBet = max(h.betting.currentBet, p.Bet)
	}
	return sb, bb
}

// Apply validates and applies an action for seatID. For Raise, amount is the street
// bet the player raises to; it is ignored for the other actions. A rejected action
// returns an error wrapping ErrIllegalAction and leaves the hand untouched.
func (h *HandState) Apply(seatID int, action Action, amount int) error {
	if h.result != nil {
		return ErrHandOver
	}
	if h.ToAct < 0 || h.Players[h.ToAct].ID != seatID {
		return fmt.Errorf("%w: seat %d acted, waiting on %s", ErrOutOfTurn, seatID, h.actingName())
	}
	idx := h.ToAct
	p := h.Players[idx]
	if !p.CanAct() {
		return fmt.Errorf("%w: %s", ErrCannotAct, p.Name)
	}

	owed := h.betting.currentBet - p.Bet
	var chips int
	switch action {
	case Fold:
	case Check:
		if owed > 0 {
			return fmt.Errorf("%w: %s owes %d", ErrCannotCheck, p.Name, owed)
		}
	case Call:
		if owed == 0 {
			action = Check
		}
		chips = min(owed, p.Chips)
	case Raise:
		if minRaise := h.MinRaise(); amount < minRaise {
			return fmt.Errorf("%w: raise to %d, minimum %d", ErrRaiseTooSmall, amount, minRaise)
		}
		if amount > p.Chips {
			return fmt.Errorf("%w: raise to %d with %d chips", ErrRaiseTooLarge, amount, p.Chips)
		}
		chips = amount - p.Bet
	case AllIn:
		chips = p.Chips
	default:
		return fmt.Errorf("%w: %d", ErrUnknownAction, action)
	}

	if action == Fold {
		p.Folded = true
	}
	p.commit(chips)
	h.betting.acted[idx] = true
	if p.Bet > h.betting.currentBet {
		h.betting.raised(idx, p.Bet)
	}
	h.seq++
	h.Pots = Allocate(contributions(h.Players))

	h.emit(PlayerActionEvent{
		HandID: h.ID,
		Seat:   p.ID,
		Name:   p.Name,
		Street: h.Street,
		Action: action,
		Amount: chips,
		BetTo:  p.Bet,
		Pot:    PotTotal(h.Pots),
		At:     h.clock.Now(),
	})

	if err := h.progress(h.seat(idx + 1)); err != nil {
		return err
	}
	return h.checkInvariants()
}

// progress decides what happens after the betting state changed: the hand ends when a
// single player is left, the street advances when its betting is closed, and otherwise
// the action moves to the next player who still has to act, searching from index from.
func (h *HandState) progress(from int) error {
	if h.contenders() == 1 {
		return h.finish(false)
	}
	if h.betting.complete(h.Players) {
		return h.advanceStreet()
	}
	h.ToAct = h.nextToAct(from)
	return nil
}

// nextToAct returns the first player at or after from, cyclically, who can act and has
// either not acted since the last raise or not matched the current bet.
func (h *HandState) nextToAct(from int) int {
	n := len(h.Players)
	for i := range n {
		idx := h.seat(from + i)
		p := h.Players[idx]
		if p.CanAct() && (!h.betting.acted[idx] || p.Bet < h.betting.currentBet) {
			return idx
		}
	}
	return -1
}

// advanceStreet reveals community cards until a street with at least two players able to
// bet is reached, or the river is done and the hand goes to showdown. Cards are drawn
// before the street's bets are cleared, so a failed draw leaves the street as it was.
func (h *HandState) advanceStreet() error {
	for {
		var reveal int
		switch h.Street {
		case Preflop:
			reveal = 3
		case Flop, Turn:
			reveal = 1
		case River:
		default:
			return nil
		}
		var cards []poker.Card
		if reveal > 0 {
			var err error
			if cards, err = h.Deck.DrawN(reveal); err != nil {
				return fmt.Errorf("dealing %s: %w", h.Street+1, err)
			}
		}

		for _, p := range h.Players {
			p.Bet = 0
		}
		h.betting.reset()
		h.ToAct = -1
		if h.Street == River {
			h.Street = Showdown
			return h.finish(true)
		}

		h.Board = append(h.Board, cards...)
		h.Street++
		h.emit(StreetChangeEvent{
			HandID: h.ID,
			Street: h.Street,
			Board:  slices.Clone(h.Board),
			At:     h.clock.Now(),
		})

		if h.canAct() >= 2 {
			h.ToAct = h.nextToAct(h.seat(h.Button + 1))
			return nil
		}
	}
}

func (h *HandState) contenders() int {
	n := 0
	for _, p := range h.Players {
		if !p.Folded {
			n++
		}
	}
	return n
}

func (h *HandState) canAct() int {
	n := 0
	for _, p := range h.Players {
		if p.CanAct() {
			n++
		}
	}
	return n
}

// checkInvariants verifies chip conservation: stacks plus unsettled commitments always
// equal the chips at the table when the hand started, and no stack is negative.
func (h *HandState) checkInvariants() error {
	total, committed := 0, 0
	for _, p := range h.Players {
		if p.Chips < 0 {
			return &InvariantError{HandID: h.ID, Reason: fmt.Sprintf("%s has negative stack %d", p.Name, p.Chips)}
		}
		total += p.Chips + p.Committed
		committed += p.Committed
	}
	if total != h.startTotal {
		return &InvariantError{HandID: h.ID, Reason: fmt.Sprintf("chips total %d, started with %d", total, h.startTotal)}
	}
	if pots := PotTotal(h.Pots); pots != committed {
		return &InvariantError{HandID: h.ID, Reason: fmt.Sprintf("pots hold %d of %d committed", pots, committed)}
	}
	return nil
}

func (h *HandState) seat(i int) int {
	n := len(h.Players)
	return ((i % n) + n) % n
}

func (h *HandState) names() []string {
	names := make([]string, len(h.Players))
	for i, p := range h.Players {
		names[i] = p.Name
	}
	return names
}

func (h *HandState) actingName() string {
	if h.ToAct < 0 {
		return "nobody"
	}
	return h.Players[h.ToAct].Name
}

func (h *HandState) emit(ev GameEvent) {
	if h.publish != nil {
		h.publish(ev)
	}
}

// Acting returns the player to act, or nil.
func (h *HandState) Acting() *Player {
	if h.ToAct < 0 {
		return nil
	}
	return h.Players[h.ToAct]
}

// PlayerByID returns the seat with the given ID, or nil.
func (h *HandState) PlayerByID(id int) *Player {
	for _, p := range h.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CurrentBet is the highest street bet.
func (h *HandState) CurrentBet() int {
	return h.betting.currentBet
}

// MinRaise is the smallest street bet a raise may target: twice the big blind or twice
// the current bet, whichever is larger.
func (h *HandState) MinRaise() int {
	return max(2*h.BigBlind, 2*h.betting.currentBet)
}

// ToCall is what p must add to match the current bet.
func (h *HandState) ToCall(p *Player) int {
	return max(0, h.betting.currentBet-p.Bet)
}

// Seq counts applied actions; it changes whenever the hand moves on.
func (h *HandState) Seq() int {
	return h.seq
}

// IsComplete returns true once the hand has been settled.
func (h *HandState) IsComplete() bool {
	return h.result != nil
}

// Result returns the settlement, or nil while the hand is in play.
func (h *HandState) Result() *HandResult {
	return h.result
}
