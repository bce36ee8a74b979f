package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/coder/quartz"

	"github.com/lox/holdem/poker"
)

// SeatConfig describes a seat when the session is created.
type SeatConfig struct {
	Name  string
	Chips int
	Human bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithBlinds sets the small and big blind.
func WithBlinds(small, big int) SessionOption {
	return func(s *Session) {
		s.smallBlind, s.bigBlind = small, big
	}
}

// WithButton sets the initial dealer seat index.
func WithButton(index int) SessionOption {
	return func(s *Session) {
		s.button = index
	}
}

// WithRNG sets the source used for shuffling.
func WithRNG(rng *rand.Rand) SessionOption {
	return func(s *Session) {
		s.rng = rng
	}
}

// WithSessionClock sets the clock used to timestamp events.
func WithSessionClock(clock quartz.Clock) SessionOption {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithDeckSource replaces shuffled decks, mainly so tests can stack the cards.
func WithDeckSource(next func() *poker.Deck) SessionOption {
	return func(s *Session) {
		s.deckSource = next
	}
}

// Session owns everything that outlives a single hand: the roster, the button, the
// blinds and the shuffling RNG. It is not safe for concurrent use.
type Session struct {
	players    []*Player
	button     int // index into players
	smallBlind int
	bigBlind   int
	rng        *rand.Rand
	clock      quartz.Clock
	deckSource func() *poker.Deck
	humanID    int

	hand       *HandState
	handNumber int
	lastResult *HandResult
	over       bool
	winner     int
	bus        *EventBus
}

// NewSession seats players clockwise in the given order. Seat IDs are the positions in
// seats and stay fixed as busted seats leave the table.
func NewSession(seats []SeatConfig, opts ...SessionOption) (*Session, error) {
	if len(seats) < 2 {
		return nil, ErrNotEnoughSeats
	}
	s := &Session{
		smallBlind: 10,
		bigBlind:   20,
		humanID:    -1,
		winner:     -1,
		bus:        NewEventBus(),
	}
	for i, sc := range seats {
		if sc.Chips <= 0 {
			return nil, fmt.Errorf("seat %q: starting chips must be positive", sc.Name)
		}
		if sc.Human {
			if s.humanID >= 0 {
				return nil, fmt.Errorf("seat %q: only one human seat is supported", sc.Name)
			}
			s.humanID = i
		}
		s.players = append(s.players, &Player{ID: i, Name: sc.Name, Chips: sc.Chips, Bot: !sc.Human})
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	if s.button < 0 || s.button >= len(s.players) {
		return nil, fmt.Errorf("button %d out of range", s.button)
	}
	if s.smallBlind <= 0 || s.bigBlind < s.smallBlind {
		return nil, fmt.Errorf("invalid blinds %d/%d", s.smallBlind, s.bigBlind)
	}
	return s, nil
}

// Subscribe registers fn for every hand and session event.
func (s *Session) Subscribe(fn func(GameEvent)) (unsubscribe func()) {
	return s.bus.Subscribe(SubscriberFunc(fn))
}

// StartHand deals the next hand.
func (s *Session) StartHand() (*HandState, error) {
	if s.over {
		return nil, ErrGameOver
	}
	if s.hand != nil && !s.hand.IsComplete() {
		return nil, ErrHandInProgress
	}
	opts := []HandOption{WithClock(s.clock), WithPublisher(s.bus.Publish)}
	if s.deckSource != nil {
		opts = append(opts, WithDeck(s.deckSource()))
	}
	hand, err := NewHand(s.rng, s.players, s.button, s.smallBlind, s.bigBlind, opts...)
	if err != nil {
		return nil, err
	}
	s.hand = hand
	s.handNumber++
	if hand.IsComplete() {
		s.endHand()
	}
	return hand, nil
}

// Apply forwards an action to the current hand and wraps up the hand once it settles.
func (s *Session) Apply(seatID int, action Action, amount int) error {
	if s.hand == nil {
		return ErrNoHandInPlay
	}
	if err := s.hand.Apply(seatID, action, amount); err != nil {
		return err
	}
	if s.hand.IsComplete() {
		s.endHand()
	}
	return nil
}

// endHand clears per-hand flags, drops busted seats, moves the button and decides
// whether the game is over.
func (s *Session) endHand() {
	s.lastResult = s.hand.Result()

	humanBusted := false
	survivors := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		p.AllIn = false
		p.Bet = 0
		if p.Chips > 0 {
			survivors = append(survivors, p)
			continue
		}
		if p.ID == s.humanID {
			humanBusted = true
			survivors = append(survivors, p)
		}
	}

	// The button moves to the next surviving seat clockwise of the old one.
	n := len(s.players)
	next := 0
	for k := 1; k <= n; k++ {
		candidate := s.players[(s.button+k)%n]
		if i := indexOf(survivors, candidate); i >= 0 && candidate.Chips > 0 {
			next = i
			break
		}
	}
	s.players = survivors
	s.button = next

	switch {
	case humanBusted:
		s.over = true
	case len(s.players) <= 1:
		s.over = true
		if len(s.players) == 1 {
			s.winner = s.players[0].ID
		}
	}
	if s.over {
		ev := GameOverEvent{Winner: s.winner, HumanBusted: humanBusted, Hands: s.handNumber, At: s.clock.Now()}
		if s.winner >= 0 {
			ev.WinnerName = s.players[0].Name
		}
		s.bus.Publish(ev)
	}
}

func indexOf(players []*Player, p *Player) int {
	for i, q := range players {
		if q == p {
			return i
		}
	}
	return -1
}

// Hand returns the current or most recent hand.
func (s *Session) Hand() *HandState { return s.hand }

// HandNumber counts hands dealt so far.
func (s *Session) HandNumber() int { return s.handNumber }

// Players returns the seats still at the table in clockwise order.
func (s *Session) Players() []*Player { return s.players }

// Button returns the dealer's index into Players.
func (s *Session) Button() int { return s.button }

// HumanID returns the human seat ID, or -1 for an all-bot table.
func (s *Session) HumanID() int { return s.humanID }

// BigBlind returns the big blind.
func (s *Session) BigBlind() int { return s.bigBlind }

// LastResult returns the settlement of the most recent finished hand.
func (s *Session) LastResult() *HandResult { return s.lastResult }

// IsOver reports whether no further hands can be dealt.
func (s *Session) IsOver() bool { return s.over }

// Winner returns the last seat standing, or -1.
func (s *Session) Winner() int { return s.winner }

// TotalChips sums every stack plus chips committed to an unsettled hand.
func (s *Session) TotalChips() int {
	total := 0
	for _, p := range s.players {
		total += p.Chips + p.Committed
	}
	return total
}
