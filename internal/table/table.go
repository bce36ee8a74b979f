// Package table runs a game session in real time: bots act after a delay, the next hand
// is dealt after a pause, and a human seat submits actions from any goroutine.
package table

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/internal/game"
)

var (
	// ErrClosed is returned once Close has been called.
	ErrClosed = errors.New("table closed")
	// ErrHalted is returned after an engine failure stopped the table.
	ErrHalted = errors.New("table halted")
)

// Option configures a Table.
type Option func(*Table)

// WithClock sets the clock used for bot and next-hand delays.
func WithClock(clock quartz.Clock) Option {
	return func(t *Table) { t.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(t *Table) { t.logger = logger }
}

// WithBotDelay sets how long a bot waits before acting.
func WithBotDelay(d time.Duration) Option {
	return func(t *Table) { t.botDelay = d }
}

// WithNextHandDelay sets the pause between the end of a hand and the next deal.
func WithNextHandDelay(d time.Duration) Option {
	return func(t *Table) { t.nextHandDelay = d }
}

// WithBotParams sets the policy used by every bot seat.
func WithBotParams(params bot.Params) Option {
	return func(t *Table) { t.botParams = params }
}

// WithBotRNG sets the source of bot draws.
func WithBotRNG(rng *rand.Rand) Option {
	return func(t *Table) { t.botRNG = rng }
}

// Table serializes every mutation of a session behind one mutex. Bot turns and the
// next deal run from clock timers; a timer that fires after the hand moved on does nothing.
type Table struct {
	mu      sync.Mutex
	session *game.Session
	bots    map[int]*bot.Bot

	clock         quartz.Clock
	logger        *log.Logger
	botDelay      time.Duration
	nextHandDelay time.Duration
	botParams     bot.Params
	botRNG        *rand.Rand

	botTimer  *quartz.Timer
	dealTimer *quartz.Timer
	started   bool
	closed    bool
	halted    error
	done      chan struct{}

	// Events raised under mu are queued and delivered once it is released, so
	// subscribers may call back into the table.
	queued []game.GameEvent
	bus    *game.EventBus
}

// New wraps session. Every seat flagged as a bot is played by a bot.Bot.
func New(session *game.Session, opts ...Option) *Table {
	t := &Table{
		session:       session,
		bots:          make(map[int]*bot.Bot),
		clock:         quartz.NewReal(),
		logger:        log.Default(),
		botDelay:      time.Second,
		nextHandDelay: 3 * time.Second,
		botParams:     bot.DefaultParams(),
		done:          make(chan struct{}),
		bus:           game.NewEventBus(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.botRNG == nil {
		t.botRNG = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	t.logger = t.logger.WithPrefix("table")
	for _, p := range session.Players() {
		if p.Bot {
			t.bots[p.ID] = bot.New(t.botParams, t.botRNG, t.logger)
		}
	}
	session.Subscribe(t.record)
	return t
}

// Subscribe registers fn for game events. Events are delivered outside the table lock,
// after the mutation that raised them.
func (t *Table) Subscribe(fn func(game.GameEvent)) (unsubscribe func()) {
	return t.bus.Subscribe(game.SubscriberFunc(fn))
}

// Start deals the first hand.
func (t *Table) Start() error {
	return t.locked(func() error {
		if err := t.usable(); err != nil {
			return err
		}
		if t.started {
			return errors.New("table already started")
		}
		t.started = true
		t.deal()
		return t.halted
	})
}

// SubmitAction applies an action for seatID. Rejected actions leave the table unchanged
// and return an error wrapping game.ErrIllegalAction.
func (t *Table) SubmitAction(seatID int, action game.Action, amount int) error {
	return t.locked(func() error {
		if err := t.usable(); err != nil {
			return err
		}
		if err := t.session.Apply(seatID, action, amount); err != nil {
			if errors.Is(err, game.ErrIllegalAction) || errors.Is(err, game.ErrNoHandInPlay) {
				return err
			}
			t.halt(err)
			return err
		}
		t.schedule()
		return nil
	})
}

// Snapshot returns a copy of the table state.
func (t *Table) Snapshot() game.GameState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.Snapshot()
}

// Done is closed when the game is over, the table halted or it was closed.
func (t *Table) Done() <-chan struct{} {
	return t.done
}

// Err returns the failure that halted the table, if any.
func (t *Table) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.halted
}

// Close stops pending timers. Later calls to SubmitAction return ErrClosed.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.stopTimers()
	t.finish()
}

// locked runs fn under the lock and then delivers the events it raised.
func (t *Table) locked(fn func() error) error {
	t.mu.Lock()
	err := fn()
	events := t.queued
	t.queued = nil
	t.mu.Unlock()

	for _, ev := range events {
		t.bus.Publish(ev)
	}
	return err
}

func (t *Table) usable() error {
	switch {
	case t.closed:
		return ErrClosed
	case t.halted != nil:
		return fmt.Errorf("%w: %w", ErrHalted, t.halted)
	}
	return nil
}

// record runs under the lock for every session event.
func (t *Table) record(ev game.GameEvent) {
	switch e := ev.(type) {
	case game.PlayerActionEvent:
		t.logger.Debug("action", "hand", e.HandID, "player", e.Name, "action", e.Action, "amount", e.Amount, "pot", e.Pot)
	case game.StreetChangeEvent:
		t.logger.Debug("street", "hand", e.HandID, "street", e.Street, "board", e.Board)
	case game.HandEndEvent:
		t.logger.Info("hand complete", "hand", e.Result.HandID, "winners", e.Result.Winners, "pot", e.Result.Total(), "showdown", e.Result.Showdown)
	case game.GameOverEvent:
		t.logger.Info("game over", "winner", e.WinnerName, "hands", e.Hands, "humanBusted", e.HumanBusted)
	}
	t.queued = append(t.queued, ev)
}

// schedule arms the timer for whatever happens next: a bot turn, the next deal, or
// nothing while a human is to act.
func (t *Table) schedule() {
	t.stopTimers()
	if t.closed || t.halted != nil {
		return
	}
	if t.session.IsOver() {
		t.finish()
		return
	}

	h := t.session.Hand()
	if h == nil || h.IsComplete() {
		t.dealTimer = t.clock.AfterFunc(t.nextHandDelay, func() {
			_ = t.locked(func() error {
				if t.closed || t.halted != nil {
					return nil
				}
				t.deal()
				return nil
			})
		}, "table", "deal")
		return
	}

	p := h.Acting()
	if p == nil || t.bots[p.ID] == nil {
		return
	}
	handID, seq := h.ID, h.Seq()
	t.botTimer = t.clock.AfterFunc(t.botDelay, func() {
		_ = t.locked(func() error {
			t.botTurn(handID, seq)
			return nil
		})
	}, "table", "bot")
}

// deal starts the next hand. Runs under the lock.
func (t *Table) deal() {
	if t.session.IsOver() {
		t.finish()
		return
	}
	h, err := t.session.StartHand()
	if err != nil {
		t.halt(err)
		return
	}
	t.logger.Debug("hand started", "hand", h.ID, "number", t.session.HandNumber())
	t.schedule()
}

// botTurn plays the acting bot if the hand is still where it was when the turn was
// scheduled. Runs under the lock.
func (t *Table) botTurn(handID string, seq int) {
	h := t.session.Hand()
	if t.closed || t.halted != nil || h == nil || h.ID != handID || h.Seq() != seq || h.IsComplete() {
		t.logger.Debug("discarding stale bot turn", "hand", handID, "seq", seq)
		return
	}
	p := h.Acting()
	b := t.bots[p.ID]
	if b == nil {
		return
	}

	d := b.Act(p.Name, bot.ViewOf(h, p))
	err := t.session.Apply(p.ID, d.Action, d.Amount)
	if errors.Is(err, game.ErrIllegalAction) {
		t.logger.Error("bot chose an illegal action", "player", p.Name, "action", d.Action, "amount", d.Amount, "error", err)
		fallback := game.Fold
		if h.ToCall(p) == 0 {
			fallback = game.Check
		}
		err = t.session.Apply(p.ID, fallback, 0)
	}
	if err != nil {
		t.halt(err)
		return
	}
	t.schedule()
}

// halt stops the table after an engine failure.
func (t *Table) halt(err error) {
	var inv *game.InvariantError
	if errors.As(err, &inv) {
		t.logger.Error("invariant violated, halting table", "hand", inv.HandID, "reason", inv.Reason)
	} else {
		t.logger.Error("engine failure, halting table", "error", err)
	}
	t.halted = err
	t.stopTimers()
	t.finish()
}

func (t *Table) stopTimers() {
	if t.botTimer != nil {
		t.botTimer.Stop()
		t.botTimer = nil
	}
	if t.dealTimer != nil {
		t.dealTimer.Stop()
		t.dealTimer = nil
	}
}

func (t *Table) finish() {
	select {
	case <-t.done:
	default:
		close(t.done)
	}
}
