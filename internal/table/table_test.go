package table

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/poker"
)

const (
	botDelay      = time.Second
	nextHandDelay = 3 * time.Second
)

type eventLog struct {
	mu     sync.Mutex
	events []game.GameEvent
}

func (l *eventLog) add(ev game.GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) count(et game.EventType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ev := range l.events {
		if ev.EventType() == et {
			n++
		}
	}
	return n
}

func (l *eventLog) all() []game.GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]game.GameEvent(nil), l.events...)
}

func newTestTable(t *testing.T, seats []game.SeatConfig, opts ...game.SessionOption) (*Table, *quartz.Mock, *eventLog) {
	t.Helper()
	mClock := quartz.NewMock(t)
	opts = append([]game.SessionOption{game.WithRNG(randutil.New(11)), game.WithSessionClock(mClock)}, opts...)
	session, err := game.NewSession(seats, opts...)
	require.NoError(t, err)

	tbl := New(session,
		WithClock(mClock),
		WithLogger(log.New(io.Discard)),
		WithBotDelay(botDelay),
		WithNextHandDelay(nextHandDelay),
		WithBotRNG(randutil.New(12)),
	)
	t.Cleanup(tbl.Close)

	events := &eventLog{}
	tbl.Subscribe(events.add)
	return tbl, mClock, events
}

func botSeats(n int) []game.SeatConfig {
	seats := make([]game.SeatConfig, n)
	for i := range seats {
		seats[i] = game.SeatConfig{Name: "Bot " + string(rune('A'+i)), Chips: 1000}
	}
	return seats
}

func humanSeats() []game.SeatConfig {
	return []game.SeatConfig{
		{Name: "You", Chips: 1000, Human: true},
		{Name: "Bot 1", Chips: 1000},
		{Name: "Bot 2", Chips: 1000},
	}
}

func advance(ctx context.Context, t *testing.T, mClock *quartz.Mock, d time.Duration) {
	t.Helper()
	mClock.Advance(d).MustWait(ctx)
}

func TestBotActsAfterDelay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tbl, mClock, events := newTestTable(t, botSeats(3))

	require.NoError(t, tbl.Start())
	snap := tbl.Snapshot()
	require.Equal(t, 1, snap.HandNumber)
	require.Equal(t, 0, snap.ToAct)
	assert.Equal(t, 1, events.count(game.EventTypeHandStart))

	advance(ctx, t, mClock, botDelay-time.Millisecond)
	assert.Zero(t, events.count(game.EventTypePlayerAction), "bot waits for its delay")

	advance(ctx, t, mClock, time.Millisecond)
	assert.Equal(t, 1, events.count(game.EventTypePlayerAction))
	assert.NotEqual(t, 0, tbl.Snapshot().ToAct)
}

func TestHumanTurnWaitsForSubmit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tbl, mClock, events := newTestTable(t, humanSeats())

	require.NoError(t, tbl.Start())
	// Button 0 with three seats: the human is first to act preflop.
	before := tbl.Snapshot()
	require.Equal(t, 0, before.ToAct)

	advance(ctx, t, mClock, 10*botDelay)
	assert.Equal(t, before, tbl.Snapshot(), "nothing happens until the human acts")

	err := tbl.SubmitAction(1, game.Fold, 0)
	require.ErrorIs(t, err, game.ErrOutOfTurn)
	require.ErrorIs(t, err, game.ErrIllegalAction)
	err = tbl.SubmitAction(0, game.Raise, 30)
	require.ErrorIs(t, err, game.ErrRaiseTooSmall)
	assert.Equal(t, before, tbl.Snapshot(), "rejected actions leave the table unchanged")

	require.NoError(t, tbl.SubmitAction(0, game.Call, 0))
	assert.Equal(t, 1, tbl.Snapshot().ToAct)
	assert.Equal(t, 1, events.count(game.EventTypePlayerAction))

	advance(ctx, t, mClock, botDelay)
	assert.Equal(t, 2, events.count(game.EventTypePlayerAction))
}

func TestStaleBotTurnIsDiscarded(t *testing.T) {
	t.Parallel()
	tbl, _, _ := newTestTable(t, botSeats(3))
	require.NoError(t, tbl.Start())

	tbl.mu.Lock()
	h := tbl.session.Hand()
	handID, seq := h.ID, h.Seq()
	tbl.mu.Unlock()

	// Another caller acts for the seat before its timer fires.
	require.NoError(t, tbl.SubmitAction(0, game.Fold, 0))
	after := tbl.Snapshot()

	require.NoError(t, tbl.locked(func() error {
		tbl.botTurn(handID, seq)
		return nil
	}))
	assert.Equal(t, after, tbl.Snapshot())

	require.NoError(t, tbl.locked(func() error {
		tbl.botTurn("some-other-hand", seq+1)
		return nil
	}))
	assert.Equal(t, after, tbl.Snapshot())
}

func TestNextHandDealtAfterDelay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tbl, mClock, events := newTestTable(t, botSeats(3))
	require.NoError(t, tbl.Start())

	for guard := 0; events.count(game.EventTypeHandEnd) == 0; guard++ {
		require.Less(t, guard, 100)
		advance(ctx, t, mClock, botDelay)
	}
	assert.Equal(t, 1, tbl.Snapshot().HandNumber)
	assert.True(t, tbl.Snapshot().HandComplete)

	advance(ctx, t, mClock, nextHandDelay-time.Millisecond)
	assert.Equal(t, 1, tbl.Snapshot().HandNumber)
	advance(ctx, t, mClock, time.Millisecond)
	assert.Equal(t, 2, tbl.Snapshot().HandNumber)

	var ended, started time.Time
	for _, ev := range events.all() {
		switch ev.EventType() {
		case game.EventTypeHandEnd:
			ended = ev.Timestamp()
		case game.EventTypeHandStart:
			started = ev.Timestamp()
		}
	}
	assert.Equal(t, nextHandDelay, started.Sub(ended))
}

func TestTablePlaysToGameOver(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	seats := []game.SeatConfig{{Name: "A", Chips: 60}, {Name: "B", Chips: 60}, {Name: "C", Chips: 60}}
	tbl, mClock, events := newTestTable(t, seats)
	require.NoError(t, tbl.Start())

	for guard := 0; ; guard++ {
		require.Less(t, guard, 10000)
		select {
		case <-tbl.Done():
		default:
			_, w := mClock.AdvanceNext()
			w.MustWait(ctx)
			continue
		}
		break
	}

	require.NoError(t, tbl.Err())
	snap := tbl.Snapshot()
	assert.True(t, snap.GameOver)
	require.GreaterOrEqual(t, snap.Winner, 0)
	assert.Equal(t, 180, snap.Seat(snap.Winner).Chips)
	assert.Equal(t, 1, events.count(game.EventTypeGameOver))
}

func TestCloseStopsTable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tbl, mClock, events := newTestTable(t, botSeats(3))
	require.NoError(t, tbl.Start())

	tbl.Close()
	advance(ctx, t, mClock, botDelay)
	assert.Zero(t, events.count(game.EventTypePlayerAction))
	assert.ErrorIs(t, tbl.SubmitAction(0, game.Fold, 0), ErrClosed)
	assert.ErrorIs(t, tbl.Start(), ErrClosed)

	select {
	case <-tbl.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestEngineFailureHaltsTable(t *testing.T) {
	t.Parallel()
	seats := []game.SeatConfig{{Name: "You", Chips: 1000, Human: true}, {Name: "Bot", Chips: 1000}}
	// Enough cards for the hole cards only.
	deck := func() *poker.Deck { return poker.NewStackedDeck(poker.MustParseCards("As Ah Ks Kh")...) }
	tbl, _, _ := newTestTable(t, seats, game.WithDeckSource(deck))
	require.NoError(t, tbl.Start())

	// Heads-up with the button on seat 0: the bot posts the small blind and acts first.
	require.NoError(t, tbl.SubmitAction(1, game.Call, 0))
	err := tbl.SubmitAction(0, game.Check, 0)
	require.ErrorIs(t, err, poker.ErrEmptyDeck)

	require.ErrorIs(t, tbl.Err(), poker.ErrEmptyDeck)
	err = tbl.SubmitAction(1, game.Check, 0)
	assert.ErrorIs(t, err, ErrHalted)
	assert.ErrorIs(t, err, poker.ErrEmptyDeck)

	select {
	case <-tbl.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestChipAccountingFailureHaltsTable(t *testing.T) {
	t.Parallel()
	seats := []game.SeatConfig{{Name: "You", Chips: 1000, Human: true}, {Name: "Bot", Chips: 1000}}
	tbl, _, _ := newTestTable(t, seats)
	require.NoError(t, tbl.Start())

	tbl.mu.Lock()
	tbl.session.Hand().Players[0].Chips += 5
	tbl.mu.Unlock()

	err := tbl.SubmitAction(1, game.Call, 0)
	var inv *game.InvariantError
	require.ErrorAs(t, err, &inv)
	require.ErrorAs(t, tbl.Err(), &inv)

	err = tbl.SubmitAction(0, game.Check, 0)
	assert.ErrorIs(t, err, ErrHalted)
	assert.ErrorAs(t, err, &inv)

	select {
	case <-tbl.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestSubscriberMayCallBack(t *testing.T) {
	t.Parallel()
	tbl, _, _ := newTestTable(t, humanSeats())

	var snaps []game.GameState
	tbl.Subscribe(func(ev game.GameEvent) {
		if ev.EventType() == game.EventTypePlayerAction {
			snaps = append(snaps, tbl.Snapshot())
		}
	})
	require.NoError(t, tbl.Start())
	require.NoError(t, tbl.SubmitAction(0, game.Call, 0))
	require.Len(t, snaps, 1)
	assert.Equal(t, 1, snaps[0].ToAct)
}
