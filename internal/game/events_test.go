package game

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusOrderAndUnsubscribe(t *testing.T) {
	t.Parallel()
	bus := NewEventBus()

	var got []string
	unsubA := bus.Subscribe(SubscriberFunc(func(GameEvent) { got = append(got, "a") }))
	bus.Subscribe(SubscriberFunc(func(GameEvent) { got = append(got, "b") }))
	bus.Subscribe(SubscriberFunc(func(GameEvent) { got = append(got, "c") }))

	bus.Publish(HandEndEvent{})
	assert.Equal(t, []string{"a", "b", "c"}, got)

	got = nil
	unsubA()
	unsubA()
	bus.Publish(HandEndEvent{})
	assert.Equal(t, []string{"b", "c"}, got)
}

func TestHandEventSequence(t *testing.T) {
	t.Parallel()
	mClock := quartz.NewMock(t)
	start := mClock.Now()

	var events []GameEvent
	deck := stackedDeck(0, []string{"As Ah", "Ks Kh", "Qs Qh"}, "2c 7d 9h Jc 3d")
	h := newTestHand(t, testPlayers(1000, 1000, 1000), 0,
		WithDeck(deck),
		WithClock(mClock),
		WithPublisher(func(ev GameEvent) { events = append(events, ev) }),
	)
	checkDown(t, h)

	var types []EventType
	for _, ev := range events {
		types = append(types, ev.EventType())
		assert.Equal(t, start, ev.Timestamp())
	}
	require.NotEmpty(t, types)
	assert.Equal(t, EventTypeHandStart, types[0])
	assert.Equal(t, EventTypeHandEnd, types[len(types)-1])

	streets := 0
	for _, ev := range events {
		if sc, ok := ev.(StreetChangeEvent); ok {
			streets++
			assert.Len(t, sc.Board, 2+int(sc.Street))
		}
	}
	assert.Equal(t, 3, streets)

	hs := events[0].(HandStartEvent)
	assert.Equal(t, "test", hs.HandID)
	assert.Equal(t, 0, hs.Button)
	assert.Equal(t, 1, hs.SmallBlindSeat)
	assert.Equal(t, 2, hs.BigBlindSeat)
	assert.Equal(t, []string{"P0", "P1", "P2"}, hs.Players)

	end := events[len(events)-1].(HandEndEvent)
	assert.Equal(t, []int{0}, end.Result.Winners)
	assert.Equal(t, 60, end.Result.Total())
}

func TestHandOptions(t *testing.T) {
	t.Parallel()

	t.Run("generated hand IDs are UUIDs", func(t *testing.T) {
		t.Parallel()
		h, err := NewHand(nil, testPlayers(100, 100), 0, 1, 2,
			WithDeck(stackedDeck(0, []string{"As Ah", "Ks Kh"}, "2c 7d 9h Jc 3d")))
		require.NoError(t, err)
		_, err = uuid.Parse(h.ID)
		assert.NoError(t, err)
	})

	t.Run("rng required without a deck", func(t *testing.T) {
		t.Parallel()
		_, err := NewHand(nil, testPlayers(100, 100), 0, 1, 2)
		assert.Error(t, err)
	})

	t.Run("explicit hand ID", func(t *testing.T) {
		t.Parallel()
		h := newTestHand(t, testPlayers(100, 100), 1, WithHandID("custom"))
		assert.Equal(t, "custom", h.ID)
	})
}
