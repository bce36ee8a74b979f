package game

import (
	"slices"
	"sync"
	"time"

	"github.com/lox/holdem/poker"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeHandStart    EventType = "hand_start"
	EventTypeHandEnd      EventType = "hand_end"
	EventTypeStreetChange EventType = "street_change"
	EventTypePlayerAction EventType = "player_action"
	EventTypeGameOver     EventType = "game_over"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a game
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartEvent is published once blinds are posted and hole cards dealt.
type HandStartEvent struct {
	HandID         string
	Button         int // seat ID
	SmallBlindSeat int
	BigBlindSeat   int
	SmallBlind     int
	BigBlind       int
	Players        []string
	At             time.Time
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Timestamp() time.Time { return e.At }

// PlayerActionEvent is published after an action is applied.
type PlayerActionEvent struct {
	HandID string
	Seat   int
	Name   string
	Street Street
	Action Action
	Amount int // chips moved from the stack by this action
	BetTo  int // player's street bet afterwards
	Pot    int
	At     time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.At }

// StreetChangeEvent is published when community cards are revealed.
type StreetChangeEvent struct {
	HandID string
	Street Street
	Board  []poker.Card
	At     time.Time
}

func (e StreetChangeEvent) EventType() EventType { return EventTypeStreetChange }
func (e StreetChangeEvent) Timestamp() time.Time { return e.At }

// HandEndEvent is published after settlement.
type HandEndEvent struct {
	Result HandResult
	At     time.Time
}

func (e HandEndEvent) EventType() EventType { return EventTypeHandEnd }
func (e HandEndEvent) Timestamp() time.Time { return e.At }

// GameOverEvent is published when the session can deal no further hands.
type GameOverEvent struct {
	Winner      int // seat ID, -1 if the game ended without a sole survivor
	WinnerName  string
	HumanBusted bool
	Hands       int
	At          time.Time
}

func (e GameOverEvent) EventType() EventType { return EventTypeGameOver }
func (e GameOverEvent) Timestamp() time.Time { return e.At }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber.
type SubscriberFunc func(GameEvent)

func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus fans events out to subscribers in subscription order.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[int]EventSubscriber
	order       []int
	next        int
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[int]EventSubscriber)}
}

// Subscribe registers a subscriber and returns a function that removes it.
func (bus *EventBus) Subscribe(subscriber EventSubscriber) (unsubscribe func()) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	id := bus.next
	bus.next++
	bus.subscribers[id] = subscriber
	bus.order = append(bus.order, id)
	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		delete(bus.subscribers, id)
		bus.order = slices.DeleteFunc(bus.order, func(o int) bool { return o == id })
	}
}

// Publish delivers event to every current subscriber.
func (bus *EventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, 0, len(bus.subscribers))
	for _, id := range bus.order {
		if s, ok := bus.subscribers[id]; ok {
			subs = append(subs, s)
		}
	}
	bus.mu.RUnlock()

	for _, s := range subs {
		s.OnEvent(event)
	}
}
