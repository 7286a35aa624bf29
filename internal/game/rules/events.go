package rules

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType indicates the category of a round event.
type EventType string

const (
	// Round events
	EventRoundStarted EventType = "ROUND_STARTED"
	EventShuffled     EventType = "SHUFFLED"
	EventStepChanged  EventType = "STEP_CHANGED"

	// Zone events
	EventCardDetached      EventType = "CARD_DETACHED"
	EventCardAttached      EventType = "CARD_ATTACHED"
	EventTransferScheduled EventType = "TRANSFER_SCHEDULED"
	EventTransferFinalized EventType = "TRANSFER_FINALIZED"
	EventCardsDrawn        EventType = "CARDS_DRAWN"

	// Play events
	EventCardSelected   EventType = "CARD_SELECTED"
	EventCardDeselected EventType = "CARD_DESELECTED"
	EventPlayAccepted   EventType = "PLAY_ACCEPTED"
	EventPlayRejected   EventType = "PLAY_REJECTED"
	EventReserveLocked  EventType = "RESERVE_LOCKED"
	EventReserveMisplay EventType = "RESERVE_MISPLAY"
	EventPileBurned     EventType = "PILE_BURNED"
	EventPilePickedUp   EventType = "PILE_PICKED_UP"
	EventPickupRefused  EventType = "PICKUP_REFUSED"
)

// Event represents a state change that watchers and notifiers may react to.
type Event struct {
	Type        EventType
	ID          string
	CardID      int    // card the event is about, -1 when none
	Zone        string // zone the event relates to
	Source      string // zone a transfer left from
	Amount      int
	Outcome     Outcome
	Rank        int
	Timestamp   time.Time
	Metadata    map[string]string
	Description string
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener is a listener filtered to a single event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

type handleListener struct {
	handle   int
	listener Listener
}

// EventBus provides a synchronous publish/subscribe implementation with type
// filtering. Listeners run in subscription order.
type EventBus struct {
	mu             sync.RWMutex
	listeners      []handleListener
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners = append(bus.listeners, handleListener{handle: handle, listener: listener})
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle,
// whether it was registered with Subscribe or SubscribeTyped.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, l := range bus.listeners {
		if l.handle == handle {
			bus.listeners = append(bus.listeners[:i], bus.listeners[i+1:]...)
			return
		}
	}
	for eventType, listeners := range bus.typedListeners {
		for i := range listeners {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
// Listeners must not subscribe or unsubscribe from inside a callback.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, l := range bus.listeners {
		l.listener(event)
	}
	for _, l := range bus.typedListeners[event.Type] {
		l.Callback(event)
	}
}

// PublishBatch publishes multiple events in order.
func (bus *EventBus) PublishBatch(events []Event) {
	for _, event := range events {
		bus.Publish(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, cardID int, zone string) Event {
	return Event{
		Type:      eventType,
		ID:        uuid.New().String(),
		CardID:    cardID,
		Zone:      zone,
		Timestamp: time.Now(),
		Metadata:  make(map[string]string),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, zone string, amount int) Event {
	evt := NewEvent(eventType, -1, zone)
	evt.Amount = amount
	return evt
}
