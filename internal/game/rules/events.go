package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a combat notification.
type EventType string

const (
	// Pile events
	EventCardDrawn     EventType = "CARD_DRAWN"
	EventCardDiscarded EventType = "CARD_DISCARDED"
	EventCardExhausted EventType = "CARD_EXHAUSTED"
	EventCardAdded     EventType = "CARD_ADDED"
	EventPileShuffled  EventType = "PILE_SHUFFLED"
	EventPileRecycled  EventType = "PILE_RECYCLED" // discard moved into draw mid-draw

	// Card play events
	EventCardPlayed   EventType = "CARD_PLAYED"
	EventEnergyGained EventType = "ENERGY_GAINED"

	// Status events
	EventStatusApplied   EventType = "STATUS_APPLIED"
	EventStatusRemoved   EventType = "STATUS_REMOVED"
	EventStatusTriggered EventType = "STATUS_TRIGGERED"

	// Combatant events
	EventDamageDealt   EventType = "DAMAGE_DEALT"
	EventBlockGained   EventType = "BLOCK_GAINED"
	EventHealed        EventType = "HEALED"
	EventCombatantDied EventType = "COMBATANT_DIED"

	// Enemy AI events
	EventIntentDeclared EventType = "INTENT_DECLARED"
	EventIntentResolved EventType = "INTENT_RESOLVED"

	// Turn events
	EventTurnStarted   EventType = "TURN_STARTED"
	EventTurnEnded     EventType = "TURN_ENDED"
	EventCombatStarted EventType = "COMBAT_STARTED"
	EventCombatEnded   EventType = "COMBAT_ENDED"
)

// Event is an observational notification published by the combat core.
// Nothing in the core waits on or reacts to delivery.
type Event struct {
	Type        EventType
	TargetID    string            // card or combatant the event is about
	SourceID    string            // card or combatant that caused it
	PlayerID    string            // owning combatant, when relevant
	Amount      int               // count, damage, stack delta, ...
	Data        string            // additional string data (status kind, intent, ...)
	Timestamp   time.Time
	Metadata    map[string]string
	Description string
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

type handledListener struct {
	handle   int
	listener Listener
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
// Listeners are called in subscription order.
type EventBus struct {
	mu             sync.RWMutex
	listeners      []handledListener
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
	bus.listeners = append(bus.listeners, handledListener{handle: handle, listener: listener})
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
			bus.listeners = append(bus.listeners[:i:i], bus.listeners[i+1:]...)
			break
		}
	}
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
// A nil bus drops the event, so components can run without observers.
// Listeners may subscribe or unsubscribe while handling an event; the change
// applies from the next Publish.
func (bus *EventBus) Publish(event Event) {
	if bus == nil {
		return
	}
	bus.mu.RLock()
	listeners := append([]handledListener(nil), bus.listeners...)
	typed := append([]TypedListener(nil), bus.typedListeners[event.Type]...)
	bus.mu.RUnlock()

	for _, l := range listeners {
		l.listener(event)
	}
	for _, l := range typed {
		l.Callback(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, targetID, sourceID, playerID string) Event {
	return Event{
		Type:      eventType,
		TargetID:  targetID,
		SourceID:  sourceID,
		PlayerID:  playerID,
		Timestamp: time.Now(),
		Metadata:  make(map[string]string),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, targetID, sourceID, playerID string, amount int) Event {
	evt := NewEvent(eventType, targetID, sourceID, playerID)
	evt.Amount = amount
	return evt
}
