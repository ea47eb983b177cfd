package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a session event.
type EventType string

const (
	EventSessionCreated EventType = "SESSION_CREATED"
	EventPhaseChanged   EventType = "PHASE_CHANGED"
	EventRosterDealt    EventType = "ROSTER_DEALT"
	EventHoldToggled    EventType = "HOLD_TOGGLED"
	EventRelaxedRoster  EventType = "RELAXED_ROSTER"
	EventPlayerResolved EventType = "PLAYER_RESOLVED"
	EventSessionResult  EventType = "SESSION_RESULT"
	EventSessionReset   EventType = "SESSION_RESET"
)

// Event is a change in a session that hosts may react to, for example to
// animate a card flip or refresh a cap meter.
type Event struct {
	Type      EventType
	SessionID string
	From      State
	To        State
	SlotIndex int     // -1 when the event is not about a slot
	PlayerID  string  // rostered player the event concerns, if any
	Amount    float64 // fantasy points or salary, depending on Type
	Flag      bool    // held state for HOLD_TOGGLED, win for SESSION_RESULT
	Timestamp time.Time
}

// NewEvent creates an event not tied to a slot.
func NewEvent(eventType EventType, sessionID string, at time.Time) Event {
	return Event{Type: eventType, SessionID: sessionID, SlotIndex: -1, Timestamp: at}
}

// NewPhaseEvent records a state machine edge.
func NewPhaseEvent(sessionID string, from, to State, at time.Time) Event {
	evt := NewEvent(EventPhaseChanged, sessionID, at)
	evt.From = from
	evt.To = to
	return evt
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	order          []int
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
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
	bus.listeners[handle] = listener
	bus.order = append(bus.order, handle)
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

// Unsubscribe removes the listener identified by handle, typed or not.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if _, ok := bus.listeners[handle]; ok {
		delete(bus.listeners, handle)
		for i, h := range bus.order {
			if h == handle {
				bus.order = append(bus.order[:i], bus.order[i+1:]...)
				break
			}
		}
		return
	}
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event synchronously: catch-all listeners first, in
// subscription order, then listeners for the event's type.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	all := make([]Listener, 0, len(bus.order))
	for _, h := range bus.order {
		all = append(all, bus.listeners[h])
	}
	typed := append([]TypedListener(nil), bus.typedListeners[event.Type]...)
	bus.mu.RUnlock()

	for _, listener := range all {
		listener(event)
	}
	for _, listener := range typed {
		listener.Callback(event)
	}
}
