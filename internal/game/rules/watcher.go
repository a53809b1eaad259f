package rules

import (
	"sync"
)

// WatcherScope defines the scope of a watcher's tracking.
type WatcherScope int

const (
	// WatcherScopeCombat tracks events for the entire combat.
	WatcherScopeCombat WatcherScope = iota
	// WatcherScopeCombatant tracks events for a single combatant.
	WatcherScopeCombatant
)

// String returns the string representation of the watcher scope.
func (ws WatcherScope) String() string {
	switch ws {
	case WatcherScopeCombat:
		return "COMBAT"
	case WatcherScopeCombatant:
		return "COMBATANT"
	default:
		return "UNKNOWN"
	}
}

// Watcher observes combat events and tracks a condition. Watchers are
// observational collaborators (UI, analytics); the core never reads them back.
type Watcher interface {
	// Watch is called for every published event.
	Watch(event Event)

	// Reset clears the watcher's condition and state.
	Reset()

	// ConditionMet returns true if the tracked condition has been met.
	ConditionMet() bool

	// GetScope returns the scope of this watcher.
	GetScope() WatcherScope

	// GetKey returns a unique key for this watcher instance.
	GetKey() string
}

// BaseWatcher provides a base implementation for watchers.
type BaseWatcher struct {
	scope       WatcherScope
	combatantID string
	condition   bool
	key         string
}

// NewBaseWatcher creates a new base watcher with the specified scope.
func NewBaseWatcher(scope WatcherScope) *BaseWatcher {
	return &BaseWatcher{scope: scope}
}

// GetScope returns the watcher's scope.
func (bw *BaseWatcher) GetScope() WatcherScope {
	return bw.scope
}

// SetCombatantID sets the watched combatant (for COMBATANT scope watchers).
func (bw *BaseWatcher) SetCombatantID(id string) {
	bw.combatantID = id
}

// GetCombatantID returns the watched combatant ID.
func (bw *BaseWatcher) GetCombatantID() string {
	return bw.combatantID
}

// ConditionMet returns whether the condition has been met.
func (bw *BaseWatcher) ConditionMet() bool {
	return bw.condition
}

// SetCondition sets the condition flag.
func (bw *BaseWatcher) SetCondition(condition bool) {
	bw.condition = condition
}

// Reset clears the condition.
func (bw *BaseWatcher) Reset() {
	bw.condition = false
}

// GetKey returns the unique key for this watcher.
func (bw *BaseWatcher) GetKey() string {
	return bw.key
}

// SetKey sets the unique key for this watcher.
func (bw *BaseWatcher) SetKey(key string) {
	bw.key = key
}

// WatcherRegistry manages the watchers of one combat session.
type WatcherRegistry struct {
	mu       sync.RWMutex
	watchers map[string]Watcher
	order    []string
	handle   int
	bus      *EventBus
}

// NewWatcherRegistry creates a new watcher registry.
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{
		watchers: make(map[string]Watcher),
		handle:   -1,
	}
}

// AddWatcher adds a watcher to the registry, replacing any watcher with the same key.
func (wr *WatcherRegistry) AddWatcher(watcher Watcher) {
	if watcher == nil {
		return
	}
	wr.mu.Lock()
	defer wr.mu.Unlock()

	key := watcher.GetKey()
	if _, exists := wr.watchers[key]; !exists {
		wr.order = append(wr.order, key)
	}
	wr.watchers[key] = watcher
}

// RemoveWatcher removes a watcher from the registry.
func (wr *WatcherRegistry) RemoveWatcher(key string) {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	if _, ok := wr.watchers[key]; !ok {
		return
	}
	delete(wr.watchers, key)
	for i, k := range wr.order {
		if k == key {
			wr.order = append(wr.order[:i], wr.order[i+1:]...)
			break
		}
	}
}

// GetWatcher retrieves a watcher by key.
func (wr *WatcherRegistry) GetWatcher(key string) Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	return wr.watchers[key]
}

// ResetWatchers resets all watchers.
func (wr *WatcherRegistry) ResetWatchers() {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, key := range wr.order {
		wr.watchers[key].Reset()
	}
}

// NotifyWatchers notifies all watchers of an event in registration order.
func (wr *WatcherRegistry) NotifyWatchers(event Event) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, key := range wr.order {
		wr.watchers[key].Watch(event)
	}
}

// Attach subscribes the registry to every event published on bus.
func (wr *WatcherRegistry) Attach(bus *EventBus) {
	if bus == nil {
		return
	}
	wr.Detach()
	wr.mu.Lock()
	wr.bus = bus
	wr.mu.Unlock()
	handle := bus.Subscribe(wr.NotifyWatchers)
	wr.mu.Lock()
	wr.handle = handle
	wr.mu.Unlock()
}

// Detach removes the registry's subscription, if any.
func (wr *WatcherRegistry) Detach() {
	wr.mu.Lock()
	bus, handle := wr.bus, wr.handle
	wr.bus, wr.handle = nil, -1
	wr.mu.Unlock()
	if bus != nil && handle >= 0 {
		bus.Unsubscribe(handle)
	}
}
