package watchers

import (
	"github.com/deckforge/combat-core-go/internal/game/rules"
)

// CardsDrawnWatcher counts cards drawn per combatant.
type CardsDrawnWatcher struct {
	*rules.BaseWatcher
	drawn map[string]int // combatantID -> cards drawn
}

// NewCardsDrawnWatcher creates a new cards drawn watcher.
func NewCardsDrawnWatcher() *CardsDrawnWatcher {
	w := &CardsDrawnWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeCombat),
		drawn:       make(map[string]int),
	}
	w.SetKey("CardsDrawnWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *CardsDrawnWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardDrawn || event.PlayerID == "" {
		return
	}
	w.drawn[event.PlayerID] += event.Amount
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsDrawnWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.drawn = make(map[string]int)
}

// GetCount returns the number of cards drawn by a combatant.
func (w *CardsDrawnWatcher) GetCount(combatantID string) int {
	return w.drawn[combatantID]
}

// CardsDiscardedWatcher records discarded card ids per combatant.
type CardsDiscardedWatcher struct {
	*rules.BaseWatcher
	discarded map[string][]string // combatantID -> card instance ids
}

// NewCardsDiscardedWatcher creates a new cards discarded watcher.
func NewCardsDiscardedWatcher() *CardsDiscardedWatcher {
	w := &CardsDiscardedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeCombat),
		discarded:   make(map[string][]string),
	}
	w.SetKey("CardsDiscardedWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *CardsDiscardedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardDiscarded || event.PlayerID == "" || event.TargetID == "" {
		return
	}
	w.discarded[event.PlayerID] = append(w.discarded[event.PlayerID], event.TargetID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsDiscardedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.discarded = make(map[string][]string)
}

// GetDiscarded returns the card ids a combatant discarded, in order.
func (w *CardsDiscardedWatcher) GetDiscarded(combatantID string) []string {
	return w.discarded[combatantID]
}

// GetCount returns the number of cards a combatant discarded.
func (w *CardsDiscardedWatcher) GetCount(combatantID string) int {
	return len(w.discarded[combatantID])
}

// StatusAppliedWatcher sums stacks applied per combatant and status kind.
type StatusAppliedWatcher struct {
	*rules.BaseWatcher
	applied map[string]map[string]int // ownerID -> kind -> stacks
}

// NewStatusAppliedWatcher creates a new status applied watcher.
func NewStatusAppliedWatcher() *StatusAppliedWatcher {
	w := &StatusAppliedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeCombat),
		applied:     make(map[string]map[string]int),
	}
	w.SetKey("StatusAppliedWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *StatusAppliedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventStatusApplied || event.PlayerID == "" || event.Data == "" {
		return
	}
	byKind := w.applied[event.PlayerID]
	if byKind == nil {
		byKind = make(map[string]int)
		w.applied[event.PlayerID] = byKind
	}
	byKind[event.Data] += event.Amount
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *StatusAppliedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.applied = make(map[string]map[string]int)
}

// GetStacks returns the total stacks of kind ever applied to a combatant.
func (w *StatusAppliedWatcher) GetStacks(ownerID, kind string) int {
	return w.applied[ownerID][kind]
}

// GetApplications returns the total stacks applied to a combatant across
// every kind.
func (w *StatusAppliedWatcher) GetApplications(ownerID string) int {
	total := 0
	for _, stacks := range w.applied[ownerID] {
		total += stacks
	}
	return total
}

// DamageDealtWatcher sums HP lost to attacks, by attacker.
type DamageDealtWatcher struct {
	*rules.BaseWatcher
	dealt map[string]int // sourceID -> HP removed
}

// NewDamageDealtWatcher creates a new damage dealt watcher.
func NewDamageDealtWatcher() *DamageDealtWatcher {
	w := &DamageDealtWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeCombat),
		dealt:       make(map[string]int),
	}
	w.SetKey("DamageDealtWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *DamageDealtWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDamageDealt || event.SourceID == "" {
		return
	}
	w.dealt[event.SourceID] += event.Amount
	if event.Amount > 0 {
		w.SetCondition(true)
	}
}

// Reset clears the watcher's state.
func (w *DamageDealtWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.dealt = make(map[string]int)
}

// GetDamage returns the HP an attacker removed.
func (w *DamageDealtWatcher) GetDamage(sourceID string) int {
	return w.dealt[sourceID]
}

// Stats is a summary of one combatant's activity.
type Stats struct {
	CardsDrawn     int
	CardsDiscarded int
	StatusStacks   int
	DamageDealt    int
}

// NewCombatStats registers the standard watchers with registry and returns
// a function that summarizes a combatant from them.
func NewCombatStats(registry *rules.WatcherRegistry) func(combatantID string) Stats {
	drawn := NewCardsDrawnWatcher()
	discarded := NewCardsDiscardedWatcher()
	applied := NewStatusAppliedWatcher()
	damage := NewDamageDealtWatcher()
	registry.AddWatcher(drawn)
	registry.AddWatcher(discarded)
	registry.AddWatcher(applied)
	registry.AddWatcher(damage)

	return func(combatantID string) Stats {
		return Stats{
			CardsDrawn:     drawn.GetCount(combatantID),
			CardsDiscarded: discarded.GetCount(combatantID),
			StatusStacks:   applied.GetApplications(combatantID),
			DamageDealt:    damage.GetDamage(combatantID),
		}
	}
}
