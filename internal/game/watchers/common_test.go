package watchers

import (
	"testing"

	"github.com/deckforge/combat-core-go/internal/game/cards"
	"github.com/deckforge/combat-core-go/internal/game/piles"
	"github.com/deckforge/combat-core-go/internal/game/rng"
	"github.com/deckforge/combat-core-go/internal/game/rules"
	"github.com/deckforge/combat-core-go/internal/game/status"
)

func TestCardsDrawnWatcher(t *testing.T) {
	watcher := NewCardsDrawnWatcher()

	if watcher.ConditionMet() {
		t.Fatal("watcher should not have condition met initially")
	}

	watcher.Watch(rules.NewEventWithAmount(rules.EventCardDrawn, "", "", "player", 5))
	watcher.Watch(rules.NewEventWithAmount(rules.EventCardDrawn, "", "", "player", 2))
	watcher.Watch(rules.NewEventWithAmount(rules.EventCardDiscarded, "c1", "", "player", 1))

	if !watcher.ConditionMet() {
		t.Fatal("watcher should have condition met after a draw")
	}
	if got := watcher.GetCount("player"); got != 7 {
		t.Fatalf("expected 7 cards drawn, got %d", got)
	}

	watcher.Reset()
	if watcher.ConditionMet() {
		t.Fatal("watcher should not have condition met after reset")
	}
	if got := watcher.GetCount("player"); got != 0 {
		t.Fatalf("expected 0 cards drawn after reset, got %d", got)
	}
}

func TestCardsDiscardedWatcher(t *testing.T) {
	watcher := NewCardsDiscardedWatcher()

	watcher.Watch(rules.NewEvent(rules.EventCardDiscarded, "c1", "", "player"))
	watcher.Watch(rules.NewEvent(rules.EventCardDiscarded, "c2", "", "player"))
	watcher.Watch(rules.NewEvent(rules.EventCardDiscarded, "", "", "player"))

	if got := watcher.GetCount("player"); got != 2 {
		t.Fatalf("expected 2 discards, got %d", got)
	}
	discarded := watcher.GetDiscarded("player")
	if discarded[0] != "c1" || discarded[1] != "c2" {
		t.Fatalf("unexpected discard order %v", discarded)
	}
}

func TestStatusAppliedWatcher(t *testing.T) {
	watcher := NewStatusAppliedWatcher()

	apply := func(owner, kind string, stacks int) {
		evt := rules.NewEventWithAmount(rules.EventStatusApplied, owner, "", owner, stacks)
		evt.Data = kind
		watcher.Watch(evt)
	}
	apply("enemy-1", "poison", 3)
	apply("enemy-1", "poison", 2)
	apply("enemy-1", "weak", 1)
	apply("player", "strength", 2)

	if got := watcher.GetStacks("enemy-1", "poison"); got != 5 {
		t.Fatalf("expected 5 poison stacks, got %d", got)
	}
	if got := watcher.GetApplications("enemy-1"); got != 6 {
		t.Fatalf("expected 6 stacks in total, got %d", got)
	}
	if got := watcher.GetStacks("player", "poison"); got != 0 {
		t.Fatalf("expected no poison on player, got %d", got)
	}
}

func TestDamageDealtWatcher(t *testing.T) {
	watcher := NewDamageDealtWatcher()

	watcher.Watch(rules.NewEventWithAmount(rules.EventDamageDealt, "enemy-1", "player", "player", 0))
	if watcher.ConditionMet() {
		t.Fatal("fully blocked damage should not meet the condition")
	}
	watcher.Watch(rules.NewEventWithAmount(rules.EventDamageDealt, "enemy-1", "player", "player", 6))

	if got := watcher.GetDamage("player"); got != 6 {
		t.Fatalf("expected 6 damage, got %d", got)
	}
}

type dummy struct{ id string }

func (d dummy) ID() string                { return d.id }
func (d dummy) TakeDamage(amount int) int { return amount }
func (d dummy) Heal(amount int) int       { return amount }

func TestCombatStatsFromBus(t *testing.T) {
	bus := rules.NewEventBus()
	registry := rules.NewWatcherRegistry()
	stats := NewCombatStats(registry)
	registry.Attach(bus)

	strike := &cards.Definition{ID: "strike", Cost: 1}
	deck := make([]*cards.Definition, 10)
	for i := range deck {
		deck[i] = strike
	}
	mgr := piles.NewManager(piles.Options{OwnerID: "player", RNG: rng.NewSeeded(3), Bus: bus})
	mgr.InitializeDeck(deck)
	mgr.Draw(5)
	mgr.DiscardHand()

	engine := status.NewEngine(dummy{id: "player"}, status.Options{Bus: bus})
	strength, _ := status.NewDefaultRegistry().Get(status.KindStrength)
	engine.Apply(strength, 2)

	got := stats("player")
	if got.CardsDrawn != 5 || got.CardsDiscarded != 5 || got.StatusStacks != 2 {
		t.Fatalf("unexpected stats %+v", got)
	}

	registry.Detach()
	mgr.Draw(5)
	if got := stats("player"); got.CardsDrawn != 5 {
		t.Fatalf("detached registry should not count, got %d", got.CardsDrawn)
	}

	registry.ResetWatchers()
	if got := stats("player"); got != (Stats{}) {
		t.Fatalf("expected empty stats after reset, got %+v", got)
	}
}
